package rewriter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristicRewrite(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "conversational request",
			in:   "I want to buy a gaming laptop",
			want: "gaming laptop",
		},
		{
			name: "polite phrasing",
			in:   "Please find me some good wireless earbuds",
			want: "wireless earbuds",
		},
		{
			name: "already keyword-shaped",
			in:   "mechanical keyboard rgb",
			want: "mechanical keyboard rgb",
		},
		{
			name: "punctuation stripped",
			in:   "phone, 128GB (unlocked)!",
			want: "phone 128gb unlocked",
		},
		{
			name: "all stop words keeps original",
			in:   "I want it",
			want: "I want it",
		},
	}

	h := NewHeuristic()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.Rewrite(context.Background(), tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHeuristicRewriteBlankInput(t *testing.T) {
	h := NewHeuristic()
	got, err := h.Rewrite(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}
