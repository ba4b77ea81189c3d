package currency

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/models"
)

// recordingRateSource counts lookups so tests can prove the identity path
// never touches the rate table.
type recordingRateSource struct {
	calls int
	rate  decimal.Decimal
	err   error
}

func (s *recordingRateSource) Rate(_ context.Context, from, to string) (decimal.Decimal, error) {
	s.calls++
	if s.err != nil {
		return decimal.Decimal{}, s.err
	}
	return s.rate, nil
}

func TestConvertIdentitySkipsRateSource(t *testing.T) {
	rates := &recordingRateSource{err: fmt.Errorf("%w: table is down", models.ErrRateUnavailable)}
	c := NewConverter(rates)

	in := models.Money{Amount: decimal.RequireFromString("10.50"), Currency: "USD"}
	out, err := c.Convert(context.Background(), in, "USD")

	require.NoError(t, err, "identity conversion must succeed even with the rate table down")
	assert.Equal(t, in, out)
	assert.Zero(t, rates.calls)
}

func TestConvertAppliesRate(t *testing.T) {
	rates := &recordingRateSource{rate: decimal.RequireFromString("1.08")}
	c := NewConverter(rates)

	in := models.Money{Amount: decimal.RequireFromString("45.00"), Currency: "EUR"}
	out, err := c.Convert(context.Background(), in, "USD")

	require.NoError(t, err)
	assert.Equal(t, "USD", out.Currency)
	assert.True(t, out.Amount.Equal(decimal.RequireFromString("48.60")), "got %s", out.Amount)
	assert.Equal(t, 1, rates.calls)
}

func TestConvertRoundsHalfEven(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"10.125", "10.12"},
		{"10.135", "10.14"},
		{"10.115", "10.12"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			rates := &recordingRateSource{rate: decimal.NewFromInt(1)}
			c := NewConverter(rates)

			in := models.Money{Amount: decimal.RequireFromString(tt.amount), Currency: "EUR"}
			out, err := c.Convert(context.Background(), in, "USD")

			require.NoError(t, err)
			assert.True(t, out.Amount.Equal(decimal.RequireFromString(tt.want)), "got %s", out.Amount)
		})
	}
}

func TestConvertWrapsRateFailure(t *testing.T) {
	rates := &recordingRateSource{err: fmt.Errorf("%w: no pair", models.ErrRateUnavailable)}
	c := NewConverter(rates)

	in := models.Money{Amount: decimal.RequireFromString("45.00"), Currency: "EUR"}
	_, err := c.Convert(context.Background(), in, "USD")

	require.Error(t, err)
	var ce *models.ConversionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "EUR", ce.From)
	assert.Equal(t, "USD", ce.To)
	assert.True(t, errors.Is(err, models.ErrRateUnavailable))
}
