package rewriter

import (
	"context"
	"strings"
	"unicode"
)

// Rewriter maps free-text (or transcribed) shopper input to a normalized
// keyword query. Implementations are best-effort: they must return the
// original trimmed text rather than an empty query when extraction comes
// up empty, so an empty query never silently becomes "match everything".
type Rewriter interface {
	Rewrite(ctx context.Context, freeText string) (string, error)
}

// function words dropped by the heuristic rewriter; content-bearing nouns
// and modifiers survive
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"i": {}, "me": {}, "my": {}, "we": {}, "our": {}, "you": {}, "your": {},
	"he": {}, "she": {}, "it": {}, "they": {}, "them": {},
	"am": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"do": {}, "does": {}, "did": {}, "have": {}, "has": {}, "had": {},
	"will": {}, "would": {}, "can": {}, "could": {}, "should": {}, "shall": {},
	"may": {}, "might": {}, "must": {},
	"want": {}, "need": {}, "like": {}, "looking": {}, "find": {}, "show": {},
	"buy": {}, "get": {}, "give": {}, "please": {}, "some": {}, "any": {},
	"for": {}, "to": {}, "of": {}, "in": {}, "on": {}, "at": {}, "by": {},
	"with": {}, "from": {}, "about": {}, "under": {}, "over": {}, "around": {},
	"and": {}, "or": {}, "but": {}, "not": {}, "no": {},
	"good": {}, "best": {}, "nice": {}, "really": {}, "very": {},
}

// Heuristic is a dependency-free rewriter: it lowercases, strips
// punctuation, and drops function words, keeping the content terms in
// their original order.
type Heuristic struct{}

// NewHeuristic creates the stop-word rewriter.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Rewrite implements Rewriter. It never fails and never returns an empty
// string for non-blank input.
func (h *Heuristic) Rewrite(_ context.Context, freeText string) (string, error) {
	trimmed := strings.TrimSpace(freeText)
	if trimmed == "" {
		return "", nil
	}

	words := strings.FieldsFunc(strings.ToLower(trimmed), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	kept := make([]string, 0, len(words))
	for _, w := range words {
		if _, skip := stopWords[w]; skip {
			continue
		}
		kept = append(kept, w)
	}

	if len(kept) == 0 {
		return trimmed, nil
	}
	return strings.Join(kept, " "), nil
}
