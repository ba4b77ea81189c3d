package rewriter

import (
	"context"
	"fmt"
	"strings"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

const keywordPrompt = `Extract the product search keywords from the shopper request below.
Return only the keywords separated by single spaces, lowercase, no punctuation,
no explanation. Keep brand names, product nouns and descriptive modifiers;
drop greetings, budgets and filler words.

Request: %s`

// GenkitRewriter asks an LLM to extract search keywords. Any model failure
// falls back to the heuristic rewriter so a degraded LLM never breaks the
// search path.
type GenkitRewriter struct {
	genkit   *genkit.Genkit
	model    string
	fallback Rewriter
}

// NewGenkitRewriter creates an LLM-backed rewriter using the given model
// name, falling back to fallback on generation errors or empty output.
func NewGenkitRewriter(g *genkit.Genkit, model string, fallback Rewriter) *GenkitRewriter {
	return &GenkitRewriter{
		genkit:   g,
		model:    model,
		fallback: fallback,
	}
}

// Rewrite implements Rewriter.
func (r *GenkitRewriter) Rewrite(ctx context.Context, freeText string) (string, error) {
	trimmed := strings.TrimSpace(freeText)
	if trimmed == "" {
		return "", nil
	}

	response, err := genkit.Generate(ctx, r.genkit,
		ai.WithPrompt(fmt.Sprintf(keywordPrompt, trimmed)),
		ai.WithModelName(r.model),
	)
	if err != nil {
		log.Warnw(ctx, "keyword extraction failed, using heuristic rewrite", "error", err)
		return r.fallback.Rewrite(ctx, freeText)
	}

	keywords := strings.TrimSpace(strings.ToLower(response.Text()))
	if keywords == "" {
		return r.fallback.Rewrite(ctx, freeText)
	}
	return keywords, nil
}
