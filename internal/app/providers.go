package app

import (
	"fmt"

	"github.com/firebase/genkit/go/genkit"

	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/aggregator"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/config"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/currency"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/rewriter"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/sources"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/sources/ebay"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/sources/partnerapi"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/sources/walmart"
)

// newRegistry builds the source registry from config. Registration order
// follows SOURCES_ENABLED, which fixes dispatch order and ranking
// tie-breaks across restarts.
func newRegistry(cfg *config.Config) (*sources.Registry, error) {
	fetcher := sources.NewHTTPPageFetcher(cfg.Sources.FetchTimeout, cfg.Sources.RequestsPerSec)
	registry := sources.NewRegistry()

	for _, name := range cfg.Sources.Enabled {
		var (
			src sources.Source
			err error
		)
		switch name {
		case "ebay":
			src, err = ebay.New(fetcher, cfg.Sources.EbayBaseURL)
		case "walmart":
			src, err = walmart.New(fetcher, cfg.Sources.WalmartBaseURL)
		case "partner_api":
			src, err = partnerapi.New(cfg.Sources.PartnerBaseURL, cfg.Sources.PartnerCurrency, cfg.Sources.FetchTimeout)
		default:
			return nil, fmt.Errorf("unknown source %q in SOURCES_ENABLED", name)
		}
		if err != nil {
			return nil, fmt.Errorf("init source %s: %w", name, err)
		}
		if err := registry.Register(src); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

func newRateSource(cfg *config.Config) currency.RateSource {
	return currency.NewHTTPRateSource(cfg.Currency.RateAPIBaseURL, cfg.Currency.Timeout, cfg.Currency.CacheTTL)
}

func newConverter(rates currency.RateSource) currency.Converter {
	return currency.NewConverter(rates)
}

// newRewriter picks the keyword extractor: the Genkit one when an LLM is
// configured and enabled, the heuristic stop-word filter otherwise. The
// Genkit extractor keeps the heuristic as its fallback so a model outage
// never blocks a search.
func newRewriter(cfg *config.Config, g *genkit.Genkit) rewriter.Rewriter {
	heuristic := rewriter.NewHeuristic()
	if cfg.LLM.UseForRewrite && g != nil {
		return rewriter.NewGenkitRewriter(g, cfg.LLM.Model, heuristic)
	}
	return heuristic
}

func newAggregator(
	cfg *config.Config,
	registry *sources.Registry,
	converter currency.Converter,
	rw rewriter.Rewriter,
) aggregator.Aggregator {
	return aggregator.New(registry, converter, rw, aggregator.Options{
		PerSourceTimeout:    cfg.Sources.FetchTimeout,
		OverallTimeout:      cfg.Sources.OverallTimeout,
		MaxResultsPerSource: cfg.Sources.MaxResults,
	})
}
