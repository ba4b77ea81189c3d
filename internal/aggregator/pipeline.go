package aggregator

import (
	"context"
	"sort"
	"strings"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/shopspring/decimal"

	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/currency"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/models"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/normalizer"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/rewriter"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/sources"
)

// Options bounds one aggregation run.
type Options struct {
	// PerSourceTimeout caps each adapter fetch.
	PerSourceTimeout time.Duration
	// OverallTimeout is the deadline for the whole fan-out; sources still
	// in flight when it expires are recorded as timed out and the run
	// proceeds with what completed.
	OverallTimeout time.Duration
	// MaxResultsPerSource caps candidates per adapter.
	MaxResultsPerSource int
}

// Aggregator fans a query out to the configured sources and merges their
// candidates into one ranked result.
type Aggregator interface {
	Aggregate(ctx context.Context, query models.SearchQuery, ids []models.SourceID) (*models.AggregationResult, error)
}

type pipeline struct {
	registry  *sources.Registry
	converter currency.Converter
	rewriter  rewriter.Rewriter
	opts      Options
}

// New creates the aggregation pipeline.
func New(registry *sources.Registry, converter currency.Converter, rw rewriter.Rewriter, opts Options) Aggregator {
	return &pipeline{
		registry:  registry,
		converter: converter,
		rewriter:  rw,
		opts:      opts,
	}
}

// fetchOutcome is one source's contribution, tagged with its dispatch
// index so ranking never depends on completion order.
type fetchOutcome struct {
	idx        int
	source     models.SourceID
	candidates []models.RawCandidate
	err        error
}

// ranked pairs a listing with its tie-break coordinates.
type ranked struct {
	listing      models.Listing
	sourceName   string
	originalRank int
}

// Aggregate runs the full pipeline: optional rewrite, concurrent fetch,
// normalization, currency alignment, budget filter, stable rank. Partial
// source failure is absorbed into the status map; the run fails only when
// the query is structurally invalid or every source failed.
func (p *pipeline) Aggregate(ctx context.Context, query models.SearchQuery, ids []models.SourceID) (*models.AggregationResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	resolved, err := p.registry.Resolve(ids)
	if err != nil {
		return nil, models.NewInvalidQueryError(err.Error())
	}
	if len(resolved) == 0 {
		return nil, models.NewInvalidQueryError("no sources configured")
	}

	keywords := p.resolveKeywords(ctx, query)

	outcomes := p.fanOut(ctx, resolved, keywords)

	norm := normalizer.New(profilesOf(resolved))
	statuses := make(map[models.SourceID]models.SourceStatus, len(resolved))
	entries := make([]ranked, 0)
	failures := 0

	for _, outcome := range outcomes {
		if outcome.err != nil {
			se := models.AsSourceError(outcome.source, outcome.err)
			statuses[outcome.source] = models.SourceStatus{
				State:   models.SourceStateFailed,
				Failure: string(se.Kind),
			}
			log.Warnw(ctx, "source failed", "source", outcome.source, "kind", se.Kind, "error", se)
			failures++
			continue
		}

		status := models.SourceStatus{
			State:   models.SourceStateOK,
			Fetched: len(outcome.candidates),
		}
		for rank, raw := range outcome.candidates {
			res := norm.Normalize(raw)
			for _, d := range res.Diags {
				if status.Discards == nil {
					status.Discards = make(map[models.DiscardReason]int)
				}
				status.Discards[d.Reason]++
			}
			if !res.Kept {
				continue
			}
			status.Kept++
			entries = append(entries, ranked{
				listing:      res.Listing,
				sourceName:   string(outcome.source),
				originalRank: rank,
			})
		}
		if status.Kept < status.Fetched {
			status.State = models.SourceStatePartial
		}
		statuses[outcome.source] = status
	}

	if failures == len(resolved) {
		return nil, models.NewAllSourcesFailedError(statuses)
	}

	listings := p.alignAndFilter(ctx, entries, query.Budget)
	rankListings(listings, query.SortBy)

	final := make([]models.Listing, len(listings))
	for i, e := range listings {
		final[i] = e.listing
	}

	log.Infow(ctx, "aggregation complete",
		"keywords", keywords,
		"sources", len(resolved),
		"failed", failures,
		"listings", len(final),
	)

	return &models.AggregationResult{
		Listings: final,
		Sources:  statuses,
	}, nil
}

// resolveKeywords applies the one-shot query rewrite when requested; its
// output replaces the keyword portion of the query for every source.
func (p *pipeline) resolveKeywords(ctx context.Context, query models.SearchQuery) string {
	keywords := query.Keywords
	if keywords == "" {
		keywords = strings.TrimSpace(query.RawText)
	}

	if !query.UseQueryRewrite || p.rewriter == nil {
		return keywords
	}

	rewritten, err := p.rewriter.Rewrite(ctx, keywords)
	if err != nil || strings.TrimSpace(rewritten) == "" {
		log.Warnw(ctx, "query rewrite failed, keeping original keywords", "error", err)
		return keywords
	}
	return rewritten
}

// fanOut dispatches one goroutine per source and joins them, bounded by
// the overall deadline. Results land in dispatch order. Sources that miss
// the deadline are recorded as timed out rather than aborting the run.
func (p *pipeline) fanOut(ctx context.Context, resolved []sources.Source, keywords string) []fetchOutcome {
	if p.opts.OverallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.OverallTimeout)
		defer cancel()
	}

	opts := sources.FetchOptions{
		Timeout:    p.opts.PerSourceTimeout,
		MaxResults: p.opts.MaxResultsPerSource,
	}

	resultCh := make(chan fetchOutcome, len(resolved))
	for i, src := range resolved {
		go func(idx int, src sources.Source) {
			candidates, err := src.Fetch(ctx, keywords, opts)
			resultCh <- fetchOutcome{
				idx:        idx,
				source:     src.ID(),
				candidates: candidates,
				err:        err,
			}
		}(i, src)
	}

	outcomes := make([]fetchOutcome, len(resolved))
	received := make([]bool, len(resolved))
	for range resolved {
		select {
		case outcome := <-resultCh:
			outcomes[outcome.idx] = outcome
			received[outcome.idx] = true
		case <-ctx.Done():
			for idx, src := range resolved {
				if !received[idx] {
					outcomes[idx] = fetchOutcome{
						idx:    idx,
						source: src.ID(),
						err: models.NewSourceError(src.ID(), models.SourceTimeout,
							"aggregation deadline expired", ctx.Err()),
					}
				}
			}
			return outcomes
		}
	}
	return outcomes
}

// alignAndFilter converts listings into the budget's currency and applies
// the price ceiling. Conversion failure degrades a listing instead of
// dropping it: it stays in its original currency, flagged, and skips the
// budget comparison unless its currency already matches.
func (p *pipeline) alignAndFilter(ctx context.Context, entries []ranked, budget models.Money) []ranked {
	kept := make([]ranked, 0, len(entries))
	for _, e := range entries {
		listing := e.listing

		if !listing.Price.SameCurrency(budget) {
			converted, err := p.converter.Convert(ctx, listing.Price, budget.Currency)
			if err != nil {
				log.Warnw(ctx, "currency conversion unavailable, keeping original",
					"source", listing.Source, "from", listing.Price.Currency, "to", budget.Currency)
				listing.CurrencyUnconverted = true
			} else {
				listing = listing.WithPrice(converted)
			}
		}

		if listing.Price.SameCurrency(budget) {
			if listing.Price.Amount.GreaterThan(budget.Amount) {
				continue
			}
		} else {
			// comparing across currencies would be meaningless; retain
			// and flag instead of silently including or excluding
			listing.BudgetComparisonSkipped = true
		}

		e.listing = listing
		kept = append(kept, e)
	}
	return kept
}

// rankListings orders listings by the query criterion: price ascending,
// rating and popularity descending. Ties break by source name, then by
// the candidate's original position, so identical inputs always produce
// identical output.
func rankListings(entries []ranked, criterion models.SortCriterion) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]

		if cmp := compareByCriterion(a.listing, b.listing, criterion); cmp != 0 {
			return cmp < 0
		}
		if a.sourceName != b.sourceName {
			return a.sourceName < b.sourceName
		}
		return a.originalRank < b.originalRank
	})
}

func compareByCriterion(a, b models.Listing, criterion models.SortCriterion) int {
	switch criterion {
	case models.SortByRating:
		return ratingOf(b).Cmp(ratingOf(a))
	case models.SortByPopularity:
		return popularityOf(b) - popularityOf(a)
	default:
		return a.Price.Amount.Cmp(b.Price.Amount)
	}
}

// absent ratings rank below every real rating, including zero
var missingRating = decimal.NewFromInt(-1)

func ratingOf(l models.Listing) decimal.Decimal {
	if l.Rating == nil {
		return missingRating
	}
	return *l.Rating
}

func popularityOf(l models.Listing) int {
	if l.Popularity == nil {
		return -1
	}
	return *l.Popularity
}

func profilesOf(resolved []sources.Source) map[models.SourceID]normalizer.SourceProfile {
	profiles := make(map[models.SourceID]normalizer.SourceProfile, len(resolved))
	for _, src := range resolved {
		profiles[src.ID()] = src.Profile()
	}
	return profiles
}
