package usecase

import (
	"context"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/shopspring/decimal"

	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/aggregator"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/models"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/transcribe"
)

// voice searches run with the recommend defaults the product has always
// used: a small USD budget and keyword extraction enabled
const (
	voiceDefaultBudget   = 100
	voiceDefaultCurrency = "USD"
)

// RecommendParams is the structured input to one recommendation run,
// assembled by the HTTP layer from the request body.
type RecommendParams struct {
	Product  string
	Budget   float64
	UseNLP   bool
	Currency string
	Language string
	SortBy   string
	Brands   []string
	Sources  []string
}

// SearchUsecase sits between the HTTP layer and the aggregation pipeline:
// it turns request parameters into an immutable SearchQuery and runs it.
type SearchUsecase interface {
	Recommend(ctx context.Context, params RecommendParams) (*models.AggregationResult, error)
	VoiceSearch(ctx context.Context, audio []byte) (*models.AggregationResult, error)
}

type searchUsecase struct {
	aggregator  aggregator.Aggregator
	transcriber transcribe.Transcriber
}

// NewSearchUsecase creates the search usecase.
func NewSearchUsecase(agg aggregator.Aggregator, tr transcribe.Transcriber) SearchUsecase {
	return &searchUsecase{
		aggregator:  agg,
		transcriber: tr,
	}
}

// Recommend builds the SearchQuery and aggregates across the requested
// sources (all registered sources when the request names none).
func (uc *searchUsecase) Recommend(ctx context.Context, params RecommendParams) (*models.AggregationResult, error) {
	sortBy, err := models.ParseSortCriterion(params.SortBy)
	if err != nil {
		return nil, models.NewInvalidQueryError(err.Error())
	}

	query := models.SearchQuery{
		RawText: params.Product,
		Budget: models.Money{
			Amount:   decimal.NewFromFloat(params.Budget),
			Currency: params.Currency,
		},
		PreferredBrands: params.Brands,
		SortBy:          sortBy,
		UseQueryRewrite: params.UseNLP,
		Language:        params.Language,
	}

	ids := make([]models.SourceID, 0, len(params.Sources))
	for _, s := range params.Sources {
		ids = append(ids, models.SourceID(s))
	}

	return uc.aggregator.Aggregate(ctx, query, ids)
}

// VoiceSearch transcribes captured audio and feeds it through the same
// recommend path as typed input.
func (uc *searchUsecase) VoiceSearch(ctx context.Context, audio []byte) (*models.AggregationResult, error) {
	command, err := uc.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return nil, fmt.Errorf("voice command not recognized: %w", err)
	}
	log.Infow(ctx, "voice command recognized", "command", command)

	return uc.Recommend(ctx, RecommendParams{
		Product:  command,
		Budget:   voiceDefaultBudget,
		UseNLP:   true,
		Currency: voiceDefaultCurrency,
	})
}
