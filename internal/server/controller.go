package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/models"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/transcribe"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/usecase"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/pkg/util"
)

type Controller interface {
	Recommend(c echo.Context) error
	VoiceSearch(c echo.Context) error
	Health(c echo.Context) error
}

type controller struct {
	searchUsecase usecase.SearchUsecase
}

func NewHandler(searchUsecase usecase.SearchUsecase) Controller {
	return &controller{
		searchUsecase: searchUsecase,
	}
}

// RecommendRequest is the JSON body of POST /api/v1/recommend.
type RecommendRequest struct {
	Budget   float64  `json:"budget" validate:"required,gt=0"`
	Product  string   `json:"product" validate:"required"`
	UseNLP   bool     `json:"use_nlp"`
	Currency string   `json:"currency"`
	Language string   `json:"language"`
	SortBy   string   `json:"sort_by"`
	Brands   []string `json:"brands"`
	Sources  []string `json:"sources"`
}

type listingResponse struct {
	Name                    string   `json:"name"`
	Price                   float64  `json:"price"`
	Currency                string   `json:"currency"`
	Rating                  *float64 `json:"rating,omitempty"`
	Popularity              *int     `json:"popularity,omitempty"`
	URL                     string   `json:"url,omitempty"`
	Source                  string   `json:"source"`
	CurrencyUnconverted     bool     `json:"currency_unconverted,omitempty"`
	BudgetComparisonSkipped bool     `json:"budget_comparison_skipped,omitempty"`
}

type recommendResponse struct {
	Listings []listingResponse                       `json:"listings"`
	Sources  map[models.SourceID]models.SourceStatus `json:"sources"`
}

func (h *controller) Recommend(c echo.Context) error {
	var req RecommendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Currency == "" {
		req.Currency = "USD"
	}
	if req.Language == "" {
		req.Language = "en"
	}

	ctx := c.Request().Context()
	result, err := h.searchUsecase.Recommend(ctx, usecase.RecommendParams{
		Product:  req.Product,
		Budget:   req.Budget,
		UseNLP:   req.UseNLP,
		Currency: req.Currency,
		Language: req.Language,
		SortBy:   req.SortBy,
		Brands:   req.Brands,
		Sources:  req.Sources,
	})
	if err != nil {
		return respondPipelineError(c, err)
	}

	return c.JSON(http.StatusOK, toRecommendResponse(result))
}

// VoiceSearch feeds captured audio through the transcription collaborator
// and then the regular recommend path.
func (h *controller) VoiceSearch(c echo.Context) error {
	audio, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable audio payload")
	}

	ctx := c.Request().Context()
	result, err := h.searchUsecase.VoiceSearch(ctx, audio)
	if err != nil {
		if errors.Is(err, transcribe.ErrNotConfigured) {
			return echo.NewHTTPError(http.StatusBadRequest, "no valid voice command recognized")
		}
		return respondPipelineError(c, err)
	}

	return c.JSON(http.StatusOK, toRecommendResponse(result))
}

func (h *controller) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "shopping-agent",
	})
}

// respondPipelineError maps the typed pipeline failures onto the error
// response contract: invalid queries are the caller's fault, a fully
// failed fan-out is an upstream problem and still reports each source's
// failure kind.
func respondPipelineError(c echo.Context, err error) error {
	var pe *models.PipelineError
	if errors.As(err, &pe) {
		switch pe.Kind {
		case models.PipelineInvalidQuery:
			return c.JSON(http.StatusBadRequest, map[string]string{"error": pe.Msg})
		case models.PipelineAllSourcesFailed:
			return c.JSON(http.StatusBadGateway, map[string]any{
				"error":   pe.Msg,
				"sources": pe.Sources,
			})
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func toRecommendResponse(result *models.AggregationResult) recommendResponse {
	return recommendResponse{
		Listings: util.ConvertList(result.Listings, toListingResponse),
		Sources:  result.Sources,
	}
}

func toListingResponse(l models.Listing) listingResponse {
	resp := listingResponse{
		Name:                    l.Name,
		Price:                   l.Price.Amount.InexactFloat64(),
		Currency:                l.Price.Currency,
		Popularity:              l.Popularity,
		URL:                     l.SourceURL,
		Source:                  string(l.Source),
		CurrencyUnconverted:     l.CurrencyUnconverted,
		BudgetComparisonSkipped: l.BudgetComparisonSkipped,
	}
	if l.Rating != nil {
		rating := l.Rating.InexactFloat64()
		resp.Rating = &rating
	}
	return resp
}
