package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/models"
	pkgmdw "github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/server/middleware"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/transcribe"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/usecase"
)

type fakeSearchUsecase struct {
	gotParams usecase.RecommendParams
	result    *models.AggregationResult
	err       error

	voiceResult *models.AggregationResult
	voiceErr    error
}

func (u *fakeSearchUsecase) Recommend(_ context.Context, params usecase.RecommendParams) (*models.AggregationResult, error) {
	u.gotParams = params
	if u.err != nil {
		return nil, u.err
	}
	return u.result, nil
}

func (u *fakeSearchUsecase) VoiceSearch(context.Context, []byte) (*models.AggregationResult, error) {
	if u.voiceErr != nil {
		return nil, u.voiceErr
	}
	return u.voiceResult, nil
}

func newTestServer(uc usecase.SearchUsecase) *echo.Echo {
	e := echo.New()
	e.Validator = pkgmdw.NewValidator()
	e.HTTPErrorHandler = errorHandler()

	handler := NewHandler(uc)
	e.GET("/health", handler.Health)
	api := e.Group("/api/v1")
	api.POST("/recommend", handler.Recommend)
	api.GET("/voice_search", handler.VoiceSearch)
	return e
}

func sampleResult() *models.AggregationResult {
	rating := decimal.RequireFromString("4.5")
	pop := 1024
	return &models.AggregationResult{
		Listings: []models.Listing{
			{
				Name:       "Gaming Laptop",
				Price:      models.Money{Amount: decimal.RequireFromString("999.99"), Currency: "USD"},
				Rating:     &rating,
				Popularity: &pop,
				SourceURL:  "https://www.ebay.com/itm/111",
				Source:     models.SourceEbay,
			},
		},
		Sources: map[models.SourceID]models.SourceStatus{
			models.SourceEbay: {State: models.SourceStateOK, Fetched: 1, Kept: 1},
		},
	}
}

func TestRecommendEndpoint(t *testing.T) {
	uc := &fakeSearchUsecase{result: sampleResult()}
	e := newTestServer(uc)

	body := `{"budget": 1500, "product": "gaming laptop", "use_nlp": true, "brands": ["asus"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommend", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// currency and language default when omitted
	assert.Equal(t, "USD", uc.gotParams.Currency)
	assert.Equal(t, "en", uc.gotParams.Language)
	assert.True(t, uc.gotParams.UseNLP)
	assert.Equal(t, []string{"asus"}, uc.gotParams.Brands)

	var resp struct {
		Listings []struct {
			Name       string   `json:"name"`
			Price      float64  `json:"price"`
			Currency   string   `json:"currency"`
			Rating     *float64 `json:"rating"`
			Popularity *int     `json:"popularity"`
			URL        string   `json:"url"`
			Source     string   `json:"source"`
		} `json:"listings"`
		Sources map[string]struct {
			State string `json:"state"`
		} `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Listings, 1)
	assert.Equal(t, "Gaming Laptop", resp.Listings[0].Name)
	assert.Equal(t, 999.99, resp.Listings[0].Price)
	assert.Equal(t, "USD", resp.Listings[0].Currency)
	require.NotNil(t, resp.Listings[0].Rating)
	assert.Equal(t, 4.5, *resp.Listings[0].Rating)
	assert.Equal(t, "ebay", resp.Listings[0].Source)
	assert.Equal(t, "ok", resp.Sources["ebay"].State)
}

func TestRecommendEndpointValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing product", `{"budget": 100}`},
		{"missing budget", `{"product": "laptop"}`},
		{"non-positive budget", `{"budget": 0, "product": "laptop"}`},
		{"malformed json", `{"budget": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(&fakeSearchUsecase{result: sampleResult()})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/recommend", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp, "error")
		})
	}
}

func TestRecommendEndpointPipelineErrors(t *testing.T) {
	t.Run("invalid query maps to 400", func(t *testing.T) {
		uc := &fakeSearchUsecase{err: models.NewInvalidQueryError("unknown currency \"XXX\"")}
		e := newTestServer(uc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/recommend",
			strings.NewReader(`{"budget": 100, "product": "laptop", "currency": "XXX"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp["error"], "unknown currency")
	})

	t.Run("all sources failed maps to 502 with status map", func(t *testing.T) {
		uc := &fakeSearchUsecase{err: models.NewAllSourcesFailedError(map[models.SourceID]models.SourceStatus{
			models.SourceEbay:    {State: models.SourceStateFailed, Failure: "blocked"},
			models.SourceWalmart: {State: models.SourceStateFailed, Failure: "timeout"},
		})}
		e := newTestServer(uc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/recommend",
			strings.NewReader(`{"budget": 100, "product": "laptop"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)

		var resp struct {
			Error   string `json:"error"`
			Sources map[string]struct {
				Failure string `json:"failure"`
			} `json:"sources"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Error)
		assert.Equal(t, "blocked", resp.Sources["ebay"].Failure)
		assert.Equal(t, "timeout", resp.Sources["walmart"].Failure)
	})
}

func TestVoiceSearchEndpoint(t *testing.T) {
	t.Run("successful voice search", func(t *testing.T) {
		uc := &fakeSearchUsecase{voiceResult: sampleResult()}
		e := newTestServer(uc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/voice_search", nil)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unconfigured transcriber maps to 400", func(t *testing.T) {
		uc := &fakeSearchUsecase{voiceErr: fmt.Errorf("voice command not recognized: %w", transcribe.ErrNotConfigured)}
		e := newTestServer(uc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/voice_search", nil)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp, "error")
	})
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestServer(&fakeSearchUsecase{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}
