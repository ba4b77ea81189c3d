package currency

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/models"
)

// ratesResponse is the wire shape of the exchange-rate API
// (frankfurter-compatible: GET /latest?from=EUR&to=USD).
type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// HTTPRateSource queries an external exchange-rate table over HTTP. A
// fetched pair is cached for the configured TTL so one slow rate provider
// cannot stall every listing of a run; the cache is internally
// synchronized and read-mostly.
type HTTPRateSource struct {
	client *resty.Client

	mu     sync.RWMutex
	cached map[string]cachedRate
	ttl    time.Duration
}

type cachedRate struct {
	rate      decimal.Decimal
	fetchedAt time.Time
}

// NewHTTPRateSource creates a rate source against baseURL with the given
// request timeout and cache TTL.
func NewHTTPRateSource(baseURL string, timeout, ttl time.Duration) *HTTPRateSource {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &HTTPRateSource{
		client: client,
		cached: make(map[string]cachedRate),
		ttl:    ttl,
	}
}

// Rate implements RateSource. Unknown pairs and transport failures both
// surface as ErrRateUnavailable so callers need only one degraded path.
func (s *HTTPRateSource) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	key := from + "/" + to
	if rate, ok := s.lookup(key); ok {
		return rate, nil
	}

	var body ratesResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"from": from, "to": to}).
		SetResult(&body).
		Get("/latest")
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %v", models.ErrRateUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("%w: rate API returned status %d", models.ErrRateUnavailable, resp.StatusCode())
	}

	raw, ok := body.Rates[to]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: no rate for pair %s", models.ErrRateUnavailable, key)
	}

	rate := decimal.NewFromFloat(raw)
	s.store(key, rate)
	return rate, nil
}

func (s *HTTPRateSource) lookup(key string) (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.cached[key]
	if !ok || time.Since(entry.fetchedAt) > s.ttl {
		return decimal.Decimal{}, false
	}
	return entry.rate, true
}

func (s *HTTPRateSource) store(key string, rate decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached[key] = cachedRate{rate: rate, fetchedAt: time.Now()}
}
