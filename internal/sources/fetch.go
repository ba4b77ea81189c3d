package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/models"
)

// PageFetcher is the page-retrieval collaborator consumed by scraping
// adapters. It returns raw markup for a URL; everything about how the page
// is obtained (plain HTTP, headless browser, proxy farm) lives behind this
// boundary.
type PageFetcher interface {
	FetchPage(ctx context.Context, pageURL string) (string, error)
}

// PageError classifies a failed page fetch so adapters can map it onto
// their source-scoped failure taxonomy.
type PageError struct {
	Kind       models.SourceErrorKind
	StatusCode int
	Cause      error
}

func (e *PageError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d): %v", e.Kind, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
}

func (e *PageError) Unwrap() error {
	return e.Cause
}

// WrapPageError converts a PageFetcher failure into a *models.SourceError
// for the given source.
func WrapPageError(source models.SourceID, err error) *models.SourceError {
	var pe *PageError
	if errors.As(err, &pe) {
		return models.NewSourceError(source, pe.Kind, "page fetch failed", pe)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return models.NewSourceError(source, models.SourceTimeout, "page fetch timed out", err)
	}
	return models.NewSourceError(source, models.SourceUnreachable, "page fetch failed", err)
}

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// HTTPPageFetcher is the default PageFetcher: a resty client with a
// shared outbound rate limit so concurrent source fetches do not hammer
// any upstream.
type HTTPPageFetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
}

// NewHTTPPageFetcher builds a fetcher with the given request timeout and
// requests-per-second ceiling.
func NewHTTPPageFetcher(timeout time.Duration, rps float64) *HTTPPageFetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", defaultUserAgent).
		SetHeader("Accept-Language", "en-US,en;q=0.9").
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))
	return &HTTPPageFetcher{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// FetchPage implements PageFetcher.
func (f *HTTPPageFetcher) FetchPage(ctx context.Context, pageURL string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", &PageError{Kind: models.SourceTimeout, Cause: err}
	}

	resp, err := f.client.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		kind := models.SourceUnreachable
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			kind = models.SourceTimeout
		}
		return "", &PageError{Kind: kind, Cause: err}
	}

	status := resp.StatusCode()
	if status != http.StatusOK {
		// 403/429 and friends are anti-bot responses, not transport faults
		return "", &PageError{
			Kind:       models.SourceBlocked,
			StatusCode: status,
			Cause:      fmt.Errorf("unexpected status %d", status),
		}
	}

	return resp.String(), nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
