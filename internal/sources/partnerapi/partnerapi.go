package partnerapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/models"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/normalizer"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/sources"
)

// product is the wire shape of one partner-API result entry.
type product struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	PriceString string  `json:"price_string"`
	Currency    string  `json:"currency"`
	Rating      string  `json:"rating"`
	Reviews     int     `json:"reviews"`
	URL         string  `json:"url"`
}

type searchResponse struct {
	Products []product `json:"products"`
	Total    int       `json:"total"`
}

// Adapter queries a structured partner product API instead of scraping
// markup. Partners report their own currency per item, which is how
// non-USD candidates usually enter a run.
type Adapter struct {
	client   *resty.Client
	base     *url.URL
	currency string
}

// New creates a partner-API adapter for baseURL. defaultCurrency applies
// to entries whose price carries no currency of its own.
func New(baseURL, defaultCurrency string, timeout time.Duration) (*Adapter, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Adapter{client: client, base: base, currency: defaultCurrency}, nil
}

func (a *Adapter) ID() models.SourceID {
	return models.SourcePartnerAPI
}

func (a *Adapter) Profile() normalizer.SourceProfile {
	return normalizer.SourceProfile{
		BaseURL:         a.base,
		DefaultCurrency: a.currency,
	}
}

// Fetch queries the partner search endpoint. Entries come back structured,
// but they still flow through the normalizer like every scraped candidate,
// so one validation path judges all sources.
func (a *Adapter) Fetch(ctx context.Context, query string, opts sources.FetchOptions) ([]models.RawCandidate, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	limit := opts.MaxResults
	if limit <= 0 {
		limit = 20
	}

	var body searchResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     query,
			"limit": strconv.Itoa(limit),
		}).
		SetResult(&body).
		Get("/products")
	if err != nil {
		kind := models.SourceUnreachable
		if errors.Is(err, context.DeadlineExceeded) {
			kind = models.SourceTimeout
		}
		return nil, models.NewSourceError(a.ID(), kind, "partner API request failed", err)
	}

	switch {
	case resp.StatusCode() == http.StatusOK:
	case resp.StatusCode() >= http.StatusInternalServerError:
		return nil, models.NewSourceError(a.ID(), models.SourceUnreachable,
			fmt.Sprintf("partner API returned status %d", resp.StatusCode()), nil)
	default:
		return nil, models.NewSourceError(a.ID(), models.SourceBlocked,
			fmt.Sprintf("partner API returned status %d", resp.StatusCode()), nil)
	}

	candidates := make([]models.RawCandidate, 0, len(body.Products))
	for _, p := range body.Products {
		priceText := p.PriceString
		if priceText == "" {
			currency := p.Currency
			if currency == "" {
				currency = a.currency
			}
			priceText = strconv.FormatFloat(p.Price, 'f', -1, 64) + " " + currency
		}

		popularity := ""
		if p.Reviews > 0 {
			popularity = strconv.Itoa(p.Reviews)
		}

		candidates = append(candidates, models.RawCandidate{
			Source:         a.ID(),
			Name:           p.Name,
			PriceText:      priceText,
			RatingText:     p.Rating,
			PopularityText: popularity,
			URLText:        p.URL,
		})
	}

	return candidates, nil
}
