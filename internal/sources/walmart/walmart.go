package walmart

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/models"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/normalizer"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/sources"
)

const defaultBaseURL = "https://www.walmart.com"

// Adapter scrapes Walmart search result pages. Walmart links its product
// cards relative to the site root, so candidates carry relative URLs that
// the normalizer resolves against the base.
type Adapter struct {
	fetcher sources.PageFetcher
	base    *url.URL
}

// New creates a Walmart adapter on top of the given page fetcher.
func New(fetcher sources.PageFetcher, baseURL string) (*Adapter, error) {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Adapter{fetcher: fetcher, base: base}, nil
}

func (a *Adapter) ID() models.SourceID {
	return models.SourceWalmart
}

func (a *Adapter) Profile() normalizer.SourceProfile {
	return normalizer.SourceProfile{
		BaseURL:         a.base,
		DefaultCurrency: "USD",
	}
}

// Fetch retrieves one search result page and extracts its grid items.
func (a *Adapter) Fetch(ctx context.Context, query string, opts sources.FetchOptions) ([]models.RawCandidate, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	searchURL := a.base.String() + "/search/?query=" + url.QueryEscape(query)
	page, err := a.fetcher.FetchPage(ctx, searchURL)
	if err != nil {
		return nil, sources.WrapPageError(a.ID(), err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, models.NewSourceError(a.ID(), models.SourceParseFailure, "unparsable search page", err)
	}

	items := doc.Find(".search-result-gridview-item")
	if items.Length() == 0 {
		if doc.Find("#searchProductResult").Length() == 0 {
			return nil, models.NewSourceError(a.ID(), models.SourceParseFailure, "no result container in page", nil)
		}
		return nil, nil
	}

	candidates := make([]models.RawCandidate, 0, items.Length())
	items.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if opts.MaxResults > 0 && len(candidates) >= opts.MaxResults {
			return false
		}

		titleNode := card.Find(".product-title-link").First()
		title := strings.TrimSpace(titleNode.Text())
		price := strings.TrimSpace(card.Find(".price-main .visuallyhidden").First().Text())
		if title == "" || price == "" {
			return true
		}

		link, _ := titleNode.Attr("href")

		candidates = append(candidates, models.RawCandidate{
			Source:         a.ID(),
			Name:           title,
			PriceText:      price,
			RatingText:     strings.TrimSpace(card.Find(".stars-container").First().AttrOr("aria-label", "")),
			PopularityText: strings.TrimSpace(card.Find(".stars-reviews-count-node").First().Text()),
			URLText:        link,
		})
		return true
	})

	return candidates, nil
}
