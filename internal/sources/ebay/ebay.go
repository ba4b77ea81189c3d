package ebay

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/models"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/normalizer"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/sources"
)

const defaultBaseURL = "https://www.ebay.com"

// Adapter scrapes eBay search result pages.
type Adapter struct {
	fetcher sources.PageFetcher
	base    *url.URL
}

// New creates an eBay adapter on top of the given page fetcher. baseURL
// overrides the production site, which tests use to point at fixtures.
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
	return models.SourceEbay
}

func (a *Adapter) Profile() normalizer.SourceProfile {
	return normalizer.SourceProfile{
		BaseURL:         a.base,
		DefaultCurrency: "USD",
	}
}

// Fetch retrieves one search result page and extracts its listing cards.
// Cards missing a title or price node are skipped; the normalizer judges
// everything else.
func (a *Adapter) Fetch(ctx context.Context, query string, opts sources.FetchOptions) ([]models.RawCandidate, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	searchURL := a.base.String() + "/sch/i.html?_nkw=" + url.QueryEscape(query)
	page, err := a.fetcher.FetchPage(ctx, searchURL)
	if err != nil {
		return nil, sources.WrapPageError(a.ID(), err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, models.NewSourceError(a.ID(), models.SourceParseFailure, "unparsable search page", err)
	}

	items := doc.Find(".s-item")
	if items.Length() == 0 {
		if doc.Find(".srp-results").Length() == 0 {
			// not a results page at all: layout changed or we got an
			// interstitial
			return nil, models.NewSourceError(a.ID(), models.SourceParseFailure, "no result container in page", nil)
		}
		return nil, nil
	}

	candidates := make([]models.RawCandidate, 0, items.Length())
	items.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if opts.MaxResults > 0 && len(candidates) >= opts.MaxResults {
			return false
		}

		title := strings.TrimSpace(card.Find(".s-item__title").First().Text())
		price := strings.TrimSpace(card.Find(".s-item__price").First().Text())
		if title == "" || price == "" {
			return true
		}

		link, _ := card.Find(".s-item__link").First().Attr("href")

		candidates = append(candidates, models.RawCandidate{
			Source:         a.ID(),
			Name:           title,
			PriceText:      price,
			RatingText:     strings.TrimSpace(card.Find(".x-star-rating .clipped").First().Text()),
			PopularityText: strings.TrimSpace(card.Find(".s-item__quantitySold").First().Text()),
			URLText:        link,
		})
		return true
	})

	return candidates, nil
}
