package models

import (
	"github.com/shopspring/decimal"
)

// SourceID identifies an external product-listing provider.
type SourceID string

const (
	SourceEbay       SourceID = "ebay"
	SourceWalmart    SourceID = "walmart"
	SourcePartnerAPI SourceID = "partner_api"
)

// RawCandidate is the loosely-typed bag of extracted text fields returned
// by a source adapter. It is consumed entirely by the normalizer and never
// exposed past it.
type RawCandidate struct {
	Source SourceID
	// Name is the listing title as scraped, untrimmed.
	Name string
	// PriceText is the raw price presentation, e.g. "$1,299.99" or "45,00 €".
	PriceText string
	// RatingText is optional, e.g. "4.5 out of 5 stars".
	RatingText string
	// PopularityText is optional, e.g. "1,024 sold" or "(345)".
	PopularityText string
	// URLText may be absolute or source-relative.
	URLText string
}

// Listing is the canonical, normalized representation of one product
// offer. Listings are immutable once constructed; a currency conversion
// yields a derived Listing carrying the target currency.
type Listing struct {
	Name       string           `json:"name"`
	Price      Money            `json:"price"`
	Rating     *decimal.Decimal `json:"rating,omitempty"`
	Popularity *int             `json:"popularity,omitempty"`
	SourceURL  string           `json:"url,omitempty"`
	Source     SourceID         `json:"source"`

	// CurrencyUnconverted marks a listing whose price could not be
	// converted to the query's target currency.
	CurrencyUnconverted bool `json:"currency_unconverted,omitempty"`
	// BudgetComparisonSkipped marks a retained listing that could not be
	// compared against the budget because its currency never aligned.
	BudgetComparisonSkipped bool `json:"budget_comparison_skipped,omitempty"`
}

// WithPrice derives a new Listing carrying price, leaving the receiver
// untouched.
func (l Listing) WithPrice(price Money) Listing {
	l.Price = price
	return l
}

// SourceState classifies the outcome of one source's fetch.
type SourceState string

const (
	SourceStateOK      SourceState = "ok"
	SourceStatePartial SourceState = "partial"
	SourceStateFailed  SourceState = "failed"
)

// SourceStatus records what happened to a single source during one
// aggregation run. Fetched counts raw candidates returned by the adapter;
// Discards breaks down normalization drops by reason.
type SourceStatus struct {
	State    SourceState           `json:"state"`
	Failure  string                `json:"failure,omitempty"`
	Fetched  int                   `json:"fetched"`
	Kept     int                   `json:"kept"`
	Discards map[DiscardReason]int `json:"discards,omitempty"`
}

// AggregationResult is the ranked listing sequence plus the per-source
// status map, so a caller can tell "no matches" apart from "source
// unreachable".
type AggregationResult struct {
	Listings []Listing                 `json:"listings"`
	Sources  map[SourceID]SourceStatus `json:"sources"`
}
