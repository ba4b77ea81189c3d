package models

import (
	"fmt"
	"strings"
)

// SortCriterion selects the ranking order of aggregated listings.
type SortCriterion string

const (
	SortByPrice      SortCriterion = "price"
	SortByRating     SortCriterion = "rating"
	SortByPopularity SortCriterion = "popularity"
)

// ParseSortCriterion maps a request string to a SortCriterion,
// defaulting to price for an empty value.
func ParseSortCriterion(s string) (SortCriterion, error) {
	switch SortCriterion(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return SortByPrice, nil
	case SortByPrice:
		return SortByPrice, nil
	case SortByRating:
		return SortByRating, nil
	case SortByPopularity:
		return SortByPopularity, nil
	default:
		return "", fmt.Errorf("unknown sort criterion %q", s)
	}
}

// SearchQuery is the immutable per-request input to the aggregation
// pipeline. It replaces any process-wide preference state: everything the
// pipeline needs to know about the shopper travels in this value.
type SearchQuery struct {
	// RawText is the shopper's free-text (or transcribed) input.
	RawText string
	// Keywords is the normalized keyword query sent to sources. When the
	// rewriter runs, its output lands here; otherwise it mirrors RawText.
	Keywords string
	// Budget is the price ceiling, in the shopper's target currency.
	Budget Money
	// PreferredBrands boosts nothing yet; it is carried so adapters can
	// narrow queries where the upstream site supports it.
	PreferredBrands []string
	SortBy          SortCriterion
	// UseQueryRewrite runs the query rewriter once before dispatch.
	UseQueryRewrite bool
	// Language is advisory only, passed through from the request.
	Language string
}

// Validate rejects structurally invalid queries before any source is
// contacted.
func (q SearchQuery) Validate() error {
	if strings.TrimSpace(q.RawText) == "" {
		return NewInvalidQueryError("product text must not be empty")
	}
	if !q.Budget.Amount.IsPositive() {
		return NewInvalidQueryError("budget must be positive")
	}
	if !IsKnownCurrency(q.Budget.Currency) {
		return NewInvalidQueryError(fmt.Sprintf("unknown currency %q", q.Budget.Currency))
	}
	return nil
}
