package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a monetary amount tagged with its ISO-4217 currency code.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// currencies we accept from requests and from scraped price text
var knownCurrencies = map[string]struct{}{
	"USD": {}, "EUR": {}, "GBP": {}, "JPY": {}, "CNY": {}, "INR": {},
	"CAD": {}, "AUD": {}, "CHF": {}, "SEK": {}, "NOK": {}, "DKK": {},
	"SGD": {}, "HKD": {}, "KRW": {}, "VND": {}, "BRL": {}, "MXN": {},
	"PLN": {}, "TRY": {}, "ZAR": {}, "NZD": {}, "THB": {}, "LKR": {},
}

// NewMoney builds a Money value. The currency code is upper-cased before
// validation.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if !IsKnownCurrency(code) {
		return Money{}, fmt.Errorf("unknown currency code %q", currency)
	}
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("negative amount %s", amount)
	}
	return Money{Amount: amount, Currency: code}, nil
}

// IsKnownCurrency reports whether code is a recognized ISO-4217 code.
func IsKnownCurrency(code string) bool {
	_, ok := knownCurrencies[strings.ToUpper(code)]
	return ok
}

// SameCurrency reports whether both amounts carry the same currency code.
func (m Money) SameCurrency(other Money) bool {
	return m.Currency == other.Currency
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency
}
