package currency

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/models"
)

// RateSource supplies exchange rates. Rates are externally maintained and
// may be stale; the converter never retries a failed lookup, retry policy
// belongs to whoever owns the rate table.
type RateSource interface {
	// Rate returns the multiplier from one currency to another.
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

// Converter maps a monetary amount into a target currency.
type Converter interface {
	Convert(ctx context.Context, amount models.Money, to string) (models.Money, error)
}

type converter struct {
	rates RateSource
}

// NewConverter creates a Converter backed by the given rate source.
func NewConverter(rates RateSource) Converter {
	return &converter{rates: rates}
}

// Convert returns a new Money in the target currency, rounded half-even to
// two decimal places. An identity conversion returns the input without
// consulting the rate source at all, so it cannot fail even when the rate
// table is down.
func (c *converter) Convert(ctx context.Context, amount models.Money, to string) (models.Money, error) {
	if amount.Currency == to {
		return amount, nil
	}

	rate, err := c.rates.Rate(ctx, amount.Currency, to)
	if err != nil {
		return models.Money{}, &models.ConversionError{
			From:  amount.Currency,
			To:    to,
			Cause: err,
		}
	}

	return models.Money{
		Amount:   amount.Amount.Mul(rate).RoundBank(2),
		Currency: to,
	}, nil
}
