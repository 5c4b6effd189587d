// Package pricing computes the commission-inclusive, buyer-facing price
// for single amounts and whole carts. The engine is pure: it never
// rounds intermediate values, so totals stay exact across any number of
// lines. Rounding to two digits is a display concern.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/localmart/marketplace/internal/entity"
)

// CommissionRate is the platform fee applied on top of the subtotal.
var CommissionRate = decimal.NewFromFloat(0.04)

// PriceOf breaks down a single base amount into subtotal, commission
// and final price. Negative amounts are rejected with ErrInvalidAmount.
func PriceOf(base decimal.Decimal) (entity.PricingBreakdown, error) {
	if base.IsNegative() {
		return entity.PricingBreakdown{}, entity.ErrInvalidAmount
	}
	return breakdown(base), nil
}

// TotalsOf sums the given line amounts and breaks the sum down like
// PriceOf. Any negative line rejects the whole computation.
func TotalsOf(amounts []decimal.Decimal) (entity.PricingBreakdown, error) {
	subtotal := decimal.Zero
	for _, a := range amounts {
		if a.IsNegative() {
			return entity.PricingBreakdown{}, entity.ErrInvalidAmount
		}
		subtotal = subtotal.Add(a)
	}
	return breakdown(subtotal), nil
}

func breakdown(subtotal decimal.Decimal) entity.PricingBreakdown {
	commission := subtotal.Mul(CommissionRate)
	return entity.PricingBreakdown{
		Subtotal:         subtotal,
		CommissionRate:   CommissionRate,
		CommissionAmount: commission,
		Total:            subtotal.Add(commission),
	}
}
