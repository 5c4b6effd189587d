// Package checkout turns a non-empty cart into an immutable order
// intent. It is a pure construction step: no payment, no cart clearing,
// no retries. Those belong to the caller and its collaborators.
package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/localmart/marketplace/internal/entity"
	"github.com/localmart/marketplace/internal/pricing"
)

// Build creates an order intent from the given cart lines and payment
// method. An empty cart fails with ErrEmptyCart; the caller re-prompts.
func Build(items []entity.CartItem, method entity.CheckoutMethod, now time.Time) (*entity.OrderIntent, error) {
	if len(items) == 0 {
		return nil, entity.ErrEmptyCart
	}
	if !method.Valid() {
		return nil, &entity.ValidationError{Field: "method", Reason: "must be inApp or atStore"}
	}

	amounts := make([]decimal.Decimal, len(items))
	for i, item := range items {
		amounts[i] = item.LineTotal()
	}
	totals, err := pricing.TotalsOf(amounts)
	if err != nil {
		return nil, err
	}

	snapshot := make([]entity.CartItem, len(items))
	copy(snapshot, items)

	return &entity.OrderIntent{
		ID:        uuid.NewString(),
		Items:     snapshot,
		Totals:    totals,
		Method:    method,
		CreatedAt: now,
	}, nil
}
