// Package cart accumulates product snapshots selected by the buyer.
// Lines hold copies of product fields taken at add time, so catalog
// edits or deletes after the add never change the cart until the same
// product is added again.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/localmart/marketplace/internal/entity"
	"github.com/localmart/marketplace/internal/pricing"
)

// Store is an in-memory cart. Adding a product that is already present
// increments the existing line instead of appending a duplicate.
type Store struct {
	mu    sync.Mutex
	items []entity.CartItem
}

// NewStore creates an empty cart.
func NewStore() *Store {
	return &Store{}
}

// Add snapshots the product into the cart. Out-of-stock products and
// non-positive quantities are rejected.
func (s *Store) Add(p entity.Product, quantity int) error {
	if quantity < 1 {
		return &entity.ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	if !p.InStock() {
		return &entity.ValidationError{Field: "product", Reason: "out of stock"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == p.ID {
			// Re-adding takes a fresh snapshot: the line picks up the
			// product's current name and price along with the bump.
			s.items[i].Name = p.Name
			s.items[i].Price = p.Price
			s.items[i].ImageURL = p.ImageURL
			s.items[i].Quantity += quantity
			return nil
		}
	}
	s.items = append(s.items, entity.CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
		Quantity:  quantity,
	})
	return nil
}

// Remove drops the whole line for the given product id. A missing line
// is a no-op: the UI may race with stock changes and removal of
// something already gone is not an error.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart, typically after a successful checkout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Items returns a copy of the current lines in add order.
func (s *Store) Items() []entity.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Totals derives the commission-inclusive breakdown over the current
// lines. Snapshot prices cannot be negative, so the pricing engine
// cannot reject them.
func (s *Store) Totals() entity.PricingBreakdown {
	s.mu.Lock()
	amounts := make([]decimal.Decimal, len(s.items))
	for i, item := range s.items {
		amounts[i] = item.LineTotal()
	}
	s.mu.Unlock()

	totals, _ := pricing.TotalsOf(amounts)
	return totals
}

// Replace swaps the cart contents wholesale, used when restoring a
// persisted snapshot.
func (s *Store) Replace(items []entity.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]entity.CartItem, len(items))
	copy(s.items, items)
}
