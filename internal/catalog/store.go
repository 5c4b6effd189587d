// Package catalog holds the live product listings. The store is the
// single writer for product records; sellers mutate only their own
// listings and concurrent edits to one id are serialized, last write
// wins.
package catalog

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/localmart/marketplace/internal/entity"
)

// Store is an in-memory catalog keyed by product id. Listings keep
// their creation order for stable seller views.
type Store struct {
	mu       sync.Mutex
	products map[string]*entity.Product
	order    []string
}

// NewStore creates an empty catalog store.
func NewStore() *Store {
	return &Store{products: make(map[string]*entity.Product)}
}

// Create validates the draft, assigns a fresh id and records the
// listing under the given seller.
func (s *Store) Create(sellerID string, draft entity.ProductDraft) (entity.Product, error) {
	if err := validateDraft(draft); err != nil {
		return entity.Product{}, err
	}
	if sellerID == "" {
		return entity.Product{}, &entity.ValidationError{Field: "seller_id", Reason: "must not be empty"}
	}

	p := entity.Product{
		ID:           uuid.NewString(),
		SellerID:     sellerID,
		Name:         draft.Name,
		Description:  draft.Description,
		Price:        draft.Price,
		Quantity:     draft.Quantity,
		DeliveryTime: draft.DeliveryTime,
		ImageURL:     draft.ImageURL,
		CreatedAt:    time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = &p
	s.order = append(s.order, p.ID)
	return p, nil
}

// Update replaces the editable fields of an existing listing. Only the
// owning seller may edit; a foreign id looks like a missing one.
func (s *Store) Update(sellerID, id string, draft entity.ProductDraft) (entity.Product, error) {
	if err := validateDraft(draft); err != nil {
		return entity.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok || p.SellerID != sellerID {
		return entity.Product{}, entity.ErrNotFound
	}

	p.Name = draft.Name
	p.Description = draft.Description
	p.Price = draft.Price
	p.Quantity = draft.Quantity
	p.DeliveryTime = draft.DeliveryTime
	p.ImageURL = draft.ImageURL
	return *p, nil
}

// Delete removes a listing. Repeating the delete on the same id is a
// NotFound, not a crash. Cart snapshots taken earlier are unaffected.
func (s *Store) Delete(sellerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok || p.SellerID != sellerID {
		return entity.ErrNotFound
	}
	delete(s.products, id)
	for i, pid := range s.order {
		if pid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns a copy of the listing with the given id.
func (s *Store) Get(id string) (entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return entity.Product{}, entity.ErrNotFound
	}
	return *p, nil
}

// List returns all listings in creation order.
func (s *Store) List() []entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.products[id])
	}
	return out
}

// ListBySeller returns the seller's listings in creation order.
func (s *Store) ListBySeller(sellerID string) []entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []entity.Product
	for _, id := range s.order {
		if p := s.products[id]; p.SellerID == sellerID {
			out = append(out, *p)
		}
	}
	return out
}

// Load seeds the store with already-persisted listings, keeping the
// order they arrive in. Used once at startup.
func (s *Store) Load(products []entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range products {
		p := p
		if _, exists := s.products[p.ID]; exists {
			continue
		}
		s.products[p.ID] = &p
		s.order = append(s.order, p.ID)
	}
}

func validateDraft(draft entity.ProductDraft) error {
	if strings.TrimSpace(draft.Name) == "" {
		return &entity.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if draft.Price.IsNegative() {
		return &entity.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if draft.Quantity < 0 {
		return &entity.ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	return nil
}
