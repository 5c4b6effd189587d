package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/localmart/marketplace/internal/cart"
	"github.com/localmart/marketplace/internal/catalog"
	"github.com/localmart/marketplace/internal/entity"
	"github.com/localmart/marketplace/internal/repository"
)

// CartService keeps one in-memory cart per session. Snapshots are
// mirrored to the cart repository so a cart survives a reload, but the
// in-memory store stays the source of truth.
type CartService struct {
	catalog *catalog.Store
	repo    repository.CartRepository

	mu    sync.Mutex
	carts map[string]*cart.Store
}

func NewCartService(catalogStore *catalog.Store, repo repository.CartRepository) *CartService {
	return &CartService{
		catalog: catalogStore,
		repo:    repo,
		carts:   make(map[string]*cart.Store),
	}
}

// store returns the session's cart, restoring a persisted snapshot the
// first time the session shows up.
func (s *CartService) store(ctx context.Context, cartID string) *cart.Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.carts[cartID]; ok {
		return c
	}

	c := cart.NewStore()
	if s.repo != nil {
		items, err := s.repo.LoadCart(ctx, cartID)
		if err != nil {
			slog.Error("Failed to restore cart", "cart_id", cartID, "err", err)
		} else if len(items) > 0 {
			c.Replace(items)
			slog.Info("Cart restored", "cart_id", cartID, "lines", len(items))
		}
	}
	s.carts[cartID] = c
	return c
}

// Add snapshots the identified product into the session's cart.
func (s *CartService) Add(ctx context.Context, cartID, productID string, quantity int) error {
	p, err := s.catalog.Get(productID)
	if err != nil {
		return err
	}

	c := s.store(ctx, cartID)
	if err := c.Add(p, quantity); err != nil {
		return err
	}
	slog.Info("Service: Item added to cart", "cart_id", cartID, "product_id", productID, "quantity", quantity)

	s.mirror(ctx, cartID, c)
	return nil
}

// Remove drops a line from the session's cart. Missing lines are a
// silent no-op.
func (s *CartService) Remove(ctx context.Context, cartID, productID string) {
	c := s.store(ctx, cartID)
	c.Remove(productID)
	s.mirror(ctx, cartID, c)
}

// Clear empties the session's cart.
func (s *CartService) Clear(ctx context.Context, cartID string) {
	c := s.store(ctx, cartID)
	c.Clear()
	if s.repo != nil {
		if err := s.repo.ClearCart(ctx, cartID); err != nil {
			slog.Error("Failed to clear persisted cart", "cart_id", cartID, "err", err)
		}
	}
}

// Items returns the session's cart lines in add order.
func (s *CartService) Items(ctx context.Context, cartID string) []entity.CartItem {
	return s.store(ctx, cartID).Items()
}

// Totals derives the commission-inclusive breakdown for the session's
// cart.
func (s *CartService) Totals(ctx context.Context, cartID string) entity.PricingBreakdown {
	return s.store(ctx, cartID).Totals()
}

func (s *CartService) mirror(ctx context.Context, cartID string, c *cart.Store) {
	if s.repo == nil {
		return
	}
	if err := s.repo.SaveCart(ctx, cartID, c.Items()); err != nil {
		slog.Error("Failed to persist cart", "cart_id", cartID, "err", err)
	}
}
