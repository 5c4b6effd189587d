package repository

import (
	"context"

	"github.com/localmart/marketplace/internal/entity"
)

// ProductRepository is the persistence collaborator for catalog
// listings. The in-memory catalog store stays authoritative; writes
// here mirror its state.
type ProductRepository interface {
	SaveProduct(ctx context.Context, p entity.Product) error
	DeleteProduct(ctx context.Context, id string) error
	LoadCatalog(ctx context.Context) ([]entity.Product, error)
	// Seed inserts initial listings if the catalog is empty.
	Seed(ctx context.Context, products []entity.Product) error
}

// OrderIntentRepository persists checkout results for the recent-orders
// view.
type OrderIntentRepository interface {
	SaveIntent(ctx context.Context, intent *entity.OrderIntent) error
	FindRecent(ctx context.Context, limit int) ([]entity.OrderIntent, error)
}

// CartRepository keeps per-session cart snapshots so a cart survives a
// page reload. Best effort: the in-memory cart is the source of truth.
type CartRepository interface {
	SaveCart(ctx context.Context, cartID string, items []entity.CartItem) error
	LoadCart(ctx context.Context, cartID string) ([]entity.CartItem, error)
	ClearCart(ctx context.Context, cartID string) error
}
