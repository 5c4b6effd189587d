package service

import (
	"context"
	"errors"
	"sync"

	"github.com/localmart/marketplace/internal/entity"
	"github.com/localmart/marketplace/internal/payment"
)

// In-memory collaborator fakes shared by the service tests.

type fakeProductRepo struct {
	mu      sync.Mutex
	saved   map[string]entity.Product
	deleted []string
	catalog []entity.Product
	failing bool
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{saved: make(map[string]entity.Product)}
}

func (r *fakeProductRepo) SaveProduct(ctx context.Context, p entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return errors.New("persistence down")
	}
	r.saved[p.ID] = p
	return nil
}

func (r *fakeProductRepo) DeleteProduct(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, id)
	delete(r.saved, id)
	return nil
}

func (r *fakeProductRepo) LoadCatalog(ctx context.Context) ([]entity.Product, error) {
	return r.catalog, nil
}

func (r *fakeProductRepo) Seed(ctx context.Context, products []entity.Product) error {
	r.catalog = append(r.catalog, products...)
	return nil
}

type fakeCartRepo struct {
	mu      sync.Mutex
	carts   map[string][]entity.CartItem
	cleared []string
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[string][]entity.CartItem)}
}

func (r *fakeCartRepo) SaveCart(ctx context.Context, cartID string, items []entity.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[cartID] = items
	return nil
}

func (r *fakeCartRepo) LoadCart(ctx context.Context, cartID string) ([]entity.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.carts[cartID], nil
}

func (r *fakeCartRepo) ClearCart(ctx context.Context, cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, cartID)
	r.cleared = append(r.cleared, cartID)
	return nil
}

type fakeIntentRepo struct {
	mu    sync.Mutex
	saved []*entity.OrderIntent
	err   error
}

func (r *fakeIntentRepo) SaveIntent(ctx context.Context, intent *entity.OrderIntent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, intent)
	return nil
}

func (r *fakeIntentRepo) FindRecent(ctx context.Context, limit int) ([]entity.OrderIntent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.OrderIntent
	for i := len(r.saved) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *r.saved[i])
	}
	return out, nil
}

type publishedEvent struct {
	topic string
	key   string
	event any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{topic: topic, key: key, event: event})
	return nil
}

type fakePayment struct {
	mu      sync.Mutex
	charged []*entity.OrderIntent
	result  payment.Result
	err     error
}

func (p *fakePayment) Charge(ctx context.Context, intent *entity.OrderIntent) (payment.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.charged = append(p.charged, intent)
	return p.result, p.err
}
