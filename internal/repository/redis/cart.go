package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/localmart/marketplace/internal/entity"
	"github.com/localmart/marketplace/internal/repository"
)

// cartTTL bounds how long an abandoned cart snapshot is kept.
const cartTTL = 7 * 24 * time.Hour

type cartRepository struct {
	client *redis.Client
}

// NewCartRepository creates a CartRepository backed by Redis. Snapshots
// are stored as JSON under one key per cart id with a TTL.
func NewCartRepository(client *redis.Client) repository.CartRepository {
	return &cartRepository{client: client}
}

func cartKey(cartID string) string {
	return "cart:" + cartID
}

func (r *cartRepository) SaveCart(ctx context.Context, cartID string, items []entity.CartItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal cart %s: %w", cartID, err)
	}
	if err := r.client.Set(ctx, cartKey(cartID), payload, cartTTL).Err(); err != nil {
		return fmt.Errorf("failed to save cart %s: %w", cartID, err)
	}
	return nil
}

func (r *cartRepository) LoadCart(ctx context.Context, cartID string) ([]entity.CartItem, error) {
	payload, err := r.client.Get(ctx, cartKey(cartID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart %s: %w", cartID, err)
	}

	var items []entity.CartItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart %s: %w", cartID, err)
	}
	return items, nil
}

func (r *cartRepository) ClearCart(ctx context.Context, cartID string) error {
	if err := r.client.Del(ctx, cartKey(cartID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart %s: %w", cartID, err)
	}
	return nil
}
