package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localmart/marketplace/internal/catalog"
	"github.com/localmart/marketplace/internal/entity"
)

func cartFixture(t *testing.T) (*CartService, *fakeCartRepo, entity.Product) {
	t.Helper()

	store := catalog.NewStore()
	p, err := store.Create("seller-1", entity.ProductDraft{
		Name:     "Ceramic Mug",
		Price:    decimal.RequireFromString("18.00"),
		Quantity: 8,
	})
	require.NoError(t, err)

	repo := newFakeCartRepo()
	return NewCartService(store, repo), repo, p
}

func TestCartAddMirrorsSnapshot(t *testing.T) {
	svc, repo, p := cartFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "sess-1", p.ID, 2))

	items := svc.Items(ctx, "sess-1")
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	// Mirror kept in step with the in-memory cart.
	assert.Equal(t, items, repo.carts["sess-1"])
}

func TestCartAddUnknownProduct(t *testing.T) {
	svc, _, _ := cartFixture(t)
	err := svc.Add(context.Background(), "sess-1", "missing", 1)
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestCartRestoredFromRepo(t *testing.T) {
	svc, repo, p := cartFixture(t)
	ctx := context.Background()

	repo.carts["sess-2"] = []entity.CartItem{{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  3,
	}}

	items := svc.Items(ctx, "sess-2")
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "56.16", svc.Totals(ctx, "sess-2").Total.StringFixed(2))
}

func TestCartClearClearsMirror(t *testing.T) {
	svc, repo, p := cartFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "sess-1", p.ID, 1))
	svc.Clear(ctx, "sess-1")

	assert.Empty(t, svc.Items(ctx, "sess-1"))
	assert.Contains(t, repo.cleared, "sess-1")
}

func TestCartSessionsAreIsolated(t *testing.T) {
	svc, _, p := cartFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "sess-a", p.ID, 1))
	assert.Empty(t, svc.Items(ctx, "sess-b"))
}
