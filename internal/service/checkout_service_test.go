package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localmart/marketplace/internal/catalog"
	"github.com/localmart/marketplace/internal/entity"
	"github.com/localmart/marketplace/internal/payment"
)

func checkoutFixture(t *testing.T) (*CheckoutService, *CartService, *fakeIntentRepo, *fakePublisher, *fakePayment, string) {
	t.Helper()

	store := catalog.NewStore()
	p, err := store.Create("seller-1", entity.ProductDraft{
		Name:     "Apples",
		Price:    decimal.RequireFromString("10.00"),
		Quantity: 5,
	})
	require.NoError(t, err)

	carts := NewCartService(store, newFakeCartRepo())
	require.NoError(t, carts.Add(context.Background(), "sess-1", p.ID, 3))

	intents := &fakeIntentRepo{}
	publisher := &fakePublisher{}
	payments := &fakePayment{result: payment.Result{TransactionID: "tx-1", Approved: true}}
	svc := NewCheckoutService(carts, payments, intents, publisher)
	return svc, carts, intents, publisher, payments, p.ID
}

func TestCheckoutInApp(t *testing.T) {
	svc, carts, intents, publisher, payments, _ := checkoutFixture(t)
	ctx := context.Background()

	intent, err := svc.Checkout(ctx, "sess-1", entity.PayInApp)
	require.NoError(t, err)

	assert.Equal(t, "31.20", intent.Totals.Total.StringFixed(2))
	assert.Equal(t, "1.20", intent.Totals.CommissionAmount.StringFixed(2))

	require.Len(t, payments.charged, 1)
	require.Len(t, intents.saved, 1)
	assert.Equal(t, intent.ID, intents.saved[0].ID)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, "orders.intents", publisher.events[0].topic)
	event, ok := publisher.events[0].event.(entity.OrderIntentCreated)
	require.True(t, ok)
	assert.Equal(t, intent.ID, event.IntentID)

	// Successful checkout empties the cart.
	assert.Empty(t, carts.Items(ctx, "sess-1"))
}

func TestCheckoutAtStoreSkipsPayment(t *testing.T) {
	svc, _, intents, _, payments, _ := checkoutFixture(t)

	intent, err := svc.Checkout(context.Background(), "sess-1", entity.PayAtStore)
	require.NoError(t, err)
	assert.Equal(t, entity.PayAtStore, intent.Method)
	assert.Empty(t, payments.charged)
	assert.Len(t, intents.saved, 1)
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, _, intents, _, _, _ := checkoutFixture(t)

	_, err := svc.Checkout(context.Background(), "empty-session", entity.PayInApp)
	require.ErrorIs(t, err, entity.ErrEmptyCart)
	assert.Empty(t, intents.saved)
}

func TestCheckoutDeclinedChargeKeepsCart(t *testing.T) {
	svc, carts, intents, _, payments, _ := checkoutFixture(t)
	payments.result = payment.Result{Approved: false}

	_, err := svc.Checkout(context.Background(), "sess-1", entity.PayInApp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declined")

	assert.Empty(t, intents.saved)
	assert.Len(t, carts.Items(context.Background(), "sess-1"), 1)
}

func TestCheckoutChargeErrorKeepsCart(t *testing.T) {
	svc, carts, _, _, payments, _ := checkoutFixture(t)
	payments.err = errors.New("processor timeout")

	_, err := svc.Checkout(context.Background(), "sess-1", entity.PayInApp)
	require.Error(t, err)
	assert.Len(t, carts.Items(context.Background(), "sess-1"), 1)
}

func TestRecentIntents(t *testing.T) {
	svc, _, _, _, _, _ := checkoutFixture(t)
	ctx := context.Background()

	first, err := svc.Checkout(ctx, "sess-1", entity.PayAtStore)
	require.NoError(t, err)

	recent, err := svc.RecentIntents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, first.ID, recent[0].ID)
}
