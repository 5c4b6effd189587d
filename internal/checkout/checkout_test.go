package checkout

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localmart/marketplace/internal/entity"
)

func line(id, price string, qty int) entity.CartItem {
	return entity.CartItem{
		ProductID: id,
		Name:      "Item " + id,
		Price:     decimal.RequireFromString(price),
		Quantity:  qty,
	}
}

func TestBuildEmptyCart(t *testing.T) {
	for _, method := range []entity.CheckoutMethod{entity.PayInApp, entity.PayAtStore} {
		t.Run(string(method), func(t *testing.T) {
			intent, err := Build(nil, method, time.Now())
			require.ErrorIs(t, err, entity.ErrEmptyCart)
			assert.Nil(t, intent)
		})
	}
}

func TestBuildInvalidMethod(t *testing.T) {
	_, err := Build([]entity.CartItem{line("p1", "10.00", 1)}, "wire", time.Now())
	require.Error(t, err)
	assert.True(t, entity.IsValidation(err))
}

func TestBuildIntent(t *testing.T) {
	now := time.Now()
	items := []entity.CartItem{
		line("p1", "10.00", 3),
		line("p2", "6.50", 1),
	}

	intent, err := Build(items, entity.PayAtStore, now)
	require.NoError(t, err)
	assert.NotEmpty(t, intent.ID)
	assert.Equal(t, entity.PayAtStore, intent.Method)
	assert.Equal(t, now, intent.CreatedAt)
	require.Len(t, intent.Items, 2)

	assert.Equal(t, "36.50", intent.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, "1.46", intent.Totals.CommissionAmount.StringFixed(2))
	assert.Equal(t, "37.96", intent.Totals.Total.StringFixed(2))
}

// The intent owns its own copy of the lines; the caller clearing the
// cart afterwards must not reach into it.
func TestBuildCopiesItems(t *testing.T) {
	items := []entity.CartItem{line("p1", "10.00", 1)}
	intent, err := Build(items, entity.PayInApp, time.Now())
	require.NoError(t, err)

	items[0].Quantity = 42
	assert.Equal(t, 1, intent.Items[0].Quantity)
}
