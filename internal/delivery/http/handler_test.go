package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localmart/marketplace/internal/auth"
	"github.com/localmart/marketplace/internal/catalog"
	"github.com/localmart/marketplace/internal/entity"
	"github.com/localmart/marketplace/internal/imagestore"
	"github.com/localmart/marketplace/internal/messaging"
	"github.com/localmart/marketplace/internal/payment"
	"github.com/localmart/marketplace/internal/service"
)

type stubProductRepo struct{}

func (stubProductRepo) SaveProduct(ctx context.Context, p entity.Product) error   { return nil }
func (stubProductRepo) DeleteProduct(ctx context.Context, id string) error        { return nil }
func (stubProductRepo) LoadCatalog(ctx context.Context) ([]entity.Product, error) { return nil, nil }
func (stubProductRepo) Seed(ctx context.Context, ps []entity.Product) error       { return nil }

type stubIntentRepo struct {
	mu    sync.Mutex
	saved []*entity.OrderIntent
}

func (r *stubIntentRepo) SaveIntent(ctx context.Context, intent *entity.OrderIntent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, intent)
	return nil
}

func (r *stubIntentRepo) FindRecent(ctx context.Context, limit int) ([]entity.OrderIntent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.OrderIntent
	for _, intent := range r.saved {
		out = append(out, *intent)
	}
	return out, nil
}

type fixture struct {
	server *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := catalog.NewStore()
	catalogSvc := service.NewCatalogService(store, stubProductRepo{}, imagestore.Placeholder{}, messaging.Nop{})
	cartSvc := service.NewCartService(store, nil)
	checkoutSvc := service.NewCheckoutService(cartSvc, payment.AutoApprove{}, &stubIntentRepo{}, messaging.Nop{})
	authSvc := service.NewAuthService(auth.NewStaticProvider(map[string]string{
		"user@example.com": "correct-horse",
	}))

	mux := http.NewServeMux()
	NewHandler(catalogSvc, cartSvc, checkoutSvc, authSvc).RegisterRoutes(mux)

	server := httptest.NewServer(EnableCORS(mux))
	t.Cleanup(server.Close)
	return &fixture{server: server}
}

func (f *fixture) do(t *testing.T, method, path string, body any, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.server.URL+path, &buf)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (f *fixture) login(t *testing.T, session string) map[string]string {
	t.Helper()
	headers := map[string]string{"X-Session-ID": session}

	resp, _ := f.do(t, http.MethodPost, "/api/auth/method", map[string]string{"method": "email"}, headers)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := f.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"identifier": "user@example.com", "secret": "correct-horse"}, headers)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "loggedIn", body["state"])
	return headers
}

func TestCommerceSurfaceRequiresLogin(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/api/products", "/api/cart", "/api/orders"} {
		resp, _ := f.do(t, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}

	// The auth surface itself is reachable while logged out.
	resp, body := f.do(t, http.MethodGet, "/api/auth/state", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "loggedOut", body["state"])
}

func TestLoginRejectedSurfacesInline(t *testing.T) {
	f := newFixture(t)
	headers := map[string]string{"X-Session-ID": "sess-1"}

	f.do(t, http.MethodPost, "/api/auth/method", map[string]string{"method": "email"}, headers)
	resp, body := f.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"identifier": "user@example.com", "secret": "nope"}, headers)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "loggingIn", body["state"])
	assert.NotEmpty(t, body["error"])
}

func TestShoppingRoundTrip(t *testing.T) {
	f := newFixture(t)
	headers := f.login(t, "sess-1")

	// Seller creates a listing.
	sellerHeaders := map[string]string{"X-Session-ID": "sess-1", "X-Seller-ID": "seller-1"}
	resp, created := f.do(t, http.MethodPost, "/api/products", map[string]any{
		"name":     "Apples",
		"price":    "10.00",
		"quantity": 5,
	}, sellerHeaders)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	productID := created["id"].(string)

	pricing := created["pricing"].(map[string]any)
	assert.Equal(t, "10.40", pricing["total"])

	// Buyer adds three to the cart.
	resp, cartBody := f.do(t, http.MethodPost, "/api/cart/items",
		map[string]any{"product_id": productID, "quantity": 3}, headers)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	totals := cartBody["totals"].(map[string]any)
	assert.Equal(t, "30.00", totals["subtotal"])
	assert.Equal(t, "1.20", totals["commission_amount"])
	assert.Equal(t, "31.20", totals["total"])

	// Checkout at store, then the cart is empty.
	resp, intent := f.do(t, http.MethodPost, "/api/checkout", map[string]string{"method": "atStore"}, headers)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "atStore", intent["method"])

	resp, cartBody = f.do(t, http.MethodGet, "/api/cart", nil, headers)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, cartBody["items"])
}

func TestCheckoutEmptyCartIs422(t *testing.T) {
	f := newFixture(t)
	headers := f.login(t, "sess-1")

	resp, body := f.do(t, http.MethodPost, "/api/checkout", map[string]string{"method": "inApp"}, headers)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestDeleteForeignProductIs404(t *testing.T) {
	f := newFixture(t)
	f.login(t, "sess-1")

	sellerHeaders := map[string]string{"X-Session-ID": "sess-1", "X-Seller-ID": "seller-1"}
	_, created := f.do(t, http.MethodPost, "/api/products", map[string]any{
		"name": "Apples", "price": "10.00", "quantity": 5,
	}, sellerHeaders)
	productID := created["id"].(string)

	otherSeller := map[string]string{"X-Session-ID": "sess-1", "X-Seller-ID": "seller-2"}
	resp, _ := f.do(t, http.MethodDelete, "/api/products/"+productID, nil, otherSeller)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
