package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/localmart/marketplace/internal/auth"
	"github.com/localmart/marketplace/internal/entity"
	"github.com/localmart/marketplace/internal/pricing"
	"github.com/localmart/marketplace/internal/service"
)

// Handler exposes the commerce core to the presentation layer. The
// session id header scopes carts and auth flows; the seller id header
// scopes catalog writes.
type Handler struct {
	catalogSvc  *service.CatalogService
	cartSvc     *service.CartService
	checkoutSvc *service.CheckoutService
	authSvc     *service.AuthService
}

func NewHandler(
	catalogSvc *service.CatalogService,
	cartSvc *service.CartService,
	checkoutSvc *service.CheckoutService,
	authSvc *service.AuthService,
) *Handler {
	return &Handler{
		catalogSvc:  catalogSvc,
		cartSvc:     cartSvc,
		checkoutSvc: checkoutSvc,
		authSvc:     authSvc,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Auth surface: reachable while logged out.
	mux.HandleFunc("GET /api/auth/state", h.handleAuthState)
	mux.HandleFunc("POST /api/auth/method", h.handleSelectMethod)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("POST /api/auth/federated", h.handleFederated)
	mux.HandleFunc("POST /api/auth/logout", h.handleLogout)
	mux.HandleFunc("POST /api/auth/forgot", h.handleForgot)
	mux.HandleFunc("POST /api/auth/reset/request", h.handleResetRequest)
	mux.HandleFunc("POST /api/auth/reset/verify", h.handleResetVerify)
	mux.HandleFunc("POST /api/auth/reset/password", h.handleResetPassword)
	mux.HandleFunc("POST /api/auth/cancel", h.handleResetCancel)
	mux.HandleFunc("POST /api/auth/return", h.handleReturnToLogin)

	// Everything below requires a logged-in session.
	mux.HandleFunc("GET /api/products", h.requireLogin(h.handleListProducts))
	mux.HandleFunc("GET /api/sellers/{sellerID}/products", h.requireLogin(h.handleListSellerProducts))
	mux.HandleFunc("POST /api/products", h.requireLogin(h.handleCreateProduct))
	mux.HandleFunc("PUT /api/products/{id}", h.requireLogin(h.handleUpdateProduct))
	mux.HandleFunc("DELETE /api/products/{id}", h.requireLogin(h.handleDeleteProduct))
	mux.HandleFunc("POST /api/images", h.requireLogin(h.handleUploadImage))

	mux.HandleFunc("GET /api/cart", h.requireLogin(h.handleGetCart))
	mux.HandleFunc("POST /api/cart/items", h.requireLogin(h.handleAddToCart))
	mux.HandleFunc("DELETE /api/cart/items/{productID}", h.requireLogin(h.handleRemoveFromCart))
	mux.HandleFunc("POST /api/cart/clear", h.requireLogin(h.handleClearCart))

	mux.HandleFunc("POST /api/checkout", h.requireLogin(h.handleCheckout))
	mux.HandleFunc("GET /api/orders", h.requireLogin(h.handleGetOrders))
}

func sessionID(r *http.Request) string {
	if id := r.Header.Get("X-Session-ID"); id != "" {
		return id
	}
	return "default"
}

func sellerID(r *http.Request) string {
	return r.Header.Get("X-Seller-ID")
}

// requireLogin gates the commerce surface behind the auth flow: while
// the session is not LoggedIn, only the auth endpoints exist.
func (h *Handler) requireLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flow := h.authSvc.Flow(sessionID(r))
		if _, ok := flow.Session(); !ok {
			writeError(w, http.StatusUnauthorized, "not logged in")
			return
		}
		next(w, r)
	}
}

// --- Auth ---

func (h *Handler) handleAuthState(w http.ResponseWriter, r *http.Request) {
	flow := h.authSvc.Flow(sessionID(r))
	state := flow.State()
	resp := map[string]any{"state": state.Name()}
	if session, ok := flow.Session(); ok {
		resp["session"] = session
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSelectMethod(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method entity.AuthMethod `json:"method"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.authTransition(w, r, h.authSvc.Flow(sessionID(r)).SelectMethod(req.Method))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Secret     string `json:"secret"`
	}
	if !decode(w, r, &req) {
		return
	}
	flow := h.authSvc.Flow(sessionID(r))
	h.authTransition(w, r, flow.SubmitCredentials(r.Context(), req.Identifier, req.Secret))
}

func (h *Handler) handleFederated(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Provider string `json:"provider"`
	}
	if !decode(w, r, &req) {
		return
	}
	flow := h.authSvc.Flow(sessionID(r))
	h.authTransition(w, r, flow.FederatedLogin(r.Context(), req.Provider))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.authTransition(w, r, h.authSvc.Flow(sessionID(r)).Logout())
}

func (h *Handler) handleForgot(w http.ResponseWriter, r *http.Request) {
	h.authTransition(w, r, h.authSvc.Flow(sessionID(r)).ForgotPassword())
}

func (h *Handler) handleResetRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
	}
	if !decode(w, r, &req) {
		return
	}
	flow := h.authSvc.Flow(sessionID(r))
	h.authTransition(w, r, flow.RequestCode(r.Context(), req.Identifier))
}

func (h *Handler) handleResetVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if !decode(w, r, &req) {
		return
	}
	flow := h.authSvc.Flow(sessionID(r))
	h.authTransition(w, r, flow.VerifyCode(r.Context(), req.Code))
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
		Confirm  string `json:"confirm"`
	}
	if !decode(w, r, &req) {
		return
	}
	flow := h.authSvc.Flow(sessionID(r))
	h.authTransition(w, r, flow.SetNewPassword(r.Context(), req.Password, req.Confirm))
}

func (h *Handler) handleResetCancel(w http.ResponseWriter, r *http.Request) {
	h.authTransition(w, r, h.authSvc.Flow(sessionID(r)).Cancel())
}

func (h *Handler) handleReturnToLogin(w http.ResponseWriter, r *http.Request) {
	h.authTransition(w, r, h.authSvc.Flow(sessionID(r)).ReturnToLogin())
}

// authTransition reports the transition outcome together with the
// resulting state, so the UI can render both in one round trip.
func (h *Handler) authTransition(w http.ResponseWriter, r *http.Request, err error) {
	flow := h.authSvc.Flow(sessionID(r))
	resp := map[string]any{"state": flow.State().Name()}
	if err != nil {
		resp["error"] = err.Error()
		writeJSON(w, statusOf(err), resp)
		return
	}
	if session, ok := flow.Session(); ok {
		resp["session"] = session
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Catalog ---

// productView pairs a listing with its commission-inclusive display
// pricing.
type productView struct {
	entity.Product
	InStock bool        `json:"in_stock"`
	Pricing pricingView `json:"pricing"`
}

func viewOfProduct(p entity.Product) productView {
	breakdown, _ := pricing.PriceOf(p.Price)
	return productView{Product: p, InStock: p.InStock(), Pricing: viewOfPricing(breakdown)}
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products := h.catalogSvc.List()
	views := make([]productView, len(products))
	for i, p := range products {
		views[i] = viewOfProduct(p)
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) handleListSellerProducts(w http.ResponseWriter, r *http.Request) {
	products := h.catalogSvc.ListBySeller(r.PathValue("sellerID"))
	views := make([]productView, len(products))
	for i, p := range products {
		views[i] = viewOfProduct(p)
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var draft entity.ProductDraft
	if !decode(w, r, &draft) {
		return
	}
	p, err := h.catalogSvc.Create(r.Context(), sellerID(r), draft)
	if err != nil {
		h.renderError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewOfProduct(p))
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var draft entity.ProductDraft
	if !decode(w, r, &draft) {
		return
	}
	p, err := h.catalogSvc.Update(r.Context(), sellerID(r), r.PathValue("id"), draft)
	if err != nil {
		h.renderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOfProduct(p))
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogSvc.Delete(r.Context(), sellerID(r), r.PathValue("id")); err != nil {
		h.renderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = "upload"
	}
	url, err := h.catalogSvc.UploadImage(r.Context(), filename, r.Body)
	if err != nil {
		h.renderError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

// --- Cart ---

type cartView struct {
	Items  []entity.CartItem `json:"items"`
	Totals pricingView       `json:"totals"`
}

func (h *Handler) cartView(r *http.Request) cartView {
	id := sessionID(r)
	items := h.cartSvc.Items(r.Context(), id)
	return cartView{
		Items:  items,
		Totals: viewOfPricing(h.cartSvc.Totals(r.Context(), id)),
	}
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cartView(r))
}

func (h *Handler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if err := h.cartSvc.Add(r.Context(), sessionID(r), req.ProductID, req.Quantity); err != nil {
		h.renderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cartView(r))
}

func (h *Handler) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	h.cartSvc.Remove(r.Context(), sessionID(r), r.PathValue("productID"))
	writeJSON(w, http.StatusOK, h.cartView(r))
}

func (h *Handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	h.cartSvc.Clear(r.Context(), sessionID(r))
	writeJSON(w, http.StatusOK, h.cartView(r))
}

// --- Checkout ---

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method entity.CheckoutMethod `json:"method"`
	}
	if !decode(w, r, &req) {
		return
	}
	intent, err := h.checkoutSvc.Checkout(r.Context(), sessionID(r), req.Method)
	if err != nil {
		h.renderError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, intentView(intent))
}

func (h *Handler) handleGetOrders(w http.ResponseWriter, r *http.Request) {
	intents, err := h.checkoutSvc.RecentIntents(r.Context(), 50)
	if err != nil {
		h.renderError(w, err)
		return
	}
	views := make([]map[string]any, len(intents))
	for i := range intents {
		views[i] = intentView(&intents[i])
	}
	writeJSON(w, http.StatusOK, views)
}

func intentView(intent *entity.OrderIntent) map[string]any {
	return map[string]any{
		"id":         intent.ID,
		"items":      intent.Items,
		"totals":     viewOfPricing(intent.Totals),
		"method":     intent.Method,
		"created_at": intent.CreatedAt,
	}
}

// --- Shared plumbing ---

// pricingView is the breakdown rounded to two digits for display.
// Internal arithmetic stays exact; rounding happens only here.
type pricingView struct {
	Subtotal         string `json:"subtotal"`
	CommissionRate   string `json:"commission_rate"`
	CommissionAmount string `json:"commission_amount"`
	Total            string `json:"total"`
}

func viewOfPricing(b entity.PricingBreakdown) pricingView {
	return pricingView{
		Subtotal:         b.Subtotal.StringFixed(2),
		CommissionRate:   b.CommissionRate.String(),
		CommissionAmount: b.CommissionAmount.StringFixed(2),
		Total:            b.Total.StringFixed(2),
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// renderError maps domain errors onto HTTP statuses. Everything in the
// taxonomy is rendered inline for the UI; only unknown failures are
// hidden behind a 500.
func (h *Handler) renderError(w http.ResponseWriter, err error) {
	writeError(w, statusOf(err), err.Error())
}

func statusOf(err error) int {
	switch {
	case entity.IsValidation(err),
		errors.Is(err, auth.ErrPasswordMismatch),
		errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrEmptyCart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidCode):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrAttemptInFlight),
		errors.Is(err, auth.ErrInvalidTransition):
		return http.StatusConflict
	default:
		slog.Error("Unmapped error in delivery layer", "err", err)
		return http.StatusInternalServerError
	}
}

// EnableCORS is a middleware to allow the storefront frontend to connect.
func EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Session-ID, X-Seller-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
