package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a seller's listing in the catalog.
type Product struct {
	ID           string          `json:"id"`
	SellerID     string          `json:"seller_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	DeliveryTime string          `json:"delivery_time"`
	ImageURL     string          `json:"image_url"`
	CreatedAt    time.Time       `json:"created_at"`
}

// InStock reports whether the product can still be added to a cart.
func (p Product) InStock() bool {
	return p.Quantity > 0
}

// ProductDraft carries the seller-editable fields of a listing.
type ProductDraft struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	DeliveryTime string          `json:"delivery_time"`
	ImageURL     string          `json:"image_url"`
}

// CartItem is a snapshot of a product's display fields taken at
// add-to-cart time. Later catalog edits or deletes do not touch it.
type CartItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	Quantity  int             `json:"quantity"`
}

// LineTotal is price times selected quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// PricingBreakdown is the buyer-facing price composition. It is always
// derived from current line amounts, never persisted as state.
type PricingBreakdown struct {
	Subtotal         decimal.Decimal `json:"subtotal"`
	CommissionRate   decimal.Decimal `json:"commission_rate"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	Total            decimal.Decimal `json:"total"`
}

// CheckoutMethod selects how the buyer pays for an order intent.
type CheckoutMethod string

const (
	PayInApp   CheckoutMethod = "inApp"
	PayAtStore CheckoutMethod = "atStore"
)

// Valid reports whether the method is one of the supported choices.
func (m CheckoutMethod) Valid() bool {
	return m == PayInApp || m == PayAtStore
}

// OrderIntent is an immutable record of a proposed purchase, produced by
// checkout prior to payment confirmation.
type OrderIntent struct {
	ID        string           `json:"id"`
	Items     []CartItem       `json:"items"`
	Totals    PricingBreakdown `json:"totals"`
	Method    CheckoutMethod   `json:"method"`
	CreatedAt time.Time        `json:"created_at"`
}

// AuthMethod is the credential channel a user logs in with.
type AuthMethod string

const (
	MethodEmail     AuthMethod = "email"
	MethodPhone     AuthMethod = "phone"
	MethodFederated AuthMethod = "federated"
)

// AuthSession describes an authenticated user session.
type AuthSession struct {
	Method          AuthMethod `json:"method"`
	Identifier      string     `json:"identifier"`
	IsAuthenticated bool       `json:"is_authenticated"`
}

// --- Events ---

// Event represents a domain event.
type Event interface {
	EventType() string
}

// ProductCreated is emitted when a seller publishes a new listing.
type ProductCreated struct {
	ProductID string `json:"product_id"`
	SellerID  string `json:"seller_id"`
	Name      string `json:"name"`
}

func (e ProductCreated) EventType() string { return "ProductCreated" }

// ProductUpdated is emitted when a seller edits a listing.
type ProductUpdated struct {
	ProductID string `json:"product_id"`
	SellerID  string `json:"seller_id"`
}

func (e ProductUpdated) EventType() string { return "ProductUpdated" }

// ProductDeleted is emitted when a seller removes a listing.
type ProductDeleted struct {
	ProductID string `json:"product_id"`
	SellerID  string `json:"seller_id"`
}

func (e ProductDeleted) EventType() string { return "ProductDeleted" }

// OrderIntentCreated is emitted when checkout produces an order intent.
type OrderIntentCreated struct {
	IntentID  string          `json:"intent_id"`
	Method    CheckoutMethod  `json:"method"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

func (e OrderIntentCreated) EventType() string { return "OrderIntentCreated" }
