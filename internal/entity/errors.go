package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the commerce components. Presentation
// layers match them with errors.Is and render inline messages.
var (
	// ErrNotFound is returned when a product id has no live listing,
	// including a repeated delete of an already-deleted id.
	ErrNotFound = errors.New("product not found")

	// ErrEmptyCart is returned when checkout is attempted on an empty cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidAmount is returned by the pricing engine for negative
	// amounts. It indicates a caller bug rather than bad user input.
	ErrInvalidAmount = errors.New("amount must not be negative")
)

// ValidationError reports a bad field on user-supplied input. It is
// recoverable: the caller re-prompts with the reason.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
