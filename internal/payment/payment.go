// Package payment defines the external payment collaborator used for
// in-app checkout. At-store checkout never touches it.
package payment

import (
	"context"
	"log/slog"

	"github.com/localmart/marketplace/internal/entity"
)

// Result is the outcome of a charge attempt.
type Result struct {
	TransactionID string `json:"transaction_id"`
	Approved      bool   `json:"approved"`
}

// Collaborator charges an order intent. Implementations talk to the
// real payment processor; the core only consumes the interface.
type Collaborator interface {
	Charge(ctx context.Context, intent *entity.OrderIntent) (Result, error)
}

// AutoApprove is the local development collaborator: every charge is
// approved and logged, no processor involved.
type AutoApprove struct{}

func (AutoApprove) Charge(ctx context.Context, intent *entity.OrderIntent) (Result, error) {
	slog.Info("Charge approved (dev)", "intent_id", intent.ID, "total", intent.Totals.Total)
	return Result{TransactionID: "dev-" + intent.ID, Approved: true}, nil
}
