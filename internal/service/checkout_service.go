package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/localmart/marketplace/internal/checkout"
	"github.com/localmart/marketplace/internal/entity"
	"github.com/localmart/marketplace/internal/messaging"
	"github.com/localmart/marketplace/internal/payment"
	"github.com/localmart/marketplace/internal/repository"
)

const intentTopic = "orders.intents"

// CheckoutService turns a session's cart into a persisted order intent,
// charging through the payment collaborator for in-app payment and
// clearing the cart once the intent is safely recorded.
type CheckoutService struct {
	carts     *CartService
	payments  payment.Collaborator
	repo      repository.OrderIntentRepository
	publisher messaging.Publisher
}

func NewCheckoutService(
	carts *CartService,
	payments payment.Collaborator,
	repo repository.OrderIntentRepository,
	publisher messaging.Publisher,
) *CheckoutService {
	return &CheckoutService{
		carts:     carts,
		payments:  payments,
		repo:      repo,
		publisher: publisher,
	}
}

// Checkout builds the order intent for the session's cart. An empty
// cart fails with ErrEmptyCart and the caller re-prompts; a declined
// in-app charge leaves the cart intact for another attempt.
func (s *CheckoutService) Checkout(ctx context.Context, cartID string, method entity.CheckoutMethod) (*entity.OrderIntent, error) {
	items := s.carts.Items(ctx, cartID)

	intent, err := checkout.Build(items, method, time.Now())
	if err != nil {
		return nil, err
	}
	slog.Info("Service: Checkout started",
		"intent_id", intent.ID, "method", method, "lines", len(intent.Items), "total", intent.Totals.Total)

	if method == entity.PayInApp {
		result, err := s.payments.Charge(ctx, intent)
		if err != nil {
			return nil, fmt.Errorf("failed to charge order intent %s: %w", intent.ID, err)
		}
		if !result.Approved {
			return nil, fmt.Errorf("charge declined for order intent %s", intent.ID)
		}
	}

	if err := s.repo.SaveIntent(ctx, intent); err != nil {
		return nil, fmt.Errorf("failed to save order intent: %w", err)
	}

	event := entity.OrderIntentCreated{
		IntentID:  intent.ID,
		Method:    intent.Method,
		Total:     intent.Totals.Total,
		CreatedAt: intent.CreatedAt,
	}
	if err := s.publisher.PublishEvent(ctx, intentTopic, intent.ID, event); err != nil {
		slog.Error("Failed to publish OrderIntentCreated", "intent_id", intent.ID, "err", err)
	}

	s.carts.Clear(ctx, cartID)
	return intent, nil
}

// RecentIntents returns the latest persisted order intents.
func (s *CheckoutService) RecentIntents(ctx context.Context, limit int) ([]entity.OrderIntent, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.FindRecent(ctx, limit)
}
