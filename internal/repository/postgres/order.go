package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/localmart/marketplace/internal/entity"
	"github.com/localmart/marketplace/internal/pricing"
	"github.com/localmart/marketplace/internal/repository"
)

type orderIntentRepository struct {
	db *sql.DB
}

// NewOrderIntentRepository creates an OrderIntentRepository backed by
// Postgres.
func NewOrderIntentRepository(db *sql.DB) repository.OrderIntentRepository {
	return &orderIntentRepository{db: db}
}

func (r *orderIntentRepository) SaveIntent(ctx context.Context, intent *entity.OrderIntent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// ON CONFLICT for idempotency: a retried save of the same intent is
	// skipped instead of crashing with a duplicate key error.
	var inserted bool
	err = tx.QueryRowContext(ctx,
		`INSERT INTO order_intents (id, subtotal, commission, total, method, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (id) DO NOTHING RETURNING true`,
		intent.ID, intent.Totals.Subtotal.Round(2), intent.Totals.CommissionAmount.Round(2),
		intent.Totals.Total.Round(2), string(intent.Method), intent.CreatedAt,
	).Scan(&inserted)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to insert order intent: %w", err)
	}

	for _, item := range intent.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO order_intent_items (intent_id, product_id, name, price, image_url, quantity) VALUES ($1, $2, $3, $4, $5, $6)",
			intent.ID, item.ProductID, item.Name, item.Price, item.ImageURL, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order intent item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *orderIntentRepository) FindRecent(ctx context.Context, limit int) ([]entity.OrderIntent, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, method, created_at FROM order_intents ORDER BY created_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query order intents: %w", err)
	}
	defer rows.Close()

	var intents []entity.OrderIntent
	for rows.Next() {
		var intent entity.OrderIntent
		var method string
		if err := rows.Scan(&intent.ID, &method, &intent.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order intent: %w", err)
		}
		intent.Method = entity.CheckoutMethod(method)
		intents = append(intents, intent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order intent rows: %w", err)
	}

	// Fetch items for each intent and rederive the breakdown from line
	// amounts rather than trusting stored rounded columns.
	for i := range intents {
		itemRows, err := r.db.QueryContext(ctx,
			"SELECT product_id, name, price, image_url, quantity FROM order_intent_items WHERE intent_id = $1 ORDER BY id",
			intents[i].ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to query order intent items: %w", err)
		}

		for itemRows.Next() {
			var item entity.CartItem
			if err := itemRows.Scan(&item.ProductID, &item.Name, &item.Price, &item.ImageURL, &item.Quantity); err != nil {
				itemRows.Close()
				return nil, fmt.Errorf("failed to scan order intent item: %w", err)
			}
			intents[i].Items = append(intents[i].Items, item)
		}
		itemRows.Close()

		amounts := make([]decimal.Decimal, len(intents[i].Items))
		for j, item := range intents[i].Items {
			amounts[j] = item.LineTotal()
		}
		totals, err := pricing.TotalsOf(amounts)
		if err != nil {
			return nil, fmt.Errorf("failed to derive totals for intent %s: %w", intents[i].ID, err)
		}
		intents[i].Totals = totals
	}

	return intents, nil
}
