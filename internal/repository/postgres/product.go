package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/localmart/marketplace/internal/entity"
	"github.com/localmart/marketplace/internal/repository"
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a ProductRepository backed by Postgres.
func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) SaveProduct(ctx context.Context, p entity.Product) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (id, seller_id, name, description, price, quantity, delivery_time, image_url, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			quantity = EXCLUDED.quantity,
			delivery_time = EXCLUDED.delivery_time,
			image_url = EXCLUDED.image_url`,
		p.ID, p.SellerID, p.Name, p.Description, p.Price, p.Quantity, p.DeliveryTime, p.ImageURL, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save product %s: %w", p.ID, err)
	}
	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}

func (r *productRepository) LoadCatalog(ctx context.Context) ([]entity.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, seller_id, name, description, price, quantity, delivery_time, image_url, created_at FROM products ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.SellerID, &p.Name, &p.Description, &p.Price, &p.Quantity, &p.DeliveryTime, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}
	return products, nil
}

func (r *productRepository) Seed(ctx context.Context, products []entity.Product) error {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil // already seeded
	}

	for _, p := range products {
		if err := r.SaveProduct(ctx, p); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.ID, err)
		}
	}
	return nil
}
