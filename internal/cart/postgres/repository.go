// Package postgres provides the PostgreSQL implementation of the cart repository.
package postgres

import (
	"context"
	"fmt"

	"github.com/bissquit/urbankart/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the cart.Repository interface using PostgreSQL.
// Each cart line is one row keyed (user_id, product_id); row-level
// atomicity gives the per-cart last-write-visible guarantee.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetItems retrieves the user's cart lines in insertion order.
func (r *Repository) GetItems(ctx context.Context, userID string) ([]domain.CartItem, error) {
	query := `
		SELECT product_id, name, price, image, quantity
		FROM cart_items
		WHERE user_id = $1
		ORDER BY added_at, product_id
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.CartItem, 0)
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Image, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}
	return items, nil
}

// UpsertItem inserts a cart line or increments the quantity of the
// existing line in a single atomic statement.
func (r *Repository) UpsertItem(ctx context.Context, userID string, item domain.CartItem) error {
	query := `
		INSERT INTO cart_items (user_id, product_id, name, price, image, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`
	if _, err := r.db.Exec(ctx, query, userID, item.ProductID, item.Name, item.Price, item.Image, item.Quantity); err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

// UpdateQuantity overwrites the quantity of an existing cart line.
func (r *Repository) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (bool, error) {
	query := `
		UPDATE cart_items
		SET quantity = $3
		WHERE user_id = $1 AND product_id = $2
	`
	tag, err := r.db.Exec(ctx, query, userID, productID, quantity)
	if err != nil {
		return false, fmt.Errorf("update cart item quantity: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RemoveItem deletes a cart line if it exists.
func (r *Repository) RemoveItem(ctx context.Context, userID, productID string) error {
	query := `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`
	if _, err := r.db.Exec(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

// Clear deletes all of the user's cart lines.
func (r *Repository) Clear(ctx context.Context, userID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
