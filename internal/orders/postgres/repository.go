// Package postgres provides the PostgreSQL implementation of the orders repository.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bissquit/urbankart/internal/domain"
	"github.com/bissquit/urbankart/internal/orders"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the orders.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateOrder stores the order and clears the owner's cart in a single
// transaction, so a failed insert never loses the cart.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) error {
	address, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("marshal shipping address: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO orders (id, user_id, shipping_address, payment_method, total_amount,
			status, payment_status, provider_order_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = tx.Exec(ctx, query,
		order.ID,
		order.UserID,
		address,
		order.PaymentMethod,
		order.TotalAmount,
		order.Status,
		order.PaymentStatus,
		order.ProviderOrderID,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i, item := range order.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, position, product_id, name, price, image, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, order.ID, i, item.ProductID, item.Name, item.Price, item.Image, item.Quantity)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, order.UserID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

// GetOrder retrieves an order with its item snapshot.
func (r *Repository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, user_id, shipping_address, payment_method, total_amount,
			status, payment_status, provider_order_id, created_at, updated_at
		FROM orders
		WHERE id = $1
	`
	order, err := r.scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, orders.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ListByUser retrieves one user's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	query := `
		SELECT id, user_id, shipping_address, payment_method, total_amount,
			status, payment_status, provider_order_id, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return r.listOrders(ctx, query, userID)
}

// ListAll retrieves every order, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]domain.Order, error) {
	query := `
		SELECT id, user_id, shipping_address, payment_method, total_amount,
			status, payment_status, provider_order_id, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
	`
	return r.listOrders(ctx, query)
}

// UpdateStatus applies a partial status update in one atomic statement.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status *domain.OrderStatus, paymentStatus *domain.PaymentStatus) (*domain.Order, error) {
	query := `
		UPDATE orders
		SET status = COALESCE($2, status),
			payment_status = COALESCE($3, payment_status),
			updated_at = now()
		WHERE id = $1
		RETURNING id, user_id, shipping_address, payment_method, total_amount,
			status, payment_status, provider_order_id, created_at, updated_at
	`
	order, err := r.scanOrder(r.db.QueryRow(ctx, query, id, status, paymentStatus))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, orders.ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *Repository) listOrders(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	list := make([]domain.Order, 0)
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	for i := range list {
		if err := r.loadItems(ctx, &list[i]); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *Repository) scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	var address []byte

	err := row.Scan(
		&order.ID,
		&order.UserID,
		&address,
		&order.PaymentMethod,
		&order.TotalAmount,
		&order.Status,
		&order.PaymentStatus,
		&order.ProviderOrderID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(address, &order.ShippingAddress); err != nil {
		return nil, fmt.Errorf("unmarshal shipping address: %w", err)
	}
	return &order, nil
}

func (r *Repository) loadItems(ctx context.Context, order *domain.Order) error {
	rows, err := r.db.Query(ctx, `
		SELECT product_id, name, price, image, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`, order.ID)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.CartItem, 0)
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Image, &item.Quantity); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate order items: %w", err)
	}

	order.Items = items
	return nil
}
