package orders

import (
	"context"

	"github.com/bissquit/urbankart/internal/domain"
)

// Repository defines the interface for order data operations.
type Repository interface {
	// CreateOrder stores the order and clears the owner's cart as one
	// transaction. If the order insert fails the cart stays untouched.
	CreateOrder(ctx context.Context, order *domain.Order) error

	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)

	// UpdateStatus applies a partial status update. Nil fields are left
	// unchanged; updated_at is always refreshed.
	UpdateStatus(ctx context.Context, id string, status *domain.OrderStatus, paymentStatus *domain.PaymentStatus) (*domain.Order, error)
}
