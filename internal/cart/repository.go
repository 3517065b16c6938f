package cart

import (
	"context"

	"github.com/bissquit/urbankart/internal/domain"
)

// Repository defines the interface for cart data operations. Every mutation
// is atomic per (user, product) line so concurrent requests against the
// same cart cannot lose updates.
type Repository interface {
	GetItems(ctx context.Context, userID string) ([]domain.CartItem, error)

	// UpsertItem inserts the line or atomically increments its quantity if
	// a line for the same product already exists.
	UpsertItem(ctx context.Context, userID string, item domain.CartItem) error

	// UpdateQuantity overwrites the quantity of an existing line. Returns
	// false if no line exists for the product.
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (bool, error)

	RemoveItem(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}
