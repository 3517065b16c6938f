// Package cart maintains one cart per user. Cart lines snapshot the
// product's name, price and image at the time they are added.
package cart

import (
	"context"

	"github.com/bissquit/urbankart/internal/domain"
	"github.com/bissquit/urbankart/internal/pkg/ctxlog"
)

// ProductCatalog resolves product ids against the catalog.
type ProductCatalog interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// Service implements cart business logic. All operations are scoped to the
// authenticated caller's own cart.
type Service struct {
	repo    Repository
	catalog ProductCatalog
}

// NewService creates a new cart service.
func NewService(repo Repository, catalog ProductCatalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// Get returns the user's cart items. A user without a cart gets an empty
// one; nothing needs to be created for that.
func (s *Service) Get(ctx context.Context, userID string) ([]domain.CartItem, error) {
	return s.repo.GetItems(ctx, userID)
}

// Add puts quantity units of a product into the cart. If a line for the
// product already exists its quantity is incremented, so the cart never
// holds two lines for the same product.
func (s *Service) Add(ctx context.Context, userID, productID string, quantity int) ([]domain.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	item := domain.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.Image,
		Quantity:  quantity,
	}

	if err := s.repo.UpsertItem(ctx, userID, item); err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Info("added to cart", "product_id", productID, "user_id", userID)
	return s.repo.GetItems(ctx, userID)
}

// SetQuantity overwrites a line's quantity. Zero removes the line; a
// negative value is rejected and leaves the cart unchanged.
func (s *Service) SetQuantity(ctx context.Context, userID, productID string, quantity int) ([]domain.CartItem, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	if quantity == 0 {
		if err := s.repo.RemoveItem(ctx, userID, productID); err != nil {
			return nil, err
		}
		return s.repo.GetItems(ctx, userID)
	}

	updated, err := s.repo.UpdateQuantity(ctx, userID, productID, quantity)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrItemNotFound
	}

	return s.repo.GetItems(ctx, userID)
}

// Remove deletes a line from the cart. Removing an absent line is not an
// error.
func (s *Service) Remove(ctx context.Context, userID, productID string) ([]domain.CartItem, error) {
	if err := s.repo.RemoveItem(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.repo.GetItems(ctx, userID)
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.repo.Clear(ctx, userID)
}
