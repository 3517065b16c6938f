// Package catalog provides the product catalog and product reviews. The
// cart and order modules consume it for price/name/image lookups.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/bissquit/urbankart/internal/domain"
	"github.com/bissquit/urbankart/internal/pkg/ctxlog"
	"github.com/google/uuid"
)

const defaultProductImage = "https://placehold.co/600x600"

// Service implements catalog business logic.
type Service struct {
	repo Repository
}

// NewService creates a new catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetProduct returns a single product.
func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// ListProducts returns products matching the filter.
func (s *Service) ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, filter)
}

// CreateProductInput contains new product data.
type CreateProductInput struct {
	Name        string
	Price       float64
	Category    string
	Image       string
	Description string
	Featured    bool
}

// CreateProduct adds a product to the catalog.
func (s *Service) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	image := input.Image
	if image == "" {
		image = defaultProductImage
	}

	product := &domain.Product{
		ID:          "p-" + uuid.NewString()[:8],
		Name:        input.Name,
		Price:       input.Price,
		Category:    input.Category,
		Image:       image,
		Description: input.Description,
		Featured:    input.Featured,
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Info("product added", "product_id", product.ID, "name", product.Name)
	return product, nil
}

// UpdateProductInput contains partial product updates. Nil fields are left
// unchanged.
type UpdateProductInput struct {
	Name        *string
	Price       *float64
	Category    *string
	Image       *string
	Description *string
	Featured    *bool
}

// UpdateProduct applies a partial update to a product.
func (s *Service) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Image != nil {
		product.Image = *input.Image
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Featured != nil {
		product.Featured = *input.Featured
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product from the catalog.
func (s *Service) DeleteProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Info("product deleted", "product_id", id)
	return product, nil
}

// AddReviewInput contains new review data.
type AddReviewInput struct {
	ProductID string
	UserID    string
	Author    string
	Rating    int
	Comment   string
}

// AddReview attaches a review to a product. A user may review each product
// at most once.
func (s *Service) AddReview(ctx context.Context, input AddReviewInput) (*domain.Review, error) {
	if _, err := s.repo.GetProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		ProductID: input.ProductID,
		UserID:    input.UserID,
		Author:    input.Author,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	if err := s.repo.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListReviews returns all reviews of a product.
func (s *Service) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.ListReviews(ctx, productID)
}

// DeleteReview removes a review. Regular users may only delete their own
// reviews; admins may delete any.
func (s *Service) DeleteReview(ctx context.Context, productID, reviewID, callerID string, callerRole domain.Role) error {
	review, err := s.repo.GetReview(ctx, reviewID)
	if err != nil {
		if errors.Is(err, ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("get review: %w", err)
	}

	if review.ProductID != productID {
		return ErrReviewNotFound
	}

	if review.UserID != callerID && callerRole != domain.RoleAdmin {
		return ErrReviewForbidden
	}

	return s.repo.DeleteReview(ctx, reviewID)
}
