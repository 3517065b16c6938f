package catalog

import (
	"context"

	"github.com/bissquit/urbankart/internal/domain"
)

// Repository defines the interface for catalog data operations.
type Repository interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error

	CreateReview(ctx context.Context, review *domain.Review) error
	GetReview(ctx context.Context, id string) (*domain.Review, error)
	ListReviews(ctx context.Context, productID string) ([]domain.Review, error)
	DeleteReview(ctx context.Context, id string) error
}

// ProductFilter represents filter criteria for listing products.
type ProductFilter struct {
	Category     string
	Search       string
	FeaturedOnly bool
	MinPrice     *float64
	MaxPrice     *float64
}
