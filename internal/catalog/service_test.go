package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/bissquit/urbankart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	products map[string]*domain.Product
	reviews  map[string]*domain.Review
	nextID   int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		products: make(map[string]*domain.Product),
		reviews:  make(map[string]*domain.Review),
	}
}

func (m *mockRepository) CreateProduct(_ context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockRepository) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, ErrProductNotFound
}

func (m *mockRepository) ListProducts(_ context.Context, _ ProductFilter) ([]domain.Product, error) {
	list := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		list = append(list, *p)
	}
	return list, nil
}

func (m *mockRepository) UpdateProduct(_ context.Context, product *domain.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return ErrProductNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockRepository) DeleteProduct(_ context.Context, id string) error {
	delete(m.products, id)
	return nil
}

func (m *mockRepository) CreateReview(_ context.Context, review *domain.Review) error {
	for _, r := range m.reviews {
		if r.ProductID == review.ProductID && r.UserID == review.UserID {
			return ErrDuplicateReview
		}
	}
	m.nextID++
	review.ID = fmt.Sprintf("r-%d", m.nextID)
	m.reviews[review.ID] = review
	return nil
}

func (m *mockRepository) GetReview(_ context.Context, id string) (*domain.Review, error) {
	if r, ok := m.reviews[id]; ok {
		return r, nil
	}
	return nil, ErrReviewNotFound
}

func (m *mockRepository) ListReviews(_ context.Context, productID string) ([]domain.Review, error) {
	var list []domain.Review
	for _, r := range m.reviews {
		if r.ProductID == productID {
			list = append(list, *r)
		}
	}
	return list, nil
}

func (m *mockRepository) DeleteReview(_ context.Context, id string) error {
	delete(m.reviews, id)
	return nil
}

func newTestService() (*Service, *mockRepository) {
	repo := newMockRepository()
	return NewService(repo), repo
}

func createProduct(t *testing.T, service *Service, name string) *domain.Product {
	t.Helper()
	product, err := service.CreateProduct(context.Background(), CreateProductInput{
		Name:     name,
		Price:    10.0,
		Category: "misc",
	})
	require.NoError(t, err)
	return product
}

func TestCreateProduct_AssignsIDAndDefaultImage(t *testing.T) {
	service, _ := newTestService()

	product := createProduct(t, service, "Bare Product")
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, defaultProductImage, product.Image)
}

func TestCreateProduct_KeepsProvidedImage(t *testing.T) {
	service, _ := newTestService()

	product, err := service.CreateProduct(context.Background(), CreateProductInput{
		Name:     "Pictured",
		Price:    10.0,
		Category: "misc",
		Image:    "https://cdn.example.com/p.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/p.png", product.Image)
}

func TestUpdateProduct_Partial(t *testing.T) {
	service, _ := newTestService()
	product := createProduct(t, service, "Original")

	price := 99.0
	updated, err := service.UpdateProduct(context.Background(), product.ID, UpdateProductInput{
		Price: &price,
	})
	require.NoError(t, err)
	assert.Equal(t, 99.0, updated.Price)
	assert.Equal(t, "Original", updated.Name, "unset fields stay unchanged")
}

func TestUpdateProduct_NotFound(t *testing.T) {
	service, _ := newTestService()

	_, err := service.UpdateProduct(context.Background(), "missing", UpdateProductInput{})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteProduct_ReturnsRemovedProduct(t *testing.T) {
	service, repo := newTestService()
	product := createProduct(t, service, "Doomed")

	deleted, err := service.DeleteProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, deleted.ID)
	assert.Empty(t, repo.products)
}

func TestAddReview_UnknownProduct(t *testing.T) {
	service, _ := newTestService()

	_, err := service.AddReview(context.Background(), AddReviewInput{
		ProductID: "missing",
		UserID:    "u-1",
		Author:    "Someone",
		Rating:    4,
		Comment:   "nice",
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddReview_OnePerUserAndProduct(t *testing.T) {
	service, _ := newTestService()
	product := createProduct(t, service, "Reviewed")

	_, err := service.AddReview(context.Background(), AddReviewInput{
		ProductID: product.ID, UserID: "u-1", Author: "A", Rating: 5, Comment: "first",
	})
	require.NoError(t, err)

	_, err = service.AddReview(context.Background(), AddReviewInput{
		ProductID: product.ID, UserID: "u-1", Author: "A", Rating: 1, Comment: "second",
	})
	assert.ErrorIs(t, err, ErrDuplicateReview)

	// A different user may still review.
	_, err = service.AddReview(context.Background(), AddReviewInput{
		ProductID: product.ID, UserID: "u-2", Author: "B", Rating: 3, Comment: "also",
	})
	assert.NoError(t, err)
}

func TestDeleteReview_Owner(t *testing.T) {
	service, repo := newTestService()
	product := createProduct(t, service, "Owned Review")

	review, err := service.AddReview(context.Background(), AddReviewInput{
		ProductID: product.ID, UserID: "u-1", Author: "A", Rating: 4, Comment: "mine",
	})
	require.NoError(t, err)

	err = service.DeleteReview(context.Background(), product.ID, review.ID, "u-1", domain.RoleUser)
	require.NoError(t, err)
	assert.Empty(t, repo.reviews)
}

func TestDeleteReview_OtherUserForbidden(t *testing.T) {
	service, _ := newTestService()
	product := createProduct(t, service, "Protected Review")

	review, err := service.AddReview(context.Background(), AddReviewInput{
		ProductID: product.ID, UserID: "u-1", Author: "A", Rating: 4, Comment: "mine",
	})
	require.NoError(t, err)

	err = service.DeleteReview(context.Background(), product.ID, review.ID, "u-2", domain.RoleUser)
	assert.ErrorIs(t, err, ErrReviewForbidden)
}

func TestDeleteReview_AdminMayDeleteAny(t *testing.T) {
	service, _ := newTestService()
	product := createProduct(t, service, "Moderated Review")

	review, err := service.AddReview(context.Background(), AddReviewInput{
		ProductID: product.ID, UserID: "u-1", Author: "A", Rating: 1, Comment: "spam",
	})
	require.NoError(t, err)

	err = service.DeleteReview(context.Background(), product.ID, review.ID, "u-admin", domain.RoleAdmin)
	assert.NoError(t, err)
}

func TestDeleteReview_WrongProduct(t *testing.T) {
	service, _ := newTestService()
	productA := createProduct(t, service, "Product A")
	productB := createProduct(t, service, "Product B")

	review, err := service.AddReview(context.Background(), AddReviewInput{
		ProductID: productA.ID, UserID: "u-1", Author: "A", Rating: 4, Comment: "on A",
	})
	require.NoError(t, err)

	err = service.DeleteReview(context.Background(), productB.ID, review.ID, "u-1", domain.RoleUser)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestListReviews_UnknownProduct(t *testing.T) {
	service, _ := newTestService()

	_, err := service.ListReviews(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}
