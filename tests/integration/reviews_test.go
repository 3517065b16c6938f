//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/bissquit/urbankart/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewPayload struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	UserID    string `json:"userId"`
	Author    string `json:"author"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func addReview(t *testing.T, client *testutil.Client, productID string, rating int, comment string) reviewPayload {
	t.Helper()

	resp, err := client.POST("/api/products/"+productID+"/reviews", map[string]interface{}{
		"rating":  rating,
		"comment": comment,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data reviewPayload `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	return result.Data
}

func TestReviews_Add_And_List(t *testing.T) {
	admin := newAdminClient(t)
	productID := createTestProduct(t, admin, "Reviewed Product", 15.0)

	client := newTestClient(t)
	signupUser(t, client)

	review := addReview(t, client, productID, 5, "excellent")
	assert.Equal(t, productID, review.ProductID)
	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, "Test User", review.Author)

	resp, err := newTestClient(t).GET("/api/products/" + productID + "/reviews")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data []reviewPayload `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	require.Len(t, result.Data, 1)
	assert.Equal(t, review.ID, result.Data[0].ID)
}

func TestReviews_Add_RequiresAuth(t *testing.T) {
	client := newTestClientWithoutValidation()

	resp, err := client.POST("/api/products/p01/reviews", map[string]interface{}{
		"rating":  4,
		"comment": "nope",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestReviews_Add_UnknownProduct(t *testing.T) {
	client := newTestClient(t)
	signupUser(t, client)

	resp, err := client.WithoutValidation().POST("/api/products/no-such/reviews", map[string]interface{}{
		"rating":  3,
		"comment": "where",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestReviews_Add_InvalidRating(t *testing.T) {
	client := newTestClient(t)
	signupUser(t, client)

	resp, err := client.WithoutValidation().POST("/api/products/p01/reviews", map[string]interface{}{
		"rating":  6,
		"comment": "too good",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestReviews_OnePerUserAndProduct(t *testing.T) {
	admin := newAdminClient(t)
	productID := createTestProduct(t, admin, "Once Only", 9.0)

	client := newTestClient(t)
	signupUser(t, client)
	addReview(t, client, productID, 4, "first")

	resp, err := client.WithoutValidation().POST("/api/products/"+productID+"/reviews", map[string]interface{}{
		"rating":  2,
		"comment": "second",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestReviews_Delete_ByOwner(t *testing.T) {
	admin := newAdminClient(t)
	productID := createTestProduct(t, admin, "Owner Delete", 9.0)

	client := newTestClient(t)
	signupUser(t, client)
	review := addReview(t, client, productID, 3, "meh")

	resp, err := client.DELETE("/api/products/" + productID + "/reviews/" + review.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestReviews_Delete_ByOtherUserForbidden(t *testing.T) {
	admin := newAdminClient(t)
	productID := createTestProduct(t, admin, "Stranger Delete", 9.0)

	owner := newTestClient(t)
	signupUser(t, owner)
	review := addReview(t, owner, productID, 3, "mine")

	stranger := newTestClient(t)
	signupUser(t, stranger)

	resp, err := stranger.WithoutValidation().DELETE("/api/products/" + productID + "/reviews/" + review.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestReviews_Delete_ByAdmin(t *testing.T) {
	admin := newAdminClient(t)
	productID := createTestProduct(t, admin, "Admin Delete", 9.0)

	owner := newTestClient(t)
	signupUser(t, owner)
	review := addReview(t, owner, productID, 1, "bad")

	resp, err := admin.DELETE("/api/products/" + productID + "/reviews/" + review.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestReviews_Delete_WrongProduct(t *testing.T) {
	admin := newAdminClient(t)
	productA := createTestProduct(t, admin, "Product A", 9.0)
	productB := createTestProduct(t, admin, "Product B", 9.0)

	client := newTestClient(t)
	signupUser(t, client)
	review := addReview(t, client, productA, 4, "on A")

	resp, err := client.WithoutValidation().DELETE("/api/products/" + productB + "/reviews/" + review.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
