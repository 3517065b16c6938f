//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/bissquit/urbankart/internal/testutil"
	"github.com/stretchr/testify/require"
)

// signupUser registers a fresh account on the given client and returns its email.
func signupUser(t *testing.T, client *testutil.Client) string {
	t.Helper()
	email := testutil.RandomEmail()
	client.SignupAs(t, "Test User", email, "password123")
	return email
}

// newAdminClient registers a fresh account, promotes it to admin directly in
// the database and logs in again so the promoted role is active.
func newAdminClient(t *testing.T) *testutil.Client {
	t.Helper()

	client := newTestClient(t)
	email := signupUser(t, client)

	_, err := testDB.Exec(context.Background(),
		`UPDATE users SET role = 'admin' WHERE email = $1`, email)
	require.NoError(t, err)

	// Role is re-read from storage per request, so the old access token
	// already acts as admin. Log in again anyway to keep claims consistent.
	client.LoginAs(t, email, "password123")
	return client
}

// createTestProduct creates a product through the admin API and returns its ID.
func createTestProduct(t *testing.T, admin *testutil.Client, name string, price float64) string {
	t.Helper()

	resp, err := admin.POST("/api/admin/products", map[string]interface{}{
		"name":     name,
		"price":    price,
		"category": "electronics",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	return result.Data.ID
}

// addToCart puts a product into the client's cart.
func addToCart(t *testing.T, client *testutil.Client, productID string, quantity int) {
	t.Helper()

	resp, err := client.POST("/api/cart/add", map[string]interface{}{
		"productId": productID,
		"quantity":  quantity,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

// testShippingAddress returns a complete checkout address.
func testShippingAddress() map[string]string {
	return map[string]string{
		"fullName": "Test Buyer",
		"phone":    "9999999999",
		"address":  "42 Test Street",
		"city":     "Mumbai",
		"state":    "Maharashtra",
		"pincode":  "400001",
	}
}

// placeOrder performs a checkout with the given items and payment method,
// returning the created order ID.
func placeOrder(t *testing.T, client *testutil.Client, items []map[string]interface{}, paymentMethod string) string {
	t.Helper()

	resp, err := client.POST("/api/orders", map[string]interface{}{
		"items":           items,
		"shippingAddress": testShippingAddress(),
		"paymentMethod":   paymentMethod,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	return result.Data.ID
}

// orderItem builds one checkout line.
func orderItem(productID, name string, price float64, quantity int) map[string]interface{} {
	return map[string]interface{}{
		"productId": productID,
		"name":      name,
		"price":     price,
		"quantity":  quantity,
	}
}

// getCartItems fetches the client's cart lines.
func getCartItems(t *testing.T, client *testutil.Client) []cartItem {
	t.Helper()

	resp, err := client.GET("/api/cart")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			Items []cartItem `json:"items"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	return result.Data.Items
}

type cartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}
