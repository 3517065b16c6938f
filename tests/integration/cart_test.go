//go:build integration

package integration

import (
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_StartsEmpty(t *testing.T) {
	client := newTestClient(t)
	signupUser(t, client)

	items := getCartItems(t, client)
	assert.Empty(t, items)
}

func TestCart_RequiresAuth(t *testing.T) {
	client := newTestClientWithoutValidation()

	resp, err := client.GET("/api/cart")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestCart_Add_SnapshotsProduct(t *testing.T) {
	admin := newAdminClient(t)
	productID := createTestProduct(t, admin, "Cart Snapshot", 42.0)

	client := newTestClient(t)
	signupUser(t, client)
	addToCart(t, client, productID, 2)

	items := getCartItems(t, client)
	require.Len(t, items, 1)
	assert.Equal(t, productID, items[0].ProductID)
	assert.Equal(t, "Cart Snapshot", items[0].Name)
	assert.Equal(t, 42.0, items[0].Price)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCart_Add_SameProductIncrements(t *testing.T) {
	admin := newAdminClient(t)
	productID := createTestProduct(t, admin, "Increment Me", 10.0)

	client := newTestClient(t)
	signupUser(t, client)
	addToCart(t, client, productID, 1)
	addToCart(t, client, productID, 3)

	items := getCartItems(t, client)
	require.Len(t, items, 1, "same product must stay one line")
	assert.Equal(t, 4, items[0].Quantity)
}

func TestCart_ConcurrentAdds_BothPersist(t *testing.T) {
	admin := newAdminClient(t)
	first := createTestProduct(t, admin, "Concurrent A", 10.0)
	second := createTestProduct(t, admin, "Concurrent B", 20.0)

	client := newTestClient(t)
	signupUser(t, client)

	// Fire both adds in parallel; neither write may be lost.
	var wg sync.WaitGroup
	statuses := make(chan int, 2)
	for _, productID := range []string{first, second} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			resp, err := client.POST("/api/cart/add", map[string]interface{}{
				"productId": id,
				"quantity":  1,
			})
			if err != nil {
				statuses <- 0
				return
			}
			resp.Body.Close()
			statuses <- resp.StatusCode
		}(productID)
	}
	wg.Wait()
	close(statuses)

	for status := range statuses {
		require.Equal(t, http.StatusOK, status)
	}

	items := getCartItems(t, client)
	assert.Len(t, items, 2, "both concurrent adds must persist")
}

func TestCart_ConcurrentAdds_SameProductAccumulates(t *testing.T) {
	admin := newAdminClient(t)
	productID := createTestProduct(t, admin, "Concurrent Increment", 10.0)

	client := newTestClient(t)
	signupUser(t, client)

	var wg sync.WaitGroup
	statuses := make(chan int, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := client.POST("/api/cart/add", map[string]interface{}{
				"productId": productID,
				"quantity":  1,
			})
			if err != nil {
				statuses <- 0
				return
			}
			resp.Body.Close()
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)

	for status := range statuses {
		require.Equal(t, http.StatusOK, status)
	}

	items := getCartItems(t, client)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity, "increments from both adds must survive")
}

func TestCart_Add_DefaultQuantityIsOne(t *testing.T) {
	admin := newAdminClient(t)
	productID := createTestProduct(t, admin, "Single Add", 10.0)

	client := newTestClient(t)
	signupUser(t, client)

	resp, err := client.POST("/api/cart/add", map[string]interface{}{
		"productId": productID,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	items := getCartItems(t, client)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestCart_Add_UnknownProduct(t *testing.T) {
	client := newTestClient(t)
	signupUser(t, client)

	resp, err := client.WithoutValidation().POST("/api/cart/add", map[string]interface{}{
		"productId": "no-such-product",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCart_Update_SetsQuantity(t *testing.T) {
	admin := newAdminClient(t)
	productID := createTestProduct(t, admin, "Set Quantity", 10.0)

	client := newTestClient(t)
	signupUser(t, client)
	addToCart(t, client, productID, 5)

	resp, err := client.PUT("/api/cart/update", map[string]interface{}{
		"productId": productID,
		"quantity":  2,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	items := getCartItems(t, client)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCart_Update_ZeroRemovesLine(t *testing.T) {
	admin := newAdminClient(t)
	productID := createTestProduct(t, admin, "Zero Out", 10.0)

	client := newTestClient(t)
	signupUser(t, client)
	addToCart(t, client, productID, 2)

	resp, err := client.PUT("/api/cart/update", map[string]interface{}{
		"productId": productID,
		"quantity":  0,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	assert.Empty(t, getCartItems(t, client))
}

func TestCart_Update_NegativeRejected(t *testing.T) {
	admin := newAdminClient(t)
	productID := createTestProduct(t, admin, "Negative", 10.0)

	client := newTestClient(t)
	signupUser(t, client)
	addToCart(t, client, productID, 2)

	resp, err := client.WithoutValidation().PUT("/api/cart/update", map[string]interface{}{
		"productId": productID,
		"quantity":  -1,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Cart is unchanged.
	items := getCartItems(t, client)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCart_Update_MissingLine(t *testing.T) {
	admin := newAdminClient(t)
	productID := createTestProduct(t, admin, "Never Added", 10.0)

	client := newTestClient(t)
	signupUser(t, client)

	resp, err := client.WithoutValidation().PUT("/api/cart/update", map[string]interface{}{
		"productId": productID,
		"quantity":  1,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCart_Remove_Idempotent(t *testing.T) {
	admin := newAdminClient(t)
	productID := createTestProduct(t, admin, "Remove Twice", 10.0)

	client := newTestClient(t)
	signupUser(t, client)
	addToCart(t, client, productID, 1)

	for i := 0; i < 2; i++ {
		resp, err := client.DELETE("/api/cart/remove/" + productID)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	assert.Empty(t, getCartItems(t, client))
}

func TestCart_Clear(t *testing.T) {
	admin := newAdminClient(t)
	first := createTestProduct(t, admin, "Clear One", 10.0)
	second := createTestProduct(t, admin, "Clear Two", 20.0)

	client := newTestClient(t)
	signupUser(t, client)
	addToCart(t, client, first, 1)
	addToCart(t, client, second, 2)

	resp, err := client.DELETE("/api/cart/clear")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	assert.Empty(t, getCartItems(t, client))
}

func TestCart_IsolatedPerUser(t *testing.T) {
	admin := newAdminClient(t)
	productID := createTestProduct(t, admin, "Mine Only", 10.0)

	alice := newTestClient(t)
	signupUser(t, alice)
	addToCart(t, alice, productID, 3)

	bob := newTestClient(t)
	signupUser(t, bob)

	assert.Empty(t, getCartItems(t, bob))
	assert.Len(t, getCartItems(t, alice), 1)
}
