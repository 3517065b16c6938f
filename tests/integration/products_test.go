//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/bissquit/urbankart/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productPayload struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Image    string  `json:"image"`
	Featured bool    `json:"featured"`
}

func TestProducts_List_Public(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.GET("/api/products")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data []productPayload `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	// Seed migration ships a starter catalog.
	assert.NotEmpty(t, result.Data)
}

func TestProducts_Get_Seeded(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.GET("/api/products/p01")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data productPayload `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, "p01", result.Data.ID)
	assert.NotEmpty(t, result.Data.Name)
}

func TestProducts_Get_NotFound(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.GET("/api/products/no-such-product")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestProducts_Filter_Category(t *testing.T) {
	admin := newAdminClient(t)
	createTestProduct(t, admin, "Filter Category Target", 49.99)

	client := newTestClient(t)
	resp, err := client.GET("/api/products?category=electronics")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data []productPayload `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	require.NotEmpty(t, result.Data)
	for _, p := range result.Data {
		assert.Equal(t, "electronics", p.Category)
	}
}

func TestProducts_Filter_CategoryAll(t *testing.T) {
	client := newTestClient(t)

	// "all" is not a category, it means no filter.
	resp, err := client.GET("/api/products?category=all")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data []productPayload `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.NotEmpty(t, result.Data)
}

func TestProducts_Filter_Search(t *testing.T) {
	admin := newAdminClient(t)
	name := "Searchable " + testutil.RandomString(8)
	createTestProduct(t, admin, name, 19.99)

	client := newTestClient(t)
	resp, err := client.GET("/api/products?search=" + testutil.RandomString(16))
	require.NoError(t, err)
	var empty struct {
		Data []productPayload `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &empty)
	assert.Empty(t, empty.Data)

	resp, err = client.GET("/api/products?search=" + name[:10])
	require.NoError(t, err)
	var found struct {
		Data []productPayload `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &found)
	require.Len(t, found.Data, 1)
	assert.Equal(t, name, found.Data[0].Name)
}

func TestProducts_Filter_PriceRange(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.GET("/api/products?minPrice=10&maxPrice=100")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data []productPayload `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	for _, p := range result.Data {
		assert.GreaterOrEqual(t, p.Price, 10.0)
		assert.LessOrEqual(t, p.Price, 100.0)
	}
}

func TestProducts_Filter_PriceNotANumber(t *testing.T) {
	client := newTestClientWithoutValidation()

	resp, err := client.GET("/api/products?minPrice=cheap")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.GET("/api/products?maxPrice=ten")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestProducts_Filter_Featured(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.GET("/api/products?featured=true")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data []productPayload `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	for _, p := range result.Data {
		assert.True(t, p.Featured)
	}
}

func TestProducts_AdminCreate_DefaultImage(t *testing.T) {
	admin := newAdminClient(t)

	resp, err := admin.POST("/api/admin/products", map[string]interface{}{
		"name":     "No Image Product",
		"price":    12.50,
		"category": "books",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data productPayload `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.NotEmpty(t, result.Data.ID)
	assert.NotEmpty(t, result.Data.Image, "a placeholder image should be assigned")
}

func TestProducts_AdminCreate_RequiresAdmin(t *testing.T) {
	client := newTestClient(t)
	signupUser(t, client)

	resp, err := client.WithoutValidation().POST("/api/admin/products", map[string]interface{}{
		"name":     "Forbidden Product",
		"price":    1.0,
		"category": "misc",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestProducts_AdminUpdate_Partial(t *testing.T) {
	admin := newAdminClient(t)
	id := createTestProduct(t, admin, "Update Me", 30.0)

	resp, err := admin.PUT("/api/admin/products/"+id, map[string]interface{}{
		"price": 25.0,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data productPayload `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, 25.0, result.Data.Price)
	assert.Equal(t, "Update Me", result.Data.Name, "unset fields stay unchanged")
}

func TestProducts_AdminUpdate_NotFound(t *testing.T) {
	admin := newAdminClient(t)

	resp, err := admin.WithoutValidation().PUT("/api/admin/products/missing", map[string]interface{}{
		"price": 1.0,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestProducts_AdminDelete(t *testing.T) {
	admin := newAdminClient(t)
	id := createTestProduct(t, admin, "Delete Me", 5.0)

	resp, err := admin.DELETE("/api/admin/products/" + id)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data productPayload `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, id, result.Data.ID, "delete returns the removed product")

	resp, err = newTestClient(t).GET("/api/products/" + id)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
