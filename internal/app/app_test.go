package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"storefront-api/internal/cache"
	"storefront-api/internal/config"
	"storefront-api/internal/models"
	"storefront-api/internal/repository/mocks"
)

func testConfig() *config.Config {
	return &config.Config{
		StoreDriver: config.StoreMemory,
		CacheDriver: config.CacheMemory,
		CORSOrigins: []string{"http://localhost:5173"},
	}
}

func setupApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	a := Build(testConfig(), MemoryStores(), cache.NewMemory(time.Minute, 0))
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

func TestExampleScenario(t *testing.T) {
	a := setupApp(t)

	w := do(t, a.Handler, http.MethodPost, "/api/products",
		map[string]interface{}{"id": "p1", "name": "Router", "price": 5000, "stock": 3})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Product
	decode(t, w, &created)
	assert.Equal(t, "p1", created.ID)
	assert.False(t, created.ObjectID.IsZero())
	assert.NotEmpty(t, created.CreatedAt)

	w = do(t, a.Handler, http.MethodPost, "/api/cart",
		map[string]interface{}{"id": "c1", "productId": "p1", "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, a.Handler, http.MethodPost, "/api/wishlist",
		map[string]interface{}{"id": "w1", "productId": "p1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, a.Handler, http.MethodDelete, "/api/products/p1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result struct {
		Message             string `json:"message"`
		DeletedProduct      int64  `json:"deletedProduct"`
		RemovedFromCart     int64  `json:"removedFromCart"`
		RemovedFromWishlist int64  `json:"removedFromWishlist"`
	}
	decode(t, w, &result)
	assert.NotEmpty(t, result.Message)
	assert.Equal(t, int64(1), result.DeletedProduct)
	assert.Equal(t, int64(1), result.RemovedFromCart)
	assert.Equal(t, int64(1), result.RemovedFromWishlist)

	w = do(t, a.Handler, http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateProduct_EmptyBody(t *testing.T) {
	a := setupApp(t)

	for _, body := range []interface{}{nil, "{}", "null"} {
		w := do(t, a.Handler, http.MethodPost, "/api/products", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp map[string]string
		decode(t, w, &resp)
		assert.Equal(t, "Request body is empty", resp["message"])
	}

	w := do(t, a.Handler, http.MethodGet, "/api/products", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateProduct_MalformedBody(t *testing.T) {
	a := setupApp(t)

	w := do(t, a.Handler, http.MethodPost, "/api/products", `[1,2]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	a := setupApp(t)

	do(t, a.Handler, http.MethodPost, "/api/cart", map[string]interface{}{"productId": "ghost"})

	w := do(t, a.Handler, http.MethodDelete, "/api/products/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Product not found"}`, w.Body.String())

	w = do(t, a.Handler, http.MethodGet, "/api/cart", nil)
	var cart []models.Item
	decode(t, w, &cart)
	assert.Len(t, cart, 1)
}

func TestProductLifecycleByNativeID(t *testing.T) {
	a := setupApp(t)

	w := do(t, a.Handler, http.MethodPost, "/api/products", map[string]interface{}{"name": "Switch", "price": 10})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Product
	decode(t, w, &created)
	hex := created.ObjectID.Hex()

	w = do(t, a.Handler, http.MethodGet, "/api/products/"+hex, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, a.Handler, http.MethodPut, "/api/products/"+hex, map[string]interface{}{"price": 12})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"`+hex+`","matchedCount":1,"modifiedCount":1}`, w.Body.String())

	w = do(t, a.Handler, http.MethodPut, "/api/products/"+hex, map[string]interface{}{"price": 12})
	assert.JSONEq(t, `{"id":"`+hex+`","matchedCount":1,"modifiedCount":0}`, w.Body.String())

	w = do(t, a.Handler, http.MethodPut, "/api/products/missing", map[string]interface{}{"price": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, a.Handler, http.MethodDelete, "/api/products/"+hex, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, a.Handler, http.MethodGet, "/api/products/"+hex, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListProducts_Query(t *testing.T) {
	a := setupApp(t)

	for _, p := range []map[string]interface{}{
		{"id": "a", "name": "Canon Pixma", "category": "printers", "price": 300},
		{"id": "b", "name": "HP LaserJet", "category": "printers", "price": 200},
		{"id": "c", "name": "Dell XPS", "category": "laptops", "price": 1500},
	} {
		require.Equal(t, http.StatusCreated, do(t, a.Handler, http.MethodPost, "/api/products", p).Code)
	}

	w := do(t, a.Handler, http.MethodGet, "/api/products?category=printers&sort=price-low", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var products []models.Product
	decode(t, w, &products)
	require.Len(t, products, 2)
	assert.Equal(t, "b", products[0].ID)
	assert.Equal(t, "a", products[1].ID)
}

func TestCart_StockBoundAndUpdate(t *testing.T) {
	a := setupApp(t)

	do(t, a.Handler, http.MethodPost, "/api/products", map[string]interface{}{"id": "p1", "name": "Router", "stock": 2})

	w := do(t, a.Handler, http.MethodPost, "/api/cart", map[string]interface{}{"id": "c1", "productId": "p1", "quantity": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Only 2 available"}`, w.Body.String())

	w = do(t, a.Handler, http.MethodPost, "/api/cart", map[string]interface{}{"id": "c1", "productId": "p1", "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	var inserted models.InsertResult
	decode(t, w, &inserted)
	assert.Len(t, inserted.InsertedID, 24)

	w = do(t, a.Handler, http.MethodPut, "/api/cart/c1", map[string]interface{}{"quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"matchedCount":1,"modifiedCount":1,"upsertedCount":0}`, w.Body.String())

	w = do(t, a.Handler, http.MethodPut, "/api/cart/nope", map[string]interface{}{"note": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Cart item not found"}`, w.Body.String())

	w = do(t, a.Handler, http.MethodDelete, "/api/cart/c1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, a.Handler, http.MethodDelete, "/api/cart/c1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdate_MistypedFieldsRejected(t *testing.T) {
	a := setupApp(t)

	do(t, a.Handler, http.MethodPost, "/api/products", map[string]interface{}{"id": "p1", "name": "Router", "price": 10, "stock": 3})
	do(t, a.Handler, http.MethodPost, "/api/cart", map[string]interface{}{"id": "c1", "productId": "p1", "quantity": 1})

	for _, body := range []string{`{"price":"abc"}`, `{"stock":2.5}`} {
		w := do(t, a.Handler, http.MethodPut, "/api/products/p1", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	w := do(t, a.Handler, http.MethodPut, "/api/cart/c1", `{"productId":5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, a.Handler, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var products []models.Product
	decode(t, w, &products)
	require.Len(t, products, 1)
	assert.Equal(t, 10.0, products[0].Price)

	w = do(t, a.Handler, http.MethodGet, "/api/products/p1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, a.Handler, http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cart []models.Item
	decode(t, w, &cart)
	require.Len(t, cart, 1)
	assert.Equal(t, "p1", cart[0].ProductID)
}

func TestWishlistDelete(t *testing.T) {
	a := setupApp(t)

	do(t, a.Handler, http.MethodPost, "/api/wishlist", map[string]interface{}{"id": "w1", "productId": "p1"})

	w := do(t, a.Handler, http.MethodDelete, "/api/wishlist/w1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, a.Handler, http.MethodDelete, "/api/wishlist/w1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Wishlist item not found"}`, w.Body.String())
}

func TestCleanupEndpoint(t *testing.T) {
	a := setupApp(t)

	do(t, a.Handler, http.MethodPost, "/api/products", map[string]interface{}{"id": "p1", "name": "Router"})
	do(t, a.Handler, http.MethodPost, "/api/cart", map[string]interface{}{"productId": "p1"})
	do(t, a.Handler, http.MethodPost, "/api/cart", map[string]interface{}{"productId": "gone"})
	do(t, a.Handler, http.MethodPost, "/api/wishlist", map[string]interface{}{"productId": "gone"})

	w := do(t, a.Handler, http.MethodDelete, "/api/cleanup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Cleanup complete","removedFromCart":1,"removedFromWishlist":1}`, w.Body.String())

	w = do(t, a.Handler, http.MethodDelete, "/api/cleanup", nil)
	assert.JSONEq(t, `{"message":"Cleanup complete","removedFromCart":0,"removedFromWishlist":0}`, w.Body.String())
}

func TestUsers(t *testing.T) {
	a := setupApp(t)

	w := do(t, a.Handler, http.MethodPost, "/api/users", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, a.Handler, http.MethodPost, "/api/users", map[string]interface{}{"name": "Otieno", "email": "o@example.com"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(t, a.Handler, http.MethodGet, "/api/users", nil)
	var users []models.User
	decode(t, w, &users)
	require.Len(t, users, 1)
	assert.Equal(t, "Otieno", users[0].Name)
}

func TestPing(t *testing.T) {
	a := setupApp(t)

	w := do(t, a.Handler, http.MethodGet, "/api/ping", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	decode(t, w, &resp)
	assert.Equal(t, "ok", resp["status"])
	assert.NotEmpty(t, resp["message"])
}

func TestStoreFailureReturns500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)

	products := mocks.NewMockProductRepository(ctrl)
	products.EXPECT().FindAll(gomock.Any()).Return(nil, errors.New("connection refused"))

	stores := MemoryStores()
	stores.Products = products
	a := Build(testConfig(), stores, nil)

	w := do(t, a.Handler, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Failed to fetch products","error":"connection refused"}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	a := setupApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	w := httptest.NewRecorder()
	a.Handler.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	a.Handler.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	a := setupApp(t)

	do(t, a.Handler, http.MethodGet, "/api/ping", nil)

	w := do(t, a.Handler, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `storefront_http_requests_total{method="GET",route="/api/ping",status="200"} 1`))
}

func TestRequestIDHeader(t *testing.T) {
	a := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	a.Handler.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))

	w = do(t, a.Handler, http.MethodGet, "/api/ping", nil)
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}
