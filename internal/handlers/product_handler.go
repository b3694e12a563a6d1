package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/catalog"
)

const productNotFound = "Product not found"

type ProductHandler struct {
	products    *catalog.ProductService
	coordinator *catalog.Coordinator
}

func NewProductHandler(products *catalog.ProductService, coordinator *catalog.Coordinator) *ProductHandler {
	return &ProductHandler{products: products, coordinator: coordinator}
}

// ListProducts maneja GET /api/products[?category=&q=&sort=].
func (h *ProductHandler) ListProducts(c *gin.Context) {
	query := catalog.ListQuery{
		Category: c.Query("category"),
		Search:   c.Query("q"),
		Sort:     c.Query("sort"),
	}

	products, err := h.products.List(c.Request.Context(), query)
	if err != nil {
		writeError(c, err, "Failed to fetch products", productNotFound)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct maneja GET /api/products/:id.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "Error fetching product", productNotFound)
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct maneja POST /api/products.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	fields, err := bindFields(c)
	if err != nil {
		writeBindError(c, err)
		return
	}

	product, err := h.products.Create(c.Request.Context(), fields)
	if err != nil {
		writeError(c, err, "Error creating product", productNotFound)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct maneja PUT /api/products/:id.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	fields, err := bindFields(c)
	if err != nil {
		writeBindError(c, err)
		return
	}

	result, err := h.products.Update(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		writeError(c, err, "Error updating product", productNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":            result.ID,
		"matchedCount":  result.MatchedCount,
		"modifiedCount": result.ModifiedCount,
	})
}

// DeleteProduct maneja DELETE /api/products/:id y elimina en cascada del
// carrito y la lista de deseos.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	result, err := h.coordinator.DeleteProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "Error deleting product", productNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":             "Product and related data deleted",
		"deletedProduct":      result.DeletedProduct,
		"removedFromCart":     result.RemovedFromCart,
		"removedFromWishlist": result.RemovedFromWishlist,
	})
}
