package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/catalog"
	"storefront-api/internal/models"
)

type CartHandler struct {
	cart *catalog.CartService
}

func NewCartHandler(cart *catalog.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

func (h *CartHandler) ListCart(c *gin.Context) {
	items, err := h.cart.List(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to fetch cart", "Cart item not found")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	fields, err := bindFields(c)
	if err != nil {
		writeBindError(c, err)
		return
	}

	id, err := h.cart.Add(c.Request.Context(), fields)
	if err != nil {
		writeError(c, err, "Failed to add to cart", "Cart item not found")
		return
	}
	c.JSON(http.StatusCreated, models.InsertResult{InsertedID: id.String()})
}

func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	fields, err := bindFields(c)
	if err != nil {
		writeBindError(c, err)
		return
	}

	result, err := h.cart.Update(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		writeError(c, err, "Failed to update cart", "Cart item not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"matchedCount":  result.MatchedCount,
		"modifiedCount": result.ModifiedCount,
		"upsertedCount": result.UpsertedCount,
	})
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	if err := h.cart.Remove(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, "Error deleting cart item", "Cart item not found")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Cart item removed successfully"})
}

type WishlistHandler struct {
	wishlist *catalog.WishlistService
}

func NewWishlistHandler(wishlist *catalog.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist}
}

func (h *WishlistHandler) ListWishlist(c *gin.Context) {
	items, err := h.wishlist.List(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to fetch wishlist", "Wishlist item not found")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	fields, err := bindFields(c)
	if err != nil {
		writeBindError(c, err)
		return
	}

	id, err := h.wishlist.Add(c.Request.Context(), fields)
	if err != nil {
		writeError(c, err, "Failed to add to wishlist", "Wishlist item not found")
		return
	}
	c.JSON(http.StatusCreated, models.InsertResult{InsertedID: id.String()})
}

func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	if err := h.wishlist.Remove(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, "Error deleting wishlist item", "Wishlist item not found")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Wishlist item removed successfully"})
}
