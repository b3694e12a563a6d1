package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/handlers"
)

// Handlers agrupa todo lo que monta RegisterRoutes.
type Handlers struct {
	Products *handlers.ProductHandler
	Cart     *handlers.CartHandler
	Wishlist *handlers.WishlistHandler
	System   *handlers.SystemHandler
	Metrics  http.Handler
}

func RegisterRoutes(router *gin.Engine, h Handlers) {
	if h.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.Metrics))
	}

	api := router.Group("/api")
	{
		api.GET("/ping", h.System.Ping)
		api.DELETE("/cleanup", h.System.Cleanup)

		api.GET("/products", h.Products.ListProducts)
		api.POST("/products", h.Products.CreateProduct)
		api.GET("/products/:id", h.Products.GetProduct)
		api.PUT("/products/:id", h.Products.UpdateProduct)
		api.DELETE("/products/:id", h.Products.DeleteProduct)

		api.GET("/cart", h.Cart.ListCart)
		api.POST("/cart", h.Cart.AddToCart)
		api.PUT("/cart/:id", h.Cart.UpdateCartItem)
		api.DELETE("/cart/:id", h.Cart.RemoveFromCart)

		api.GET("/wishlist", h.Wishlist.ListWishlist)
		api.POST("/wishlist", h.Wishlist.AddToWishlist)
		api.DELETE("/wishlist/:id", h.Wishlist.RemoveFromWishlist)

		api.GET("/users", h.System.ListUsers)
		api.POST("/users", h.System.CreateUser)
	}
}
