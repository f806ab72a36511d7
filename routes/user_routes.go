package routes

import (
	"github.com/packkart/PackKart/controllers"
	"github.com/packkart/PackKart/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes initializes all user-facing routes
func initUserRoutes(router *gin.RouterGroup) {
	// Public catalog routes
	router.GET("/products", controllers.ListProducts)
	router.GET("/products/:sku", controllers.GetProduct)

	// Protected routes (require authentication)
	protected := router.Group("/user")
	protected.Use(middleware.AuthMiddleware())
	{
		// Cart operations
		protected.POST("/cart/add", controllers.AddToCart)
		protected.GET("/cart", controllers.GetCart)
		protected.PUT("/cart/update", controllers.UpdateCart)
		protected.DELETE("/cart/remove", controllers.RemoveFromCart)
		protected.DELETE("/cart/clear", controllers.ClearCart)

		// Coupon operations
		protected.POST("/coupon/apply", controllers.ApplyCoupon)
		protected.DELETE("/coupon/remove", controllers.RemoveCoupon)

		// Gift reward operations
		protected.GET("/gifts/tiers", controllers.GetGiftTiers)
		protected.POST("/gifts/select", controllers.SelectGift)
		protected.DELETE("/gifts/deselect", controllers.DeselectGift)

		// Checkout
		protected.GET("/checkout", controllers.GetCheckoutSummary)
		protected.POST("/checkout", controllers.PlaceOrder)
	}
}
