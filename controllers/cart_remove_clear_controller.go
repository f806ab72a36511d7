package controllers

import (
	"errors"

	"github.com/packkart/PackKart/config"
	"github.com/packkart/PackKart/models"
	"github.com/packkart/PackKart/pricing"
	"github.com/packkart/PackKart/utils"
	"github.com/gin-gonic/gin"
)

// RemoveFromCart deletes one line from the cart.
func RemoveFromCart(c *gin.Context) {
	utils.LogInfo("RemoveFromCart called")

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		SKU string `json:"sku" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	sess, err := engineSession(c, user)
	if err != nil {
		utils.LogError("Failed to load session for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load cart", nil)
		return
	}

	if err := config.DB.Where("user_id = ? AND sku = ?", user.ID, req.SKU).Delete(&models.CartItem{}).Error; err != nil {
		utils.LogError("Failed to delete cart row for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to update cart", nil)
		return
	}

	if err := sess.Cart.Remove(req.SKU); err != nil {
		if errors.Is(err, pricing.ErrItemNotInCart) {
			utils.NotFound(c, "Item not in cart")
			return
		}
	}

	utils.LogInfo("Removed SKU: %s from cart for user ID: %d", req.SKU, user.ID)
	utils.Success(c, "Item removed from cart", cartSummary(sess))
}

// ClearCart empties the cart. Clearing destroys the applied coupon state and
// all gift selections.
func ClearCart(c *gin.Context) {
	utils.LogInfo("ClearCart called")

	user, ok := currentUser(c)
	if !ok {
		return
	}

	sess, err := engineSession(c, user)
	if err != nil {
		utils.LogError("Failed to load session for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load cart", nil)
		return
	}

	if err := config.DB.Where("user_id = ?", user.ID).Delete(&models.CartItem{}).Error; err != nil {
		utils.LogError("Failed to clear cart rows for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to clear cart", nil)
		return
	}

	// Remove the coupon before emptying the cart: the clear's revalidation
	// round must already see no coupon, or it would report the removal as a
	// qualification failure instead of the user's own request.
	sess.Coordinator.Remove()
	sess.Cart.Clear()
	sess.Selections.Clear()

	utils.LogInfo("Cleared cart for user ID: %d", user.ID)
	utils.Success(c, "Cart cleared", cartSummary(sess))
}
