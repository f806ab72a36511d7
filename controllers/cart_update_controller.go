package controllers

import (
	"fmt"

	"github.com/packkart/PackKart/config"
	"github.com/packkart/PackKart/models"
	"github.com/packkart/PackKart/utils"
	"github.com/gin-gonic/gin"
)

// UpdateCart sets the quantity of a cart line. A quantity of zero removes
// the line. The subtotal change fires exactly one revalidation round.
func UpdateCart(c *gin.Context) {
	utils.LogInfo("UpdateCart called")

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		SKU      string `json:"sku" binding:"required"`
		Quantity *int   `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	quantity := *req.Quantity
	if quantity < 0 {
		utils.BadRequest(c, "Quantity cannot be negative", nil)
		return
	}
	utils.LogInfo("Updating SKU: %s to quantity: %d for user ID: %d", req.SKU, quantity, user.ID)

	sess, err := engineSession(c, user)
	if err != nil {
		utils.LogError("Failed to load session for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load cart", nil)
		return
	}

	var row models.CartItem
	if err := config.DB.Where("user_id = ? AND sku = ?", user.ID, req.SKU).First(&row).Error; err != nil {
		utils.LogError("Cart row not found for SKU: %s, user ID: %d", req.SKU, user.ID)
		utils.NotFound(c, "Item not in cart")
		return
	}

	if quantity == 0 {
		if err := config.DB.Delete(&row).Error; err != nil {
			utils.LogError("Failed to delete cart row for user ID: %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to update cart", nil)
			return
		}
	} else {
		product, err := utils.GetProductForCart(req.SKU)
		if err != nil {
			utils.NotFound(c, "Product not found")
			return
		}
		if quantity > product.StockQuantity {
			utils.LogError("Insufficient stock for SKU: %s, requested: %d, available: %d", req.SKU, quantity, product.StockQuantity)
			utils.BadRequest(c, fmt.Sprintf("Not enough stock. Available: %d", product.StockQuantity), nil)
			return
		}
		row.Quantity = quantity
		if err := config.DB.Save(&row).Error; err != nil {
			utils.LogError("Failed to update cart row for user ID: %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to update cart", nil)
			return
		}
	}

	if err := sess.Cart.SetQuantity(req.SKU, quantity); err != nil {
		utils.LogError("Session cart out of sync for user ID: %d: %v", user.ID, err)
	}

	utils.Success(c, "Cart updated", cartSummary(sess))
}
