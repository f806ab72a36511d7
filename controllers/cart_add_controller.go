package controllers

import (
	"fmt"

	"github.com/packkart/PackKart/config"
	"github.com/packkart/PackKart/models"
	"github.com/packkart/PackKart/utils"
	"github.com/gin-gonic/gin"
)

const maxQuantityPerSKU = 50

// AddToCart adds a product to the user's cart with validation. The persisted
// row is written first; the session aggregate mutation then triggers the
// coupon revalidation round.
func AddToCart(c *gin.Context) {
	utils.LogInfo("AddToCart called")

	user, ok := currentUser(c)
	if !ok {
		return
	}
	utils.LogInfo("Processing add to cart for user ID: %d", user.ID)

	var req struct {
		SKU      string `json:"sku" binding:"required"`
		Quantity int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}
	utils.LogInfo("Adding SKU: %s with quantity: %d to cart for user ID: %d", req.SKU, req.Quantity, user.ID)

	product, err := utils.GetProductForCart(req.SKU)
	if err != nil {
		utils.LogError("Product not found: %s for user ID: %d", req.SKU, user.ID)
		utils.NotFound(c, "Product not found")
		return
	}
	if product.StockQuantity < 1 {
		utils.LogError("Product SKU: %s is out of stock", req.SKU)
		utils.BadRequest(c, "Product out of stock", nil)
		return
	}

	sess, err := engineSession(c, user)
	if err != nil {
		utils.LogError("Failed to load session for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load cart", nil)
		return
	}

	totalRequested := req.Quantity
	var existing models.CartItem
	if err := config.DB.Where("user_id = ? AND sku = ?", user.ID, req.SKU).First(&existing).Error; err == nil {
		totalRequested += existing.Quantity
	}
	if totalRequested > maxQuantityPerSKU {
		utils.LogError("Quantity exceeds max limit for SKU: %s, requested: %d", req.SKU, totalRequested)
		utils.BadRequest(c, fmt.Sprintf("Cannot add more than %d units of the same product", maxQuantityPerSKU), nil)
		return
	}
	if totalRequested > product.StockQuantity {
		utils.LogError("Insufficient stock for SKU: %s, requested: %d, available: %d", req.SKU, totalRequested, product.StockQuantity)
		utils.BadRequest(c, fmt.Sprintf("Not enough stock. Available: %d", product.StockQuantity), nil)
		return
	}

	if existing.ID != 0 {
		existing.Quantity = totalRequested
		if err := config.DB.Save(&existing).Error; err != nil {
			utils.LogError("Failed to update cart row for user ID: %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to update cart", nil)
			return
		}
	} else {
		row := models.CartItem{UserID: user.ID, SKU: req.SKU, Quantity: req.Quantity}
		if err := config.DB.Create(&row).Error; err != nil {
			utils.LogError("Failed to create cart row for user ID: %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to update cart", nil)
			return
		}
	}

	sess.Cart.Add(product.SKU, product.Name, product.Price, req.Quantity)

	utils.LogInfo("Added SKU: %s to cart for user ID: %d", req.SKU, user.ID)
	utils.Success(c, "Product added to cart", cartSummary(sess))
}
