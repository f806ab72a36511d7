package controllers

import (
	"github.com/packkart/PackKart/config"
	"github.com/packkart/PackKart/models"
	"github.com/packkart/PackKart/utils"
	"github.com/gin-gonic/gin"
)

// ListProducts returns the active packaging catalog. Authoring lives in the
// catalog service; this listing exists so carts can be built against it.
func ListProducts(c *gin.Context) {
	utils.LogInfo("ListProducts called")

	var products []models.Product
	if err := config.DB.Where("is_active = ?", true).Order("id").Find(&products).Error; err != nil {
		utils.LogError("Failed to fetch products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", nil)
		return
	}

	utils.Success(c, "Products retrieved successfully", gin.H{"products": products})
}

// GetProduct returns one product by SKU.
func GetProduct(c *gin.Context) {
	utils.LogInfo("GetProduct called")

	sku := c.Param("sku")
	product, err := utils.GetProductForCart(sku)
	if err != nil {
		utils.LogError("Product not found: %s", sku)
		utils.NotFound(c, "Product not found")
		return
	}

	utils.Success(c, "Product retrieved successfully", gin.H{"product": product})
}
