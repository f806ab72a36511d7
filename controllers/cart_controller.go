package controllers

import (
	"fmt"

	"github.com/packkart/PackKart/pricing"
	"github.com/packkart/PackKart/utils"
	"github.com/gin-gonic/gin"
)

// cartSummary renders the settled session state: lines, subtotal, the
// discount line if a coupon survived the latest revalidation, and the gift
// tier sets for the current post-discount amount.
func cartSummary(sess *pricing.Session) gin.H {
	sess.Coordinator.Settle()
	snap := sess.Coordinator.Snapshot()

	var items []gin.H
	for _, line := range sess.Cart.Lines() {
		items = append(items, gin.H{
			"sku":        line.SKU,
			"name":       line.Name,
			"quantity":   line.Quantity,
			"unit_price": fmt.Sprintf("%.2f", line.UnitPrice),
			"line_total": fmt.Sprintf("%.2f", line.LineTotal),
		})
	}

	var discount float64
	couponCode := ""
	if snap.Applied != nil {
		discount = snap.Applied.DiscountAmount
		couponCode = snap.Applied.Coupon.Code
	}

	var nearby []gin.H
	for _, t := range snap.Tiers.Nearby {
		nearby = append(nearby, gin.H{
			"id":                 t.ID,
			"name":               t.Name,
			"spending_threshold": fmt.Sprintf("%.2f", t.SpendingThreshold),
			"amount_needed":      fmt.Sprintf("%.2f", t.AmountNeeded),
		})
	}

	return gin.H{
		"items":            items,
		"subtotal":         fmt.Sprintf("%.2f", snap.Subtotal),
		"coupon_code":      couponCode,
		"coupon_state":     string(snap.State),
		"discount_amount":  fmt.Sprintf("%.2f", discount),
		"order_amount":     fmt.Sprintf("%.2f", pricing.Round2(snap.Subtotal-discount)),
		"qualifying_tiers": snap.Tiers.Qualifying,
		"nearby_tiers":     nearby,
		"gift_selections":  sess.Selections.Chosen(),
	}
}

// GetCart returns the user's cart with all pricing calculations. Viewing the
// cart reads settled state only and never triggers a revalidation.
func GetCart(c *gin.Context) {
	utils.LogInfo("GetCart called")

	user, ok := currentUser(c)
	if !ok {
		return
	}

	sess, err := engineSession(c, user)
	if err != nil {
		utils.LogError("Failed to load cart for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load cart", nil)
		return
	}

	utils.Success(c, "Cart retrieved successfully", cartSummary(sess))
}
