package controllers

import (
	"fmt"
	"time"

	"github.com/packkart/PackKart/config"
	"github.com/packkart/PackKart/models"
	"github.com/packkart/PackKart/pricing"
	"github.com/packkart/PackKart/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Flat rates while the tax and delivery services own real rate tables.
const (
	taxRate               = 0.05
	defaultShippingFee    = 50.0
	freeShippingThreshold = 500.0
)

// orderCharges computes tax and shipping on the post-discount order amount.
func orderCharges(orderAmount float64) (tax, shipping float64) {
	tax = pricing.Round2(orderAmount * taxRate)
	if orderAmount < freeShippingThreshold {
		shipping = defaultShippingFee
	}
	return tax, shipping
}

// GetCheckoutSummary returns the settled totals for the checkout page:
// lines, discount line, shipping, and the gift tiers with selections.
func GetCheckoutSummary(c *gin.Context) {
	utils.LogInfo("GetCheckoutSummary called")

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

	sess.Coordinator.Settle()
	snap := sess.Coordinator.Snapshot()

	var discount float64
	if snap.Applied != nil {
		discount = snap.Applied.DiscountAmount
	}
	orderAmount := pricing.Round2(snap.Subtotal - discount)
	tax, shipping := orderCharges(orderAmount)
	sess.Cart.SetCharges(tax, shipping)

	summary := cartSummary(sess)
	summary["tax"] = fmt.Sprintf("%.2f", tax)
	summary["shipping_fee"] = fmt.Sprintf("%.2f", shipping)
	summary["final_total"] = fmt.Sprintf("%.2f", pricing.Round2(orderAmount+tax+shipping))
	summary["can_checkout"] = len(sess.Cart.Lines()) > 0

	utils.Success(c, "Checkout summary retrieved successfully", summary)
}

// PlaceOrder submits the order. Everything the session derived is re-checked
// server-side inside the commit transaction: the coupon is re-validated
// against the final subtotal, gift eligibility is re-resolved, and stale gift
// selections are silently discarded and reported back. Coupon usage
// bookkeeping happens here and only here.
func PlaceOrder(c *gin.Context) {
	utils.LogInfo("PlaceOrder called")

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

	sess.Coordinator.Settle()
	snap := sess.Coordinator.Snapshot()
	lines := sess.Cart.Lines()
	if len(lines) == 0 {
		utils.BadRequest(c, "Cart is empty", nil)
		return
	}
	subtotal := sess.Cart.Subtotal()

	// Commit-time coupon re-validation. The session's discount is never
	// trusted as final; a coupon that no longer qualifies is dropped and the
	// order proceeds without it.
	var discount float64
	var coupon *models.Coupon
	couponWarning := ""
	if snap.Applied != nil {
		identity := fmt.Sprintf("%d", user.ID)
		result, err := couponValidator.Validate(c.Request.Context(), snap.Applied.Coupon.Code, subtotal, identity)
		if err != nil || !result.Valid {
			utils.LogError("Commit-time coupon check failed for user ID: %d: %v", user.ID, err)
			couponWarning = "Coupon no longer qualifies and was not applied"
		} else {
			discount = result.DiscountAmount
			coupon = result.Coupon
		}
	}

	// Commit-time gift re-check: selections for tiers that dropped out are
	// silently discarded and reported, never shipped.
	var droppedGifts map[uint][]uint
	tiers, err := giftResolver.Resolve(c.Request.Context(), pricing.Round2(subtotal-discount))
	if err != nil {
		utils.LogError("Commit-time gift tier resolution failed for user ID: %d: %v", user.ID, err)
		tiers = pricing.TierSet{}
	}
	droppedGifts = sess.Selections.Revalidate(tiers.Qualifying)
	selections := sess.Selections.Chosen()

	orderAmount := pricing.Round2(subtotal - discount)
	tax, shipping := orderCharges(orderAmount)

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction for user ID: %d: %v", user.ID, tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	order := models.Order{
		UserID:         user.ID,
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Tax:            tax,
		ShippingFee:    shipping,
		Total:          pricing.Round2(orderAmount + tax + shipping),
		Status:         models.OrderStatusPlaced,
	}
	if coupon != nil {
		order.CouponCode = coupon.Code
	}
	for _, line := range lines {
		order.Items = append(order.Items, models.OrderItem{
			SKU:       line.SKU,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		})
	}
	for tierID, itemIDs := range selections {
		for _, itemID := range itemIDs {
			order.Gifts = append(order.Gifts, models.OrderGift{GiftTierID: tierID, GiftItemID: itemID})
		}
	}

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create order for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to place order", nil)
		return
	}

	// Usage bookkeeping happens only at commit, never at validation time.
	if coupon != nil {
		if err := tx.Model(&models.Coupon{}).Where("id = ?", coupon.ID).
			UpdateColumn("used_count", gorm.Expr("used_count + ?", 1)).Error; err != nil {
			tx.Rollback()
			utils.LogError("Failed to record coupon usage for user ID: %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to place order", nil)
			return
		}
		redemption := models.UserCoupon{UserID: user.ID, CouponID: coupon.ID, UsedAt: time.Now()}
		if err := tx.Create(&redemption).Error; err != nil {
			tx.Rollback()
			utils.LogError("Failed to record coupon redemption for user ID: %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to place order", nil)
			return
		}
	}

	if err := tx.Where("user_id = ?", user.ID).Delete(&models.CartItem{}).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to clear cart rows for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to place order", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit order for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to place order", nil)
		return
	}

	// Submission ends the session: cart, coupon state, and selections are
	// all destroyed.
	sessionManager.Drop(user.ID)

	utils.LogInfo("Order %d placed for user ID: %d, total: %.2f", order.ID, user.ID, order.Total)
	response := gin.H{
		"order_id":        order.ID,
		"subtotal":        fmt.Sprintf("%.2f", order.Subtotal),
		"coupon_code":     order.CouponCode,
		"discount_amount": fmt.Sprintf("%.2f", order.DiscountAmount),
		"tax":             fmt.Sprintf("%.2f", order.Tax),
		"shipping_fee":    fmt.Sprintf("%.2f", order.ShippingFee),
		"total":           fmt.Sprintf("%.2f", order.Total),
		"selected_gifts":  selections,
	}
	if couponWarning != "" {
		response["coupon_warning"] = couponWarning
	}
	if len(droppedGifts) > 0 {
		response["dropped_gifts"] = droppedGifts
		response["gift_warning"] = "Some gift selections no longer qualified and were removed"
	}
	utils.Created(c, "Order placed successfully", response)
}
