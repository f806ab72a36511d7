package controllers

import (
	"errors"

	"github.com/packkart/PackKart/pricing"
	"github.com/packkart/PackKart/utils"
	"github.com/gin-gonic/gin"
)

// ApplyCouponRequest represents the request body for applying a coupon
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// ApplyCoupon submits a coupon code for the user's cart. The coordinator
// validates it against the current subtotal; on success the response carries
// the discount line and the gift tiers available at the post-discount amount.
func ApplyCoupon(c *gin.Context) {
	utils.LogInfo("ApplyCoupon called")

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	utils.LogInfo("Attempting to apply coupon code: %s for user ID: %d", req.Code, user.ID)

	sess, err := engineSession(c, user)
	if err != nil {
		utils.LogError("Failed to load session for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load cart", nil)
		return
	}

	sess.Coordinator.Apply(req.Code)
	sess.Coordinator.Settle()
	snap := sess.Coordinator.Snapshot()

	if snap.Applied == nil {
		reason := snap.RejectionReason
		utils.LogError("Coupon %s not applied for user ID: %d: %v", req.Code, user.ID, reason)
		switch {
		case errors.Is(reason, pricing.ErrCouponNotFound):
			utils.NotFound(c, "Invalid coupon code")
		case pricing.IsValidationError(reason):
			utils.BadRequest(c, reason.Error(), nil)
		default:
			utils.BadRequest(c, "Coupon could not be verified, please try again", nil)
		}
		return
	}

	utils.LogInfo("Successfully applied coupon code: %s for user ID: %d, discount: %.2f",
		snap.Applied.Coupon.Code, user.ID, snap.Applied.DiscountAmount)
	utils.Success(c, "Coupon applied successfully", cartSummary(sess))
}

// RemoveCoupon removes the applied coupon from the user's cart.
func RemoveCoupon(c *gin.Context) {
	utils.LogInfo("RemoveCoupon called")

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

	sess.Coordinator.Remove()

	utils.LogInfo("Removed coupon for user ID: %d", user.ID)
	utils.Success(c, "Coupon removed successfully", cartSummary(sess))
}
