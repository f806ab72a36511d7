package controllers

import (
	"fmt"

	"github.com/packkart/PackKart/models"
	"github.com/packkart/PackKart/pricing"
	"github.com/packkart/PackKart/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// checkoutSessionKey is where the browser session stores its checkout
// session id.
const checkoutSessionKey = "checkout_session_id"

var (
	sessionManager  *pricing.Manager
	couponValidator *pricing.Validator
	giftResolver    *pricing.Resolver
)

// InitEngine injects the pricing engine built in main. Controllers hold the
// session registry plus the validator/resolver for commit-time rechecks.
func InitEngine(m *pricing.Manager, v *pricing.Validator, r *pricing.Resolver) {
	sessionManager = m
	couponValidator = v
	giftResolver = r
}

// currentUser pulls the authenticated user out of the context, replying 401
// itself when absent.
func currentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	if !ok {
		utils.LogError("Invalid user type in context")
		utils.BadRequest(c, "Invalid user in context", nil)
		return models.User{}, false
	}
	return user, true
}

// engineSession returns the user's checkout session, hydrating the cart from
// persisted rows on first touch and wiring engine events into the logs. The
// session id is written into the browser session so a returning client
// resumes the same aggregate.
func engineSession(c *gin.Context, user models.User) (*pricing.Session, error) {
	sess, created := sessionManager.Session(user.ID, fmt.Sprintf("%d", user.ID))
	bindCheckoutSession(c, sess)
	if !created {
		return sess, nil
	}

	sess.Coordinator.Subscribe(logPricingEvent(user.ID))

	rows, err := utils.GetCartRows(user.ID)
	if err != nil {
		return nil, err
	}
	var lines []pricing.Line
	for _, row := range rows {
		product, err := utils.GetProductForCart(row.SKU)
		if err != nil || product == nil {
			continue
		}
		lines = append(lines, pricing.Line{
			SKU:       product.SKU,
			Name:      product.Name,
			Quantity:  row.Quantity,
			UnitPrice: product.Price,
		})
	}
	sess.Cart.Hydrate(lines)
	return sess, nil
}

// bindCheckoutSession records the checkout session id in the cookie session.
// A no-op when the browser already carries the current id.
func bindCheckoutSession(c *gin.Context, sess *pricing.Session) {
	browser := sessions.Default(c)
	if browser.Get(checkoutSessionKey) == sess.ID {
		return
	}
	browser.Set(checkoutSessionKey, sess.ID)
	if err := browser.Save(); err != nil {
		utils.LogError("Failed to persist checkout session id for user ID: %d: %v", sess.UserID, err)
	}
}

// logPricingEvent is the presentation-side subscriber for coordinator events.
// The engine only emits; deciding how to surface a warning happens here.
func logPricingEvent(userID uint) func(pricing.Event) {
	return func(ev pricing.Event) {
		switch e := ev.(type) {
		case pricing.CouponApplied:
			utils.LogInfo("Coupon %s applied for user ID: %d, discount: %.2f", e.Code, userID, e.DiscountAmount)
		case pricing.CouponRejected:
			utils.LogInfo("Coupon %s rejected for user ID: %d: %v", e.Code, userID, e.Reason)
		case pricing.CouponRevalidated:
			utils.LogInfo("Coupon %s revalidated for user ID: %d, discount %.2f -> %.2f", e.Code, userID, e.OldDiscount, e.NewDiscount)
		case pricing.CouponRemoved:
			utils.LogInfo("Coupon %s removed for user ID: %d: %s", e.Code, userID, e.Reason)
		case pricing.GiftTierSetChanged:
			utils.LogInfo("Gift tiers changed for user ID: %d, qualifying: %d, nearby: %d, dropped selections: %d",
				userID, len(e.Qualifying), len(e.Nearby), len(e.DroppedSelections))
		}
	}
}
