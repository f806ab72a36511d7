package controllers

import (
	"errors"
	"fmt"

	"github.com/packkart/PackKart/pricing"
	"github.com/packkart/PackKart/utils"
	"github.com/gin-gonic/gin"
)

// GetGiftTiers returns the qualifying and nearby gift tiers for the current
// post-discount amount, plus the user's current selections.
func GetGiftTiers(c *gin.Context) {
	utils.LogInfo("GetGiftTiers called")

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

	var nearby []gin.H
	for _, t := range snap.Tiers.Nearby {
		nearby = append(nearby, gin.H{
			"id":                 t.ID,
			"name":               t.Name,
			"spending_threshold": fmt.Sprintf("%.2f", t.SpendingThreshold),
			"gift_limit":         t.GiftLimit,
			"items":              t.Items,
			"amount_needed":      fmt.Sprintf("%.2f", t.AmountNeeded),
		})
	}

	utils.Success(c, "Gift tiers retrieved successfully", gin.H{
		"order_amount":     fmt.Sprintf("%.2f", sess.Coordinator.OrderAmount()),
		"qualifying_tiers": snap.Tiers.Qualifying,
		"nearby_tiers":     nearby,
		"selections":       sess.Selections.Chosen(),
	})
}

// GiftSelectionRequest identifies one gift item within a tier.
type GiftSelectionRequest struct {
	TierID     uint `json:"tier_id" binding:"required"`
	GiftItemID uint `json:"gift_item_id" binding:"required"`
}

// SelectGift adds a gift item for a qualifying tier. Cap violations are
// rejected synchronously without any remote call.
func SelectGift(c *gin.Context) {
	utils.LogInfo("SelectGift called")

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req GiftSelectionRequest
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

	sess.Coordinator.Settle()
	snap := sess.Coordinator.Snapshot()

	var tier *pricing.QualifyingTier
	for i := range snap.Tiers.Qualifying {
		if snap.Tiers.Qualifying[i].ID == req.TierID {
			tier = &snap.Tiers.Qualifying[i]
			break
		}
	}
	if tier == nil {
		utils.LogError("Tier %d not qualifying for user ID: %d", req.TierID, user.ID)
		utils.BadRequest(c, "Gift tier not earned for the current order amount", nil)
		return
	}

	if err := sess.Selections.Select(*tier, req.GiftItemID); err != nil {
		utils.LogError("Gift selection failed for user ID: %d: %v", user.ID, err)
		switch {
		case errors.Is(err, pricing.ErrSelectionLimit):
			utils.BadRequest(c, fmt.Sprintf("You can select at most %d gifts for this tier", tier.GiftLimit), nil)
		case errors.Is(err, pricing.ErrGiftNotInTier), errors.Is(err, pricing.ErrGiftInactive):
			utils.BadRequest(c, err.Error(), nil)
		default:
			utils.InternalServerError(c, "Failed to select gift", nil)
		}
		return
	}

	utils.LogInfo("Selected gift item %d in tier %d for user ID: %d", req.GiftItemID, req.TierID, user.ID)
	utils.Success(c, "Gift selected", gin.H{"selections": sess.Selections.Chosen()})
}

// DeselectGift removes a gift selection. Removing an absent selection
// succeeds.
func DeselectGift(c *gin.Context) {
	utils.LogInfo("DeselectGift called")

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req GiftSelectionRequest
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

	sess.Selections.Deselect(req.TierID, req.GiftItemID)

	utils.LogInfo("Deselected gift item %d in tier %d for user ID: %d", req.GiftItemID, req.TierID, user.ID)
	utils.Success(c, "Gift deselected", gin.H{"selections": sess.Selections.Chosen()})
}
