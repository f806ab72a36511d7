package utils

import (
	"context"
	"errors"
	"strconv"

	"github.com/packkart/PackKart/config"
	"github.com/packkart/PackKart/models"
	"gorm.io/gorm"
)

// CouponStore reads coupon reference data for the pricing engine. Every call
// hits the database so a revalidation always sees the latest authored state.
type CouponStore struct{}

// CouponByCode fetches a coupon by its normalized code, nil when absent.
// Codes are stored normalized, so the equality match uses the unique index.
func (CouponStore) CouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := config.DB.WithContext(ctx).Where("code = ?", code).First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// CouponRedeemed reports whether the identity already has a redemption row
// for the coupon. Guests (empty identity) never do.
func (CouponStore) CouponRedeemed(ctx context.Context, couponID uint, identity string) (bool, error) {
	if identity == "" {
		return false, nil
	}
	userID, err := strconv.ParseUint(identity, 10, 64)
	if err != nil {
		return false, nil
	}
	var count int64
	if err := config.DB.WithContext(ctx).Model(&models.UserCoupon{}).
		Where("user_id = ? AND coupon_id = ?", uint(userID), couponID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GiftStore reads the gift tier catalog for the pricing engine.
type GiftStore struct{}

// ActiveGiftTiers fetches active tiers with their gift item lists.
func (GiftStore) ActiveGiftTiers(ctx context.Context) ([]models.GiftTier, error) {
	var tiers []models.GiftTier
	err := config.DB.WithContext(ctx).
		Preload("Items").
		Where("is_active = ?", true).
		Order("id").
		Find(&tiers).Error
	if err != nil {
		return nil, err
	}
	return tiers, nil
}

// GetProductForCart retrieves an active product by SKU for cart building.
func GetProductForCart(sku string) (*models.Product, error) {
	var product models.Product
	if err := config.DB.Where("sku = ? AND is_active = ?", sku, true).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetCartRows retrieves the persisted cart rows for a user.
func GetCartRows(userID uint) ([]models.CartItem, error) {
	var rows []models.CartItem
	if err := config.DB.Where("user_id = ?", userID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
