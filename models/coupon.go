package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon discount types.
const (
	CouponTypePercent = "percent"
	CouponTypeFixed   = "fixed"
)

// Coupon is immutable reference data authored by the promotions team. The
// pricing engine fetches it fresh on every validation and never caches it
// across revalidations.
//
// Code is stored normalized (uppercase, trimmed); the authoring pipeline
// writes it that way and lookups pass codes through pricing.NormalizeCode, so
// the plain unique index serves both uniqueness and the lookup.
type Coupon struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Code           string         `gorm:"uniqueIndex" json:"code"`
	Type           string         `json:"type"` // "percent" or "fixed"
	Value          float64        `json:"value"`
	MinOrderAmount float64        `json:"min_order_amount"`
	ValidFrom      time.Time      `json:"valid_from"`
	ValidTo        time.Time      `json:"valid_to"`
	UsageLimit     int            `json:"usage_limit"` // 0 means unlimited
	UsedCount      int            `json:"used_count"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// UserCoupon records a redemption. Rows are written only at order commit,
// never at validation time.
type UserCoupon struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"index" json:"user_id"`
	CouponID uint      `gorm:"index" json:"coupon_id"`
	UsedAt   time.Time `json:"used_at"`
}
