package models

import (
	"time"

	"gorm.io/gorm"
)

// GiftTier is a spending threshold that unlocks free gifts. Tiers and their
// item lists are authored externally; the engine reads them to decide which
// tiers the current post-discount amount qualifies for.
type GiftTier struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Name              string         `gorm:"not null" json:"name"`
	SpendingThreshold float64        `gorm:"not null" json:"spending_threshold"`
	GiftLimit         int            `gorm:"not null;default:1" json:"gift_limit"`
	IsActive          bool           `gorm:"default:true" json:"is_active"`
	Items             []GiftItem     `gorm:"many2many:gift_tier_items" json:"items"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// GiftItem is a selectable free gift. StockQuantity is informational here;
// reservation and decrement belong to the inventory system at order commit.
type GiftItem struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"not null" json:"name"`
	Description   string         `json:"description"`
	StockQuantity int            `json:"stock_quantity"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasItem reports whether the tier's gift list contains the given item.
func (t GiftTier) HasItem(itemID uint) bool {
	for _, it := range t.Items {
		if it.ID == itemID {
			return true
		}
	}
	return false
}
