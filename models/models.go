package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the identity row resolved by the auth middleware. Account
// management lives in a separate service; this one only reads it.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	IsBlocked bool           `gorm:"default:false" json:"is_blocked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Product is a packaging catalog entry. The catalog service authors these;
// here they are read-only reference data for building carts.
type Product struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	SKU           string         `gorm:"uniqueIndex;not null" json:"sku"`
	Name          string         `gorm:"not null" json:"name"`
	Description   string         `json:"description"`
	Price         float64        `gorm:"not null" json:"price"`
	StockQuantity int            `json:"stock_quantity"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// CartItem is the persisted cart row. The in-memory session aggregate is
// authoritative during a session; rows are written through on every mutation
// so a cart survives restarts.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index:idx_cart_user_sku,unique" json:"user_id"`
	SKU       string    `gorm:"index:idx_cart_user_sku,unique" json:"sku"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
