package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses used by this service. Fulfillment owns everything after
// "Placed".
const (
	OrderStatusPlaced = "Placed"
)

// Order is the submission record handed to the order/fulfillment system.
// DiscountAmount is recomputed server-side at commit; the session's number is
// never trusted as final.
type Order struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"index" json:"user_id"`
	Subtotal       float64        `json:"subtotal"`
	CouponCode     string         `json:"coupon_code,omitempty"`
	DiscountAmount float64        `json:"discount_amount"`
	Tax            float64        `json:"tax"`
	ShippingFee    float64        `json:"shipping_fee"`
	Total          float64        `json:"total"`
	Status         string         `json:"status"`
	Items          []OrderItem    `json:"items"`
	Gifts          []OrderGift    `json:"gifts"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// OrderItem is a purchased line frozen at submission time.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index" json:"order_id"`
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// OrderGift is a free gift the order earned. Eligibility was re-checked at
// commit; inventory arbitrates the last-unit race, not this service.
type OrderGift struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	OrderID    uint `gorm:"index" json:"order_id"`
	GiftTierID uint `json:"gift_tier_id"`
	GiftItemID uint `json:"gift_item_id"`
}
