package models

import (
	"time"

	"gorm.io/gorm"
)

// Order status values.
const (
	OrderStatusNew       = "new"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCancelled = "cancelled"
)

// Order is created by confirming a cart. Soft deleted; the housekeeping job
// purges expired soft-deleted orders with Unscoped.
type Order struct {
	gorm.Model
	UserID  uint      `gorm:"not null;index" json:"userId"`
	Status  string    `gorm:"size:50;not null;default:new" json:"status"`
	Date    time.Time `gorm:"not null" json:"date"`
	Version uint      `gorm:"not null;default:0" json:"-"`

	Details []OrderDetail `gorm:"constraint:OnDelete:CASCADE" json:"details"`
}

// OrderDetail is a price-snapshotted copy of a cart item taken at
// confirmation time.
type OrderDetail struct {
	gorm.Model
	OrderID   uint    `gorm:"not null;index" json:"orderId"`
	ProductID uint    `gorm:"not null;index" json:"productId"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Price     float64 `gorm:"not null" json:"price"`
	Notes     string  `gorm:"type:text" json:"notes"`
}
