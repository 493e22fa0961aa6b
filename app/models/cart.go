package models

import "time"

// Cart is a user's active shopping cart. One active cart per user by
// convention; carts and their items are hard deleted.
type Cart struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID uint       `gorm:"not null;index" json:"userId"`
	Items  []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// CartItem is one product line in a cart. Quantity is clamped to the
// product's stock at insert time; Price is a snapshot of the product price.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CartID    uint    `gorm:"not null;index" json:"cartId"`
	ProductID uint    `gorm:"not null;index" json:"productId"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Price     float64 `gorm:"not null" json:"price"`
	Notes     string  `gorm:"type:text" json:"notes"`
}
