package models

import (
	"time"

	"gorm.io/gorm"
)

// Subscription status values.
const (
	SubscriptionStatusActive  = "active"
	SubscriptionStatusExpired = "expired"
	SubscriptionStatusPaused  = "paused"
)

// Subscription is a season pass for a user over a date range.
type Subscription struct {
	gorm.Model
	UserID uint      `gorm:"not null;index" json:"userId"`
	Start  time.Time `gorm:"not null" json:"start"`
	Finish time.Time `gorm:"not null" json:"finish"`
	Price  float64   `gorm:"not null" json:"price"`
	Status string    `gorm:"size:50;not null;default:active" json:"status"`
	Notes  string    `gorm:"type:text" json:"notes"`
}
