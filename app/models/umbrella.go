package models

import (
	"time"

	"gorm.io/gorm"
)

// Umbrella is one seat on the beach map, identified by its (letter, number)
// pair. Busy flips with the reservation lifecycle and is broadcast to the
// websocket feed.
type Umbrella struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Letter string `gorm:"size:1;not null;uniqueIndex:idx_umbrellas_letter_number" json:"letter"`
	Number int    `gorm:"not null;uniqueIndex:idx_umbrellas_letter_number" json:"number"`
	Busy   bool   `gorm:"not null;default:false" json:"busy"`
}

// Reservation books an umbrella for a time window. A live (user, start, end)
// tuple is unique, enforced by the duplicate pre-check inside the booking
// transaction rather than a DB constraint: a hard unique index would also
// count soft-deleted rows and block re-booking a cancelled window. The
// composite index below only backs the pre-check lookup.
type Reservation struct {
	gorm.Model
	UserID     uint      `gorm:"not null;index:idx_reservations_user_window" json:"userId"`
	UmbrellaID uint      `gorm:"not null;index" json:"umbrellaId"`
	Start      time.Time `gorm:"column:start_time;not null;index:idx_reservations_user_window" json:"start"`
	End        time.Time `gorm:"column:end_time;not null;index:idx_reservations_user_window" json:"end"`
	Notes      string    `gorm:"type:text" json:"notes"`
	Price      *float64  `json:"price"`
	Version    uint      `gorm:"not null;default:0" json:"-"`

	Umbrella Umbrella `json:"-"`
}
