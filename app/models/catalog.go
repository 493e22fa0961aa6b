package models

import (
	"time"

	"gorm.io/gorm"
)

// Category groups products. The (name, description) pair is unique and
// categories are hard deleted.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name        string `gorm:"size:255;not null;uniqueIndex:idx_categories_name_desc" json:"name"`
	Description string `gorm:"size:255;not null;uniqueIndex:idx_categories_name_desc" json:"description"`
}

// Product is a soft-deletable catalogue entry. Quantity nil means unlimited
// stock; when set it clamps cart item quantities.
type Product struct {
	gorm.Model
	CategoryID  uint    `gorm:"not null;index" json:"categoryId"`
	Name        string  `gorm:"size:255;not null;index" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Quantity    *int    `json:"quantity"`
	Price       float64 `gorm:"not null;default:0" json:"price"`

	Category Category `json:"-"`
}
