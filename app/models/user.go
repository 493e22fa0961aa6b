package models

import "time"

// Role values stored on the user row.
const (
	RoleAdmin     = "admin"
	RolePowerUser = "poweruser"
	RoleUser      = "user"
)

// User is the identity aggregate. Accounts start unverified; VerifyEmail
// flips Verified and assigns the default role. SecurityStamp rotates on every
// credential change and successful login, invalidating older access tokens.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	FirstName    string `gorm:"size:100;not null" json:"firstName"`
	LastName     string `gorm:"size:100;not null" json:"lastName"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password     string `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	Role         string `gorm:"size:50;not null" json:"role"` // empty until verified
	Verified     bool   `gorm:"not null;default:false" json:"verified"`
	SecurityStamp string `gorm:"size:64;not null" json:"-"`

	FailedLogins  int        `gorm:"not null;default:0" json:"-"`
	LockedUntil   *time.Time `json:"-"`
	RefreshToken  string     `gorm:"size:64" json:"-"`
	RefreshExpiry *time.Time `json:"-"`
}
