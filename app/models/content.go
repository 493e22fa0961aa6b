package models

import "time"

// Comment is a user review with a 1 to 5 score. The (user, title) pair is
// unique.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID uint   `gorm:"not null;uniqueIndex:idx_comments_user_title" json:"userId"`
	Score  int    `gorm:"not null" json:"score"`
	Title  string `gorm:"size:255;not null;uniqueIndex:idx_comments_user_title" json:"title"`
	Body   string `gorm:"type:text" json:"body"`
}

// Post is a blog entry with a globally unique title.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title     string `gorm:"size:255;not null;uniqueIndex" json:"title"`
	Content   string `gorm:"type:text" json:"content"`
	Published bool   `gorm:"not null;default:false" json:"published"`
}

// Image records an uploaded blob stored on a storage disk under Path.
type Image struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Path        string `gorm:"size:512;not null;uniqueIndex" json:"path"`
	Size        int64  `gorm:"not null" json:"size"`
	ContentType string `gorm:"size:100;not null" json:"contentType"`
	Description string `gorm:"type:text" json:"description"`
}
