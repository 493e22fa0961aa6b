package requests

import (
	"strings"
	"time"

	"github.com/lidosole/lidosole/app/models"
)

// Subscription creates or updates a season pass.
type Subscription struct {
	Start  time.Time `json:"start"`
	Finish time.Time `json:"finish"`
	Price  float64   `json:"price"`
	Status string    `json:"status"`
	Notes  string    `json:"notes"`
}

func (r Subscription) Validate() map[string]string {
	errs := map[string]string{}
	if r.Start.IsZero() {
		errs["start"] = "start is required"
	}
	if r.Finish.IsZero() {
		errs["finish"] = "finish is required"
	} else if !r.Finish.After(r.Start) {
		errs["finish"] = "finish must be after start"
	}
	if r.Price < 0 {
		errs["price"] = "price cannot be negative"
	}
	if r.Status != "" {
		switch r.Status {
		case models.SubscriptionStatusActive, models.SubscriptionStatusExpired,
			models.SubscriptionStatusPaused:
		default:
			errs["status"] = "status must be one of: active, expired, paused"
		}
	}
	return errs
}

// Comment posts a review.
type Comment struct {
	Score int    `json:"score"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (r Comment) Validate() map[string]string {
	errs := map[string]string{}
	if r.Score < 1 || r.Score > 5 {
		errs["score"] = "score must be between 1 and 5"
	}
	if strings.TrimSpace(r.Title) == "" {
		errs["title"] = "title is required"
	}
	return errs
}

// Post creates or updates a blog entry.
type Post struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
}

func (r Post) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(r.Title) == "" {
		errs["title"] = "title is required"
	}
	return errs
}
