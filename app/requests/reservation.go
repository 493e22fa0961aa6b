package requests

import (
	"strings"
	"time"
)

// Umbrella creates or updates a beach map seat.
type Umbrella struct {
	Letter string `json:"letter"`
	Number int    `json:"number"`
}

func (r Umbrella) Validate() map[string]string {
	errs := map[string]string{}
	letter := strings.ToUpper(strings.TrimSpace(r.Letter))
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
		errs["letter"] = "letter must be a single character A to Z"
	}
	if r.Number < 1 {
		errs["number"] = "number must be at least 1"
	}
	return errs
}

// UmbrellaStatus toggles the busy flag directly (admin override).
type UmbrellaStatus struct {
	Busy bool `json:"busy"`
}

func (r UmbrellaStatus) Validate() map[string]string { return map[string]string{} }

// Reservation books an umbrella for a time window.
type Reservation struct {
	UmbrellaID uint      `json:"umbrellaId"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Notes      string    `json:"notes"`
	Price      *float64  `json:"price"`
}

func (r Reservation) Validate() map[string]string {
	errs := map[string]string{}
	if r.UmbrellaID == 0 {
		errs["umbrellaId"] = "umbrella is required"
	}
	if r.Start.IsZero() {
		errs["start"] = "start is required"
	} else if r.Start.Before(time.Now()) {
		errs["start"] = "start cannot be in the past"
	}
	if r.End.IsZero() {
		errs["end"] = "end is required"
	} else if !r.End.After(r.Start) {
		errs["end"] = "end must be after start"
	}
	if r.Price != nil && *r.Price < 0 {
		errs["price"] = "price cannot be negative"
	}
	return errs
}
