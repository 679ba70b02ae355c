package domain

import (
	"fmt"
	"time"

	"github.com/abdulrazikehab/Dawah-sub000/internal/utils"
)

type Event struct {
	ID     int64  `json:"id"`
	HostID int64  `json:"host_id"`
	Title  string `json:"title"`

	// PublicSlug is the opaque segment of the public RSVP link. Anyone
	// holding the link can read the event and submit a response.
	PublicSlug string `json:"public_slug"`

	// GuestCountTarget is informational only, never an enforced cap.
	GuestCountTarget int `json:"guest_count_target"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateEventRequest struct {
	Title            string `json:"title"`
	GuestCountTarget int    `json:"guest_count_target"`
}

func (r *CreateEventRequest) Normalize() {
	r.Title = utils.NormalizeString(r.Title)
}

func (r *CreateEventRequest) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if r.GuestCountTarget < 0 {
		return fmt.Errorf("%w: guest count target must not be negative", ErrInvalidInput)
	}
	return nil
}

// EventStats summarizes the guest registry for the host dashboard.
type EventStats struct {
	EventID    int64 `json:"event_id"`
	Total      int   `json:"total"`
	Pending    int   `json:"pending"`
	Attending  int   `json:"attending"`
	Declined   int   `json:"declined"`
	CheckedIn  int   `json:"checked_in"`
	Companions int   `json:"companions"`
}
