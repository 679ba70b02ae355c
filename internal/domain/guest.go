package domain

import (
	"fmt"
	"time"

	"github.com/abdulrazikehab/Dawah-sub000/internal/utils"
)

type RSVPStatus string

const (
	RSVPPending   RSVPStatus = "pending"
	RSVPAttending RSVPStatus = "attending"
	RSVPDeclined  RSVPStatus = "declined"
)

func ParseRSVPStatus(s string) (RSVPStatus, bool) {
	switch RSVPStatus(s) {
	case RSVPPending, RSVPAttending, RSVPDeclined:
		return RSVPStatus(s), true
	default:
		return "", false
	}
}

type CheckInStatus string

const (
	CheckInPending CheckInStatus = "pending"
	CheckedIn      CheckInStatus = "checked_in"
)

func ParseCheckInStatus(s string) (CheckInStatus, bool) {
	switch CheckInStatus(s) {
	case CheckInPending, CheckedIn:
		return CheckInStatus(s), true
	default:
		return "", false
	}
}

// Guest tracks one invitee's response and attendance for one event.
// Invariants: 0 <= ActualCompanions <= MaxCompanions, and CheckedInAt is
// non-nil exactly when CheckInStatus is checked_in.
type Guest struct {
	ID      int64 `json:"id"`
	EventID int64 `json:"event_id"`

	Name  string `json:"name"`
	Phone string `json:"phone"`

	// MaxCompanions is granted at invitation time. Self-registered guests
	// always get zero.
	MaxCompanions    int `json:"max_companions"`
	ActualCompanions int `json:"actual_companions"`

	RSVPStatus    RSVPStatus    `json:"rsvp_status"`
	CheckInStatus CheckInStatus `json:"check_in_status"`
	CheckedInAt   *time.Time    `json:"checked_in_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddGuestRequest creates a pre-invited guest on the host's registry.
type AddGuestRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	// MaxCompanions defaults to 1 when omitted and is clamped to >= 0.
	MaxCompanions *int `json:"max_companions,omitempty"`
}

func (r *AddGuestRequest) Normalize() {
	r.Name = utils.NormalizeString(r.Name)
	r.Phone = utils.NormalizePhone(r.Phone)
	if r.MaxCompanions == nil {
		def := 1
		r.MaxCompanions = &def
	} else if *r.MaxCompanions < 0 {
		zero := 0
		r.MaxCompanions = &zero
	}
}

func (r *AddGuestRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !utils.IsValidPhone(r.Phone) {
		return fmt.Errorf("%w: invalid phone format", ErrInvalidInput)
	}
	return nil
}

// RSVPRequest is a guest's own submission from a public or personalized link.
// GuestID and Phone together recognize a pre-invited guest; without a match
// the submission self-registers a new guest with zero companion allowance.
type RSVPRequest struct {
	GuestID *int64 `json:"guest_id,omitempty"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`

	Status     string `json:"status"`
	Companions int    `json:"companions"`
}

func (r *RSVPRequest) Normalize() {
	r.Name = utils.NormalizeString(r.Name)
	r.Phone = utils.NormalizePhone(r.Phone)
}

func (r *RSVPRequest) Validate() error {
	status, ok := ParseRSVPStatus(r.Status)
	if !ok || status == RSVPPending {
		return fmt.Errorf("%w: status must be attending or declined", ErrInvalidRSVPTransition)
	}
	if r.Companions < 0 {
		return fmt.Errorf("%w: companions must not be negative", ErrInvalidInput)
	}
	if r.GuestID == nil {
		// Self-registration needs enough identity to create the record.
		if r.Name == "" {
			return fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		if !utils.IsValidPhone(r.Phone) {
			return fmt.Errorf("%w: invalid phone format", ErrInvalidInput)
		}
	}
	return nil
}

// GuestFilter narrows registry listings.
type GuestFilter struct {
	RSVPStatus    *RSVPStatus
	CheckInStatus *CheckInStatus
}

// GuestRef binds a link-based request to a pre-invited record. Both fields
// must match; a miss never reveals which one failed.
type GuestRef struct {
	GuestID int64
	Phone   string
}
