package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain failures are recovered at the request boundary and mapped to typed
// HTTP responses. Anything not in this taxonomy is a transient storage error
// and safe to retry.
var (
	ErrNotFound              = errors.New("not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrQuotaExceeded         = errors.New("companion count exceeds allowance")
	ErrInvalidRSVPTransition = errors.New("invalid rsvp transition")
	ErrDuplicateGuest        = errors.New("guest with this phone already invited to event")
	ErrInvalidInput          = errors.New("invalid input")
)

// DuplicateCheckInError reports that a guest was already checked in. It
// carries the original check-in time so staff can tell "already processed"
// apart from a system error. It is an idempotent no-op, not a hard failure.
type DuplicateCheckInError struct {
	CheckedInAt time.Time
}

func (e *DuplicateCheckInError) Error() string {
	return fmt.Sprintf("guest already checked in at %s", e.CheckedInAt.Format(time.RFC3339))
}
