package service

import (
	"context"
	"fmt"
	"time"

	"github.com/abdulrazikehab/Dawah-sub000/internal/domain"
	"github.com/abdulrazikehab/Dawah-sub000/internal/repository"
	"github.com/abdulrazikehab/Dawah-sub000/internal/token"
	"github.com/abdulrazikehab/Dawah-sub000/pkg/events"
	"github.com/abdulrazikehab/Dawah-sub000/pkg/logger"
)

// CheckInService performs the one-time venue-side attendance transition.
// Several staff devices can scan the same credential within milliseconds;
// the storage layer's conditional update guarantees exactly one of them
// wins and the rest see DuplicateCheckInError with the winner's timestamp.
type CheckInService interface {
	CheckIn(ctx context.Context, principal domain.Principal, credential string) (*domain.Guest, error)
	UndoCheckIn(ctx context.Context, principal domain.Principal, guestID int64) (*domain.Guest, error)
}

type checkInService struct {
	guestRepo repository.GuestRepository
	eventRepo repository.EventRepository
	access    AccessService
	codec     *token.Codec
	eventBus  events.Publisher
}

func NewCheckInService(
	guestRepo repository.GuestRepository,
	eventRepo repository.EventRepository,
	access AccessService,
	codec *token.Codec,
	eventBus events.Publisher,
) CheckInService {
	return &checkInService{
		guestRepo: guestRepo,
		eventRepo: eventRepo,
		access:    access,
		codec:     codec,
		eventBus:  eventBus,
	}
}

func (s *checkInService) CheckIn(ctx context.Context, principal domain.Principal, credential string) (*domain.Guest, error) {
	guestID, err := s.codec.Resolve(credential)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	guest, err := s.guestRepo.GetByID(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up guest: %w", err)
	}
	if guest == nil {
		return nil, domain.ErrNotFound
	}

	event, err := s.eventRepo.GetByID(ctx, guest.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	ok, err := s.access.IsAuthorized(ctx, principal, event)
	if err != nil {
		return nil, fmt.Errorf("failed to check authorization: %w", err)
	}
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	// Only confirmed attendees are check-in eligible.
	if guest.RSVPStatus != domain.RSVPAttending {
		return nil, domain.ErrInvalidRSVPTransition
	}

	updated, err := s.guestRepo.CheckIn(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to check in guest: %w", err)
	}
	if updated == nil {
		// Another device got there first. Surface the original time so
		// staff can tell "already processed" from a fault.
		current, err := s.guestRepo.GetByID(ctx, guestID)
		if err != nil {
			return nil, fmt.Errorf("failed to re-read guest: %w", err)
		}
		if current == nil || current.CheckedInAt == nil {
			return nil, fmt.Errorf("check-in state unreadable for guest %d", guestID)
		}
		return nil, &domain.DuplicateCheckInError{CheckedInAt: *current.CheckedInAt}
	}

	evt := events.GuestCheckedInEvent{
		GuestID:     updated.ID,
		EventID:     updated.EventID,
		PerformedBy: principal.ID,
		CheckedInAt: *updated.CheckedInAt,
	}
	if err := s.eventBus.Publish(ctx, events.GuestCheckedIn, evt); err != nil {
		logger.ErrorContext(ctx, "Failed to publish check-in event", "error", err, "guest_id", updated.ID)
	}

	return updated, nil
}

func (s *checkInService) UndoCheckIn(ctx context.Context, principal domain.Principal, guestID int64) (*domain.Guest, error) {
	// Correcting a mis-scan is a separately authorized operation, not a
	// privilege of whoever can scan.
	if !principal.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}

	guest, err := s.guestRepo.GetByID(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up guest: %w", err)
	}
	if guest == nil {
		return nil, domain.ErrNotFound
	}

	prev := guest.CheckedInAt
	updated, err := s.guestRepo.UndoCheckIn(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to undo check-in: %w", err)
	}
	if updated == nil {
		// Not checked in; nothing to undo.
		return nil, domain.ErrInvalidRSVPTransition
	}

	evt := events.GuestCheckInUndoneEvent{
		GuestID:  updated.ID,
		EventID:  updated.EventID,
		UndoneBy: principal.ID,
		UndoneAt: time.Now(),
	}
	if prev != nil {
		evt.PrevTime = *prev
	}
	if err := s.eventBus.Publish(ctx, events.GuestCheckInUndone, evt); err != nil {
		logger.ErrorContext(ctx, "Failed to publish undo event", "error", err, "guest_id", updated.ID)
	}

	return updated, nil
}
