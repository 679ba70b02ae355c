package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdulrazikehab/Dawah-sub000/internal/domain"
	"github.com/abdulrazikehab/Dawah-sub000/internal/repository"
	"github.com/abdulrazikehab/Dawah-sub000/pkg/events"
	"github.com/abdulrazikehab/Dawah-sub000/pkg/logger"
)

// RegistryService owns creation and lookup of guest records for an event.
type RegistryService interface {
	AddPreInvitedGuest(ctx context.Context, principal domain.Principal, eventID int64, req *domain.AddGuestRequest) (*domain.Guest, error)
	BulkAddGuests(ctx context.Context, principal domain.Principal, eventID int64, req *domain.BulkAddGuestsRequest) (*domain.BulkAddResult, error)
	ListGuests(ctx context.Context, principal domain.Principal, eventID int64, filter domain.GuestFilter, limit, offset int) ([]domain.Guest, error)
	GetStats(ctx context.Context, principal domain.Principal, eventID int64) (*domain.EventStats, error)
}

type registryService struct {
	guestRepo repository.GuestRepository
	eventRepo repository.EventRepository
	access    AccessService
	eventBus  events.Publisher
}

func NewRegistryService(
	guestRepo repository.GuestRepository,
	eventRepo repository.EventRepository,
	access AccessService,
	eventBus events.Publisher,
) RegistryService {
	return &registryService{
		guestRepo: guestRepo,
		eventRepo: eventRepo,
		access:    access,
		eventBus:  eventBus,
	}
}

// requireHost resolves the event and verifies the caller owns it (or is an
// admin). Registry writes are host-only; assigned employees only read.
func (s *registryService) requireHost(ctx context.Context, principal domain.Principal, eventID int64) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, domain.ErrNotFound
	}
	if !principal.IsAdmin() && !(principal.Role == domain.RoleHost && event.HostID == principal.ID) {
		return nil, domain.ErrUnauthorized
	}
	return event, nil
}

func (s *registryService) AddPreInvitedGuest(ctx context.Context, principal domain.Principal, eventID int64, req *domain.AddGuestRequest) (*domain.Guest, error) {
	if _, err := s.requireHost(ctx, principal, eventID); err != nil {
		return nil, err
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	guest, err := s.guestRepo.CreatePreInvited(ctx, eventID, req.Name, req.Phone, *req.MaxCompanions)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateGuest) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create guest: %w", err)
	}

	evt := events.GuestInvitedEvent{
		GuestID:       guest.ID,
		EventID:       guest.EventID,
		Name:          guest.Name,
		Phone:         guest.Phone,
		MaxCompanions: guest.MaxCompanions,
		InvitedAt:     time.Now(),
	}
	if err := s.eventBus.Publish(ctx, events.GuestInvited, evt); err != nil {
		logger.ErrorContext(ctx, "Failed to publish guest invited event", "error", err, "guest_id", guest.ID)
	}

	return guest, nil
}

func (s *registryService) BulkAddGuests(ctx context.Context, principal domain.Principal, eventID int64, req *domain.BulkAddGuestsRequest) (*domain.BulkAddResult, error) {
	if _, err := s.requireHost(ctx, principal, eventID); err != nil {
		return nil, err
	}
	if len(req.Guests) == 0 {
		return nil, fmt.Errorf("%w: guest list is empty", domain.ErrInvalidInput)
	}

	result := &domain.BulkAddResult{}
	for i := range req.Guests {
		row := &req.Guests[i]
		row.Normalize()
		if err := row.Validate(); err != nil {
			result.Failed = append(result.Failed, domain.BulkAddFailure{
				Index: i, Phone: row.Phone, Reason: err.Error(),
			})
			continue
		}

		guest, err := s.guestRepo.CreatePreInvited(ctx, eventID, row.Name, row.Phone, *row.MaxCompanions)
		if err != nil {
			reason := "storage failure"
			if errors.Is(err, domain.ErrDuplicateGuest) {
				reason = domain.ErrDuplicateGuest.Error()
			}
			result.Failed = append(result.Failed, domain.BulkAddFailure{
				Index: i, Phone: row.Phone, Reason: reason,
			})
			continue
		}

		result.Created = append(result.Created, *guest)
	}

	logger.InfoContext(ctx, "Bulk guest import finished",
		"event_id", eventID, "created", len(result.Created), "failed", len(result.Failed))

	return result, nil
}

func (s *registryService) ListGuests(ctx context.Context, principal domain.Principal, eventID int64, filter domain.GuestFilter, limit, offset int) ([]domain.Guest, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, domain.ErrNotFound
	}

	ok, err := s.access.IsAuthorized(ctx, principal, event)
	if err != nil {
		return nil, fmt.Errorf("failed to check authorization: %w", err)
	}
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	return s.guestRepo.List(ctx, eventID, filter, limit, offset)
}

func (s *registryService) GetStats(ctx context.Context, principal domain.Principal, eventID int64) (*domain.EventStats, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, domain.ErrNotFound
	}

	ok, err := s.access.IsAuthorized(ctx, principal, event)
	if err != nil {
		return nil, fmt.Errorf("failed to check authorization: %w", err)
	}
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	return s.guestRepo.Stats(ctx, eventID)
}
