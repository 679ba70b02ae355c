package service

import (
	"context"
	"fmt"

	"github.com/abdulrazikehab/Dawah-sub000/internal/domain"
	"github.com/abdulrazikehab/Dawah-sub000/internal/repository"
	"github.com/abdulrazikehab/Dawah-sub000/pkg/events"
	"github.com/abdulrazikehab/Dawah-sub000/pkg/logger"
)

type EventService interface {
	CreateEvent(ctx context.Context, principal domain.Principal, req *domain.CreateEventRequest) (*domain.Event, error)
	GetEvent(ctx context.Context, principal domain.Principal, id int64) (*domain.Event, error)
	// GetEventBySlug serves the public RSVP page; anyone holding the link
	// may read the event.
	GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error)
	ListHostEvents(ctx context.Context, principal domain.Principal, limit, offset int) ([]domain.Event, error)
}

type eventService struct {
	eventRepo repository.EventRepository
	access    AccessService
	eventBus  events.Publisher
}

func NewEventService(eventRepo repository.EventRepository, access AccessService, eventBus events.Publisher) EventService {
	return &eventService{eventRepo: eventRepo, access: access, eventBus: eventBus}
}

func (s *eventService) CreateEvent(ctx context.Context, principal domain.Principal, req *domain.CreateEventRequest) (*domain.Event, error) {
	if principal.Role != domain.RoleHost && !principal.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.Create(ctx, principal.ID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	evt := events.EventCreatedEvent{
		EventID:          event.ID,
		HostID:           event.HostID,
		Title:            event.Title,
		PublicSlug:       event.PublicSlug,
		GuestCountTarget: event.GuestCountTarget,
		CreatedAt:        event.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.EventCreated, evt); err != nil {
		logger.ErrorContext(ctx, "Failed to publish event created event", "error", err, "event_id", event.ID)
	}

	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, principal domain.Principal, id int64) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
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

	return event, nil
}

func (s *eventService) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, domain.ErrNotFound
	}
	return event, nil
}

func (s *eventService) ListHostEvents(ctx context.Context, principal domain.Principal, limit, offset int) ([]domain.Event, error) {
	if principal.Role != domain.RoleHost && !principal.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}
	return s.eventRepo.ListByHost(ctx, principal.ID, limit, offset)
}
