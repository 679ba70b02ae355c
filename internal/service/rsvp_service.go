package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdulrazikehab/Dawah-sub000/internal/domain"
	"github.com/abdulrazikehab/Dawah-sub000/internal/mailer"
	"github.com/abdulrazikehab/Dawah-sub000/internal/repository"
	"github.com/abdulrazikehab/Dawah-sub000/internal/token"
	"github.com/abdulrazikehab/Dawah-sub000/pkg/events"
	"github.com/abdulrazikehab/Dawah-sub000/pkg/logger"
)

// RSVPService governs guest-status transitions and companion allowances.
//
// pending -> attending | declined. Both outcomes are terminal for the status
// itself; an attending guest may still adjust their companion count later.
// Resubmitting identical values is a no-op, never an error.
type RSVPService interface {
	// SubmitRSVP handles a submission from the public or personalized
	// link. A guest_id+phone match updates the pre-invited record in
	// place; otherwise the submission self-registers a new guest with
	// zero companion allowance. Returns the guest and, when attending,
	// their attendance credential.
	SubmitRSVP(ctx context.Context, eventID int64, req *domain.RSVPRequest) (*domain.Guest, string, error)

	// UpdateRSVP adjusts a pre-invited guest's response via their
	// personalized link ("add companions later").
	UpdateRSVP(ctx context.Context, ref domain.GuestRef, req *domain.RSVPRequest) (*domain.Guest, string, error)

	// GetCredential re-issues the attendance credential for the
	// confirmation screen. Deterministic: reopening the screen always
	// yields the same value.
	GetCredential(ctx context.Context, ref domain.GuestRef) (string, error)
}

type rsvpService struct {
	guestRepo repository.GuestRepository
	eventRepo repository.EventRepository
	userRepo  repository.UserRepository
	codec     *token.Codec
	mail      mailer.Service
	eventBus  events.Publisher
}

func NewRSVPService(
	guestRepo repository.GuestRepository,
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	codec *token.Codec,
	mail mailer.Service,
	eventBus events.Publisher,
) RSVPService {
	return &rsvpService{
		guestRepo: guestRepo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
		codec:     codec,
		mail:      mail,
		eventBus:  eventBus,
	}
}

func (s *rsvpService) SubmitRSVP(ctx context.Context, eventID int64, req *domain.RSVPRequest) (*domain.Guest, string, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, "", domain.ErrNotFound
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, "", err
	}

	status, _ := domain.ParseRSVPStatus(req.Status)
	companions := req.Companions
	if status == domain.RSVPDeclined {
		// Declined guests bring no companions, whatever the form said.
		companions = 0
	}

	var guest *domain.Guest
	selfRegistered := false

	if req.GuestID != nil {
		// Personalized link: both id and phone must match the invitation.
		guest, err = s.guestRepo.FindPreInvited(ctx, eventID, *req.GuestID, req.Phone)
		if err != nil {
			return nil, "", fmt.Errorf("failed to look up guest: %w", err)
		}
		if guest == nil {
			return nil, "", domain.ErrNotFound
		}

		guest, err = s.applyTransition(ctx, guest, status, companions)
		if err != nil {
			return nil, "", err
		}
	} else {
		// Public link: companions are only grantable via pre-invitation.
		if companions > 0 {
			return nil, "", domain.ErrQuotaExceeded
		}

		guest, err = s.guestRepo.CreateSelfRegistered(ctx, eventID, req.Name, req.Phone, status)
		if err != nil {
			if errors.Is(err, domain.ErrDuplicateGuest) {
				// Phone already on the registry: the guest was
				// pre-invited and should use their personalized link.
				return nil, "", domain.ErrDuplicateGuest
			}
			return nil, "", fmt.Errorf("failed to register guest: %w", err)
		}
		selfRegistered = true
	}

	s.announce(ctx, event, guest, selfRegistered)

	return guest, s.credentialFor(guest), nil
}

func (s *rsvpService) UpdateRSVP(ctx context.Context, ref domain.GuestRef, req *domain.RSVPRequest) (*domain.Guest, string, error) {
	guest, err := s.guestRepo.FindByRef(ctx, ref)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up guest: %w", err)
	}
	if guest == nil {
		return nil, "", domain.ErrNotFound
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, "", err
	}

	status, _ := domain.ParseRSVPStatus(req.Status)
	companions := req.Companions
	if status == domain.RSVPDeclined {
		companions = 0
	}

	guest, err = s.applyTransition(ctx, guest, status, companions)
	if err != nil {
		return nil, "", err
	}

	event, err := s.eventRepo.GetByID(ctx, guest.EventID)
	if err == nil && event != nil {
		s.announce(ctx, event, guest, false)
	}

	return guest, s.credentialFor(guest), nil
}

func (s *rsvpService) GetCredential(ctx context.Context, ref domain.GuestRef) (string, error) {
	guest, err := s.guestRepo.FindByRef(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("failed to look up guest: %w", err)
	}
	if guest == nil {
		return "", domain.ErrNotFound
	}
	if guest.RSVPStatus != domain.RSVPAttending {
		return "", domain.ErrInvalidRSVPTransition
	}
	return s.codec.Issue(guest.ID), nil
}

// applyTransition enforces the state machine on one guest row. The quota
// predicate rides inside the UPDATE, so the value checked is the value
// written even under rapid double-submission.
func (s *rsvpService) applyTransition(ctx context.Context, guest *domain.Guest, status domain.RSVPStatus, companions int) (*domain.Guest, error) {
	// Identical resubmission returns the record untouched.
	if guest.RSVPStatus == status && guest.ActualCompanions == companions {
		return guest, nil
	}

	// attending and declined are terminal; only the companion count may
	// change while attending.
	if guest.RSVPStatus != domain.RSVPPending && guest.RSVPStatus != status {
		return nil, domain.ErrInvalidRSVPTransition
	}

	if companions > guest.MaxCompanions {
		return nil, domain.ErrQuotaExceeded
	}

	updated, err := s.guestRepo.UpdateRSVP(ctx, guest.ID, status, companions)
	if err != nil {
		return nil, fmt.Errorf("failed to update rsvp: %w", err)
	}
	if updated == nil {
		// Lost the race against another submission that tightened the
		// quota headroom.
		return nil, domain.ErrQuotaExceeded
	}

	return updated, nil
}

// credentialFor mints the attendance credential for attending guests.
func (s *rsvpService) credentialFor(guest *domain.Guest) string {
	if guest.RSVPStatus != domain.RSVPAttending {
		return ""
	}
	return s.codec.Issue(guest.ID)
}

func (s *rsvpService) announce(ctx context.Context, event *domain.Event, guest *domain.Guest, selfRegistered bool) {
	evt := events.RSVPSubmittedEvent{
		GuestID:     guest.ID,
		EventID:     guest.EventID,
		Status:      string(guest.RSVPStatus),
		Companions:  guest.ActualCompanions,
		Self:        selfRegistered,
		SubmittedAt: time.Now(),
	}
	if err := s.eventBus.Publish(ctx, events.RSVPSubmitted, evt); err != nil {
		logger.ErrorContext(ctx, "Failed to publish rsvp event", "error", err, "guest_id", guest.ID)
	}

	host, err := s.userRepo.FindByID(ctx, event.HostID)
	if err != nil || host == nil {
		logger.WarnContext(ctx, "Host lookup failed for rsvp notification", "error", err, "event_id", event.ID)
		return
	}
	if err := s.mail.SendRSVPNotification(host.Email, host.Name, guest.Name, string(guest.RSVPStatus), guest.ActualCompanions); err != nil {
		logger.ErrorContext(ctx, "Failed to send rsvp notification", "error", err, "event_id", event.ID)
	}
}
