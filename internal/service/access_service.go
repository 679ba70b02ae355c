package service

import (
	"context"
	"fmt"
	"time"

	"github.com/abdulrazikehab/Dawah-sub000/internal/domain"
	"github.com/abdulrazikehab/Dawah-sub000/internal/repository"
	"github.com/abdulrazikehab/Dawah-sub000/pkg/events"
	"github.com/abdulrazikehab/Dawah-sub000/pkg/logger"
)

// AccessService is the single policy behind every gated operation: admins
// pass everywhere, hosts pass on their own events, employees pass where an
// assignment row exists. Guest self-service RSVP never goes through here;
// it is gated by link knowledge alone.
type AccessService interface {
	IsAuthorized(ctx context.Context, principal domain.Principal, event *domain.Event) (bool, error)
	Assign(ctx context.Context, principal domain.Principal, eventID, employeeID int64) error
	ListEmployees(ctx context.Context, principal domain.Principal, eventID int64) ([]domain.UserInfo, error)
}

type accessService struct {
	eventRepo      repository.EventRepository
	userRepo       repository.UserRepository
	assignmentRepo repository.AssignmentRepository
	eventBus       events.Publisher
}

func NewAccessService(
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	assignmentRepo repository.AssignmentRepository,
	eventBus events.Publisher,
) AccessService {
	return &accessService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		assignmentRepo: assignmentRepo,
		eventBus:       eventBus,
	}
}

func (s *accessService) IsAuthorized(ctx context.Context, principal domain.Principal, event *domain.Event) (bool, error) {
	if event == nil {
		return false, nil
	}
	if principal.IsAdmin() {
		return true, nil
	}
	if principal.Role == domain.RoleHost && event.HostID == principal.ID {
		return true, nil
	}
	if principal.Role == domain.RoleEmployee {
		return s.assignmentRepo.Exists(ctx, event.ID, principal.ID)
	}
	return false, nil
}

func (s *accessService) Assign(ctx context.Context, principal domain.Principal, eventID, employeeID int64) error {
	if !principal.IsAdmin() {
		return domain.ErrUnauthorized
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return domain.ErrNotFound
	}

	employee, err := s.userRepo.FindByID(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("failed to get employee: %w", err)
	}
	if employee == nil || employee.Role != domain.RoleEmployee {
		return domain.ErrNotFound
	}

	created, err := s.assignmentRepo.Assign(ctx, eventID, employeeID)
	if err != nil {
		return fmt.Errorf("failed to assign employee: %w", err)
	}
	if !created {
		// Already assigned; idempotent no-op.
		return nil
	}

	evt := events.EmployeeAssignedEvent{
		EventID:    eventID,
		EmployeeID: employeeID,
		AssignedBy: principal.ID,
		AssignedAt: time.Now(),
	}
	if err := s.eventBus.Publish(ctx, events.EmployeeAssigned, evt); err != nil {
		logger.ErrorContext(ctx, "Failed to publish assignment event", "error", err, "event_id", eventID, "employee_id", employeeID)
	}

	return nil
}

func (s *accessService) ListEmployees(ctx context.Context, principal domain.Principal, eventID int64) ([]domain.UserInfo, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, domain.ErrNotFound
	}

	// Hosts see their own event's staff; employees have no reason to.
	if !principal.IsAdmin() && !(principal.Role == domain.RoleHost && event.HostID == principal.ID) {
		return nil, domain.ErrUnauthorized
	}

	users, err := s.assignmentRepo.ListEmployees(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned employees: %w", err)
	}

	infos := make([]domain.UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, *users[i].ToUserInfo())
	}
	return infos, nil
}
