package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/abdulrazikehab/Dawah-sub000/internal/domain"
	"github.com/abdulrazikehab/Dawah-sub000/internal/service"
	"github.com/abdulrazikehab/Dawah-sub000/internal/token"
)

type checkInFixture struct {
	svc        service.CheckInService
	guestRepo  *mockGuestRepo
	eventRepo  *mockEventRepo
	userRepo   *mockUserRepo
	assignRepo *mockAssignmentRepo
	codec      *token.Codec
	bus        *mockPublisher

	event    *domain.Event
	host     *domain.User
	employee *domain.User
	admin    *domain.User
}

func setupCheckIn(t *testing.T) *checkInFixture {
	t.Helper()

	guestRepo := newMockGuestRepo()
	eventRepo := newMockEventRepo()
	userRepo := newMockUserRepo()
	assignRepo := newMockAssignmentRepo(userRepo)
	bus := &mockPublisher{}
	codec := token.NewCodec("test-secret")

	access := service.NewAccessService(eventRepo, userRepo, assignRepo, bus)
	svc := service.NewCheckInService(guestRepo, eventRepo, access, codec, bus)

	host := userRepo.addUser(domain.RoleHost, "host@example.com", "Host")
	employee := userRepo.addUser(domain.RoleEmployee, "staff@example.com", "Staff")
	admin := userRepo.addUser(domain.RoleAdmin, "admin@example.com", "Admin")

	event, err := eventRepo.Create(context.Background(), host.ID, &domain.CreateEventRequest{Title: "Walima"})
	if err != nil {
		t.Fatalf("Failed to seed event: %v", err)
	}
	assignRepo.Assign(context.Background(), event.ID, employee.ID)

	return &checkInFixture{
		svc: svc, guestRepo: guestRepo, eventRepo: eventRepo, userRepo: userRepo,
		assignRepo: assignRepo, codec: codec, bus: bus,
		event: event, host: host, employee: employee, admin: admin,
	}
}

// attendingGuest seeds a guest already confirmed as attending.
func (f *checkInFixture) attendingGuest(t *testing.T, phone string) *domain.Guest {
	t.Helper()

	guest, err := f.guestRepo.CreatePreInvited(context.Background(), f.event.ID, "Amina", phone, 2)
	if err != nil {
		t.Fatalf("Failed to seed guest: %v", err)
	}
	guest, err = f.guestRepo.UpdateRSVP(context.Background(), guest.ID, domain.RSVPAttending, 1)
	if err != nil || guest == nil {
		t.Fatalf("Failed to confirm guest: %v", err)
	}
	return guest
}

func TestCheckIn_Success(t *testing.T) {
	f := setupCheckIn(t)
	guest := f.attendingGuest(t, "+15551234567")
	cred := f.codec.Issue(guest.ID)

	checked, err := f.svc.CheckIn(context.Background(), f.employee.Principal(), cred)
	if err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}

	if checked.CheckInStatus != domain.CheckedIn {
		t.Fatalf("Expected checked_in, got %s", checked.CheckInStatus)
	}
	if checked.CheckedInAt == nil {
		t.Fatal("Expected checked_in_at to be stamped")
	}
}

func TestCheckIn_Duplicate(t *testing.T) {
	f := setupCheckIn(t)
	guest := f.attendingGuest(t, "+15551234567")
	cred := f.codec.Issue(guest.ID)

	first, err := f.svc.CheckIn(context.Background(), f.employee.Principal(), cred)
	if err != nil {
		t.Fatalf("First scan failed: %v", err)
	}

	_, err = f.svc.CheckIn(context.Background(), f.employee.Principal(), cred)
	var dup *domain.DuplicateCheckInError
	if !errors.As(err, &dup) {
		t.Fatalf("Expected DuplicateCheckInError, got %v", err)
	}
	if !dup.CheckedInAt.Equal(*first.CheckedInAt) {
		t.Fatalf("Duplicate must carry the original time: %v vs %v", dup.CheckedInAt, *first.CheckedInAt)
	}
}

func TestCheckIn_ConcurrentScans_OneWinner(t *testing.T) {
	f := setupCheckIn(t)
	guest := f.attendingGuest(t, "+15551234567")
	cred := f.codec.Issue(guest.ID)

	const scans = 16
	var wg sync.WaitGroup
	errs := make([]error, scans)

	for i := 0; i < scans; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.CheckIn(context.Background(), f.employee.Principal(), cred)
		}(i)
	}
	wg.Wait()

	winners, duplicates := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		default:
			var dup *domain.DuplicateCheckInError
			if !errors.As(err, &dup) {
				t.Fatalf("Unexpected error: %v", err)
			}
			duplicates++
		}
	}

	if winners != 1 {
		t.Fatalf("Expected exactly one winning scan, got %d", winners)
	}
	if duplicates != scans-1 {
		t.Fatalf("Expected %d duplicates, got %d", scans-1, duplicates)
	}
}

func TestCheckIn_UnassignedEmployee_Unauthorized(t *testing.T) {
	f := setupCheckIn(t)
	guest := f.attendingGuest(t, "+15551234567")
	cred := f.codec.Issue(guest.ID)

	outsider := f.userRepo.addUser(domain.RoleEmployee, "other@example.com", "Other")
	if _, err := f.svc.CheckIn(context.Background(), outsider.Principal(), cred); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("Expected ErrUnauthorized, got %v", err)
	}

	// The failed attempt must not consume the check-in.
	current, _ := f.guestRepo.GetByID(context.Background(), guest.ID)
	if current.CheckInStatus != domain.CheckInPending {
		t.Fatalf("Expected guest still pending, got %s", current.CheckInStatus)
	}
}

func TestCheckIn_HostAndAdminPass(t *testing.T) {
	f := setupCheckIn(t)

	for _, p := range []domain.Principal{f.host.Principal(), f.admin.Principal()} {
		guest := f.attendingGuest(t, fmt.Sprintf("+1555000%d000", p.ID))
		if _, err := f.svc.CheckIn(context.Background(), p, f.codec.Issue(guest.ID)); err != nil {
			t.Fatalf("Expected %s to check in, got %v", p.Role, err)
		}
	}
}

func TestCheckIn_InvalidCredential(t *testing.T) {
	f := setupCheckIn(t)

	for _, cred := range []string{"", "garbage", "DW1.42.forged-signature"} {
		if _, err := f.svc.CheckIn(context.Background(), f.employee.Principal(), cred); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound for %q, got %v", cred, err)
		}
	}
}

func TestCheckIn_UnknownGuest(t *testing.T) {
	f := setupCheckIn(t)

	// Validly signed credential for a guest that does not exist.
	cred := f.codec.Issue(9999)
	if _, err := f.svc.CheckIn(context.Background(), f.employee.Principal(), cred); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestCheckIn_NotAttending_Rejected(t *testing.T) {
	f := setupCheckIn(t)
	guest, _ := f.guestRepo.CreatePreInvited(context.Background(), f.event.ID, "Amina", "+15551234567", 2)

	cred := f.codec.Issue(guest.ID)
	if _, err := f.svc.CheckIn(context.Background(), f.employee.Principal(), cred); !errors.Is(err, domain.ErrInvalidRSVPTransition) {
		t.Fatalf("Expected ErrInvalidRSVPTransition for pending guest, got %v", err)
	}
}

func TestUndoCheckIn(t *testing.T) {
	f := setupCheckIn(t)
	guest := f.attendingGuest(t, "+15551234567")
	cred := f.codec.Issue(guest.ID)

	if _, err := f.svc.CheckIn(context.Background(), f.employee.Principal(), cred); err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}

	// Only admins may undo.
	if _, err := f.svc.UndoCheckIn(context.Background(), f.employee.Principal(), guest.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("Expected ErrUnauthorized for employee undo, got %v", err)
	}

	undone, err := f.svc.UndoCheckIn(context.Background(), f.admin.Principal(), guest.ID)
	if err != nil {
		t.Fatalf("UndoCheckIn failed: %v", err)
	}
	if undone.CheckInStatus != domain.CheckInPending || undone.CheckedInAt != nil {
		t.Fatal("Expected guest back to pending with cleared timestamp")
	}

	// The credential is usable again after the undo.
	if _, err := f.svc.CheckIn(context.Background(), f.employee.Principal(), cred); err != nil {
		t.Fatalf("Re-check-in after undo failed: %v", err)
	}
}

func TestUndoCheckIn_NotCheckedIn(t *testing.T) {
	f := setupCheckIn(t)
	guest := f.attendingGuest(t, "+15551234567")

	if _, err := f.svc.UndoCheckIn(context.Background(), f.admin.Principal(), guest.ID); !errors.Is(err, domain.ErrInvalidRSVPTransition) {
		t.Fatalf("Expected ErrInvalidRSVPTransition, got %v", err)
	}
}
