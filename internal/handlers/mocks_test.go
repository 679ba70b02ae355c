package handlers_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abdulrazikehab/Dawah-sub000/internal/domain"
)

// ---------- Mocks ----------

type mockGuestRepo struct {
	mu     sync.Mutex
	nextID int64
	guests map[int64]*domain.Guest
	phones map[string]int64 // "eventID/phone" -> guest id
}

func newMockGuestRepo() *mockGuestRepo {
	return &mockGuestRepo{
		nextID: 1,
		guests: make(map[int64]*domain.Guest),
		phones: make(map[string]int64),
	}
}

func phoneKey(eventID int64, phone string) string {
	return fmt.Sprintf("%d/%s", eventID, phone)
}

func (m *mockGuestRepo) create(eventID int64, name, phone string, maxCompanions int, status domain.RSVPStatus) (*domain.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := phoneKey(eventID, phone)
	if _, exists := m.phones[key]; exists {
		return nil, domain.ErrDuplicateGuest
	}

	g := &domain.Guest{
		ID:            m.nextID,
		EventID:       eventID,
		Name:          name,
		Phone:         phone,
		MaxCompanions: maxCompanions,
		RSVPStatus:    status,
		CheckInStatus: domain.CheckInPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	m.nextID++
	m.guests[g.ID] = g
	m.phones[key] = g.ID

	out := *g
	return &out, nil
}

func (m *mockGuestRepo) CreatePreInvited(_ context.Context, eventID int64, name, phone string, maxCompanions int) (*domain.Guest, error) {
	return m.create(eventID, name, phone, maxCompanions, domain.RSVPPending)
}

func (m *mockGuestRepo) CreateSelfRegistered(_ context.Context, eventID int64, name, phone string, status domain.RSVPStatus) (*domain.Guest, error) {
	return m.create(eventID, name, phone, 0, status)
}

func (m *mockGuestRepo) GetByID(_ context.Context, id int64) (*domain.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, exists := m.guests[id]
	if !exists {
		return nil, nil
	}
	out := *g
	return &out, nil
}

func (m *mockGuestRepo) FindPreInvited(_ context.Context, eventID, guestID int64, phone string) (*domain.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, exists := m.guests[guestID]
	if !exists || g.EventID != eventID || g.Phone != phone {
		return nil, nil
	}
	out := *g
	return &out, nil
}

func (m *mockGuestRepo) FindByRef(_ context.Context, ref domain.GuestRef) (*domain.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, exists := m.guests[ref.GuestID]
	if !exists || g.Phone != ref.Phone {
		return nil, nil
	}
	out := *g
	return &out, nil
}

func (m *mockGuestRepo) List(_ context.Context, eventID int64, filter domain.GuestFilter, limit, offset int) ([]domain.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []domain.Guest
	for id := int64(1); id < m.nextID; id++ {
		g, exists := m.guests[id]
		if !exists || g.EventID != eventID {
			continue
		}
		if filter.RSVPStatus != nil && g.RSVPStatus != *filter.RSVPStatus {
			continue
		}
		if filter.CheckInStatus != nil && g.CheckInStatus != *filter.CheckInStatus {
			continue
		}
		result = append(result, *g)
	}

	if offset >= len(result) {
		return []domain.Guest{}, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], nil
}

func (m *mockGuestRepo) Stats(_ context.Context, eventID int64) (*domain.EventStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &domain.EventStats{EventID: eventID}
	for _, g := range m.guests {
		if g.EventID != eventID {
			continue
		}
		stats.Total++
		switch g.RSVPStatus {
		case domain.RSVPPending:
			stats.Pending++
		case domain.RSVPAttending:
			stats.Attending++
			stats.Companions += g.ActualCompanions
		case domain.RSVPDeclined:
			stats.Declined++
		}
		if g.CheckInStatus == domain.CheckedIn {
			stats.CheckedIn++
		}
	}
	return stats, nil
}

func (m *mockGuestRepo) UpdateRSVP(_ context.Context, id int64, status domain.RSVPStatus, companions int) (*domain.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, exists := m.guests[id]
	if !exists {
		return nil, nil
	}
	if companions < 0 || companions > g.MaxCompanions {
		return nil, nil
	}

	g.RSVPStatus = status
	g.ActualCompanions = companions
	g.UpdatedAt = time.Now()

	out := *g
	return &out, nil
}

func (m *mockGuestRepo) CheckIn(_ context.Context, id int64) (*domain.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, exists := m.guests[id]
	if !exists || g.CheckInStatus != domain.CheckInPending {
		return nil, nil
	}

	now := time.Now()
	g.CheckInStatus = domain.CheckedIn
	g.CheckedInAt = &now
	g.UpdatedAt = now

	out := *g
	return &out, nil
}

func (m *mockGuestRepo) UndoCheckIn(_ context.Context, id int64) (*domain.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, exists := m.guests[id]
	if !exists || g.CheckInStatus != domain.CheckedIn {
		return nil, nil
	}

	g.CheckInStatus = domain.CheckInPending
	g.CheckedInAt = nil
	g.UpdatedAt = time.Now()

	out := *g
	return &out, nil
}

type mockEventRepo struct {
	mu     sync.Mutex
	nextID int64
	events map[int64]*domain.Event
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{nextID: 1, events: make(map[int64]*domain.Event)}
}

func (m *mockEventRepo) Create(_ context.Context, hostID int64, req *domain.CreateEventRequest) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := &domain.Event{
		ID:               m.nextID,
		HostID:           hostID,
		Title:            req.Title,
		PublicSlug:       "slug-" + req.Title,
		GuestCountTarget: req.GuestCountTarget,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	m.nextID++
	m.events[e.ID] = e

	out := *e
	return &out, nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id int64) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.events[id]
	if !exists {
		return nil, nil
	}
	out := *e
	return &out, nil
}

func (m *mockEventRepo) GetBySlug(_ context.Context, slug string) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.events {
		if e.PublicSlug == slug {
			out := *e
			return &out, nil
		}
	}
	return nil, nil
}

func (m *mockEventRepo) ListByHost(_ context.Context, hostID int64, limit, offset int) ([]domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []domain.Event
	for id := int64(1); id < m.nextID; id++ {
		if e, exists := m.events[id]; exists && e.HostID == hostID {
			result = append(result, *e)
		}
	}
	return result, nil
}

type mockUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{nextID: 1, users: make(map[int64]*domain.User)}
}

func (m *mockUserRepo) addUser(role domain.Role, email, name string) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := &domain.User{
		ID:    m.nextID,
		Role:  role,
		Email: email,
		Name:  name,
	}
	m.nextID++
	m.users[u.ID] = u
	return u
}

func (m *mockUserRepo) Create(_ context.Context, req *domain.CreateUserRequest, hash string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := &domain.User{
		ID:           m.nextID,
		Role:         domain.Role(req.Role),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Phone:        req.Phone,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.nextID++
	m.users[u.ID] = u

	out := *u
	return &out, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, exists := m.users[id]
	if !exists {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (m *mockUserRepo) List(_ context.Context, role *domain.Role, limit, offset int) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []domain.User
	for id := int64(1); id < m.nextID; id++ {
		u, exists := m.users[id]
		if !exists {
			continue
		}
		if role != nil && u.Role != *role {
			continue
		}
		result = append(result, *u)
	}
	return result, nil
}

type mockAssignmentRepo struct {
	mu          sync.Mutex
	assignments map[[2]int64]bool // [eventID, employeeID]
	users       *mockUserRepo
}

func newMockAssignmentRepo(users *mockUserRepo) *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[[2]int64]bool), users: users}
}

func (m *mockAssignmentRepo) Assign(_ context.Context, eventID, employeeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := [2]int64{eventID, employeeID}
	if m.assignments[key] {
		return false, nil
	}
	m.assignments[key] = true
	return true, nil
}

func (m *mockAssignmentRepo) Exists(_ context.Context, eventID, employeeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assignments[[2]int64{eventID, employeeID}], nil
}

func (m *mockAssignmentRepo) ListEmployees(ctx context.Context, eventID int64) ([]domain.User, error) {
	m.mu.Lock()
	ids := make([]int64, 0)
	for key := range m.assignments {
		if key[0] == eventID {
			ids = append(ids, key[1])
		}
	}
	m.mu.Unlock()

	var result []domain.User
	for _, id := range ids {
		if u, _ := m.users.FindByID(ctx, id); u != nil {
			result = append(result, *u)
		}
	}
	return result, nil
}

type mockPublisher struct {
	mu        sync.Mutex
	published []string
}

func (m *mockPublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, subject)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) subjects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.published...)
}

type mockMailer struct {
	mu       sync.Mutex
	lastTo   string
	lastBody string
}

func (m *mockMailer) SendRSVPNotification(toEmail, toName, guestName, status string, companions int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastTo = toEmail
	m.lastBody = guestName + " " + status
	return nil
}

func (m *mockMailer) SendEventCreatedEmail(toEmail, toName, eventTitle, publicLink string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastTo = toEmail
	m.lastBody = eventTitle + " " + publicLink
	return nil
}
