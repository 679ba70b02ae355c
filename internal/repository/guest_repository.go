package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abdulrazikehab/Dawah-sub000/internal/domain"
)

type GuestRepository interface {
	CreatePreInvited(ctx context.Context, eventID int64, name, phone string, maxCompanions int) (*domain.Guest, error)
	CreateSelfRegistered(ctx context.Context, eventID int64, name, phone string, status domain.RSVPStatus) (*domain.Guest, error)
	GetByID(ctx context.Context, id int64) (*domain.Guest, error)
	FindPreInvited(ctx context.Context, eventID, guestID int64, phone string) (*domain.Guest, error)
	FindByRef(ctx context.Context, ref domain.GuestRef) (*domain.Guest, error)
	List(ctx context.Context, eventID int64, filter domain.GuestFilter, limit, offset int) ([]domain.Guest, error)
	Stats(ctx context.Context, eventID int64) (*domain.EventStats, error)

	// UpdateRSVP applies the response and companion count in one statement.
	// The companion quota is part of the WHERE clause, so a concurrent
	// double-submission can never push actual past max. Returns nil when
	// the quota predicate rejects the row.
	UpdateRSVP(ctx context.Context, id int64, status domain.RSVPStatus, companions int) (*domain.Guest, error)

	// CheckIn flips pending -> checked_in atomically and stamps the time.
	// Returns nil when the guest was not pending; exactly one of several
	// concurrent scans observes a non-nil result.
	CheckIn(ctx context.Context, id int64) (*domain.Guest, error)

	// UndoCheckIn reverses a mis-scan. Returns nil when the guest was not
	// checked in.
	UndoCheckIn(ctx context.Context, id int64) (*domain.Guest, error)
}

type guestRepository struct {
	pool *pgxpool.Pool
}

func NewGuestRepository(pool *pgxpool.Pool) GuestRepository {
	return &guestRepository{pool: pool}
}

const guestCols = `id, event_id, name, phone,
max_companions, actual_companions,
rsvp_status, check_in_status, checked_in_at,
created_at, updated_at`

func scanGuest(row pgx.Row) (*domain.Guest, error) {
	var g domain.Guest
	err := row.Scan(
		&g.ID, &g.EventID, &g.Name, &g.Phone,
		&g.MaxCompanions, &g.ActualCompanions,
		&g.RSVPStatus, &g.CheckInStatus, &g.CheckedInAt,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *guestRepository) CreatePreInvited(ctx context.Context, eventID int64, name, phone string, maxCompanions int) (*domain.Guest, error) {
	const q = `INSERT INTO guests (
		event_id, name, phone,
		max_companions, actual_companions,
		rsvp_status, check_in_status
	) VALUES ($1, $2, $3, $4, 0, 'pending', 'pending')
	RETURNING ` + guestCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	g, err := scanGuest(r.pool.QueryRow(ctx, q, eventID, name, phone, maxCompanions))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateGuest
		}
		return nil, err
	}
	return g, nil
}

func (r *guestRepository) CreateSelfRegistered(ctx context.Context, eventID int64, name, phone string, status domain.RSVPStatus) (*domain.Guest, error) {
	// Self-registered guests skip the pending window and never get a
	// companion allowance.
	const q = `INSERT INTO guests (
		event_id, name, phone,
		max_companions, actual_companions,
		rsvp_status, check_in_status
	) VALUES ($1, $2, $3, 0, 0, $4, 'pending')
	RETURNING ` + guestCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	g, err := scanGuest(r.pool.QueryRow(ctx, q, eventID, name, phone, status))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateGuest
		}
		return nil, err
	}
	return g, nil
}

func (r *guestRepository) GetByID(ctx context.Context, id int64) (*domain.Guest, error) {
	const q = `SELECT ` + guestCols + ` FROM guests WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	g, err := scanGuest(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return g, err
}

func (r *guestRepository) FindPreInvited(ctx context.Context, eventID, guestID int64, phone string) (*domain.Guest, error) {
	// Both id and phone must match; the caller never learns which one
	// missed.
	const q = `SELECT ` + guestCols + ` FROM guests WHERE id = $1 AND event_id = $2 AND phone = $3`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	g, err := scanGuest(r.pool.QueryRow(ctx, q, guestID, eventID, phone))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return g, err
}

func (r *guestRepository) FindByRef(ctx context.Context, ref domain.GuestRef) (*domain.Guest, error) {
	const q = `SELECT ` + guestCols + ` FROM guests WHERE id = $1 AND phone = $2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	g, err := scanGuest(r.pool.QueryRow(ctx, q, ref.GuestID, ref.Phone))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return g, err
}

func (r *guestRepository) List(ctx context.Context, eventID int64, filter domain.GuestFilter, limit, offset int) ([]domain.Guest, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := `SELECT ` + guestCols + ` FROM guests WHERE event_id = $1`
	args := []any{eventID}
	if filter.RSVPStatus != nil {
		args = append(args, *filter.RSVPStatus)
		q += fmt.Sprintf(` AND rsvp_status = $%d`, len(args))
	}
	if filter.CheckInStatus != nil {
		args = append(args, *filter.CheckInStatus)
		q += fmt.Sprintf(` AND check_in_status = $%d`, len(args))
	}
	args = append(args, limit, offset)
	q += fmt.Sprintf(` ORDER BY name ASC, id ASC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guests []domain.Guest
	for rows.Next() {
		var g domain.Guest
		if err := rows.Scan(
			&g.ID, &g.EventID, &g.Name, &g.Phone,
			&g.MaxCompanions, &g.ActualCompanions,
			&g.RSVPStatus, &g.CheckInStatus, &g.CheckedInAt,
			&g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, err
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

func (r *guestRepository) Stats(ctx context.Context, eventID int64) (*domain.EventStats, error) {
	const q = `
		SELECT
			count(*),
			count(*) FILTER (WHERE rsvp_status = 'pending'),
			count(*) FILTER (WHERE rsvp_status = 'attending'),
			count(*) FILTER (WHERE rsvp_status = 'declined'),
			count(*) FILTER (WHERE check_in_status = 'checked_in'),
			COALESCE(sum(actual_companions), 0)
		FROM guests WHERE event_id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	stats := domain.EventStats{EventID: eventID}
	err := r.pool.QueryRow(ctx, q, eventID).Scan(
		&stats.Total, &stats.Pending, &stats.Attending, &stats.Declined,
		&stats.CheckedIn, &stats.Companions,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *guestRepository) UpdateRSVP(ctx context.Context, id int64, status domain.RSVPStatus, companions int) (*domain.Guest, error) {
	const q = `
		UPDATE guests
		SET rsvp_status = $2,
		    actual_companions = $3,
		    updated_at = now()
		WHERE id = $1 AND $3 >= 0 AND $3 <= max_companions
		RETURNING ` + guestCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	g, err := scanGuest(r.pool.QueryRow(ctx, q, id, status, companions))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return g, err
}

func (r *guestRepository) CheckIn(ctx context.Context, id int64) (*domain.Guest, error) {
	const q = `
		UPDATE guests
		SET check_in_status = 'checked_in',
		    checked_in_at = now(),
		    updated_at = now()
		WHERE id = $1 AND check_in_status = 'pending'
		RETURNING ` + guestCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	g, err := scanGuest(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return g, err
}

func (r *guestRepository) UndoCheckIn(ctx context.Context, id int64) (*domain.Guest, error) {
	const q = `
		UPDATE guests
		SET check_in_status = 'pending',
		    checked_in_at = NULL,
		    updated_at = now()
		WHERE id = $1 AND check_in_status = 'checked_in'
		RETURNING ` + guestCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	g, err := scanGuest(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return g, err
}
