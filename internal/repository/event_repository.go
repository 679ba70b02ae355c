package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abdulrazikehab/Dawah-sub000/internal/domain"
)

type EventRepository interface {
	Create(ctx context.Context, hostID int64, req *domain.CreateEventRequest) (*domain.Event, error)
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Event, error)
	ListByHost(ctx context.Context, hostID int64, limit, offset int) ([]domain.Event, error)
}

type eventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

const eventCols = `id, host_id, title, public_slug, guest_count_target, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, hostID int64, req *domain.CreateEventRequest) (*domain.Event, error) {
	const q = `
		INSERT INTO events (host_id, title, public_slug, guest_count_target)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + eventCols

	slug := uuid.NewString()
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var e domain.Event
	err := r.pool.QueryRow(ctx, q, hostID, req.Title, slug, req.GuestCountTarget).Scan(
		&e.ID, &e.HostID, &e.Title, &e.PublicSlug, &e.GuestCountTarget, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var e domain.Event
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&e.ID, &e.HostID, &e.Title, &e.PublicSlug, &e.GuestCountTarget, &e.CreatedAt, &e.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &e, err
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events WHERE public_slug = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var e domain.Event
	err := r.pool.QueryRow(ctx, q, slug).Scan(
		&e.ID, &e.HostID, &e.Title, &e.PublicSlug, &e.GuestCountTarget, &e.CreatedAt, &e.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &e, err
}

func (r *eventRepository) ListByHost(ctx context.Context, hostID int64, limit, offset int) ([]domain.Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const q = `SELECT ` + eventCols + ` FROM events WHERE host_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, hostID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var eventsList []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(
			&e.ID, &e.HostID, &e.Title, &e.PublicSlug, &e.GuestCountTarget, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		eventsList = append(eventsList, e)
	}
	return eventsList, rows.Err()
}
