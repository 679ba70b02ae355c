package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abdulrazikehab/Dawah-sub000/internal/domain"
)

type AssignmentRepository interface {
	// Assign grants an employee access to an event. Re-assigning is a
	// no-op; the returned flag reports whether a new row was written.
	Assign(ctx context.Context, eventID, employeeID int64) (bool, error)
	Exists(ctx context.Context, eventID, employeeID int64) (bool, error)
	ListEmployees(ctx context.Context, eventID int64) ([]domain.User, error)
}

type assignmentRepository struct {
	pool *pgxpool.Pool
}

func NewAssignmentRepository(pool *pgxpool.Pool) AssignmentRepository {
	return &assignmentRepository{pool: pool}
}

func (r *assignmentRepository) Assign(ctx context.Context, eventID, employeeID int64) (bool, error) {
	const q = `
		INSERT INTO event_assignments (event_id, employee_id)
		VALUES ($1, $2)
		ON CONFLICT (event_id, employee_id) DO NOTHING`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, eventID, employeeID)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *assignmentRepository) Exists(ctx context.Context, eventID, employeeID int64) (bool, error) {
	const q = `SELECT EXISTS (
		SELECT 1 FROM event_assignments WHERE event_id = $1 AND employee_id = $2
	)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	err := r.pool.QueryRow(ctx, q, eventID, employeeID).Scan(&exists)
	return exists, err
}

func (r *assignmentRepository) ListEmployees(ctx context.Context, eventID int64) ([]domain.User, error) {
	const q = `
		SELECT u.id, u.role, u.email, u.password_hash, u.name, u.phone, u.created_at, u.updated_at
		FROM users u
		JOIN event_assignments a ON a.employee_id = u.id
		WHERE a.event_id = $1
		ORDER BY u.name ASC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID, &u.Role, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
