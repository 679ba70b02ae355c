package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abdulrazikehab/Dawah-sub000/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, req *domain.CreateUserRequest, passwordHash string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, role *domain.Role, limit, offset int) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userCols = `id, role, email, password_hash, name, phone, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, req *domain.CreateUserRequest, passwordHash string) (*domain.User, error) {
	const q = `
		INSERT INTO users (role, email, password_hash, name, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var u domain.User
	err := r.pool.QueryRow(ctx, q, req.Role, req.Email, passwordHash, req.Name, req.Phone).Scan(
		&u.ID, &u.Role, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE email = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var u domain.User
	err := r.pool.QueryRow(ctx, q, email).Scan(
		&u.ID, &u.Role, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &u, err
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var u domain.User
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&u.ID, &u.Role, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &u, err
}

func (r *userRepository) List(ctx context.Context, role *domain.Role, limit, offset int) ([]domain.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := `SELECT ` + userCols + ` FROM users`
	args := []any{}
	if role != nil {
		q += ` WHERE role = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, *role, limit, offset)
	} else {
		q += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, args...)
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
