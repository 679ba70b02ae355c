package service

import (
	"context"
	"fmt"

	"github.com/alexedwards/argon2id"

	"github.com/abdulrazikehab/Dawah-sub000/internal/domain"
	"github.com/abdulrazikehab/Dawah-sub000/internal/repository"
	"github.com/abdulrazikehab/Dawah-sub000/pkg/auth"
	"github.com/abdulrazikehab/Dawah-sub000/pkg/config"
	"github.com/abdulrazikehab/Dawah-sub000/pkg/logger"
)

type AuthService interface {
	// Register creates a staff account. Host signup is open; employee and
	// admin accounts can only be created by an admin.
	Register(ctx context.Context, actor *domain.Principal, req *domain.CreateUserRequest) (*domain.UserInfo, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	// ListStaff pages through staff accounts, optionally by role. Admins
	// use it to pick employees for event assignment.
	ListStaff(ctx context.Context, actor domain.Principal, role *domain.Role, limit, offset int) ([]domain.UserInfo, error)
}

type authService struct {
	userRepo repository.UserRepository
	config   *config.Config
}

func NewAuthService(userRepo repository.UserRepository, config *config.Config) AuthService {
	return &authService{userRepo: userRepo, config: config}
}

func (s *authService) Register(ctx context.Context, actor *domain.Principal, req *domain.CreateUserRequest) (*domain.UserInfo, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if domain.Role(req.Role) != domain.RoleHost {
		if actor == nil || !actor.IsAdmin() {
			return nil, domain.ErrUnauthorized
		}
	}

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrInvalidInput)
	}

	hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, req, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	logger.InfoContext(ctx, "Staff account created", "user_id", user.ID, "role", user.Role)
	return user.ToUserInfo(), nil
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}

	match, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return nil, domain.ErrUnauthorized
	}

	ttl := s.config.Auth.AccessTokenTTL
	accessToken, err := auth.NewAccessToken(user.ID, user.Email, string(user.Role), s.config.Auth.JWTSecret, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	return &domain.LoginResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(ttl.Seconds()),
		User:        user.ToUserInfo(),
	}, nil
}

func (s *authService) ListStaff(ctx context.Context, actor domain.Principal, role *domain.Role, limit, offset int) ([]domain.UserInfo, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}

	users, err := s.userRepo.List(ctx, role, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}

	infos := make([]domain.UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, *users[i].ToUserInfo())
	}
	return infos, nil
}
