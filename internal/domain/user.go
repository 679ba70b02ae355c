package domain

import (
	"fmt"
	"time"

	"github.com/abdulrazikehab/Dawah-sub000/internal/utils"
)

// User is a staff account: a host who owns events, an employee who scans at
// the door, or an admin.
type User struct {
	ID           int64     `json:"id"`
	Role         Role      `json:"role"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Role: u.Role}
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Role     string `json:"role,omitempty"`
}

func (r *CreateUserRequest) Normalize() {
	r.Email = utils.NormalizeEmail(r.Email)
	r.Name = utils.NormalizeString(r.Name)
	r.Phone = utils.NormalizePhone(r.Phone)
	if r.Role == "" {
		r.Role = string(RoleHost)
	}
}

func (r *CreateUserRequest) Validate() error {
	if !utils.IsValidEmail(r.Email) {
		return fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if r.Phone != "" && !utils.IsValidPhone(r.Phone) {
		return fmt.Errorf("%w: invalid phone format", ErrInvalidInput)
	}
	if _, ok := ParseRole(r.Role); !ok {
		return fmt.Errorf("%w: invalid role", ErrInvalidInput)
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = utils.NormalizeEmail(r.Email)
}

func (r *LoginRequest) Validate() error {
	if !utils.IsValidEmail(r.Email) {
		return fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}
	if r.Password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	return nil
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        *UserInfo `json:"user"`
}

// UserInfo is the safe projection of a User (no password hash).
type UserInfo struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  Role   `json:"role"`
}

func (u *User) ToUserInfo() *UserInfo {
	return &UserInfo{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Phone: u.Phone,
		Role:  u.Role,
	}
}
