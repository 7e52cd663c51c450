package domain

import (
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// UserRole distinguishes staff and administrative accounts from clients.
// Admins are notified about every case's deadlines; clients never are.
type UserRole string

// Possible user roles.
const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleStaff  UserRole = "staff"
	UserRoleClient UserRole = "client"
)

// User-specific validation errors.
var (
	// ErrUserIDEmpty is returned when a user ID is empty or nil.
	ErrUserIDEmpty = errors.New("user ID cannot be empty")

	// ErrUserUsernameEmpty is returned when a user's username is empty.
	ErrUserUsernameEmpty = errors.New("username cannot be empty")

	// ErrInvalidUserRole is returned when a user role is not valid.
	ErrInvalidUserRole = errors.New("invalid user role")
)

// User is a notification recipient identity. Account management and
// authentication live outside this service; the engine only needs the id for
// push-channel registration, the role for the admin directory, and the email
// address for the email delivery path.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrUserIDEmpty
	}

	if u.Username == "" {
		return ErrUserUsernameEmpty
	}

	if u.Email != "" {
		if _, err := mail.ParseAddress(u.Email); err != nil {
			return ErrInvalidEmail
		}
	}

	switch u.Role {
	case UserRoleAdmin, UserRoleStaff, UserRoleClient:
	default:
		return ErrInvalidUserRole
	}

	return nil
}
