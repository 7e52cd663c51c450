package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/parkhurst/casetrack-api/internal/domain"
)

// UserStore defines the slice of user persistence the notification engine
// consumes: the admin directory and email address lookups.
type UserStore interface {
	// GetByID retrieves a user by its unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// ListAdmins returns every user with the admin role.
	ListAdmins(ctx context.Context) ([]*domain.User, error)
}
