// Package store defines the persistence interfaces consumed by the services
// and the sweep jobs, together with the sentinel errors their
// implementations return.
package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is the generic version of the entity-specific not found
	// errors (e.g., ErrCaseNotFound, ErrSettingNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate of
	// a unique entity (e.g., a second setting row for the same category).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed is returned when an update operation fails, for example
	// because the entity does not exist or the update violates constraints.
	ErrUpdateFailed = errors.New("update failed")

	// Entity-specific "not found" errors

	// ErrCaseNotFound indicates that the requested case does not exist.
	ErrCaseNotFound = fmt.Errorf("%w: case", ErrNotFound)

	// ErrNotificationNotFound indicates that the requested notification
	// record does not exist.
	ErrNotificationNotFound = fmt.Errorf("%w: notification", ErrNotFound)

	// ErrSettingNotFound indicates that no setting row exists for the
	// requested notification category. The settings gate treats this as
	// "do not notify" rather than a fatal condition.
	ErrSettingNotFound = fmt.Errorf("%w: notification setting", ErrNotFound)

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
