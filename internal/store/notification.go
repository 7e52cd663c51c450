package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/parkhurst/casetrack-api/internal/domain"
)

// NotificationStore defines the interface for the durable, append-only
// record of dispatched notifications.
type NotificationStore interface {
	// Create persists a single notification record.
	Create(ctx context.Context, notification *domain.Notification) error

	// ListForRecipient returns the recipient's notifications, newest first.
	ListForRecipient(ctx context.Context, recipient uuid.UUID) ([]*domain.Notification, error)

	// MarkRead flips a record's IsRead flag to true.
	// Returns ErrNotificationNotFound if the record does not exist.
	MarkRead(ctx context.Context, id uuid.UUID) error

	// Delete removes a single record.
	// Returns ErrNotificationNotFound if the record does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAllForRecipient removes every record belonging to the recipient
	// and returns the number removed.
	DeleteAllForRecipient(ctx context.Context, recipient uuid.UUID) (int64, error)
}
