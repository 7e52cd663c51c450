package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/parkhurst/casetrack-api/internal/domain"
	"github.com/parkhurst/casetrack-api/internal/store"
)

// NotificationService exposes the per-recipient read/delete surface over the
// durable notification records, consumed by client UIs.
type NotificationService struct {
	notifications store.NotificationStore
	logger        *slog.Logger
}

// NewNotificationService creates a new NotificationService.
// If logger is nil, a default logger will be used.
func NewNotificationService(
	notifications store.NotificationStore,
	logger *slog.Logger,
) *NotificationService {
	if notifications == nil {
		panic("notification store cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &NotificationService{
		notifications: notifications,
		logger:        logger.With(slog.String("component", "notification_service")),
	}
}

// ListForRecipient returns the recipient's notifications, newest first.
func (s *NotificationService) ListForRecipient(
	ctx context.Context,
	recipient uuid.UUID,
) ([]*domain.Notification, error) {
	return s.notifications.ListForRecipient(ctx, recipient)
}

// MarkRead flips a record's IsRead flag.
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.notifications.MarkRead(ctx, id)
}

// Delete removes a single record.
func (s *NotificationService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.notifications.Delete(ctx, id)
}

// DeleteAllForRecipient removes every record belonging to the recipient and
// returns the number removed.
func (s *NotificationService) DeleteAllForRecipient(
	ctx context.Context,
	recipient uuid.UUID,
) (int64, error) {
	return s.notifications.DeleteAllForRecipient(ctx, recipient)
}
