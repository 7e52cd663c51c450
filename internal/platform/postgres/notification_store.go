package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/parkhurst/casetrack-api/internal/domain"
	"github.com/parkhurst/casetrack-api/internal/store"
)

// PostgresNotificationStore implements the store.NotificationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresNotificationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNotificationStore creates a new PostgreSQL implementation of the
// NotificationStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresNotificationStore(db store.DBTX, logger *slog.Logger) *PostgresNotificationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNotificationStore{
		db:     db,
		logger: logger.With(slog.String("component", "notification_store")),
	}
}

// Ensure PostgresNotificationStore implements store.NotificationStore interface
var _ store.NotificationStore = (*PostgresNotificationStore)(nil)

// Create implements store.NotificationStore.Create
// It persists a single notification record, handling domain validation.
func (s *PostgresNotificationStore) Create(
	ctx context.Context,
	notification *domain.Notification,
) error {
	if err := notification.Validate(); err != nil {
		s.logger.Warn("notification validation failed during create",
			slog.String("error", err.Error()),
			slog.String("notification_id", notification.ID.String()))
		return err
	}

	query := `
		INSERT INTO notifications
			(id, type, message, task_id, case_id, announcement_id,
			 recipient, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		notification.ID,
		notification.Type,
		notification.Message,
		notification.TaskID,
		notification.CaseID,
		notification.AnnouncementID,
		notification.Recipient,
		notification.IsRead,
		notification.CreatedAt,
	)
	if err != nil {
		s.logger.Error("failed to create notification",
			slog.String("error", err.Error()),
			slog.String("notification_id", notification.ID.String()),
			slog.String("recipient", notification.Recipient.String()))
		return MapError(err)
	}

	return nil
}

// ListForRecipient implements store.NotificationStore.ListForRecipient
// It returns the recipient's notifications ordered newest first.
func (s *PostgresNotificationStore) ListForRecipient(
	ctx context.Context,
	recipient uuid.UUID,
) ([]*domain.Notification, error) {
	query := `
		SELECT id, type, message, task_id, case_id, announcement_id,
		       recipient, is_read, created_at
		FROM notifications
		WHERE recipient = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, recipient)
	if err != nil {
		s.logger.Error("failed to list notifications",
			slog.String("error", err.Error()),
			slog.String("recipient", recipient.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		err := rows.Scan(
			&n.ID,
			&n.Type,
			&n.Message,
			&n.TaskID,
			&n.CaseID,
			&n.AnnouncementID,
			&n.Recipient,
			&n.IsRead,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, MapError(err)
		}
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return notifications, nil
}

// MarkRead implements store.NotificationStore.MarkRead
// Returns store.ErrNotificationNotFound if the record does not exist.
func (s *PostgresNotificationStore) MarkRead(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		s.logger.Error("failed to mark notification read",
			slog.String("error", err.Error()),
			slog.String("notification_id", id.String()))
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrNotificationNotFound
	}

	return nil
}

// Delete implements store.NotificationStore.Delete
// Returns store.ErrNotificationNotFound if the record does not exist.
func (s *PostgresNotificationStore) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM notifications WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotificationNotFound
		}
		s.logger.Error("failed to delete notification",
			slog.String("error", err.Error()),
			slog.String("notification_id", id.String()))
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrNotificationNotFound
	}

	return nil
}

// DeleteAllForRecipient implements store.NotificationStore.DeleteAllForRecipient
// It removes every record belonging to the recipient and returns the number
// removed. Removing zero records is not an error.
func (s *PostgresNotificationStore) DeleteAllForRecipient(
	ctx context.Context,
	recipient uuid.UUID,
) (int64, error) {
	query := `DELETE FROM notifications WHERE recipient = $1`

	result, err := s.db.ExecContext(ctx, query, recipient)
	if err != nil {
		s.logger.Error("failed to delete notifications for recipient",
			slog.String("error", err.Error()),
			slog.String("recipient", recipient.String()))
		return 0, MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, MapError(err)
	}

	s.logger.Debug("deleted notifications for recipient",
		slog.String("recipient", recipient.String()),
		slog.Int64("count", affected))
	return affected, nil
}
