package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/parkhurst/casetrack-api/internal/domain"
	"github.com/parkhurst/casetrack-api/internal/store"
)

// PostgresSettingStore implements the store.SettingStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSettingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSettingStore creates a new PostgreSQL implementation of the
// SettingStore interface. If logger is nil, a default logger will be used.
func NewPostgresSettingStore(db store.DBTX, logger *slog.Logger) *PostgresSettingStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSettingStore{
		db:     db,
		logger: logger.With(slog.String("component", "setting_store")),
	}
}

// Ensure PostgresSettingStore implements store.SettingStore interface
var _ store.SettingStore = (*PostgresSettingStore)(nil)

// GetByType implements store.SettingStore.GetByType
// Returns store.ErrSettingNotFound if the category was never initialized.
func (s *PostgresSettingStore) GetByType(
	ctx context.Context,
	t domain.NotificationType,
) (*domain.NotificationSetting, error) {
	query := `
		SELECT type, name, is_enabled, send_email
		FROM notification_settings
		WHERE type = $1
	`

	var setting domain.NotificationSetting
	err := s.db.QueryRowContext(ctx, query, t).Scan(
		&setting.Type,
		&setting.Name,
		&setting.IsEnabled,
		&setting.SendEmail,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSettingNotFound
		}
		s.logger.Error("failed to get notification setting",
			slog.String("error", err.Error()),
			slog.String("type", string(t)))
		return nil, MapError(err)
	}

	return &setting, nil
}

// List implements store.SettingStore.List
func (s *PostgresSettingStore) List(ctx context.Context) ([]domain.NotificationSetting, error) {
	query := `
		SELECT type, name, is_enabled, send_email
		FROM notification_settings
		ORDER BY type
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.logger.Error("failed to list notification settings",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var settings []domain.NotificationSetting
	for rows.Next() {
		var setting domain.NotificationSetting
		if err := rows.Scan(
			&setting.Type,
			&setting.Name,
			&setting.IsEnabled,
			&setting.SendEmail,
		); err != nil {
			return nil, MapError(err)
		}
		settings = append(settings, setting)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return settings, nil
}

// CreateAll implements store.SettingStore.CreateAll
// It inserts all rows in order; the unique constraint on type surfaces as
// store.ErrDuplicate if any category already has a row.
func (s *PostgresSettingStore) CreateAll(
	ctx context.Context,
	settings []domain.NotificationSetting,
) error {
	query := `
		INSERT INTO notification_settings (type, name, is_enabled, send_email)
		VALUES ($1, $2, $3, $4)
	`

	for _, setting := range settings {
		_, err := s.db.ExecContext(
			ctx,
			query,
			setting.Type,
			setting.Name,
			setting.IsEnabled,
			setting.SendEmail,
		)
		if err != nil {
			s.logger.Error("failed to insert notification setting",
				slog.String("error", err.Error()),
				slog.String("type", string(setting.Type)))
			return MapError(err)
		}
	}

	s.logger.Debug("notification setting rows inserted",
		slog.Int("count", len(settings)))
	return nil
}

// Upsert implements store.SettingStore.Upsert
func (s *PostgresSettingStore) Upsert(
	ctx context.Context,
	setting domain.NotificationSetting,
) error {
	query := `
		INSERT INTO notification_settings (type, name, is_enabled, send_email)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (type) DO UPDATE
		SET name = EXCLUDED.name,
		    is_enabled = EXCLUDED.is_enabled,
		    send_email = EXCLUDED.send_email
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		setting.Type,
		setting.Name,
		setting.IsEnabled,
		setting.SendEmail,
	)
	if err != nil {
		s.logger.Error("failed to upsert notification setting",
			slog.String("error", err.Error()),
			slog.String("type", string(setting.Type)))
		return MapError(err)
	}

	return nil
}
