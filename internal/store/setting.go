package store

import (
	"context"

	"github.com/parkhurst/casetrack-api/internal/domain"
)

// SettingStore defines the interface for notification setting persistence.
type SettingStore interface {
	// GetByType retrieves the setting row for a category.
	// Returns ErrSettingNotFound if the category was never initialized.
	GetByType(ctx context.Context, t domain.NotificationType) (*domain.NotificationSetting, error)

	// List returns all setting rows.
	List(ctx context.Context) ([]domain.NotificationSetting, error)

	// CreateAll inserts the given setting rows. Used by the one-time
	// bootstrap; returns ErrDuplicate if any row already exists.
	CreateAll(ctx context.Context, settings []domain.NotificationSetting) error

	// Upsert inserts or replaces a single category's setting row.
	Upsert(ctx context.Context, setting domain.NotificationSetting) error
}
