package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/parkhurst/casetrack-api/internal/domain"
	"github.com/parkhurst/casetrack-api/internal/store"
)

// SettingsService is the gate deciding, per notification category, whether
// an in-app notification and/or an email should be produced. It also carries
// the administrative settings surface: one-time bootstrap, upsert, and fetch.
type SettingsService struct {
	settings store.SettingStore
	logger   *slog.Logger
}

// NewSettingsService creates a new SettingsService.
// If logger is nil, a default logger will be used.
func NewSettingsService(settings store.SettingStore, logger *slog.Logger) *SettingsService {
	if settings == nil {
		panic("setting store cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SettingsService{
		settings: settings,
		logger:   logger.With(slog.String("component", "settings_service")),
	}
}

// ShouldNotify returns the persisted IsEnabled flag for the category.
// A missing setting row surfaces as store.ErrSettingNotFound; sweep callers
// treat that as "do not notify" rather than a fatal condition.
func (s *SettingsService) ShouldNotify(
	ctx context.Context,
	t domain.NotificationType,
) (bool, error) {
	setting, err := s.settings.GetByType(ctx, t)
	if err != nil {
		return false, err
	}
	return setting.IsEnabled, nil
}

// ShouldEmail returns the persisted SendEmail flag for the category, with
// the same missing-row contract as ShouldNotify.
func (s *SettingsService) ShouldEmail(
	ctx context.Context,
	t domain.NotificationType,
) (bool, error) {
	setting, err := s.settings.GetByType(ctx, t)
	if err != nil {
		return false, err
	}
	return setting.SendEmail, nil
}

// Initialize seeds the five fixed categories with their defaults, applying
// any caller-supplied overrides by category. This is a one-time bootstrap:
// it returns ErrSettingsAlreadyInitialized if any setting row exists.
func (s *SettingsService) Initialize(
	ctx context.Context,
	overrides []domain.NotificationSetting,
) ([]domain.NotificationSetting, error) {
	existing, err := s.settings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing settings: %w", err)
	}
	if len(existing) > 0 {
		return nil, ErrSettingsAlreadyInitialized
	}

	seed := domain.DefaultNotificationSettings()
	for _, override := range overrides {
		for i := range seed {
			if seed[i].Type == override.Type {
				seed[i].IsEnabled = override.IsEnabled
				seed[i].SendEmail = override.SendEmail
				if override.Name != "" {
					seed[i].Name = override.Name
				}
			}
		}
	}

	if err := s.settings.CreateAll(ctx, seed); err != nil {
		return nil, fmt.Errorf("failed to seed notification settings: %w", err)
	}

	s.logger.Info("notification settings initialized", slog.Int("count", len(seed)))
	return seed, nil
}

// UpdateSettingParams carries a partial update of a category's flags.
// Nil fields are left unchanged.
type UpdateSettingParams struct {
	IsEnabled *bool
	SendEmail *bool
}

// Update upserts a single category's flags and returns the resulting row.
// Updating a category that was never initialized creates its row from the
// defaults first, then applies the patch.
func (s *SettingsService) Update(
	ctx context.Context,
	t domain.NotificationType,
	params UpdateSettingParams,
) (*domain.NotificationSetting, error) {
	if !domain.ValidNotificationType(t) {
		return nil, domain.ErrInvalidNotificationType
	}

	setting, err := s.settings.GetByType(ctx, t)
	if err != nil {
		if !store.IsNotFoundError(err) {
			return nil, err
		}
		setting = defaultSettingFor(t)
	}

	if params.IsEnabled != nil {
		setting.IsEnabled = *params.IsEnabled
	}
	if params.SendEmail != nil {
		setting.SendEmail = *params.SendEmail
	}

	if err := s.settings.Upsert(ctx, *setting); err != nil {
		return nil, fmt.Errorf("failed to update setting %q: %w", t, err)
	}

	s.logger.Info("notification setting updated",
		slog.String("type", string(t)),
		slog.Bool("is_enabled", setting.IsEnabled),
		slog.Bool("send_email", setting.SendEmail))
	return setting, nil
}

// List returns all setting rows for the administrative surface.
func (s *SettingsService) List(ctx context.Context) ([]domain.NotificationSetting, error) {
	return s.settings.List(ctx)
}

func defaultSettingFor(t domain.NotificationType) *domain.NotificationSetting {
	for _, setting := range domain.DefaultNotificationSettings() {
		if setting.Type == t {
			return &setting
		}
	}
	// Unreachable for valid types; validated by the caller.
	return &domain.NotificationSetting{Type: t, Name: string(t)}
}
