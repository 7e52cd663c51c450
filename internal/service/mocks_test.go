package service_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/parkhurst/casetrack-api/internal/domain"
	"github.com/parkhurst/casetrack-api/internal/push"
)

// newTestLogger returns a logger that discards all output.
func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockNotificationStore is a configurable fake for store.NotificationStore.
// Unset functions behave as successful no-ops; Created collects every record
// passed to Create.
type mockNotificationStore struct {
	CreateFn                func(ctx context.Context, n *domain.Notification) error
	ListForRecipientFn      func(ctx context.Context, recipient uuid.UUID) ([]*domain.Notification, error)
	MarkReadFn              func(ctx context.Context, id uuid.UUID) error
	DeleteFn                func(ctx context.Context, id uuid.UUID) error
	DeleteAllForRecipientFn func(ctx context.Context, recipient uuid.UUID) (int64, error)

	Created []*domain.Notification
}

func (m *mockNotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	if m.CreateFn != nil {
		if err := m.CreateFn(ctx, n); err != nil {
			return err
		}
	}
	m.Created = append(m.Created, n)
	return nil
}

func (m *mockNotificationStore) ListForRecipient(
	ctx context.Context,
	recipient uuid.UUID,
) ([]*domain.Notification, error) {
	if m.ListForRecipientFn != nil {
		return m.ListForRecipientFn(ctx, recipient)
	}
	return nil, nil
}

func (m *mockNotificationStore) MarkRead(ctx context.Context, id uuid.UUID) error {
	if m.MarkReadFn != nil {
		return m.MarkReadFn(ctx, id)
	}
	return nil
}

func (m *mockNotificationStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *mockNotificationStore) DeleteAllForRecipient(
	ctx context.Context,
	recipient uuid.UUID,
) (int64, error) {
	if m.DeleteAllForRecipientFn != nil {
		return m.DeleteAllForRecipientFn(ctx, recipient)
	}
	return 0, nil
}

// mockSettingStore is a configurable fake for store.SettingStore.
type mockSettingStore struct {
	GetByTypeFn func(ctx context.Context, t domain.NotificationType) (*domain.NotificationSetting, error)
	ListFn      func(ctx context.Context) ([]domain.NotificationSetting, error)
	CreateAllFn func(ctx context.Context, settings []domain.NotificationSetting) error
	UpsertFn    func(ctx context.Context, setting domain.NotificationSetting) error
}

func (m *mockSettingStore) GetByType(
	ctx context.Context,
	t domain.NotificationType,
) (*domain.NotificationSetting, error) {
	if m.GetByTypeFn != nil {
		return m.GetByTypeFn(ctx, t)
	}
	return &domain.NotificationSetting{Type: t, Name: string(t)}, nil
}

func (m *mockSettingStore) List(ctx context.Context) ([]domain.NotificationSetting, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *mockSettingStore) CreateAll(
	ctx context.Context,
	settings []domain.NotificationSetting,
) error {
	if m.CreateAllFn != nil {
		return m.CreateAllFn(ctx, settings)
	}
	return nil
}

func (m *mockSettingStore) Upsert(
	ctx context.Context,
	setting domain.NotificationSetting,
) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, setting)
	}
	return nil
}

// mockChannel is a fake push.Channel recording every payload sent to it.
type mockChannel struct {
	SendFn  func(ctx context.Context, payload any) error
	CloseFn func() error

	Sent []any
}

func (m *mockChannel) Send(ctx context.Context, payload any) error {
	if m.SendFn != nil {
		if err := m.SendFn(ctx, payload); err != nil {
			return err
		}
	}
	m.Sent = append(m.Sent, payload)
	return nil
}

func (m *mockChannel) Close() error {
	if m.CloseFn != nil {
		return m.CloseFn()
	}
	return nil
}

// mockConnectionLookup maps recipients to channels.
type mockConnectionLookup struct {
	channels map[uuid.UUID]push.Channel
}

func (m *mockConnectionLookup) Lookup(recipient uuid.UUID) (push.Channel, bool) {
	ch, ok := m.channels[recipient]
	return ch, ok
}
