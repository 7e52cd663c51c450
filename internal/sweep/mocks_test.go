package sweep

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/parkhurst/casetrack-api/internal/domain"
	"github.com/parkhurst/casetrack-api/internal/service"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockCaseStore is a configurable fake for store.CaseStore. Updated records
// the task arrays written back per case.
type mockCaseStore struct {
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.Case, error)
	FindFn        func(ctx context.Context) ([]*domain.Case, error)
	UpdateTasksFn func(ctx context.Context, caseID uuid.UUID, tasks []domain.Task) error

	Updated map[uuid.UUID][]domain.Task
}

func (m *mockCaseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Case, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockCaseStore) FindCasesWithOutstandingNotifications(
	ctx context.Context,
) ([]*domain.Case, error) {
	if m.FindFn != nil {
		return m.FindFn(ctx)
	}
	return nil, nil
}

func (m *mockCaseStore) UpdateTasks(
	ctx context.Context,
	caseID uuid.UUID,
	tasks []domain.Task,
) error {
	if m.UpdateTasksFn != nil {
		if err := m.UpdateTasksFn(ctx, caseID, tasks); err != nil {
			return err
		}
	}
	if m.Updated == nil {
		m.Updated = make(map[uuid.UUID][]domain.Task)
	}
	m.Updated[caseID] = append([]domain.Task(nil), tasks...)
	return nil
}

// mockUserStore is a configurable fake for store.UserStore.
type mockUserStore struct {
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ListAdminsFn func(ctx context.Context) ([]*domain.User, error)
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return &domain.User{ID: id, Email: id.String() + "@example.test"}, nil
}

func (m *mockUserStore) ListAdmins(ctx context.Context) ([]*domain.User, error) {
	if m.ListAdminsFn != nil {
		return m.ListAdminsFn(ctx)
	}
	return nil, nil
}

// mockGate is a configurable fake SettingsGate. Unset functions report both
// deliveries enabled.
type mockGate struct {
	ShouldNotifyFn func(ctx context.Context, t domain.NotificationType) (bool, error)
	ShouldEmailFn  func(ctx context.Context, t domain.NotificationType) (bool, error)
}

func (m *mockGate) ShouldNotify(ctx context.Context, t domain.NotificationType) (bool, error) {
	if m.ShouldNotifyFn != nil {
		return m.ShouldNotifyFn(ctx, t)
	}
	return true, nil
}

func (m *mockGate) ShouldEmail(ctx context.Context, t domain.NotificationType) (bool, error) {
	if m.ShouldEmailFn != nil {
		return m.ShouldEmailFn(ctx, t)
	}
	return true, nil
}

// mockDispatcher records every dispatched event.
type mockDispatcher struct {
	DispatchFn func(ctx context.Context, params service.DispatchParams) error

	Calls []service.DispatchParams
}

func (m *mockDispatcher) Dispatch(ctx context.Context, params service.DispatchParams) error {
	if m.DispatchFn != nil {
		if err := m.DispatchFn(ctx, params); err != nil {
			return err
		}
	}
	m.Calls = append(m.Calls, params)
	return nil
}

type sentMail struct {
	To      []string
	Subject string
	Body    string
}

// mockMailer records every send.
type mockMailer struct {
	SendFn func(ctx context.Context, to []string, subject, body string) error

	Sent []sentMail
}

func (m *mockMailer) Send(ctx context.Context, to []string, subject, body string) error {
	if m.SendFn != nil {
		if err := m.SendFn(ctx, to, subject, body); err != nil {
			return err
		}
	}
	m.Sent = append(m.Sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}
