package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/parkhurst/casetrack-api/internal/domain"
	"github.com/parkhurst/casetrack-api/internal/store"
)

// OverdueUpdater is the daily job that projects task status to Overdue once
// the due date has passed. It has no notification side effects and no
// idempotency flag: re-running it is naturally idempotent because the
// predicate excludes tasks that are already Overdue.
//
// Completed tasks are left alone; flipping them would break the
// completedAt/status invariant, and a finished task being past its due date
// is not actionable.
type OverdueUpdater struct {
	cases  store.CaseStore
	logger *slog.Logger

	// now is injected for tests; defaults to time.Now.
	now func() time.Time
}

// NewOverdueUpdater creates a new OverdueUpdater.
// If logger is nil, a default logger will be used.
func NewOverdueUpdater(cases store.CaseStore, logger *slog.Logger) *OverdueUpdater {
	if cases == nil {
		panic("case store cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &OverdueUpdater{
		cases:  cases,
		logger: logger.With(slog.String("component", "overdue_updater")),
		now:    time.Now,
	}
}

// Run marks every qualifying task of every open case as Overdue, persisting
// a case only when at least one of its tasks changed. Per-case errors are
// logged and isolated.
func (u *OverdueUpdater) Run(ctx context.Context) error {
	cases, err := u.cases.FindCasesWithOutstandingNotifications(ctx)
	if err != nil {
		return fmt.Errorf("failed to load open cases: %w", err)
	}

	now := u.now()
	var flipped, errCount int
	for _, c := range cases {
		changed := false
		for i := range c.Tasks {
			task := &c.Tasks[i]
			if task.Status == domain.TaskStatusOverdue ||
				task.Status == domain.TaskStatusCompleted {
				continue
			}
			if task.DueDate == nil || !task.DueDate.Before(now) {
				continue
			}

			task.Status = domain.TaskStatusOverdue
			changed = true
			flipped++
		}

		if !changed {
			continue
		}

		if err := u.cases.UpdateTasks(ctx, c.ID, c.Tasks); err != nil {
			u.logger.Error("failed to persist overdue statuses",
				slog.String("case_id", c.ID.String()),
				slog.String("error", err.Error()))
			errCount++
		}
	}

	u.logger.Info("overdue update completed",
		slog.Int("cases", len(cases)),
		slog.Int("tasks_flipped", flipped),
		slog.Int("errors", errCount))
	return nil
}
