// Package sweep contains the scheduled jobs of the notification engine: the
// periodic deadline/reminder sweep and the daily overdue status projection,
// plus the cron scheduler that drives them.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/parkhurst/casetrack-api/internal/domain"
	"github.com/parkhurst/casetrack-api/internal/service"
	"github.com/parkhurst/casetrack-api/internal/store"
)

// SettingsGate decides, per category, whether in-app and email delivery are
// enabled. A store.ErrSettingNotFound from either method means the category
// was never initialized and is treated as disabled.
type SettingsGate interface {
	ShouldNotify(ctx context.Context, t domain.NotificationType) (bool, error)
	ShouldEmail(ctx context.Context, t domain.NotificationType) (bool, error)
}

// EventDispatcher fans one event out to its recipients.
type EventDispatcher interface {
	Dispatch(ctx context.Context, params service.DispatchParams) error
}

// Mailer sends an email. Failures are logged by the caller and never abort
// the sweep.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// Sweeper is the scheduled engine: each run loads the open cases, evaluates
// the deadline and reminder trigger for every embedded task, consults the
// settings gate, dispatches and emails as enabled, and commits the
// idempotency flags back in one tasks-column write per modified case.
//
// The trigger predicate (date within the look-ahead window and sent-flag
// unset) is monotone: once true it stays true until an interactive edit
// resets the flag, so a delayed or restarted run still fires exactly the
// pending triggers, never duplicating and never skipping.
type Sweeper struct {
	cases      store.CaseStore
	users      store.UserStore
	gate       SettingsGate
	dispatcher EventDispatcher
	mailer     Mailer
	logger     *slog.Logger
	lookahead  time.Duration
	running    atomic.Bool

	// now is injected for tests; defaults to time.Now.
	now func() time.Time
}

// NewSweeper creates a new Sweeper. The mailer may be nil when outgoing mail
// is not configured; email-gated triggers then log and skip the send.
// If logger is nil, a default logger will be used.
func NewSweeper(
	cases store.CaseStore,
	users store.UserStore,
	gate SettingsGate,
	dispatcher EventDispatcher,
	mailer Mailer,
	lookahead time.Duration,
	logger *slog.Logger,
) *Sweeper {
	if cases == nil {
		panic("case store cannot be nil")
	}
	if users == nil {
		panic("user store cannot be nil")
	}
	if gate == nil {
		panic("settings gate cannot be nil")
	}
	if dispatcher == nil {
		panic("dispatcher cannot be nil")
	}
	if lookahead <= 0 {
		lookahead = 24 * time.Hour
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Sweeper{
		cases:      cases,
		users:      users,
		gate:       gate,
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     logger.With(slog.String("component", "sweeper")),
		lookahead:  lookahead,
		now:        time.Now,
	}
}

// Run executes one sweep over all open cases. Errors on individual tasks or
// cases are logged and isolated; the run always visits every case and
// reports the error count. A second Run while one is in flight returns
// immediately; sweeps never overlap.
func (s *Sweeper) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("sweep already in progress, skipping run")
		return nil
	}
	defer s.running.Store(false)

	start := s.now()

	cases, err := s.cases.FindCasesWithOutstandingNotifications(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sweep candidates: %w", err)
	}

	// Admins receive every deadline/reminder notification. A directory
	// failure degrades to staff-only recipients rather than aborting the run.
	var adminIDs []uuid.UUID
	admins, err := s.users.ListAdmins(ctx)
	if err != nil {
		s.logger.Error("failed to list admins, notifying case staff only",
			slog.String("error", err.Error()))
	} else {
		for _, admin := range admins {
			adminIDs = append(adminIDs, admin.ID)
		}
	}

	emails := newEmailResolver(s.users)
	var triggered, errCount int
	for _, c := range cases {
		t, e := s.sweepCase(ctx, c, adminIDs, emails)
		triggered += t
		errCount += e
	}

	s.logger.Info("sweep completed",
		slog.Int("cases", len(cases)),
		slog.Int("triggered", triggered),
		slog.Int("errors", errCount),
		slog.Duration("elapsed", s.now().Sub(start)))
	return nil
}

// sweepCase evaluates both triggers for every task of one case and persists
// the flag changes in a single atomic tasks write. Returns the number of
// triggers fired and the number of errors encountered.
func (s *Sweeper) sweepCase(
	ctx context.Context,
	c *domain.Case,
	adminIDs []uuid.UUID,
	emails *emailResolver,
) (int, int) {
	logger := s.logger.With(slog.String("case_id", c.ID.String()))
	recipients := append(c.Staff(), adminIDs...)

	var triggered, errCount int
	modified := false
	deadline := s.now().Add(s.lookahead)

	for i := range c.Tasks {
		task := &c.Tasks[i]

		if task.DueDate != nil && !task.DueDateNotificationSent &&
			!task.DueDate.After(deadline) {
			if err := s.fireTrigger(ctx, triggerContext{
				category:   domain.NotificationTypeDeadline,
				message:    fmt.Sprintf("Task %q in case %q is due soon", task.Description, c.MatterName),
				subject:    fmt.Sprintf("Deadline approaching: %s", c.MatterName),
				body:       deadlineEmailBody(c, task),
				c:          c,
				task:       task,
				recipients: recipients,
				emails:     emails,
			}); err != nil {
				logger.Error("deadline trigger failed, will retry next run",
					slog.String("task_id", task.ID.String()),
					slog.String("error", err.Error()))
				errCount++
			} else {
				task.DueDateNotificationSent = true
				modified = true
				triggered++
			}
		}

		if task.ReminderAt != nil && !task.ReminderNotificationSent &&
			!task.ReminderAt.After(deadline) {
			if err := s.fireTrigger(ctx, triggerContext{
				category:   domain.NotificationTypeReminder,
				message:    fmt.Sprintf("Reminder for task %q in case %q", task.Description, c.MatterName),
				subject:    fmt.Sprintf("Task reminder: %s", c.MatterName),
				body:       reminderEmailBody(c, task),
				c:          c,
				task:       task,
				recipients: recipients,
				emails:     emails,
			}); err != nil {
				logger.Error("reminder trigger failed, will retry next run",
					slog.String("task_id", task.ID.String()),
					slog.String("error", err.Error()))
				errCount++
			} else {
				task.ReminderNotificationSent = true
				modified = true
				triggered++
			}
		}
	}

	if modified {
		if err := s.cases.UpdateTasks(ctx, c.ID, c.Tasks); err != nil {
			// The flags were dispatched but not persisted; the affected
			// triggers fire again next run.
			logger.Error("failed to persist sent-flags, triggers will re-fire",
				slog.String("error", err.Error()))
			errCount++
		}
	}

	return triggered, errCount
}

// triggerContext carries everything needed to announce one trigger instance.
type triggerContext struct {
	category   domain.NotificationType
	message    string
	subject    string
	body       string
	c          *domain.Case
	task       *domain.Task
	recipients []uuid.UUID
	emails     *emailResolver
}

// fireTrigger consults the gate and performs the enabled deliveries. Only a
// failed dispatch (persistence of the durable records) returns an error and
// withholds the sent-flag; everything else (disabled gates, missing
// settings rows, email failures) counts as the trigger having been
// announced, so the flag is set and the event is never retried forever.
func (s *Sweeper) fireTrigger(ctx context.Context, tc triggerContext) error {
	notify, err := s.gate.ShouldNotify(ctx, tc.category)
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("settings lookup failed, treating category as disabled",
				slog.String("category", string(tc.category)),
				slog.String("error", err.Error()))
		}
		notify = false
	}

	email, err := s.gate.ShouldEmail(ctx, tc.category)
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("settings lookup failed, treating email as disabled",
				slog.String("category", string(tc.category)),
				slog.String("error", err.Error()))
		}
		email = false
	}

	if notify {
		taskID := tc.task.ID
		caseID := tc.c.ID
		if err := s.dispatcher.Dispatch(ctx, service.DispatchParams{
			Type:       tc.category,
			Message:    tc.message,
			TaskID:     &taskID,
			CaseID:     &caseID,
			Recipients: tc.recipients,
		}); err != nil {
			return fmt.Errorf("dispatch failed: %w", err)
		}
	}

	if email {
		s.sendEmail(ctx, tc)
	}

	return nil
}

// sendEmail resolves the recipients' addresses and fires the send.
// Email is fire-and-forget: failures are logged and never affect the
// in-app delivery or the sent-flag.
func (s *Sweeper) sendEmail(ctx context.Context, tc triggerContext) {
	if s.mailer == nil {
		s.logger.Debug("mailer not configured, skipping email",
			slog.String("category", string(tc.category)))
		return
	}

	addresses := tc.emails.resolve(ctx, tc.recipients)
	if len(addresses) == 0 {
		s.logger.Warn("no email addresses resolved for trigger",
			slog.String("category", string(tc.category)),
			slog.String("case_id", tc.c.ID.String()))
		return
	}

	if err := s.mailer.Send(ctx, addresses, tc.subject, tc.body); err != nil {
		s.logger.Error("email send failed",
			slog.String("category", string(tc.category)),
			slog.String("case_id", tc.c.ID.String()),
			slog.String("error", err.Error()))
	}
}

func deadlineEmailBody(c *domain.Case, task *domain.Task) string {
	return fmt.Sprintf(
		"Task %q in case %q (file %s) is due on %s.\n\nPlease review the task before the deadline.",
		task.Description, c.MatterName, c.FileReference,
		task.DueDate.Format("Mon, 2 Jan 2006 15:04"),
	)
}

func reminderEmailBody(c *domain.Case, task *domain.Task) string {
	return fmt.Sprintf(
		"Reminder for task %q in case %q (file %s), scheduled for %s.",
		task.Description, c.MatterName, c.FileReference,
		task.ReminderAt.Format("Mon, 2 Jan 2006 15:04"),
	)
}

// emailResolver memoizes user lookups for the duration of one sweep run so a
// recipient appearing in many cases costs one query.
type emailResolver struct {
	users store.UserStore
	cache map[uuid.UUID]string
}

func newEmailResolver(users store.UserStore) *emailResolver {
	return &emailResolver{
		users: users,
		cache: make(map[uuid.UUID]string),
	}
}

func (r *emailResolver) resolve(ctx context.Context, ids []uuid.UUID) []string {
	var addresses []string
	seen := make(map[string]struct{})
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		email, ok := r.cache[id]
		if !ok {
			user, err := r.users.GetByID(ctx, id)
			if err != nil {
				r.cache[id] = ""
				continue
			}
			email = user.Email
			r.cache[id] = email
		}
		if email == "" {
			continue
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		addresses = append(addresses, email)
	}
	return addresses
}
