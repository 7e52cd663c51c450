package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the engine's jobs on standard 5-field cron expressions.
// Every job gets an overlap guard (a tick that fires while the previous run
// of the same job is still executing is skipped, never run concurrently),
// plus panic recovery and a bounded run context.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewScheduler creates a Scheduler evaluating schedules in the given
// location. If logger is nil, a default logger will be used.
func NewScheduler(loc *time.Location, logger *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}

	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "scheduler"))

	cronLogger := &slogCronLogger{logger: logger}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(
			cron.Recover(cronLogger),
			cron.SkipIfStillRunning(cronLogger),
		),
	)

	return &Scheduler{
		cron:   c,
		logger: logger,
	}
}

// AddJob registers a named job on the given cron expression. Each run gets a
// fresh context bounded by timeout.
func (s *Scheduler) AddJob(
	name, spec string,
	timeout time.Duration,
	run func(ctx context.Context) error,
) error {
	logger := s.logger.With(slog.String("job", name))

	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		if err := run(ctx); err != nil {
			logger.Error("job run failed",
				slog.String("error", err.Error()),
				slog.Duration("elapsed", time.Since(start)))
			return
		}
		logger.Debug("job run completed", slog.Duration("elapsed", time.Since(start)))
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}

	s.logger.Info("job scheduled",
		slog.String("job", name),
		slog.String("schedule", spec))
	return nil
}

// Start begins running scheduled jobs in their own goroutines.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling new runs and waits for in-flight runs to finish, so
// no sweep is interrupted mid-write. It returns early with the context error
// if ctx expires first.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out with jobs still running")
		return ctx.Err()
	}
}

// slogCronLogger adapts slog to the cron.Logger interface.
type slogCronLogger struct {
	logger *slog.Logger
}

var _ cron.Logger = (*slogCronLogger)(nil)

func (l *slogCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *slogCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	args := append([]interface{}{"error", err}, keysAndValues...)
	l.logger.Error(msg, args...)
}
