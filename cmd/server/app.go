package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/parkhurst/casetrack-api/internal/config"
	"github.com/parkhurst/casetrack-api/internal/platform/mail"
	"github.com/parkhurst/casetrack-api/internal/platform/postgres"
	"github.com/parkhurst/casetrack-api/internal/push"
	"github.com/parkhurst/casetrack-api/internal/service"
	"github.com/parkhurst/casetrack-api/internal/sweep"
)

const (
	// sweepRunTimeout bounds one sweep run over all cases.
	sweepRunTimeout = 5 * time.Minute

	// shutdownTimeout bounds the graceful shutdown, including waiting for an
	// in-flight sweep to finish.
	shutdownTimeout = 30 * time.Second
)

// application holds the wired dependencies of the running server.
type application struct {
	config    *config.Config
	logger    *slog.Logger
	db        *sql.DB
	registry  *push.Registry
	scheduler *sweep.Scheduler
	server    *http.Server
}

// newApplication connects the database, applies migrations, and wires the
// stores, services, jobs, and HTTP surface together.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, logger); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Notify.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Notify.Timezone, err)
	}

	// Stores.
	caseStore := postgres.NewPostgresCaseStore(db, logger)
	userStore := postgres.NewPostgresUserStore(db, logger)
	notificationStore := postgres.NewPostgresNotificationStore(db, logger)
	settingStore := postgres.NewPostgresSettingStore(db, logger)

	// Push channel registry and services.
	registry := push.NewRegistry(logger)
	settingsService := service.NewSettingsService(settingStore, logger)
	dispatcher := service.NewDispatcher(notificationStore, registry, logger)
	notificationService := service.NewNotificationService(notificationStore, logger)

	var mailer sweep.Mailer
	if cfg.SMTP.Enabled() {
		smtpMailer, err := mail.NewSMTPMailer(cfg.SMTP, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to set up mailer: %w", err)
		}
		mailer = smtpMailer
	} else {
		logger.Warn("SMTP not configured, email notifications disabled")
	}

	// Scheduled jobs.
	sweeper := sweep.NewSweeper(
		caseStore,
		userStore,
		settingsService,
		dispatcher,
		mailer,
		time.Duration(cfg.Notify.LookaheadHours)*time.Hour,
		logger,
	)
	overdue := sweep.NewOverdueUpdater(caseStore, logger)

	scheduler := sweep.NewScheduler(loc, logger)
	if err := scheduler.AddJob(
		"notification-sweep", cfg.Notify.SweepSchedule, sweepRunTimeout, sweeper.Run,
	); err != nil {
		return nil, err
	}
	if err := scheduler.AddJob(
		"overdue-update", cfg.Notify.OverdueSchedule, sweepRunTimeout, overdue.Run,
	); err != nil {
		return nil, err
	}

	app := &application{
		config:    cfg,
		logger:    logger,
		db:        db,
		registry:  registry,
		scheduler: scheduler,
	}

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           app.setupRouter(settingsService, notificationService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return app, nil
}

// Run starts the scheduler and the HTTP server, then blocks until a
// termination signal arrives and the graceful shutdown completes.
func (app *application) Run() error {
	app.scheduler.Start()

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("HTTP server starting", "addr", app.server.Addr)
		if err := app.server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed: %w", err)
	case sig := <-stop:
		app.logger.Info("shutdown signal received", "signal", sig.String())
	}

	return app.shutdown()
}

// shutdown stops accepting HTTP traffic, waits for in-flight scheduled runs
// to finish so no sweep is interrupted between dispatch and flag-persist,
// closes the push channels, and releases the database pool.
func (app *application) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("HTTP server shutdown failed", "error", err)
	}

	if err := app.scheduler.Stop(ctx); err != nil {
		app.logger.Error("scheduler shutdown incomplete", "error", err)
	}

	app.registry.CloseAll()

	if err := app.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	app.logger.Info("shutdown complete")
	return nil
}
