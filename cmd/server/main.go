// Package main implements the entry point for the CaseTrack API server,
// which runs the task deadline/reminder notification engine: the periodic
// sweep, the daily overdue status projection, the push-channel endpoint, and
// the settings/notification HTTP surface.
package main

import (
	"log"

	"github.com/parkhurst/casetrack-api/internal/config"
	"github.com/parkhurst/casetrack-api/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}
