package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkhurst/casetrack-api/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("CASETRACK_DATABASE_URL", "postgres://localhost:5432/casetrack")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "info", cfg.Server.LogLevel)
		assert.Equal(t, "* * * * *", cfg.Notify.SweepSchedule)
		assert.Equal(t, "0 0 * * *", cfg.Notify.OverdueSchedule)
		assert.Equal(t, "Local", cfg.Notify.Timezone)
		assert.Equal(t, 24, cfg.Notify.LookaheadHours)
		assert.Equal(t, 587, cfg.SMTP.Port)
		assert.False(t, cfg.SMTP.Enabled())
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		t.Setenv("CASETRACK_DATABASE_URL", "postgres://localhost:5432/casetrack")
		t.Setenv("CASETRACK_SERVER_PORT", "9090")
		t.Setenv("CASETRACK_SERVER_LOG_LEVEL", "debug")
		t.Setenv("CASETRACK_NOTIFY_LOOKAHEAD_HOURS", "48")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Server.LogLevel)
		assert.Equal(t, 48, cfg.Notify.LookaheadHours)
	})

	t.Run("requires a database url", func(t *testing.T) {
		t.Setenv("CASETRACK_DATABASE_URL", "")

		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("rejects an unknown log level", func(t *testing.T) {
		t.Setenv("CASETRACK_DATABASE_URL", "postgres://localhost:5432/casetrack")
		t.Setenv("CASETRACK_SERVER_LOG_LEVEL", "verbose")

		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("configuring smtp requires a from address", func(t *testing.T) {
		t.Setenv("CASETRACK_DATABASE_URL", "postgres://localhost:5432/casetrack")
		t.Setenv("CASETRACK_SMTP_HOST", "smtp.example.test")

		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("accepts a full smtp configuration", func(t *testing.T) {
		t.Setenv("CASETRACK_DATABASE_URL", "postgres://localhost:5432/casetrack")
		t.Setenv("CASETRACK_SMTP_HOST", "smtp.example.test")
		t.Setenv("CASETRACK_SMTP_FROM", "noreply@example.test")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.True(t, cfg.SMTP.Enabled())
		assert.Equal(t, "smtp.example.test", cfg.SMTP.Host)
		assert.Equal(t, "noreply@example.test", cfg.SMTP.From)
	})
}
