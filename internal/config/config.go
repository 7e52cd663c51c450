// Package config loads and validates the application configuration from
// environment variables and an optional config file.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Notify   NotifyConfig   `mapstructure:"notify"   validate:"required"`
}

// ServerConfig contains all HTTP server related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// SMTPConfig contains the outgoing mail settings. Leaving Host empty
// disables the email delivery path entirely; the sweep then logs and skips
// email sends instead of failing.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"     validate:"omitempty,gt=0,lt=65536"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"     validate:"required_with=Host,omitempty,email"`
}

// Enabled reports whether outgoing mail is configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// NotifyConfig contains the scheduling knobs for the notification engine.
// Schedules are standard 5-field cron expressions evaluated in Timezone.
type NotifyConfig struct {
	SweepSchedule   string `mapstructure:"sweep_schedule"   validate:"required"`
	OverdueSchedule string `mapstructure:"overdue_schedule" validate:"required"`
	Timezone        string `mapstructure:"timezone"         validate:"required"`
	LookaheadHours  int    `mapstructure:"lookahead_hours"  validate:"required,gt=0"`
}
