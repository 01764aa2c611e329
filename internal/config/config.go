package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Build modes select the global minimum severity.
const (
	ModeDebug   = "debug"
	ModeRelease = "release"
)

// Config represents the complete application configuration
type Config struct {
	Mode       string           `mapstructure:"mode" yaml:"mode"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	Email      EmailConfig      `mapstructure:"email" yaml:"email"`
	Repository RepositoryConfig `mapstructure:"repository" yaml:"repository"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	// Addr is the listen address (default: ":5000")
	Addr string `mapstructure:"addr" yaml:"addr"`
	// ShutdownTimeout bounds graceful shutdown (default: 10s)
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LoggingConfig controls the log pipeline sinks and filters
type LoggingConfig struct {
	// Dir is where daily log files are written (default: "Logs")
	Dir string `mapstructure:"dir" yaml:"dir"`
	// Console enables the coloured console sink (default: true)
	Console bool `mapstructure:"console" yaml:"console"`
	// Overrides set per-source minimum levels; the longest matching prefix wins
	Overrides []OverrideConfig `mapstructure:"overrides" yaml:"overrides"`
	// EventLog controls the OS system log sink
	EventLog EventLogConfig `mapstructure:"event_log" yaml:"event_log"`
}

// OverrideConfig is one source prefix and its minimum level
type OverrideConfig struct {
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
	Level  string `mapstructure:"level" yaml:"level"`
}

// EventLogConfig controls the syslog / Windows Event Log sink
type EventLogConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	AppName string `mapstructure:"app_name" yaml:"app_name"`
}

// EmailConfig controls the email alert routes
type EmailConfig struct {
	// Enabled turns on both email routes (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// SettingsFile is the JSON file with SMTP connection settings
	SettingsFile string `mapstructure:"settings_file" yaml:"settings_file"`
	// DigestPeriod is how often Warning+ events are mailed as one digest (default: 168h)
	DigestPeriod time.Duration `mapstructure:"digest_period" yaml:"digest_period"`
	// FlushOnShutdown sends the pending digest when the server stops (default: true)
	FlushOnShutdown bool `mapstructure:"flush_on_shutdown" yaml:"flush_on_shutdown"`
}

// RepositoryConfig controls session storage
type RepositoryConfig struct {
	// File persists sessions as JSON; empty keeps them in memory only
	File string `mapstructure:"file" yaml:"file"`
	// Seed adds a sample session when the store starts empty (default: true)
	Seed bool `mapstructure:"seed" yaml:"seed"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Mode: ModeRelease,
		Server: ServerConfig{
			Addr:            ":5000",
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Dir:     "Logs",
			Console: true,
			Overrides: []OverrideConfig{
				{Prefix: "gin", Level: "warning"},
				{Prefix: "net/http", Level: "warning"},
			},
			EventLog: EventLogConfig{
				Enabled: true,
				AppName: "BrainstormSessions",
			},
		},
		Email: EmailConfig{
			Enabled:         true,
			SettingsFile:    "emailsettings.json",
			DigestPeriod:    7 * 24 * time.Hour,
			FlushOnShutdown: true,
		},
		Repository: RepositoryConfig{
			File: "",
			Seed: true,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("mode", defaults.Mode)

	viper.SetDefault("server.addr", defaults.Server.Addr)
	viper.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)

	overrides := make([]map[string]any, 0, len(defaults.Logging.Overrides))
	for _, o := range defaults.Logging.Overrides {
		overrides = append(overrides, map[string]any{"prefix": o.Prefix, "level": o.Level})
	}
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.console", defaults.Logging.Console)
	viper.SetDefault("logging.overrides", overrides)
	viper.SetDefault("logging.event_log.enabled", defaults.Logging.EventLog.Enabled)
	viper.SetDefault("logging.event_log.app_name", defaults.Logging.EventLog.AppName)

	viper.SetDefault("email.enabled", defaults.Email.Enabled)
	viper.SetDefault("email.settings_file", defaults.Email.SettingsFile)
	viper.SetDefault("email.digest_period", defaults.Email.DigestPeriod)
	viper.SetDefault("email.flush_on_shutdown", defaults.Email.FlushOnShutdown)

	viper.SetDefault("repository.file", defaults.Repository.File)
	viper.SetDefault("repository.seed", defaults.Repository.Seed)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// IsDebug reports whether the debug build mode is selected
func (c *Config) IsDebug() bool {
	return c.Mode == ModeDebug
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "brainstorm")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".brainstorm"
	}
	return filepath.Join(home, ".config", "brainstorm")
}
