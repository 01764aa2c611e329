package config

import (
	"fmt"
	"strings"

	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "email.digest_period")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidModes returns the list of valid build modes
func ValidModes() []string {
	return []string{ModeDebug, ModeRelease}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.Mode != ModeDebug && c.Mode != ModeRelease {
		errors = append(errors, ValidationError{
			Field:   "mode",
			Value:   c.Mode,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidModes(), ", ")),
		})
	}

	if strings.TrimSpace(c.Server.Addr) == "" {
		errors = append(errors, ValidationError{
			Field:   "server.addr",
			Value:   c.Server.Addr,
			Message: "must not be empty",
		})
	}

	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateEmail()...)

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Dir == "" {
		errors = append(errors, ValidationError{
			Field:   "logging.dir",
			Value:   c.Logging.Dir,
			Message: "must not be empty",
		})
	}

	for i, o := range c.Logging.Overrides {
		if o.Prefix == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("logging.overrides[%d].prefix", i),
				Value:   o.Prefix,
				Message: "must not be empty",
			})
		}
		if _, err := model.ParseSeverity(o.Level); err != nil {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("logging.overrides[%d].level", i),
				Value:   o.Level,
				Message: "must be one of: debug, information, warning, error, fatal",
			})
		}
	}

	if c.Logging.EventLog.Enabled && c.Logging.EventLog.AppName == "" {
		errors = append(errors, ValidationError{
			Field:   "logging.event_log.app_name",
			Value:   c.Logging.EventLog.AppName,
			Message: "must not be empty when the event log is enabled",
		})
	}

	return errors
}

// validateEmail validates the EmailConfig
func (c *Config) validateEmail() []ValidationError {
	var errors []ValidationError
	if !c.Email.Enabled {
		return errors
	}

	if c.Email.SettingsFile == "" {
		errors = append(errors, ValidationError{
			Field:   "email.settings_file",
			Value:   c.Email.SettingsFile,
			Message: "must be set when email is enabled",
		})
	}
	if c.Email.DigestPeriod <= 0 {
		errors = append(errors, ValidationError{
			Field:   "email.digest_period",
			Value:   c.Email.DigestPeriod,
			Message: "must be positive",
		})
	}

	return errors
}
