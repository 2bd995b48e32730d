package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "storage.backend").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateStorage(&cfg.Storage)...)
	errs = append(errs, validateJournal(&cfg.Journal)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validatePacers(cfg.Pacers)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

// validateStorage validates the storage section.
func validateStorage(s *StorageConfig) []FieldError {
	var errs []FieldError

	switch s.Backend {
	case "memory", "file", "sqlite":
	default:
		errs = append(errs, FieldError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("invalid backend %q (must be memory, file, or sqlite)", s.Backend),
		})
	}

	if s.Backend == "file" && s.Dir == "" {
		errs = append(errs, FieldError{
			Field:   "storage.dir",
			Message: "directory is required for the file backend",
		})
	}
	if s.Backend == "sqlite" && s.SQLite.Path == "" {
		errs = append(errs, FieldError{
			Field:   "storage.sqlite.path",
			Message: "path is required for the sqlite backend",
		})
	}
	if s.SQLite.BusyTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "storage.sqlite.busy_timeout",
			Message: "must not be negative",
		})
	}

	return errs
}

// validateJournal validates the journal section.
func validateJournal(j *JournalConfig) []FieldError {
	var errs []FieldError

	if !j.Enabled {
		return nil
	}

	if j.Path == "" {
		errs = append(errs, FieldError{
			Field:   "journal.path",
			Message: "path is required when the journal is enabled",
		})
	}
	if j.AsyncBuffer < 0 {
		errs = append(errs, FieldError{
			Field:   "journal.async_buffer",
			Message: "must not be negative",
		})
	}
	if j.RetentionDays < 0 {
		errs = append(errs, FieldError{
			Field:   "journal.retention_days",
			Message: "must not be negative",
		})
	}
	if j.MaxRecords < 0 {
		errs = append(errs, FieldError{
			Field:   "journal.max_records",
			Message: "must not be negative",
		})
	}
	if j.PruneSchedule != "" {
		if _, err := cron.ParseStandard(j.PruneSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "journal.prune_schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	return errs
}

// validateTelemetry validates the telemetry section.
func validateTelemetry(t *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch t.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid level %q (must be debug, info, warn, or error)", t.Logging.Level),
		})
	}

	switch t.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid format %q (must be json or text)", t.Logging.Format),
		})
	}

	return errs
}

// validatePacers validates every named pacer configuration.
func validatePacers(pacers map[string]PacerConfig) []FieldError {
	var errs []FieldError

	for name, pacer := range pacers {
		field := func(f string) string { return fmt.Sprintf("pacers.%s.%s", name, f) }

		if strings.TrimSpace(name) == "" {
			errs = append(errs, FieldError{
				Field:   "pacers",
				Message: "limiter name cannot be empty",
			})
			continue
		}

		switch pacer.Strategy {
		case "proactive":
			if pacer.MinDelay < 0 {
				errs = append(errs, FieldError{Field: field("min_delay"), Message: "must not be negative"})
			}
			if pacer.MaxDelay < pacer.MinDelay {
				errs = append(errs, FieldError{
					Field:   field("max_delay"),
					Message: fmt.Sprintf("must be at least min_delay (%s)", pacer.MinDelay),
				})
			}
			if pacer.MaxPerDay < 1 {
				errs = append(errs, FieldError{Field: field("max_per_day"), Message: "must be at least 1"})
			}
			if pacer.BackoffFactor < 1 {
				errs = append(errs, FieldError{Field: field("backoff_factor"), Message: "must be at least 1"})
			}
		case "reactive":
			if pacer.InitialBackoff <= 0 {
				errs = append(errs, FieldError{Field: field("initial_backoff"), Message: "must be positive"})
			}
			if pacer.BackoffFactor < 1 {
				errs = append(errs, FieldError{Field: field("backoff_factor"), Message: "must be at least 1"})
			}
			if pacer.MaxBackoff < pacer.InitialBackoff {
				errs = append(errs, FieldError{
					Field:   field("max_backoff"),
					Message: fmt.Sprintf("must be at least initial_backoff (%s)", pacer.InitialBackoff),
				})
			}
			if pacer.MaxRetries < 1 {
				errs = append(errs, FieldError{Field: field("max_retries"), Message: "must be at least 1"})
			}
			if pacer.RecoveryFactor <= 1 {
				errs = append(errs, FieldError{Field: field("recovery_factor"), Message: "must be greater than 1"})
			}
		default:
			errs = append(errs, FieldError{
				Field:   field("strategy"),
				Message: fmt.Sprintf("invalid strategy %q (must be proactive or reactive)", pacer.Strategy),
			})
		}
	}

	return errs
}
