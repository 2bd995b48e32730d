package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Cadence.
// It contains all configuration sections for storage, the decision
// journal, telemetry, and the named pacer limiters.
type Config struct {
	// Storage configures where proactive limiters persist their
	// daily operation records.
	Storage StorageConfig `yaml:"storage"`

	// Journal configures the pacing decision journal.
	Journal JournalConfig `yaml:"journal"`

	// Telemetry contains configuration for observability.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Pacers contains configuration for all named limiters.
	// Keys are limiter names (e.g., "profiles", "search", "messages").
	Pacers map[string]PacerConfig `yaml:"pacers"`
}

// Duration is a time.Duration that unmarshals from YAML strings like
// "30s" or "5m". Bare numbers are interpreted as seconds.
type Duration time.Duration

// Std returns the value as a standard time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// String returns the value in time.Duration notation.
func (d Duration) String() string { return time.Duration(d).String() }

// UnmarshalYAML decodes either a duration string or a number of seconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, perr := time.ParseDuration(s)
		if perr != nil {
			return fmt.Errorf("invalid duration %q: %w", s, perr)
		}
		*d = Duration(parsed)
		return nil
	}

	var seconds float64
	if err := value.Decode(&seconds); err == nil {
		*d = Duration(time.Duration(seconds * float64(time.Second)))
		return nil
	}

	return fmt.Errorf("invalid duration value %q", value.Value)
}

// MarshalYAML encodes the duration in time.Duration notation.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// StorageConfig configures the day record storage backend.
type StorageConfig struct {
	// Backend specifies the storage backend to use.
	// Options: "memory", "file", "sqlite"
	// Default: "file"
	Backend string `yaml:"backend"`

	// Dir is the directory for the file backend. One JSON document
	// is written per limiter.
	// Default: "data/pacer"
	Dir string `yaml:"dir"`

	// SQLite contains SQLite-specific configuration.
	SQLite SQLiteStorageConfig `yaml:"sqlite"`
}

// SQLiteStorageConfig contains SQLite day record storage configuration.
type SQLiteStorageConfig struct {
	// Path is the path to the SQLite database file.
	// Default: "data/pacer.db"
	Path string `yaml:"path"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout Duration `yaml:"busy_timeout"`

	// CheckpointInterval is how often to checkpoint the WAL.
	// Default: 5m
	CheckpointInterval Duration `yaml:"checkpoint_interval"`
}

// JournalConfig configures the pacing decision journal.
type JournalConfig struct {
	// Enabled controls whether decision journaling is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Path is the path to the journal SQLite database file.
	// Default: "data/journal.db"
	Path string `yaml:"path"`

	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`

	// RetentionDays is the number of days to retain journal entries.
	// 0 means keep entries forever.
	// Default: 30
	RetentionDays int `yaml:"retention_days"`

	// MaxRecords is the maximum number of entries to keep.
	// 0 means unlimited.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`

	// PruneSchedule is a cron expression for scheduling pruning.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether Prometheus metrics are registered.
	// A pointer so that an absent key can default to true.
	// Default: true
	Enabled *bool `yaml:"enabled"`
}

// IsEnabled reports whether metrics collection is on. An unset field
// counts as enabled.
func (m MetricsConfig) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// PacerConfig contains configuration for a single named limiter.
// Strategy selects which knobs apply; unknown knobs for the chosen
// strategy are rejected by validation.
type PacerConfig struct {
	// Strategy selects the limiter kind.
	// Options: "proactive" (scheduled spacing with a daily quota),
	// "reactive" (escalate only after observed failures)
	// Default: "proactive"
	Strategy string `yaml:"strategy"`

	// MinDelay is the floor of spacing between operations (proactive).
	// Default: 10s
	MinDelay Duration `yaml:"min_delay"`

	// MaxDelay is the jitter ceiling (proactive).
	// Default: 30s
	MaxDelay Duration `yaml:"max_delay"`

	// MaxPerDay is the hard daily operation quota (proactive).
	// Default: 500
	MaxPerDay int `yaml:"max_per_day"`

	// NightMode enables the 00:30-07:30 local-time blackout window
	// (proactive).
	// Default: false
	NightMode bool `yaml:"night_mode"`

	// InitialBackoff is the first penalty after a failure (reactive).
	// Default: 1s
	InitialBackoff Duration `yaml:"initial_backoff"`

	// BackoffFactor is the escalation multiplier applied on each
	// failure (both strategies).
	// Default: 2.0
	BackoffFactor float64 `yaml:"backoff_factor"`

	// MaxBackoff is the escalation ceiling (both strategies).
	// Default: 5m proactive, 10m reactive
	MaxBackoff Duration `yaml:"max_backoff"`

	// MaxRetries is the cumulative failure budget before the limiter
	// refuses permanently (reactive).
	// Default: 10
	MaxRetries int `yaml:"max_retries"`

	// RecoveryFactor is the divisor applied to the backoff on each
	// success (reactive).
	// Default: 2.0
	RecoveryFactor float64 `yaml:"recovery_factor"`

	// MinBackoffThreshold is the floor below which a decayed backoff
	// snaps to zero (reactive).
	// Default: 10ms
	MinBackoffThreshold Duration `yaml:"min_backoff_threshold"`
}
