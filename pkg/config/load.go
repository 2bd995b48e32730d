package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention CADENCE_SECTION_FIELD (e.g., CADENCE_STORAGE_BACKEND).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format CADENCE_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Storage overrides
	if val := os.Getenv("CADENCE_STORAGE_BACKEND"); val != "" {
		cfg.Storage.Backend = val
	}
	if val := os.Getenv("CADENCE_STORAGE_DIR"); val != "" {
		cfg.Storage.Dir = val
	}
	if val := os.Getenv("CADENCE_STORAGE_SQLITE_PATH"); val != "" {
		cfg.Storage.SQLite.Path = val
	}
	if val := os.Getenv("CADENCE_STORAGE_SQLITE_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Storage.SQLite.BusyTimeout = Duration(d)
		}
	}

	// Journal overrides
	if val := os.Getenv("CADENCE_JOURNAL_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Journal.Enabled = b
		}
	}
	if val := os.Getenv("CADENCE_JOURNAL_PATH"); val != "" {
		cfg.Journal.Path = val
	}
	if val := os.Getenv("CADENCE_JOURNAL_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Journal.RetentionDays = i
		}
	}
	if val := os.Getenv("CADENCE_JOURNAL_MAX_RECORDS"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Journal.MaxRecords = i
		}
	}
	if val := os.Getenv("CADENCE_JOURNAL_PRUNE_SCHEDULE"); val != "" {
		cfg.Journal.PruneSchedule = val
	}

	// Telemetry overrides
	if val := os.Getenv("CADENCE_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("CADENCE_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("CADENCE_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = &b
		}
	}

	// Pacer overrides for every configured limiter
	for name := range cfg.Pacers {
		applyPacerEnvOverrides(cfg, name)
	}
}

// applyPacerEnvOverrides applies environment variable overrides for a single
// named pacer. Pacer environment variables follow the format
// CADENCE_PACERS_<NAME>_<FIELD> where NAME is the uppercase limiter name with
// dashes mapped to underscores.
func applyPacerEnvOverrides(cfg *Config, name string) {
	pacer := cfg.Pacers[name]

	envName := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	prefix := fmt.Sprintf("CADENCE_PACERS_%s_", envName)

	modified := false

	if val := os.Getenv(prefix + "MIN_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			pacer.MinDelay = Duration(d)
			modified = true
		}
	}
	if val := os.Getenv(prefix + "MAX_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			pacer.MaxDelay = Duration(d)
			modified = true
		}
	}
	if val := os.Getenv(prefix + "MAX_PER_DAY"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			pacer.MaxPerDay = i
			modified = true
		}
	}
	if val := os.Getenv(prefix + "NIGHT_MODE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			pacer.NightMode = b
			modified = true
		}
	}
	if val := os.Getenv(prefix + "INITIAL_BACKOFF"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			pacer.InitialBackoff = Duration(d)
			modified = true
		}
	}
	if val := os.Getenv(prefix + "BACKOFF_FACTOR"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			pacer.BackoffFactor = f
			modified = true
		}
	}
	if val := os.Getenv(prefix + "MAX_BACKOFF"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			pacer.MaxBackoff = Duration(d)
			modified = true
		}
	}
	if val := os.Getenv(prefix + "MAX_RETRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			pacer.MaxRetries = i
			modified = true
		}
	}

	if modified {
		cfg.Pacers[name] = pacer
	}
}
