package config

import "time"

// Default values for configuration fields.
const (
	// Storage defaults
	DefaultStorageBackend            = "file"
	DefaultStorageDir                = "data/pacer"
	DefaultStorageSQLitePath         = "data/pacer.db"
	DefaultStorageSQLiteBusyTimeout  = Duration(5 * time.Second)
	DefaultStorageSQLiteCheckpoint   = Duration(5 * time.Minute)

	// Journal defaults
	DefaultJournalEnabled       = false
	DefaultJournalPath          = "data/journal.db"
	DefaultJournalAsyncBuffer   = 1000
	DefaultJournalRetentionDays = 30
	DefaultJournalMaxRecords    = int64(0)
	DefaultJournalPruneSchedule = "0 3 * * *"

	// Telemetry defaults
	DefaultLoggingLevel   = "info"
	DefaultLoggingFormat  = "json"
	DefaultMetricsEnabled = true

	// Pacer defaults
	DefaultPacerStrategy            = "proactive"
	DefaultPacerMinDelay            = Duration(10 * time.Second)
	DefaultPacerMaxDelay            = Duration(30 * time.Second)
	DefaultPacerMaxPerDay           = 500
	DefaultPacerBackoffFactor       = 2.0
	DefaultProactiveMaxBackoff      = Duration(5 * time.Minute)
	DefaultReactiveInitialBackoff   = Duration(time.Second)
	DefaultReactiveMaxBackoff       = Duration(10 * time.Minute)
	DefaultReactiveMaxRetries       = 10
	DefaultReactiveRecoveryFactor   = 2.0
	DefaultReactiveMinBackoffThresh = Duration(10 * time.Millisecond)
)

// ApplyDefaults fills in default values for any unset configuration fields.
// It modifies the configuration in place.
func ApplyDefaults(cfg *Config) {
	// Storage defaults
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultStorageBackend
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = DefaultStorageDir
	}
	if cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = DefaultStorageSQLitePath
	}
	if cfg.Storage.SQLite.BusyTimeout == 0 {
		cfg.Storage.SQLite.BusyTimeout = DefaultStorageSQLiteBusyTimeout
	}
	if cfg.Storage.SQLite.CheckpointInterval == 0 {
		cfg.Storage.SQLite.CheckpointInterval = DefaultStorageSQLiteCheckpoint
	}

	// Journal defaults
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = DefaultJournalPath
	}
	if cfg.Journal.AsyncBuffer == 0 {
		cfg.Journal.AsyncBuffer = DefaultJournalAsyncBuffer
	}
	if cfg.Journal.RetentionDays == 0 {
		cfg.Journal.RetentionDays = DefaultJournalRetentionDays
	}
	if cfg.Journal.PruneSchedule == "" {
		cfg.Journal.PruneSchedule = DefaultJournalPruneSchedule
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Enabled == nil {
		enabled := DefaultMetricsEnabled
		cfg.Telemetry.Metrics.Enabled = &enabled
	}

	// Pacer defaults
	for name, pacer := range cfg.Pacers {
		applyPacerDefaults(&pacer)
		cfg.Pacers[name] = pacer
	}
}

// applyPacerDefaults fills zero fields of a single pacer configuration.
func applyPacerDefaults(p *PacerConfig) {
	if p.Strategy == "" {
		p.Strategy = DefaultPacerStrategy
	}

	switch p.Strategy {
	case "proactive":
		if p.MinDelay == 0 {
			p.MinDelay = DefaultPacerMinDelay
		}
		if p.MaxDelay == 0 {
			p.MaxDelay = DefaultPacerMaxDelay
		}
		if p.MaxPerDay == 0 {
			p.MaxPerDay = DefaultPacerMaxPerDay
		}
		if p.BackoffFactor == 0 {
			p.BackoffFactor = DefaultPacerBackoffFactor
		}
		if p.MaxBackoff == 0 {
			p.MaxBackoff = DefaultProactiveMaxBackoff
		}
	case "reactive":
		if p.InitialBackoff == 0 {
			p.InitialBackoff = DefaultReactiveInitialBackoff
		}
		if p.BackoffFactor == 0 {
			p.BackoffFactor = DefaultPacerBackoffFactor
		}
		if p.MaxBackoff == 0 {
			p.MaxBackoff = DefaultReactiveMaxBackoff
		}
		if p.MaxRetries == 0 {
			p.MaxRetries = DefaultReactiveMaxRetries
		}
		if p.RecoveryFactor == 0 {
			p.RecoveryFactor = DefaultReactiveRecoveryFactor
		}
		if p.MinBackoffThreshold == 0 {
			p.MinBackoffThreshold = DefaultReactiveMinBackoffThresh
		}
	}
}
