package config

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"cadence-hq/cadence/pkg/pacer"
	"cadence-hq/cadence/pkg/pacer/journal"
	"cadence-hq/cadence/pkg/pacer/proactive"
	"cadence-hq/cadence/pkg/pacer/reactive"
	"cadence-hq/cadence/pkg/pacer/storage"
)

// ProactiveConfig converts the pacer section into a proactive limiter
// configuration. Only meaningful when Strategy is "proactive".
func (p PacerConfig) ProactiveConfig() proactive.Config {
	return proactive.Config{
		MinDelay:      p.MinDelay.Std(),
		MaxDelay:      p.MaxDelay.Std(),
		MaxPerDay:     p.MaxPerDay,
		NightMode:     p.NightMode,
		BackoffFactor: p.BackoffFactor,
		MaxBackoff:    p.MaxBackoff.Std(),
	}
}

// ReactiveConfig converts the pacer section into a reactive limiter
// configuration. Only meaningful when Strategy is "reactive".
func (p PacerConfig) ReactiveConfig() reactive.Config {
	return reactive.Config{
		InitialBackoff:      p.InitialBackoff.Std(),
		BackoffFactor:       p.BackoffFactor,
		MaxBackoff:          p.MaxBackoff.Std(),
		MaxRetries:          p.MaxRetries,
		RecoveryFactor:      p.RecoveryFactor,
		MinBackoffThreshold: p.MinBackoffThreshold.Std(),
	}
}

// BuildBackend creates the day record storage backend described by the
// storage section. The caller owns the returned backend and must close it.
func BuildBackend(s StorageConfig) (storage.Backend, error) {
	switch s.Backend {
	case "memory":
		return storage.NewMemoryBackend(), nil
	case "file":
		return storage.NewFileBackend(s.Dir)
	case "sqlite":
		return storage.NewSQLiteBackendWithConfig(storage.SQLiteBackendConfig{
			DBPath:             s.SQLite.Path,
			BusyTimeout:        s.SQLite.BusyTimeout.Std(),
			CheckpointInterval: s.SQLite.CheckpointInterval.Std(),
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", s.Backend)
	}
}

// BuildJournal creates the journal store and recorder described by the
// journal section. It returns nil values when the journal is disabled.
// The caller owns both: close the recorder first to flush buffered
// entries, then the store.
func BuildJournal(j JournalConfig) (journal.Store, *journal.Recorder, error) {
	if !j.Enabled {
		return nil, nil, nil
	}

	store, err := journal.NewSQLiteStore(j.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open journal store: %w", err)
	}

	recorder := journal.NewRecorder(store, &journal.RecorderConfig{
		AsyncBuffer: j.AsyncBuffer,
	})
	return store, recorder, nil
}

// BuildManagerConfig assembles the full pacer manager configuration: the
// storage backend, the per-strategy limiter configurations, metrics when
// the telemetry section enables them, and the journal recorder when
// enabled. Metrics are registered on reg; a nil reg falls back to the
// Prometheus default registerer.
// The returned store is nil when the journal is disabled; the caller closes
// the recorder first, then the store. The manager closes the backend.
func BuildManagerConfig(cfg *Config, reg prometheus.Registerer) (pacer.Config, journal.Store, error) {
	backend, err := BuildBackend(cfg.Storage)
	if err != nil {
		return pacer.Config{}, nil, err
	}

	mc := pacer.Config{
		Backend:   backend,
		Proactive: make(map[string]proactive.Config),
		Reactive:  make(map[string]reactive.Config),
	}
	if cfg.Telemetry.Metrics.IsEnabled() {
		mc.Metrics = pacer.NewMetrics(reg)
	}

	for name, p := range cfg.Pacers {
		switch p.Strategy {
		case "proactive":
			mc.Proactive[name] = p.ProactiveConfig()
		case "reactive":
			mc.Reactive[name] = p.ReactiveConfig()
		default:
			backend.Close()
			return pacer.Config{}, nil, fmt.Errorf("pacer %q: unknown strategy %q", name, p.Strategy)
		}
	}

	store, recorder, err := BuildJournal(cfg.Journal)
	if err != nil {
		backend.Close()
		return pacer.Config{}, nil, err
	}
	mc.Journal = recorder

	return mc, store, nil
}
