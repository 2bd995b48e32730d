package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"cadence-hq/cadence/pkg/pacer/storage"
)

func TestPacerConfigProactiveConversion(t *testing.T) {
	p := PacerConfig{
		Strategy:      "proactive",
		MinDelay:      Duration(30 * time.Second),
		MaxDelay:      Duration(60 * time.Second),
		MaxPerDay:     100,
		NightMode:     true,
		BackoffFactor: 1.5,
		MaxBackoff:    Duration(2 * time.Minute),
	}

	c := p.ProactiveConfig()
	if c.MinDelay != 30*time.Second || c.MaxDelay != 60*time.Second {
		t.Errorf("delay conversion wrong: %v/%v", c.MinDelay, c.MaxDelay)
	}
	if c.MaxPerDay != 100 || !c.NightMode {
		t.Errorf("quota/night conversion wrong: %d/%v", c.MaxPerDay, c.NightMode)
	}
	if c.BackoffFactor != 1.5 || c.MaxBackoff != 2*time.Minute {
		t.Errorf("backoff conversion wrong: %v/%v", c.BackoffFactor, c.MaxBackoff)
	}
}

func TestPacerConfigReactiveConversion(t *testing.T) {
	p := PacerConfig{
		Strategy:            "reactive",
		InitialBackoff:      Duration(2 * time.Second),
		BackoffFactor:       3.0,
		MaxBackoff:          Duration(time.Minute),
		MaxRetries:          5,
		RecoveryFactor:      4.0,
		MinBackoffThreshold: Duration(20 * time.Millisecond),
	}

	c := p.ReactiveConfig()
	if c.InitialBackoff != 2*time.Second || c.MaxBackoff != time.Minute {
		t.Errorf("backoff conversion wrong: %v/%v", c.InitialBackoff, c.MaxBackoff)
	}
	if c.MaxRetries != 5 || c.RecoveryFactor != 4.0 {
		t.Errorf("retry conversion wrong: %d/%v", c.MaxRetries, c.RecoveryFactor)
	}
	if c.MinBackoffThreshold != 20*time.Millisecond {
		t.Errorf("threshold conversion wrong: %v", c.MinBackoffThreshold)
	}
}

func TestBuildBackendMemory(t *testing.T) {
	backend, err := BuildBackend(StorageConfig{Backend: "memory"})
	if err != nil {
		t.Fatalf("BuildBackend failed: %v", err)
	}
	defer backend.Close()

	if _, ok := backend.(*storage.MemoryBackend); !ok {
		t.Errorf("expected memory backend, got %T", backend)
	}
}

func TestBuildBackendFile(t *testing.T) {
	dir := t.TempDir()
	backend, err := BuildBackend(StorageConfig{Backend: "file", Dir: dir})
	if err != nil {
		t.Fatalf("BuildBackend failed: %v", err)
	}
	defer backend.Close()

	if _, ok := backend.(*storage.FileBackend); !ok {
		t.Errorf("expected file backend, got %T", backend)
	}
}

func TestBuildBackendSQLite(t *testing.T) {
	cfg := StorageConfig{
		Backend: "sqlite",
		SQLite: SQLiteStorageConfig{
			Path: filepath.Join(t.TempDir(), "pacer.db"),
		},
	}
	backend, err := BuildBackend(cfg)
	if err != nil {
		t.Fatalf("BuildBackend failed: %v", err)
	}
	if err := backend.Close(); err != nil {
		t.Errorf("close failed: %v", err)
	}
}

func TestBuildBackendUnknown(t *testing.T) {
	if _, err := BuildBackend(StorageConfig{Backend: "redis"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestBuildJournalDisabled(t *testing.T) {
	store, recorder, err := BuildJournal(JournalConfig{Enabled: false})
	if err != nil {
		t.Fatalf("BuildJournal failed: %v", err)
	}
	if store != nil || recorder != nil {
		t.Error("expected nil store and recorder when disabled")
	}
}

func TestBuildManagerConfig(t *testing.T) {
	cfg := &Config{
		Storage: StorageConfig{Backend: "memory"},
		Pacers: map[string]PacerConfig{
			"profiles": {Strategy: "proactive"},
			"messages": {Strategy: "reactive"},
		},
	}
	ApplyDefaults(cfg)

	mc, store, err := BuildManagerConfig(cfg, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("BuildManagerConfig failed: %v", err)
	}
	defer mc.Backend.Close()

	if store != nil {
		t.Error("expected nil journal store when journal disabled")
	}
	if mc.Journal != nil {
		t.Error("expected nil recorder when journal disabled")
	}
	if _, ok := mc.Proactive["profiles"]; !ok {
		t.Error("expected profiles in proactive map")
	}
	if _, ok := mc.Reactive["messages"]; !ok {
		t.Error("expected messages in reactive map")
	}
	if mc.Metrics == nil {
		t.Error("expected metrics to be attached by default")
	}
}

func TestBuildManagerConfigMetricsDisabled(t *testing.T) {
	disabled := false
	cfg := &Config{
		Storage:   StorageConfig{Backend: "memory"},
		Telemetry: TelemetryConfig{Metrics: MetricsConfig{Enabled: &disabled}},
		Pacers: map[string]PacerConfig{
			"profiles": {Strategy: "proactive"},
		},
	}
	ApplyDefaults(cfg)

	mc, _, err := BuildManagerConfig(cfg, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("BuildManagerConfig failed: %v", err)
	}
	defer mc.Backend.Close()

	if mc.Metrics != nil {
		t.Error("expected no metrics when telemetry disables them")
	}
}

func TestBuildManagerConfigWithJournal(t *testing.T) {
	cfg := &Config{
		Storage: StorageConfig{Backend: "memory"},
		Journal: JournalConfig{
			Enabled: true,
			Path:    filepath.Join(t.TempDir(), "journal.db"),
		},
		Pacers: map[string]PacerConfig{
			"profiles": {Strategy: "proactive"},
		},
	}
	ApplyDefaults(cfg)

	mc, store, err := BuildManagerConfig(cfg, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("BuildManagerConfig failed: %v", err)
	}
	defer func() {
		mc.Backend.Close()
		mc.Journal.Close()
		store.Close()
	}()

	if store == nil {
		t.Fatal("expected journal store")
	}
	if mc.Journal == nil {
		t.Fatal("expected journal recorder")
	}
}
