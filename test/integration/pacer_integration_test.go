//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"cadence-hq/cadence/pkg/config"
	"cadence-hq/cadence/pkg/pacer"
	"cadence-hq/cadence/pkg/pacer/journal"
)

// TestPacerEndToEnd exercises the full stack: YAML configuration, SQLite
// day record storage, limiter construction through the manager, and the
// decision journal.
func TestPacerEndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "cadence.yaml")

	yaml := `
storage:
  backend: sqlite
  sqlite:
    path: ` + filepath.Join(dir, "pacer.db") + `
journal:
  enabled: true
  path: ` + filepath.Join(dir, "journal.db") + `
pacers:
  profiles:
    strategy: proactive
    min_delay: "10ms"
    max_delay: "20ms"
    max_per_day: 5
  messages:
    strategy: reactive
    initial_backoff: "10ms"
    max_retries: 3
`
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := config.LoadConfigWithEnvOverrides(cfgPath)
	if err != nil {
		t.Fatalf("config load failed: %v", err)
	}

	mc, store, err := config.BuildManagerConfig(cfg, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("manager config build failed: %v", err)
	}
	defer store.Close()

	manager, err := pacer.NewManager(mc)
	if err != nil {
		t.Fatalf("manager build failed: %v", err)
	}

	// Exhaust the tiny daily quota
	allowed := 0
	for i := 0; i < 7; i++ {
		if manager.Acquire("profiles") {
			manager.ReportSuccess("profiles")
			allowed++
		}
	}
	if allowed != 5 {
		t.Errorf("expected exactly 5 allowed operations, got %d", allowed)
	}

	// Spend the reactive retry budget
	for i := 0; i < 3; i++ {
		if !manager.Acquire("messages") {
			t.Fatalf("reactive wait %d refused before budget spent", i)
		}
		manager.ReportFailure("messages")
	}
	if manager.Acquire("messages") {
		t.Error("expected terminal refusal after retry budget spent")
	}

	// Close flushes the journal and the day records
	if err := manager.Close(); err != nil {
		t.Fatalf("manager close failed: %v", err)
	}
	if mc.Journal != nil {
		mc.Journal.Close()
	}

	// The journal recorded both kinds of refusals
	ctx := context.Background()
	entries, err := store.Recent(ctx, 100)
	if err != nil {
		t.Fatalf("journal read failed: %v", err)
	}

	decisions := make(map[journal.Decision]int)
	for _, e := range entries {
		decisions[e.Decision]++
	}
	if decisions[journal.DecisionProceed] != 8 {
		t.Errorf("expected 8 proceed entries, got %d", decisions[journal.DecisionProceed])
	}
	if decisions[journal.DecisionQuotaExhausted] != 2 {
		t.Errorf("expected 2 quota refusals, got %d", decisions[journal.DecisionQuotaExhausted])
	}
	if decisions[journal.DecisionTerminal] != 1 {
		t.Errorf("expected 1 terminal refusal, got %d", decisions[journal.DecisionTerminal])
	}

	// The daily counter survives a full restart
	mc2, store2, err := config.BuildManagerConfig(cfg, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("second manager config build failed: %v", err)
	}
	defer store2.Close()

	manager2, err := pacer.NewManager(mc2)
	if err != nil {
		t.Fatalf("second manager build failed: %v", err)
	}
	defer func() {
		manager2.Close()
		if mc2.Journal != nil {
			mc2.Journal.Close()
		}
	}()

	status := manager2.Status()
	if got := status.Proactive["profiles"].OperationsToday; got != 5 {
		t.Errorf("expected 5 operations after restart, got %d", got)
	}
	if manager2.Acquire("profiles") {
		t.Error("expected quota to remain exhausted after restart")
	}
}
