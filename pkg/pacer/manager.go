package pacer

import (
	"fmt"
	"log/slog"
	"time"

	"cadence-hq/cadence/pkg/pacer/journal"
	"cadence-hq/cadence/pkg/pacer/proactive"
	"cadence-hq/cadence/pkg/pacer/reactive"
	"cadence-hq/cadence/pkg/pacer/storage"
)

// Config contains configuration for the pacer manager.
type Config struct {
	// Backend stores the daily records of all proactive limiters.
	// Nil falls back to in-memory storage.
	Backend storage.Backend

	// Proactive maps limiter names to proactive configurations.
	Proactive map[string]proactive.Config

	// Reactive maps limiter names to reactive configurations.
	Reactive map[string]reactive.Config

	// Metrics receives wait and outcome observations. Optional.
	Metrics *Metrics

	// Journal receives one entry per Wait decision. Optional.
	Journal *journal.Recorder
}

// Status is an aggregate snapshot of every limiter the manager owns.
type Status struct {
	Proactive map[string]proactive.Status `json:"proactive"`
	Reactive  map[string]reactive.Status  `json:"reactive"`
}

// Manager owns one limiter per named operation category and routes the
// wait/report cycle through metrics and the decision journal.
//
// The limiter maps are built once at construction and never mutated, so
// lookups need no locking; the limiters themselves are thread-safe.
type Manager struct {
	backend   storage.Backend
	proactive map[string]*proactive.Limiter
	reactive  map[string]*reactive.Limiter
	metrics   *Metrics
	journal   *journal.Recorder
	logger    *slog.Logger
}

// NewManager creates a manager from configuration. Limiter names must be
// unique across both kinds. The manager takes ownership of the backend and
// closes it on Close.
func NewManager(cfg Config) (*Manager, error) {
	backend := cfg.Backend
	if backend == nil {
		backend = storage.NewMemoryBackend()
	}

	m := &Manager{
		backend:   backend,
		proactive: make(map[string]*proactive.Limiter, len(cfg.Proactive)),
		reactive:  make(map[string]*reactive.Limiter, len(cfg.Reactive)),
		metrics:   cfg.Metrics,
		journal:   cfg.Journal,
		logger:    slog.Default().With("component", "pacer.manager"),
	}

	for name, pc := range cfg.Proactive {
		limiter, err := proactive.New(name, backend, pc)
		if err != nil {
			return nil, fmt.Errorf("proactive limiter %q: %w", name, err)
		}
		m.proactive[name] = limiter
	}

	for name, rc := range cfg.Reactive {
		if _, exists := m.proactive[name]; exists {
			return nil, fmt.Errorf("limiter name %q used by both kinds", name)
		}
		limiter, err := reactive.New(name, rc)
		if err != nil {
			return nil, fmt.Errorf("reactive limiter %q: %w", name, err)
		}
		m.reactive[name] = limiter
	}

	m.logger.Info("pacer manager initialized",
		"proactive", len(m.proactive),
		"reactive", len(m.reactive),
	)

	return m, nil
}

// Acquire waits for permission to run one operation in the named category.
// It returns false when the limiter refuses; the refusal is classified,
// counted, and journaled. Unknown names refuse and are logged.
func (m *Manager) Acquire(name string) bool {
	limiter := m.limiter(name)
	if limiter == nil {
		m.logger.Error("acquire on unknown limiter", "limiter", name)
		return false
	}

	start := time.Now()
	allowed := limiter.Wait()
	waited := time.Since(start)

	decision := m.classify(name, allowed)
	m.metrics.RecordWait(name, string(decision), waited)
	m.record(name, decision, waited)

	return allowed
}

// ReportSuccess reports a completed operation in the named category.
func (m *Manager) ReportSuccess(name string) {
	limiter := m.limiter(name)
	if limiter == nil {
		return
	}

	limiter.RecordSuccess()
	m.metrics.RecordOutcome(name, true)
	m.updateGauges(name)
}

// ReportFailure reports a failed operation in the named category.
func (m *Manager) ReportFailure(name string) {
	limiter := m.limiter(name)
	if limiter == nil {
		return
	}

	limiter.RecordFailure()
	m.metrics.RecordOutcome(name, false)
	m.updateGauges(name)
}

// Guard returns a guard bound to the named category. Operations run through
// the guard get the full wait/report cycle including metrics and journal.
func (m *Manager) Guard(name string) (*Guard, error) {
	if m.limiter(name) == nil {
		return nil, fmt.Errorf("unknown limiter %q", name)
	}

	return &Guard{
		name:    name,
		wait:    func() bool { return m.Acquire(name) },
		success: func() { m.ReportSuccess(name) },
		failure: func() { m.ReportFailure(name) },
	}, nil
}

// Proactive returns the named proactive limiter, or nil.
func (m *Manager) Proactive(name string) *proactive.Limiter {
	return m.proactive[name]
}

// Reactive returns the named reactive limiter, or nil.
func (m *Manager) Reactive(name string) *reactive.Limiter {
	return m.reactive[name]
}

// Status returns a snapshot of every limiter.
func (m *Manager) Status() Status {
	status := Status{
		Proactive: make(map[string]proactive.Status, len(m.proactive)),
		Reactive:  make(map[string]reactive.Status, len(m.reactive)),
	}
	for name, limiter := range m.proactive {
		status.Proactive[name] = limiter.Status()
	}
	for name, limiter := range m.reactive {
		status.Reactive[name] = limiter.Status()
	}
	return status
}

// Close releases the storage backend. The journal recorder, if any, is
// owned by the caller and left open.
func (m *Manager) Close() error {
	return m.backend.Close()
}

// limiter returns the named limiter of either kind, or nil.
func (m *Manager) limiter(name string) Limiter {
	if l, ok := m.proactive[name]; ok {
		return l
	}
	if l, ok := m.reactive[name]; ok {
		return l
	}
	return nil
}

// classify maps a Wait result to a journal decision, disambiguating
// refusals from the limiter's own snapshot.
func (m *Manager) classify(name string, allowed bool) journal.Decision {
	if allowed {
		return journal.DecisionProceed
	}

	if limiter, ok := m.proactive[name]; ok {
		status := limiter.Status()
		if status.IsNightTime {
			return journal.DecisionNightWindow
		}
		return journal.DecisionQuotaExhausted
	}
	return journal.DecisionTerminal
}

// record journals one decision, when a journal is configured.
func (m *Manager) record(name string, decision journal.Decision, waited time.Duration) {
	if m.journal == nil {
		return
	}

	entry := &journal.Entry{
		Limiter:  name,
		Decision: decision,
		Waited:   waited,
	}
	if limiter, ok := m.proactive[name]; ok {
		entry.OperationsToday = limiter.OperationsToday()
	}
	m.journal.Record(entry)
}

// updateGauges refreshes the state gauges for one limiter.
func (m *Manager) updateGauges(name string) {
	if m.metrics == nil {
		return
	}

	if limiter, ok := m.proactive[name]; ok {
		status := limiter.Status()
		m.metrics.SetOperationsToday(name, status.OperationsToday)
		m.metrics.SetBackoff(name, status.CurrentBackoff)
		return
	}
	if limiter, ok := m.reactive[name]; ok {
		m.metrics.SetBackoff(name, limiter.Status().CurrentBackoff)
	}
}
