package proactive

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"cadence-hq/cadence/pkg/pacer/storage"
)

// Night window boundaries, minutes after local midnight. The window is a
// policy constant, not configuration: operations paced by this limiter
// should never fire while the account owner is plausibly asleep.
const (
	nightStartMinute   = 30       // 00:30
	morningStartMinute = 7*60 + 30 // 07:30
)

// Config contains tuning parameters for the proactive limiter.
// Zero values are replaced with conservative defaults.
type Config struct {
	// MinDelay is the floor of spacing between operations.
	// Default: 10s
	MinDelay time.Duration

	// MaxDelay is the ceiling for the jitter range. When MaxDelay exceeds
	// the effective base delay, a uniformly random jitter in
	// [0, MaxDelay-base) is added on top of the required wait.
	// Default: 30s
	MaxDelay time.Duration

	// MaxPerDay is the hard daily operation quota.
	// Default: 500
	MaxPerDay int

	// NightMode enables the 00:30-07:30 local-time blackout window.
	// Default: false
	NightMode bool

	// BackoffFactor is the escalation multiplier applied to the current
	// backoff on each recorded failure.
	// Default: 2.0
	BackoffFactor float64

	// MaxBackoff is the escalation ceiling for failure backoff.
	// Default: 5m
	MaxBackoff time.Duration
}

// applyDefaults fills zero fields with defaults.
func (c *Config) applyDefaults() {
	if c.MinDelay <= 0 {
		c.MinDelay = 10 * time.Second
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	if c.MaxPerDay <= 0 {
		c.MaxPerDay = 500
	}
	if c.BackoffFactor <= 0 {
		c.BackoffFactor = 2.0
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 5 * time.Minute
	}
}

// Status is a point-in-time snapshot of a proactive limiter.
type Status struct {
	Name                string  `json:"name"`
	OperationsToday     int     `json:"operations_today"`
	MaxPerDay           int     `json:"max_per_day"`
	RemainingToday      int     `json:"remaining_today"`
	CurrentBackoff      float64 `json:"current_backoff_seconds"`
	ConsecutiveFailures int     `json:"consecutive_failures"`
	NightMode           bool    `json:"night_mode"`
	IsNightTime         bool    `json:"is_night_time"`
}

// Limiter paces operations with a minimum delay, jitter, a persisted daily
// quota, an optional night window, and failure-driven backoff.
//
// Each Limiter owns the day record stored under its name. Two live limiters
// sharing a name would race on that record; run one instance per name.
type Limiter struct {
	name    string
	cfg     Config
	backend storage.Backend
	logger  *slog.Logger

	mu sync.Mutex

	// rec is the in-memory copy of the persisted day record. It is the
	// source of truth between saves; storage failures degrade to this copy.
	rec *storage.DayRecord

	// Runtime failure state. Not persisted: a restart forgets the failure
	// streak but keeps the day's quota consumption.
	consecutiveFailures int
	currentBackoff      time.Duration

	// Indirection for tests.
	now       func() time.Time
	sleep     func(time.Duration)
	randFloat func() float64
}

// New creates a proactive limiter whose day record is stored under name in
// the given backend. A nil backend falls back to in-memory storage, which
// degrades the daily quota to a per-process quota.
//
// The stored record is loaded eagerly; if it belongs to a previous day it is
// reset before first use. Storage errors are logged and the limiter starts
// from a fresh record.
func New(name string, backend storage.Backend, cfg Config) (*Limiter, error) {
	if name == "" {
		return nil, fmt.Errorf("limiter name cannot be empty")
	}
	if backend == nil {
		backend = storage.NewMemoryBackend()
	}
	cfg.applyDefaults()

	l := &Limiter{
		name:           name,
		cfg:            cfg,
		backend:        backend,
		logger:         slog.Default().With("component", "pacer.proactive", "limiter", name),
		currentBackoff: cfg.MinDelay,
		now:            time.Now,
		sleep:          time.Sleep,
		randFloat:      rand.Float64,
	}

	l.mu.Lock()
	l.loadLocked()
	l.mu.Unlock()

	return l, nil
}

// Wait blocks until the next operation is allowed to run.
//
// It returns false immediately, without sleeping, when the daily quota is
// exhausted or the night window is active. Otherwise it sleeps for the
// required spacing (shortfall to the base delay plus jitter) and returns
// true. The first operation of a day record incurs no wait.
func (l *Limiter) Wait() bool {
	l.mu.Lock()

	l.rolloverLocked()

	now := l.now()
	if l.cfg.NightMode && isNightTime(now) {
		l.mu.Unlock()
		l.logger.Warn("night window active, operations paused until 07:30")
		return false
	}

	if l.rec.OperationsCount >= l.cfg.MaxPerDay {
		count := l.rec.OperationsCount
		l.mu.Unlock()
		l.logger.Warn("daily limit reached",
			"operations", count,
			"max_per_day", l.cfg.MaxPerDay,
		)
		return false
	}

	// Base spacing is the configured floor, raised by any failure backoff.
	base := l.cfg.MinDelay
	if l.currentBackoff > base {
		base = l.currentBackoff
	}

	var wait time.Duration
	if l.rec.LastOperationTime != nil {
		elapsed := time.Duration((epochSeconds(now) - *l.rec.LastOperationTime) * float64(time.Second))
		if elapsed < base {
			wait = base - elapsed
			if l.cfg.MaxDelay > base {
				wait += time.Duration(l.randFloat() * float64(l.cfg.MaxDelay-base))
			}
		}
	}
	operations := l.rec.OperationsCount

	l.mu.Unlock()

	if wait > 0 {
		l.logger.Info("pacing operation",
			"wait", wait.Round(100*time.Millisecond),
			"operations", operations,
			"max_per_day", l.cfg.MaxPerDay,
		)
		l.sleep(wait)
	}

	return true
}

// RecordSuccess records a completed operation: it consumes one unit of the
// daily quota, stamps the operation time, and fully resets failure backoff.
func (l *Limiter) RecordSuccess() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rolloverLocked()

	l.consecutiveFailures = 0
	l.currentBackoff = l.cfg.MinDelay

	ts := epochSeconds(l.now())
	l.rec.LastOperationTime = &ts
	l.rec.OperationsCount++
	l.persistLocked()

	l.logger.Debug("operation recorded",
		"operations", l.rec.OperationsCount,
		"max_per_day", l.cfg.MaxPerDay,
	)
}

// RecordFailure records a failed operation: the failure streak grows, the
// backoff escalates geometrically up to MaxBackoff, and the operation time
// is stamped. Failures do not consume the daily quota.
func (l *Limiter) RecordFailure() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rolloverLocked()

	l.consecutiveFailures++

	escalated := time.Duration(float64(l.currentBackoff) * l.cfg.BackoffFactor)
	if escalated > l.cfg.MaxBackoff {
		escalated = l.cfg.MaxBackoff
	}
	l.currentBackoff = escalated

	ts := epochSeconds(l.now())
	l.rec.LastOperationTime = &ts
	l.persistLocked()

	l.logger.Warn("operation failed",
		"consecutive_failures", l.consecutiveFailures,
		"next_backoff", l.currentBackoff,
	)
}

// RemainingToday returns how many operations are still allowed today.
func (l *Limiter) RemainingToday() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rolloverLocked()

	remaining := l.cfg.MaxPerDay - l.rec.OperationsCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// OperationsToday returns how many operations were recorded today.
func (l *Limiter) OperationsToday() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rolloverLocked()

	return l.rec.OperationsCount
}

// Status returns a snapshot of the limiter.
func (l *Limiter) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rolloverLocked()

	remaining := l.cfg.MaxPerDay - l.rec.OperationsCount
	if remaining < 0 {
		remaining = 0
	}

	return Status{
		Name:                l.name,
		OperationsToday:     l.rec.OperationsCount,
		MaxPerDay:           l.cfg.MaxPerDay,
		RemainingToday:      remaining,
		CurrentBackoff:      l.currentBackoff.Seconds(),
		ConsecutiveFailures: l.consecutiveFailures,
		NightMode:           l.cfg.NightMode,
		IsNightTime:         l.cfg.NightMode && isNightTime(l.now()),
	}
}

// Name returns the limiter name, which is also its storage key.
func (l *Limiter) Name() string {
	return l.name
}

// loadLocked initializes the in-memory record from storage, resetting it if
// it belongs to a previous day. Storage failures degrade to a fresh record.
func (l *Limiter) loadLocked() {
	today := l.today()

	rec, err := l.backend.Load(context.Background(), l.name)
	if err != nil {
		l.logger.Error("failed to load pacing record, assuming fresh day", "error", err)
		l.rec = storage.NewDayRecord(today)
		return
	}

	if rec.IsFor(today) {
		l.rec = rec
		return
	}

	l.rec = storage.NewDayRecord(today)
	l.persistLocked()
}

// rolloverLocked resets the day record if the calendar date has changed
// since it was written. The quota window is anchored at local midnight.
func (l *Limiter) rolloverLocked() {
	today := l.today()
	if l.rec.IsFor(today) {
		return
	}

	l.rec = storage.NewDayRecord(today)
	l.persistLocked()
}

// persistLocked saves the in-memory record. Failures are logged and
// swallowed: the limiter keeps operating on its in-memory copy.
func (l *Limiter) persistLocked() {
	if err := l.backend.Save(context.Background(), l.name, l.rec); err != nil {
		l.logger.Error("failed to save pacing record", "error", err)
	}
}

// today returns the current local calendar date in ISO-8601 form.
func (l *Limiter) today() string {
	return l.now().Format("2006-01-02")
}

// isNightTime reports whether t falls inside the [00:30, 07:30) local window.
func isNightTime(t time.Time) bool {
	minute := t.Hour()*60 + t.Minute()
	return minute >= nightStartMinute && minute < morningStartMinute
}

// epochSeconds converts t to floating-point seconds since the epoch, the
// representation used by the persisted record.
func epochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
