package reactive

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// recoverySuccessRuns is the number of consecutive successes, with backoff
// already decayed to zero, required before the failure state fully clears.
const recoverySuccessRuns = 3

// Config contains tuning parameters for the reactive limiter.
// Zero values are replaced with defaults.
type Config struct {
	// InitialBackoff is the first penalty applied after a failure.
	// Default: 1s
	InitialBackoff time.Duration

	// BackoffFactor is the escalation multiplier applied on each
	// further failure.
	// Default: 2.0
	BackoffFactor float64

	// MaxBackoff is the escalation ceiling.
	// Default: 10m
	MaxBackoff time.Duration

	// MaxRetries is the cumulative failure budget. Once spent, Wait
	// refuses permanently until Reset.
	// Default: 10
	MaxRetries int

	// RecoveryFactor is the divisor applied to the backoff on each
	// success.
	// Default: 2.0
	RecoveryFactor float64

	// MinBackoffThreshold is the floor below which a decayed backoff
	// snaps to exactly zero.
	// Default: 10ms
	MinBackoffThreshold time.Duration
}

// applyDefaults fills zero fields with defaults.
func (c *Config) applyDefaults() {
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = time.Second
	}
	if c.BackoffFactor <= 0 {
		c.BackoffFactor = 2.0
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 10 * time.Minute
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 10
	}
	if c.RecoveryFactor <= 0 {
		c.RecoveryFactor = 2.0
	}
	if c.MinBackoffThreshold <= 0 {
		c.MinBackoffThreshold = 10 * time.Millisecond
	}
}

// Status is a point-in-time snapshot of a reactive limiter.
type Status struct {
	Name                 string  `json:"name"`
	RetryCount           int     `json:"retry_count"`
	MaxRetries           int     `json:"max_retries"`
	CurrentBackoff       float64 `json:"current_backoff_seconds"`
	HasHadFailures       bool    `json:"has_had_failures"`
	ConsecutiveSuccesses int     `json:"consecutive_successes"`
}

// Limiter penalizes operations only after observed rejections, escalating
// on repeated failures and decaying gradually on successes. All state is
// in-memory; a restart starts calm.
type Limiter struct {
	name   string
	cfg    Config
	logger *slog.Logger

	mu sync.Mutex

	// currentBackoff is the penalty for the next attempt. Zero means calm.
	currentBackoff time.Duration

	// retryCount is the cumulative failure count since the last full
	// recovery or Reset.
	retryCount int

	// hasHadFailures marks the BACKING_OFF state. It clears only after
	// backoff reaches zero and enough consecutive successes accumulate.
	hasHadFailures bool

	consecutiveSuccesses int

	// Indirection for tests.
	sleep func(time.Duration)
}

// New creates a reactive limiter.
func New(name string, cfg Config) (*Limiter, error) {
	if name == "" {
		return nil, fmt.Errorf("limiter name cannot be empty")
	}
	cfg.applyDefaults()

	return &Limiter{
		name:   name,
		cfg:    cfg,
		logger: slog.Default().With("component", "pacer.reactive", "limiter", name),
		sleep:  time.Sleep,
	}, nil
}

// Wait blocks for the current backoff, if any, before allowing an attempt.
//
// It returns false when the retry budget is spent; the caller must stop
// attempting until Reset. With no failures on record it returns true
// immediately with no delay.
func (l *Limiter) Wait() bool {
	l.mu.Lock()

	if l.retryCount >= l.cfg.MaxRetries {
		l.mu.Unlock()
		return false
	}

	if !l.hasHadFailures {
		l.mu.Unlock()
		return true
	}

	backoff := l.currentBackoff
	l.mu.Unlock()

	if backoff > 0 {
		l.logger.Info("backing off before attempt", "wait", backoff)
		l.sleep(backoff)
	}

	return true
}

// RecordSuccess records a successful attempt. While backing off, each
// success divides the backoff by RecoveryFactor, snapping to zero below
// MinBackoffThreshold. Once the backoff is zero and three consecutive
// successes have accumulated, the failure state clears entirely.
func (l *Limiter) RecordSuccess() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.consecutiveSuccesses++

	if l.hasHadFailures && l.currentBackoff > 0 {
		decayed := time.Duration(float64(l.currentBackoff) / l.cfg.RecoveryFactor)
		if decayed < l.cfg.MinBackoffThreshold {
			decayed = 0
		}
		l.currentBackoff = decayed

		if decayed > 0 {
			l.logger.Debug("reducing backoff", "backoff", decayed)
		}
	}

	if l.hasHadFailures && l.currentBackoff == 0 && l.consecutiveSuccesses >= recoverySuccessRuns {
		l.hasHadFailures = false
		l.retryCount = 0
		l.logger.Debug("backoff fully recovered")
	}
}

// RecordFailure records a rejected attempt: the retry budget shrinks, the
// success streak resets, and the backoff initializes or escalates up to
// MaxBackoff.
func (l *Limiter) RecordFailure() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.hasHadFailures = true
	l.retryCount++
	l.consecutiveSuccesses = 0

	if l.currentBackoff == 0 {
		l.currentBackoff = l.cfg.InitialBackoff
	} else {
		escalated := time.Duration(float64(l.currentBackoff) * l.cfg.BackoffFactor)
		if escalated > l.cfg.MaxBackoff {
			escalated = l.cfg.MaxBackoff
		}
		l.currentBackoff = escalated
	}

	l.logger.Warn("rate limit hit",
		"retry", l.retryCount,
		"max_retries", l.cfg.MaxRetries,
		"backoff", l.currentBackoff,
	)
}

// ExceededMaxRetries reports whether the retry budget is spent.
func (l *Limiter) ExceededMaxRetries() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.retryCount >= l.cfg.MaxRetries
}

// Reset unconditionally clears all runtime state back to calm. It is the
// escape hatch out of the terminal state.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.retryCount = 0
	l.hasHadFailures = false
	l.currentBackoff = 0
	l.consecutiveSuccesses = 0
}

// Status returns a snapshot of the limiter.
func (l *Limiter) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Status{
		Name:                 l.name,
		RetryCount:           l.retryCount,
		MaxRetries:           l.cfg.MaxRetries,
		CurrentBackoff:       l.currentBackoff.Seconds(),
		HasHadFailures:       l.hasHadFailures,
		ConsecutiveSuccesses: l.consecutiveSuccesses,
	}
}

// Name returns the limiter name.
func (l *Limiter) Name() string {
	return l.name
}
