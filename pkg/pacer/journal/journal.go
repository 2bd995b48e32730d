package journal

import (
	"context"
	"time"
)

// Decision classifies the outcome of a single Wait call.
type Decision string

const (
	// DecisionProceed means the operation was allowed to run.
	DecisionProceed Decision = "proceed"

	// DecisionQuotaExhausted means the daily quota refused the operation.
	DecisionQuotaExhausted Decision = "quota_exhausted"

	// DecisionNightWindow means the night blackout window refused the operation.
	DecisionNightWindow Decision = "night_window"

	// DecisionTerminal means the reactive retry budget refused the operation.
	DecisionTerminal Decision = "terminal"
)

// Entry is one journaled pacing decision.
type Entry struct {
	// ID is a unique identifier, assigned by the Recorder if empty.
	ID string `json:"id"`

	// Limiter is the name of the limiter that made the decision.
	Limiter string `json:"limiter"`

	// Decision is the Wait outcome.
	Decision Decision `json:"decision"`

	// Waited is the imposed delay before the operation was allowed.
	// Zero for refusals and unpaced operations.
	Waited time.Duration `json:"waited"`

	// OperationsToday is the daily counter at decision time, where the
	// limiter keeps one (proactive only, otherwise zero).
	OperationsToday int `json:"operations_today"`

	// Timestamp is when the decision was made. Assigned by the Recorder
	// if zero.
	Timestamp time.Time `json:"timestamp"`
}

// Store persists journal entries. Implementations must be thread-safe.
type Store interface {
	// Append persists one entry.
	Append(ctx context.Context, entry *Entry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]*Entry, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int64, error)

	// Prune deletes entries older than the cutoff, returning how many
	// were deleted.
	Prune(ctx context.Context, olderThan time.Time) (int64, error)

	// TrimTo deletes the oldest entries until at most max remain,
	// returning how many were deleted.
	TrimTo(ctx context.Context, max int64) (int64, error)

	// Close releases resources held by the store.
	Close() error
}
