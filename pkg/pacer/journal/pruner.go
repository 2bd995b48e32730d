package journal

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// PrunerConfig contains configuration for the journal pruner.
type PrunerConfig struct {
	// RetentionDays is the number of days to retain journal entries.
	// 0 means keep entries forever (no age-based pruning).
	RetentionDays int

	// MaxRecords is the maximum number of entries to keep.
	// 0 means unlimited.
	MaxRecords int64

	// PruneSchedule is a cron expression for scheduling pruning.
	// Example: "0 3 * * *" (daily at 3 AM). Empty disables the scheduler.
	PruneSchedule string
}

// DefaultPrunerConfig returns the default retention configuration.
func DefaultPrunerConfig() *PrunerConfig {
	return &PrunerConfig{
		RetentionDays: 30,
		MaxRecords:    0,
		PruneSchedule: "0 3 * * *",
	}
}

// Pruner enforces retention policy on the journal.
type Pruner struct {
	store     Store
	config    *PrunerConfig
	logger    *slog.Logger
	scheduler *Scheduler
}

// NewPruner creates a journal pruner over the given store.
func NewPruner(store Store, config *PrunerConfig) *Pruner {
	if config == nil {
		config = DefaultPrunerConfig()
	}

	pruner := &Pruner{
		store:  store,
		config: config,
		logger: slog.Default().With("component", "pacer.journal.retention"),
	}
	pruner.scheduler = NewScheduler(pruner)

	return pruner
}

// PruneNow applies the retention policy once: first age-based pruning,
// then count-based trimming. Returns the total number of entries deleted.
func (p *Pruner) PruneNow(ctx context.Context) (int64, error) {
	var total int64

	if p.config.RetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -p.config.RetentionDays)
		deleted, err := p.store.Prune(ctx, cutoff)
		if err != nil {
			return total, fmt.Errorf("age-based pruning failed: %w", err)
		}
		total += deleted
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.store.TrimTo(ctx, p.config.MaxRecords)
		if err != nil {
			return total, fmt.Errorf("count-based trimming failed: %w", err)
		}
		total += deleted
	}

	if total > 0 {
		p.logger.Info("journal pruned",
			"deleted", total,
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	}

	return total, nil
}

// Scheduler returns the cron scheduler bound to this pruner.
func (p *Pruner) Scheduler() *Scheduler {
	return p.scheduler
}
