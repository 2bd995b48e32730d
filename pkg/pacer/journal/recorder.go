package journal

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RecorderConfig contains configuration for the journal recorder.
type RecorderConfig struct {
	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int

	// WriteTimeout is the timeout for writing an entry to the store.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultRecorderConfig returns the default recorder configuration.
func DefaultRecorderConfig() *RecorderConfig {
	return &RecorderConfig{
		AsyncBuffer:  1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder appends pacing decisions to a Store asynchronously, so callers
// on the pacing hot path never block on journal I/O. When the buffer is
// full, entries are dropped and counted rather than blocking.
type Recorder struct {
	store     Store
	config    *RecorderConfig
	entryChan chan *Entry
	wg        sync.WaitGroup
	closeOnce sync.Once
	logger    *slog.Logger

	mu      sync.Mutex
	closed  bool
	dropped int64
}

// NewRecorder creates a journal recorder over the given store.
func NewRecorder(store Store, config *RecorderConfig) *Recorder {
	if config == nil {
		config = DefaultRecorderConfig()
	}
	if config.AsyncBuffer <= 0 {
		config.AsyncBuffer = 1000
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}

	r := &Recorder{
		store:     store,
		config:    config,
		entryChan: make(chan *Entry, config.AsyncBuffer),
		logger:    slog.Default().With("component", "pacer.journal"),
	}

	r.wg.Add(1)
	go r.worker()

	return r
}

// Record queues one entry for persistence. A zero ID or Timestamp is
// assigned here so callers only fill in what they know.
func (r *Recorder) Record(entry *Entry) {
	if entry == nil {
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	select {
	case r.entryChan <- entry:
	default:
		r.dropped++
		r.logger.Warn("journal buffer full, entry dropped", "dropped_total", r.dropped)
	}
}

// Dropped returns how many entries were discarded due to a full buffer.
func (r *Recorder) Dropped() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Close drains pending entries and stops the background worker.
// The underlying store is not closed.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()

		close(r.entryChan)
		r.wg.Wait()
	})
	return nil
}

// worker drains the entry channel into the store.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for entry := range r.entryChan {
		ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
		if err := r.store.Append(ctx, entry); err != nil {
			r.logger.Error("failed to append journal entry",
				"limiter", entry.Limiter,
				"error", err,
			)
		}
		cancel()
	}
}
