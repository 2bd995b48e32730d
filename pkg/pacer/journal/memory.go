package journal

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store in memory. It is the default when no durable
// journal is configured, and the store of choice in tests.
//
// MemoryStore is thread-safe using sync.RWMutex.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []*Entry
}

// NewMemoryStore creates an empty in-memory journal store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append persists one entry.
func (m *MemoryStore) Append(ctx context.Context, entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *entry
	m.entries = append(m.entries, &copied)
	return nil
}

// Recent returns up to limit entries, newest first.
func (m *MemoryStore) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.entries)
	if limit > n {
		limit = n
	}

	out := make([]*Entry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		copied := *m.entries[i]
		out = append(out, &copied)
	}
	return out, nil
}

// Count returns the number of stored entries.
func (m *MemoryStore) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.entries)), nil
}

// Prune deletes entries older than the cutoff.
func (m *MemoryStore) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.entries[:0]
	var deleted int64
	for _, entry := range m.entries {
		if entry.Timestamp.Before(olderThan) {
			deleted++
			continue
		}
		kept = append(kept, entry)
	}
	m.entries = kept
	return deleted, nil
}

// TrimTo deletes the oldest entries until at most max remain.
func (m *MemoryStore) TrimTo(ctx context.Context, max int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if max < 0 {
		max = 0
	}
	excess := int64(len(m.entries)) - max
	if excess <= 0 {
		return 0, nil
	}
	m.entries = append([]*Entry(nil), m.entries[excess:]...)
	return excess, nil
}

// Close releases resources held by the store.
func (m *MemoryStore) Close() error {
	return nil
}
