package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryBackend implements Backend using in-memory storage.
// This is the default backend and provides fast access with no persistence.
// All data is lost when the process exits, which degrades the daily quota
// to a per-process quota.
//
// MemoryBackend is thread-safe using sync.RWMutex.
type MemoryBackend struct {
	// records maps limiter name to its stored day record.
	records map[string]*memoryEntry

	// mu protects access to the records map.
	mu sync.RWMutex
}

// memoryEntry pairs a record with its last update time for Cleanup.
type memoryEntry struct {
	rec       *DayRecord
	updatedAt time.Time
}

// NewMemoryBackend creates a new in-memory storage backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		records: make(map[string]*memoryEntry),
	}
}

// Save persists the day record for a limiter name.
func (m *MemoryBackend) Save(ctx context.Context, name string, rec *DayRecord) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if rec == nil {
		return fmt.Errorf("record cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[name] = &memoryEntry{rec: rec.Clone(), updatedAt: time.Now()}
	return nil
}

// Load retrieves the day record for a limiter name.
func (m *MemoryBackend) Load(ctx context.Context, name string) (*DayRecord, error) {
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, exists := m.records[name]
	if !exists {
		return nil, nil
	}

	return entry.rec.Clone(), nil
}

// Delete removes the day record for a limiter name.
func (m *MemoryBackend) Delete(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, name)
	return nil
}

// List returns the names of all stored records.
func (m *MemoryBackend) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.records))
	for name := range m.records {
		names = append(names, name)
	}

	return names, nil
}

// Cleanup removes records not updated since olderThan.
func (m *MemoryBackend) Cleanup(ctx context.Context, olderThan time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for name, entry := range m.records {
		if entry.updatedAt.Before(olderThan) {
			delete(m.records, name)
			deleted++
		}
	}

	return deleted, nil
}

// Close releases any resources held by the backend.
func (m *MemoryBackend) Close() error {
	return nil
}

// Size returns the current number of stored records.
// This is useful for monitoring and testing.
func (m *MemoryBackend) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
