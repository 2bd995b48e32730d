package storage

import (
	"context"
	"time"
)

// Backend defines the interface for daily pacing state persistence.
// Implementations must be thread-safe and support concurrent access.
type Backend interface {
	// Load retrieves the day record for a limiter name.
	// Returns nil if no record exists. Returns error on system failure.
	Load(ctx context.Context, name string) (*DayRecord, error)

	// Save persists the day record for a limiter name.
	// If a record already exists, it is replaced. Returns error on failure.
	Save(ctx context.Context, name string, rec *DayRecord) error

	// Delete removes the day record for a limiter name.
	// No-op if the record doesn't exist.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored records.
	List(ctx context.Context) ([]string, error)

	// Cleanup removes records not updated since olderThan.
	// Returns the number of records deleted and any error.
	Cleanup(ctx context.Context, olderThan time.Time) (int, error)

	// Close releases any resources held by the backend.
	// The backend should not be used after calling Close.
	Close() error
}

// DayRecord is the persisted daily state for a single limiter name.
//
// The JSON field names are the on-disk wire format of the file backend and
// must not change: existing deployments carry these documents across restarts.
type DayRecord struct {
	// Date is the calendar date the counters apply to, ISO-8601 (YYYY-MM-DD).
	Date string `json:"date"`

	// OperationsCount is the number of operations recorded since midnight.
	OperationsCount int `json:"operations_count"`

	// LastOperationTime is the epoch time in seconds of the most recent
	// recorded operation (success or failure). Nil if none yet today.
	LastOperationTime *float64 `json:"last_operation_time"`
}

// NewDayRecord returns a fresh record for the given ISO date with zero
// counters and no recorded operation.
func NewDayRecord(date string) *DayRecord {
	return &DayRecord{Date: date}
}

// IsFor reports whether the record's counters apply to the given ISO date.
func (r *DayRecord) IsFor(date string) bool {
	return r != nil && r.Date == date
}

// Clone returns a deep copy of the record.
func (r *DayRecord) Clone() *DayRecord {
	if r == nil {
		return nil
	}
	out := *r
	if r.LastOperationTime != nil {
		t := *r.LastOperationTime
		out.LastOperationTime = &t
	}
	return &out
}
