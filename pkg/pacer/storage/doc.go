// Package storage provides persistence backends for daily pacing state.
//
// # Overview
//
// The storage package defines the interface for persisting the daily
// operation counters used by the proactive pacer and provides multiple
// implementations:
//
//   - Memory: Fast in-memory storage (default, no persistence)
//   - File: One JSON document per limiter name in a directory
//   - SQLite: Lightweight single-file persistence
//
// # Usage
//
//	// Create a file-based backend
//	backend, err := storage.NewFileBackend("data/rate_limits")
//
//	// Save a record
//	rec := storage.NewDayRecord("2026-08-31")
//	err = backend.Save(ctx, "linkedin_profiles", rec)
//
//	// Load a record
//	rec, err := backend.Load(ctx, "linkedin_profiles")
//
// # Thread Safety
//
// All storage backends are thread-safe and support concurrent access
// from multiple goroutines. Locking is handled internally by each backend.
package storage
