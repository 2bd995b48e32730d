// Package proactive implements a persistent, daily-budgeted pacing limiter.
//
// # Overview
//
// The proactive limiter spaces operations out before any failure is ever
// observed. It enforces:
//
//   - A minimum delay between consecutive operations
//   - Random jitter up to a maximum delay, so the cadence never looks periodic
//   - A hard daily quota, persisted across process restarts
//   - An optional night window (00:30-07:30 local) during which all
//     operations are refused
//   - Exponential backoff layered on top of the base delay after failures
//
// # Usage
//
//	limiter, err := proactive.New("linkedin_profiles", backend, proactive.Config{
//	    MinDelay:  10 * time.Second,
//	    MaxDelay:  30 * time.Second,
//	    MaxPerDay: 500,
//	})
//
//	if !limiter.Wait() {
//	    // Quota exhausted or night window active; do not proceed today.
//	    return
//	}
//	err = doOperation()
//	if err != nil {
//	    limiter.RecordFailure()
//	} else {
//	    limiter.RecordSuccess()
//	}
//
// The limiter never retries an operation itself. It only governs when the
// caller may attempt one; retry orchestration belongs to the caller.
//
// # Thread Safety
//
// Limiter is thread-safe using sync.Mutex. The sleep in Wait happens outside
// the lock, so a sleeping caller does not block RecordSuccess/RecordFailure
// from other goroutines.
package proactive
