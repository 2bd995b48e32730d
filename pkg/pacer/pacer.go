package pacer

import "errors"

// Limiter is the contract shared by both limiter kinds.
//
// Callers invoke Wait before attempting an operation, perform the operation
// if Wait returned true, then report the outcome. Timing and quota
// conditions are communicated through Wait's boolean result, never through
// errors. Skipping the outcome report silently breaks the backoff model.
type Limiter interface {
	// Wait blocks until the operation may run. It returns false when the
	// operation must not run at all (quota exhausted, night window, or
	// retry budget spent); refusals never sleep first.
	Wait() bool

	// RecordSuccess reports a completed operation.
	RecordSuccess()

	// RecordFailure reports a failed operation.
	RecordFailure()

	// Name identifies the limiter.
	Name() string
}

// ErrRefused is returned by Guard.Do when the limiter refuses the
// operation. The condition is recoverable for quota and night-window
// refusals (retry tomorrow or after the window) and permanent for a spent
// reactive retry budget until the limiter is reset.
var ErrRefused = errors.New("pacer: limiter refused operation")
