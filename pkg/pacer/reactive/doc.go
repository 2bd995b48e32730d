// Package reactive implements a failure-driven backoff limiter.
//
// # Overview
//
// The reactive limiter imposes no delay until a failure is observed. It is
// meant for operations that are normally unthrottled, where rate-limit
// rejections are rare: the common case pays zero latency, and only observed
// rejections are penalized.
//
//   - After a failure, Wait blocks for the current backoff before allowing
//     the next attempt
//   - Each further failure escalates the backoff geometrically up to a cap
//   - Each success decays the backoff geometrically; once it falls below a
//     threshold it snaps to zero
//   - Full recovery (backoff zero plus three consecutive successes) clears
//     the failure state entirely
//   - After MaxRetries cumulative failures the limiter is terminal: Wait
//     refuses every attempt until Reset is called
//
// # State machine
//
//	CALM --failure--> BACKING_OFF --failure--> BACKING_OFF (escalate)
//	BACKING_OFF --success x3 with zero backoff--> CALM
//	BACKING_OFF --retry budget spent--> TERMINAL (until Reset)
//
// The three-success hysteresis prevents flapping between CALM and
// BACKING_OFF when the remote service is still intermittently rejecting.
//
// # Thread Safety
//
// Limiter is thread-safe using sync.Mutex. The sleep in Wait happens outside
// the lock.
package reactive
