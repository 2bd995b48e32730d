// Package pacer coordinates named pacing limiters for rate-restricted APIs.
//
// # Overview
//
// The pacer package is the integration surface over the two limiter kinds:
//
//   - proactive: persistent daily quota, minimum spacing with jitter,
//     optional night window, failure backoff (package proactive)
//   - reactive: zero-cost until a failure, then exponential backoff with
//     gradual recovery (package reactive)
//
// A Manager owns one limiter per named operation category (for example
// "profiles", "search", "messages"), all built from configuration over a
// shared storage backend. Guards wrap a limiter and an operation into a
// single call that handles the wait/attempt/report cycle.
//
// # Example
//
//	manager, err := pacer.NewManager(pacer.Config{
//	    Backend: backend,
//	    Proactive: map[string]proactive.Config{
//	        "profiles": {MinDelay: 10 * time.Second, MaxPerDay: 500},
//	    },
//	})
//
//	guard, err := manager.Guard("profiles")
//	err = guard.Do(ctx, func(ctx context.Context) error {
//	    return fetchProfile(ctx, id)
//	})
//	if errors.Is(err, pacer.ErrRefused) {
//	    // Out of quota for today (or night window / retry budget).
//	}
package pacer
