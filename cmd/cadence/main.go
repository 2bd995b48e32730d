// Cadence is a conservative request pacer for rate-restricted APIs.
//
// It spaces operations out with randomized delays, enforces daily
// quotas and a night blackout window, escalates backoff after observed
// failures, and records every pacing decision in a local journal.
//
// Usage:
//
//	# Show stored limiter state
//	cadence status
//
//	# Forget the daily record of one limiter
//	cadence reset profiles
//
//	# List recent pacing decisions
//	cadence journal --limit 50 --format csv
//
//	# Prune old journal entries once, or on a schedule
//	cadence prune
//	cadence prune --daemon
//
//	# Show version information
//	cadence version
package main

func main() {
	Execute()
}
