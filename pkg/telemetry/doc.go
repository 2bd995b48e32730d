// Package telemetry provides observability for Cadence.
//
// # Components
//
//   - logging: structured logging built on log/slog
//
// Pacing metrics live with the pacer itself (pkg/pacer.Metrics) so the
// limiter packages stay free of observability plumbing.
//
// # Usage
//
//	logger, err := logging.Setup(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//		return err
//	}
//	logger.Info("pacer ready", "limiters", 3)
package telemetry
