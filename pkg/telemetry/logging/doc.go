// Package logging configures structured logging for Cadence.
//
// It builds log/slog loggers from configuration (level, format, source
// annotation) and can install the result as the process-wide default.
// Components obtain their loggers via slog.Default().With("component", ...).
package logging
