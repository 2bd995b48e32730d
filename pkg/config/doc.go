// Package config loads, validates, and watches Cadence configuration.
//
// Configuration is read from a YAML file, filled with defaults, and
// optionally overridden by CADENCE_* environment variables. Duration
// fields accept time.Duration notation ("30s", "5m") or a bare number
// of seconds.
//
// A minimal configuration:
//
//	storage:
//	  backend: file
//	  dir: data/pacer
//	pacers:
//	  profiles:
//	    strategy: proactive
//	    min_delay: 10s
//	    max_delay: 30s
//	    max_per_day: 500
//	    night_mode: true
//	  messages:
//	    strategy: reactive
//	    initial_backoff: 1s
//	    max_retries: 10
//
// BuildManagerConfig turns a loaded Config into a ready pacer.Config,
// including the storage backend, Prometheus metrics when the telemetry
// section enables them, and the optional decision journal.
package config
