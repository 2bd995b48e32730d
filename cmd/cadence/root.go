package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cadence-hq/cadence/pkg/config"
	"cadence-hq/cadence/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Cadence - conservative request pacing for rate-restricted APIs",
	Long: `Cadence paces operations against APIs that punish aggressive clients.

It provides two complementary limiter strategies:
  - Proactive: scheduled spacing with randomized jitter, a persistent
    daily quota, and an optional night blackout window
  - Reactive: exponential backoff that escalates only after observed
    failures and recovers gradually on success

The cadence command inspects and maintains the state those limiters
persist between runs: daily operation records and the decision journal.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "cadence.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the configuration file, applies environment overrides,
// and installs the configured logger as the process default. Every
// subcommand that touches stored state goes through here.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, err
	}
	if _, err := logging.Setup(loggingConfig(cfg)); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loggingConfig maps the telemetry section onto the logging package.
// The verbose flag forces debug level regardless of the configured level.
func loggingConfig(cfg *config.Config) logging.Config {
	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}
	return logging.Config{
		Level:     level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	}
}
