package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cadence-hq/cadence/pkg/cli"
	"cadence-hq/cadence/pkg/config"
	"cadence-hq/cadence/pkg/pacer/storage"
)

var resetCmd = &cobra.Command{
	Use:   "reset <name>",
	Short: "Forget the stored daily record of a limiter",
	Long: `Delete the persisted day record of the named limiter. The next run
starts with a fresh daily quota for that limiter.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg, err := loadConfig()
		if err != nil {
			return cli.NewCommandError("reset", err)
		}

		backend, err := config.BuildBackend(cfg.Storage)
		if err != nil {
			return cli.NewCommandError("reset", err)
		}
		defer backend.Close()

		if err := resetLimiter(cmd.Context(), backend, name); err != nil {
			return err
		}

		fmt.Printf("reset limiter %q\n", name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

// resetLimiter deletes the stored day record for one limiter, failing if
// nothing is stored under that name.
func resetLimiter(ctx context.Context, backend storage.Backend, name string) error {
	rec, err := backend.Load(ctx, name)
	if err != nil {
		return cli.NewCommandError("reset", err)
	}
	if rec == nil {
		return cli.NewNotFoundError(name)
	}

	if err := backend.Delete(ctx, name); err != nil {
		return cli.NewCommandError("reset", err)
	}
	return nil
}
