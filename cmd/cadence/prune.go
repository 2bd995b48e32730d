package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cadence-hq/cadence/pkg/cli"
	"cadence-hq/cadence/pkg/pacer/journal"
)

var pruneDaemon bool

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old journal entries",
	Long: `Delete journal entries older than the configured retention period and
trim the journal to the configured maximum size.

With --daemon, keep running and prune on the configured cron schedule
until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return cli.NewCommandError("prune", err)
		}
		if cfg.Journal.Path == "" {
			return cli.NewCommandError("prune", fmt.Errorf("no journal path configured"))
		}

		store, err := journal.NewSQLiteStore(cfg.Journal.Path)
		if err != nil {
			return cli.NewCommandError("prune", err)
		}
		defer store.Close()

		pruner := journal.NewPruner(store, &journal.PrunerConfig{
			RetentionDays: cfg.Journal.RetentionDays,
			MaxRecords:    cfg.Journal.MaxRecords,
			PruneSchedule: cfg.Journal.PruneSchedule,
		})

		if pruneDaemon {
			return runPruneDaemon(pruner)
		}

		pruned, err := pruner.PruneNow(cmd.Context())
		if err != nil {
			return cli.NewCommandError("prune", err)
		}

		fmt.Printf("pruned %d journal entries\n", pruned)
		return nil
	},
}

func init() {
	pruneCmd.Flags().BoolVar(&pruneDaemon, "daemon", false, "prune on the configured schedule until interrupted")
	rootCmd.AddCommand(pruneCmd)
}

// runPruneDaemon prunes on the configured cron schedule until SIGINT or
// SIGTERM.
func runPruneDaemon(pruner *journal.Pruner) error {
	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	scheduler := pruner.Scheduler()
	if err := scheduler.Start(ctx); err != nil {
		return cli.NewCommandError("prune", err)
	}

	fmt.Println("prune scheduler running, press Ctrl+C to stop")
	<-ctx.Done()

	scheduler.Stop()
	return nil
}
