package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"cadence-hq/cadence/pkg/cli"
	"cadence-hq/cadence/pkg/pacer/journal"
)

var (
	journalFormat string
	journalLimit  int
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "List recent pacing decisions",
	Long: `List the most recent entries of the pacing decision journal: which
limiter decided, whether the operation proceeded or was refused, and how
long it was delayed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cli.ParseFormat(journalFormat)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return cli.NewCommandError("journal", err)
		}
		if cfg.Journal.Path == "" {
			return cli.NewCommandError("journal", fmt.Errorf("no journal path configured"))
		}

		store, err := journal.NewSQLiteStore(cfg.Journal.Path)
		if err != nil {
			return cli.NewCommandError("journal", err)
		}
		defer store.Close()

		result, err := collectJournal(cmd.Context(), store, journalLimit)
		if err != nil {
			return cli.NewCommandError("journal", err)
		}

		return cli.NewFormatter(format).FormatTo(os.Stdout, result)
	},
}

func init() {
	journalCmd.Flags().StringVarP(&journalFormat, "format", "f", "text", "output format (text, json, csv)")
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "maximum number of entries")
	rootCmd.AddCommand(journalCmd)
}

// journalResult is a renderable list of journal entries, newest first.
type journalResult struct {
	Entries []*journal.Entry `json:"entries"`
}

// Header implements cli.Tabular.
func (r journalResult) Header() []string {
	return []string{"TIME", "LIMITER", "DECISION", "WAITED", "OPERATIONS"}
}

// Rows implements cli.Tabular.
func (r journalResult) Rows() [][]string {
	rows := make([][]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		rows = append(rows, []string{
			e.Timestamp.Format(time.RFC3339),
			e.Limiter,
			string(e.Decision),
			e.Waited.String(),
			strconv.Itoa(e.OperationsToday),
		})
	}
	return rows
}

// collectJournal reads the newest entries from the store.
func collectJournal(ctx context.Context, store journal.Store, limit int) (journalResult, error) {
	if limit <= 0 {
		limit = 20
	}
	entries, err := store.Recent(ctx, limit)
	if err != nil {
		return journalResult{}, fmt.Errorf("failed to read journal: %w", err)
	}
	return journalResult{Entries: entries}, nil
}
