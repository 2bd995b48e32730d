package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"cadence-hq/cadence/pkg/cli"
	"cadence-hq/cadence/pkg/config"
	"cadence-hq/cadence/pkg/pacer/storage"
)

var statusFormat string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored limiter state",
	Long: `Show the persisted daily record of every limiter: the record date,
how many operations were performed, the configured quota, and the time
of the last operation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cli.ParseFormat(statusFormat)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return cli.NewCommandError("status", err)
		}

		backend, err := config.BuildBackend(cfg.Storage)
		if err != nil {
			return cli.NewCommandError("status", err)
		}
		defer backend.Close()

		result, err := collectStatus(cmd.Context(), backend, cfg)
		if err != nil {
			return cli.NewCommandError("status", err)
		}

		return cli.NewFormatter(format).FormatTo(os.Stdout, result)
	},
}

func init() {
	statusCmd.Flags().StringVarP(&statusFormat, "format", "f", "text", "output format (text, json, csv)")
	rootCmd.AddCommand(statusCmd)
}

// statusEntry is the reported state of one limiter.
type statusEntry struct {
	Name          string `json:"name"`
	Strategy      string `json:"strategy,omitempty"`
	Date          string `json:"date"`
	Operations    int    `json:"operations_count"`
	Quota         int    `json:"quota,omitempty"`
	LastOperation string `json:"last_operation,omitempty"`
}

// statusResult is the full status report.
type statusResult struct {
	Limiters []statusEntry `json:"limiters"`
}

// Header implements cli.Tabular.
func (r statusResult) Header() []string {
	return []string{"NAME", "STRATEGY", "DATE", "OPERATIONS", "QUOTA", "LAST OPERATION"}
}

// Rows implements cli.Tabular.
func (r statusResult) Rows() [][]string {
	rows := make([][]string, 0, len(r.Limiters))
	for _, e := range r.Limiters {
		strategy := e.Strategy
		if strategy == "" {
			strategy = "-"
		}
		quota := "-"
		if e.Quota > 0 {
			quota = strconv.Itoa(e.Quota)
		}
		last := e.LastOperation
		if last == "" {
			last = "-"
		}
		rows = append(rows, []string{
			e.Name, strategy, e.Date, strconv.Itoa(e.Operations), quota, last,
		})
	}
	return rows
}

// collectStatus reads every stored day record and joins it with the
// configured pacers.
func collectStatus(ctx context.Context, backend storage.Backend, cfg *config.Config) (statusResult, error) {
	names, err := backend.List(ctx)
	if err != nil {
		return statusResult{}, fmt.Errorf("failed to list limiters: %w", err)
	}
	sort.Strings(names)

	result := statusResult{Limiters: make([]statusEntry, 0, len(names))}
	for _, name := range names {
		rec, err := backend.Load(ctx, name)
		if err != nil {
			return statusResult{}, fmt.Errorf("failed to load record for %q: %w", name, err)
		}
		if rec == nil {
			continue
		}

		entry := statusEntry{
			Name:       name,
			Date:       rec.Date,
			Operations: rec.OperationsCount,
		}
		if pacer, ok := cfg.Pacers[name]; ok {
			entry.Strategy = pacer.Strategy
			if pacer.Strategy == "proactive" {
				entry.Quota = pacer.MaxPerDay
			}
		}
		if rec.LastOperationTime != nil {
			sec := int64(*rec.LastOperationTime)
			nsec := int64((*rec.LastOperationTime - float64(sec)) * float64(time.Second))
			entry.LastOperation = time.Unix(sec, nsec).Format(time.RFC3339)
		}

		result.Limiters = append(result.Limiters, entry)
	}

	return result, nil
}
