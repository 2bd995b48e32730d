/*
Package cli provides command-line interface utilities for Cadence.

The cli package includes output formatters and common CLI helpers used by
the cadence command.

Output Formatting:

The cli package supports multiple output formats (text, JSON, CSV) for
displaying command results. Results that implement Tabular render as
aligned tables in text mode and as rows in CSV mode:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
