// =============================================================================
// donorlens - Aggregate Command
// =============================================================================
//
// This file defines the 'aggregate' command, the main stage of the pipeline:
// it fetches party giving records for every resolved donor and writes
// per-candidate, per-party CSV tables.
//
// COMMAND USAGE:
//   donorlens aggregate [flags]
//
// PIPELINE POSITION:
//   output/donors-*.csv  ->  by-donor-output/<candidate>/<party>.csv
//
// The stage drives a headless browser, because the lookup service only
// serves its records to a page load. Fetches are strictly sequential with a
// mandatory delay; expect a full run to take a while.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/civicsignal/donorlens/internal/lookup"
	"github.com/civicsignal/donorlens/internal/pipeline"
)

// aggregateCmd represents the 'aggregate' command.
var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Fetch party giving records and aggregate per donor",
	Long: `The aggregate command reads every donors-*.csv file, fetches the party
giving records for each lookup identifier through a headless browser, merges
identifiers that resolve to the same donor into one row and writes one CSV
per party into the candidate's output directory.

Rows are sorted by aggregated amount, largest first. Set lookup.limit in the
configuration to cap the identifiers fetched per candidate when smoke-testing
a run.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := lookup.NewClient(cfg.Lookup, logger)
		if err != nil {
			return fmt.Errorf("failed to start lookup client: %w", err)
		}
		defer client.Close()

		p := pipeline.New(cfg, logger, runID)
		return p.Aggregate(context.Background(), client)
	},
}

// init registers the aggregate command with the root command.
func init() {
	rootCmd.AddCommand(aggregateCmd)
}
