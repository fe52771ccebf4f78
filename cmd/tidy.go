// =============================================================================
// donorlens - Tidy Command
// =============================================================================
//
// This file defines the 'tidy' command, which cleans the raw contribution
// exports in place before the pipeline consumes them.
//
// COMMAND USAGE:
//   donorlens tidy
//
// Run this before 'search' when the exports come straight from the reporting
// system; the later stages assume deduplicated input.
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/civicsignal/donorlens/internal/pipeline"
)

// tidyCmd represents the 'tidy' command.
var tidyCmd = &cobra.Command{
	Use:   "tidy",
	Short: "Dedupe and date-sort raw contribution CSVs in place",
	Long: `The tidy command removes exact-duplicate rows from every CSV in the data
directory and sorts rows by their date column when one exists. Rows whose
date does not parse are kept and sorted to the end. Files are rewritten in
place with their original delimiter.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		p := pipeline.New(cfg, logger, runID)
		return p.Tidy()
	},
}

// init registers the tidy command with the root command.
func init() {
	rootCmd.AddCommand(tidyCmd)
}
