// =============================================================================
// donorlens - Duplicates Command
// =============================================================================
//
// This file defines the 'duplicates' command, which reports donors appearing
// in more than one of a candidate's per-party tables.
//
// COMMAND USAGE:
//   donorlens duplicates
//
// PIPELINE POSITION:
//   by-donor-output/<candidate>/*.csv  ->  by-donor-output/<candidate>-duplicates.txt
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/civicsignal/donorlens/internal/pipeline"
)

// duplicatesCmd represents the 'duplicates' command.
var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Report donors appearing in multiple party files",
	Long: `The duplicates command scans each candidate's per-party tables for donor
identities that appear in two or more tables and writes a plain-text report
per candidate. Matching ignores the observed amount column, because the same
donor legitimately gives different amounts to different party committees.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		p := pipeline.New(cfg, logger, runID)
		return p.Duplicates()
	},
}

// init registers the duplicates command with the root command.
func init() {
	rootCmd.AddCommand(duplicatesCmd)
}
