// =============================================================================
// donorlens - Dedupe Command
// =============================================================================
//
// This file defines the 'dedupe' command, which removes known-partisan donors
// from the nominally non-partisan per-party tables.
//
// COMMAND USAGE:
//   donorlens dedupe
//
// PIPELINE POSITION:
//   by-donor-output/<candidate>/*.csv rewritten in place
//
// Run 'duplicates' first if you want a record of what will be removed; this
// command rewrites the non-partisan tables directly.
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/civicsignal/donorlens/internal/pipeline"
)

// dedupeCmd represents the 'dedupe' command.
var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Strip known-partisan donors from non-partisan party files",
	Long: `The dedupe command builds a match-key set from each candidate's
republican and democratic tables, then rewrites the nonpartisan and
third-party tables with every matching row removed. This keeps donors who
give largely to one party from also being counted in nominally non-partisan
races driven by partisan dynamics.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		p := pipeline.New(cfg, logger, runID)
		return p.Dedupe()
	},
}

// init registers the dedupe command with the root command.
func init() {
	rootCmd.AddCommand(dedupeCmd)
}
