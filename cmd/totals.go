// =============================================================================
// donorlens - Totals Command
// =============================================================================
//
// This file defines the 'totals' command, which sums the raw contribution
// amounts per candidate. Useful as a sanity check against the aggregated
// per-party tables.
//
// COMMAND USAGE:
//   donorlens totals [--out <path>]
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/civicsignal/donorlens/internal/pipeline"
)

// totalsOut is the output path for the totals report.
var totalsOut string

// totalsCmd represents the 'totals' command.
var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Sum raw contribution totals per candidate",
	Long: `The totals command sums the amount column of every *-contributions.csv
export and writes one "<candidate>: $1,234" line per candidate, rounded to
whole dollars.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		p := pipeline.New(cfg, logger, runID)
		return p.Totals(totalsOut)
	},
}

// init registers the totals command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(totalsCmd)

	// --out flag: where to write the totals report.
	totalsCmd.Flags().StringVar(
		&totalsOut,
		"out",
		"totals.txt",
		"Path to write the totals report",
	)
}
