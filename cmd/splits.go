// =============================================================================
// donorlens - Splits Command
// =============================================================================
//
// This file defines the 'splits' command, which computes each candidate's
// party percentage split from their per-party tables.
//
// COMMAND USAGE:
//   donorlens splits [--xlsx <path>]
//
// PIPELINE POSITION:
//   by-donor-output/<candidate>/*.csv  ->  by-donor-output/splits.csv
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/civicsignal/donorlens/internal/pipeline"
)

// xlsxPath is the optional workbook output path for the splits table.
var xlsxPath string

// splitsCmd represents the 'splits' command.
var splitsCmd = &cobra.Command{
	Use:   "splits",
	Short: "Compute per-candidate party percentage splits",
	Long: `The splits command buckets each candidate's per-party tables into four
categories (republican, democratic, third-party, nonpartisan), sums the
preferred dollar column of each file and writes every candidate's percentage
split to splits.csv at the output root.

A candidate with no dollars reports four zero percentages. Pass --xlsx to
also write the table as a spreadsheet.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		p := pipeline.New(cfg, logger, runID)
		return p.Splits(xlsxPath)
	},
}

// init registers the splits command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(splitsCmd)

	// --xlsx flag: also write the splits table as an XLSX workbook.
	splitsCmd.Flags().StringVar(
		&xlsxPath,
		"xlsx",
		"",
		"Also write the splits table as an XLSX workbook at the given path",
	)
}
