// =============================================================================
// donorlens - Search Command
// =============================================================================
//
// This file defines the 'search' command, which resolves the donors in the
// raw contribution exports against the entity-search service and writes the
// donors-<candidate>.csv files the aggregate stage consumes.
//
// COMMAND USAGE:
//   donorlens search [flags]
//
// PIPELINE POSITION:
//   data/*-contributions.csv  ->  output/donors-*.csv
//
// =============================================================================

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/civicsignal/donorlens/internal/pipeline"
	"github.com/civicsignal/donorlens/internal/search"
)

// searchCmd represents the 'search' command.
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Resolve contribution rows to lookup identifiers",
	Long: `The search command reads every *-contributions.csv export in the data
directory, sums contributions per donor, queries the entity-search service
for each row and writes a donors-<candidate>.csv file per export.

Only positive-dollar search hits are kept; a donor with no match simply does
not appear in the output. Requests are sequential with a configurable
politeness delay between them.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		client := search.NewClient(cfg.Search, logger)
		p := pipeline.New(cfg, logger, runID)
		return p.Search(context.Background(), client)
	},
}

// init registers the search command with the root command.
func init() {
	rootCmd.AddCommand(searchCmd)
}
