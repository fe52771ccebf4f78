// =============================================================================
// donorlens - Main Entry Point
// =============================================================================
//
// donorlens resolves campaign-finance contributors to canonical donor
// identities, cross-references them against a public donor-lookup service,
// and aggregates per-candidate, per-party donation totals.
//
// USAGE:
//   donorlens search      - Resolve contribution rows to lookup identifiers
//   donorlens aggregate   - Fetch party giving records and aggregate per donor
//   donorlens duplicates  - Report donors appearing in multiple party files
//   donorlens dedupe      - Strip known-partisan donors from other party files
//   donorlens splits      - Compute per-candidate party percentage splits
//   donorlens totals      - Sum raw contribution totals per candidate
//   donorlens tidy        - Dedupe and reorder raw contribution CSVs
//   donorlens version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core pipeline logic (not for external import)
//   - pkg/           : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/civicsignal/donorlens/cmd"
)

// main is the entry point of the application.
// It delegates to the cmd package, which initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
