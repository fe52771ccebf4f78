// =============================================================================
// donorlens - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all pipeline stage commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (donorlens)
//   ├── searchCmd     (donorlens search)
//   ├── aggregateCmd  (donorlens aggregate)
//   ├── duplicatesCmd (donorlens duplicates)
//   ├── dedupeCmd     (donorlens dedupe)
//   ├── splitsCmd     (donorlens splits)
//   ├── totalsCmd     (donorlens totals)
//   ├── tidyCmd       (donorlens tidy)
//   └── versionCmd    (donorlens version)
//
// The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration file
//   3. Initializing the logger and tagging the run
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/civicsignal/donorlens/internal/config"
	"github.com/civicsignal/donorlens/pkg/utils"
)

// =============================================================================
// GLOBAL STATE
// =============================================================================

// cfgFile holds the path to the configuration file, overridable via --config.
var cfgFile string

// verbose enables debug logging when set.
var verbose bool

// cfg is the loaded configuration, available to every subcommand.
var cfg *config.Config

// logger is the shared structured logger, tagged with the run identifier.
var logger *zap.Logger

// runID identifies this invocation. It is stamped on every log line and on
// the run summary each stage writes, so the two can be matched up afterward.
var runID string

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "donorlens",
	Short: "Resolve campaign donors and aggregate their giving by party",
	Long: `donorlens resolves campaign-finance contributors to canonical donor
identities, cross-references them against a public donor-lookup service, and
aggregates per-candidate, per-party donation totals.

The pipeline runs in stages, each its own subcommand:

  tidy        Dedupe and date-sort the raw contribution exports in place
  search      Resolve contribution rows to lookup identifiers
  aggregate   Fetch party giving records and aggregate per donor
  duplicates  Report donors appearing in multiple party files
  dedupe      Strip known-partisan donors from non-partisan party files
  splits      Compute per-candidate party percentage splits
  totals      Sum raw contribution totals per candidate

Example Usage:
  donorlens search                     # Resolve donors for all raw exports
  donorlens aggregate --config my.yaml # Aggregate with a custom configuration
  donorlens splits --xlsx splits.xlsx  # Splits table plus a workbook copy`,

	// PersistentPreRunE runs before every subcommand: load the configuration
	// and stand up the logger so stages never have to.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		logCfg := zap.NewProductionConfig()
		logCfg.Encoding = "console"
		if verbose {
			logCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		}
		logger, err = logCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		runID = utils.NewRunID()
		logger = logger.With(zap.String("run_id", runID))

		logger.Debug("configuration loaded",
			zap.String("config", cfgFile),
			zap.String("data_dir", cfg.DataDir),
			zap.String("donors_dir", cfg.DonorsDir),
			zap.String("by_donor_dir", cfg.ByDonorDir))
		return nil
	},

	// PersistentPostRun flushes buffered log entries after every subcommand.
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},

	// Without a subcommand there is nothing to run; print the help message.
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	// --config flag: path to the configuration file. Every setting has a
	// default, so a missing file is fine.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file (default is config.yaml)",
	)

	// --verbose flag: enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
