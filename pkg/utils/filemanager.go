// =============================================================================
// donorlens - File Manager Utility
// =============================================================================
//
// This module provides file discovery utilities for the pipeline, including:
//   - Raw contribution export discovery (data/*-contributions.csv)
//   - Resolved donor file discovery (output/donors-*.csv)
//   - Candidate output directory discovery (by-donor-output/<candidate>/)
//   - Run identification and summary logging
//
// DIRECTORY LAYOUT:
//   - data/             : Raw per-candidate contribution exports
//   - output/           : donors-<candidate>.csv produced by the search stage
//   - by-donor-output/  : One subdirectory per candidate with per-party CSVs,
//                         plus the duplicate reports and the splits table
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// NAME DERIVATION
// =============================================================================

// CandidateFromContributions derives the candidate id from a raw export path:
// "data/jennifer-owen-contributions.csv" -> "jennifer-owen".
func CandidateFromContributions(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.Replace(stem, "contributions", "", 1)
	return strings.Trim(stem, "-_ ")
}

// CandidateFromDonors derives the candidate id from a resolved donor path:
// "output/donors-jennifer-owen.csv" -> "jennifer-owen".
func CandidateFromDonors(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimPrefix(stem, "donors-")
}

// DonorsFileName builds the resolved donor file name for a candidate.
func DonorsFileName(candidate string) string {
	return fmt.Sprintf("donors-%s.csv", candidate)
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverContributionFiles returns the raw contribution exports in dataDir,
// sorted by name so runs are deterministic.
func DiscoverContributionFiles(dataDir string) ([]string, error) {
	return discoverSorted(filepath.Join(dataDir, "*-contributions.csv"))
}

// DiscoverDonorFiles returns the resolved donor files in donorsDir, sorted by
// name.
func DiscoverDonorFiles(donorsDir string) ([]string, error) {
	return discoverSorted(filepath.Join(donorsDir, "donors-*.csv"))
}

// DiscoverCSVFiles returns every CSV file directly inside dir, sorted by name.
func DiscoverCSVFiles(dir string) ([]string, error) {
	return discoverSorted(filepath.Join(dir, "*.csv"))
}

// DiscoverCandidateDirs returns the candidate subdirectories of the aggregate
// output root, sorted by name. Files at the root (reports, the splits table)
// are not candidates and are skipped.
func DiscoverCandidateDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read output root: %w", err)
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(root, entry.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// discoverSorted globs a pattern, drops directories and sorts the result.
func discoverSorted(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	var files []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// =============================================================================
// RUN IDENTIFICATION
// =============================================================================

// NewRunID returns a unique identifier for one pipeline invocation, used to
// correlate log lines and summary files.
func NewRunID() string {
	return uuid.New().String()
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary captures the outcome of one pipeline command for the summary log.
type RunSummary struct {
	RunID     string
	Command   string
	StartTime time.Time
	EndTime   time.Time

	// FilesProcessed counts input files the command consumed.
	FilesProcessed int

	// RowsRead counts data rows read across all inputs.
	RowsRead int

	// Notes are free-form per-file outcome lines.
	Notes []string
}

// WriteSummaryLog writes a run summary to outputDir and returns its path.
func WriteSummaryLog(summary RunSummary, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := fmt.Sprintf("run_%s_%s.txt", summary.Command, summary.StartTime.Format("20060102_150405"))
	path := filepath.Join(outputDir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "donorlens - Run Summary\n")
	fmt.Fprintf(writer, "================================================================================\n\n")
	fmt.Fprintf(writer, "Run ID:    %s\n", summary.RunID)
	fmt.Fprintf(writer, "Command:   %s\n", summary.Command)
	fmt.Fprintf(writer, "Start:     %s\n", summary.StartTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(writer, "End:       %s\n", summary.EndTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(writer, "Duration:  %s\n\n", summary.EndTime.Sub(summary.StartTime).String())
	fmt.Fprintf(writer, "Files:     %d\n", summary.FilesProcessed)
	fmt.Fprintf(writer, "Rows:      %d\n\n", summary.RowsRead)

	if len(summary.Notes) > 0 {
		fmt.Fprintf(writer, "Details:\n")
		for _, note := range summary.Notes {
			fmt.Fprintf(writer, "  %s\n", note)
		}
	}

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}
	return path, nil
}
