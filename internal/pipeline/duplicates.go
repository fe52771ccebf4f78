// =============================================================================
// donorlens - Duplicates Stage
// =============================================================================
//
// Scans each candidate's per-party tables for donor identities that appear in
// more than one table and writes a plain-text report per candidate at the
// output root. Each line reads:
//
//   <display name> <self-reported total> <file-stem>/<file-stem>
//
// The report is rewritten on every run, including the empty case, so a stale
// report never survives a rerun that found nothing.
//
// =============================================================================

package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/civicsignal/donorlens/internal/dedupe"
	"github.com/civicsignal/donorlens/internal/rowio"
	"github.com/civicsignal/donorlens/pkg/utils"
)

// Duplicates writes a duplicate report for every candidate directory under
// the by-donor output root.
func (p *Pipeline) Duplicates() error {
	start := time.Now()

	dirs, err := utils.DiscoverCandidateDirs(p.cfg.ByDonorDir)
	if err != nil {
		return err
	}

	totalRows := 0
	notes := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		rows, note, err := p.duplicatesForCandidate(dir)
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", dir, err)
		}
		totalRows += rows
		if note != "" {
			notes = append(notes, note)
		}
	}

	p.writeSummary("duplicates", start, len(dirs), totalRows, notes)
	return nil
}

func (p *Pipeline) duplicatesForCandidate(dir string) (int, string, error) {
	tables, err := readCandidateTables(dir)
	if err != nil {
		return 0, "", err
	}
	if len(tables) == 0 {
		return 0, "", nil
	}

	records := dedupe.FindDuplicates(tables)

	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			r.DisplayName, r.SelfReported, strings.Join(r.Files, "/")))
	}

	candidate := filepath.Base(dir)
	outPath := filepath.Join(p.cfg.ByDonorDir, candidate+"-duplicates.txt")
	if err := rowio.WriteLines(outPath, lines); err != nil {
		return 0, "", err
	}

	p.log.Info("wrote duplicate report",
		zap.String("candidate", candidate),
		zap.Int("duplicates", len(records)))

	scanned := 0
	for _, t := range tables {
		scanned += len(t.Rows)
	}
	note := fmt.Sprintf("%s: %d duplicates across %d tables", candidate, len(records), len(tables))
	return scanned, note, nil
}

// readCandidateTables loads every CSV in a candidate directory, sorted by
// name for a deterministic match-field union.
func readCandidateTables(dir string) ([]*rowio.Table, error) {
	paths, err := utils.DiscoverCSVFiles(dir)
	if err != nil {
		return nil, err
	}

	tables := make([]*rowio.Table, 0, len(paths))
	for _, path := range paths {
		table, err := rowio.ReadTable(path)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}
