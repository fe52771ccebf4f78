// =============================================================================
// donorlens - Dedupe Stage
// =============================================================================
//
// Removes known-partisan donors from each candidate's nominally non-partisan
// tables. The republican and democratic tables define the partisan key set;
// rows in nonpartisan or third-party tables whose key is in that set are
// dropped and the table is rewritten in place. Candidates with no partisan
// tables are left untouched.
//
// =============================================================================

package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/civicsignal/donorlens/internal/dedupe"
	"github.com/civicsignal/donorlens/internal/party"
	"github.com/civicsignal/donorlens/internal/rowio"
	"github.com/civicsignal/donorlens/pkg/utils"
)

// Dedupe strips known-partisan donors from the non-partisan tables of every
// candidate directory.
func (p *Pipeline) Dedupe() error {
	start := time.Now()

	dirs, err := utils.DiscoverCandidateDirs(p.cfg.ByDonorDir)
	if err != nil {
		return err
	}

	totalRows := 0
	notes := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		rows, note, err := p.dedupeCandidate(dir)
		if err != nil {
			return fmt.Errorf("failed to dedupe %s: %w", dir, err)
		}
		totalRows += rows
		if note != "" {
			notes = append(notes, note)
		}
	}

	p.writeSummary("dedupe", start, len(dirs), totalRows, notes)
	return nil
}

func (p *Pipeline) dedupeCandidate(dir string) (int, string, error) {
	candidate := filepath.Base(dir)

	partisan, err := p.partisanKeys(dir)
	if err != nil {
		return 0, "", err
	}
	if len(partisan) == 0 {
		p.log.Info("no partisan tables, skipping", zap.String("candidate", candidate))
		return 0, fmt.Sprintf("%s: no partisan tables, skipped", candidate), nil
	}

	paths, err := utils.DiscoverCSVFiles(dir)
	if err != nil {
		return 0, "", err
	}

	scanned := 0
	totalRemoved := 0
	for _, path := range paths {
		cat := party.Categorize(rowio.Stem(path))
		if cat != party.Nonpartisan && cat != party.ThirdParty {
			continue
		}

		table, err := rowio.ReadTable(path)
		if err != nil {
			return 0, "", err
		}
		scanned += len(table.Rows)

		kept, removed := dedupe.FilterRows(table, partisan)
		if removed > 0 {
			if err := rowio.RewriteTable(path, table.Header, kept); err != nil {
				return 0, "", err
			}
		}
		totalRemoved += removed

		p.log.Info("filtered table",
			zap.String("path", path),
			zap.Int("removed", removed),
			zap.Int("kept", len(kept)))
	}

	note := fmt.Sprintf("%s: %d partisan rows removed", candidate, totalRemoved)
	return scanned, note, nil
}

// partisanKeys builds the match-key set from the candidate's republican and
// democratic tables, whichever exist.
func (p *Pipeline) partisanKeys(dir string) (map[string]struct{}, error) {
	var tables []*rowio.Table
	for _, stem := range []string{"republican", "democratic"} {
		path := filepath.Join(dir, stem+".csv")
		if !utils.FileExists(path) {
			continue
		}
		table, err := rowio.ReadTable(path)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return dedupe.BuildPartisanKeys(tables), nil
}
