// =============================================================================
// donorlens - Splits Stage
// =============================================================================
//
// Computes each candidate's party percentage split from their per-party
// tables and writes the combined splits.csv at the output root. A candidate
// with no dollars at all reports four zero percentages rather than dividing
// by nothing. An XLSX rendering of the same table can be written alongside
// for spreadsheet consumers.
//
// =============================================================================

package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/civicsignal/donorlens/internal/party"
	"github.com/civicsignal/donorlens/internal/report"
	"github.com/civicsignal/donorlens/internal/rowio"
	"github.com/civicsignal/donorlens/pkg/utils"
)

// splitsHeader is the column layout of the splits table, in category order.
var splitsHeader = []string{"candidate", "republican", "democratic", "thirdParty", "nonpartisan"}

// Splits computes the party split of every candidate directory and writes
// splits.csv at the output root. When xlsxPath is non-empty the same table is
// also written as a workbook.
func (p *Pipeline) Splits(xlsxPath string) error {
	start := time.Now()

	dirs, err := utils.DiscoverCandidateDirs(p.cfg.ByDonorDir)
	if err != nil {
		return err
	}

	totalRows := 0
	splits := make([]party.Split, 0, len(dirs))
	for _, dir := range dirs {
		split, scanned, err := p.splitForCandidate(dir)
		if err != nil {
			return fmt.Errorf("failed to compute split for %s: %w", dir, err)
		}
		splits = append(splits, split)
		totalRows += scanned
	}

	rows := make([][]string, 0, len(splits))
	for _, s := range splits {
		row := []string{s.Candidate}
		for _, c := range party.Categories() {
			row = append(row, fmt.Sprintf("%.2f", s.Percent[c]))
		}
		rows = append(rows, row)
	}

	outPath := filepath.Join(p.cfg.ByDonorDir, "splits.csv")
	if err := rowio.WriteCSV(outPath, splitsHeader, rows); err != nil {
		return err
	}
	p.log.Info("wrote splits table",
		zap.String("path", outPath),
		zap.Int("candidates", len(splits)))

	if xlsxPath != "" {
		if err := report.WriteSplitsWorkbook(xlsxPath, splits); err != nil {
			return fmt.Errorf("failed to write splits workbook: %w", err)
		}
		p.log.Info("wrote splits workbook", zap.String("path", xlsxPath))
	}

	notes := make([]string, 0, len(splits))
	for _, s := range splits {
		notes = append(notes, fmt.Sprintf("%s: %.2f / %.2f / %.2f / %.2f",
			s.Candidate,
			s.Percent[party.Republican], s.Percent[party.Democratic],
			s.Percent[party.ThirdParty], s.Percent[party.Nonpartisan]))
	}
	p.writeSummary("splits", start, len(dirs), totalRows, notes)
	return nil
}

func (p *Pipeline) splitForCandidate(dir string) (party.Split, int, error) {
	paths, err := utils.DiscoverCSVFiles(dir)
	if err != nil {
		return party.Split{}, 0, err
	}

	scanned := 0
	tally := party.NewTally()
	for _, path := range paths {
		table, err := rowio.ReadTable(path)
		if err != nil {
			return party.Split{}, 0, err
		}
		cat := party.Categorize(table.Name)
		tally.Add(cat, party.SumPreferred(table.Header, table.Rows))
		scanned += len(table.Rows)
	}

	return tally.Split(party.PrettyCandidate(filepath.Base(dir))), scanned, nil
}
