// =============================================================================
// donorlens - Tidy Stage
// =============================================================================
//
// In-place cleanup of the raw contribution exports: exact-duplicate rows are
// removed (first occurrence wins) and rows are sorted by the date column when
// one exists. Rows whose date does not parse sort to the end, after every
// dated row, so nothing is lost to a bad cell. Files without a date column
// are deduped but keep their order.
//
// =============================================================================

package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/civicsignal/donorlens/internal/rowio"
	"github.com/civicsignal/donorlens/pkg/utils"
)

// dateFormats are tried in order when parsing a date cell.
var dateFormats = []string{
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"2006-01-02",
	"2006/01/02",
	"Jan 2 2006",
	"January 2 2006",
}

// Tidy dedupes and date-sorts every CSV in the data directory in place.
func (p *Pipeline) Tidy() error {
	files, err := utils.DiscoverCSVFiles(p.cfg.DataDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		p.log.Warn("no CSV files found", zap.String("dir", p.cfg.DataDir))
		return nil
	}

	start := time.Now()
	totalRemoved := 0
	totalRows := 0
	notes := make([]string, 0, len(files))
	for _, path := range files {
		removed, written, err := p.tidyFile(path)
		if err != nil {
			return fmt.Errorf("failed to tidy %s: %w", path, err)
		}
		totalRemoved += removed
		totalRows += written
		notes = append(notes, fmt.Sprintf("%s: %d duplicates removed, %d rows kept",
			rowio.Stem(path), removed, written))
		p.log.Info("tidied file",
			zap.String("path", path),
			zap.Int("removed", removed),
			zap.Int("rows", written))
	}

	p.log.Info("tidy complete", zap.Int("duplicates_removed", totalRemoved))
	p.writeSummary("tidy", start, len(files), totalRows, notes)
	return nil
}

func (p *Pipeline) tidyFile(path string) (removed, written int, err error) {
	delim, records, err := rowio.ReadRaw(path)
	if err != nil {
		return 0, 0, err
	}
	if len(records) == 0 {
		return 0, 0, nil
	}

	header := records[0]
	rows := records[1:]

	// Exact-duplicate removal, first occurrence wins.
	seen := make(map[string]struct{}, len(rows))
	unique := make([][]string, 0, len(rows))
	for _, row := range rows {
		key := strings.Join(row, "\x1f")
		if _, dup := seen[key]; dup {
			removed++
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, row)
	}

	if idx, ok := findDateColumn(header); ok {
		sortByDate(unique, idx)
	} else {
		p.log.Info("no date column, keeping row order", zap.String("path", path))
	}

	if err := rowio.WriteRaw(path, delim, append([][]string{header}, unique...)); err != nil {
		return removed, 0, err
	}
	return removed, len(unique), nil
}

// findDateColumn locates the date column: an exact "date paid" or "date"
// header, or the first header starting with "date".
func findDateColumn(header []string) (int, bool) {
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if name == "date paid" || name == "date" || strings.HasPrefix(name, "date") {
			return i, true
		}
	}
	return 0, false
}

// sortByDate stable-sorts rows by their parsed date cell. Missing or
// unparsable dates compare as the far future and sink to the end.
func sortByDate(rows [][]string, col int) {
	keys := make([]time.Time, len(rows))
	for i, row := range rows {
		if col >= len(row) {
			keys[i] = maxTime
			continue
		}
		keys[i] = parseDate(row[col])
	}

	indexed := make([]int, len(rows))
	for i := range indexed {
		indexed[i] = i
	}
	sort.SliceStable(indexed, func(a, b int) bool {
		return keys[indexed[a]].Before(keys[indexed[b]])
	})

	sorted := make([][]string, len(rows))
	for i, idx := range indexed {
		sorted[i] = rows[idx]
	}
	copy(rows, sorted)
}

var maxTime = time.Unix(1<<62, 0)

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return maxTime
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return maxTime
}
