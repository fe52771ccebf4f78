// =============================================================================
// donorlens - Totals Stage
// =============================================================================
//
// Sums the raw contribution amount column of every export in the data
// directory and writes totals.txt, one "<candidate>: $1,234" line per
// candidate, rounded to whole dollars with thousands separators.
//
// =============================================================================

package pipeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/civicsignal/donorlens/internal/party"
	"github.com/civicsignal/donorlens/internal/rowio"
	"github.com/civicsignal/donorlens/pkg/utils"
)

// Totals writes per-candidate raw contribution totals to outPath.
func (p *Pipeline) Totals(outPath string) error {
	start := time.Now()

	files, err := utils.DiscoverContributionFiles(p.cfg.DataDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		p.log.Warn("no contribution files found", zap.String("dir", p.cfg.DataDir))
	}

	totalRows := 0
	lines := make([]string, 0, len(files))
	for _, path := range files {
		table, err := rowio.ReadTable(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		total := party.SumAmount(table.Header, table.Rows)
		candidate := utils.CandidateFromContributions(path)
		lines = append(lines, fmt.Sprintf("%s: $%s", candidate, formatWholeDollars(total)))
		totalRows += len(table.Rows)
	}

	if err := rowio.WriteLines(outPath, lines); err != nil {
		return err
	}
	p.log.Info("wrote totals", zap.String("path", outPath), zap.Int("candidates", len(lines)))

	p.writeSummary("totals", start, len(files), totalRows, lines)
	return nil
}

// formatWholeDollars rounds to whole dollars and inserts thousands
// separators: 1234567.89 -> "1,234,568". FormatFloat rounds ties to the even
// dollar, so 1234.50 -> "1,234" and 1235.50 -> "1,236".
func formatWholeDollars(v float64) string {
	digits := strconv.FormatFloat(v, 'f', 0, 64)
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
