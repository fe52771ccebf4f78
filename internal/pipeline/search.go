// =============================================================================
// donorlens - Search Stage
// =============================================================================
//
// The search stage turns raw contribution exports into resolved donor files.
// For each candidate export it first sums the contribution amounts per
// canonical donor identity, then queries the entity-search service for every
// row and writes one output row per positive-dollar hit, carrying the
// extracted lookup identifier and the donor's summed contribution total.
//
// A failed query leaves that donor unresolved and the stage moves on; the
// politeness delay between queries lives in the search client.
//
// =============================================================================

package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/civicsignal/donorlens/internal/amount"
	"github.com/civicsignal/donorlens/internal/donor"
	"github.com/civicsignal/donorlens/internal/rowio"
	"github.com/civicsignal/donorlens/internal/search"
	"github.com/civicsignal/donorlens/pkg/utils"
)

// Searcher is the entity-search dependency of the search stage.
type Searcher interface {
	Search(ctx context.Context, row donor.Row) ([]search.Result, error)
}

// donorFileHeader is the column layout of resolved donor files. The aggregate
// stage reads these columns back by name.
var donorFileHeader = []string{
	"entityName", "firstName", "middleInitial", "lastName",
	"city", "state", "eid", "donationsToCampaign",
}

// Search resolves every raw contribution export in the data directory and
// writes donors-<candidate>.csv files to the donors directory.
func (p *Pipeline) Search(ctx context.Context, searcher Searcher) error {
	start := time.Now()

	files, err := utils.DiscoverContributionFiles(p.cfg.DataDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		p.log.Warn("no contribution files found", zap.String("dir", p.cfg.DataDir))
		return nil
	}

	totalRows := 0
	notes := make([]string, 0, len(files))
	for _, path := range files {
		rows, note, err := p.searchFile(ctx, searcher, path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		totalRows += rows
		notes = append(notes, note)
	}

	p.writeSummary("search", start, len(files), totalRows, notes)
	return nil
}

func (p *Pipeline) searchFile(ctx context.Context, searcher Searcher, path string) (int, string, error) {
	table, err := rowio.ReadTable(path)
	if err != nil {
		return 0, "", err
	}
	fields := rowio.ResolveFields(table.Header)

	// First pass: contribution totals per canonical identity, so each output
	// row can carry the donor's summed giving to this campaign.
	totals := make(map[donor.Key]float64, len(table.Rows))
	for _, raw := range table.Rows {
		key := donor.Canonicalize(fields.DonorRow(raw))
		totals[key] += amount.ParseStrict(fields.Amount(raw))
	}

	candidate := utils.CandidateFromContributions(path)
	p.log.Info("resolving donors",
		zap.String("candidate", candidate),
		zap.Int("rows", len(table.Rows)))

	var out [][]string
	resolved := 0
	for _, raw := range table.Rows {
		row := fields.DonorRow(raw)

		shaped, ok := shapeOutputRow(row)
		if !ok {
			continue
		}

		results, err := searcher.Search(ctx, row)
		if err != nil {
			p.log.Warn("search failed, donor left unresolved",
				zap.String("candidate", candidate),
				zap.String("donor", donor.Canonicalize(row).DisplayName()),
				zap.Error(err))
			continue
		}

		donated := totals[donor.Canonicalize(row)]
		for _, r := range results {
			out = append(out, []string{
				shaped.EntityName, shaped.FirstName, shaped.MiddleInitial, shaped.LastName,
				shaped.City, shaped.State, r.Eid, fmt.Sprintf("%.2f", donated),
			})
		}
		resolved++
	}

	outPath := filepath.Join(p.cfg.DonorsDir, utils.DonorsFileName(candidate))
	if err := rowio.WriteCSV(outPath, donorFileHeader, out); err != nil {
		return 0, "", err
	}

	p.log.Info("wrote donor file",
		zap.String("path", outPath),
		zap.Int("queried", resolved),
		zap.Int("rows", len(out)))
	note := fmt.Sprintf("%s: %d rows in, %d resolved rows out", candidate, len(table.Rows), len(out))
	return len(table.Rows), note, nil
}

// shapeOutputRow decides how a donor appears in the output file: personal
// names win over the entity name, and an entity-only donor keeps its entity
// name with blank personal fields. Rows with neither are not searchable.
func shapeOutputRow(row donor.Row) (donor.Row, bool) {
	if row.FirstName != "" && row.LastName != "" {
		row.EntityName = ""
		return row, true
	}
	if row.EntityName != "" {
		row.FirstName, row.MiddleInitial, row.LastName = "", "", ""
		return row, true
	}
	return donor.Row{}, false
}
