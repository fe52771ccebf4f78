// =============================================================================
// donorlens - Aggregate Stage
// =============================================================================
//
// The aggregate stage is the heart of the pipeline: for each candidate's
// resolved donor file it builds the donor group index, fetches the party
// giving records for every lookup identifier, accumulates the observations
// per (party, canonical identity) cell and writes one CSV per party into the
// candidate's output directory.
//
// Identifiers that canonicalize to the same donor share one accumulator cell,
// so an organization looked up under three identifiers lands all three
// record sets on one output row.
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
	"github.com/civicsignal/donorlens/internal/lookup"
	"github.com/civicsignal/donorlens/internal/party"
	"github.com/civicsignal/donorlens/internal/rowio"
	"github.com/civicsignal/donorlens/pkg/utils"
)

// Fetcher is the donor-lookup dependency of the aggregate stage.
type Fetcher interface {
	Fetch(ctx context.Context, eid string) ([]lookup.Observation, error)
}

// partyFileHeader is the column layout of per-party output files.
var partyFileHeader = []string{"entityName", "firstName", "lastName", "amount", "donationsToCampaign"}

// Aggregate processes every resolved donor file in the donors directory and
// writes per-party tables under the by-donor output root.
func (p *Pipeline) Aggregate(ctx context.Context, fetcher Fetcher) error {
	start := time.Now()

	files, err := utils.DiscoverDonorFiles(p.cfg.DonorsDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		p.log.Warn("no donor files found", zap.String("dir", p.cfg.DonorsDir))
		return nil
	}

	totalRows := 0
	notes := make([]string, 0, len(files))
	for _, path := range files {
		rows, note, err := p.aggregateFile(ctx, fetcher, path)
		if err != nil {
			return fmt.Errorf("failed to aggregate %s: %w", path, err)
		}
		totalRows += rows
		notes = append(notes, note)
	}

	p.writeSummary("aggregate", start, len(files), totalRows, notes)
	return nil
}

func (p *Pipeline) aggregateFile(ctx context.Context, fetcher Fetcher, path string) (int, string, error) {
	table, err := rowio.ReadTable(path)
	if err != nil {
		return 0, "", err
	}
	fields := rowio.ResolveFields(table.Header)

	candidate := utils.CandidateFromDonors(path)

	// Build the group index. Rows without a lookup identifier cannot receive
	// observations and are skipped outright.
	index := donor.NewGroupIndex()
	var eids []string
	seen := make(map[string]struct{})
	for _, raw := range table.Rows {
		row := fields.DonorRow(raw)
		if row.Eid == "" {
			continue
		}
		index.Ingest(row, row.Eid)
		if _, dup := seen[row.Eid]; !dup {
			seen[row.Eid] = struct{}{}
			eids = append(eids, row.Eid)
		}
	}

	if limit := p.cfg.Lookup.Limit; limit > 0 && limit < len(eids) {
		eids = eids[:limit]
	}

	p.log.Info("aggregating candidate",
		zap.String("candidate", candidate),
		zap.Int("groups", index.Len()),
		zap.Int("identifiers", len(eids)))

	acc := party.NewAccumulator(index)
	for i, eid := range eids {
		p.log.Info("fetching records",
			zap.String("candidate", candidate),
			zap.String("eid", eid),
			zap.Int("n", i+1),
			zap.Int("of", len(eids)))

		obs, err := fetcher.Fetch(ctx, eid)
		if err != nil {
			// A failed fetch means no observations for this identifier, not a
			// failed run.
			p.log.Warn("fetch failed", zap.String("eid", eid), zap.Error(err))
			continue
		}
		for _, o := range obs {
			acc.Record(eid, o.Party, o.Amount)
		}
	}

	outDir := filepath.Join(p.cfg.ByDonorDir, candidate)
	for _, label := range acc.Parties() {
		rows := acc.Rows(label)

		out := make([][]string, 0, len(rows))
		for _, cell := range rows {
			group, ok := index.Group(cell.Key)
			if !ok {
				continue
			}
			out = append(out, []string{
				cell.Key.EntityName, cell.Key.FirstName, cell.Key.LastName,
				amount.Format(cell.Amount), amount.Format(group.SelfReportedTotal),
			})
		}

		outPath := filepath.Join(outDir, party.Slug(label)+".csv")
		if err := rowio.WriteCSV(outPath, partyFileHeader, out); err != nil {
			return 0, "", err
		}
		p.log.Info("wrote party table",
			zap.String("path", outPath),
			zap.Int("rows", len(out)))
	}

	p.log.Info("candidate aggregated",
		zap.String("candidate", candidate),
		zap.Int("recorded", acc.Recorded()),
		zap.Int("discarded", acc.Discarded()))
	note := fmt.Sprintf("%s: %d identifiers, %d observations recorded, %d discarded",
		candidate, len(eids), acc.Recorded(), acc.Discarded())
	return len(table.Rows), note, nil
}
