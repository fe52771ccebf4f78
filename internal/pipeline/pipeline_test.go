package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/civicsignal/donorlens/internal/config"
	"github.com/civicsignal/donorlens/internal/donor"
	"github.com/civicsignal/donorlens/internal/lookup"
	"github.com/civicsignal/donorlens/internal/rowio"
	"github.com/civicsignal/donorlens/internal/search"
)

func newTestPipeline(t *testing.T) (*Pipeline, *config.Config) {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		DataDir:    filepath.Join(root, "data"),
		DonorsDir:  filepath.Join(root, "output"),
		ByDonorDir: filepath.Join(root, "by-donor-output"),
	}
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0755))
	require.NoError(t, os.MkdirAll(cfg.DonorsDir, 0755))
	require.NoError(t, os.MkdirAll(cfg.ByDonorDir, 0755))
	return New(cfg, zap.NewNop(), "test-run"), cfg
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// =============================================================================
// AGGREGATE
// =============================================================================

type stubFetcher map[string][]lookup.Observation

func (s stubFetcher) Fetch(_ context.Context, eid string) ([]lookup.Observation, error) {
	obs, ok := s[eid]
	if !ok {
		return nil, fmt.Errorf("no records for eid=%s", eid)
	}
	return obs, nil
}

func TestAggregateMergesIdentifiers(t *testing.T) {
	p, cfg := newTestPipeline(t)

	// Same organization under two lookup identifiers.
	writeTestFile(t, filepath.Join(cfg.DonorsDir, "donors-jennifer-owen.csv"),
		"entityName,firstName,middleInitial,lastName,city,state,eid,donationsToCampaign\n"+
			"Acme PAC,,,,Helena,MT,1,500\n"+
			"Acme PAC,,,,Helena,MT,2,500\n")

	fetcher := stubFetcher{
		"1": {{Party: "Republican Party", Amount: "100.00"}},
		"2": {{Party: "Republican Party", Amount: "50.00"}},
	}

	require.NoError(t, p.Aggregate(context.Background(), fetcher))

	table, err := rowio.ReadTable(filepath.Join(cfg.ByDonorDir, "jennifer-owen", "republican-party.csv"))
	require.NoError(t, err)
	require.Len(t, table.Rows, 1, "both identifiers land in one cell")
	assert.Equal(t, "Acme PAC", table.Rows[0]["entityName"])
	assert.Equal(t, "150", table.Rows[0]["amount"])
	assert.Equal(t, "500", table.Rows[0]["donationsToCampaign"])
}

func TestAggregateSortsDescendingAndSlugsParty(t *testing.T) {
	p, cfg := newTestPipeline(t)

	writeTestFile(t, filepath.Join(cfg.DonorsDir, "donors-jennifer-owen.csv"),
		"entityName,firstName,middleInitial,lastName,city,state,eid,donationsToCampaign\n"+
			",Mike,,Nelson,Helena,MT,10,100\n"+
			",Jane,,Doe,Butte,MT,11,400\n")

	fetcher := stubFetcher{
		"10": {{Party: "No Party Affiliation", Amount: "25"}},
		"11": {{Party: "No Party Affiliation", Amount: "75.50"}},
	}

	require.NoError(t, p.Aggregate(context.Background(), fetcher))

	table, err := rowio.ReadTable(filepath.Join(cfg.ByDonorDir, "jennifer-owen", "no-party-affiliation.csv"))
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Jane", table.Rows[0]["firstName"], "larger amount first")
	assert.Equal(t, "75.50", table.Rows[0]["amount"])
	assert.Equal(t, "25", table.Rows[1]["amount"])
}

func TestAggregateFailedFetchSkipsIdentifier(t *testing.T) {
	p, cfg := newTestPipeline(t)

	writeTestFile(t, filepath.Join(cfg.DonorsDir, "donors-x.csv"),
		"entityName,firstName,middleInitial,lastName,city,state,eid,donationsToCampaign\n"+
			",Mike,,Nelson,Helena,MT,1,0\n"+
			",Jane,,Doe,Butte,MT,2,0\n")

	fetcher := stubFetcher{
		"2": {{Party: "Democratic Party", Amount: "10"}},
	}

	require.NoError(t, p.Aggregate(context.Background(), fetcher), "a failed fetch is not a failed run")

	table, err := rowio.ReadTable(filepath.Join(cfg.ByDonorDir, "x", "democratic-party.csv"))
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Jane", table.Rows[0]["firstName"])
}

// =============================================================================
// SEARCH
// =============================================================================

type stubSearcher struct {
	hits map[string][]search.Result
}

func (s *stubSearcher) Search(_ context.Context, row donor.Row) ([]search.Result, error) {
	name := row.FirstName + " " + row.LastName
	if row.EntityName != "" {
		name = row.EntityName
	}
	return s.hits[strings.TrimSpace(name)], nil
}

func TestSearchWritesDonorFile(t *testing.T) {
	p, cfg := newTestPipeline(t)

	writeTestFile(t, filepath.Join(cfg.DataDir, "jennifer-owen-contributions.csv"),
		"First Name|Last Name|Entity Name|City|State|Amount\n"+
			"Mike|Nelson||Helena|MT|$100.00\n"+
			"Mike|Nelson||Helena|MT|50\n"+
			"||Acme PAC|Butte|MT|25\n"+
			"|||Nowhere|MT|10\n")

	searcher := &stubSearcher{hits: map[string][]search.Result{
		"Mike Nelson": {{Name: "Mike Nelson", Eid: "42"}},
		"Acme PAC":    {{Name: "Acme Pac", Eid: "7"}, {Name: "Acme Pac Fund", Eid: "8"}},
	}}

	require.NoError(t, p.Search(context.Background(), searcher))

	table, err := rowio.ReadTable(filepath.Join(cfg.DonorsDir, "donors-jennifer-owen.csv"))
	require.NoError(t, err)
	require.Len(t, table.Rows, 4, "one row per hit, nameless rows skipped")

	// Both Mike Nelson rows resolved with the summed total.
	assert.Equal(t, "Mike", table.Rows[0]["firstName"])
	assert.Equal(t, "42", table.Rows[0]["eid"])
	assert.Equal(t, "150.00", table.Rows[0]["donationsToCampaign"])

	// Entity hit keeps the entity name and blanks the personal fields.
	assert.Equal(t, "Acme PAC", table.Rows[2]["entityName"])
	assert.Equal(t, "", table.Rows[2]["firstName"])
	assert.Equal(t, "7", table.Rows[2]["eid"])
	assert.Equal(t, "25.00", table.Rows[2]["donationsToCampaign"])
	assert.Equal(t, "8", table.Rows[3]["eid"])
}

// =============================================================================
// DUPLICATES
// =============================================================================

func TestDuplicatesReport(t *testing.T) {
	p, cfg := newTestPipeline(t)

	dir := filepath.Join(cfg.ByDonorDir, "jennifer-owen")
	writeTestFile(t, filepath.Join(dir, "republican.csv"),
		"entityName,firstName,lastName,amount,donationsToCampaign\n"+
			",Mike,Nelson,100,150\n")
	writeTestFile(t, filepath.Join(dir, "nonpartisan.csv"),
		"entityName,firstName,lastName,amount,donationsToCampaign\n"+
			",Mike,Nelson,40,150\n"+
			",Jane,Doe,10,10\n")

	require.NoError(t, p.Duplicates())

	data, err := os.ReadFile(filepath.Join(cfg.ByDonorDir, "jennifer-owen-duplicates.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t, "Mike Nelson $150 nonpartisan/republican", lines[0])
}

// =============================================================================
// DEDUPE
// =============================================================================

func TestDedupeRemovesPartisanRows(t *testing.T) {
	p, cfg := newTestPipeline(t)

	dir := filepath.Join(cfg.ByDonorDir, "jennifer-owen")
	writeTestFile(t, filepath.Join(dir, "republican.csv"),
		"entityName,firstName,lastName,amount,donationsToCampaign\n"+
			",Mike,Nelson,100,150\n")
	writeTestFile(t, filepath.Join(dir, "nonpartisan.csv"),
		"entityName,firstName,lastName,amount,donationsToCampaign\n"+
			",Mike,Nelson,40,150\n"+
			",Jane,Doe,10,10\n")

	require.NoError(t, p.Dedupe())

	table, err := rowio.ReadTable(filepath.Join(dir, "nonpartisan.csv"))
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Jane", table.Rows[0]["firstName"])

	// Partisan source table is untouched.
	table, err = rowio.ReadTable(filepath.Join(dir, "republican.csv"))
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
}

// =============================================================================
// SPLITS
// =============================================================================

func TestSplits(t *testing.T) {
	p, cfg := newTestPipeline(t)

	dir := filepath.Join(cfg.ByDonorDir, "jennifer-owen")
	writeTestFile(t, filepath.Join(dir, "republican-party.csv"),
		"entityName,firstName,lastName,amount,donationsToCampaign\n"+
			",Mike,Nelson,100,75\n")
	writeTestFile(t, filepath.Join(dir, "democratic-party.csv"),
		"entityName,firstName,lastName,amount,donationsToCampaign\n"+
			",Jane,Doe,5,25\n")

	empty := filepath.Join(cfg.ByDonorDir, "empty-candidate")
	writeTestFile(t, filepath.Join(empty, "green.csv"),
		"entityName,firstName,lastName,amount,donationsToCampaign\n")

	require.NoError(t, p.Splits(""))

	table, err := rowio.ReadTable(filepath.Join(cfg.ByDonorDir, "splits.csv"))
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	// Preferred column is donationsToCampaign, not amount.
	assert.Equal(t, "Empty Candidate", table.Rows[0]["candidate"])
	assert.Equal(t, "0.00", table.Rows[0]["republican"], "zero total never divides")
	assert.Equal(t, "Jennifer Owen", table.Rows[1]["candidate"])
	assert.Equal(t, "75.00", table.Rows[1]["republican"])
	assert.Equal(t, "25.00", table.Rows[1]["democratic"])
	assert.Equal(t, "0.00", table.Rows[1]["thirdParty"])
}

func TestSplitsWritesWorkbook(t *testing.T) {
	p, cfg := newTestPipeline(t)

	dir := filepath.Join(cfg.ByDonorDir, "jennifer-owen")
	writeTestFile(t, filepath.Join(dir, "republican.csv"),
		"entityName,firstName,lastName,amount,donationsToCampaign\n"+
			",Mike,Nelson,100,75\n")

	xlsxPath := filepath.Join(cfg.ByDonorDir, "splits.xlsx")
	require.NoError(t, p.Splits(xlsxPath))

	info, err := os.Stat(xlsxPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

// =============================================================================
// TOTALS
// =============================================================================

func TestTotals(t *testing.T) {
	p, cfg := newTestPipeline(t)

	writeTestFile(t, filepath.Join(cfg.DataDir, "jennifer-owen-contributions.csv"),
		"First Name|Last Name|Amount\n"+
			"Mike|Nelson|$1,234.00\n"+
			"Jane|Doe|$0.75\n")

	outPath := filepath.Join(cfg.DataDir, "totals.txt")
	require.NoError(t, p.Totals(outPath))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "jennifer-owen: $1,235\n", string(data))
}

func TestTotalsWritesRunSummary(t *testing.T) {
	p, cfg := newTestPipeline(t)

	writeTestFile(t, filepath.Join(cfg.DataDir, "jennifer-owen-contributions.csv"),
		"First Name|Last Name|Amount\n"+
			"Mike|Nelson|$1,234.00\n"+
			"Jane|Doe|$0.75\n")

	require.NoError(t, p.Totals(filepath.Join(cfg.DataDir, "totals.txt")))

	matches, err := filepath.Glob(filepath.Join(cfg.ByDonorDir, "run_totals_*.txt"))
	require.NoError(t, err)
	require.Len(t, matches, 1, "each stage run leaves one summary")

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	summary := string(data)
	assert.Contains(t, summary, "Run ID:    test-run")
	assert.Contains(t, summary, "Command:   totals")
	assert.Contains(t, summary, "Files:     1")
	assert.Contains(t, summary, "Rows:      2")
	assert.Contains(t, summary, "jennifer-owen: $1,235")
}

func TestSearchWritesRunSummary(t *testing.T) {
	p, cfg := newTestPipeline(t)

	writeTestFile(t, filepath.Join(cfg.DataDir, "jennifer-owen-contributions.csv"),
		"First Name|Last Name|Entity Name|City|State|Amount\n"+
			"Mike|Nelson||Helena|MT|$100.00\n")

	searcher := &stubSearcher{hits: map[string][]search.Result{
		"Mike Nelson": {{Name: "Mike Nelson", Eid: "42"}},
	}}
	require.NoError(t, p.Search(context.Background(), searcher))

	matches, err := filepath.Glob(filepath.Join(cfg.ByDonorDir, "run_search_*.txt"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Run ID:    test-run")
	assert.Contains(t, string(data), "jennifer-owen: 1 rows in, 1 resolved rows out")
}

func TestFormatWholeDollars(t *testing.T) {
	assert.Equal(t, "0", formatWholeDollars(0))
	assert.Equal(t, "999", formatWholeDollars(999.4))
	assert.Equal(t, "1,000", formatWholeDollars(999.5))
	assert.Equal(t, "1,234,568", formatWholeDollars(1234567.89))
	assert.Equal(t, "-1,234", formatWholeDollars(-1234))

	// Exact half-dollar totals round to the even dollar.
	assert.Equal(t, "1,234", formatWholeDollars(1234.5))
	assert.Equal(t, "1,236", formatWholeDollars(1235.5))
}

// =============================================================================
// TIDY
// =============================================================================

func TestTidy(t *testing.T) {
	p, cfg := newTestPipeline(t)

	path := filepath.Join(cfg.DataDir, "jennifer-owen-contributions.csv")
	writeTestFile(t, path,
		"First Name|Last Name|Date Paid|Amount\n"+
			"Mike|Nelson|03/02/2024|100\n"+
			"Jane|Doe|01/15/2024|50\n"+
			"Mike|Nelson|03/02/2024|100\n"+
			"Ann|Lee|not-a-date|25\n")

	require.NoError(t, p.Tidy())

	_, records, err := rowio.ReadRaw(path)
	require.NoError(t, err)
	require.Len(t, records, 4, "exact duplicate removed")

	assert.Equal(t, "Jane", records[1][0], "earliest date first")
	assert.Equal(t, "Mike", records[2][0])
	assert.Equal(t, "Ann", records[3][0], "unparsable dates sink to the end")
}

func TestTidyNoDateColumn(t *testing.T) {
	p, cfg := newTestPipeline(t)

	path := filepath.Join(cfg.DataDir, "plain.csv")
	writeTestFile(t, path, "a,b\n2,x\n1,y\n2,x\n")

	require.NoError(t, p.Tidy())

	_, records, err := rowio.ReadRaw(path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"2", "x"}, {"1", "y"}}, records, "order kept without a date column")
}
