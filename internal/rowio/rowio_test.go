package rowio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadTableCommaDelimited(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "donors-jane-doe.csv",
		"entityName,firstName,lastName,eid\nAcme PAC,,,101\n, Mike ,Nelson,102\n\n")

	table, err := ReadTable(path)
	require.NoError(t, err)

	assert.Equal(t, "donors-jane-doe", table.Name)
	assert.Equal(t, []string{"entityName", "firstName", "lastName", "eid"}, table.Header)
	require.Len(t, table.Rows, 2, "blank trailing line is skipped")
	assert.Equal(t, "Acme PAC", table.Rows[0]["entityName"])
	assert.Equal(t, "Mike", table.Rows[1]["firstName"], "values are trimmed")
}

func TestReadTablePipeDelimited(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "jane-doe-contributions.csv",
		"First Name|Last Name|Amount\nMike|Nelson|$150.00\n")

	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"First Name", "Last Name", "Amount"}, table.Header)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "$150.00", table.Rows[0]["Amount"])
}

func TestReadTableShortRowsPadded(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "short.csv", "a,b,c\n1,2\n")

	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, "", table.Rows[0]["c"])
}

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, '|', DetectDelimiter("a|b|c"))
	assert.Equal(t, ',', DetectDelimiter("a,b,c"))
	assert.Equal(t, ',', DetectDelimiter("header"))
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, '|', SniffDelimiter("a|b|c\n1|2|3\n"))
	assert.Equal(t, ';', SniffDelimiter("a;b;c\n1;2;3\n"))
	assert.Equal(t, '\t', SniffDelimiter("a\tb\n1\t2\n"))
	assert.Equal(t, ',', SniffDelimiter(""))
	assert.Equal(t, ',', SniffDelimiter("plain text"))
}

func TestResolveFields(t *testing.T) {
	m := ResolveFields([]string{"Entity Name", "First Name", "Middle Initial", "Last Name", "City", "State", "Total Amount"})

	row := map[string]string{
		"Entity Name":  " Acme PAC ",
		"First Name":   "Mike",
		"Last Name":    "Nelson",
		"City":         "Helena",
		"State":        "MT",
		"Total Amount": "$25",
	}

	dr := m.DonorRow(row)
	assert.Equal(t, "Acme PAC", dr.EntityName)
	assert.Equal(t, "Mike", dr.FirstName)
	assert.Equal(t, "Helena", dr.City)
	assert.Equal(t, "", dr.Eid, "absent columns read as empty")

	assert.Equal(t, "Total Amount", m.AmountField())
	assert.Equal(t, "$25", m.Amount(row))
}

func TestResolveFieldsCamelCase(t *testing.T) {
	m := ResolveFields([]string{"entityName", "firstName", "middleInitial", "lastName", "city", "state", "eid", "donationsToCampaign"})

	row := map[string]string{"eid": "42", "donationsToCampaign": "$1,000"}
	dr := m.DonorRow(row)
	assert.Equal(t, "42", dr.Eid)
	assert.Equal(t, "$1,000", dr.DonationsToCampaign)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "republican-party.csv")

	err := WriteCSV(path, []string{"entityName", "amount"}, [][]string{{"Acme PAC", "150"}})
	require.NoError(t, err)

	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"entityName", "amount"}, table.Header)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "150", table.Rows[0]["amount"])
}

func TestRewriteTablePreservesHeaderOrder(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "nonpartisan.csv", "entityName,amount\nAcme PAC,10\nOther,20\n")

	err := RewriteTable(path, []string{"entityName", "amount"},
		[]map[string]string{{"entityName": "Other", "amount": "20", "extra": "dropped"}})
	require.NoError(t, err)

	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"entityName", "amount"}, table.Header)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Other", table.Rows[0]["entityName"])
}

func TestReadWriteRawRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "raw.csv", "a|b\n1|2\n1|2\n3|4\n")

	delim, records, err := ReadRaw(path)
	require.NoError(t, err)
	assert.Equal(t, '|', delim)
	require.Len(t, records, 4, "raw records include the header and exact duplicates")

	require.NoError(t, WriteRaw(path, delim, records[:2]))
	_, records, err = ReadRaw(path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, records)
}

func TestStem(t *testing.T) {
	assert.Equal(t, "republican", Stem("/tmp/out/republican.csv"))
	assert.Equal(t, "jane-doe-duplicates", Stem("jane-doe-duplicates.txt"))
}
