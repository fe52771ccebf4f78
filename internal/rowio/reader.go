// =============================================================================
// donorlens - CSV Reading
// =============================================================================
//
// Thin I/O layer between on-disk CSV files and the core's structured rows.
// The reader preserves two things the core depends on:
//
//   - header order, because the duplicate detector builds its match-field
//     union in first-seen order, and
//   - row order, because "first seen wins" policies are defined against the
//     source file's order.
//
// Delimiters are not configured per file; the contribution exports mix pipe
// and comma delimiters, so the delimiter is detected from the header line.
//
// =============================================================================

package rowio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Table is one parsed CSV file.
type Table struct {
	// Name is the file stem (base name without extension).
	Name string

	// Header holds the column names in file order.
	Header []string

	// Rows holds the data rows as header -> trimmed value maps.
	Rows []map[string]string
}

// DetectDelimiter picks the delimiter from a file's header line: pipe when
// present, comma otherwise.
func DetectDelimiter(headerLine string) rune {
	if strings.ContainsRune(headerLine, '|') {
		return '|'
	}
	return ','
}

// SniffDelimiter inspects up to the first five non-empty lines of a sample
// and returns the candidate delimiter with the highest count. Comma wins
// when nothing scores.
func SniffDelimiter(sample string) rune {
	var lines []string
	for _, ln := range strings.Split(sample, "\n") {
		if strings.TrimSpace(ln) != "" {
			lines = append(lines, ln)
		}
		if len(lines) == 5 {
			break
		}
	}

	best, bestCount := ',', 0
	for _, d := range []rune{',', '|', '\t', ';'} {
		count := 0
		for _, ln := range lines {
			count += strings.Count(ln, string(d))
		}
		if count > bestCount {
			best, bestCount = d, count
		}
	}
	return best
}

// ReadTable parses a CSV file into a Table, detecting the delimiter from the
// header line. Values are trimmed; short rows pad missing columns with "".
func ReadTable(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	headerLine, err := reader.ReadString('\n')
	if err != nil && headerLine == "" {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	delim := DetectDelimiter(headerLine)

	// Rewind by re-opening through a fresh reader over the full content.
	if _, err := file.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("failed to rewind file: %w", err)
	}

	csvReader := csv.NewReader(bufio.NewReader(file))
	csvReader.Comma = delim
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	table := &Table{Name: Stem(path)}
	if len(records) == 0 {
		return table, nil
	}

	table.Header = make([]string, len(records[0]))
	for i, h := range records[0] {
		table.Header[i] = strings.TrimSpace(h)
	}

	for _, record := range records[1:] {
		if isEmptyRecord(record) {
			continue
		}
		row := make(map[string]string, len(table.Header))
		for i, h := range table.Header {
			if i < len(record) {
				row[h] = strings.TrimSpace(record[i])
			} else {
				row[h] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// ReadRaw parses a CSV file into raw records without header mapping, sniffing
// the delimiter from an 8 KiB sample. The tidy pass needs the records exactly
// as written, duplicate columns and all.
func ReadRaw(path string) (rune, [][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ',', nil, fmt.Errorf("failed to read file: %w", err)
	}

	sample := data
	if len(sample) > 8192 {
		sample = sample[:8192]
	}
	delim := SniffDelimiter(string(sample))

	csvReader := csv.NewReader(strings.NewReader(string(data)))
	csvReader.Comma = delim
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return delim, nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return delim, records, nil
}

// Stem returns a path's base name without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isEmptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
