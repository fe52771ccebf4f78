// =============================================================================
// donorlens - CSV and Report Writing
// =============================================================================
//
// Output files are fully overwritten on every run; a rerun recomputes from
// scratch rather than merging with prior output. All dollar values reaching
// this layer are already formatted by the amount package.
//
// =============================================================================

package rowio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// WriteCSV writes a header and rows to path, creating parent directories as
// needed. Existing content is replaced.
func WriteCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()

	return writer.Error()
}

// RewriteTable overwrites a table's source file in place, preserving its
// header order. Rows may contain fields absent from the header; those are
// dropped, matching the original file's shape.
func RewriteTable(path string, header []string, rows []map[string]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to rewrite file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, h := range header {
			record[i] = row[h]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()

	return writer.Error()
}

// WriteRaw overwrites a file with raw records using the given delimiter,
// pairing with ReadRaw for in-place rewrites.
func WriteRaw(path string, delim rune, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to rewrite file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = delim
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()

	return writer.Error()
}

// WriteLines writes plain text lines to path, one per line, creating parent
// directories as needed.
func WriteLines(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	for _, line := range lines {
		if _, err := fmt.Fprintln(file, line); err != nil {
			return fmt.Errorf("failed to write line: %w", err)
		}
	}
	return nil
}
