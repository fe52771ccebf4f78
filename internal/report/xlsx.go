// =============================================================================
// donorlens - XLSX Report Writer
// =============================================================================
//
// Renders the splits table as a spreadsheet for the people who consume these
// numbers outside the pipeline. Same data as splits.csv, one row per
// candidate, percentages as numeric cells so spreadsheet formulas keep
// working.
//
// =============================================================================

package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/civicsignal/donorlens/internal/party"
)

const splitsSheet = "Splits"

// WriteSplitsWorkbook writes the per-candidate party splits to an XLSX file.
func WriteSplitsWorkbook(path string, splits []party.Split) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(splitsSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	header := []interface{}{"candidate"}
	for _, c := range party.Categories() {
		header = append(header, string(c))
	}
	if err := f.SetSheetRow(splitsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, s := range splits {
		row := []interface{}{s.Candidate}
		for _, c := range party.Categories() {
			row = append(row, s.Percent[c])
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(splitsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
