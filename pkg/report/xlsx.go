package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/critex/critex/pkg/criteria"
)

// TablesFilename is the per-job table workbook name.
const TablesFilename = "tables.xlsx"

// WriteTablesXLSX writes every extracted table to a workbook at path, one
// sheet per table. No file is written when the document had no tables.
func WriteTablesXLSX(dc *criteria.DesignCriteria, path string) error {
	if len(dc.Tables) == 0 {
		return nil
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for i, table := range dc.Tables {
		sheet := fmt.Sprintf("Table %d (p%d)", i+1, table.Page)
		if i == 0 {
			// excelize starts every workbook with a default sheet
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return err
			}
		}

		row := 1
		for _, header := range table.HeaderRows {
			if err := writeRow(f, sheet, row, header); err != nil {
				return err
			}
			end, _ := excelize.CoordinatesToCellName(len(header), row)
			start, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetCellStyle(sheet, start, end, headerStyle); err != nil {
				return err
			}
			row++
		}
		for _, cells := range table.Rows {
			if err := writeRow(f, sheet, row, cells); err != nil {
				return err
			}
			row++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []string) error {
	for col, value := range cells {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}
