package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Report"

// amountFormat is excelize's built-in "#,##0.00".
const amountFormat = 4

// WriteXLSX renders a single-sheet workbook. Amounts are stored as numbers with two decimals.
func WriteXLSX(w io.Writer, h Header, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: amountFormat})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	row := 1
	for _, line := range h.Lines() {
		if err := f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), line); err != nil {
			return err
		}
		row++
	}
	row++ // blank line

	for i, col := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, bold); err != nil {
			return err
		}
	}
	row++

	rows := t.Rows
	if t.Footer != nil {
		rows = append(rows[:len(rows):len(rows)], t.Footer)
	}
	for _, values := range rows {
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if d, ok := v.(decimal.Decimal); ok {
				if err := f.SetCellFloat(sheetName, cell, d.InexactFloat64(), 2, 64); err != nil {
					return err
				}
				if err := f.SetCellStyle(sheetName, cell, cell, amount); err != nil {
					return err
				}
				continue
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
		row++
	}

	if err := f.SetColWidth(sheetName, "A", "I", 16); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// Write renders t in the requested format.
func Write(w io.Writer, format Format, h Header, t Table) error {
	if format == FormatXLSX {
		return WriteXLSX(w, h, t)
	}
	return WriteCSV(w, h, t)
}
