package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"emi-calculator/domain"
)

const xlsxSheet = "Schedule"

// WriteXLSX writes the schedule as a single-sheet workbook with the same
// columns as the CSV export. Amounts are stored as numbers.
func WriteXLSX(w io.Writer, schedule []domain.InstallmentRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	for i, header := range csvHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(xlsxSheet, cell, header); err != nil {
			return fmt.Errorf("write xlsx header: %w", err)
		}
	}

	for i, rec := range schedule {
		row := []any{rec.Index, rec.Payment, rec.Interest, rec.Principal, rec.Balance}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", rec.Index, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
