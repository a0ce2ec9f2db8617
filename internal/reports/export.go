package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Promet"

// WriteXLSX writes one row per business day plus a total line.
func WriteXLSX(w io.Writer, days []DayTotal, currency string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := []any{"Dan", "Artikala", fmt.Sprintf("Promet (%s)", currency)}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, d := range days {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{d.Day, d.Qty, d.Revenue.InexactFloat64()}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write day %s: %w", d.Day, err)
		}
	}

	sum := Sum(days)
	cell, err := excelize.CoordinatesToCellName(1, len(days)+2)
	if err != nil {
		return err
	}
	footer := []any{"UKUPNO", sum.Qty, sum.Revenue.InexactFloat64()}
	if err := f.SetSheetRow(exportSheet, cell, &footer); err != nil {
		return fmt.Errorf("write total: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
