package export

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"
)

// SheetData is one trace destined for its own worksheet.
type SheetData struct {
	Name   string
	Label  string
	Regime string
	Delta  float64
	Mass   float64
	K      float64
	B      float64
	X0     float64
	V0     float64
	Times  []float64
	Xs     []float64
}

// WriteXLSX builds a workbook with a summary sheet plus one sheet of
// (time, x) samples per trace.
func WriteXLSX(w io.Writer, sheets []SheetData) error {
	if len(sheets) == 0 {
		return fmt.Errorf("export: no traces to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return err
	}

	header := []interface{}{"sheet", "label", "regime", "delta", "m", "k", "b", "x0", "v0", "samples"}
	for col, v := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(summary, cell, v); err != nil {
			return err
		}
	}

	for i, sd := range sheets {
		name := sd.Name
		if name == "" {
			name = fmt.Sprintf("Trace%d", i+1)
		}
		if _, err := f.NewSheet(name); err != nil {
			return err
		}

		row := []interface{}{
			name, legendText(sd.Label), sd.Regime, sd.Delta,
			sd.Mass, sd.K, sd.B, sd.X0, sd.V0, len(sd.Xs),
		}
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(summary, cell, v); err != nil {
				return err
			}
		}

		if err := f.SetCellValue(name, "A1", "time"); err != nil {
			return err
		}
		if err := f.SetCellValue(name, "B1", "x"); err != nil {
			return err
		}
		for j := range sd.Times {
			tCell, err := excelize.CoordinatesToCellName(1, j+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, tCell, sd.Times[j]); err != nil {
				return err
			}
			xCell, err := excelize.CoordinatesToCellName(2, j+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, xCell, sd.Xs[j]); err != nil {
				return err
			}
		}
	}

	_, err := f.WriteTo(w)
	return err
}

// WriteXLSXFile renders the workbook to a file.
func WriteXLSXFile(path string, sheets []SheetData) error {
	if len(sheets) == 0 {
		return fmt.Errorf("export: no traces to export")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteXLSX(f, sheets)
}
