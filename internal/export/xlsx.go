package export

import (
	"fmt"

	"github.com/piwi3910/PlateArrange/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	placementsSheet = "Placements"
	platesSheet     = "Plates"
	unplacedSheet   = "Unplaced"
)

var (
	placementHeaders = []interface{}{"Plate", "Label", "Name", "ID", "X (mm)", "Y (mm)", "Width (mm)", "Depth (mm)", "Height (mm)", "Quarter Turns"}
	plateHeaders     = []interface{}{"Plate", "X Dim (mm)", "Y Dim (mm)", "First Direction", "Second Direction", "Objects", "Efficiency (%)"}
	unplacedHeaders  = []interface{}{"Name", "ID", "Width (mm)", "Depth (mm)", "Height (mm)"}
)

// ExportXLSX writes a workbook with one row per placement, a per-plate summary
// and the unplaced objects.
func ExportXLSX(path string, result model.ArrangeResult) error {
	if len(result.Plates) == 0 {
		return fmt.Errorf("%w: no plates", ErrNothingToExport)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), placementsSheet); err != nil {
		return err
	}
	for _, name := range []string{platesSheet, unplacedSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	w := sheetWriter{f: f, bold: bold}
	w.header(placementsSheet, placementHeaders)
	w.header(platesSheet, plateHeaders)
	w.header(unplacedSheet, unplacedHeaders)

	row := 2
	for _, plate := range result.Plates {
		pc := plate.Config.Plate
		w.row(platesSheet, plate.Index+1, []interface{}{
			plate.Index, pc.XDim, pc.YDim,
			string(pc.PrintDirections.First), string(pc.PrintDirections.Second),
			len(plate.Placements), round2(plate.Efficiency()),
		})
		for _, p := range plate.Placements {
			w.row(placementsSheet, row, []interface{}{
				plate.Index, displayName(p), p.Name, p.ID,
				p.X, p.Y, p.Width, p.Depth, p.Height, p.QuarterTurns,
			})
			row++
		}
	}
	for i, u := range result.Unplaced {
		w.row(unplacedSheet, i+2, []interface{}{u.Name, u.ID, u.Width, u.Depth, u.Height})
	}

	if w.err != nil {
		return w.err
	}
	return f.SaveAs(path)
}

// sheetWriter keeps the first error so row writes can be chained.
type sheetWriter struct {
	f    *excelize.File
	bold int
	err  error
}

func (w *sheetWriter) header(sheet string, values []interface{}) {
	w.row(sheet, 1, values)
	if w.err != nil {
		return
	}
	last, err := excelize.CoordinatesToCellName(len(values), 1)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(sheet, "A1", last, w.bold)
}

func (w *sheetWriter) row(sheet string, row int, values []interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, cell, &values)
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
