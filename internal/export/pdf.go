package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/PlateArrange/internal/model"
)

// objectColor represents an RGB fill for a placed object.
type objectColor struct {
	R, G, B int
}

var objectColors = []objectColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF renders each plate on its own page, seen from above with the front
// edge at the bottom, followed by a summary page.
func ExportPDF(path string, result model.ArrangeResult) error {
	if len(result.Plates) == 0 {
		return fmt.Errorf("%w: no plates", ErrNothingToExport)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, plate := range result.Plates {
		pdf.AddPage()
		renderPlatePage(pdf, plate)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result)

	return pdf.OutputFileAndClose(path)
}

// plateCanvas maps plate millimetres to page coordinates.
type plateCanvas struct {
	scale, offsetX, offsetY float64
	plateDepth              float64
}

// rect returns the page rectangle for a plate-space rectangle.
func (c plateCanvas) rect(x, y, w, d float64) (px, py, pw, ph float64) {
	return c.offsetX + x*c.scale, c.offsetY + (c.plateDepth-y-d)*c.scale, w * c.scale, d * c.scale
}

func renderPlatePage(pdf *fpdf.Fpdf, plate model.PlateResult) {
	pc := plate.Config.Plate

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Plate %d (%.0f x %.0f mm)", plate.Index, pc.XDim, pc.YDim)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Objects: %d | Used area: %.0f mm² | Usable area: %.0f mm² | Efficiency: %.1f%% | Print order: %s, then %s",
		len(plate.Placements), plate.UsedArea(), plate.UsableArea(), plate.Efficiency(),
		pc.PrintDirections.First, pc.PrintDirections.Second)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/pc.XDim, drawHeight/pc.YDim)

	canvasW := pc.XDim * scale
	canvasH := pc.YDim * scale
	c := plateCanvas{
		scale:      scale,
		offsetX:    marginLeft + (drawWidth-canvasW)/2,
		offsetY:    drawAreaTop,
		plateDepth: pc.YDim,
	}

	pdf.SetFillColor(225, 225, 225)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(c.offsetX, c.offsetY, canvasW, canvasH, "FD")

	drawMargins(pdf, pc, c)

	for i, p := range plate.Placements {
		col := objectColors[i%len(objectColors)]
		px, py, pw, ph := c.rect(p.X, p.Y, p.Width, p.Depth)

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := displayName(p)
			dims := fmt.Sprintf("%.0fx%.0f", p.Width, p.Depth)
			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, pc, c, canvasW, canvasH)
	drawLegend(pdf, plate, c.offsetY+canvasH+5)
}

// drawMargins hatches the unusable border of the plate.
func drawMargins(pdf *fpdf.Fpdf, pc model.PlateConfig, c plateCanvas) {
	m := pc.Margins
	zones := []struct{ x, y, w, d float64 }{
		{0, 0, pc.XDim, m.Front},
		{0, pc.YDim - m.Back, pc.XDim, m.Back},
		{0, 0, m.Left, pc.YDim},
		{pc.XDim - m.Right, 0, m.Right, pc.YDim},
	}
	for _, z := range zones {
		if z.w <= 0 || z.d <= 0 {
			continue
		}
		zx, zy, zw, zh := c.rect(z.x, z.y, z.w, z.d)
		pdf.SetFillColor(255, 200, 200)
		pdf.SetDrawColor(200, 0, 0)
		pdf.SetLineWidth(0.3)
		pdf.Rect(zx, zy, zw, zh, "FD")
		drawHatchPattern(pdf, zx, zy, zw, zh)
	}
	pdf.SetTextColor(0, 0, 0)
}

// drawHatchPattern draws diagonal lines inside a rectangle.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.15)

	const spacing = 4.0
	for d := spacing; d < w+h; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)
		pdf.Line(x1, y1, x2, y2)
	}
}

// drawDimensionAnnotations labels the plate width below and the depth to the left.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, pc model.PlateConfig, c plateCanvas, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f mm (front)", pc.XDim)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(c.offsetX+(canvasW-wLabelW)/2, c.offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	depthLabel := fmt.Sprintf("%.0f mm", pc.YDim)
	pdf.TransformBegin()
	pdf.TransformRotate(90, c.offsetX-3, c.offsetY+canvasH/2)
	dLabelW := pdf.GetStringWidth(depthLabel)
	pdf.SetXY(c.offsetX-3-dLabelW/2, c.offsetY+canvasH/2-2)
	pdf.CellFormat(dLabelW, 4, depthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawLegend renders a compact legend of placed objects below the plate.
func drawLegend(pdf *fpdf.Fpdf, plate model.PlateResult, startY float64) {
	if len(plate.Placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Objects placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range plate.Placements {
		col := objectColors[i%len(objectColors)]
		label := fmt.Sprintf("%s %s (%.0fx%.0fx%.0f)", displayName(p), p.Name, p.Width, p.Depth, p.Height)
		if p.QuarterTurns%2 == 1 {
			label += " R"
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// tableColumn is one column of a summary table.
type tableColumn struct {
	title string
	width float64
}

func heading(pdf *fpdf.Fpdf, y float64, text string) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, text, "", 0, "L", false, 0, "")
	return y + 9
}

// keyValues prints label/value pairs one per line and returns the next y.
func keyValues(pdf *fpdf.Fpdf, y float64, pairs [][2]string) float64 {
	for _, kv := range pairs {
		pdf.SetXY(marginLeft+5, y)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(60, 6, kv[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(80, 6, kv[1], "", 0, "L", false, 0, "")
		y += 7
	}
	return y
}

// table draws a bordered table with shaded header and striped rows, and
// returns the y below it.
func table(pdf *fpdf.Fpdf, y float64, cols []tableColumn, rows [][]string) float64 {
	cell := func(row []string, bold bool, shade int) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.SetFillColor(shade, shade, shade)
		x := marginLeft
		for i, col := range cols {
			pdf.SetXY(x, y)
			pdf.CellFormat(col.width, 6, row[i], "1", 0, "C", true, 0, "")
			x += col.width
		}
		y += 6
	}

	titles := make([]string, len(cols))
	for i, col := range cols {
		titles[i] = col.title
	}
	cell(titles, true, 230)
	for i, row := range rows {
		cell(row, false, 255-10*((i+1)%2))
	}
	return y
}

func renderSummaryPage(pdf *fpdf.Fpdf, result model.ArrangeResult) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Arrangement Summary", "", 0, "L", false, 0, "")
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := heading(pdf, marginTop+18, "Totals")
	y = keyValues(pdf, y, [][2]string{
		{"Plates", fmt.Sprintf("%d", len(result.Plates))},
		{"Objects placed", fmt.Sprintf("%d", result.PlacedCount())},
		{"Objects unplaced", fmt.Sprintf("%d", len(result.Unplaced))},
		{"Plate usage", fmt.Sprintf("%.1f%%", result.TotalEfficiency())},
	})

	y = heading(pdf, y+5, "Plates")
	rows := make([][]string, 0, len(result.Plates))
	for _, plate := range result.Plates {
		pc := plate.Config.Plate
		bar := "no"
		if pc.Bar {
			bar = "yes"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", plate.Index),
			fmt.Sprintf("%.0f x %.0f mm", pc.XDim, pc.YDim),
			fmt.Sprintf("%s, then %s", pc.PrintDirections.First, pc.PrintDirections.Second),
			bar,
			fmt.Sprintf("%d", len(plate.Placements)),
			fmt.Sprintf("%.1f%%", plate.Efficiency()),
		})
	}
	y = table(pdf, y, []tableColumn{
		{"Plate", 18}, {"Size", 45}, {"Print order", 55}, {"X bar", 22}, {"Objects", 25}, {"Usage", 30},
	}, rows)

	if len(result.Plates) > 0 {
		head := result.Plates[0].Config.Extruder
		y = heading(pdf, y+6, "Extruder (first plate)")
		y = keyValues(pdf, y, [][2]string{
			{"Head", fmt.Sprintf("%.1f x %.1f mm", head.XDim, head.YDim)},
			{"Nozzle offset", fmt.Sprintf("%.1f, %.1f mm", head.ExtrusionPt.XPos, head.ExtrusionPt.YPos)},
			{"Column / row spacing", fmt.Sprintf("%.1f / %.1f mm", head.ColumnSpacing(), head.RowSpacing())},
		})
	}

	drawUnplaced(pdf, y+4, result.Unplaced)

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "PlateArrange", "", 0, "C", false, 0, "")
}

// drawUnplaced lists objects that never made it onto a plate, cut off at the
// page bottom.
func drawUnplaced(pdf *fpdf.Fpdf, y float64, unplaced []model.UnplacedFootprint) {
	if len(unplaced) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(200, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(200, 7, fmt.Sprintf("Not placed (%d)", len(unplaced)), "", 0, "L", false, 0, "")
	y += 8

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, u := range unplaced {
		pdf.SetXY(marginLeft+5, y)
		if y > pageHeight-marginBottom-8 {
			pdf.CellFormat(200, 5, "...", "", 0, "L", false, 0, "")
			return
		}
		pdf.CellFormat(200, 5, fmt.Sprintf("%s  %.0f x %.0f x %.0f mm", u.Name, u.Width, u.Depth, u.Height), "", 0, "L", false, 0, "")
		y += 5
	}
}

// labelFontSize returns a font size that fits the rectangle.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
