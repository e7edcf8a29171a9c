package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/PlateArrange/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each object label's QR code.
type LabelInfo struct {
	Label        string  `json:"label"`
	Name         string  `json:"name"`
	ID           string  `json:"id"`
	Plate        int     `json:"plate"`
	X            float64 `json:"x_mm"`
	Y            float64 `json:"y_mm"`
	Width        float64 `json:"width_mm"`
	Depth        float64 `json:"depth_mm"`
	Height       float64 `json:"height_mm"`
	QuarterTurns int     `json:"quarter_turns,omitempty"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows
// on US Letter).
const (
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0
	labelPadding    = 2.0
)

// CollectLabelInfos extracts one LabelInfo per placement in plate order.
func CollectLabelInfos(result model.ArrangeResult) []LabelInfo {
	var labels []LabelInfo
	for _, plate := range result.Plates {
		for _, p := range plate.Placements {
			labels = append(labels, LabelInfo{
				Label:        displayName(p),
				Name:         p.Name,
				ID:           p.ID,
				Plate:        plate.Index,
				X:            p.X,
				Y:            p.Y,
				Width:        p.Width,
				Depth:        p.Depth,
				Height:       p.Height,
				QuarterTurns: p.QuarterTurns,
			})
		}
	}
	return labels
}

// ExportLabels generates a PDF label sheet with one QR-coded label per placed
// object. The QR code carries the LabelInfo as JSON.
func ExportLabels(path string, result model.ArrangeResult) error {
	if err := requirePlacements(result); err != nil {
		return err
	}
	labels := CollectLabelInfos(result)

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		pos := i % labelsPerPage
		x := labelMarginLeft + float64(pos%labelCols)*labelWidth
		y := labelMarginTop + float64(pos/labelCols)*labelHeight

		if err := renderLabel(pdf, x, y, i, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.Label, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

func renderLabel(pdf *fpdf.Fpdf, x, y float64, seq int, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", seq)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(qrPNG))
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, opts, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, info.Label, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, truncate(pdf, info.Name, textW), "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+9)
	dims := fmt.Sprintf("%.0f x %.0f x %.0f mm", info.Width, info.Depth, info.Height)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+13)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Plate %d @ (%.0f, %.0f)", info.Plate, info.X, info.Y), "", 1, "L", false, 0, "")

	if info.QuarterTurns != 0 {
		pdf.SetXY(textX, y+labelPadding+16.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, fmt.Sprintf("Rotated %d\xb0", info.QuarterTurns*90), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis until it fits in w at the current font.
func truncate(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > w {
		s = s[:len(s)-1]
	}
	return s + "..."
}
