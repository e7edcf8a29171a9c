package export

import (
	"fmt"

	"github.com/piwi3910/PlateArrange/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"
)

// plateGap is the X spacing between plates in the DXF layout (mm).
const plateGap = 20.0

// ExportDXF draws every plate outline, its usable area and the placed rectangles
// as LINE entities with TEXT labels. Plates are laid out left to right along X.
func ExportDXF(path string, result model.ArrangeResult) error {
	if len(result.Plates) == 0 {
		return fmt.Errorf("%w: no plates", ErrNothingToExport)
	}

	d := dxf.NewDrawing()
	offsetX := 0.0
	for _, plate := range result.Plates {
		if err := drawPlateDXF(d, plate, offsetX); err != nil {
			return fmt.Errorf("plate %d: %w", plate.Index, err)
		}
		offsetX += plate.Config.Plate.XDim + plateGap
	}
	return d.SaveAs(path)
}

func drawPlateDXF(d *drawing.Drawing, plate model.PlateResult, offsetX float64) error {
	pc := plate.Config.Plate
	if err := dxfRect(d, offsetX, 0, pc.XDim, pc.YDim); err != nil {
		return err
	}

	m := pc.Margins
	if m.Left > 0 || m.Right > 0 || m.Front > 0 || m.Back > 0 {
		err := dxfRect(d, offsetX+m.Left, m.Front, pc.XDim-m.Left-m.Right, pc.YDim-m.Front-m.Back)
		if err != nil {
			return err
		}
	}

	if _, err := d.Text(fmt.Sprintf("Plate %d", plate.Index), offsetX, pc.YDim+5, 0, 5); err != nil {
		return err
	}

	for _, p := range plate.Placements {
		if err := dxfRect(d, offsetX+p.X, p.Y, p.Width, p.Depth); err != nil {
			return err
		}
		height := min(p.Width, p.Depth) / 5
		if height > 0 {
			if _, err := d.Text(displayName(p), offsetX+p.X+1, p.Y+1, 0, min(height, 5)); err != nil {
				return err
			}
		}
	}
	return nil
}

// dxfRect adds the four edges of an axis-aligned rectangle.
func dxfRect(d *drawing.Drawing, x, y, w, h float64) error {
	corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i, c := range corners {
		n := corners[(i+1)%len(corners)]
		if _, err := d.Line(c[0], c[1], 0, n[0], n[1], 0); err != nil {
			return err
		}
	}
	return nil
}
