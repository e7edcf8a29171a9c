package engine

import (
	"github.com/piwi3910/PlateArrange/internal/model"
	"gonum.org/v1/gonum/spatial/r2"
)

// Plate packs footprints into rows ("shelves") from its start corner.
// It is not safe for concurrent use.
type Plate struct {
	cfg    model.Config
	orient orientation
	// canonical is true while the plate is in the packing frame.
	canonical bool

	xDim, yDim float64
	margins    model.Margins

	xStartScan, yStartScan float64
	effXDim, effYDim       float64
	xScan, yScan           float64

	placed []model.Footprint
}

// NewPlate creates an empty plate in the physical frame described by cfg.
func NewPlate(cfg model.Config) (*Plate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o, err := newOrientation(cfg.Plate.PrintDirections)
	if err != nil {
		return nil, err
	}
	p := &Plate{cfg: cfg, orient: o}
	p.applyFrame()
	return p, nil
}

// Place puts fp at the scan cursor, wrapping to a new row when the current one is full.
// On success it returns the min corner the footprint was moved to. On rejection the
// returned error wraps ErrPlacementRejected and the plate is left unchanged.
func (p *Plate) Place(fp model.Footprint, head model.ExtrusionHead) (r2.Vec, error) {
	b := fp.Bounds()
	w, d := b.Width(), b.Depth()

	colSpacing := head.ColumnSpacing()
	rowSpacing := head.RowSpacing()
	yMaxPlaced := p.yMaxPlaced()

	xScan, yScan := p.xScan, p.yScan
	if xScan+w > p.effXDim {
		yScan = yMaxPlaced + rowSpacing
		xScan = p.xStartScan
	}

	// A footprint wider than the whole row can never fit.
	if xScan+w > p.effXDim || yScan+d > p.effYDim {
		return r2.Vec{}, &PlacementError{ID: fp.ID(), Name: fp.Name(), Width: w, Depth: d}
	}

	pos := fp.Position()
	pos.X += xScan - b.XMin
	pos.Y += yScan - b.YMin
	fp.SetPosition(pos)
	p.placed = append(p.placed, fp)

	yMaxPlaced = max(yMaxPlaced, fp.Bounds().YMax)
	p.xScan = xScan + w + colSpacing
	p.yScan = yScan
	if p.cfg.Plate.Bar {
		// The X-axis bar behind the nozzle has to clear everything already printed.
		p.yScan = max(yMaxPlaced-head.BarClearance(), p.yScan)
	}
	return r2.Vec{X: xScan, Y: yScan}, nil
}

func (p *Plate) yMaxPlaced() float64 {
	yMax := 0.0
	for _, fp := range p.placed {
		yMax = max(yMax, fp.Bounds().YMax)
	}
	return yMax
}

// applyFrame sets dims and margins for the current frame and resets the cursor.
func (p *Plate) applyFrame() {
	pc := p.cfg.Plate
	p.xDim, p.yDim = pc.XDim, pc.YDim
	p.margins = pc.Margins
	if p.canonical {
		p.xDim, p.yDim, p.margins = p.orient.canonicalPlate(pc.XDim, pc.YDim, pc.Margins)
	}
	p.xStartScan = p.margins.Left
	p.yStartScan = p.margins.Front
	p.effXDim = p.xDim - p.margins.Right
	p.effYDim = p.yDim - p.margins.Back
	p.xScan, p.yScan = p.xStartScan, p.yStartScan
}

// Config returns the configuration the plate was built from.
func (p *Plate) Config() model.Config { return p.cfg }

// Head returns the extrusion head configured for this plate.
func (p *Plate) Head() model.ExtrusionHead { return p.cfg.Extruder }

// Canonical reports whether the plate is currently in the packing frame.
func (p *Plate) Canonical() bool { return p.canonical }

// Placed returns the placed footprints in insertion order.
func (p *Plate) Placed() []model.Footprint {
	out := make([]model.Footprint, len(p.placed))
	copy(out, p.placed)
	return out
}

// Cursor returns the current scan position.
func (p *Plate) Cursor() r2.Vec { return r2.Vec{X: p.xScan, Y: p.yScan} }

// StartScan returns the corner packing starts from.
func (p *Plate) StartScan() r2.Vec { return r2.Vec{X: p.xStartScan, Y: p.yStartScan} }

// EffectiveDims returns the far edges of the usable area.
func (p *Plate) EffectiveDims() r2.Vec { return r2.Vec{X: p.effXDim, Y: p.effYDim} }

// Margins returns the margins of the current frame.
func (p *Plate) Margins() model.Margins { return p.margins }

// UsableBox returns the usable area in the current frame.
func (p *Plate) UsableBox() model.Box {
	return model.Box{XMin: p.xStartScan, XMax: p.effXDim, YMin: p.yStartScan, YMax: p.effYDim}
}
