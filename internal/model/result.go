package model

// Placement represents a single footprint placed on a plate.
type Placement struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Label        string  `json:"label,omitempty"`
	X            float64 `json:"x"` // Min corner from the left edge (mm)
	Y            float64 `json:"y"` // Min corner from the front edge (mm)
	Width        float64 `json:"width"`
	Depth        float64 `json:"depth"`
	Height       float64 `json:"height"`
	QuarterTurns int     `json:"quarter_turns,omitempty"`

	Footprint Footprint `json:"-"`
}

// NewPlacement snapshots a footprint's current bounds.
func NewPlacement(fp Footprint) Placement {
	b := fp.Bounds()
	p := Placement{
		ID:        fp.ID(),
		Name:      fp.Name(),
		X:         b.XMin,
		Y:         b.YMin,
		Width:     b.Width(),
		Depth:     b.Depth(),
		Height:    b.Height(),
		Footprint: fp,
	}
	if s, ok := fp.(*Solid); ok {
		p.Label = s.Label()
		p.QuarterTurns = s.QuarterTurns()
	}
	return p
}

// Bounds returns the placed rectangle.
func (p Placement) Bounds() Box {
	return Box{XMin: p.X, XMax: p.X + p.Width, YMin: p.Y, YMax: p.Y + p.Depth, ZMax: p.Height}
}

// PlateResult represents one build plate with its placed footprints.
type PlateResult struct {
	Index      int         `json:"index"` // 1-based
	Config     Config      `json:"config"`
	Placements []Placement `json:"placements"`
}

// UsedArea returns the total plan area used by placed footprints.
func (pr PlateResult) UsedArea() float64 {
	var total float64
	for _, p := range pr.Placements {
		total += p.Width * p.Depth
	}
	return total
}

// UsableArea returns the plate area inside the margins.
func (pr PlateResult) UsableArea() float64 {
	pc := pr.Config.Plate
	w := pc.XDim - pc.Margins.Left - pc.Margins.Right
	h := pc.YDim - pc.Margins.Front - pc.Margins.Back
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Efficiency returns the usage percentage of the usable area.
func (pr PlateResult) Efficiency() float64 {
	ua := pr.UsableArea()
	if ua == 0 {
		return 0
	}
	return (pr.UsedArea() / ua) * 100.0
}

// UnplacedFootprint identifies a footprint that was never placed.
type UnplacedFootprint struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
}

// NewUnplaced snapshots a footprint that could not be placed.
func NewUnplaced(fp Footprint) UnplacedFootprint {
	b := fp.Bounds()
	return UnplacedFootprint{ID: fp.ID(), Name: fp.Name(), Width: b.Width(), Depth: b.Depth(), Height: b.Height()}
}

// ArrangeResult holds the full arrangement.
type ArrangeResult struct {
	Plates   []PlateResult       `json:"plates"`
	Unplaced []UnplacedFootprint `json:"unplaced"`
}

// PlacedCount returns the number of placed footprints over all plates.
func (ar ArrangeResult) PlacedCount() int {
	n := 0
	for _, p := range ar.Plates {
		n += len(p.Placements)
	}
	return n
}

// TotalEfficiency returns overall usage of the usable plate area.
func (ar ArrangeResult) TotalEfficiency() float64 {
	var used, usable float64
	for _, p := range ar.Plates {
		used += p.UsedArea()
		usable += p.UsableArea()
	}
	if usable == 0 {
		return 0
	}
	return (used / usable) * 100.0
}

// ViolationKind classifies a layout defect.
type ViolationKind string

const (
	ViolationOverlap     ViolationKind = "overlap"
	ViolationOutOfBounds ViolationKind = "out_of_bounds"
)

// Violation describes a footprint that overlaps another or leaves the usable area.
type Violation struct {
	Kind    ViolationKind `json:"kind"`
	ID      string        `json:"id"`
	OtherID string        `json:"other_id,omitempty"`
}
