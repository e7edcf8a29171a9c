package model

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
)

// MaxObjects bounds the number of footprints one object list or request may
// expand to.
const MaxObjects = 10000

// Point3D represents a 3D coordinate in mm.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Box is an axis-aligned bounding box in world coordinates (mm).
type Box struct {
	XMin float64 `json:"x_min"`
	XMax float64 `json:"x_max"`
	YMin float64 `json:"y_min"`
	YMax float64 `json:"y_max"`
	ZMin float64 `json:"z_min"`
	ZMax float64 `json:"z_max"`
}

// Width returns the X extent.
func (b Box) Width() float64 { return b.XMax - b.XMin }

// Depth returns the Y extent.
func (b Box) Depth() float64 { return b.YMax - b.YMin }

// Height returns the Z extent. It is only used for ordering.
func (b Box) Height() float64 { return b.ZMax - b.ZMin }

// Center returns the plan-view center of the box.
func (b Box) Center() r2.Vec {
	return r2.Vec{X: (b.XMin + b.XMax) / 2, Y: (b.YMin + b.YMax) / 2}
}

// Translate shifts the box by dx, dy, dz.
func (b Box) Translate(dx, dy, dz float64) Box {
	return Box{
		XMin: b.XMin + dx, XMax: b.XMax + dx,
		YMin: b.YMin + dy, YMax: b.YMax + dy,
		ZMin: b.ZMin + dz, ZMax: b.ZMax + dz,
	}
}

// Overlaps reports whether two boxes overlap in plan view (touching edges do not count).
func (b Box) Overlaps(o Box) bool {
	const eps = 1e-9
	return b.XMin < o.XMax-eps && b.XMax > o.XMin+eps &&
		b.YMin < o.YMax-eps && b.YMax > o.YMin+eps
}

// Footprint is an object placed on a plate. Implementations are owned by the
// caller; the engine only holds references and mutates position and rotation.
type Footprint interface {
	ID() string
	Name() string
	// Bounds returns the axis-aligned world bounding box.
	Bounds() Box
	Position() Point3D
	SetPosition(p Point3D)
	// Rotate turns the footprint by quarterTurns * 90° counter-clockwise
	// about its plan-view center. Negative values turn clockwise.
	Rotate(quarterTurns int)
	// Duplicate returns an independent copy with a fresh ID.
	Duplicate() Footprint
}

// Labeler is implemented by footprints that accept a positional label.
type Labeler interface {
	SetLabel(label string)
}

// Solid is an in-memory footprint: a local bounding box carried at a position.
type Solid struct {
	id       string
	name     string
	label    string
	extent   Box // relative to pos
	pos      Point3D
	quarters int
}

// NewSolid creates a solid from a world bounding box. The position starts at the origin,
// so the local extent equals the given box.
func NewSolid(name string, bounds Box) *Solid {
	return &Solid{
		id:     uuid.New().String()[:8],
		name:   name,
		extent: bounds,
	}
}

// NewBoxSolid creates a w x d x h box with its minimum corner at the origin.
func NewBoxSolid(name string, w, d, h float64) *Solid {
	return NewSolid(name, Box{XMax: w, YMax: d, ZMax: h})
}

func (s *Solid) ID() string    { return s.id }
func (s *Solid) Name() string  { return s.name }
func (s *Solid) Label() string { return s.label }

// SetLabel implements Labeler.
func (s *Solid) SetLabel(label string) { s.label = label }

// QuarterTurns returns the accumulated rotation in quarter turns, normalized to 0..3.
func (s *Solid) QuarterTurns() int { return s.quarters }

func (s *Solid) Bounds() Box {
	return s.extent.Translate(s.pos.X, s.pos.Y, s.pos.Z)
}

func (s *Solid) Position() Point3D     { return s.pos }
func (s *Solid) SetPosition(p Point3D) { s.pos = p }

func (s *Solid) Rotate(quarterTurns int) {
	q := ((quarterTurns % 4) + 4) % 4
	if q == 0 {
		return
	}
	s.quarters = (s.quarters + q) % 4
	if q%2 == 0 {
		// half turn keeps the extents about the center
		return
	}
	// Odd turns swap the plan extents about the local center.
	c := s.extent.Center()
	hw := s.extent.Depth() / 2
	hd := s.extent.Width() / 2
	s.extent.XMin, s.extent.XMax = c.X-hw, c.X+hw
	s.extent.YMin, s.extent.YMax = c.Y-hd, c.Y+hd
}

func (s *Solid) Duplicate() Footprint {
	cp := *s
	cp.id = uuid.New().String()[:8]
	return &cp
}

// DropToPlate moves every footprint along Z so its lowest point rests at z = 0.
func DropToPlate(fps []Footprint) {
	for _, fp := range fps {
		p := fp.Position()
		p.Z -= fp.Bounds().ZMin
		fp.SetPosition(p)
	}
}
