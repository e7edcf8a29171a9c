package engine

import (
	"github.com/piwi3910/PlateArrange/internal/model"
	"gonum.org/v1/gonum/spatial/r2"
)

// orientation maps the canonical packing frame (first axis from the left,
// second from the front) onto the physical plate.
type orientation struct {
	a     [2][2]float64
	flipX bool // physical X runs from the right
	flipY bool // physical Y runs from the back
	swap  bool // first print axis is physical Y
}

func newOrientation(pd model.PrintDirections) (orientation, error) {
	a, err := pd.Matrix()
	if err != nil {
		return orientation{}, err
	}
	return orientation{
		a:     a,
		flipX: a[0][0] == -1 || a[0][1] == -1,
		flipY: a[1][0] == -1 || a[1][1] == -1,
		swap:  a[0][0] == 0,
	}, nil
}

// canonicalPlate returns the plate dims and margins as seen from the packing frame.
func (o orientation) canonicalPlate(xDim, yDim float64, m model.Margins) (float64, float64, model.Margins) {
	if o.flipX {
		m.Left, m.Right = m.Right, m.Left
	}
	if o.flipY {
		m.Front, m.Back = m.Back, m.Front
	}
	if o.swap {
		xDim, yDim = yDim, xDim
		m = model.Margins{Left: m.Front, Right: m.Back, Front: m.Left, Back: m.Right}
	}
	return xDim, yDim, m
}

// offset keeps reflected coordinates inside the physical plate.
func (o orientation) offset(xDim, yDim float64) r2.Vec {
	var t r2.Vec
	if o.flipX {
		t.X = xDim
	}
	if o.flipY {
		t.Y = yDim
	}
	return t
}

func (o orientation) toPhysical(c r2.Vec, xDim, yDim float64) r2.Vec {
	v := r2.Vec{
		X: o.a[0][0]*c.X + o.a[0][1]*c.Y,
		Y: o.a[1][0]*c.X + o.a[1][1]*c.Y,
	}
	return r2.Add(v, o.offset(xDim, yDim))
}

// toCanonical applies the inverse of toPhysical; A is orthogonal so A⁻¹ = Aᵀ.
func (o orientation) toCanonical(p r2.Vec, xDim, yDim float64) r2.Vec {
	v := r2.Sub(p, o.offset(xDim, yDim))
	return r2.Vec{
		X: o.a[0][0]*v.X + o.a[1][0]*v.Y,
		Y: o.a[0][1]*v.X + o.a[1][1]*v.Y,
	}
}

// Reflect switches the plate between its physical frame and the canonical packing
// frame. Margins and usable area are remapped, the scan cursor is reset, and every
// placed footprint is moved so its center lands on the mapped center. When the first
// print axis runs along physical Y each footprint is also turned a quarter turn.
//
// Call it once on the empty plate before packing and once after packing; two calls
// restore every footprint.
func (p *Plate) Reflect() {
	o := p.orient
	xDim, yDim := p.cfg.Plate.XDim, p.cfg.Plate.YDim
	toPhysical := p.canonical

	for _, fp := range p.placed {
		c := fp.Bounds().Center()
		var target r2.Vec
		if toPhysical {
			target = o.toPhysical(c, xDim, yDim)
			if o.swap {
				fp.Rotate(1)
			}
		} else {
			target = o.toCanonical(c, xDim, yDim)
			if o.swap {
				fp.Rotate(-1)
			}
		}
		delta := r2.Sub(target, fp.Bounds().Center())
		pos := fp.Position()
		pos.X += delta.X
		pos.Y += delta.Y
		fp.SetPosition(pos)
	}

	p.canonical = !p.canonical
	p.applyFrame()
}
