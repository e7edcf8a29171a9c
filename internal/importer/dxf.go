package importer

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/piwi3910/PlateArrange/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
	"gonum.org/v1/gonum/spatial/r2"
)

// outline is a closed polygon in drawing coordinates.
type outline []r2.Vec

// bounds returns the axis-aligned bounding box of the outline.
func (o outline) bounds(height float64) model.Box {
	lo := r2.Vec{X: math.Inf(1), Y: math.Inf(1)}
	hi := r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, p := range o {
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	return model.Box{XMin: lo.X, XMax: hi.X, YMin: lo.Y, YMax: hi.Y, ZMax: height}
}

// area computes the absolute area with the shoelace formula.
func (o outline) area() float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var a float64
	for i := range o {
		j := (i + 1) % n
		a += o[i].X*o[j].Y - o[j].X*o[i].Y
	}
	return math.Abs(a) / 2
}

// segment is a line between two points, used for chaining loose LINE and ARC
// entities into closed outlines.
type segment struct {
	start, end r2.Vec
}

// ImportDXF reads closed shapes from a DXF file. Each LWPOLYLINE, CIRCLE or
// closed chain of LINEs and ARCs becomes one footprint sized to the shape's
// bounding box and extruded to the given height.
func ImportDXF(path string, height float64) ImportResult {
	result := ImportResult{}

	if height < 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid DXF height %.2f", height))
		return result
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines []outline
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			o := lwPolylineToOutline(e)
			if len(o) >= 3 {
				outlines = append(outlines, o)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			outlines = append(outlines, circleToOutline(e, 64))

		case *entity.Arc:
			pts := arcToPoints(e, 32)
			for i := 0; i+1 < len(pts); i++ {
				segments = append(segments, segment{start: pts[i], end: pts[i+1]})
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: r2.Vec{X: e.Start[0], Y: e.Start[1]},
				end:   r2.Vec{X: e.End[0], Y: e.End[1]},
			})
		}
	}

	outlines = append(outlines, chainSegments(segments, 0.01)...)

	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	for i, o := range outlines {
		box := o.bounds(height)
		if box.Width() < 0.01 || box.Depth() < 0.01 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f mm)", box.Width(), box.Depth()))
			continue
		}
		result.Footprints = append(result.Footprints,
			model.NewSolid(fmt.Sprintf("DXF Shape %d", i+1), box))
	}

	return result
}

// lwPolylineToOutline converts a LWPOLYLINE to an outline. Bulged vertices
// are expanded into arc points up to the next vertex.
func lwPolylineToOutline(lw *entity.LwPolyline) outline {
	var o outline
	n := len(lw.Vertices)
	for i, v := range lw.Vertices {
		current := r2.Vec{X: v[0], Y: v[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		if math.Abs(bulge) < 1e-9 {
			o = append(o, current)
			continue
		}

		nv := lw.Vertices[(i+1)%n]
		arc := bulgeArcPoints(current, r2.Vec{X: nv[0], Y: nv[1]}, bulge, 32)
		o = append(o, arc[:len(arc)-1]...)
	}
	return o
}

// bulgeArcPoints samples the arc between p1 and p2 described by a DXF bulge,
// the tangent of a quarter of the included angle. Positive bulges run
// counter-clockwise.
func bulgeArcPoints(p1, p2 r2.Vec, bulge float64, numSegments int) []r2.Vec {
	chord := r2.Sub(p2, p1)
	chordLen := r2.Norm(chord)
	if chordLen < 1e-9 {
		return []r2.Vec{p1, p2}
	}

	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	mid := r2.Scale(0.5, r2.Add(p1, p2))
	perp := r2.Vec{X: -chord.Y / chordLen, Y: chord.X / chordLen}
	if bulge < 0 {
		perp = r2.Scale(-1, perp)
	}
	center := r2.Add(mid, r2.Scale(radius-sagitta, perp))

	start := math.Atan2(p1.Y-center.Y, p1.X-center.X)
	end := math.Atan2(p2.Y-center.Y, p2.X-center.X)
	if bulge < 0 && end > start {
		end -= 2 * math.Pi
	}
	if bulge > 0 && end < start {
		end += 2 * math.Pi
	}

	return sampleArc(center, radius, start, end, numSegments)
}

// sampleArc returns numSegments+1 points from angle start to end (radians).
func sampleArc(center r2.Vec, radius, start, end float64, numSegments int) []r2.Vec {
	pts := make([]r2.Vec, numSegments+1)
	for i := range pts {
		t := float64(i) / float64(numSegments)
		angle := start + t*(end-start)
		pts[i] = r2.Vec{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		}
	}
	return pts
}

// circleToOutline approximates a circle as a regular polygon.
func circleToOutline(c *entity.Circle, numSegments int) outline {
	center := r2.Vec{X: c.Center[0], Y: c.Center[1]}
	pts := sampleArc(center, c.Radius, 0, 2*math.Pi, numSegments)
	return outline(pts[:numSegments])
}

// arcToPoints samples an ARC entity. DXF arc angles are in degrees and run
// counter-clockwise.
func arcToPoints(a *entity.Arc, numSegments int) []r2.Vec {
	center := r2.Vec{X: a.Circle.Center[0], Y: a.Circle.Center[1]}
	start := a.Angle[0] * math.Pi / 180
	end := a.Angle[1] * math.Pi / 180
	if end <= start {
		end += 2 * math.Pi
	}
	return sampleArc(center, a.Circle.Radius, start, end, numSegments)
}

// chainSegments joins segments whose endpoints lie within tolerance into
// closed outlines, largest first. Open chains are dropped.
func chainSegments(segs []segment, tolerance float64) []outline {
	used := make([]bool, len(segs))
	var outlines []outline

	for startIdx := range segs {
		if used[startIdx] {
			continue
		}
		used[startIdx] = true
		chain := outline{segs[startIdx].start, segs[startIdx].end}

		for extended := true; extended; {
			extended = false
			tail := chain[len(chain)-1]
			for i, seg := range segs {
				if used[i] {
					continue
				}
				switch {
				case pointsClose(tail, seg.start, tolerance):
					chain = append(chain, seg.end)
				case pointsClose(tail, seg.end, tolerance):
					chain = append(chain, seg.start)
				default:
					continue
				}
				used[i] = true
				extended = true
				break
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, chain[:len(chain)-1])
		}
	}

	slices.SortStableFunc(outlines, func(a, b outline) int {
		return cmp.Compare(b.area(), a.area())
	})
	return outlines
}

func pointsClose(a, b r2.Vec, tolerance float64) bool {
	return r2.Norm(r2.Sub(a, b)) <= tolerance
}
