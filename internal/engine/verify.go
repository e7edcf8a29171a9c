package engine

import "github.com/piwi3910/PlateArrange/internal/model"

const boundsTolerance = 1e-6

type placedBox struct {
	id  string
	box model.Box
}

// CheckLayout reports footprints that leave the usable area or overlap another one,
// in the plate's current frame. Each overlapping pair is reported once.
func CheckLayout(p *Plate) []model.Violation {
	boxes := make([]placedBox, len(p.placed))
	for i, fp := range p.placed {
		boxes[i] = placedBox{id: fp.ID(), box: fp.Bounds()}
	}
	return checkBoxes(p.UsableBox(), boxes)
}

// CheckResult runs the same checks on a finished arrangement against the physical
// usable area of each plate. Plates without violations are omitted.
func CheckResult(result model.ArrangeResult) map[int][]model.Violation {
	out := make(map[int][]model.Violation)
	for _, pr := range result.Plates {
		pc := pr.Config.Plate
		usable := model.Box{
			XMin: pc.Margins.Left, XMax: pc.XDim - pc.Margins.Right,
			YMin: pc.Margins.Front, YMax: pc.YDim - pc.Margins.Back,
		}
		boxes := make([]placedBox, len(pr.Placements))
		for i, p := range pr.Placements {
			boxes[i] = placedBox{id: p.ID, box: p.Bounds()}
		}
		if v := checkBoxes(usable, boxes); len(v) > 0 {
			out[pr.Index] = v
		}
	}
	return out
}

func checkBoxes(usable model.Box, boxes []placedBox) []model.Violation {
	var violations []model.Violation
	for i, pb := range boxes {
		b := pb.box
		if b.XMin < usable.XMin-boundsTolerance || b.XMax > usable.XMax+boundsTolerance ||
			b.YMin < usable.YMin-boundsTolerance || b.YMax > usable.YMax+boundsTolerance {
			violations = append(violations, model.Violation{Kind: model.ViolationOutOfBounds, ID: pb.id})
		}
		for _, other := range boxes[i+1:] {
			if b.Overlaps(other.box) {
				violations = append(violations, model.Violation{
					Kind:    model.ViolationOverlap,
					ID:      pb.id,
					OtherID: other.id,
				})
			}
		}
	}
	return violations
}
