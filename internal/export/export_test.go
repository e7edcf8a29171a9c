package export

import (
	"errors"
	"testing"

	"github.com/piwi3910/PlateArrange/internal/model"
)

// placed builds a placement backed by a solid at (x, y).
func placed(name string, x, y, w, d, h float64) model.Placement {
	s := model.NewBoxSolid(name, w, d, h)
	s.SetPosition(model.Point3D{X: x, Y: y})
	return model.NewPlacement(s)
}

// buildTestResult creates a two-plate arrangement on 200 x 200 plates.
func buildTestResult() model.ArrangeResult {
	cfg := model.DefaultConfig()
	cfg.Plate.Margins = model.Margins{Left: 5, Right: 5, Front: 5, Back: 5}
	return model.ArrangeResult{
		Plates: []model.PlateResult{
			{
				Index:  1,
				Config: cfg,
				Placements: []model.Placement{
					placed("Bracket", 10, 10, 60, 40, 20),
					placed("Knob", 80, 10, 30, 30, 15),
					placed("Clip", 10, 60, 20, 10, 5),
				},
			},
			{
				Index:  2,
				Config: cfg,
				Placements: []model.Placement{
					placed("Housing", 10, 10, 150, 120, 40),
				},
			},
		},
	}
}

func TestAssignLabels(t *testing.T) {
	result := buildTestResult()
	AssignLabels(&result)

	want := [][]string{{"P1-1", "P1-2", "P1-3"}, {"P2-1"}}
	for pi, plate := range result.Plates {
		for i, p := range plate.Placements {
			if p.Label != want[pi][i] {
				t.Errorf("plate %d placement %d: label %q, want %q", pi+1, i+1, p.Label, want[pi][i])
			}
			s, ok := p.Footprint.(*model.Solid)
			if !ok {
				t.Fatalf("expected solid footprint")
			}
			if s.Label() != p.Label {
				t.Errorf("footprint label %q, want %q", s.Label(), p.Label)
			}
		}
	}
}

func TestAssignLabels_WithoutFootprint(t *testing.T) {
	result := model.ArrangeResult{Plates: []model.PlateResult{{
		Index:      3,
		Placements: []model.Placement{{ID: "x", Name: "loose"}},
	}}}
	AssignLabels(&result)
	if got := result.Plates[0].Placements[0].Label; got != "P3-1" {
		t.Errorf("label = %q, want P3-1", got)
	}
}

func TestRequirePlacements(t *testing.T) {
	if err := requirePlacements(model.ArrangeResult{}); !errors.Is(err, ErrNothingToExport) {
		t.Errorf("expected ErrNothingToExport for no plates, got %v", err)
	}
	empty := model.ArrangeResult{Plates: []model.PlateResult{{Index: 1, Config: model.DefaultConfig()}}}
	if err := requirePlacements(empty); !errors.Is(err, ErrNothingToExport) {
		t.Errorf("expected ErrNothingToExport for no placements, got %v", err)
	}
	if err := requirePlacements(buildTestResult()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
