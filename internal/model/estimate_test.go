package model

import (
	"math"
	"testing"
)

func TestEstimatePlatesBasic(t *testing.T) {
	cfg := DefaultConfig() // 200x200, no margins
	fps := []Footprint{
		NewBoxSolid("A", 50, 30, 10),
		NewBoxSolid("A", 50, 30, 10),
		NewBoxSolid("A", 50, 30, 10),
		NewBoxSolid("A", 50, 30, 10),
	}
	est := EstimatePlates(fps, cfg)

	expectedArea := 50.0 * 30.0 * 4
	if math.Abs(est.TotalFootprintArea-expectedArea) > 0.1 {
		t.Errorf("expected total area %.1f, got %.1f", expectedArea, est.TotalFootprintArea)
	}
	if est.UsableArea != 40000 {
		t.Errorf("expected usable area 40000, got %.1f", est.UsableArea)
	}
	if est.PlatesNeededMin != 1 {
		t.Errorf("expected 1 plate, got %d", est.PlatesNeededMin)
	}
}

func TestEstimatePlatesFullPlateFootprint(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Plate.XDim, cfg.Plate.YDim = 100, 100
	est := EstimatePlates([]Footprint{NewBoxSolid("slab", 100, 100, 2)}, cfg)

	if est.PlatesNeededMin != 1 {
		t.Errorf("a footprint filling the plate needs exactly 1 plate, got %d", est.PlatesNeededMin)
	}
	if est.PlatesNeededExact != 1 {
		t.Errorf("expected exactly 1.0 plates, got %f", est.PlatesNeededExact)
	}
}

func TestEstimatePlatesMargins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Plate.Margins = Margins{Left: 50, Right: 50, Front: 50, Back: 50}
	fps := []Footprint{NewBoxSolid("big", 100, 100, 1), NewBoxSolid("big", 60, 60, 1)}

	est := EstimatePlates(fps, cfg)
	if est.UsableArea != 10000 {
		t.Errorf("expected usable area 10000, got %.1f", est.UsableArea)
	}
	if est.PlatesNeededMin != 2 {
		t.Errorf("expected 2 plates, got %d", est.PlatesNeededMin)
	}
	if math.Abs(est.PlatesNeededExact-1.36) > 1e-9 {
		t.Errorf("expected 1.36 exact plates, got %f", est.PlatesNeededExact)
	}
}

func TestEstimatePlatesEmpty(t *testing.T) {
	est := EstimatePlates(nil, DefaultConfig())
	if est.TotalFootprintArea != 0 {
		t.Errorf("expected zero area, got %f", est.TotalFootprintArea)
	}
	if est.PlatesNeededMin != 0 {
		t.Errorf("expected 0 plates, got %d", est.PlatesNeededMin)
	}
}
