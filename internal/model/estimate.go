package model

import "math"

// PlateEstimate holds the results of an area-based plate count estimate.
type PlateEstimate struct {
	TotalFootprintArea float64 `json:"total_footprint_area"` // Plan area of all footprints (sq mm)
	UsableArea         float64 `json:"usable_area"`          // Area of one plate inside the margins (sq mm)
	PlatesNeededExact  float64 `json:"plates_needed_exact"`  // Exact fractional number of plates
	PlatesNeededMin    int     `json:"plates_needed_min"`    // Minimum plates (ceiling of exact)
}

// EstimatePlates computes a lower bound on the number of plates needed for
// the given footprints from their plan area alone. Head spacing is not
// charged: the last object of a row and the last row need none, so adding
// it would overshoot. The real arrangement usually needs more plates.
func EstimatePlates(fps []Footprint, cfg Config) PlateEstimate {
	var total float64
	for _, fp := range fps {
		b := fp.Bounds()
		total += b.Width() * b.Depth()
	}

	usable := PlateResult{Config: cfg}.UsableArea()
	if usable <= 0 {
		return PlateEstimate{TotalFootprintArea: total}
	}

	exact := total / usable
	return PlateEstimate{
		TotalFootprintArea: total,
		UsableArea:         usable,
		PlatesNeededExact:  exact,
		PlatesNeededMin:    int(math.Ceil(exact)),
	}
}
