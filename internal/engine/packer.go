package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/PlateArrange/internal/model"
)

// PackResult is the outcome of packing a sequence onto one plate.
type PackResult struct {
	Placed []model.Footprint
	// Rejected is the footprint that stopped the pass, nil if everything fit.
	Rejected model.Footprint
	// Remaining starts with Rejected and keeps the input order.
	Remaining []model.Footprint
	// Err is the rejection error, nil if everything fit.
	Err error
}

// Pack places fps onto plate in order and stops at the first footprint that does not
// fit. Smaller footprints later in the sequence are not tried.
func Pack(fps []model.Footprint, plate *Plate, head model.ExtrusionHead) PackResult {
	var res PackResult
	for i, fp := range fps {
		if _, err := plate.Place(fp, head); err != nil {
			res.Rejected = fp
			res.Remaining = append([]model.Footprint(nil), fps[i:]...)
			res.Err = err
			return res
		}
		res.Placed = append(res.Placed, fp)
	}
	return res
}

// ConfigSource yields the configuration for each new plate.
type ConfigSource interface {
	Next() (model.Config, error)
}

// StaticSource hands out the same configuration for every plate.
type StaticSource struct {
	Config model.Config
}

func (s StaticSource) Next() (model.Config, error) {
	return s.Config, nil
}

// PackAll fills fresh plates until every footprint is placed. Each plate is reflected
// into the packing frame, packed, and reflected back, so the returned plates are in
// their physical frame. If a fresh plate accepts nothing, PackAll stops and returns
// ErrNoProgress with the remaining footprints. Configuration failures wrap
// model.ErrInvalidConfig.
func PackAll(fps []model.Footprint, src ConfigSource) ([]*Plate, []model.Footprint, error) {
	var plates []*Plate
	remaining := fps

	for len(remaining) > 0 {
		cfg, err := src.Next()
		if err != nil {
			if !errors.Is(err, model.ErrInvalidConfig) {
				err = fmt.Errorf("%w: %v", model.ErrInvalidConfig, err)
			}
			return plates, remaining, fmt.Errorf("plate %d: %w", len(plates)+1, err)
		}
		plate, err := NewPlate(cfg)
		if err != nil {
			return plates, remaining, fmt.Errorf("plate %d: %w", len(plates)+1, err)
		}

		plate.Reflect()
		res := Pack(remaining, plate, plate.Head())
		plate.Reflect()

		if len(res.Placed) == 0 {
			return plates, remaining, fmt.Errorf("plate %d: %w: %v", len(plates)+1, ErrNoProgress, res.Err)
		}
		plates = append(plates, plate)
		remaining = res.Remaining
	}
	return plates, nil, nil
}
