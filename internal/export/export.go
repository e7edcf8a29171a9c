// Package export writes arrangement results to PDF, label sheets, spreadsheets and DXF.
package export

import (
	"errors"
	"fmt"

	"github.com/piwi3910/PlateArrange/internal/model"
)

// ErrNothingToExport is returned when a result has no plates or no placements.
var ErrNothingToExport = errors.New("nothing to export")

// PlateLabel returns the positional label for the index-th footprint (1-based)
// on the given plate (1-based).
func PlateLabel(plate, index int) string {
	return fmt.Sprintf("P%d-%d", plate, index)
}

// AssignLabels labels every placement in placement order and forwards the label to
// footprints that accept one.
func AssignLabels(result *model.ArrangeResult) {
	for pi := range result.Plates {
		plate := &result.Plates[pi]
		for i := range plate.Placements {
			p := &plate.Placements[i]
			p.Label = PlateLabel(plate.Index, i+1)
			if l, ok := p.Footprint.(model.Labeler); ok {
				l.SetLabel(p.Label)
			}
		}
	}
}

// displayName returns the label when set, otherwise the name.
func displayName(p model.Placement) string {
	if p.Label != "" {
		return p.Label
	}
	return p.Name
}

func requirePlacements(result model.ArrangeResult) error {
	if len(result.Plates) == 0 {
		return fmt.Errorf("%w: no plates", ErrNothingToExport)
	}
	if result.PlacedCount() == 0 {
		return fmt.Errorf("%w: no objects placed", ErrNothingToExport)
	}
	return nil
}
