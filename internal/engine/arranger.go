package engine

import (
	"cmp"
	"errors"
	"io"
	"log/slog"
	"slices"

	"github.com/piwi3910/PlateArrange/internal/model"
)

// Options controls the preparation done before packing.
type Options struct {
	// Copy packs duplicates so the caller's footprints are not moved.
	Copy bool
	// SortByHeight orders footprints tallest first.
	SortByHeight bool
	// Drop lowers every footprint onto the plate surface.
	Drop bool
}

// DefaultOptions sorts and drops in place.
func DefaultOptions() Options {
	return Options{SortByHeight: true, Drop: true}
}

// Arranger prepares footprints, packs them across plates and builds the result.
type Arranger struct {
	Source  ConfigSource
	Options Options
	Log     *slog.Logger
}

func New(src ConfigSource, opts Options, log *slog.Logger) *Arranger {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Arranger{Source: src, Options: opts, Log: log}
}

// SortByHeight stably orders footprints by descending Z extent. Packing tallest first
// keeps the head above everything already printed when a row wraps.
func SortByHeight(fps []model.Footprint) {
	slices.SortStableFunc(fps, func(a, b model.Footprint) int {
		return cmp.Compare(b.Bounds().Height(), a.Bounds().Height())
	})
}

// Arrange packs fps onto as many plates as needed. The result is populated even when
// an error is returned; on ErrNoProgress it lists the footprints that were left over.
func (a *Arranger) Arrange(fps []model.Footprint) (model.ArrangeResult, error) {
	work := make([]model.Footprint, 0, len(fps))
	for _, fp := range fps {
		if a.Options.Copy {
			fp = fp.Duplicate()
		}
		work = append(work, fp)
	}
	if a.Options.Drop {
		model.DropToPlate(work)
	}
	if a.Options.SortByHeight {
		SortByHeight(work)
	}

	a.Log.Debug("arranging footprints", "count", len(work))
	plates, unplaced, err := PackAll(work, a.Source)

	result := model.ArrangeResult{}
	for i, plate := range plates {
		pr := model.PlateResult{Index: i + 1, Config: plate.Config()}
		for _, fp := range plate.Placed() {
			pr.Placements = append(pr.Placements, model.NewPlacement(fp))
		}
		a.Log.Info("plate packed", "plate", pr.Index, "placed", len(pr.Placements),
			"efficiency", pr.Efficiency())
		result.Plates = append(result.Plates, pr)
	}
	for _, fp := range unplaced {
		result.Unplaced = append(result.Unplaced, model.NewUnplaced(fp))
	}
	if len(result.Unplaced) > 0 {
		a.Log.Warn("objects not placed", "count", len(result.Unplaced))
	}

	if err != nil {
		if errors.Is(err, ErrNoProgress) {
			a.Log.Error("cannot make progress", "err", err)
		}
		return result, err
	}
	return result, nil
}
