package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrPlacementRejected is wrapped by PlacementError when a footprint does not fit
	// into the remaining usable area of a plate.
	ErrPlacementRejected = errors.New("doesn't fit on plate")
	// ErrNoProgress is returned when a fresh plate cannot take even one footprint.
	ErrNoProgress = errors.New("no footprint fits on an empty plate")
)

// PlacementError reports a rejected footprint.
type PlacementError struct {
	ID    string
	Name  string
	Width float64
	Depth float64
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("%s (%.1f x %.1f mm) %s", e.Name, e.Width, e.Depth, ErrPlacementRejected)
}

func (e *PlacementError) Unwrap() error { return ErrPlacementRejected }
