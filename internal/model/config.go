package model

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrInvalidConfig is returned for malformed or missing configuration fields.
var ErrInvalidConfig = errors.New("invalid configuration")

// SafetyOffset is added to the extrusion point offset to get row and column spacing (mm).
const SafetyOffset = 5.0

// Direction names the plate edge a print-head axis travels from.
type Direction string

const (
	DirLeft  Direction = "left"
	DirRight Direction = "right"
	DirFront Direction = "front"
	DirBack  Direction = "back"
)

// Unit returns the direction's unit vector in the plate frame.
func (d Direction) Unit() (r2.Vec, bool) {
	switch Direction(strings.ToLower(string(d))) {
	case DirRight:
		return r2.Vec{X: -1, Y: 0}, true
	case DirLeft:
		return r2.Vec{X: 1, Y: 0}, true
	case DirFront:
		return r2.Vec{X: 0, Y: 1}, true
	case DirBack:
		return r2.Vec{X: 0, Y: -1}, true
	default:
		return r2.Vec{}, false
	}
}

// PrintDirections declares where the first and second print axes start.
type PrintDirections struct {
	First  Direction `json:"first" yaml:"first"`
	Second Direction `json:"second" yaml:"second"`
}

// Matrix returns the 2x2 matrix whose columns are the unit vectors of First and Second.
// Entries are indexed [row][column].
func (pd PrintDirections) Matrix() ([2][2]float64, error) {
	u1, ok := pd.First.Unit()
	if !ok {
		return [2][2]float64{}, fmt.Errorf("%w: unknown first print direction %q", ErrInvalidConfig, pd.First)
	}
	u2, ok := pd.Second.Unit()
	if !ok {
		return [2][2]float64{}, fmt.Errorf("%w: unknown second print direction %q", ErrInvalidConfig, pd.Second)
	}
	if r2.Dot(u1, u2) != 0 {
		return [2][2]float64{}, fmt.Errorf("%w: print directions %q and %q are not perpendicular",
			ErrInvalidConfig, pd.First, pd.Second)
	}
	return [2][2]float64{
		{u1.X, u2.X},
		{u1.Y, u2.Y},
	}, nil
}

// Margins insets the usable plate area on each edge (mm).
type Margins struct {
	Left  float64 `json:"left" yaml:"left"`
	Right float64 `json:"right" yaml:"right"`
	Front float64 `json:"front" yaml:"front"`
	Back  float64 `json:"back" yaml:"back"`
}

// ExtrusionPoint is the offset of the nozzle inside the head footprint.
type ExtrusionPoint struct {
	XPos float64 `json:"x_pos" yaml:"x_pos"`
	YPos float64 `json:"y_pos" yaml:"y_pos"`
}

// ExtrusionHead describes the print head footprint.
type ExtrusionHead struct {
	XDim        float64        `json:"x_dim" yaml:"x_dim"`
	YDim        float64        `json:"y_dim" yaml:"y_dim"`
	ExtrusionPt ExtrusionPoint `json:"extrusion_pt" yaml:"extrusion_pt"`
}

// ColumnSpacing is the gap kept between neighbours in a row.
func (h ExtrusionHead) ColumnSpacing() float64 { return h.ExtrusionPt.XPos + SafetyOffset }

// RowSpacing is the gap kept between rows.
func (h ExtrusionHead) RowSpacing() float64 { return h.ExtrusionPt.YPos + SafetyOffset }

// BarClearance is the distance from the extrusion point to the X-axis bar behind it.
func (h ExtrusionHead) BarClearance() float64 { return h.YDim - h.ExtrusionPt.YPos }

// PlateConfig describes the build plate.
type PlateConfig struct {
	XDim            float64         `json:"x_dim" yaml:"x_dim"`
	YDim            float64         `json:"y_dim" yaml:"y_dim"`
	Margins         Margins         `json:"margins" yaml:"margins"`
	PrintDirections PrintDirections `json:"print_directions" yaml:"print_directions"`
	Bar             bool            `json:"bar" yaml:"bar"`
}

// Config is the complete printer configuration.
type Config struct {
	Plate    PlateConfig   `json:"plate" yaml:"plate"`
	Extruder ExtrusionHead `json:"extruder" yaml:"extruder"`
}

// DefaultConfig returns a 200x200 plate with no margins and a small head.
func DefaultConfig() Config {
	return Config{
		Plate: PlateConfig{
			XDim:            200,
			YDim:            200,
			PrintDirections: PrintDirections{First: DirLeft, Second: DirFront},
		},
		Extruder: ExtrusionHead{
			XDim:        10,
			YDim:        10,
			ExtrusionPt: ExtrusionPoint{XPos: 2, YPos: 2},
		},
	}
}

// Validate checks dimensions and print directions.
func (c Config) Validate() error {
	p := c.Plate
	if p.XDim <= 0 || p.YDim <= 0 {
		return fmt.Errorf("%w: plate dimensions must be positive, got %gx%g", ErrInvalidConfig, p.XDim, p.YDim)
	}
	m := p.Margins
	if m.Left < 0 || m.Right < 0 || m.Front < 0 || m.Back < 0 {
		return fmt.Errorf("%w: margins must not be negative", ErrInvalidConfig)
	}
	if m.Left+m.Right >= p.XDim || m.Front+m.Back >= p.YDim {
		return fmt.Errorf("%w: margins leave no usable plate area", ErrInvalidConfig)
	}
	if _, err := p.PrintDirections.Matrix(); err != nil {
		return err
	}
	h := c.Extruder
	if h.XDim < 0 || h.YDim < 0 || h.ExtrusionPt.XPos < 0 || h.ExtrusionPt.YPos < 0 {
		return fmt.Errorf("%w: extruder values must not be negative", ErrInvalidConfig)
	}
	if h.ExtrusionPt.XPos > h.XDim || h.ExtrusionPt.YPos > h.YDim {
		return fmt.Errorf("%w: extrusion point lies outside the extruder", ErrInvalidConfig)
	}
	return nil
}

// PrinterProfile is a named configuration.
type PrinterProfile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsBuiltIn   bool   `json:"is_built_in"`
	Config      Config `json:"config"`
}

// Built-in printer profiles
var PrinterProfiles = []PrinterProfile{
	{
		Name:        "Default",
		Description: "200x200 plate, no margins",
		IsBuiltIn:   true,
		Config:      DefaultConfig(),
	},
	{
		Name:        "Gantry300",
		Description: "300x300 gantry printer with X-axis bar, head starting back right",
		IsBuiltIn:   true,
		Config: Config{
			Plate: PlateConfig{
				XDim: 300, YDim: 300,
				Margins:         Margins{Left: 5, Right: 5, Front: 5, Back: 5},
				PrintDirections: PrintDirections{First: DirRight, Second: DirBack},
				Bar:             true,
			},
			Extruder: ExtrusionHead{XDim: 60, YDim: 45, ExtrusionPt: ExtrusionPoint{XPos: 20, YPos: 15}},
		},
	},
	{
		Name:        "Bedslinger220",
		Description: "220x220 bed-slinger, head starting front left",
		IsBuiltIn:   true,
		Config: Config{
			Plate: PlateConfig{
				XDim: 220, YDim: 220,
				Margins:         Margins{Left: 3, Right: 3, Front: 3, Back: 3},
				PrintDirections: PrintDirections{First: DirLeft, Second: DirFront},
			},
			Extruder: ExtrusionHead{XDim: 40, YDim: 40, ExtrusionPt: ExtrusionPoint{XPos: 12, YPos: 18}},
		},
	},
}

// GetProfile returns a built-in profile by name.
func GetProfile(name string) (PrinterProfile, bool) {
	for _, p := range PrinterProfiles {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return PrinterProfile{}, false
}

// GetProfileNames returns a list of all built-in profile names.
func GetProfileNames() []string {
	var names []string
	for _, p := range PrinterProfiles {
		names = append(names, p.Name)
	}
	return names
}
