package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DirLeft, cfg.Plate.PrintDirections.First)
	assert.Equal(t, DirFront, cfg.Plate.PrintDirections.Second)
	assert.False(t, cfg.Plate.Bar)
}

func TestBuiltInProfilesAreValid(t *testing.T) {
	for _, p := range PrinterProfiles {
		assert.NoError(t, p.Config.Validate(), p.Name)
		assert.True(t, p.IsBuiltIn, p.Name)
	}
	p, ok := GetProfile("gantry300")
	require.True(t, ok)
	assert.True(t, p.Config.Plate.Bar)

	_, ok = GetProfile("missing")
	assert.False(t, ok)
	assert.Contains(t, GetProfileNames(), "Default")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Plate.XDim = 0 }},
		{"negative margin", func(c *Config) { c.Plate.Margins.Front = -1 }},
		{"margins eat plate", func(c *Config) { c.Plate.Margins.Left, c.Plate.Margins.Right = 100, 100 }},
		{"parallel directions", func(c *Config) { c.Plate.PrintDirections.Second = DirRight }},
		{"unknown direction", func(c *Config) { c.Plate.PrintDirections.First = "" }},
		{"negative extruder", func(c *Config) { c.Extruder.YDim = -1 }},
		{"extrusion point outside head", func(c *Config) { c.Extruder.ExtrusionPt.XPos = 11 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestConfigJSONKeys(t *testing.T) {
	data := []byte(`{
		"plate": {
			"x_dim": 250, "y_dim": 210,
			"margins": {"left": 1, "right": 2, "front": 3, "back": 4},
			"print_directions": {"first": "right", "second": "back"},
			"bar": true
		},
		"extruder": {"x_dim": 50, "y_dim": 40, "extrusion_pt": {"x_pos": 20, "y_pos": 15}}
	}`)
	var cfg Config
	require.NoError(t, json.Unmarshal(data, &cfg))

	assert.Equal(t, 250.0, cfg.Plate.XDim)
	assert.Equal(t, 4.0, cfg.Plate.Margins.Back)
	assert.Equal(t, DirRight, cfg.Plate.PrintDirections.First)
	assert.True(t, cfg.Plate.Bar)
	assert.Equal(t, 15.0, cfg.Extruder.ExtrusionPt.YPos)
	assert.NoError(t, cfg.Validate())
}
