package engine

import (
	"errors"
	"testing"

	"github.com/piwi3910/PlateArrange/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPack_StopsAtFirstRejection(t *testing.T) {
	cfg := testConfig(100, 100)
	plate := newTestPlate(t, cfg)

	first := model.NewBoxSolid("first", 20, 20, 5)
	tooBig := model.NewBoxSolid("too big", 20, 200, 5)
	small := model.NewBoxSolid("small", 5, 5, 5)

	res := Pack([]model.Footprint{first, tooBig, small}, plate, cfg.Extruder)

	require.Len(t, res.Placed, 1)
	assert.Equal(t, first.ID(), res.Placed[0].ID())
	assert.Equal(t, tooBig.ID(), res.Rejected.ID())
	require.Len(t, res.Remaining, 2)
	assert.Equal(t, tooBig.ID(), res.Remaining[0].ID())
	assert.Equal(t, small.ID(), res.Remaining[1].ID(), "later footprints are not tried")
	assert.ErrorIs(t, res.Err, ErrPlacementRejected)
	assert.Equal(t, 0.0, small.Bounds().XMin)
}

func TestPack_AllFit(t *testing.T) {
	cfg := testConfig(100, 100)
	plate := newTestPlate(t, cfg)

	res := Pack(squares(3, 20), plate, cfg.Extruder)
	assert.Len(t, res.Placed, 3)
	assert.Nil(t, res.Rejected)
	assert.Empty(t, res.Remaining)
	assert.NoError(t, res.Err)
}

func TestPackAll_ScenarioC_TwoFullPlates(t *testing.T) {
	// 45x45 with 7mm spacing: two per row, two rows per 100x100 plate.
	fps := squares(8, 45)
	plates, unplaced, err := PackAll(fps, StaticSource{Config: testConfig(100, 100)})

	require.NoError(t, err)
	assert.Empty(t, unplaced)
	require.Len(t, plates, 2)

	seen := make(map[string]int)
	for i, p := range plates {
		assert.Len(t, p.Placed(), 4)
		assert.False(t, p.Canonical(), "plates are returned in the physical frame")
		for _, fp := range p.Placed() {
			seen[fp.ID()]++
		}
		assert.Empty(t, CheckLayout(p), "plate %d", i+1)
	}
	assert.Len(t, seen, 8)
	for id, n := range seen {
		assert.Equal(t, 1, n, "footprint %s placed more than once", id)
	}

	// Input order is kept across plates.
	assert.Equal(t, fps[0].ID(), plates[0].Placed()[0].ID())
	assert.Equal(t, fps[4].ID(), plates[1].Placed()[0].ID())
}

func TestPackAll_ScenarioD_NoProgress(t *testing.T) {
	huge := model.NewBoxSolid("huge", 150, 150, 10)
	plates, unplaced, err := PackAll([]model.Footprint{huge}, StaticSource{Config: testConfig(100, 100)})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoProgress))
	assert.Empty(t, plates)
	require.Len(t, unplaced, 1)
	assert.Equal(t, huge.ID(), unplaced[0].ID())
}

func TestPackAll_NoProgressAfterSomePlates(t *testing.T) {
	fps := []model.Footprint{
		model.NewBoxSolid("a", 90, 90, 10),
		model.NewBoxSolid("b", 90, 90, 10),
		model.NewBoxSolid("c", 150, 10, 10),
		model.NewBoxSolid("d", 10, 10, 10),
	}
	plates, unplaced, err := PackAll(fps, StaticSource{Config: testConfig(100, 100)})

	assert.ErrorIs(t, err, ErrNoProgress)
	assert.Len(t, plates, 2)
	require.Len(t, unplaced, 2)
	assert.Equal(t, "c", unplaced[0].Name())
	assert.Equal(t, "d", unplaced[1].Name())
}

type failingSource struct{ calls int }

func (s *failingSource) Next() (model.Config, error) {
	s.calls++
	if s.calls > 1 {
		return model.Config{}, errors.New("config file vanished")
	}
	return testConfig(100, 100), nil
}

func TestPackAll_ConfigErrorIsInvalidConfig(t *testing.T) {
	src := &failingSource{}
	fps := []model.Footprint{model.NewBoxSolid("a", 90, 90, 1), model.NewBoxSolid("b", 90, 90, 1)}

	plates, unplaced, err := PackAll(fps, src)
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
	assert.Len(t, plates, 1)
	assert.Len(t, unplaced, 1)
}

func TestPackAll_InvalidStaticConfig(t *testing.T) {
	cfg := testConfig(0, 100)
	plates, unplaced, err := PackAll(squares(1, 10), StaticSource{Config: cfg})
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
	assert.Empty(t, plates)
	assert.Len(t, unplaced, 1)
}

func TestPackAll_Empty(t *testing.T) {
	plates, unplaced, err := PackAll(nil, StaticSource{Config: testConfig(100, 100)})
	assert.NoError(t, err)
	assert.Empty(t, plates)
	assert.Empty(t, unplaced)
}
