package export

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/PlateArrange/internal/importer"
	"github.com/piwi3910/PlateArrange/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportDXF_ReadsBackAsRectangles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.dxf")

	cfg := model.DefaultConfig()
	result := model.ArrangeResult{Plates: []model.PlateResult{
		{Index: 1, Config: cfg, Placements: []model.Placement{
			placed("a", 10, 10, 20, 20, 5),
			placed("b", 40, 10, 30, 20, 5),
		}},
		{Index: 2, Config: cfg, Placements: []model.Placement{
			placed("c", 10, 10, 50, 50, 5),
		}},
	}}
	AssignLabels(&result)
	require.NoError(t, ExportDXF(path, result))

	back := importer.ImportDXF(path, 1)
	require.Empty(t, back.Errors)
	// two plate outlines and three objects
	require.Len(t, back.Footprints, 5)

	var plateOutlines, objects int
	for _, fp := range back.Footprints {
		b := fp.Bounds()
		switch {
		case b.Width() == 200 && b.Depth() == 200:
			plateOutlines++
		default:
			objects++
		}
	}
	assert.Equal(t, 2, plateOutlines)
	assert.Equal(t, 3, objects)

	var secondPlateXMin float64 = -1
	for _, fp := range back.Footprints {
		b := fp.Bounds()
		if b.Width() == 50 {
			secondPlateXMin = b.XMin
		}
	}
	assert.InDelta(t, 200+plateGap+10, secondPlateXMin, 1e-9)
}

func TestExportDXF_MarginsDrawUsableArea(t *testing.T) {
	path := filepath.Join(t.TempDir(), "margins.dxf")

	result := buildTestResult()
	result.Plates = result.Plates[1:]
	require.NoError(t, ExportDXF(path, result))

	back := importer.ImportDXF(path, 1)
	require.Empty(t, back.Errors)
	require.Len(t, back.Footprints, 3)
	assert.InDelta(t, 190, back.Footprints[1].Bounds().Width(), 1e-9)
}

func TestExportDXF_NoPlates(t *testing.T) {
	err := ExportDXF(filepath.Join(t.TempDir(), "x.dxf"), model.ArrangeResult{})
	assert.ErrorIs(t, err, ErrNothingToExport)
}
