package export

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/PlateArrange/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	result := buildTestResult()
	result.Unplaced = []model.UnplacedFootprint{{ID: "u1", Name: "Too Big", Width: 300, Depth: 300, Height: 10}}
	AssignLabels(&result)
	require.NoError(t, ExportXLSX(path, result))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{placementsSheet, platesSheet, unplacedSheet}, f.GetSheetList())

	rows, err := f.GetRows(placementsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Plate", rows[0][0])
	assert.Equal(t, []string{"1", "P1-1", "Bracket"}, rows[1][:3])
	assert.Equal(t, "60", rows[1][6])
	assert.Equal(t, []string{"2", "P2-1", "Housing"}, rows[4][:3])

	plates, err := f.GetRows(platesSheet)
	require.NoError(t, err)
	require.Len(t, plates, 3)
	assert.Equal(t, []string{"1", "200", "200", "left", "front", "3"}, plates[1][:6])

	unplaced, err := f.GetRows(unplacedSheet)
	require.NoError(t, err)
	require.Len(t, unplaced, 2)
	assert.Equal(t, "Too Big", unplaced[1][0])
}

func TestExportXLSX_NoPlates(t *testing.T) {
	err := ExportXLSX(filepath.Join(t.TempDir(), "x.xlsx"), model.ArrangeResult{})
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 12.35, round2(12.346), 1e-9)
	assert.Equal(t, 50.0, round2(50))
}
