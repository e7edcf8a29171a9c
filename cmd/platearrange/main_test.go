package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PlateArrange/internal/logging"
	"github.com/piwi3910/PlateArrange/internal/model"
	"github.com/piwi3910/PlateArrange/internal/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun_Usage(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 2, run(nil, &out, &errOut))
	assert.Contains(t, errOut.String(), "usage")

	assert.Equal(t, 2, run([]string{"bogus"}, &out, &errOut))
	assert.Equal(t, 0, run([]string{"help"}, &out, &errOut))
}

func TestArrange_WritesOutputs(t *testing.T) {
	dir := t.TempDir()
	objects := writeFile(t, dir, "objects.csv", "Name,Width,Depth,Height,Qty\nCube,20,20,10,3\nPlate,40,30,2,1\n")
	jsonPath := filepath.Join(dir, "result.json")
	xlsxPath := filepath.Join(dir, "report.xlsx")

	var out, errOut bytes.Buffer
	code := run([]string{"arrange",
		"-config", filepath.Join(dir, "missing.json"),
		"-profiles", filepath.Join(dir, "profiles.json"),
		"-check",
		"-json", jsonPath,
		"-xlsx", xlsxPath,
		objects,
	}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())

	assert.Contains(t, out.String(), "P1-1")
	assert.Contains(t, out.String(), "1 plate(s), 4 placed, 0 unplaced")

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var result model.ArrangeResult
	require.NoError(t, json.Unmarshal(data, &result))
	require.Len(t, result.Plates, 1)
	assert.Len(t, result.Plates[0].Placements, 4)
	// tallest first
	assert.Equal(t, "Cube", result.Plates[0].Placements[0].Name)

	_, err = os.Stat(xlsxPath)
	assert.NoError(t, err)
}

func TestArrange_Profile(t *testing.T) {
	dir := t.TempDir()
	objects := writeFile(t, dir, "objects.csv", "Name,Width,Depth,Height\nA,10,10,1\n")

	custom := model.DefaultConfig()
	custom.Plate.XDim = 50
	profiles := filepath.Join(dir, "profiles.json")
	require.NoError(t, project.SaveCustomProfiles(profiles, []model.PrinterProfile{{Name: "Tiny", Config: custom}}))

	var out, errOut bytes.Buffer
	code := run([]string{"arrange", "-profiles", profiles, "-profile", "tiny", "-json", "-", objects}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())
	assert.Contains(t, out.String(), `"x_dim": 50`)

	code = run([]string{"arrange", "-profiles", profiles, "-profile", "unknown", objects}, &out, &errOut)
	assert.Equal(t, 1, code)
}

func TestArrange_NoProgressExitsOne(t *testing.T) {
	dir := t.TempDir()
	objects := writeFile(t, dir, "objects.csv", "Name,Width,Depth,Height\nSmall,10,10,5\nHuge,900,900,1\n")
	pdfPath := filepath.Join(dir, "layout.pdf")

	var out, errOut bytes.Buffer
	code := run([]string{"arrange", "-config", filepath.Join(dir, "none.json"), "-pdf", pdfPath, objects}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "1 unplaced")
	assert.Contains(t, errOut.String(), "arrangement incomplete")

	// The partial layout is still exported.
	_, err := os.Stat(pdfPath)
	assert.NoError(t, err)
}

func TestArrange_InvalidConfigExitsOne(t *testing.T) {
	dir := t.TempDir()
	objects := writeFile(t, dir, "objects.csv", "Name,Width,Depth,Height\nA,10,10,1\n")
	cfg := writeFile(t, dir, "config.yaml", "plate:\n  x_dim: -5\n")

	var out, errOut bytes.Buffer
	assert.Equal(t, 1, run([]string{"arrange", "-config", cfg, objects}, &out, &errOut))
	assert.Contains(t, errOut.String(), "invalid configuration")
}

func TestArrange_BadFlagsAndInputs(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 2, run([]string{"arrange"}, &out, &errOut))
	assert.Equal(t, 2, run([]string{"arrange", "-log-level", "chatty", "x.csv"}, &out, &errOut))

	dir := t.TempDir()
	assert.Equal(t, 1, run([]string{"arrange", "-config", filepath.Join(dir, "c.json"), filepath.Join(dir, "missing.csv")}, &out, &errOut))
}

func TestProfilesCommand(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"profiles", "-profiles", filepath.Join(t.TempDir(), "none.json")}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())
	for _, name := range model.GetProfileNames() {
		assert.Contains(t, out.String(), name)
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, serve(ctx, "127.0.0.1:0", logging.Discard()))
}

func TestArrange_PrefsAndEstimate(t *testing.T) {
	dir := t.TempDir()
	objects := writeFile(t, dir, "objects.csv", "Name,Width,Depth,Height\nA,10,10,1\nB,10,10,5\n")

	prefs := model.DefaultAppConfig()
	prefs.DefaultProfile = "gantry300"
	prefs.SortByHeight = false
	prefsPath := filepath.Join(dir, "app.json")
	require.NoError(t, project.SaveAppConfig(prefsPath, prefs))

	var out, errOut bytes.Buffer
	code := run([]string{"arrange",
		"-prefs", prefsPath,
		"-profiles", filepath.Join(dir, "profiles.json"),
		"-estimate",
		"-json", "-",
		objects,
	}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())
	assert.Contains(t, out.String(), "estimate: at least 1 plate(s)")
	// gantry300 has a bar
	assert.Contains(t, out.String(), `"bar": true`)

	// Input order kept with sorting disabled.
	idxA := bytes.Index(out.Bytes(), []byte(`"name": "A"`))
	idxB := bytes.Index(out.Bytes(), []byte(`"name": "B"`))
	assert.True(t, idxA >= 0 && idxA < idxB)
}

func TestBackupAndRestore(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	cfg := model.DefaultConfig()
	cfg.Plate.XDim = 222
	require.NoError(t, project.SaveConfig(cfgPath, cfg))

	backupPath := filepath.Join(dir, "backup.json")
	var out, errOut bytes.Buffer
	code := run([]string{"backup",
		"-prefs", filepath.Join(dir, "app.json"),
		"-config", cfgPath,
		"-profiles", filepath.Join(dir, "profiles.json"),
		backupPath,
	}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())
	assert.Contains(t, out.String(), "backup written")

	restoreDir := filepath.Join(dir, "restored")
	code = run([]string{"restore",
		"-prefs", filepath.Join(restoreDir, "app.json"),
		"-config", filepath.Join(restoreDir, "config.json"),
		"-profiles", filepath.Join(restoreDir, "profiles.json"),
		backupPath,
	}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())

	restored, err := project.LoadConfig(filepath.Join(restoreDir, "config.json"))
	require.NoError(t, err)
	assert.Equal(t, 222.0, restored.Plate.XDim)

	assert.Equal(t, 2, run([]string{"backup"}, &out, &errOut))
	assert.Equal(t, 1, run([]string{"restore", filepath.Join(dir, "missing.json")}, &out, &errOut))
}
