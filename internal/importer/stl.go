package importer

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/hschendel/stl"
	"github.com/piwi3910/PlateArrange/internal/model"
)

// ErrEmptyMesh is returned for STL files without triangles.
var ErrEmptyMesh = errors.New("mesh has no triangles")

// ImportSTL reads an ASCII or binary STL file and returns a solid sized to the
// mesh's bounding box. The solid is named after the STL solid name, or the
// file name when the mesh is unnamed.
func ImportSTL(path string) (*model.Solid, error) {
	mesh, err := stl.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read STL file %s: %w", path, err)
	}
	if len(mesh.Triangles) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyMesh)
	}

	name := strings.TrimSpace(mesh.Name)
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return model.NewSolid(name, meshBounds(mesh)), nil
}

func meshBounds(mesh *stl.Solid) model.Box {
	b := model.Box{
		XMin: math.Inf(1), YMin: math.Inf(1), ZMin: math.Inf(1),
		XMax: math.Inf(-1), YMax: math.Inf(-1), ZMax: math.Inf(-1),
	}
	for _, t := range mesh.Triangles {
		for _, v := range t.Vertices {
			x, y, z := float64(v[0]), float64(v[1]), float64(v[2])
			b.XMin, b.XMax = min(b.XMin, x), max(b.XMax, x)
			b.YMin, b.YMax = min(b.YMin, y), max(b.YMax, y)
			b.ZMin, b.ZMax = min(b.ZMin, z), max(b.ZMax, z)
		}
	}
	return b
}
