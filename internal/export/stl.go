// Package export writes solids to interchange formats: binary STL meshes
// and a JSON dump of faces, materials and texture coordinates.
package export

import (
	"errors"
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-brush/internal/logger"
	"github.com/Faultbox/midgard-brush/pkg/brush"
)

// ErrEmptyMesh is returned when there is nothing to export.
var ErrEmptyMesh = errors.New("export: no triangles")

// Triangles fan-triangulates every face of solids in world space.
func Triangles(solids []*brush.Solid) []*sdf.Triangle3 {
	var mesh []*sdf.Triangle3
	for _, s := range solids {
		for _, f := range s.Faces() {
			pts := f.WorldPositions()
			for i := 1; i+1 < len(pts); i++ {
				mesh = append(mesh, &sdf.Triangle3{toVec(pts[0]), toVec(pts[i]), toVec(pts[i+1])})
			}
		}
	}
	return mesh
}

// Bounds returns the sdfx bounding box of a mesh.
func Bounds(mesh []*sdf.Triangle3) sdf.Box3 {
	if len(mesh) == 0 {
		return sdf.Box3{}
	}
	box := sdf.Box3{Min: mesh[0][0], Max: mesh[0][0]}
	for _, t := range mesh {
		for _, v := range t {
			box.Min = box.Min.Min(v)
			box.Max = box.Max.Max(v)
		}
	}
	return box
}

// WriteSTL writes solids as one binary STL mesh.
func WriteSTL(path string, solids []*brush.Solid) (int, error) {
	mesh := Triangles(solids)
	if len(mesh) == 0 {
		return 0, ErrEmptyMesh
	}
	if err := render.SaveSTL(path, mesh); err != nil {
		return 0, fmt.Errorf("writing STL %s: %w", path, err)
	}
	logger.Named("export").Info("stl written",
		zap.String("path", path),
		zap.Int("solids", len(solids)),
		zap.Int("triangles", len(mesh)))
	return len(mesh), nil
}

func toVec(p mgl64.Vec3) v3.Vec {
	return v3.Vec{X: p.X(), Y: p.Y(), Z: p.Z()}
}
