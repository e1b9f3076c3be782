package export

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-brush/pkg/brush"
	"github.com/Faultbox/midgard-brush/pkg/math"
)

func testSolids(t *testing.T) []*brush.Solid {
	t.Helper()
	brick := &brush.TextureRef{Path: "walls/brick", Width: 64, Height: 64}
	k := brush.NewKernel(brush.DefaultTolerance(), brush.NewFaceMaterial(brick, 1), nil)

	cube := func(h float64) *brush.Solid {
		return k.CreateFromIntersectingPlanes([]math.Plane{
			{A: 1, D: -h}, {A: -1, D: -h},
			{B: 1, D: -h}, {B: -1, D: -h},
			{C: 1, D: -h}, {C: -1, D: -h},
		})
	}
	a := cube(8)
	b := cube(4)
	b.SetTransform(mgl64.Translate3D(100, 0, 0))
	b.GenerateFaces()
	return []*brush.Solid{a, b}
}

func TestTriangles(t *testing.T) {
	solids := testSolids(t)
	mesh := Triangles(solids)
	require.Len(t, mesh, 24)

	box := Bounds(mesh)
	require.InDelta(t, -8, box.Min.X, 1e-9)
	require.InDelta(t, 104, box.Max.X, 1e-9)
	require.InDelta(t, 8, box.Max.Z, 1e-9)

	require.Zero(t, Bounds(nil).Max.X)
}

func TestWriteSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.stl")
	n, err := WriteSTL(path, testSolids(t))
	require.NoError(t, err)
	require.Equal(t, 24, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Binary STL: 80 byte header, triangle count, 50 bytes per triangle.
	require.Len(t, data, 84+50*n)
	require.Equal(t, uint32(n), binary.LittleEndian.Uint32(data[80:84]))

	_, err = WriteSTL(path, nil)
	require.ErrorIs(t, err, ErrEmptyMesh)
}

func TestDump(t *testing.T) {
	solids := testSolids(t)
	dump := Dump(solids, 2)
	require.Len(t, dump, 2)

	a := dump[0]
	require.Equal(t, solids[0].ID.String(), a.ID)
	require.True(t, a.Closed)
	require.Len(t, a.Faces, 6)
	require.Equal(t, mgl64.Vec3{-8, -8, -8}, a.Min)
	require.Equal(t, mgl64.Vec3{8, 8, 8}, a.Max)
	for _, f := range a.Faces {
		require.Equal(t, "walls/brick", f.Material)
		require.NotNil(t, f.Texture)
		require.Len(t, f.Vertices, 4)
	}

	// The second cube is reported in world space.
	b := dump[1]
	require.InDelta(t, 96, b.Min.X(), 1e-9)
	require.InDelta(t, 104, b.Max.X(), 1e-9)
}

func TestJSONRoundTrip(t *testing.T) {
	solids := testSolids(t)
	for _, indent := range []bool{false, true} {
		var buf bytes.Buffer
		require.NoError(t, WriteJSON(&buf, solids, 2, indent))

		got, err := ReadJSON(&buf)
		require.NoError(t, err)
		require.Equal(t, Dump(solids, 2), got)
	}

	_, err := ReadJSON(bytes.NewReader([]byte("{")))
	require.Error(t, err)
}

func TestDumpUntextured(t *testing.T) {
	k := brush.NewKernel(brush.DefaultTolerance(), brush.FaceMaterial{}, nil)
	s := k.CreateFromIntersectingPlanes([]math.Plane{
		{A: 1, D: -1}, {A: -1, D: -1},
		{B: 1, D: -1}, {B: -1, D: -1},
		{C: 1, D: -1}, {C: -1, D: -1},
	})
	dump := Dump([]*brush.Solid{s}, 2)
	for _, f := range dump[0].Faces {
		require.Empty(t, f.Material)
		require.Nil(t, f.Texture)
	}
}
