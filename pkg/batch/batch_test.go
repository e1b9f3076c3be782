package batch

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-brush/pkg/brush"
	"github.com/Faultbox/midgard-brush/pkg/math"
)

func newRegistry(t *testing.T) *FormatRegistry {
	t.Helper()
	reg := NewFormatRegistry()
	require.NoError(t, RegisterDefaults(reg))
	return reg
}

func cube(k *brush.Kernel, h float64) *brush.Solid {
	return k.CreateFromIntersectingPlanes([]math.Plane{
		{A: 1, D: -h}, {A: -1, D: -h},
		{B: 1, D: -h}, {B: -1, D: -h},
		{C: 1, D: -h}, {C: -1, D: -h},
	})
}

func TestFormatRegistry(t *testing.T) {
	reg := newRegistry(t)
	require.Equal(t, []string{FormatTextured, FormatWireframe}, reg.Names())

	f, ok := reg.Get(FormatTextured)
	require.True(t, ok)
	require.Equal(t, 16, f.Stride())

	_, err := reg.Register(VertexFormat{Name: FormatWireframe})
	require.ErrorIs(t, err, ErrDuplicateFormat)
	_, err = reg.Register(VertexFormat{})
	require.Error(t, err)

	// Registries are independent.
	_, ok = NewFormatRegistry().Get(FormatTextured)
	require.False(t, ok)

	require.NoError(t, RegisterDefaults(reg))
	require.Len(t, reg.Names(), 2)
}

func TestRegisterDefaultsKeepsExisting(t *testing.T) {
	reg := NewFormatRegistry()
	custom, err := reg.Register(VertexFormat{
		Name:       FormatWireframe,
		Attributes: []Attribute{{"position", 3}, {"color", 4}},
	})
	require.NoError(t, err)

	require.NoError(t, RegisterDefaults(reg))
	require.Equal(t, []string{FormatTextured, FormatWireframe}, reg.Names())

	got, ok := reg.Get(FormatWireframe)
	require.True(t, ok)
	require.Same(t, custom, got)
	require.Equal(t, 7, got.Stride())
}

func TestNewBuilderNeedsFormats(t *testing.T) {
	_, err := NewBuilder(NewFormatRegistry())
	require.Error(t, err)
}

func TestBuildGroupsByMaterial(t *testing.T) {
	brick := &brush.TextureRef{Path: "brick", Width: 64, Height: 64}
	k := brush.NewKernel(brush.DefaultTolerance(), brush.NewFaceMaterial(brick, 1), nil)
	a := cube(k, 8)
	b := cube(k, 16)

	tile := &brush.TextureRef{Path: "tile", Width: 64, Height: 64}
	b.Face(4).Material.Material = tile
	b.Face(5).Material.Material = nil
	b.Face(0).Visibility = brush.VisibleWireframe2D
	b.GenerateFaces()

	builder, err := NewBuilder(newRegistry(t))
	require.NoError(t, err)
	batches := builder.Build(brush.VisibleSolid3D, a.Snapshot(), b.Snapshot(), nil)

	require.Len(t, batches, 3)
	require.Equal(t, Key{FormatTextured, Triangles, "brick"}, batches[0].Key)
	require.Equal(t, Key{FormatTextured, Triangles, "tile"}, batches[1].Key)
	require.Equal(t, Key{FormatTextured, Triangles, Untextured}, batches[2].Key)

	// 6 faces of a, 3 of b (one is wireframe only, two use other states).
	require.Equal(t, 9, batches[0].Faces)
	require.Len(t, batches[0].Vertices, 36)
	require.Len(t, batches[0].Indices, 54)
	require.Equal(t, 1, batches[1].Faces)
	require.Equal(t, 1, batches[2].Faces)

	for _, bt := range batches {
		for _, idx := range bt.Indices {
			require.Less(t, int(idx), len(bt.Vertices))
		}
	}
}

func TestBuildWireframe(t *testing.T) {
	k := brush.NewKernel(brush.DefaultTolerance(), brush.FaceMaterial{}, nil)
	s := cube(k, 1)
	s.Face(0).Visibility = brush.VisibleSolid3D
	s.GenerateFaces()

	builder, err := NewBuilder(newRegistry(t))
	require.NoError(t, err)

	wire := builder.Build(brush.VisibleWireframe3D, s.Snapshot())
	require.Len(t, wire, 1)
	require.Equal(t, Key{FormatWireframe, Lines, "wireframe-3d"}, wire[0].Key)
	require.Equal(t, 5, wire[0].Faces)
	require.Len(t, wire[0].Indices, 5*4*2)
	require.Equal(t, []uint32{0, 1, 1, 2, 2, 3, 3, 0}, wire[0].Indices[:8])
	require.Equal(t, 3, wire[0].Format.Stride())

	flat := builder.Build(brush.VisibleWireframe2D, s.Snapshot())
	require.Equal(t, "wireframe-2d", flat[0].Key.State)
	require.Equal(t, 5, flat[0].Faces)
}

func TestBuildUsesPublishedSnapshot(t *testing.T) {
	k := brush.NewKernel(brush.DefaultTolerance(), brush.FaceMaterial{}, nil)
	s := cube(k, 1)
	snap := s.Snapshot()

	s.Xform(mgl64.Translate3D(100, 0, 0))

	builder, err := NewBuilder(newRegistry(t))
	require.NoError(t, err)
	old := builder.Build(brush.VisibleSolid3D, snap)
	cur := builder.Build(brush.VisibleSolid3D, s.Snapshot())
	require.Less(t, old[0].Vertices[0].Position.X(), 2.0)
	require.Greater(t, cur[0].Vertices[0].Position.X(), 98.0)
}
