package brushgen

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-brush/pkg/brush"
	"github.com/Faultbox/midgard-brush/pkg/math"
)

func newKernel() *brush.Kernel {
	mat := brush.NewFaceMaterial(&brush.TextureRef{Path: "stone", Width: 64, Height: 64}, 0.25)
	return brush.NewKernel(brush.DefaultTolerance(), mat, nil)
}

func box(x, y, z float64) math.Bounds {
	return math.NewBounds(mgl64.Vec3{-x / 2, -y / 2, 0}, mgl64.Vec3{x / 2, y / 2, z})
}

func requireClosedOutward(t *testing.T, s *brush.Solid) {
	t.Helper()
	require.NoError(t, s.CheckClosed(2))

	pts := s.PointCloud().Points
	var center mgl64.Vec3
	for _, p := range pts {
		center = center.Add(p)
	}
	center = center.Mul(1 / float64(len(pts)))
	for i, f := range s.Faces() {
		require.Less(t, f.Plane().Distance(center), 0.0, "face %d points inward", i)
	}
}

func TestArchFlatSegments(t *testing.T) {
	col := brush.NewCollection()
	n, err := DefaultArch(box(256, 128, 32)).Generate(newKernel(), col)
	require.NoError(t, err)
	require.Equal(t, 8, n)
	require.Equal(t, 8, col.Len())

	for _, s := range col.All() {
		require.Equal(t, 6, s.FaceCount())
		requireClosedOutward(t, s)
		require.InDelta(t, 0, s.Bounds().Min.Z(), 1e-9)
		require.InDelta(t, 32, s.Bounds().Max.Z(), 1e-9)
	}
}

func TestArchStackedSteps(t *testing.T) {
	a := DefaultArch(box(256, 256, 16))
	a.Arc = 180
	a.Sides = 4
	a.AddHeight = 16

	col := brush.NewCollection()
	_, err := a.Generate(newKernel(), col)
	require.NoError(t, err)
	for i, s := range col.All() {
		require.InDelta(t, float64(i)*16, s.Bounds().Min.Z(), 1e-9)
		requireClosedOutward(t, s)
	}
}

func TestArchCurvedRampSplitsSegments(t *testing.T) {
	for _, add := range []float64{8, -8} {
		a := DefaultArch(box(256, 256, 16))
		a.Sides = 6
		a.Arc = 270
		a.CurvedRamp = true
		a.AddHeight = add
		a.Tilt = 10
		a.TiltInterp = true

		col := brush.NewCollection()
		n, err := a.Generate(newKernel(), col)
		require.NoError(t, err)
		require.Equal(t, 12, n)

		for _, s := range col.All() {
			require.Equal(t, 5, s.FaceCount())
			requireClosedOutward(t, s)
		}
	}
}

func TestArchLoopsFollowEllipse(t *testing.T) {
	a := DefaultArch(box(200, 100, 10))
	a.Sides = 4
	a.Arc = 90
	solids, err := a.Loops()
	require.NoError(t, err)
	require.Len(t, solids, 4)

	outer, inner := a.rings()
	require.True(t, outer[0].ApproxEqualThreshold(mgl64.Vec3{100, 0, 0}, 1e-9))
	require.True(t, inner[0].ApproxEqualThreshold(mgl64.Vec3{84, 0, 0}, 1e-9))
	require.True(t, outer[4].ApproxEqualThreshold(mgl64.Vec3{0, 50, 0}, 1e-9))
	require.True(t, inner[4].ApproxEqualThreshold(mgl64.Vec3{0, 34, 0}, 1e-9))
}

func TestArchValidate(t *testing.T) {
	valid := DefaultArch(box(128, 128, 32))
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Arch)
	}{
		{"empty box", func(a *Arch) { a.Box = math.Bounds{} }},
		{"flat box", func(a *Arch) { a.Box = math.NewBounds(mgl64.Vec3{}, mgl64.Vec3{64, 64, 0}) }},
		{"no sides", func(a *Arch) { a.Sides = 0 }},
		{"no wall", func(a *Arch) { a.Wall = 0 }},
		{"wall too thick", func(a *Arch) { a.Wall = 64 }},
		{"no arc", func(a *Arch) { a.Arc = 0 }},
		{"arc too large", func(a *Arch) { a.Arc = 361 }},
		{"step not convex", func(a *Arch) { a.Sides = 2 }},
		{"tilt vertical", func(a *Arch) { a.Tilt = 90 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid
			tt.mutate(&a)
			require.ErrorIs(t, a.Validate(), ErrInvalidParams)

			col := brush.NewCollection()
			n, err := a.Generate(newKernel(), col)
			require.ErrorIs(t, err, ErrInvalidParams)
			require.Zero(t, n)
			require.Zero(t, col.Len())
		})
	}
}

func TestBlock(t *testing.T) {
	col := brush.NewCollection()
	n, err := Block{Box: box(64, 32, 16)}.Generate(newKernel(), col)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	s := col.At(0)
	require.Equal(t, 6, s.FaceCount())
	require.Equal(t, mgl64.Vec3{-32, -16, 0}, s.Bounds().Min)
	require.Equal(t, mgl64.Vec3{32, 16, 16}, s.Bounds().Max)
	requireClosedOutward(t, s)

	_, err = Block{}.Generate(newKernel(), col)
	require.ErrorIs(t, err, ErrInvalidParams)
}

func TestCylinder(t *testing.T) {
	col := brush.NewCollection()
	_, err := Cylinder{Box: box(64, 64, 32), Sides: 12}.Generate(newKernel(), col)
	require.NoError(t, err)

	s := col.At(0)
	require.Equal(t, 14, s.FaceCount())
	requireClosedOutward(t, s)
	require.InDelta(t, 32, s.Bounds().Max.X(), 1e-9)
	require.InDelta(t, 32, s.Bounds().Max.Z(), 1e-9)

	_, err = Cylinder{Box: box(64, 64, 32), Sides: 2}.Generate(newKernel(), col)
	require.ErrorIs(t, err, ErrInvalidParams)
}

func TestWedge(t *testing.T) {
	col := brush.NewCollection()
	_, err := Wedge{Box: box(64, 64, 32)}.Generate(newKernel(), col)
	require.NoError(t, err)

	s := col.At(0)
	require.Equal(t, 5, s.FaceCount())
	requireClosedOutward(t, s)

	slope := s.Face(2).Plane().Normal()
	require.Greater(t, slope.X(), 0.0)
	require.Greater(t, slope.Z(), 0.0)
}

func TestGeneratorsShareInterface(t *testing.T) {
	gens := []Generator{
		Block{Box: box(32, 32, 32)},
		Cylinder{Box: box(32, 32, 32), Sides: 8},
		Wedge{Box: box(32, 32, 32)},
		DefaultArch(box(128, 128, 32)),
	}
	col := brush.NewCollection()
	total := 0
	for _, g := range gens {
		n, err := g.Generate(newKernel(), col)
		require.NoError(t, err)
		total += n
	}
	require.Equal(t, total, col.Len())
}
