package brush

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/midgard-brush/pkg/math"
)

// Material is an externally managed texture. The kernel only needs its
// pixel dimensions.
type Material interface {
	Name() string
	Size() (width, height int)
}

// TextureRef is a plain Material value.
type TextureRef struct {
	Path          string
	Width, Height int
}

// Name implements Material.
func (t *TextureRef) Name() string { return t.Path }

// Size implements Material.
func (t *TextureRef) Size() (int, int) { return t.Width, t.Height }

// FaceMaterial is the texture projection state of one face.
type FaceMaterial struct {
	Material Material

	UAxis, VAxis   mgl64.Vec3
	ScaleU, ScaleV float64
	ShiftU, ShiftV int     // Pixels
	Rotation       float64 // Degrees

	// LightmapScale is the world size of one lightmap luxel.
	LightmapScale float64
}

// NewFaceMaterial returns a material with world-aligned floor axes and a
// uniform scale.
func NewFaceMaterial(m Material, scale float64) FaceMaterial {
	return FaceMaterial{
		Material:      m,
		UAxis:         math.UnitX,
		VAxis:         math.UnitY.Mul(-1),
		ScaleU:        scale,
		ScaleV:        scale,
		LightmapScale: DefaultLightmapScale,
	}
}

// DefaultLightmapScale is used when a FaceMaterial has no lightmap scale.
const DefaultLightmapScale = 16

// Clone returns a copy sharing the same Material reference.
func (fm FaceMaterial) Clone() FaceMaterial {
	return fm
}

// size returns the material dimensions, or zeros when there is no material.
func (fm FaceMaterial) size() (float64, float64) {
	if fm.Material == nil {
		return 0, 0
	}
	w, h := fm.Material.Size()
	return float64(w), float64(h)
}

// Orientation is the canonical direction a face is closest to.
type Orientation int

// Orientations, in tie-breaking order.
const (
	Floor Orientation = iota
	Ceiling
	North
	South
	East
	West
	Invalid Orientation = -1
)

var orientationNames = [...]string{"floor", "ceiling", "north", "south", "east", "west"}

func (o Orientation) String() string {
	if o < Floor || o > West {
		return "invalid"
	}
	return orientationNames[o]
}

var (
	faceNormals = [6]mgl64.Vec3{
		{0, 0, 1},  // Floor
		{0, 0, -1}, // Ceiling
		{0, -1, 0}, // North
		{0, 1, 0},  // South
		{-1, 0, 0}, // East
		{1, 0, 0},  // West
	}
	downVectors = [6]mgl64.Vec3{
		{0, -1, 0},
		{0, -1, 0},
		{0, 0, -1},
		{0, 0, -1},
		{0, 0, -1},
		{0, 0, -1},
	}
	rightVectors = [6]mgl64.Vec3{
		{1, 0, 0},
		{1, 0, 0},
		{1, 0, 0},
		{-1, 0, 0},
		{0, -1, 0},
		{0, 1, 0},
	}
)

// OrientationOf returns the canonical orientation closest to normal.
// On a tie the earlier orientation wins.
func OrientationOf(normal mgl64.Vec3) Orientation {
	if normal.Len() < 1e-4 {
		return Invalid
	}
	best := Floor
	bestDot := normal.Dot(faceNormals[Floor])
	for o := Ceiling; o <= West; o++ {
		if d := normal.Dot(faceNormals[o]); d > bestDot {
			best, bestDot = o, d
		}
	}
	return best
}

// DownVector returns the canonical texture V axis for o.
func (o Orientation) DownVector() mgl64.Vec3 {
	if o == Invalid {
		return mgl64.Vec3{}
	}
	return downVectors[o]
}

// RightVector returns the canonical texture U axis for o.
func (o Orientation) RightVector() mgl64.Vec3 {
	if o == Invalid {
		return mgl64.Vec3{}
	}
	return rightVectors[o]
}

// AlignMode selects the edge used by AlignTextureWithPointCloud.
type AlignMode int

const (
	AlignLeft AlignMode = iota
	AlignRight
	AlignCenter
	AlignTop
	AlignBottom
)
