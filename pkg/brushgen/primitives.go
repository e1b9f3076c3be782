package brushgen

import (
	"fmt"
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/midgard-brush/pkg/brush"
	"github.com/Faultbox/midgard-brush/pkg/math"
)

func checkBox(kind string, box math.Bounds) error {
	if box.IsEmpty() {
		return fmt.Errorf("%w: %s box is empty", ErrInvalidParams, kind)
	}
	if s := box.Size(); s.X() <= 0 || s.Y() <= 0 || s.Z() <= 0 {
		return fmt.Errorf("%w: %s box %v has no volume", ErrInvalidParams, kind, s)
	}
	return nil
}

// Block is an axis-aligned box.
type Block struct {
	Box math.Bounds
}

// Planes returns the six outward planes of the box.
func (b Block) Planes() ([]math.Plane, error) {
	if err := checkBox("block", b.Box); err != nil {
		return nil, err
	}
	lo, hi := b.Box.Min, b.Box.Max
	return []math.Plane{
		math.NewPlane(math.UnitX, hi),
		math.NewPlane(math.UnitX.Mul(-1), lo),
		math.NewPlane(math.UnitY, hi),
		math.NewPlane(math.UnitY.Mul(-1), lo),
		math.NewPlane(math.UnitZ, hi),
		math.NewPlane(math.UnitZ.Mul(-1), lo),
	}, nil
}

// Generate implements Generator.
func (b Block) Generate(k *brush.Kernel, sink Sink) (int, error) {
	planes, err := b.Planes()
	if err != nil {
		return 0, err
	}
	sink.Add(k.CreateFromIntersectingPlanes(planes))
	return 1, nil
}

// Cylinder is an upright prism with an elliptical cross-section inscribed
// in Box.
type Cylinder struct {
	Box   math.Bounds
	Sides int
}

// Planes returns the side planes followed by the top and bottom planes.
func (c Cylinder) Planes() ([]math.Plane, error) {
	if err := checkBox("cylinder", c.Box); err != nil {
		return nil, err
	}
	if c.Sides < 3 {
		return nil, fmt.Errorf("%w: cylinder needs at least 3 sides, got %d", ErrInvalidParams, c.Sides)
	}

	size, center := c.Box.Size(), c.Box.Center()
	rx, ry := size.X()/2, size.Y()/2
	ring := make([]mgl64.Vec3, c.Sides)
	for i := range ring {
		a := 2 * gomath.Pi * float64(i) / float64(c.Sides)
		ring[i] = mgl64.Vec3{center.X() + rx*gomath.Cos(a), center.Y() + ry*gomath.Sin(a), center.Z()}
	}

	planes := make([]math.Plane, 0, c.Sides+2)
	for i, p := range ring {
		edge := ring[(i+1)%len(ring)].Sub(p)
		planes = append(planes, math.NewPlane(edge.Cross(math.UnitZ), p))
	}
	planes = append(planes,
		math.NewPlane(math.UnitZ, c.Box.Max),
		math.NewPlane(math.UnitZ.Mul(-1), c.Box.Min))
	return planes, nil
}

// Generate implements Generator.
func (c Cylinder) Generate(k *brush.Kernel, sink Sink) (int, error) {
	planes, err := c.Planes()
	if err != nil {
		return 0, err
	}
	sink.Add(k.CreateFromIntersectingPlanes(planes))
	return 1, nil
}

// Wedge is a ramp rising from the max X edge of Box to full height at the
// min X edge.
type Wedge struct {
	Box math.Bounds
}

// Loops returns the five faces of the wedge.
func (w Wedge) Loops() ([][]mgl64.Vec3, error) {
	if err := checkBox("wedge", w.Box); err != nil {
		return nil, err
	}
	lo, hi := w.Box.Min, w.Box.Max
	a := mgl64.Vec3{lo.X(), lo.Y(), lo.Z()}
	b := mgl64.Vec3{hi.X(), lo.Y(), lo.Z()}
	c := mgl64.Vec3{hi.X(), hi.Y(), lo.Z()}
	d := mgl64.Vec3{lo.X(), hi.Y(), lo.Z()}
	e := mgl64.Vec3{lo.X(), lo.Y(), hi.Z()}
	f := mgl64.Vec3{lo.X(), hi.Y(), hi.Z()}

	return [][]mgl64.Vec3{
		{a, b, c, d}, // Floor
		{a, d, f, e}, // Back wall
		{b, e, f, c}, // Slope
		{a, e, b},
		{d, c, f},
	}, nil
}

// Generate implements Generator.
func (w Wedge) Generate(k *brush.Kernel, sink Sink) (int, error) {
	loops, err := w.Loops()
	if err != nil {
		return 0, err
	}
	emit(k, sink, loops)
	return 1, nil
}
