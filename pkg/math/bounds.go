package math

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
)

// Bounds is an axis-aligned bounding box. The zero value is empty.
type Bounds struct {
	Min, Max mgl64.Vec3
	valid    bool
}

// NewBounds returns the box spanning the given points.
func NewBounds(points ...mgl64.Vec3) Bounds {
	var b Bounds
	for _, p := range points {
		b = b.Extend(p)
	}
	return b
}

// IsEmpty reports whether the box contains no point.
func (b Bounds) IsEmpty() bool {
	return !b.valid
}

// Extend returns the box grown to include p.
func (b Bounds) Extend(p mgl64.Vec3) Bounds {
	if !b.valid {
		return Bounds{Min: p, Max: p, valid: true}
	}
	for i := 0; i < 3; i++ {
		b.Min[i] = gomath.Min(b.Min[i], p[i])
		b.Max[i] = gomath.Max(b.Max[i], p[i])
	}
	return b
}

// Union returns the box containing both boxes.
func (b Bounds) Union(other Bounds) Bounds {
	if !other.valid {
		return b
	}
	return b.Extend(other.Min).Extend(other.Max)
}

// Size returns the extent along each axis.
func (b Bounds) Size() mgl64.Vec3 {
	if !b.valid {
		return mgl64.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the middle of the box.
func (b Bounds) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Contains reports whether p lies inside the box, borders included.
func (b Bounds) Contains(p mgl64.Vec3) bool {
	if !b.valid {
		return false
	}
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// ApproxEqual compares both corners within epsilon.
func (b Bounds) ApproxEqual(other Bounds, epsilon float64) bool {
	if b.valid != other.valid {
		return false
	}
	return b.Min.ApproxEqualThreshold(other.Min, epsilon) &&
		b.Max.ApproxEqualThreshold(other.Max, epsilon)
}
