package math

import "github.com/go-gl/mathgl/mgl64"

// PointCloud is a set of points with its extreme points cached.
type PointCloud struct {
	Points []mgl64.Vec3
	Bounds Bounds

	extents [6]mgl64.Vec3
}

// NewPointCloud collects points and records, per axis, the points holding
// the minimum and maximum coordinate.
func NewPointCloud(points []mgl64.Vec3) *PointCloud {
	c := &PointCloud{Points: points}
	for i, p := range points {
		c.Bounds = c.Bounds.Extend(p)
		if i == 0 {
			for k := range c.extents {
				c.extents[k] = p
			}
			continue
		}
		for axis := 0; axis < 3; axis++ {
			if p[axis] < c.extents[axis][axis] {
				c.extents[axis] = p
			}
			if p[axis] > c.extents[axis+3][axis] {
				c.extents[axis+3] = p
			}
		}
	}
	return c
}

// Extents returns the points at min X, min Y, min Z, max X, max Y, max Z.
func (c *PointCloud) Extents() [6]mgl64.Vec3 {
	return c.extents
}
