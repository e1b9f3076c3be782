// Package math provides the planar geometry used by the brush kernel:
// planes, convex polygons, bounds and point clouds over mgl64 vectors.
package math

import (
	"fmt"
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// parallelEpsilon rejects segment/plane intersections whose direction is
	// (nearly) parallel to the plane.
	parallelEpsilon = 1e-5

	// tripleEpsilon rejects three-plane intersections whose normals are
	// (nearly) linearly dependent.
	tripleEpsilon = 1e-5
)

// Canonical unit axes.
var (
	UnitX = mgl64.Vec3{1, 0, 0}
	UnitY = mgl64.Vec3{0, 1, 0}
	UnitZ = mgl64.Vec3{0, 0, 1}
)

// Plane is the half-space boundary a*x + b*y + c*z + d = 0.
// Points with a positive distance are in front of the plane.
type Plane struct {
	A, B, C, D float64
}

// NewPlane creates a plane from a normal and a point on the plane.
// The normal is normalized.
func NewPlane(normal, point mgl64.Vec3) Plane {
	n := normalize(normal)
	return Plane{A: n[0], B: n[1], C: n[2], D: -n.Dot(point)}
}

// PlaneFromNormalDistance creates a plane n·p = dist.
func PlaneFromNormalDistance(normal mgl64.Vec3, dist float64) Plane {
	n := normalize(normal)
	return Plane{A: n[0], B: n[1], C: n[2], D: -dist}
}

// FromVertices derives a plane from three points. The normal is
// (p3-p1) x (p2-p1); this operand order fixes the front side of every
// polygon and face in the kernel.
func FromVertices(p1, p2, p3 mgl64.Vec3) Plane {
	n := normalize(p3.Sub(p1).Cross(p2.Sub(p1)))
	return Plane{A: n[0], B: n[1], C: n[2], D: -n.Dot(p1)}
}

// Normal returns (a, b, c).
func (p Plane) Normal() mgl64.Vec3 {
	return mgl64.Vec3{p.A, p.B, p.C}
}

// DistanceFromOrigin returns the signed offset of the plane along its normal.
func (p Plane) DistanceFromOrigin() float64 {
	return -p.D
}

// PointOnPlane returns the point of the plane closest to the origin.
func (p Plane) PointOnPlane() mgl64.Vec3 {
	return p.Normal().Mul(-p.D)
}

// Distance returns the signed distance of point from the plane.
func (p Plane) Distance(point mgl64.Vec3) float64 {
	return p.A*point[0] + p.B*point[1] + p.C*point[2] + p.D
}

// OnPlane classifies point: +1 in front, -1 behind, 0 when the distance is
// smaller than epsilon.
func (p Plane) OnPlane(point mgl64.Vec3, epsilon float64) int {
	d := p.Distance(point)
	switch {
	case gomath.Abs(d) < epsilon:
		return 0
	case d > 0:
		return 1
	default:
		return -1
	}
}

// Flip returns the plane facing the opposite direction.
func (p Plane) Flip() Plane {
	return Plane{A: -p.A, B: -p.B, C: -p.C, D: -p.D}
}

// IsValid reports whether the plane has finite coefficients and a unit normal.
func (p Plane) IsValid() bool {
	for _, v := range [4]float64{p.A, p.B, p.C, p.D} {
		if gomath.IsNaN(v) || gomath.IsInf(v, 0) {
			return false
		}
	}
	return gomath.Abs(p.Normal().Len()-1) < 1e-6
}

// EqualWithin reports whether both planes have the same facing and offset
// within epsilon.
func (p Plane) EqualWithin(other Plane, epsilon float64) bool {
	return p.Normal().ApproxEqualThreshold(other.Normal(), epsilon) &&
		gomath.Abs(p.D-other.D) < epsilon
}

// ClosestAxis returns the canonical axis closest to the plane normal.
// Axes are prioritised X, Y, Z; ties go to the earlier axis.
func (p Plane) ClosestAxis() mgl64.Vec3 {
	x, y, z := gomath.Abs(p.A), gomath.Abs(p.B), gomath.Abs(p.C)
	if x >= y && x >= z {
		return UnitX
	}
	if y >= z {
		return UnitY
	}
	return UnitZ
}

// IntersectSegment intersects the line through start and end with the plane.
// Unless ignoreDirection is set, a segment heading from the back of the plane
// to its front does not intersect. Unless ignoreSegment is set, the hit must
// lie between start and end.
func (p Plane) IntersectSegment(start, end mgl64.Vec3, ignoreDirection, ignoreSegment bool) (mgl64.Vec3, bool) {
	n := p.Normal()
	dir := end.Sub(start)
	denom := -n.Dot(dir)
	numer := p.Distance(start)
	if gomath.Abs(denom) < parallelEpsilon || (!ignoreDirection && denom < 0) {
		return mgl64.Vec3{}, false
	}
	t := numer / denom
	if !ignoreSegment && (t < 0 || t > 1) {
		return mgl64.Vec3{}, false
	}
	return start.Add(dir.Mul(t)), true
}

// IntersectPlanes returns the single point shared by three planes.
// It fails when the normals are (nearly) coplanar or parallel.
func IntersectPlanes(p1, p2, p3 Plane) (mgl64.Vec3, bool) {
	n1, n2, n3 := p1.Normal(), p2.Normal(), p3.Normal()
	c1 := n2.Cross(n3)
	c2 := n3.Cross(n1)
	c3 := n1.Cross(n2)

	denom := n1.Dot(c1)
	if gomath.Abs(denom) < tripleEpsilon {
		return mgl64.Vec3{}, false
	}

	numer := c1.Mul(-p1.D).Add(c2.Mul(-p2.D)).Add(c3.Mul(-p3.D))
	return numer.Mul(1 / denom), true
}

// Transform returns the plane mapped by the affine matrix m. Normals are
// carried by the inverse transpose so non-uniform scales stay correct.
func (p Plane) Transform(m mgl64.Mat4) Plane {
	point := mgl64.TransformCoordinate(p.PointOnPlane(), m)
	normal := m.Inv().Transpose().Mat3().Mul3x1(p.Normal())
	return NewPlane(normal, point)
}

// String implements fmt.Stringer.
func (p Plane) String() string {
	return fmt.Sprintf("(%.4g, %.4g, %.4g, %.4g)", p.A, p.B, p.C, p.D)
}

func normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// IsFinite reports whether every component of v is a finite number.
func IsFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if gomath.IsNaN(c) || gomath.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// RoundVec rounds every component of v to the given number of decimals.
func RoundVec(v mgl64.Vec3, decimals int) mgl64.Vec3 {
	return mgl64.Vec3{
		mgl64.Round(v[0], decimals),
		mgl64.Round(v[1], decimals),
		mgl64.Round(v[2], decimals),
	}
}
