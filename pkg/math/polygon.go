package math

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultPolygonRadius is the half-extent of the starting polygon used when
// a face is carved out of an unbounded plane.
const DefaultPolygonRadius = 1_000_000

// Polygon is a convex, coplanar vertex loop. The loop is wound so that
// FromVertices(v0, v1, v2) reproduces Plane.
type Polygon struct {
	Plane    Plane
	Vertices []mgl64.Vec3
}

// NewPolygon builds a polygon from a vertex loop, deriving the plane from
// the first three vertices.
func NewPolygon(vertices []mgl64.Vec3) *Polygon {
	if len(vertices) < 3 {
		panic(fmt.Sprintf("math: polygon needs at least 3 vertices, got %d", len(vertices)))
	}
	return &Polygon{
		Plane:    FromVertices(vertices[0], vertices[1], vertices[2]),
		Vertices: vertices,
	}
}

// NewPolygonFromPlane builds a large square lying in plane. The in-plane
// basis is derived from the plane's closest canonical axis so it never
// degenerates.
func NewPolygonFromPlane(plane Plane, radius float64) *Polygon {
	normal := plane.Normal()
	tempV := UnitZ.Mul(-1)
	if plane.ClosestAxis() == UnitZ {
		tempV = UnitY.Mul(-1)
	}
	up := normalize(tempV.Cross(normal))
	right := normalize(normal.Cross(up))

	origin := plane.PointOnPlane()
	corners := [4]mgl64.Vec3{
		origin.Add(right).Add(up),
		origin.Sub(right).Add(up),
		origin.Sub(right).Sub(up),
		origin.Add(right).Sub(up),
	}

	verts := make([]mgl64.Vec3, 0, len(corners))
	for _, c := range corners {
		verts = append(verts, origin.Add(normalize(c.Sub(origin)).Mul(radius)))
	}
	return &Polygon{Plane: plane, Vertices: verts}
}

// Clone returns a deep copy.
func (p *Polygon) Clone() *Polygon {
	verts := make([]mgl64.Vec3, len(p.Vertices))
	copy(verts, p.Vertices)
	return &Polygon{Plane: p.Plane, Vertices: verts}
}

// IsValid reports whether the polygon has at least 3 finite vertices.
func (p *Polygon) IsValid() bool {
	if p == nil || len(p.Vertices) < 3 {
		return false
	}
	for _, v := range p.Vertices {
		if !IsFinite(v) {
			return false
		}
	}
	return true
}

// Centroid returns the average of the vertices.
func (p *Polygon) Centroid() mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, v := range p.Vertices {
		sum = sum.Add(v)
	}
	return sum.Mul(1 / float64(len(p.Vertices)))
}

// Area returns the area of the polygon.
func (p *Polygon) Area() float64 {
	var sum mgl64.Vec3
	for i, v := range p.Vertices {
		sum = sum.Add(v.Cross(p.Vertices[(i+1)%len(p.Vertices)]))
	}
	return abs(sum.Dot(p.Plane.Normal())) / 2
}

// Round snaps every vertex to the given number of decimals.
func (p *Polygon) Round(decimals int) {
	for i, v := range p.Vertices {
		p.Vertices[i] = RoundVec(v, decimals)
	}
}

// Simplify removes vertices lying on the line through their neighbours.
// It makes a single forward pass and does not wrap around the loop, so a run
// of three or more collinear points may need another call to collapse.
func (p *Polygon) Simplify(epsilon float64) {
	for i := 0; i < len(p.Vertices)-2; i++ {
		v1, mid, v2 := p.Vertices[i], p.Vertices[i+1], p.Vertices[i+2]
		if closestPointOnLine(v1, v2, mid).ApproxEqualThreshold(mid, epsilon) {
			p.Vertices = append(p.Vertices[:i+1], p.Vertices[i+2:]...)
		}
	}
}

// Split cuts the polygon by clip. Exactly one of the four results is the
// receiver when the polygon does not span the plane; otherwise front and
// back are new polygons sharing the crossing points and every vertex that
// lies on the plane.
func (p *Polygon) Split(clip Plane, epsilon float64) (front, back, coplanarFront, coplanarBack *Polygon) {
	dists := make([]float64, len(p.Vertices))
	var nFront, nBack int
	for i, v := range p.Vertices {
		d := clip.Distance(v)
		switch {
		case d < -epsilon:
			nBack++
		case d > epsilon:
			nFront++
		default:
			d = 0
		}
		dists[i] = d
	}

	switch {
	case nFront == 0 && nBack == 0:
		if p.Plane.Normal().Dot(clip.Normal()) > 0 {
			return nil, nil, p, nil
		}
		return nil, nil, nil, p
	case nBack == 0:
		return p, nil, nil, nil
	case nFront == 0:
		return nil, p, nil, nil
	}

	frontVerts := make([]mgl64.Vec3, 0, len(p.Vertices)+1)
	backVerts := make([]mgl64.Vec3, 0, len(p.Vertices)+1)
	for i, s := range p.Vertices {
		j := (i + 1) % len(p.Vertices)
		e := p.Vertices[j]
		sd, ed := dists[i], dists[j]

		if sd <= 0 {
			backVerts = append(backVerts, s)
		}
		if sd >= 0 {
			frontVerts = append(frontVerts, s)
		}
		if (sd < 0 && ed > 0) || (sd > 0 && ed < 0) {
			t := sd / (sd - ed)
			x := s.Mul(1 - t).Add(e.Mul(t))
			frontVerts = append(frontVerts, x)
			backVerts = append(backVerts, x)
		}
	}

	return p.child(frontVerts), p.child(backVerts), nil, nil
}

// ClipBack keeps the part of the polygon behind clip. It returns nil when
// nothing remains. A polygon lying in clip is kept when both face the same
// way and discarded otherwise.
func (p *Polygon) ClipBack(clip Plane, epsilon float64) *Polygon {
	_, back, coFront, _ := p.Split(clip, epsilon)
	switch {
	case back != nil:
		return back
	case coFront != nil:
		return coFront
	default:
		return nil
	}
}

// child builds a polygon from a split result. The plane is re-derived from
// the first three vertices; if those are collinear the parent plane is kept.
func (p *Polygon) child(verts []mgl64.Vec3) *Polygon {
	if len(verts) < 3 {
		return nil
	}
	plane := FromVertices(verts[0], verts[1], verts[2])
	if !plane.IsValid() || plane.Normal().Dot(p.Plane.Normal()) <= 0 {
		plane = p.Plane
	}
	return &Polygon{Plane: plane, Vertices: verts}
}

func closestPointOnLine(a, b, p mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / l2
	return a.Add(ab.Mul(t))
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
