package brush

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/Faultbox/midgard-brush/pkg/math"
)

// ErrOpenSolid is returned by CheckClosed when the faces do not form a
// closed, consistently wound surface.
var ErrOpenSolid = errors.New("brush: solid is not closed")

// Solid is a convex polyhedron bounded by faces. A solid is edited from one
// goroutine; other goroutines read it through Snapshot.
type Solid struct {
	ID uuid.UUID

	faces     []*Face
	pool      []Vertex
	transform mgl64.Mat4
	bounds    math.Bounds

	snap snapshotCell
}

// NewSolid returns an empty solid with a fresh ID and identity transform.
func NewSolid() *Solid {
	return &Solid{ID: uuid.New(), transform: mgl64.Ident4()}
}

// Faces returns the faces in construction order. The slice must not be
// modified.
func (s *Solid) Faces() []*Face { return s.faces }

// FaceCount returns the number of faces.
func (s *Solid) FaceCount() int { return len(s.faces) }

// Face returns the i-th face.
func (s *Solid) Face(i int) *Face { return s.faces[i] }

// Bounds returns the solid-space bounding box of all vertices.
func (s *Solid) Bounds() math.Bounds { return s.bounds }

// Transform returns the model transform applied when computing world planes.
func (s *Solid) Transform() mgl64.Mat4 { return s.transform }

// SetTransform sets the model transform. Call GenerateFaces afterwards to
// refresh texture coordinates.
func (s *Solid) SetTransform(m mgl64.Mat4) { s.transform = m }

// AddFace appends a face with the given plane and boundary. The plane is
// stored as given. AddFace panics on fewer than 3 or non-finite vertices.
func (s *Solid) AddFace(plane math.Plane, positions []mgl64.Vec3, mat FaceMaterial) *Face {
	if len(positions) < 3 {
		panic(fmt.Sprintf("brush: face needs at least 3 vertices, got %d", len(positions)))
	}
	if !plane.IsValid() {
		panic(fmt.Sprintf("brush: invalid face plane %v", plane))
	}
	for _, p := range positions {
		if !math.IsFinite(p) {
			panic(fmt.Sprintf("brush: non-finite vertex %v", p))
		}
	}

	f := &Face{
		solid:      s,
		plane:      plane,
		verts:      s.allocate(len(positions)),
		Material:   mat,
		Visibility: VisibleAll,
	}
	verts := s.vertices(f.verts)
	for i, p := range positions {
		verts[i].Position = p
		s.bounds = s.bounds.Extend(p)
	}
	s.faces = append(s.faces, f)
	return f
}

// AddPolygon appends a face built from p.
func (s *Solid) AddPolygon(p *math.Polygon, mat FaceMaterial) *Face {
	return s.AddFace(p.Plane, p.Vertices, mat)
}

// GenerateFaces recomputes every face's texture coordinates and shading
// frame and publishes a new snapshot.
func (s *Solid) GenerateFaces() *FaceSnapshot {
	for _, f := range s.faces {
		f.CalcTextureCoordinates()
	}
	return s.publish()
}

// ClassifyAgainstPlane classifies all faces of the solid against p.
func (s *Solid) ClassifyAgainstPlane(p math.Plane, epsilon float64) Classification {
	var pts []mgl64.Vec3
	for _, f := range s.faces {
		pts = append(pts, f.WorldPositions()...)
	}
	return classify(pts, p, epsilon)
}

// PointCloud returns the world-space point cloud of all face vertices.
func (s *Solid) PointCloud() *math.PointCloud {
	var pts []mgl64.Vec3
	for _, f := range s.faces {
		pts = append(pts, f.WorldPositions()...)
	}
	return math.NewPointCloud(pts)
}

// Clone returns a deep copy with a new ID. Materials are cloned; the
// material reference is shared.
func (s *Solid) Clone() *Solid {
	c := NewSolid()
	c.transform = s.transform
	for _, f := range s.faces {
		nf := c.AddFace(f.plane, f.Positions(), f.Material.Clone())
		nf.Visibility = f.Visibility
		copy(c.vertices(nf.verts), s.vertices(f.verts))
	}
	c.GenerateFaces()
	return c
}

// Xform bakes m into the vertices and re-derives every plane. Texture axes
// follow the transform. A mirroring transform reverses the winding so faces
// keep pointing out.
func (s *Solid) Xform(m mgl64.Mat4) {
	mirror := m.Det() < 0
	s.bounds = math.Bounds{}
	for _, f := range s.faces {
		verts := s.vertices(f.verts)
		for i := range verts {
			verts[i].Position = mgl64.TransformCoordinate(verts[i].Position, m)
			s.bounds = s.bounds.Extend(verts[i].Position)
		}
		fallback := f.plane.Transform(m)
		if mirror {
			for i, j := 0, len(verts)-1; i < j; i, j = i+1, j-1 {
				verts[i], verts[j] = verts[j], verts[i]
			}
		}
		f.plane = derivePlane(f.Positions(), fallback)
		f.Material.UAxis = mgl64.TransformNormal(f.Material.UAxis, m)
		f.Material.VAxis = mgl64.TransformNormal(f.Material.VAxis, m)
	}
	s.GenerateFaces()
}

// Flip reverses every face so the solid is turned inside out.
func (s *Solid) Flip() {
	for _, f := range s.faces {
		f.Flip()
	}
	s.GenerateFaces()
}

// CheckClosed verifies that every directed edge is matched by exactly one
// reversed edge on another face. Positions are compared after rounding to
// decimals.
func (s *Solid) CheckClosed(decimals int) error {
	if len(s.faces) < 4 {
		return fmt.Errorf("%w: %d faces", ErrOpenSolid, len(s.faces))
	}

	type edge struct{ a, b mgl64.Vec3 }
	owner := make(map[edge]int)
	for fi, f := range s.faces {
		pts := f.Positions()
		for i := range pts {
			e := edge{math.RoundVec(pts[i], decimals), math.RoundVec(pts[(i+1)%len(pts)], decimals)}
			if e.a == e.b {
				return fmt.Errorf("%w: face %d has a zero-length edge at %v", ErrOpenSolid, fi, e.a)
			}
			if prev, ok := owner[e]; ok {
				return fmt.Errorf("%w: edge %v-%v used by faces %d and %d in the same direction", ErrOpenSolid, e.a, e.b, prev, fi)
			}
			owner[e] = fi
		}
	}
	for e, fi := range owner {
		if _, ok := owner[edge{e.b, e.a}]; !ok {
			return fmt.Errorf("%w: edge %v-%v of face %d has no neighbour", ErrOpenSolid, e.a, e.b, fi)
		}
	}
	return nil
}
