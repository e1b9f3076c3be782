package brush

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Faultbox/midgard-brush/pkg/math"
)

// FaceView is the immutable render view of one face.
type FaceView struct {
	Plane      math.Plane
	Vertices   []Vertex
	Indices    []uint32 // Triangle list into Vertices
	Material   FaceMaterial
	Visibility Visibility
}

// FaceSnapshot is a published, read-only copy of a solid's render geometry.
// Readers may hold it on any goroutine while the solid is being edited.
type FaceSnapshot struct {
	SolidID uuid.UUID
	Version uint64
	Faces   []FaceView
}

// VertexCount returns the total number of vertices over all faces.
func (s *FaceSnapshot) VertexCount() int {
	n := 0
	for i := range s.Faces {
		n += len(s.Faces[i].Vertices)
	}
	return n
}

// snapshotCell holds the latest snapshot. Writes come from the editing
// goroutine only; loads are safe from anywhere.
type snapshotCell struct {
	current atomic.Pointer[FaceSnapshot]
	version uint64
}

func (c *snapshotCell) load() *FaceSnapshot {
	return c.current.Load()
}

func (c *snapshotCell) publish(id uuid.UUID, faces []FaceView) *FaceSnapshot {
	c.version++
	snap := &FaceSnapshot{SolidID: id, Version: c.version, Faces: faces}
	c.current.Store(snap)
	return snap
}

// Snapshot returns the most recently published render geometry. Before the
// first GenerateFaces it returns an empty snapshot with version 0.
func (s *Solid) Snapshot() *FaceSnapshot {
	if snap := s.snap.load(); snap != nil {
		return snap
	}
	return &FaceSnapshot{SolidID: s.ID}
}

func (s *Solid) publish() *FaceSnapshot {
	views := make([]FaceView, 0, len(s.faces))
	for _, f := range s.faces {
		src := s.vertices(f.verts)
		verts := make([]Vertex, len(src))
		copy(verts, src)

		indices := f.TriangleIndices()
		for i := range indices {
			indices[i] -= uint32(f.verts.start)
		}

		views = append(views, FaceView{
			Plane:      f.WorldPlane(),
			Vertices:   verts,
			Indices:    indices,
			Material:   f.Material.Clone(),
			Visibility: f.Visibility,
		})
	}
	return s.snap.publish(s.ID, views)
}
