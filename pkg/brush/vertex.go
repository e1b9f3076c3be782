package brush

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Vertex is one entry of a solid's render vertex pool. Position is in solid
// space; the shading frame is in world space because texture axes are.
type Vertex struct {
	Position      mgl64.Vec3
	Normal        mgl64.Vec3
	Tangent       mgl64.Vec3
	Binormal      mgl64.Vec3
	TexCoord      mgl64.Vec2
	LightmapCoord mgl64.Vec2
}

// VertexRange is a face's window into its owner's vertex pool. It is only
// valid on the Solid that issued it.
type VertexRange struct {
	owner *Solid
	start int
	count int
}

// Start returns the first pool index of the range.
func (r VertexRange) Start() int { return r.start }

// Len returns the number of vertices in the range.
func (r VertexRange) Len() int { return r.count }

// Owner returns the solid whose pool the range points into.
func (r VertexRange) Owner() *Solid { return r.owner }

// Vertex returns a pointer to the i-th vertex of r. It panics when r was
// issued by another solid or i is out of range.
func (s *Solid) Vertex(r VertexRange, i int) *Vertex {
	s.checkRange(r)
	if i < 0 || i >= r.count {
		panic(fmt.Sprintf("brush: vertex %d out of range [0,%d)", i, r.count))
	}
	return &s.pool[r.start+i]
}

// vertices returns the live pool slice for r.
func (s *Solid) vertices(r VertexRange) []Vertex {
	s.checkRange(r)
	return s.pool[r.start : r.start+r.count : r.start+r.count]
}

func (s *Solid) checkRange(r VertexRange) {
	if r.owner != s {
		panic("brush: vertex range used with a solid that does not own it")
	}
	if r.start < 0 || r.start+r.count > len(s.pool) {
		panic(fmt.Sprintf("brush: vertex range [%d,%d) outside pool of %d", r.start, r.start+r.count, len(s.pool)))
	}
}

// allocate appends n zero vertices to the pool and returns their range.
func (s *Solid) allocate(n int) VertexRange {
	r := VertexRange{owner: s, start: len(s.pool), count: n}
	s.pool = append(s.pool, make([]Vertex, n)...)
	return r
}
