package batch

import (
	"fmt"
	"sort"

	"github.com/Faultbox/midgard-brush/pkg/brush"
)

// Primitive is the primitive type of a batch.
type Primitive int

const (
	Triangles Primitive = iota
	Lines
)

func (p Primitive) String() string {
	if p == Lines {
		return "lines"
	}
	return "triangles"
}

// Untextured is the render state of faces without a material.
const Untextured = "untextured"

// Key identifies a batch.
type Key struct {
	Format    string
	Primitive Primitive
	State     string
}

// Batch is a merged vertex and index list for one key.
type Batch struct {
	Key      Key
	Format   *VertexFormat
	Vertices []brush.Vertex
	Indices  []uint32
	Faces    int
}

// Builder turns snapshots into batches for one visibility mode at a time.
type Builder struct {
	textured  *VertexFormat
	wireframe *VertexFormat
}

// NewBuilder resolves the brush formats from reg.
func NewBuilder(reg *FormatRegistry) (*Builder, error) {
	textured, ok := reg.Get(FormatTextured)
	if !ok {
		return nil, fmt.Errorf("batch: format %s not registered", FormatTextured)
	}
	wireframe, ok := reg.Get(FormatWireframe)
	if !ok {
		return nil, fmt.Errorf("batch: format %s not registered", FormatWireframe)
	}
	return &Builder{textured: textured, wireframe: wireframe}, nil
}

// Build groups the faces visible in mode. Solid3D faces are triangle batches
// keyed by material; wireframe faces are line batches of their edges.
// Batches are returned sorted by key.
func (b *Builder) Build(mode brush.Visibility, snaps ...*brush.FaceSnapshot) []*Batch {
	batches := make(map[Key]*Batch)
	for _, snap := range snaps {
		if snap == nil {
			continue
		}
		for i := range snap.Faces {
			face := &snap.Faces[i]
			if !face.Visibility.Has(mode) || len(face.Vertices) < 3 {
				continue
			}

			key, format := b.keyFor(mode, face)
			bt, ok := batches[key]
			if !ok {
				bt = &Batch{Key: key, Format: format}
				batches[key] = bt
			}

			base := uint32(len(bt.Vertices))
			bt.Vertices = append(bt.Vertices, face.Vertices...)
			if key.Primitive == Triangles {
				for _, idx := range face.Indices {
					bt.Indices = append(bt.Indices, base+idx)
				}
			} else {
				n := uint32(len(face.Vertices))
				for j := uint32(0); j < n; j++ {
					bt.Indices = append(bt.Indices, base+j, base+(j+1)%n)
				}
			}
			bt.Faces++
		}
	}

	out := make([]*Batch, 0, len(batches))
	for _, bt := range batches {
		out = append(out, bt)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a.Format != b.Format {
			return a.Format < b.Format
		}
		if a.Primitive != b.Primitive {
			return a.Primitive < b.Primitive
		}
		return a.State < b.State
	})
	return out
}

func (b *Builder) keyFor(mode brush.Visibility, face *brush.FaceView) (Key, *VertexFormat) {
	switch mode {
	case brush.VisibleWireframe3D:
		return Key{Format: b.wireframe.Name, Primitive: Lines, State: "wireframe-3d"}, b.wireframe
	case brush.VisibleWireframe2D:
		return Key{Format: b.wireframe.Name, Primitive: Lines, State: "wireframe-2d"}, b.wireframe
	}
	state := Untextured
	if m := face.Material.Material; m != nil {
		state = m.Name()
	}
	return Key{Format: b.textured.Name, Primitive: Triangles, State: state}, b.textured
}
