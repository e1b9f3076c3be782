package export

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/segmentio/encoding/json"

	"github.com/Faultbox/midgard-brush/pkg/brush"
	"github.com/Faultbox/midgard-brush/pkg/math"
)

// Solid is the JSON form of a solid.
type Solid struct {
	ID     string     `json:"id"`
	Min    mgl64.Vec3 `json:"min"`
	Max    mgl64.Vec3 `json:"max"`
	Faces  []Face     `json:"faces"`
	Closed bool       `json:"closed"`
}

// Face is the JSON form of a face.
type Face struct {
	Plane       [4]float64 `json:"plane"`
	Orientation string     `json:"orientation"`
	Material    string     `json:"material,omitempty"`
	Texture     *Texture   `json:"texture,omitempty"`
	Vertices    []Vertex   `json:"vertices"`
}

// Texture is the projection of a face's material.
type Texture struct {
	UAxis    mgl64.Vec3 `json:"u_axis"`
	VAxis    mgl64.Vec3 `json:"v_axis"`
	ScaleU   float64    `json:"scale_u"`
	ScaleV   float64    `json:"scale_v"`
	ShiftU   int        `json:"shift_u"`
	ShiftV   int        `json:"shift_v"`
	Rotation float64    `json:"rotation"`
}

// Vertex is the JSON form of a face vertex in world space.
type Vertex struct {
	Position mgl64.Vec3 `json:"position"`
	UV       mgl64.Vec2 `json:"uv"`
	Lightmap mgl64.Vec2 `json:"lightmap"`
}

// Dump converts solids to their JSON form in world space. decimals is the
// precision of the closed check.
func Dump(solids []*brush.Solid, decimals int) []Solid {
	out := make([]Solid, 0, len(solids))
	for _, s := range solids {
		js := Solid{
			ID:     s.ID.String(),
			Closed: s.CheckClosed(decimals) == nil,
			Faces:  make([]Face, 0, s.FaceCount()),
		}
		var b math.Bounds
		for _, f := range s.Faces() {
			jf := dumpFace(s, f)
			for _, v := range jf.Vertices {
				b = b.Extend(v.Position)
			}
			js.Faces = append(js.Faces, jf)
		}
		js.Min, js.Max = b.Min, b.Max
		out = append(out, js)
	}
	return out
}

func dumpFace(s *brush.Solid, f *brush.Face) Face {
	p := f.WorldPlane()
	jf := Face{
		Plane:       [4]float64{p.A, p.B, p.C, p.D},
		Orientation: f.Orientation().String(),
	}
	if m := f.Material; m.Material != nil {
		jf.Material = m.Material.Name()
		jf.Texture = &Texture{
			UAxis:    m.UAxis,
			VAxis:    m.VAxis,
			ScaleU:   m.ScaleU,
			ScaleV:   m.ScaleV,
			ShiftU:   m.ShiftU,
			ShiftV:   m.ShiftV,
			Rotation: m.Rotation,
		}
	}

	world := f.WorldPositions()
	r := f.Range()
	jf.Vertices = make([]Vertex, r.Len())
	for i := range jf.Vertices {
		v := s.Vertex(r, i)
		jf.Vertices[i] = Vertex{Position: world[i], UV: v.TexCoord, Lightmap: v.LightmapCoord}
	}
	return jf
}

// WriteJSON writes the JSON dump of solids to w.
func WriteJSON(w io.Writer, solids []*brush.Solid, decimals int, indent bool) error {
	var (
		data []byte
		err  error
	)
	dump := Dump(solids, decimals)
	if indent {
		data, err = json.MarshalIndent(dump, "", "  ")
	} else {
		data, err = json.Marshal(dump)
	}
	if err != nil {
		return fmt.Errorf("encoding solids: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing solids: %w", err)
	}
	return nil
}

// ReadJSON decodes a dump written by WriteJSON.
func ReadJSON(r io.Reader) ([]Solid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var solids []Solid
	if err := json.Unmarshal(data, &solids); err != nil {
		return nil, fmt.Errorf("decoding solids: %w", err)
	}
	return solids, nil
}
