package brush

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/midgard-brush/pkg/math"
)

// Classification is where a face or solid lies relative to a plane.
type Classification int

const (
	Front Classification = iota
	Back
	OnPlane
	Spanning
)

func (c Classification) String() string {
	switch c {
	case Front:
		return "front"
	case Back:
		return "back"
	case OnPlane:
		return "on-plane"
	default:
		return "spanning"
	}
}

// Visibility is the set of viewport modes a face is drawn in.
type Visibility uint8

const (
	VisibleSolid3D Visibility = 1 << iota
	VisibleWireframe3D
	VisibleWireframe2D

	VisibleAll = VisibleSolid3D | VisibleWireframe3D | VisibleWireframe2D
)

// Has reports whether every mode in m is set.
func (v Visibility) Has(m Visibility) bool { return v&m == m }

// Face is one planar boundary polygon of a Solid. A face never outlives its
// solid; its vertices live in the solid's pool.
type Face struct {
	solid *Solid
	plane math.Plane
	verts VertexRange

	Material   FaceMaterial
	Visibility Visibility
}

// Solid returns the owning solid.
func (f *Face) Solid() *Solid { return f.solid }

// Plane returns the stored solid-space plane.
func (f *Face) Plane() math.Plane { return f.plane }

// Range returns the face's vertex pool handle.
func (f *Face) Range() VertexRange { return f.verts }

// VertexCount returns the number of boundary vertices.
func (f *Face) VertexCount() int { return f.verts.count }

// WorldPlane returns the plane mapped through the owning solid's transform.
func (f *Face) WorldPlane() math.Plane {
	if f.solid.transform == mgl64.Ident4() {
		return f.plane
	}
	return f.plane.Transform(f.solid.transform)
}

// Positions returns a copy of the solid-space vertex positions.
func (f *Face) Positions() []mgl64.Vec3 {
	verts := f.solid.vertices(f.verts)
	out := make([]mgl64.Vec3, len(verts))
	for i := range verts {
		out[i] = verts[i].Position
	}
	return out
}

// WorldPositions returns the vertex positions mapped to world space.
func (f *Face) WorldPositions() []mgl64.Vec3 {
	out := f.Positions()
	if f.solid.transform == mgl64.Ident4() {
		return out
	}
	for i, p := range out {
		out[i] = mgl64.TransformCoordinate(p, f.solid.transform)
	}
	return out
}

// Polygon returns the face as a world-space polygon.
func (f *Face) Polygon() *math.Polygon {
	return &math.Polygon{Plane: f.WorldPlane(), Vertices: f.WorldPositions()}
}

// PointCloud returns the world-space point cloud of the face.
func (f *Face) PointCloud() *math.PointCloud {
	return math.NewPointCloud(f.WorldPositions())
}

// ClassifyAgainstPlane classifies the face's world-space vertices against p.
// OnPlane means every vertex lies within epsilon of p.
func (f *Face) ClassifyAgainstPlane(p math.Plane, epsilon float64) Classification {
	return classify(f.WorldPositions(), p, epsilon)
}

func classify(points []mgl64.Vec3, p math.Plane, epsilon float64) Classification {
	var front, back bool
	for _, pt := range points {
		switch p.OnPlane(pt, epsilon) {
		case 1:
			front = true
		case -1:
			back = true
		}
	}
	switch {
	case front && back:
		return Spanning
	case front:
		return Front
	case back:
		return Back
	default:
		return OnPlane
	}
}

// Flip reverses the winding and re-derives the plane from the new order.
func (f *Face) Flip() {
	verts := f.solid.vertices(f.verts)
	for i, j := 0, len(verts)-1; i < j; i, j = i+1, j-1 {
		verts[i], verts[j] = verts[j], verts[i]
	}
	f.plane = derivePlane(f.Positions(), f.plane.Flip())
}

// derivePlane derives a plane from the first three points, returning
// fallback when they are degenerate.
func derivePlane(points []mgl64.Vec3, fallback math.Plane) math.Plane {
	if len(points) < 3 {
		return fallback
	}
	p := math.FromVertices(points[0], points[1], points[2])
	if !p.IsValid() {
		return fallback
	}
	return p
}

// TriangleIndices returns a fan triangulation as absolute pool indices.
func (f *Face) TriangleIndices() []uint32 {
	n := f.verts.count
	if n < 3 {
		return nil
	}
	start := uint32(f.verts.start)
	out := make([]uint32, 0, (n-2)*3)
	for i := 1; i < n-1; i++ {
		out = append(out, start, start+uint32(i), start+uint32(i+1))
	}
	return out
}

// Orientation returns the canonical orientation of the world normal.
func (f *Face) Orientation() Orientation {
	return OrientationOf(f.WorldPlane().Normal())
}

// AlignTextureToWorld sets the texture axes to the canonical right and down
// vectors of the face orientation.
func (f *Face) AlignTextureToWorld() {
	o := f.Orientation()
	if o == Invalid {
		return
	}
	f.Material.UAxis = o.RightVector()
	f.Material.VAxis = o.DownVector()
	f.Material.Rotation = 0
}

// AlignTextureToFace projects the texture onto the face plane, keeping V as
// close to the canonical down vector as the plane allows.
func (f *Face) AlignTextureToFace() {
	o := f.Orientation()
	if o == Invalid {
		return
	}
	n := f.WorldPlane().Normal()
	u := unit(n.Cross(o.DownVector()))
	f.Material.UAxis = u
	f.Material.VAxis = unit(u.Cross(n))
	f.Material.Rotation = 0
}

// SetTextureRotation rotates the texture axes about the face normal so the
// stored rotation becomes degrees.
func (f *Face) SetTextureRotation(degrees float64) {
	delta := degrees - f.Material.Rotation
	q := mgl64.QuatRotate(mgl64.DegToRad(delta), f.WorldPlane().Normal())
	f.Material.UAxis = q.Rotate(f.Material.UAxis)
	f.Material.VAxis = q.Rotate(f.Material.VAxis)
	f.Material.Rotation = degrees
}

// FitTextureToPointCloud scales and shifts the texture so it repeats tileU by
// tileV times across the cloud.
func (f *Face) FitTextureToPointCloud(cloud *math.PointCloud, tileU, tileV int) {
	w, h := f.Material.size()
	if w == 0 || h == 0 || cloud == nil || len(cloud.Points) == 0 {
		return
	}
	if tileU <= 0 {
		tileU = 1
	}
	if tileV <= 0 {
		tileV = 1
	}

	minU, maxU := projectExtents(cloud, f.Material.UAxis, 1)
	minV, maxV := projectExtents(cloud, f.Material.VAxis, 1)

	if s := (maxU - minU) / (w * float64(tileU)); s != 0 {
		f.Material.ScaleU = s
		f.Material.ShiftU = int(gomath.Round(-minU / s))
	}
	if s := (maxV - minV) / (h * float64(tileV)); s != 0 {
		f.Material.ScaleV = s
		f.Material.ShiftV = int(gomath.Round(-minV / s))
	}
}

// AlignTextureWithPointCloud shifts the texture so the given edge of the
// cloud lines up with the texture edge.
func (f *Face) AlignTextureWithPointCloud(cloud *math.PointCloud, mode AlignMode) {
	w, h := f.Material.size()
	m := &f.Material
	if w == 0 || h == 0 || m.ScaleU == 0 || m.ScaleV == 0 || cloud == nil || len(cloud.Points) == 0 {
		return
	}

	minU, maxU := projectExtents(cloud, m.UAxis, m.ScaleU)
	minV, maxV := projectExtents(cloud, m.VAxis, m.ScaleV)

	switch mode {
	case AlignLeft:
		m.ShiftU = roundInt(-minU)
	case AlignRight:
		m.ShiftU = roundInt(-maxU + w)
	case AlignCenter:
		m.ShiftU = roundInt(-(minU+maxU)/2 + w/2)
		m.ShiftV = roundInt(-(minV+maxV)/2 + h/2)
	case AlignTop:
		m.ShiftV = roundInt(-minV)
	case AlignBottom:
		m.ShiftV = roundInt(-maxV + h)
	}
}

// CalcTextureCoordinates writes normals, the tangent frame, texture and
// lightmap coordinates into the face's pool vertices.
func (f *Face) CalcTextureCoordinates() {
	verts := f.solid.vertices(f.verts)
	world := f.WorldPositions()
	n := f.WorldPlane().Normal()
	m := f.Material

	tangent := unit(n.Cross(m.VAxis))
	binormal := unit(tangent.Cross(n))
	if m.UAxis.Cross(m.VAxis).Dot(n) > 0 {
		tangent = tangent.Mul(-1)
	}

	w, h := m.size()
	textured := w > 0 && h > 0 && m.ScaleU != 0 && m.ScaleV != 0

	lmScale := m.LightmapScale
	if lmScale <= 0 {
		lmScale = DefaultLightmapScale
	}
	lu, lv := unit(m.UAxis), unit(m.VAxis)
	minLU, minLV := gomath.Inf(1), gomath.Inf(1)
	for _, p := range world {
		minLU = gomath.Min(minLU, p.Dot(lu))
		minLV = gomath.Min(minLV, p.Dot(lv))
	}

	for i, p := range world {
		v := &verts[i]
		v.Normal = n
		v.Tangent = tangent
		v.Binormal = binormal
		v.TexCoord = mgl64.Vec2{}
		if textured {
			v.TexCoord = mgl64.Vec2{
				p.Dot(m.UAxis)/(w*m.ScaleU) + float64(m.ShiftU)/w,
				p.Dot(m.VAxis)/(h*m.ScaleV) + float64(m.ShiftV)/h,
			}
		}
		v.LightmapCoord = mgl64.Vec2{
			(p.Dot(lu) - minLU) / lmScale,
			(p.Dot(lv) - minLV) / lmScale,
		}
	}
}

// projectExtents projects the cloud extremes onto axis and divides by scale.
func projectExtents(cloud *math.PointCloud, axis mgl64.Vec3, scale float64) (lo, hi float64) {
	lo, hi = gomath.Inf(1), gomath.Inf(-1)
	for _, p := range cloud.Extents() {
		d := p.Dot(axis) / scale
		lo = gomath.Min(lo, d)
		hi = gomath.Max(hi, d)
	}
	return lo, hi
}

func roundInt(x float64) int {
	return int(gomath.Round(x))
}

// unit normalizes v, returning the zero vector for zero input.
func unit(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}
