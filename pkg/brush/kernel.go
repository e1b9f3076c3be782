// Package brush implements convex brush solids: construction from
// intersecting planes, splitting by a plane with texture continuity, and
// the per-face texture projection used for rendering.
package brush

import (
	"fmt"
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-brush/internal/logger"
	"github.com/Faultbox/midgard-brush/internal/metrics"
	"github.com/Faultbox/midgard-brush/pkg/math"
)

// Tolerance holds the kernel's numeric tolerances.
type Tolerance struct {
	// Classify is the coarse epsilon used to decide which side of a cutting
	// plane a face lies on and to match faces for texture carry-over.
	Classify float64
	// Clip is the fine epsilon used while carving faces out of planes.
	Clip float64
	// RoundDecimals is applied to every constructed vertex.
	RoundDecimals int
	// PolygonRadius is the half-extent of the starting polygon of each plane.
	PolygonRadius float64
}

// DefaultTolerance returns the tolerances used by the editor.
func DefaultTolerance() Tolerance {
	return Tolerance{
		Classify:      0.5,
		Clip:          1e-4,
		RoundDecimals: 2,
		PolygonRadius: math.DefaultPolygonRadius,
	}
}

// Kernel builds and splits solids with a fixed set of tolerances.
type Kernel struct {
	Tol Tolerance

	// Material is cloned onto every face of a newly constructed solid.
	Material FaceMaterial

	// Metrics may be nil.
	Metrics *metrics.Kernel

	log *zap.Logger
}

// NewKernel returns a kernel logging under the "brush" name.
func NewKernel(tol Tolerance, mat FaceMaterial, m *metrics.Kernel) *Kernel {
	return &Kernel{
		Tol:      tol,
		Material: mat,
		Metrics:  m,
		log:      logger.Named("brush"),
	}
}

// WithMaterial returns a copy of k that stamps mat on new faces.
func (k *Kernel) WithMaterial(mat FaceMaterial) *Kernel {
	c := *k
	c.Material = mat
	return &c
}

// CreateFromIntersectingPlanes builds the convex solid bounded by planes.
// Each plane faces out of the solid. Planes that bound nothing are dropped;
// coincident planes are merged first. Faces are aligned to the world and the
// render geometry is published.
func (k *Kernel) CreateFromIntersectingPlanes(planes []math.Plane) *Solid {
	s := k.commit(k.build(planes))
	for _, f := range s.faces {
		f.AlignTextureToWorld()
	}
	s.GenerateFaces()
	return s
}

// candidate is a constructed solid whose counters are recorded only once it
// is kept.
type candidate struct {
	solid   *Solid
	planes  int
	merged  int
	dropped int
}

func (k *Kernel) build(planes []math.Plane) candidate {
	planes, merged := k.mergeCoincident(planes)

	s := NewSolid()
	dropped := 0
	for i, p := range planes {
		poly := math.NewPolygonFromPlane(p, k.Tol.PolygonRadius)
		for j, clip := range planes {
			if i == j {
				continue
			}
			if poly = poly.ClipBack(clip, k.Tol.Clip); poly == nil {
				break
			}
		}
		if poly == nil {
			k.log.Debug("plane bounds no face", zap.Int("plane", i), zap.Stringer("value", p))
			dropped++
			continue
		}

		poly.Round(k.Tol.RoundDecimals)
		poly.Vertices = dedupe(poly.Vertices)
		poly.Simplify(k.Tol.Clip)
		verts := poly.Vertices
		if len(verts) < 3 {
			k.log.Debug("face collapsed after rounding", zap.Int("plane", i), zap.Stringer("value", p))
			dropped++
			continue
		}
		s.AddFace(p, verts, k.Material.Clone())
	}
	return candidate{solid: s, planes: len(planes), merged: merged, dropped: dropped}
}

// commit records the counters of a kept candidate and returns its solid.
func (k *Kernel) commit(c candidate) *Solid {
	s := c.solid
	if c.merged > 0 {
		k.Metrics.PlanesMerged(c.merged)
		k.log.Debug("merged coincident planes", zap.Int("merged", c.merged))
	}
	k.Metrics.SolidBuilt(len(s.faces), c.dropped)
	k.log.Debug("solid built",
		zap.Stringer("id", s.ID),
		zap.Int("planes", c.planes),
		zap.Int("faces", len(s.faces)),
		zap.Int("dropped", c.dropped))
	return s
}

// CreateFromLoops builds a solid directly from convex vertex loops whose
// winding already gives the outward normal. Loops that collapse after
// rounding are dropped.
func (k *Kernel) CreateFromLoops(loops [][]mgl64.Vec3) *Solid {
	s := NewSolid()
	dropped := 0
	for i, loop := range loops {
		verts := make([]mgl64.Vec3, len(loop))
		for j, v := range loop {
			if !math.IsFinite(v) {
				panic(fmt.Sprintf("brush: non-finite vertex %v in loop %d", v, i))
			}
			verts[j] = math.RoundVec(v, k.Tol.RoundDecimals)
		}
		verts = dedupe(verts)
		plane, ok := loopPlane(verts)
		if !ok {
			k.log.Debug("loop collapsed", zap.Int("loop", i), zap.Int("vertices", len(verts)))
			dropped++
			continue
		}
		s.AddFace(plane, verts, k.Material.Clone()).AlignTextureToWorld()
	}

	k.Metrics.SolidBuilt(len(s.faces), dropped)
	s.GenerateFaces()
	return s
}

// loopPlane derives the plane of a convex loop from the first
// non-collinear fan triangle.
func loopPlane(verts []mgl64.Vec3) (math.Plane, bool) {
	for i := 1; i+1 < len(verts); i++ {
		if p := math.FromVertices(verts[0], verts[i], verts[i+1]); p.IsValid() {
			return p, true
		}
	}
	return math.Plane{}, false
}

// mergeCoincident normalizes the planes and removes later copies of planes
// that coincide within the clip epsilon. It also returns the number removed.
func (k *Kernel) mergeCoincident(planes []math.Plane) ([]math.Plane, int) {
	out := make([]math.Plane, 0, len(planes))
	merged := 0
next:
	for _, p := range planes {
		p = normalizePlane(p)
		for _, q := range out {
			if p.EqualWithin(q, k.Tol.Clip) {
				merged++
				continue next
			}
		}
		out = append(out, p)
	}
	return out, merged
}

// normalizePlane rescales p to a unit normal. It panics on non-finite or
// zero normals.
func normalizePlane(p math.Plane) math.Plane {
	n := p.Normal()
	l := n.Len()
	if !math.IsFinite(n) || l == 0 || gomath.IsNaN(p.D) || gomath.IsInf(p.D, 0) {
		panic(fmt.Sprintf("brush: degenerate plane %v", p))
	}
	return math.Plane{A: p.A / l, B: p.B / l, C: p.C / l, D: p.D / l}
}

// dedupe drops consecutive duplicate vertices, including the wrap-around.
func dedupe(verts []mgl64.Vec3) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, 0, len(verts))
	for _, v := range verts {
		if len(out) > 0 && out[len(out)-1] == v {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// Split cuts s by the world-space plane cut. When the solid lies entirely on
// one side the original is returned on that side, the other is nil and
// split is false. Otherwise two new solids are returned; faces that stay
// coplanar with an original face keep its material.
func (k *Kernel) Split(s *Solid, cut math.Plane) (front, back *Solid, split bool) {
	cut = normalizePlane(cut)

	frontPlanes := []math.Plane{cut.Flip()}
	backPlanes := []math.Plane{cut}
	for _, f := range s.faces {
		c := f.ClassifyAgainstPlane(cut, k.Tol.Classify)
		wp := f.WorldPlane()
		if c != Back {
			frontPlanes = append(frontPlanes, wp)
		}
		if c != Front {
			backPlanes = append(backPlanes, wp)
		}
	}

	// OnPlane faces bound both halves.
	if len(frontPlanes) == 1 {
		return k.whole(s, cut, false)
	}
	if len(backPlanes) == 1 {
		return k.whole(s, cut, true)
	}

	fc := k.build(frontPlanes)
	bc := k.build(backPlanes)
	if len(fc.solid.faces) < 4 || len(bc.solid.faces) < 4 {
		return k.whole(s, cut, len(fc.solid.faces) >= 4)
	}
	front = k.commit(fc)
	back = k.commit(bc)

	k.restoreMaterials(s, front)
	k.restoreMaterials(s, back)
	front.GenerateFaces()
	back.GenerateFaces()

	k.Metrics.Split(metrics.OutcomeSplit)
	k.log.Debug("solid split",
		zap.Stringer("id", s.ID),
		zap.Stringer("plane", cut),
		zap.Stringer("front", front.ID),
		zap.Stringer("back", back.ID))
	return front, back, true
}

func (k *Kernel) whole(s *Solid, cut math.Plane, inFront bool) (front, back *Solid, split bool) {
	if inFront {
		k.Metrics.Split(metrics.OutcomeFront)
		k.log.Debug("split plane misses solid", zap.Stringer("id", s.ID), zap.Stringer("plane", cut), zap.String("side", "front"))
		return s, nil, false
	}
	k.Metrics.Split(metrics.OutcomeBack)
	k.log.Debug("split plane misses solid", zap.Stringer("id", s.ID), zap.Stringer("plane", cut), zap.String("side", "back"))
	return nil, s, false
}

// restoreMaterials gives every face of dst the material of the original face
// it is coplanar with and facing the same way. Faces with no match, such as
// the cut face, get a clone of the first original material aligned to the
// face.
func (k *Kernel) restoreMaterials(orig, dst *Solid) {
	fallback := k.Material
	if len(orig.faces) > 0 {
		fallback = orig.faces[0].Material
	}
	for _, f := range dst.faces {
		wp := f.WorldPlane()
		matched := false
		for _, o := range orig.faces {
			if o.WorldPlane().Normal().Dot(wp.Normal()) <= 0 {
				continue
			}
			if o.ClassifyAgainstPlane(wp, k.Tol.Classify) == OnPlane {
				f.Material = o.Material.Clone()
				matched = true
				break
			}
		}
		if !matched {
			f.Material = fallback.Clone()
			f.AlignTextureToFace()
		}
	}
}
