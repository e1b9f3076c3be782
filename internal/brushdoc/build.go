package brushdoc

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-brush/internal/assets"
	"github.com/Faultbox/midgard-brush/internal/logger"
	"github.com/Faultbox/midgard-brush/pkg/brush"
	"github.com/Faultbox/midgard-brush/pkg/brushgen"
	"github.com/Faultbox/midgard-brush/pkg/math"
)

// Scene is the result of building a document.
type Scene struct {
	Solids *brush.Collection

	names map[string][]*brush.Solid
	order []string
}

// Named returns the solids built for the named shape, after cuts.
func (s *Scene) Named(name string) []*brush.Solid {
	return s.names[name]
}

// Names returns the shape names in document order.
func (s *Scene) Names() []string {
	return append([]string(nil), s.order...)
}

// sink records generated solids in the scene under one name.
type sink struct {
	scene *Scene
	name  string
}

func (s sink) Add(solid *brush.Solid) bool {
	if !s.scene.Solids.Add(solid) {
		return false
	}
	s.scene.names[s.name] = append(s.scene.names[s.name], solid)
	return true
}

// Build creates every solid of doc with k and applies the cuts in order.
// Materials named by the document are registered in lib first; solids with
// no material keep the kernel's.
func Build(doc *Document, k *brush.Kernel, lib *assets.Library) (*Scene, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	log := logger.Named("brushdoc")

	for _, m := range doc.Materials {
		if _, err := lib.Register(m.Name, m.Width, m.Height); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
	}

	scene := &Scene{
		Solids: brush.NewCollection(),
		names:  make(map[string][]*brush.Solid),
	}

	for i := range doc.Solids {
		def := &doc.Solids[i]
		gen, err := def.generator()
		if err != nil {
			return nil, fmt.Errorf("solid %q: %w", def.Name, err)
		}

		sk := k.WithMaterial(solidMaterial(doc, def, k, lib))
		out := sink{scene: scene, name: def.Name}
		n, err := gen.Generate(sk, out)
		if err != nil {
			return nil, fmt.Errorf("solid %q: %w", def.Name, err)
		}
		scene.order = append(scene.order, def.Name)

		if m, ok := def.transform(); ok {
			for _, s := range scene.names[def.Name] {
				s.Xform(m)
			}
		}
		if def.Texture != nil {
			for _, s := range scene.names[def.Name] {
				def.Texture.apply(s)
			}
		}
		log.Debug("solid built", zap.String("name", def.Name), zap.Int("solids", n))
	}

	for i, c := range doc.Cuts {
		plane := math.Plane{A: c.Plane[0], B: c.Plane[1], C: c.Plane[2], D: c.Plane[3]}
		targets := c.Solids
		if len(targets) == 0 {
			targets = scene.order
		}
		split := 0
		for _, name := range targets {
			split += scene.cut(k, name, plane)
		}
		log.Debug("cut applied", zap.Int("cut", i), zap.Stringer("plane", plane), zap.Int("split", split))
	}

	log.Info("brush document built",
		zap.Int("shapes", len(scene.order)),
		zap.Int("solids", scene.Solids.Len()),
		zap.Int("cuts", len(doc.Cuts)))
	return scene, nil
}

// cut splits every solid of name by plane and returns how many divided.
func (s *Scene) cut(k *brush.Kernel, name string, plane math.Plane) int {
	var kept []*brush.Solid
	n := 0
	for _, solid := range s.names[name] {
		front, back, ok := k.Split(solid, plane)
		if !ok {
			kept = append(kept, solid)
			continue
		}
		s.Solids.Replace(solid, front, back)
		kept = append(kept, front, back)
		n++
	}
	s.names[name] = kept
	return n
}

func solidMaterial(doc *Document, def *SolidDef, k *brush.Kernel, lib *assets.Library) brush.FaceMaterial {
	mat := k.Material.Clone()
	if def.Material != "" {
		mat.Material = lib.Resolve(def.Material)
	}
	if doc.Scale != 0 {
		mat.ScaleU = doc.Scale
		mat.ScaleV = doc.Scale
	}
	return mat
}

func (d *SolidDef) generator() (brushgen.Generator, error) {
	switch {
	case len(d.Planes) > 0:
		planes := make([]math.Plane, len(d.Planes))
		for i, p := range d.Planes {
			planes[i] = math.Plane{A: p[0], B: p[1], C: p[2], D: p[3]}
		}
		return planeSet(planes), nil
	case d.Block != nil:
		return brushgen.Block{Box: d.Block.bounds()}, nil
	case d.Cylinder != nil:
		return brushgen.Cylinder{Box: d.Cylinder.bounds(), Sides: d.Cylinder.Sides}, nil
	case d.Wedge != nil:
		return brushgen.Wedge{Box: d.Wedge.bounds()}, nil
	case d.Arch != nil:
		return d.Arch.arch(), nil
	}
	return nil, fmt.Errorf("%w: no shape", ErrInvalidDocument)
}

// transform returns the scale, rotate, translate matrix of d. ok is false
// when d has no transform.
func (d *SolidDef) transform() (m mgl64.Mat4, ok bool) {
	m = mgl64.Ident4()
	if d.Scale != nil {
		m = mgl64.Scale3D(d.Scale[0], d.Scale[1], d.Scale[2]).Mul4(m)
		ok = true
	}
	if d.Rotate != nil {
		r := mgl64.HomogRotate3DZ(mgl64.DegToRad(d.Rotate[2])).
			Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(d.Rotate[1]))).
			Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(d.Rotate[0])))
		m = r.Mul4(m)
		ok = true
	}
	if d.Translate != nil {
		m = mgl64.Translate3D(d.Translate[0], d.Translate[1], d.Translate[2]).Mul4(m)
		ok = true
	}
	return m, ok
}

func (t *TextureDef) apply(s *brush.Solid) {
	for _, f := range s.Faces() {
		if t.Rotation != 0 {
			f.SetTextureRotation(t.Rotation)
		}
		cloud := math.NewPointCloud(f.WorldPositions())
		if len(t.Fit) == 2 {
			f.FitTextureToPointCloud(cloud, t.Fit[0], t.Fit[1])
		}
		if t.Align != "" {
			f.AlignTextureWithPointCloud(cloud, alignModes[t.Align])
		}
	}
	s.GenerateFaces()
}

func (b *BoxDef) bounds() math.Bounds {
	return math.NewBounds(
		mgl64.Vec3{b.Min[0], b.Min[1], b.Min[2]},
		mgl64.Vec3{b.Max[0], b.Max[1], b.Max[2]},
	)
}

func (a *ArchDef) arch() brushgen.Arch {
	arch := brushgen.DefaultArch(a.bounds())
	if a.Wall != 0 {
		arch.Wall = a.Wall
	}
	if a.Sides != 0 {
		arch.Sides = a.Sides
	}
	if a.Arc != 0 {
		arch.Arc = a.Arc
	}
	arch.Start = a.Start
	arch.AddHeight = a.AddHeight
	arch.CurvedRamp = a.CurvedRamp
	arch.Tilt = a.Tilt
	arch.TiltInterp = a.TiltInterp
	return arch
}

// planeSet builds one solid from explicit planes.
type planeSet []math.Plane

func (p planeSet) Generate(k *brush.Kernel, sink brushgen.Sink) (int, error) {
	if !p.hasCorner(k.Tol.Clip) {
		return 0, fmt.Errorf("%w: planes share no corner", ErrInvalidDocument)
	}
	s := k.CreateFromIntersectingPlanes(p)
	if s.FaceCount() < 4 {
		return 0, fmt.Errorf("%w: planes bound %d faces, not a closed solid", ErrInvalidDocument, s.FaceCount())
	}
	sink.Add(s)
	return 1, nil
}

// hasCorner reports whether three of the planes meet in a point that lies
// behind or on every other plane. A bounded convex solid always has one.
func (p planeSet) hasCorner(epsilon float64) bool {
	for i := 0; i < len(p); i++ {
		for j := i + 1; j < len(p); j++ {
			for l := j + 1; l < len(p); l++ {
				pt, ok := math.IntersectPlanes(p[i], p[j], p[l])
				if ok && p.contains(pt, epsilon) {
					return true
				}
			}
		}
	}
	return false
}

func (p planeSet) contains(pt mgl64.Vec3, epsilon float64) bool {
	for _, q := range p {
		if q.Distance(pt) > epsilon*q.Normal().Len() {
			return false
		}
	}
	return true
}
