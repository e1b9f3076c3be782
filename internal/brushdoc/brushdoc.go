// Package brushdoc reads YAML brush documents and builds the solids they
// describe.
//
// A document lists materials, solids and cuts:
//
//	materials:
//	  - {name: walls/brick, width: 128, height: 64}
//	scale: 0.25
//	solids:
//	  - name: room
//	    material: walls/brick
//	    block: {min: [0, 0, 0], max: [256, 256, 128]}
//	    translate: [0, 0, 16]
//	    texture: {rotation: 90, fit: [4, 2], align: center}
//	cuts:
//	  - plane: [0, 0, 1, -64]
//	    solids: [room]
package brushdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	gomath "math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-brush/pkg/brush"
)

// ErrInvalidDocument is wrapped by every document validation error.
var ErrInvalidDocument = errors.New("brushdoc: invalid document")

// Document is the root of a brush document.
type Document struct {
	Materials []MaterialDef `yaml:"materials,omitempty"`
	// Scale is the texture scale of every face. Zero keeps the kernel's.
	Scale  float64    `yaml:"scale,omitempty"`
	Solids []SolidDef `yaml:"solids,omitempty"`
	Cuts   []CutDef   `yaml:"cuts,omitempty"`
}

// MaterialDef registers a material size without an image on disk.
type MaterialDef struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// SolidDef describes one named shape. Exactly one of Planes, Block,
// Cylinder, Wedge and Arch must be set.
type SolidDef struct {
	Name     string `yaml:"name"`
	Material string `yaml:"material,omitempty"`

	Planes   [][]float64  `yaml:"planes,omitempty"` // a, b, c, d per plane
	Block    *BoxDef      `yaml:"block,omitempty"`
	Cylinder *CylinderDef `yaml:"cylinder,omitempty"`
	Wedge    *BoxDef      `yaml:"wedge,omitempty"`
	Arch     *ArchDef     `yaml:"arch,omitempty"`

	// Applied in order scale, rotate, translate.
	Scale     []float64 `yaml:"scale,omitempty"`
	Rotate    []float64 `yaml:"rotate,omitempty"` // degrees about X, Y, Z
	Translate []float64 `yaml:"translate,omitempty"`

	Texture *TextureDef `yaml:"texture,omitempty"`
}

// TextureDef adjusts the texture of every face after the transform. Rotation
// is applied first, then Fit, then Align.
type TextureDef struct {
	Rotation float64 `yaml:"rotation,omitempty"` // degrees about the face normal
	Fit      []int   `yaml:"fit,omitempty"`      // repeats along U and V
	Align    string  `yaml:"align,omitempty"`    // left, right, center, top or bottom
}

var alignModes = map[string]brush.AlignMode{
	"left":   brush.AlignLeft,
	"right":  brush.AlignRight,
	"center": brush.AlignCenter,
	"top":    brush.AlignTop,
	"bottom": brush.AlignBottom,
}

// BoxDef is an axis-aligned box.
type BoxDef struct {
	Min []float64 `yaml:"min"`
	Max []float64 `yaml:"max"`
}

// CylinderDef is a prism with Sides sides filling a box.
type CylinderDef struct {
	BoxDef `yaml:",inline"`
	Sides  int `yaml:"sides,omitempty"`
}

// ArchDef mirrors brushgen.Arch. Zero values fall back to the arch defaults.
type ArchDef struct {
	BoxDef     `yaml:",inline"`
	Wall       float64 `yaml:"wall,omitempty"`
	Sides      int     `yaml:"sides,omitempty"`
	Arc        float64 `yaml:"arc,omitempty"`
	Start      float64 `yaml:"start,omitempty"`
	AddHeight  float64 `yaml:"add_height,omitempty"`
	CurvedRamp bool    `yaml:"curved_ramp,omitempty"`
	Tilt       float64 `yaml:"tilt,omitempty"`
	TiltInterp bool    `yaml:"tilt_interp,omitempty"`
}

// CutDef splits solids by a plane. An empty Solids list cuts every solid.
type CutDef struct {
	Plane  []float64 `yaml:"plane"`
	Solids []string  `yaml:"solids,omitempty"`
}

// Parse decodes a document. Unknown keys are rejected.
func Parse(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, fmt.Errorf("parsing brush document: %w", err)
	}
	return &doc, nil
}

// ParseBytes decodes a document held in memory.
func ParseBytes(data []byte) (*Document, error) {
	return Parse(bytes.NewReader(data))
}

// Load reads and decodes the document at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Save writes the document to path.
func (d *Document) Save(path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshaling brush document: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing brush document: %w", err)
	}
	return nil
}

// Validate checks the document structure. Shape parameters are checked by
// the generators when the document is built.
func (d *Document) Validate() error {
	for i, m := range d.Materials {
		if m.Name == "" {
			return fmt.Errorf("%w: material %d has no name", ErrInvalidDocument, i)
		}
	}

	names := make(map[string]bool)
	for i, s := range d.Solids {
		if s.Name == "" {
			return fmt.Errorf("%w: solid %d has no name", ErrInvalidDocument, i)
		}
		if names[s.Name] {
			return fmt.Errorf("%w: duplicate solid name %q", ErrInvalidDocument, s.Name)
		}
		names[s.Name] = true
		if err := s.validate(); err != nil {
			return fmt.Errorf("%w: solid %q: %v", ErrInvalidDocument, s.Name, err)
		}
	}

	for i, c := range d.Cuts {
		if err := checkPlane(c.Plane); err != nil {
			return fmt.Errorf("%w: cut %d: %v", ErrInvalidDocument, i, err)
		}
		for _, n := range c.Solids {
			if !names[n] {
				return fmt.Errorf("%w: cut %d names unknown solid %q", ErrInvalidDocument, i, n)
			}
		}
	}
	return nil
}

func (s *SolidDef) validate() error {
	shapes := 0
	if len(s.Planes) > 0 {
		shapes++
		for i, p := range s.Planes {
			if err := checkPlane(p); err != nil {
				return fmt.Errorf("plane %d: %v", i, err)
			}
		}
	}
	for _, box := range []*BoxDef{s.Block, s.Wedge, boxOf(s.Cylinder), boxOfArch(s.Arch)} {
		if box == nil {
			continue
		}
		shapes++
		if len(box.Min) != 3 || len(box.Max) != 3 {
			return errors.New("box needs 3 values for min and max")
		}
	}
	if shapes != 1 {
		return fmt.Errorf("needs exactly one shape, got %d", shapes)
	}

	for name, v := range map[string][]float64{"scale": s.Scale, "rotate": s.Rotate, "translate": s.Translate} {
		if v != nil && len(v) != 3 {
			return fmt.Errorf("%s needs 3 values, got %d", name, len(v))
		}
	}

	if t := s.Texture; t != nil {
		if t.Fit != nil && (len(t.Fit) != 2 || t.Fit[0] <= 0 || t.Fit[1] <= 0) {
			return fmt.Errorf("texture fit needs 2 positive values, got %v", t.Fit)
		}
		if _, ok := alignModes[t.Align]; t.Align != "" && !ok {
			return fmt.Errorf("unknown texture align %q", t.Align)
		}
	}
	return nil
}

func checkPlane(p []float64) error {
	if len(p) != 4 {
		return fmt.Errorf("plane needs 4 values, got %d", len(p))
	}
	for _, v := range p {
		if gomath.IsNaN(v) || gomath.IsInf(v, 0) {
			return fmt.Errorf("plane %v is not finite", p)
		}
	}
	if p[0] == 0 && p[1] == 0 && p[2] == 0 {
		return fmt.Errorf("plane %v has no normal", p)
	}
	return nil
}

func boxOf(c *CylinderDef) *BoxDef {
	if c == nil {
		return nil
	}
	return &c.BoxDef
}

func boxOfArch(a *ArchDef) *BoxDef {
	if a == nil {
		return nil
	}
	return &a.BoxDef
}
