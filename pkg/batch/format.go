// Package batch groups published face snapshots into draw batches keyed by
// vertex format, primitive type and render state.
package batch

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrDuplicateFormat is returned when a format name is registered twice.
var ErrDuplicateFormat = errors.New("batch: vertex format already registered")

// Attribute is one vertex attribute of a format.
type Attribute struct {
	Name       string
	Components int
}

// VertexFormat describes the float64 layout of one vertex.
type VertexFormat struct {
	Name       string
	Attributes []Attribute
}

// Stride returns the number of float64 components per vertex.
func (f *VertexFormat) Stride() int {
	n := 0
	for _, a := range f.Attributes {
		n += a.Components
	}
	return n
}

// Names of the formats registered by RegisterDefaults.
const (
	FormatTextured  = "brush.textured"
	FormatWireframe = "brush.wireframe"
)

// FormatRegistry holds vertex formats by name. It is created by the render
// side and passed to the builders that need it.
type FormatRegistry struct {
	mu      sync.RWMutex
	formats map[string]*VertexFormat
}

// NewFormatRegistry returns an empty registry.
func NewFormatRegistry() *FormatRegistry {
	return &FormatRegistry{formats: make(map[string]*VertexFormat)}
}

// Register adds a format.
func (r *FormatRegistry) Register(f VertexFormat) (*VertexFormat, error) {
	if f.Name == "" {
		return nil, errors.New("batch: vertex format needs a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.formats[f.Name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateFormat, f.Name)
	}
	stored := &VertexFormat{Name: f.Name, Attributes: append([]Attribute(nil), f.Attributes...)}
	r.formats[f.Name] = stored
	return stored, nil
}

// Get looks a format up by name.
func (r *FormatRegistry) Get(name string) (*VertexFormat, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formats[name]
	return f, ok
}

// Names returns the registered format names in sorted order.
func (r *FormatRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.formats))
	for n := range r.formats {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// RegisterDefaults registers the textured and wireframe brush formats.
// Formats already registered under those names are kept.
func RegisterDefaults(r *FormatRegistry) error {
	defaults := []VertexFormat{
		{
			Name: FormatTextured,
			Attributes: []Attribute{
				{"position", 3},
				{"normal", 3},
				{"tangent", 3},
				{"binormal", 3},
				{"texcoord", 2},
				{"lightmap", 2},
			},
		},
		{
			Name:       FormatWireframe,
			Attributes: []Attribute{{"position", 3}},
		},
	}
	for _, f := range defaults {
		if _, err := r.Register(f); err != nil && !errors.Is(err, ErrDuplicateFormat) {
			return err
		}
	}
	return nil
}
