// Package assets keeps the material library: texture names mapped to their
// pixel sizes. Image data itself is never loaded.
package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG header registration
	_ "image/png"  // PNG header registration
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp" // BMP header registration

	"github.com/Faultbox/midgard-brush/internal/logger"
	"github.com/Faultbox/midgard-brush/pkg/brush"
)

// ErrInvalidSize is returned when a material has a non-positive dimension.
var ErrInvalidSize = errors.New("assets: invalid material size")

// Library is a thread-safe set of materials keyed by name.
type Library struct {
	materials map[string]*brush.TextureRef
	fallback  *brush.TextureRef
	mu        sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewLibrary creates a library. Resolve returns fallback for unknown names.
func NewLibrary(fallback brush.TextureRef) *Library {
	return &Library{
		materials: make(map[string]*brush.TextureRef),
		fallback:  &fallback,
	}
}

// Fallback returns the material used for unknown names.
func (l *Library) Fallback() *brush.TextureRef {
	return l.fallback
}

// Register adds or replaces a material.
func (l *Library) Register(name string, width, height int) (*brush.TextureRef, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %s is %dx%d", ErrInvalidSize, name, width, height)
	}
	name = normalizeName(name)

	l.mu.Lock()
	defer l.mu.Unlock()

	if m, ok := l.materials[name]; ok && m.Width == width && m.Height == height {
		return m, nil
	}
	m := &brush.TextureRef{Path: name, Width: width, Height: height}
	l.materials[name] = m
	return m, nil
}

// Get looks a material up by name.
func (l *Library) Get(name string) (*brush.TextureRef, bool) {
	name = normalizeName(name)

	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.materials[name]
	if ok {
		l.hits++
	} else {
		l.misses++
	}
	return m, ok
}

// Resolve returns the named material, or the fallback when it is unknown.
func (l *Library) Resolve(name string) brush.Material {
	if m, ok := l.Get(name); ok {
		return m
	}
	logger.Named("assets").Debug("unknown material, using fallback",
		zap.String("name", name),
		zap.String("fallback", l.fallback.Path))
	return l.fallback
}

// Names returns the registered names in sorted order.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.materials))
	for n := range l.materials {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered materials.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.materials)
}

// Stats returns lookup statistics.
func (l *Library) Stats() (hits, misses int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.hits, l.misses
}

// Clear removes every material and resets the statistics.
func (l *Library) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.materials = make(map[string]*brush.TextureRef)
	l.hits = 0
	l.misses = 0
}

// LoadDir registers every texture under root. Names are the slash
// separated path relative to root without the extension. Files whose
// header cannot be read are skipped with a warning.
func (l *Library) LoadDir(root string) (int, error) {
	log := logger.Named("assets")
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !Supported(path) {
			return nil
		}

		w, h, err := ReadSize(path)
		if err != nil {
			log.Warn("skipping texture", zap.String("path", path), zap.Error(err))
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel))
		if _, err := l.Register(name, w, h); err != nil {
			log.Warn("skipping texture", zap.String("path", path), zap.Error(err))
			return nil
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("loading materials from %s: %w", root, err)
	}
	log.Info("materials loaded", zap.String("dir", root), zap.Int("count", count))
	return count, nil
}

// Supported reports whether path has a texture extension the library reads.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tga", ".png", ".jpg", ".jpeg", ".bmp":
		return true
	}
	return false
}

// ReadSize reads the pixel size of a texture from its header.
func ReadSize(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".tga") {
		return DecodeTGAConfig(f)
	}
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(filepath.ToSlash(name)))
}
