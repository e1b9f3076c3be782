package assets

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/Faultbox/midgard-brush/pkg/brush"
)

func nodraw() brush.TextureRef {
	return brush.TextureRef{Path: "tools/nodraw", Width: 64, Height: 64}
}

func tgaHeader(imageType byte, w, h int, bpp byte) []byte {
	hdr := make([]byte, tgaHeaderSize)
	hdr[2] = imageType
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = bpp
	return hdr
}

func TestRegisterAndResolve(t *testing.T) {
	lib := NewLibrary(nodraw())

	m, err := lib.Register("Walls\\Brick ", 128, 64)
	require.NoError(t, err)
	require.Equal(t, "walls/brick", m.Name())

	again, err := lib.Register("walls/brick", 128, 64)
	require.NoError(t, err)
	require.Same(t, m, again)

	got, ok := lib.Get("WALLS/BRICK")
	require.True(t, ok)
	require.Same(t, m, got)

	require.Same(t, lib.Fallback(), lib.Resolve("missing"))
	w, h := lib.Resolve("walls/brick").Size()
	require.Equal(t, 128, w)
	require.Equal(t, 64, h)

	hits, misses := lib.Stats()
	require.Equal(t, 2, hits)
	require.Equal(t, 1, misses)

	_, err = lib.Register("bad", 0, 64)
	require.ErrorIs(t, err, ErrInvalidSize)

	lib.Clear()
	require.Zero(t, lib.Len())
	hits, misses = lib.Stats()
	require.Zero(t, hits+misses)
}

func TestDecodeTGAConfig(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		w, h    int
		wantErr bool
	}{
		{"uncompressed", tgaHeader(2, 256, 128, 32), 256, 128, false},
		{"rle", tgaHeader(10, 64, 512, 24), 64, 512, false},
		{"paletted", tgaHeader(1, 64, 64, 8), 0, 0, true},
		{"bit depth", tgaHeader(2, 64, 64, 16), 0, 0, true},
		{"empty", tgaHeader(2, 0, 64, 24), 0, 0, true},
		{"short", []byte{0, 0, 2}, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := DecodeTGAConfig(bytes.NewReader(tt.data))
			if tt.wantErr {
				require.ErrorIs(t, err, errTGAHeader)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.w, w)
			require.Equal(t, tt.h, h)
		})
	}
}

func TestLoadDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "walls"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "floors"), 0o755))

	writeImage := func(path string, encode func(*os.File, image.Image) error, w, h int) {
		f, err := os.Create(path)
		require.NoError(t, err)
		defer f.Close()
		require.NoError(t, encode(f, image.NewGray(image.Rect(0, 0, w, h))))
	}
	writeImage(filepath.Join(root, "walls", "brick.png"), func(f *os.File, img image.Image) error { return png.Encode(f, img) }, 32, 16)
	writeImage(filepath.Join(root, "floors", "tile.bmp"), func(f *os.File, img image.Image) error { return bmp.Encode(f, img) }, 8, 4)
	require.NoError(t, os.WriteFile(filepath.Join(root, "sky.tga"), tgaHeader(2, 512, 256, 24), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.png"), []byte("not a png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.txt"), []byte("ignored"), 0o644))

	lib := NewLibrary(nodraw())
	n, err := lib.LoadDir(root)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []string{"floors/tile", "sky", "walls/brick"}, lib.Names())

	m, ok := lib.Get("walls/brick")
	require.True(t, ok)
	require.Equal(t, 32, m.Width)
	require.Equal(t, 16, m.Height)

	_, err = lib.LoadDir(filepath.Join(root, "missing"))
	require.Error(t, err)
}

func TestLibraryConcurrentAccess(t *testing.T) {
	lib := NewLibrary(nodraw())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = lib.Register("shared", 64, 64)
				lib.Resolve("shared")
				lib.Names()
			}
		}(i)
	}
	wg.Wait()
	require.Equal(t, 1, lib.Len())
	hits, misses := lib.Stats()
	require.Equal(t, 800, hits+misses)
}
