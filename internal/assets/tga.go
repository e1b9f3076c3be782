package assets

import (
	"errors"
	"fmt"
	"io"
)

// tgaHeaderSize is the fixed TGA header length.
const tgaHeaderSize = 18

var errTGAHeader = errors.New("tga: bad header")

// DecodeTGAConfig reads the size of a TGA image from its header.
// Supports uncompressed true-color (type 2) and RLE compressed (type 10)
// images at 24 or 32 bits per pixel.
func DecodeTGAConfig(r io.Reader) (width, height int, err error) {
	var hdr [tgaHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", errTGAHeader, err)
	}

	colorMapType := hdr[1]
	imageType := hdr[2]
	// imageSpec: bytes 8-17
	width = int(hdr[12]) | int(hdr[13])<<8
	height = int(hdr[14]) | int(hdr[15])<<8
	bpp := int(hdr[16])

	switch {
	case colorMapType != 0:
		return 0, 0, fmt.Errorf("%w: color-mapped images not supported", errTGAHeader)
	case imageType != 2 && imageType != 10:
		return 0, 0, fmt.Errorf("%w: unsupported type %d", errTGAHeader, imageType)
	case bpp != 24 && bpp != 32:
		return 0, 0, fmt.Errorf("%w: unsupported bit depth %d", errTGAHeader, bpp)
	case width == 0 || height == 0:
		return 0, 0, fmt.Errorf("%w: empty image", errTGAHeader)
	}
	return width, height, nil
}
