package render

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// PNGEncoder compresses RGBA pixel buffers into PNG byte sequences.
// Stateless and safe for concurrent use.
type PNGEncoder struct{}

// NewPNGEncoder creates a PNGEncoder.
func NewPNGEncoder() *PNGEncoder {
	return &PNGEncoder{}
}

// Encode compresses a width×height pixel buffer with the given bytes
// per pixel and row stride into PNG bytes.
func (e *PNGEncoder) Encode(width, height, bpp int, pix []byte, stride int) ([]byte, error) {
	if bpp != BytesPerPixel {
		return nil, fmt.Errorf("unsupported bytes per pixel: %d", bpp)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size: %dx%d", width, height)
	}

	img := &image.RGBA{
		Pix:    pix,
		Stride: stride,
		Rect:   image.Rect(0, 0, width, height),
	}

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}

	return buf.Bytes(), nil
}
