// Package render wraps the vector-graphics collaborators: parsing and
// rasterizing SVG sources, and compressing pixel buffers to PNG.
package render

import (
	"fmt"
	"image"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

const (
	// BytesPerPixel is the size of one RGBA pixel in the raster buffer.
	BytesPerPixel = 4

	// ReferenceWidth is the assumed width, in user units, of every
	// source SVG. The render scale is target size divided by this.
	ReferenceWidth = 48.0
)

// Image is a parsed vector document ready to be rasterized. Handles
// are cheap and carry no resources that outlive the task.
type Image interface {
	// Size returns the intrinsic width and height in user units.
	Size() (w, h float64)
}

type svgImage struct {
	icon *oksvg.SvgIcon
}

func (s *svgImage) Size() (float64, float64) {
	return s.icon.ViewBox.W, s.icon.ViewBox.H
}

// SVGRasterizer parses SVG files and rasterizes them into RGBA pixel
// buffers. It is stateless and safe for concurrent use; per-call
// scanner state is allocated inside Rasterize.
type SVGRasterizer struct{}

// NewSVGRasterizer creates an SVGRasterizer.
func NewSVGRasterizer() *SVGRasterizer {
	return &SVGRasterizer{}
}

// Parse reads and parses the SVG file at path.
func (r *SVGRasterizer) Parse(path string) (Image, error) {
	icon, err := oksvg.ReadIcon(path, oksvg.StrictErrorMode)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q: %w", path, err)
	}

	return &svgImage{icon: icon}, nil
}

// Rasterize draws img into pix, a width×height RGBA buffer with the
// given row stride, scaled by scale and anchored at (x, y). Geometry
// that falls outside the buffer is cropped, not an error.
func (r *SVGRasterizer) Rasterize(img Image, x, y, scale float64, pix []byte, width, height, stride int) error {
	si, ok := img.(*svgImage)
	if !ok {
		return fmt.Errorf("unexpected image handle type %T", img)
	}
	if width <= 0 || height <= 0 {
		return nil
	}

	dst := &image.RGBA{
		Pix:    pix,
		Stride: stride,
		Rect:   image.Rect(0, 0, width, height),
	}

	si.icon.SetTarget(x, y, si.icon.ViewBox.W*scale, si.icon.ViewBox.H*scale)
	scanner := rasterx.NewScannerGV(width, height, dst, dst.Bounds())
	si.icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)

	return nil
}
