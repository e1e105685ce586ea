// Package runner executes one render task end to end: parse the SVG,
// rasterize it into an RGBA buffer, compress to PNG and persist the
// result.
package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/wb-go/wbf/zlog"

	"github.com/mkarpenko/assetconv/internal/model"
	"github.com/mkarpenko/assetconv/internal/render"
)

// Stage failure sentinels. A failed stage aborts only its own task.
var (
	ErrParse  = errors.New("parse failed")
	ErrEncode = errors.New("encode failed")
	ErrWrite  = errors.New("write failed")
)

// rasterizer parses vector sources and draws them into pixel buffers.
type rasterizer interface {
	Parse(path string) (render.Image, error)
	Rasterize(img render.Image, x, y, scale float64, pix []byte, width, height, stride int) error
}

// encoder compresses a pixel buffer into an image byte sequence.
type encoder interface {
	Encode(width, height, bpp int, pix []byte, stride int) ([]byte, error)
}

// Sink persists encoded bytes at a destination path.
type Sink interface {
	Save(ctx context.Context, path string, data []byte) error
}

// Runner turns tasks into written output files. It holds no per-task
// state and is safe for concurrent use; every Run owns its buffer and
// image handle exclusively.
type Runner struct {
	rast rasterizer
	enc  encoder
	sink Sink
}

// New creates a Runner over the given collaborators.
func New(r rasterizer, e encoder, s Sink) *Runner {
	return &Runner{rast: r, enc: e, sink: s}
}

// Run processes one task: parse, rasterize, encode, persist. Any
// failure is wrapped in the matching stage sentinel and returned; it
// never affects other tasks.
func (r *Runner) Run(ctx context.Context, task model.Task) error {
	zlog.Logger.Info().
		Str("input", task.Input).
		Str("task_id", task.ID.String()).
		Msg("running")

	img, err := r.rast.Parse(task.Input)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}

	width, height := task.Size, task.Size
	stride := width * render.BytesPerPixel
	pix := make([]byte, height*stride)
	scale := float64(width) / render.ReferenceWidth

	if err := r.rast.Rasterize(img, 0, 0, scale, pix, width, height, stride); err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}

	data, err := r.enc.Encode(width, height, render.BytesPerPixel, pix, stride)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	if err := r.sink.Save(ctx, task.Output, data); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	zlog.Logger.Info().
		Str("input", task.Input).
		Str("output", task.Output).
		Msg("done")

	return nil
}
