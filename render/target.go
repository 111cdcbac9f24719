// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/gogpu/gputypes"
)

// RenderTarget is a frame destination. CPU targets expose Pixels; GPU
// targets expose a TextureView. A renderer uses whichever it understands
// and rejects the rest.
type RenderTarget interface {
	Width() int
	Height() int
	Format() gputypes.TextureFormat

	// TextureView is nil for CPU-only targets.
	TextureView() TextureView

	// Pixels is the premultiplied RGBA backing store, top row first, or nil
	// for GPU-only targets. Stride is its row pitch in bytes.
	Pixels() []byte
	Stride() int
}

// PixmapTarget is an in-memory RGBA8 frame.
//
// Scene coordinates have their origin at the lower-left corner, so scene
// row y is image row Height()-1-y. At reads in scene coordinates; Image
// returns the frame the right way up for encoding.
type PixmapTarget struct {
	img *image.RGBA
}

// NewPixmapTarget allocates a transparent width×height frame.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (t *PixmapTarget) Width() int                     { return t.img.Rect.Dx() }
func (t *PixmapTarget) Height() int                    { return t.img.Rect.Dy() }
func (t *PixmapTarget) Format() gputypes.TextureFormat { return gputypes.TextureFormatRGBA8Unorm }
func (t *PixmapTarget) TextureView() TextureView       { return nil }
func (t *PixmapTarget) Pixels() []byte                 { return t.img.Pix }
func (t *PixmapTarget) Stride() int                    { return t.img.Stride }

// Image returns the frame. It shares memory with the target.
func (t *PixmapTarget) Image() *image.RGBA { return t.img }

// Clear fills the frame with c.
func (t *PixmapTarget) Clear(c color.Color) {
	draw.Draw(t.img, t.img.Rect, image.NewUniform(c), image.Point{}, draw.Src)
}

// At returns the pixel at scene coordinates (x, y).
func (t *PixmapTarget) At(x, y int) color.RGBA {
	return t.img.RGBAAt(x, t.Height()-1-y)
}

// EncodePNG writes the frame as PNG.
func (t *PixmapTarget) EncodePNG(w io.Writer) error {
	return png.Encode(w, t.img)
}

// SurfaceTarget is a texture view owned by the host, typically the current
// swapchain image.
type SurfaceTarget struct {
	width, height int
	format        gputypes.TextureFormat
	view          TextureView
}

// NewSurfaceTarget wraps a host texture view.
func NewSurfaceTarget(width, height int, format gputypes.TextureFormat, view TextureView) *SurfaceTarget {
	return &SurfaceTarget{width: width, height: height, format: format, view: view}
}

func (t *SurfaceTarget) Width() int                     { return t.width }
func (t *SurfaceTarget) Height() int                    { return t.height }
func (t *SurfaceTarget) Format() gputypes.TextureFormat { return t.format }
func (t *SurfaceTarget) TextureView() TextureView       { return t.view }
func (t *SurfaceTarget) Pixels() []byte                 { return nil }
func (t *SurfaceTarget) Stride() int                    { return 0 }

var (
	_ RenderTarget = (*PixmapTarget)(nil)
	_ RenderTarget = (*SurfaceTarget)(nil)
)
