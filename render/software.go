// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/rfscope"
	"github.com/gogpu/rfscope/gpucore"
	"github.com/gogpu/rfscope/internal/parallel"
)

// minBandRows is the smallest number of quad rows handed to one worker.
const minBandRows = 32

// SoftwareRenderer executes scenes on the CPU, sampling textures and
// buffers that live in a SoftwareDevice.
//
// Quads honor the filter and wrap state of their source texture, colormap
// bindings are applied per pixel, line strips are read from the vertex
// buffer through the command transform, and smooth lines use Xiaolin Wu
// coverage. Line width is always one pixel.
//
// Example:
//
//	dev := render.NewSoftwareDevice()
//	renderer := render.NewSoftwareRenderer(dev)
//	target := render.NewPixmapTarget(800, 600)
//	renderer.Render(target, scene)
//	img := target.Image()
type SoftwareRenderer struct {
	dev  *SoftwareDevice
	pool *parallel.Pool

	// frame state, valid during Render
	pix    []byte
	width  int
	height int
	stride int
}

// NewSoftwareRenderer creates a renderer reading resources from dev.
func NewSoftwareRenderer(dev *SoftwareDevice) *SoftwareRenderer {
	return &SoftwareRenderer{dev: dev}
}

// NewParallelSoftwareRenderer creates a renderer that splits quads into
// horizontal bands drawn by workers goroutines. Zero means GOMAXPROCS.
// Close stops the workers.
func NewParallelSoftwareRenderer(dev *SoftwareDevice, workers int) *SoftwareRenderer {
	return &SoftwareRenderer{dev: dev, pool: parallel.NewPool(workers)}
}

// Close stops the band workers, if any. The renderer keeps working
// single-threaded afterwards.
func (r *SoftwareRenderer) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

// Render draws the scene to the target.
//
// Returns an error if the target is GPU-only (no Pixels() support).
func (r *SoftwareRenderer) Render(target RenderTarget, scene *Scene) error {
	if target == nil {
		return errors.New("render: nil target")
	}
	pixels := target.Pixels()
	if pixels == nil {
		return errors.New("render: target does not support CPU rendering")
	}
	if scene == nil || scene.IsEmpty() {
		return nil
	}

	r.pix = pixels
	r.width = target.Width()
	r.height = target.Height()
	r.stride = target.Stride()
	defer func() { r.pix = nil }()

	r.dev.mu.Lock()
	defer r.dev.mu.Unlock()

	for _, cmd := range scene.Commands() {
		switch c := cmd.(type) {
		case QuadCmd:
			if err := r.renderQuad(c); err != nil {
				return err
			}
		case LineStripCmd:
			if err := r.renderLineStrip(c); err != nil {
				return err
			}
		case LinesCmd:
			r.renderLines(c)
		case TextCmd:
			r.renderText(c)
		}
	}
	return nil
}

// Flush ensures all rendering is complete.
// For the software renderer, this is a no-op as operations are synchronous.
func (r *SoftwareRenderer) Flush() error {
	return nil
}

// Capabilities returns the renderer's capabilities.
func (r *SoftwareRenderer) Capabilities() RendererCapabilities {
	return RendererCapabilities{
		IsGPU:                 false,
		SupportsLineSmoothing: true,
		SupportsBicubic:       false,
		MaxTextureSize:        0,
	}
}

func (r *SoftwareRenderer) renderQuad(c QuadCmd) error {
	p0 := c.Transform.TransformPoint(rfscope.Pt(c.Rect.X0, c.Rect.Y0))
	p1 := c.Transform.TransformPoint(rfscope.Pt(c.Rect.X1, c.Rect.Y1))
	if p0.X == p1.X || p0.Y == p1.Y {
		return nil
	}

	var src, lut *softTexture
	if c.Colormap != nil {
		var ok bool
		if src, ok = r.dev.textures[c.Colormap.Source]; !ok {
			return fmt.Errorf("render: colormap source: %w: texture %d", gpucore.ErrUnknownResource, c.Colormap.Source)
		}
		if lut, ok = r.dev.textures[c.Colormap.LUT]; !ok {
			return fmt.Errorf("render: colormap lut: %w: texture %d", gpucore.ErrUnknownResource, c.Colormap.LUT)
		}
	}

	xa, xb := pixelSpan(min(p0.X, p1.X), max(p0.X, p1.X), r.width)
	ya, yb := pixelSpan(min(p0.Y, p1.Y), max(p0.Y, p1.Y), r.height)
	col := rgbaToArray(c.Color)

	rows := func(lo, hi int) {
		for py := lo; py < hi; py++ {
			ty := (float64(py) + 0.5 - p0.Y) / (p1.Y - p0.Y)
			v := c.V0 + ty*(c.V1-c.V0)
			for px := xa; px < xb; px++ {
				out := col
				if src != nil {
					tx := (float64(px) + 0.5 - p0.X) / (p1.X - p0.X)
					u := c.U0 + tx*(c.U1-c.U0)
					out = colormap(src, lut, c.Colormap, u, v)
				}
				r.plot(px, py, out, c.Blend, 1)
			}
		}
	}
	// Rows touch disjoint pixels and the sources are read-only here.
	if r.pool != nil {
		r.pool.Bands(ya, yb, minBandRows, rows)
	} else {
		rows(ya, yb)
	}
	return nil
}

// pixelSpan returns the half-open pixel range whose centers lie in [lo, hi).
func pixelSpan(lo, hi float64, limit int) (int, int) {
	a := int(math.Ceil(lo - 0.5))
	b := int(math.Ceil(hi - 0.5))
	return max(a, 0), min(b, limit)
}

func colormap(src, lut *softTexture, b *ColormapBinding, u, v float64) [4]float32 {
	var raw float32
	if b.Mode == SampleNearest {
		raw = src.sampleNearest(u, v)[0]
	} else {
		raw = src.sampleLinear(u, v)[0]
	}
	x := b.Scale * (raw + b.Offset)
	if x < 0 || x != x {
		x = 0
	} else if x > 1 {
		x = 1
	}
	return lut.lookup(x)
}

func wrap(i, n int, mode gpucore.AddressMode) int {
	if mode == gpucore.AddressClampToEdge {
		return min(max(i, 0), n-1)
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func (t *softTexture) sampleNearest(u, v float64) [4]float32 {
	x := wrap(int(math.Floor(u*float64(t.desc.Width))), t.desc.Width, t.desc.WrapU)
	y := wrap(int(math.Floor(v*float64(t.desc.Height))), t.desc.Height, t.desc.WrapV)
	return t.texel(x, y)
}

func (t *softTexture) sampleLinear(u, v float64) [4]float32 {
	if t.desc.MagFilter == gpucore.FilterNearest {
		return t.sampleNearest(u, v)
	}
	fx := u*float64(t.desc.Width) - 0.5
	fy := v*float64(t.desc.Height) - 0.5
	x0 := math.Floor(fx)
	y0 := math.Floor(fy)
	ax := float32(fx - x0)
	ay := float32(fy - y0)

	xi0 := wrap(int(x0), t.desc.Width, t.desc.WrapU)
	xi1 := wrap(int(x0)+1, t.desc.Width, t.desc.WrapU)
	yi0 := wrap(int(y0), t.desc.Height, t.desc.WrapV)
	yi1 := wrap(int(y0)+1, t.desc.Height, t.desc.WrapV)

	a, b := t.texel(xi0, yi0), t.texel(xi1, yi0)
	c, d := t.texel(xi0, yi1), t.texel(xi1, yi1)
	var out [4]float32
	for i := range out {
		top := a[i] + (b[i]-a[i])*ax
		bot := c[i] + (d[i]-c[i])*ax
		out[i] = top + (bot-top)*ay
	}
	return out
}

// lookup interpolates a 1-D LUT stored in the first row at x in [0,1].
func (t *softTexture) lookup(x float32) [4]float32 {
	n := t.desc.Width
	pos := x * float32(n-1)
	i0 := int(pos)
	i1 := min(i0+1, n-1)
	f := pos - float32(i0)
	a, b := t.texel(i0, 0), t.texel(i1, 0)
	var out [4]float32
	for i := range out {
		out[i] = a[i] + (b[i]-a[i])*f
	}
	return out
}

func (r *SoftwareRenderer) renderLineStrip(c LineStripCmd) error {
	buf, ok := r.dev.buffers[c.Buffer]
	if !ok {
		return fmt.Errorf("render: line strip: %w: buffer %d", gpucore.ErrUnknownResource, c.Buffer)
	}
	if c.Count < 2 {
		return nil
	}
	col := rgbaToArray(c.Color)
	prev, ok := buf.point(c.First)
	if !ok {
		return fmt.Errorf("render: line strip: %w: point %d", gpucore.ErrRegionOutOfBounds, c.First)
	}
	prev = c.Transform.TransformPoint(prev)
	for i := 1; i < c.Count; i++ {
		p, ok := buf.point(c.First + i)
		if !ok {
			return fmt.Errorf("render: line strip: %w: point %d", gpucore.ErrRegionOutOfBounds, c.First+i)
		}
		p = c.Transform.TransformPoint(p)
		r.drawSegment(prev, p, col, c.Blend, c.Smooth)
		prev = p
	}
	return nil
}

func (r *SoftwareRenderer) renderLines(c LinesCmd) {
	col := rgbaToArray(c.Color)
	for i := 0; i+1 < len(c.Points); i += 2 {
		a := c.Transform.TransformPoint(c.Points[i])
		b := c.Transform.TransformPoint(c.Points[i+1])
		r.drawSegment(a, b, col, c.Blend, false)
	}
}

// drawSegment walks the major axis one pixel at a time. Without smoothing
// it plots the pixel containing the ideal line; with smoothing it splits
// coverage between the two nearest pixels on the minor axis.
func (r *SoftwareRenderer) drawSegment(a, b rfscope.Point, col [4]float32, blend BlendMode, smooth bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	steep := math.Abs(dy) > math.Abs(dx)
	if steep {
		a.X, a.Y = a.Y, a.X
		b.X, b.Y = b.Y, b.X
		dx, dy = dy, dx
	}
	if a.X > b.X {
		a, b = b, a
		dx, dy = -dx, -dy
	}

	plot := func(major, minor int, cov float32) {
		if steep {
			r.plot(minor, major, col, blend, cov)
		} else {
			r.plot(major, minor, col, blend, cov)
		}
	}

	if dx == 0 {
		plot(int(math.Floor(a.X)), int(math.Floor(a.Y)), 1)
		return
	}
	gradient := dy / dx
	start := int(math.Floor(a.X))
	end := int(math.Floor(b.X))
	for x := start; x <= end; x++ {
		cx := math.Min(math.Max(float64(x)+0.5, a.X), b.X)
		y := a.Y + gradient*(cx-a.X)
		if !smooth {
			plot(x, int(math.Floor(y)), 1)
			continue
		}
		base := math.Floor(y - 0.5)
		f := float32(y - 0.5 - base)
		plot(x, int(base), 1-f)
		plot(x, int(base)+1, f)
	}
}

func (r *SoftwareRenderer) renderText(c TextCmd) {
	if c.Mask == nil {
		return
	}
	col := rgbaToArray(c.Color)
	bounds := c.Mask.Bounds()
	ox := int(math.Floor(c.Origin.X))
	oy := int(math.Floor(c.Origin.Y))
	h := bounds.Dy()
	for my := bounds.Min.Y; my < bounds.Max.Y; my++ {
		sy := oy + (h - 1 - (my - bounds.Min.Y))
		for mx := bounds.Min.X; mx < bounds.Max.X; mx++ {
			a := c.Mask.AlphaAt(mx, my).A
			if a == 0 {
				continue
			}
			r.plot(ox+mx-bounds.Min.X, sy, col, BlendAlpha, float32(a)/255)
		}
	}
}

// plot writes one pixel given in scene coordinates (origin lower-left).
func (r *SoftwareRenderer) plot(x, y int, c [4]float32, blend BlendMode, coverage float32) {
	if x < 0 || y < 0 || x >= r.width || y >= r.height || coverage <= 0 {
		return
	}
	off := (r.height-1-y)*r.stride + x*4
	p := r.pix[off : off+4 : off+4]

	if blend == BlendNone {
		p[0] = unorm8(c[0])
		p[1] = unorm8(c[1])
		p[2] = unorm8(c[2])
		p[3] = 255
		return
	}

	a := c[3] * min(coverage, 1)
	inv := 1 - a
	p[0] = unorm8(c[0]*a + float32(p[0])/255*inv)
	p[1] = unorm8(c[1]*a + float32(p[1])/255*inv)
	p[2] = unorm8(c[2]*a + float32(p[2])/255*inv)
	p[3] = unorm8(a + float32(p[3])/255*inv)
}

func unorm8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func rgbaToArray(c rfscope.RGBA) [4]float32 {
	return [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}

var _ CapableRenderer = (*SoftwareRenderer)(nil)
