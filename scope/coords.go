package scope

import (
	"math"

	"github.com/gogpu/rfscope"
)

// Bin layout notes.
//
// Textures hold the DC bin at texel 0, so the spectrum is centered by
// sampling around U=0.5 with repeat wrap. The texel at U=0.5 is the bin
// that is both the most positive and the most negative frequency; it is
// not displayed, which leaves N-1 displayed bins and a (1-tw) compression
// of the U range.
//
// Vertex X values are written by the compute stage as
// ((bin ^ (N>>1)) / (N>>1)) - 1: DC at 0, the hidden bin at -1, the rest
// in [-1+2tw, 1-2tw]. The trace transform maps that range to [0,1], then
// to [bw/2, 1-bw/2] so each point lands on the center of its bin.

// texelWidth returns tw = 1/N.
func texelWidth(n int) float64 { return 1 / float64(n) }

// binWidth returns bw = 1/(N-1), the width of one displayed bin.
func binWidth(n int) float64 { return 1 / float64(n-1) }

// frequencyU maps the normalized window to texture U.
func frequencyU(n int, start, stop float64) (u0, u1 float64) {
	tw := texelWidth(n)
	u0 = 0.5 + tw + (1-tw)*start
	u1 = 0.5 + tw + (1-tw)*stop
	return u0, u1
}

// WaterfallUV returns the texture rectangle of the waterfall quad for a
// window [start, stop], write row pos and visible span (fraction of the
// ring). v1 is the newest row; v0 may be negative and relies on repeat wrap.
func WaterfallUV(n int, start, stop float64, pos int, span float64) (u0, u1, v0, v1 float64) {
	u0, u1 = frequencyU(n, start, stop)
	row := pos % WaterfallRows
	if row < 0 {
		row += WaterfallRows
	}
	v1 = float64(row) / WaterfallRows
	v0 = v1 - span
	return u0, u1, v0, v1
}

// HistogramUV returns the texture rectangle of the histogram quad.
func HistogramUV(n int, start, stop float64) (u0, u1, v0, v1 float64) {
	u0, u1 = frequencyU(n, start, stop)
	return u0, u1, 0, 1
}

// TraceRange returns the first vertex index and the vertex count of the
// live trace for the window [start, stop]. Index 0 is the hidden bin.
// The max-hold trace uses first+N with the same count.
func TraceRange(n int, start, stop float64) (first, count int) {
	bins := float64(n - 1)
	idx0 := 1 + int(math.Ceil(start*bins-0.5))
	idx1 := 1 + int(math.Floor(stop*bins-0.5))
	return idx0, idx1 - idx0 + 1
}

// transformer is the part of a matrix stack used to build the trace
// transform. render.Scene implements it.
type transformer interface {
	Translate(x, y float64)
	Scale(x, y float64)
}

// applyTraceTransform post-multiplies t with the chain mapping encoded
// vertex positions into the spectrum area.
func applyTraceTransform(t transformer, n int, area rfscope.Rect, p PowerTransform, start, stop float64) {
	tw := texelWidth(n)
	bw := binWidth(n)

	// screen area
	t.Translate(area.X0, area.Y0)
	t.Scale(area.Width(), area.Height())

	// power
	t.Scale(1, p.Scale)
	t.Translate(0, p.Offset)

	// frequency window
	t.Scale(1/(stop-start), 1)
	t.Translate(-start, 0)

	// center of each of the N-1 displayed bins
	t.Translate(0.5*bw, 0)
	t.Scale(1-bw, 1)

	// [-1,1] to [0,1]
	t.Translate(0.5, 0)
	t.Scale(0.5/(1-2*tw), 1)
}

type matrixStack struct{ m rfscope.Matrix }

func (s *matrixStack) Translate(x, y float64) { s.m = s.m.Translated(x, y) }
func (s *matrixStack) Scale(x, y float64)     { s.m = s.m.Scaled(x, y) }

// TraceTransform returns the matrix mapping vertex buffer points to
// screen pixels for the given area, power transform and window.
func TraceTransform(n int, area rfscope.Rect, p PowerTransform, start, stop float64) rfscope.Matrix {
	s := &matrixStack{m: rfscope.Identity()}
	applyTraceTransform(s, n, area, p, start, stop)
	return s.m
}

// EncodeBinX returns the vertex X value the compute stage writes for bin.
func EncodeBinX(n, bin int) float32 {
	half := n >> 1
	return float32(bin^half)/float32(half) - 1
}
