// Package scope is the spectrum display: it owns the GPU resources shared
// with the compute stage and composites them into a frame.
//
// # Resources
//
// A [Display] owns, for a spectrum length N (a power of two):
//   - the waterfall texture, N x 1024 float, a ring of spectra rows
//   - the histogram texture, N x 128 float, the persistence image
//   - the spectrum vertex buffer, 2N points: live trace then max-hold trace
//   - a color mapping context with a waterfall and a histogram palette
//   - the label font
//
// Fonts and palettes are created by [New]. Textures and the vertex buffer
// are created lazily the first time they are needed, either by
// [Display.SharedID] (a compute stage asking for the handles it writes to)
// or by the first [Display.Draw].
//
// # Frames
//
// Draw composes a frame in a fixed layer order: waterfall, histogram (or a
// dark backdrop behind the traces), live and max-hold traces, grid with
// labels. The frame is submitted to a render.Renderer and Draw returns
// only after the renderer's Flush barrier.
//
// The coordinate mapping between spectrum bins, texture texels and screen
// pixels is exposed as pure functions ([WaterfallUV], [HistogramUV],
// [TraceRange], [TraceTransform]) so it can be checked without a device.
package scope
