// Package rfscope is the rendering core of a real-time RF spectrum display.
//
// # Overview
//
// An external compute stage writes spectral power data into three GPU
// resources: a scrolling waterfall texture, a persistence histogram texture
// and a vertex buffer holding the live and max-hold spectrum traces.
// rfscope owns those resources and composites them, once per frame, into a
// display with a frequency/power grid and axis labels.
//
// The root package holds the primitives shared by every sub-package:
// the affine [Matrix] used by the draw transform stack, [RGBA] colors,
// the error kinds and the package logger.
//
// # Packages
//
//   - scope: the display itself (resource pool, deferred initialization, frame drawing)
//   - render: draw commands, scenes, the software renderer and device
//   - backend/native: a wgpu HAL device and renderer
//   - cmap: palette generation and colormap bindings
//   - text: fonts and anchored label printing
//   - axis: frequency axis label formatting
//   - resource: embedded assets
//
// # Logging
//
// rfscope is silent by default. Call [SetLogger] to route its diagnostics
// into an application logger.
package rfscope
