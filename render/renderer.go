// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

// Renderer executes drawing commands to a render target.
//
// Different implementations provide CPU or GPU rendering:
//
//   - SoftwareRenderer: CPU rasterization against a SoftwareDevice
//   - native.Renderer: wgpu HAL render passes
//   - Recorder: no output, keeps the command lists for inspection
//
// Thread Safety: Renderers are NOT thread-safe. Each renderer should be used
// from a single goroutine, or external synchronization must be used.
//
// Example:
//
//	dev := render.NewSoftwareDevice()
//	r := render.NewSoftwareRenderer(dev)
//	target := render.NewPixmapTarget(800, 600)
//
//	if err := r.Render(target, scene); err != nil {
//	    log.Printf("render failed: %v", err)
//	}
//	_ = r.Flush()
type Renderer interface {
	// Render draws the scene to the target in command order.
	//
	// The scene is not modified by this operation and can be rendered
	// multiple times to different targets.
	Render(target RenderTarget, scene *Scene) error

	// Flush blocks until all previously issued rendering is complete.
	//
	// For CPU renderers, this is typically a no-op as operations are
	// synchronous. For GPU renderers, this submits pending work and waits
	// for the device.
	Flush() error
}

// RendererCapabilities describes the features supported by a renderer.
type RendererCapabilities struct {
	// IsGPU indicates if this is a GPU-accelerated renderer.
	IsGPU bool

	// SupportsLineSmoothing indicates if anti-aliased line strips are drawn.
	SupportsLineSmoothing bool

	// SupportsBicubic indicates if SampleBicubic colormap sampling is honored.
	// Renderers without it fall back to bilinear.
	SupportsBicubic bool

	// MaxTextureSize is the maximum texture dimension (0 = unlimited).
	MaxTextureSize int
}

// CapableRenderer is an optional interface for renderers that can
// report their capabilities.
type CapableRenderer interface {
	Renderer

	// Capabilities returns the renderer's capabilities.
	Capabilities() RendererCapabilities
}
