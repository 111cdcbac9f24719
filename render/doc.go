// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render turns a frame description into pixels.
//
// A frame is an explicit list of draw commands collected in a [Scene]:
// textured or flat quads, line strips read from a vertex buffer, plain line
// segments and text masks. Every command carries its own transform, color
// and blend state, so a [Renderer] can execute the list without any hidden
// global state.
//
// # Coordinates
//
// Scene coordinates are target pixels with the origin at the lower-left
// corner and Y pointing up. Texture coordinates have V=0 at the first row
// of the texture.
//
// # Core Interfaces
//
//   - Renderer: executes a Scene on a RenderTarget; Flush is the completion barrier
//   - RenderTarget: where rendering output goes (Pixmap or Surface)
//   - DeviceHandle: GPU device access from the host application
//
// # Implementations
//
//   - SoftwareDevice: host-memory gpucore.Device
//   - SoftwareRenderer: CPU execution of a Scene against a SoftwareDevice
//   - Recorder: captures scenes and barriers without drawing
//
// GPU execution lives in backend/native.
package render
