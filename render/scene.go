// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"

	"github.com/gogpu/rfscope"
	"github.com/gogpu/rfscope/gpucore"
)

// Scene is an ordered list of draw commands for one frame.
//
// Besides the command list, a Scene carries the drawing state that is
// snapshotted into each command when it is appended: the current
// transform (a stack with post-multiplying Translate/Scale), color, blend
// mode, line smoothing and an optional colormap binding.
//
// Example:
//
//	scene := render.NewScene()
//	scene.Push()
//	scene.Translate(40, 20)
//	scene.Scale(600, 300)
//	scene.SetColor(rfscope.RGBA2(1, 1, 1, 0.75))
//	scene.SetBlend(render.BlendAlpha)
//	scene.LineStrip(vbo, 1, 1023, 1)
//	scene.Pop()
type Scene struct {
	commands []Command

	transform rfscope.Matrix
	stack     []rfscope.Matrix

	color    rfscope.RGBA
	blend    BlendMode
	smooth   bool
	colormap *ColormapBinding
}

// NewScene creates a new empty Scene.
func NewScene() *Scene {
	s := &Scene{commands: make([]Command, 0, 32)}
	s.resetState()
	return s
}

func (s *Scene) resetState() {
	s.transform = rfscope.Identity()
	s.stack = s.stack[:0]
	s.color = rfscope.White
	s.blend = BlendNone
	s.smooth = false
	s.colormap = nil
}

// Reset clears the scene for reuse.
func (s *Scene) Reset() {
	s.commands = s.commands[:0]
	s.resetState()
}

// Commands returns the recorded commands in draw order.
// The returned slice must not be modified.
func (s *Scene) Commands() []Command {
	return s.commands
}

// Len returns the number of commands.
func (s *Scene) Len() int {
	return len(s.commands)
}

// IsEmpty returns true if the scene has no commands.
func (s *Scene) IsEmpty() bool {
	return len(s.commands) == 0
}

// Count returns the number of commands of the given kind.
func (s *Scene) Count(kind CommandKind) int {
	n := 0
	for _, c := range s.commands {
		if c.Kind() == kind {
			n++
		}
	}
	return n
}

// Append adds a prebuilt command as is.
func (s *Scene) Append(c Command) {
	s.commands = append(s.commands, c)
}

// Push saves the current transform.
func (s *Scene) Push() {
	s.stack = append(s.stack, s.transform)
}

// Pop restores the transform saved by the matching Push.
// Pop on an empty stack resets to identity.
func (s *Scene) Pop() {
	if len(s.stack) == 0 {
		s.transform = rfscope.Identity()
		return
	}
	s.transform = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

// Depth returns the number of saved transforms.
func (s *Scene) Depth() int {
	return len(s.stack)
}

// Translate post-multiplies the current transform by a translation.
func (s *Scene) Translate(x, y float64) {
	s.transform = s.transform.Translated(x, y)
}

// Scale post-multiplies the current transform by a scale.
func (s *Scene) Scale(x, y float64) {
	s.transform = s.transform.Scaled(x, y)
}

// Transform returns the current transform.
func (s *Scene) Transform() rfscope.Matrix {
	return s.transform
}

// SetColor sets the color for subsequent commands.
func (s *Scene) SetColor(c rfscope.RGBA) {
	s.color = c
}

// SetBlend sets the blend mode for subsequent commands.
func (s *Scene) SetBlend(b BlendMode) {
	s.blend = b
}

// SetSmooth enables or disables line smoothing for subsequent line strips.
func (s *Scene) SetSmooth(on bool) {
	s.smooth = on
}

// SetColormap binds a colormap for subsequent quads.
func (s *Scene) SetColormap(b ColormapBinding) {
	s.colormap = &b
}

// ClearColormap removes the colormap binding.
func (s *Scene) ClearColormap() {
	s.colormap = nil
}

// Colormap returns the active binding, or nil.
func (s *Scene) Colormap() *ColormapBinding {
	return s.colormap
}

// Quad appends a rectangle with texture coordinates, using the active
// colormap binding if any.
func (s *Scene) Quad(r rfscope.Rect, u0, v0, u1, v1 float64) {
	var cm *ColormapBinding
	if s.colormap != nil {
		b := *s.colormap
		cm = &b
	}
	s.commands = append(s.commands, QuadCmd{
		Rect: r, U0: u0, V0: v0, U1: u1, V1: v1,
		Color:     s.color,
		Colormap:  cm,
		Transform: s.transform,
		Blend:     s.blend,
	})
}

// FillRect appends a rectangle filled with the current color.
func (s *Scene) FillRect(r rfscope.Rect) {
	s.commands = append(s.commands, QuadCmd{
		Rect:      r,
		Color:     s.color,
		Transform: s.transform,
		Blend:     s.blend,
	})
}

// LineStrip appends a polyline of count points from buf starting at first.
func (s *Scene) LineStrip(buf gpucore.BufferID, first, count int, width float64) {
	s.commands = append(s.commands, LineStripCmd{
		Buffer:    buf,
		First:     first,
		Count:     count,
		Color:     s.color,
		Transform: s.transform,
		Blend:     s.blend,
		Smooth:    s.smooth,
		Width:     width,
	})
}

// Lines appends independent segments given as point pairs.
func (s *Scene) Lines(pts ...rfscope.Point) {
	cp := make([]rfscope.Point, len(pts))
	copy(cp, pts)
	s.commands = append(s.commands, LinesCmd{
		Points:    cp,
		Color:     s.color,
		Transform: s.transform,
		Blend:     s.blend,
	})
}

// Text appends a text mask at origin, transformed by the current
// transform. Text is always alpha blended.
func (s *Scene) Text(origin rfscope.Point, mask *image.Alpha, text string) {
	s.commands = append(s.commands, TextCmd{
		Text:   text,
		Origin: s.transform.TransformPoint(origin),
		Mask:   mask,
		Color:  s.color,
	})
}
