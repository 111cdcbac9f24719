// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	"github.com/gogpu/rfscope"
	"github.com/gogpu/rfscope/gpucore"
)

// CommandKind identifies a draw command type.
type CommandKind uint8

// Command kinds.
const (
	KindQuad CommandKind = iota + 1
	KindLineStrip
	KindLines
	KindText
)

func (k CommandKind) String() string {
	switch k {
	case KindQuad:
		return "quad"
	case KindLineStrip:
		return "linestrip"
	case KindLines:
		return "lines"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Command is a single entry of a Scene.
type Command interface {
	Kind() CommandKind
}

// BlendMode selects how a command combines with the target.
type BlendMode uint8

const (
	// BlendNone overwrites the target.
	BlendNone BlendMode = iota

	// BlendAlpha is source-over: src*a + dst*(1-a).
	BlendAlpha
)

// SampleMode selects how a colormapped quad samples its source texture.
type SampleMode uint8

// Sample modes.
const (
	SampleNearest SampleMode = iota
	SampleBilinear
	SampleBicubic
)

// ColormapBinding maps a single-channel source texture through a color
// lookup table. The mapped intensity is Scale*(raw+Offset), clamped to
// [0,1], and indexes the LUT.
type ColormapBinding struct {
	Source gpucore.TextureID
	LUT    gpucore.TextureID
	Scale  float32
	Offset float32
	Mode   SampleMode
}

// QuadCmd draws an axis-aligned rectangle. With a Colormap binding the
// rectangle is textured with the mapped source; otherwise it is filled
// with Color.
//
// Texture coordinates are attached to the corners as
// (X0,Y0)->(U0,V0), (X1,Y0)->(U1,V0), (X1,Y1)->(U1,V1), (X0,Y1)->(U0,V1).
type QuadCmd struct {
	Rect      rfscope.Rect
	U0, V0    float64
	U1, V1    float64
	Color     rfscope.RGBA
	Colormap  *ColormapBinding
	Transform rfscope.Matrix
	Blend     BlendMode
}

// Kind implements Command.
func (QuadCmd) Kind() CommandKind { return KindQuad }

// LineStripCmd draws Count consecutive 2-D float32 points of a vertex
// buffer, starting at point index First, as a connected polyline.
type LineStripCmd struct {
	Buffer    gpucore.BufferID
	First     int
	Count     int
	Color     rfscope.RGBA
	Transform rfscope.Matrix
	Blend     BlendMode
	Smooth    bool
	Width     float64
}

// Kind implements Command.
func (LineStripCmd) Kind() CommandKind { return KindLineStrip }

// LinesCmd draws independent segments: Points[0]-Points[1],
// Points[2]-Points[3], and so on.
type LinesCmd struct {
	Points    []rfscope.Point
	Color     rfscope.RGBA
	Transform rfscope.Matrix
	Blend     BlendMode
}

// Kind implements Command.
func (LinesCmd) Kind() CommandKind { return KindLines }

// TextCmd blends a rasterized text mask. Origin is the lower-left corner
// of the mask in scene coordinates. Text keeps the printed string for
// backends that inspect it.
type TextCmd struct {
	Text   string
	Origin rfscope.Point
	Mask   *image.Alpha
	Color  rfscope.RGBA
}

// Kind implements Command.
func (TextCmd) Kind() CommandKind { return KindText }
