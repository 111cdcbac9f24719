package native

import (
	"encoding/binary"
	"image"
	"math"

	"github.com/gogpu/rfscope"
	"github.com/gogpu/rfscope/render"
)

// vertexStride is the byte stride of quad, text and grid vertices:
// position (vec2<f32>) then uv (vec2<f32>).
const vertexStride = 16

// stripStride is the byte stride of the spectrum vertex buffer:
// position (vec2<f32>) only.
const stripStride = 8

// uniformSize is the byte size of the per-draw uniform block: five vec4.
const uniformSize = 80

// Fragment shader modes, stored in params.z.
const (
	modeSolid    = 0
	modeColormap = 1
	modeMask     = 2
)

func appendVertex(buf []byte, x, y, u, v float64) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(x)))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(y)))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(u)))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(v)))
	return buf
}

// appendQuad appends two triangles covering r with texture coordinates
// (u0,v0) at (X0,Y0) and (u1,v1) at (X1,Y1).
func appendQuad(buf []byte, r rfscope.Rect, u0, v0, u1, v1 float64) []byte {
	buf = appendVertex(buf, r.X0, r.Y0, u0, v0)
	buf = appendVertex(buf, r.X1, r.Y0, u1, v0)
	buf = appendVertex(buf, r.X1, r.Y1, u1, v1)

	buf = appendVertex(buf, r.X0, r.Y0, u0, v0)
	buf = appendVertex(buf, r.X1, r.Y1, u1, v1)
	buf = appendVertex(buf, r.X0, r.Y1, u0, v1)
	return buf
}

// appendLines appends the segments of pts as a line list. A trailing
// unpaired point is dropped.
func appendLines(buf []byte, pts []rfscope.Point) []byte {
	for i := 0; i+1 < len(pts); i += 2 {
		buf = appendVertex(buf, pts[i].X, pts[i].Y, 0, 0)
		buf = appendVertex(buf, pts[i+1].X, pts[i+1].Y, 0, 0)
	}
	return buf
}

// appendText appends the quad of a text mask placed at origin. Masks
// are stored top row first, so V runs downward.
func appendText(buf []byte, origin rfscope.Point, mask *image.Alpha) []byte {
	b := mask.Bounds()
	r := rfscope.Rect{X0: origin.X, Y0: origin.Y, X1: origin.X + float64(b.Dx()), Y1: origin.Y + float64(b.Dy())}
	return appendQuad(buf, r, 0, 1, 1, 0)
}

// uniforms is the per-draw uniform block.
type uniforms struct {
	transform rfscope.Matrix
	color     rfscope.RGBA
	scale     float32
	offset    float32
	mode      float32
	filter    float32
	repeatU   bool
	repeatV   bool
	width     int
	height    int
}

func (u uniforms) bytes() []byte {
	f := [20]float32{
		float32(u.transform.A), float32(u.transform.B), float32(u.transform.C), 0,
		float32(u.transform.D), float32(u.transform.E), float32(u.transform.F), 0,
		float32(u.color.R), float32(u.color.G), float32(u.color.B), float32(u.color.A),
		u.scale, u.offset, u.mode, u.filter,
		boolf(u.repeatU), boolf(u.repeatV), float32(u.width), float32(u.height),
	}
	buf := make([]byte, 0, uniformSize)
	for _, v := range f {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}

func boolf(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// filterFor maps a sample mode to the shader filter flag. Bicubic is
// drawn bilinear.
func filterFor(m render.SampleMode) float32 {
	if m == render.SampleNearest {
		return 0
	}
	return 1
}

// maskPixels returns the tightly packed rows of a mask.
func maskPixels(mask *image.Alpha) []byte {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	if mask.Stride == w && b.Min == (image.Point{}) {
		return mask.Pix[:w*h]
	}
	out := make([]byte, 0, w*h)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := mask.PixOffset(b.Min.X, y)
		out = append(out, mask.Pix[off:off+w]...)
	}
	return out
}
