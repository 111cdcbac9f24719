package text

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/rfscope"
	"github.com/gogpu/rfscope/internal/cache"
	"github.com/gogpu/rfscope/render"
)

// maskCacheSize bounds the number of rasterized strings kept per font.
const maskCacheSize = 256

// Flags tune glyph rendering.
type Flags uint8

const (
	// FlagLCD selects rendering tuned for LCD panels: full hinting and
	// pixel-aligned origins.
	FlagLCD Flags = 1 << iota
)

// HAlign anchors text horizontally relative to the print position.
type HAlign uint8

// Horizontal anchors.
const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

// VAlign anchors text vertically relative to the print position.
type VAlign uint8

// Vertical anchors.
const (
	AlignBottom VAlign = iota
	AlignMiddle
	AlignTop
)

// Font is a face at a fixed size, plus the state of an open print batch.
type Font struct {
	size  float64
	flags Flags

	face    font.Face
	ascent  float64
	descent float64
	shaper  *shaper
	masks   *cache.Cache[string, *image.Alpha]

	scene *render.Scene
	color rfscope.RGBA
	freed bool
}

// NewFont creates a font of the given pixel size. A face must be loaded
// with LoadFace before anything can be printed.
func NewFont(size float64, flags Flags) (*Font, error) {
	if size <= 0 || math.IsNaN(size) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}
	return &Font{
		size:  size,
		flags: flags,
		masks: cache.New[string, *image.Alpha](maskCacheSize),
	}, nil
}

// Size returns the pixel size.
func (f *Font) Size() float64 { return f.size }

// Flags returns the rendering flags.
func (f *Font) Flags() Flags { return f.flags }

// LoadFace parses TrueType/OpenType data and makes it the font's face.
// A previously loaded face is closed.
func (f *Font) LoadFace(data []byte) error {
	if f.freed {
		return ErrFontFreed
	}
	if len(data) == 0 {
		return ErrEmptyFontData
	}

	sh, err := newShaper(data)
	if err != nil {
		return fmt.Errorf("text: failed to parse font: %w", err)
	}
	otf, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("text: failed to parse font: %w", err)
	}
	hinting := font.HintingNone
	if f.flags&FlagLCD != 0 {
		hinting = font.HintingFull
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    f.size,
		DPI:     72,
		Hinting: hinting,
	})
	if err != nil {
		return fmt.Errorf("text: failed to create face: %w", err)
	}

	if f.face != nil {
		_ = f.face.Close()
	}
	m := face.Metrics()
	f.face = face
	f.ascent = fixedToFloat(m.Ascent)
	f.descent = fixedToFloat(m.Descent)
	f.shaper = sh
	f.masks.Clear()
	return nil
}

// HasFace reports whether a face is loaded.
func (f *Font) HasFace() bool { return f.face != nil }

// LineHeight returns ascent plus descent in pixels.
func (f *Font) LineHeight() float64 { return f.ascent + f.descent }

// Measure returns the shaped advance width of s in pixels.
func (f *Font) Measure(s string) float64 {
	if f.shaper == nil {
		return 0
	}
	return f.shaper.advance(s, f.size)
}

// CachedMasks returns the number of rasterized strings held by the font.
func (f *Font) CachedMasks() int { return f.masks.Len() }

// Begin starts a print batch into s with color c.
func (f *Font) Begin(s *render.Scene, c rfscope.RGBA) {
	f.scene = s
	f.color = c
}

// End closes the current print batch.
func (f *Font) End() {
	f.scene = nil
}

// Printf formats and prints one label anchored at (x, y) in scene
// coordinates. It returns the advance width of the printed text, or 0 if
// nothing was printed (no open batch, no face, or empty text).
func (f *Font) Printf(x float64, xa HAlign, y float64, ya VAlign, format string, args ...any) float64 {
	if f.scene == nil || f.face == nil || f.freed {
		rfscope.Logger().Debug("text: print outside batch dropped", "format", format)
		return 0
	}
	s := fmt.Sprintf(format, args...)
	if s == "" {
		return 0
	}

	// Masks are shared between frames; renderers only read them.
	mask := f.masks.GetOrCreate(s, func() *image.Alpha { return f.rasterize(s) })
	w := f.Measure(s)
	if w == 0 {
		w = float64(mask.Bounds().Dx())
	}
	h := f.LineHeight()

	x0 := x
	switch xa {
	case AlignCenter:
		x0 -= w / 2
	case AlignRight:
		x0 -= w
	}
	y0 := y
	switch ya {
	case AlignMiddle:
		y0 -= h / 2
	case AlignTop:
		y0 -= h
	}
	if f.flags&FlagLCD != 0 {
		x0 = math.Round(x0)
		y0 = math.Round(y0)
	}

	f.scene.SetColor(f.color)
	f.scene.Text(rfscope.Pt(x0, y0), mask, s)
	return w
}

// Free releases the face. Safe to call more than once.
func (f *Font) Free() {
	if f == nil || f.freed {
		return
	}
	if f.face != nil {
		_ = f.face.Close()
		f.face = nil
	}
	f.shaper = nil
	f.scene = nil
	f.masks.Clear()
	f.freed = true
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
