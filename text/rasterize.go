package text

import (
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// rasterize draws s into a tight alpha mask one line high. Row 0 of the
// mask is the top of the line.
func (f *Font) rasterize(s string) *image.Alpha {
	d := font.Drawer{Face: f.face}
	w := int(math.Ceil(fixedToFloat(d.MeasureString(s))))
	h := int(math.Ceil(f.ascent + f.descent))
	if w <= 0 || h <= 0 {
		return image.NewAlpha(image.Rect(0, 0, 0, 0))
	}
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	d.Dst = mask
	d.Src = image.Opaque
	d.Dot = fixed.Point26_6{X: 0, Y: fixed.I(int(math.Ceil(f.ascent)))}
	d.DrawString(s)
	return mask
}
