// Package text prints short annotations such as axis labels into a
// render.Scene.
//
// A [Font] wraps one TrueType/OpenType face at a fixed pixel size. Text is
// formatted with a locale-aware printer, measured with HarfBuzz shaping
// (go-text/typesetting) for anchoring, and rasterized into an alpha mask
// (golang.org/x/image) that the scene carries as a TextCmd.
//
// Printing happens between Begin and End:
//
//	f.Begin(scene, rfscope.RGB(1, 1, 0.33))
//	f.Printf(x, text.AlignRight, y, text.AlignMiddle, "%d", db)
//	f.End()
package text
