package scope

import (
	"github.com/gogpu/rfscope/cmap"
	"github.com/gogpu/rfscope/resource"
)

// Defaults used by New.
const (
	DefaultSpectrumLength = 1024
	DefaultFontSize       = 8
	DefaultLUTSize        = 256
)

// Option configures a Display during creation.
//
// Example:
//
//	d, err := scope.New(dev, renderer,
//	    scope.WithSpectrumLength(4096),
//	    scope.WithPalettes(cmap.PaletteGrayscale, cmap.PaletteHistogram),
//	)
type Option func(*options)

type options struct {
	length     int
	fontName   string
	fontSize   float64
	loader     resource.Loader
	wfPalette  cmap.Palette
	hstPalette cmap.Palette
	lutSize    int
}

func defaultOptions() options {
	return options{
		length:     DefaultSpectrumLength,
		fontName:   resource.DefaultFont,
		fontSize:   DefaultFontSize,
		loader:     resource.Default,
		wfPalette:  cmap.PaletteWaterfall,
		hstPalette: cmap.PaletteHistogram,
		lutSize:    DefaultLUTSize,
	}
}

// WithSpectrumLength sets N, the number of FFT bins. N must be a power of
// two and at least 2.
func WithSpectrumLength(n int) Option {
	return func(o *options) {
		o.length = n
	}
}

// WithFont selects the label font asset by name.
func WithFont(name string) Option {
	return func(o *options) {
		o.fontName = name
	}
}

// WithFontSize sets the label font size in pixels.
func WithFontSize(size float64) Option {
	return func(o *options) {
		o.fontSize = size
	}
}

// WithLoader sets the asset loader used to find the font.
func WithLoader(l resource.Loader) Option {
	return func(o *options) {
		if l != nil {
			o.loader = l
		}
	}
}

// WithPalettes selects the waterfall and histogram palettes.
func WithPalettes(waterfall, histogram cmap.Palette) Option {
	return func(o *options) {
		o.wfPalette = waterfall
		o.hstPalette = histogram
	}
}
