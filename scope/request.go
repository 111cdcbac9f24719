package scope

import (
	"math"

	"github.com/gogpu/rfscope"
)

// Options selects the layers drawn by a frame.
type Options uint32

// Layer selection bits.
const (
	OptWaterfall Options = 1 << iota
	OptHistogram
	OptLive
	OptMaxHold
	OptLabelPower
	OptLabelFreq

	OptAll = OptWaterfall | OptHistogram | OptLive | OptMaxHold | OptLabelPower | OptLabelFreq
)

// Has reports whether any bit of o is set in opts.
func (opts Options) Has(o Options) bool { return opts&o != 0 }

// WaterfallRows is the height of the waterfall ring.
const WaterfallRows = 1024

// HistogramRows is the height of the histogram texture.
const HistogramRows = 128

// GridDivisions is the number of grid cells along each axis.
const GridDivisions = 10

// Layout margins in pixels.
const (
	marginSide       = 10
	marginPowerLabel = 30
	marginFreqLabel  = 10
	labelGap         = 5
)

// RenderRequest describes one frame.
//
// The viewport and behavior fields are set by the caller; Refresh derives
// the screen-space layout from them. A request may also be filled in by
// hand, in which case Refresh must not be called.
type RenderRequest struct {
	// Viewport in pixels, origin lower-left.
	PosX, PosY    int
	Width, Height int

	Options Options

	// HistoWaterfallRatio is the share of the vertical space given to the
	// spectrum area when both spectrum and waterfall are shown.
	HistoWaterfallRatio float64

	// Zoom selects a frequency sub-window. Center and span are normalized
	// to [0,1] over the full band.
	ZoomEnabled bool
	ZoomCenter  float64
	ZoomSpan    float64

	// WaterfallPos is the newest row written to the waterfall ring.
	WaterfallPos int

	// WaterfallSpan is the visible height of the waterfall, as a fraction
	// of the ring.
	WaterfallSpan float64

	// Derived layout.

	// Spectrum is the trace/histogram area; Waterfall the waterfall area.
	Spectrum  rfscope.Rect
	Waterfall rfscope.Rect

	// XDiv and YDiv are the grid pitch inside Spectrum.
	XDiv, YDiv float64

	// LabelX is the right edge of the power labels; LabelY the center line
	// of the frequency labels.
	LabelX, LabelY float64

	// FreqStart and FreqStop bound the displayed window, in [0,1].
	FreqStart, FreqStop float64
}

// DefaultRenderRequest returns a request showing every layer over the
// given viewport, already refreshed.
func DefaultRenderRequest(width, height int) *RenderRequest {
	r := &RenderRequest{
		Width:               width,
		Height:              height,
		Options:             OptAll,
		HistoWaterfallRatio: 0.5,
		ZoomCenter:          0.5,
		ZoomSpan:            1,
		WaterfallSpan:       1,
	}
	r.Refresh()
	return r
}

// Refresh recomputes the derived layout fields from the viewport,
// options, split ratio and zoom.
func (r *RenderRequest) Refresh() {
	showSpectrum := r.Options.Has(OptLive | OptMaxHold | OptHistogram)
	showWaterfall := r.Options.Has(OptWaterfall)

	// Horizontal split.
	left, right := marginSide, marginSide
	if r.Options.Has(OptLabelPower) {
		left += marginPowerLabel
	}
	avail := r.Width - left - right
	div := max(avail/GridDivisions, 0)
	over := avail - GridDivisions*div

	r.XDiv = float64(div)
	x0 := float64(r.PosX + left + over/2)
	x1 := x0 + GridDivisions*r.XDiv + 1
	r.LabelX = x0 - labelGap

	// Vertical split: spectrum on top, waterfall below.
	top := float64(r.PosY + r.Height - marginSide)
	bottom := float64(r.PosY + marginSide)

	r.Spectrum = rfscope.Rect{X0: x0, X1: x1}
	r.Waterfall = rfscope.Rect{X0: x0, X1: x1}
	r.YDiv = 0

	if showSpectrum {
		reserved := 2 * marginSide
		if showWaterfall {
			reserved += marginSide
		}
		if r.Options.Has(OptLabelFreq) {
			reserved += marginFreqLabel
		}
		vavail := r.Height - reserved
		if showWaterfall {
			vavail = int(float64(vavail) * r.HistoWaterfallRatio)
		}
		vdiv := max(vavail/GridDivisions, 0)
		vover := vavail - GridDivisions*vdiv

		r.YDiv = float64(vdiv)
		r.Spectrum.Y1 = top - float64(vover/2)
		r.Spectrum.Y0 = r.Spectrum.Y1 - GridDivisions*r.YDiv - 1
		r.LabelY = r.Spectrum.Y0 - labelGap - marginFreqLabel/2
	}

	if showWaterfall {
		r.Waterfall.Y0 = bottom
		r.Waterfall.Y1 = top
		if showSpectrum {
			gap := float64(marginSide)
			if r.Options.Has(OptLabelFreq) {
				gap += marginFreqLabel
			}
			r.Waterfall.Y1 = r.Spectrum.Y0 - gap
		}
	}

	r.FreqStart, r.FreqStop = 0, 1
	if r.ZoomEnabled && r.ZoomSpan > 0 {
		half := math.Min(r.ZoomSpan, 1) / 2
		c := math.Min(math.Max(r.ZoomCenter, half), 1-half)
		r.FreqStart = c - half
		r.FreqStop = c + half
	}
}
