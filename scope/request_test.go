package scope

import (
	"testing"

	"github.com/gogpu/rfscope"
)

func TestDefaultRenderRequestLayout(t *testing.T) {
	r := DefaultRenderRequest(800, 600)

	if r.XDiv != 75 || r.YDiv != 28 {
		t.Errorf("div = (%v, %v), want (75, 28)", r.XDiv, r.YDiv)
	}
	wantSpectrum := rfscope.Rect{X0: 40, Y0: 309, X1: 791, Y1: 590}
	if r.Spectrum != wantSpectrum {
		t.Errorf("Spectrum = %+v, want %+v", r.Spectrum, wantSpectrum)
	}
	wantWaterfall := rfscope.Rect{X0: 40, Y0: 10, X1: 791, Y1: 289}
	if r.Waterfall != wantWaterfall {
		t.Errorf("Waterfall = %+v, want %+v", r.Waterfall, wantWaterfall)
	}
	if r.LabelX != 35 || r.LabelY != 299 {
		t.Errorf("labels = (%v, %v), want (35, 299)", r.LabelX, r.LabelY)
	}
	if r.FreqStart != 0 || r.FreqStop != 1 {
		t.Errorf("window = [%v, %v], want [0, 1]", r.FreqStart, r.FreqStop)
	}
}

func TestRefreshSpectrumOnly(t *testing.T) {
	r := &RenderRequest{Width: 200, Height: 150, Options: OptLive}
	r.Refresh()

	want := rfscope.Rect{X0: 10, Y0: 9, X1: 191, Y1: 140}
	if r.Spectrum != want {
		t.Errorf("Spectrum = %+v, want %+v", r.Spectrum, want)
	}
	if r.XDiv != 18 || r.YDiv != 13 {
		t.Errorf("div = (%v, %v), want (18, 13)", r.XDiv, r.YDiv)
	}
	if r.Waterfall.Height() != 0 {
		t.Errorf("Waterfall height = %v, want 0", r.Waterfall.Height())
	}
}

func TestRefreshWaterfallOnly(t *testing.T) {
	r := &RenderRequest{PosX: 100, PosY: 50, Width: 200, Height: 150, Options: OptWaterfall}
	r.Refresh()

	if r.Waterfall.Y0 != 60 || r.Waterfall.Y1 != 190 {
		t.Errorf("Waterfall y = [%v, %v], want [60, 190]", r.Waterfall.Y0, r.Waterfall.Y1)
	}
	if r.Waterfall.X0 != 110 {
		t.Errorf("Waterfall x0 = %v, want 110", r.Waterfall.X0)
	}
}

func TestRefreshZoom(t *testing.T) {
	tests := []struct {
		name         string
		center, span float64
		start, stop  float64
	}{
		{"centered", 0.5, 0.5, 0.25, 0.75},
		{"clamped high", 0.9, 0.4, 0.6, 1},
		{"clamped low", 0.05, 0.2, 0, 0.2},
		{"wider than band", 0.3, 2, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DefaultRenderRequest(800, 600)
			r.ZoomEnabled = true
			r.ZoomCenter = tt.center
			r.ZoomSpan = tt.span
			r.Refresh()
			if !near(r.FreqStart, tt.start) || !near(r.FreqStop, tt.stop) {
				t.Errorf("window = [%v, %v], want [%v, %v]", r.FreqStart, r.FreqStop, tt.start, tt.stop)
			}
		})
	}
}

func TestOptionsHas(t *testing.T) {
	o := OptLive | OptLabelFreq
	if !o.Has(OptLive) {
		t.Error("Has(OptLive) = false, want true")
	}
	if !o.Has(OptMaxHold | OptLive) {
		t.Error("Has(OptMaxHold|OptLive) = false, want true")
	}
	if o.Has(OptWaterfall | OptHistogram) {
		t.Error("Has(OptWaterfall|OptHistogram) = true, want false")
	}
}
