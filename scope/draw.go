package scope

import (
	"errors"

	"github.com/gogpu/rfscope"
	"github.com/gogpu/rfscope/axis"
	"github.com/gogpu/rfscope/render"
	"github.com/gogpu/rfscope/text"
)

// Fixed colors and display constants of the frame layers.
var (
	backdropColor  = rfscope.RGB(0, 0, 0.1)
	liveColor      = rfscope.RGBA2(1, 1, 1, 0.75)
	maxHoldColor   = rfscope.RGBA2(1, 0, 0, 0.75)
	gridColor      = rfscope.RGBA2(0, 0, 0, 0.5)
	labelColor     = rfscope.RGB(1, 1, 0.33)
	histogramScale = float32(1.1)
)

// freqLabelNudge moves the outermost frequency labels inside the grid.
const freqLabelNudge = 5

// Draw composes one frame for req and submits it to target.
//
// Layers are drawn bottom to top: waterfall, histogram (or a dark
// backdrop behind the traces), live and max-hold traces, grid, labels.
// The frame ends with a completion barrier. Draw creates the shared
// resources on first use; if that fails nothing is drawn. Renderer
// errors are logged.
func (d *Display) Draw(target render.RenderTarget, req *RenderRequest) {
	if req == nil {
		return
	}
	if err := d.ensureResources(); err != nil {
		if !errors.Is(err, ErrReleased) {
			rfscope.Logger().Warn("scope: frame skipped", "err", err)
		}
		return
	}

	s := d.scene
	s.Reset()
	d.compose(s, req)

	log := rfscope.Logger()
	if !s.IsEmpty() {
		log.Debug("scope: frame",
			"commands", s.Len(),
			"quads", s.Count(render.KindQuad),
			"strips", s.Count(render.KindLineStrip),
			"texts", s.Count(render.KindText))
		if err := d.renderer.Render(target, s); err != nil {
			log.Warn("scope: render failed", "err", err)
		}
	}
	if err := d.renderer.Flush(); err != nil {
		log.Warn("scope: flush failed", "err", err)
	}
}

func (d *Display) compose(s *render.Scene, req *RenderRequest) {
	opts := req.Options
	start, stop := req.FreqStart, req.FreqStop

	if opts.Has(OptWaterfall) {
		d.drawWaterfall(s, req, start, stop)
	}

	if opts.Has(OptHistogram) {
		d.drawHistogram(s, req, start, stop)
	} else if opts.Has(OptLive | OptMaxHold) {
		s.SetBlend(render.BlendNone)
		s.SetColor(backdropColor)
		s.FillRect(req.Spectrum)
	}

	if opts.Has(OptLive | OptMaxHold) {
		d.drawTraces(s, req, start, stop)
	}

	if opts.Has(OptLive | OptMaxHold | OptHistogram) {
		d.drawGrid(s, req)
	}
}

func (d *Display) drawWaterfall(s *render.Scene, req *RenderRequest, start, stop float64) {
	u0, u1, v0, v1 := WaterfallUV(d.n, start, stop, req.WaterfallPos, req.WaterfallSpan)

	d.cmap.Enable(s, d.texWaterfall, d.lutWaterfall,
		float32(d.power.Scale), float32(d.power.Offset), render.SampleBilinear)
	s.Quad(req.Waterfall, u0, v0, u1, v1)
	d.cmap.Disable(s)
}

func (d *Display) drawHistogram(s *render.Scene, req *RenderRequest, start, stop float64) {
	u0, u1, v0, v1 := HistogramUV(d.n, start, stop)

	d.cmap.Enable(s, d.texHistogram, d.lutHistogram, histogramScale, 0, render.SampleBilinear)
	s.Quad(req.Spectrum, u0, v0, u1, v1)
	d.cmap.Disable(s)
}

func (d *Display) drawTraces(s *render.Scene, req *RenderRequest, start, stop float64) {
	first, count := TraceRange(d.n, start, stop)

	s.Push()
	applyTraceTransform(s, d.n, req.Spectrum, d.power, start, stop)

	s.SetBlend(render.BlendAlpha)
	s.SetSmooth(true)

	if req.Options.Has(OptLive) {
		s.SetColor(liveColor)
		s.LineStrip(d.vbo, first, count, 1)
	}
	if req.Options.Has(OptMaxHold) {
		s.SetColor(maxHoldColor)
		s.LineStrip(d.vbo, first+d.n, count, 1)
	}

	s.SetSmooth(false)
	s.SetBlend(render.BlendNone)
	s.Pop()
}

func (d *Display) drawGrid(s *render.Scene, req *RenderRequest) {
	r := req.Spectrum
	freq := axis.Build(d.freqCenter, d.freqSpan)

	s.SetBlend(render.BlendAlpha)
	s.SetColor(gridColor)
	for i := 0; i <= GridDivisions; i++ {
		xv := r.X0 + float64(i)*req.XDiv
		yv := r.Y0 + float64(i)*req.YDiv
		s.Lines(rfscope.Pt(xv+0.5, r.Y0+0.5), rfscope.Pt(xv+0.5, r.Y1-0.5))
		s.Lines(rfscope.Pt(r.X0+0.5, yv+0.5), rfscope.Pt(r.X1-0.5, yv+0.5))
	}

	if !req.Options.Has(OptLabelPower | OptLabelFreq) {
		s.SetBlend(render.BlendNone)
		return
	}

	d.font.Begin(s, labelColor)
	for i := 0; i <= GridDivisions; i++ {
		xv := r.X0 + float64(i)*req.XDiv
		yv := r.Y0 + float64(i)*req.YDiv

		if req.Options.Has(OptLabelPower) {
			d.font.Printf(req.LabelX, text.AlignRight, yv, text.AlignMiddle, "%d", d.power.Label(i))
		}
		if req.Options.Has(OptLabelFreq) {
			var ofs float64
			switch i {
			case 0:
				ofs = freqLabelNudge
			case GridDivisions:
				ofs = -freqLabelNudge
			}
			d.font.Printf(xv+ofs, text.AlignCenter, req.LabelY, text.AlignMiddle,
				"%s", freq.Render(i-axis.HalfDivisions))
		}
	}
	d.font.End()
	s.SetBlend(render.BlendNone)
}
