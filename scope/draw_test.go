package scope

import (
	"errors"
	"testing"

	"github.com/gogpu/rfscope"
	"github.com/gogpu/rfscope/render"
)

func kinds(cmds []render.Command) []render.CommandKind {
	out := make([]render.CommandKind, len(cmds))
	for i, c := range cmds {
		out[i] = c.Kind()
	}
	return out
}

func countKind(cmds []render.Command, k render.CommandKind) int {
	n := 0
	for _, c := range cmds {
		if c.Kind() == k {
			n++
		}
	}
	return n
}

func strips(cmds []render.Command) []render.LineStripCmd {
	var out []render.LineStripCmd
	for _, c := range cmds {
		if s, ok := c.(render.LineStripCmd); ok {
			out = append(out, s)
		}
	}
	return out
}

func request(opts Options) *RenderRequest {
	r := DefaultRenderRequest(800, 600)
	r.Options = opts
	r.Refresh()
	return r
}

func TestDrawNoLayers(t *testing.T) {
	d, _, rec := newTestDisplay(t, 1024)

	d.Draw(render.NewPixmapTarget(800, 600), request(0))

	if got := len(rec.Commands()); got != 0 {
		t.Errorf("commands = %d, want 0", got)
	}
	if got := rec.Flushes(); got != 1 {
		t.Errorf("Flushes() = %d, want 1", got)
	}
}

func TestDrawCreatesSharedResources(t *testing.T) {
	d, dev, _ := newTestDisplay(t, 64)
	d.Draw(render.NewPixmapTarget(320, 240), request(OptLive))
	if tex, buf := dev.LiveResources(); tex != 4 || buf != 1 {
		t.Errorf("LiveResources() = (%d, %d), want (4, 1)", tex, buf)
	}
}

func TestDrawLayerOrder(t *testing.T) {
	d, _, rec := newTestDisplay(t, 1024)
	req := request(OptAll)
	req.WaterfallPos = 256
	req.WaterfallSpan = 0.5

	d.Draw(render.NewPixmapTarget(800, 600), req)

	cmds := rec.Commands()
	k := kinds(cmds)
	want := []render.CommandKind{render.KindQuad, render.KindQuad, render.KindLineStrip, render.KindLineStrip}
	for i, w := range want {
		if i >= len(k) || k[i] != w {
			t.Fatalf("kinds = %v, want prefix %v", k, want)
		}
	}
	for i := 4; i < 4+2*(GridDivisions+1); i++ {
		if k[i] != render.KindLines {
			t.Fatalf("command %d = %v, want lines", i, k[i])
		}
	}
	if got := countKind(cmds, render.KindLines); got != 2*(GridDivisions+1) {
		t.Errorf("grid lines = %d, want %d", got, 2*(GridDivisions+1))
	}
	if got := countKind(cmds, render.KindText); got != 2*(GridDivisions+1) {
		t.Errorf("labels = %d, want %d", got, 2*(GridDivisions+1))
	}
	if last := k[len(k)-1]; last != render.KindText {
		t.Errorf("last command = %v, want text", last)
	}
	if got := rec.Flushes(); got != 1 {
		t.Errorf("Flushes() = %d, want 1", got)
	}

	wf := cmds[0].(render.QuadCmd)
	if wf.Rect != req.Waterfall {
		t.Errorf("waterfall rect = %+v, want %+v", wf.Rect, req.Waterfall)
	}
	if wf.Colormap == nil || wf.Colormap.Source != d.texWaterfall || wf.Colormap.LUT != d.lutWaterfall {
		t.Fatalf("waterfall colormap = %+v, want waterfall texture and palette", wf.Colormap)
	}
	if wf.Colormap.Mode != render.SampleBilinear {
		t.Errorf("waterfall sampling = %v, want bilinear", wf.Colormap.Mode)
	}
	if !near(wf.V0, -0.25) || !near(wf.V1, 0.25) {
		t.Errorf("waterfall v = [%v, %v], want [-0.25, 0.25]", wf.V0, wf.V1)
	}
	if !near(wf.U1, 1.5) {
		t.Errorf("waterfall u1 = %v, want 1.5", wf.U1)
	}

	hst := cmds[1].(render.QuadCmd)
	if hst.Rect != req.Spectrum {
		t.Errorf("histogram rect = %+v, want %+v", hst.Rect, req.Spectrum)
	}
	if hst.Colormap == nil || hst.Colormap.Source != d.texHistogram || hst.Colormap.Scale != 1.1 || hst.Colormap.Offset != 0 {
		t.Errorf("histogram colormap = %+v, want histogram texture scale 1.1 offset 0", hst.Colormap)
	}
	if hst.V0 != 0 || hst.V1 != 1 {
		t.Errorf("histogram v = [%v, %v], want [0, 1]", hst.V0, hst.V1)
	}
}

func TestDrawTraces(t *testing.T) {
	const n = 1024
	d, _, rec := newTestDisplay(t, n)
	req := request(OptLive | OptMaxHold)
	req.ZoomEnabled = true
	req.ZoomCenter = 0.5
	req.ZoomSpan = 0.5
	req.Refresh()

	d.Draw(render.NewPixmapTarget(800, 600), req)

	s := strips(rec.Commands())
	if len(s) != 2 {
		t.Fatalf("line strips = %d, want 2", len(s))
	}
	live, hold := s[0], s[1]
	if live.First != 257 || live.Count != 511 {
		t.Errorf("live range = (%d, %d), want (257, 511)", live.First, live.Count)
	}
	if hold.First != 257+n || hold.Count != 511 {
		t.Errorf("max-hold range = (%d, %d), want (%d, 511)", hold.First, hold.Count, 257+n)
	}
	if live.Buffer != d.vbo || hold.Buffer != d.vbo {
		t.Errorf("strip buffers = (%d, %d), want %d", live.Buffer, hold.Buffer, d.vbo)
	}
	if live.Color != liveColor || hold.Color != maxHoldColor {
		t.Errorf("strip colors = (%v, %v), want white and red at 0.75", live.Color, hold.Color)
	}
	for i, c := range s {
		if !c.Smooth || c.Blend != render.BlendAlpha {
			t.Errorf("strip %d smooth=%v blend=%v, want smoothed and blended", i, c.Smooth, c.Blend)
		}
	}
	want := TraceTransform(n, req.Spectrum, d.Power(), 0.25, 0.75)
	if !matrixNear(live.Transform, want) {
		t.Errorf("live transform = %+v, want %+v", live.Transform, want)
	}

	// Nothing after the traces inherits their transform or blending state.
	for _, c := range rec.Commands() {
		if l, ok := c.(render.LinesCmd); ok && !l.Transform.IsIdentity() {
			t.Fatalf("grid transform = %+v, want identity", l.Transform)
		}
	}
}

func TestDrawBackdrop(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		backdrop bool
	}{
		{"live", OptLive, true},
		{"max hold", OptMaxHold, true},
		{"live with histogram", OptLive | OptHistogram, false},
		{"histogram", OptHistogram, false},
		{"waterfall", OptWaterfall, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _, rec := newTestDisplay(t, 256)
			req := request(tt.opts)
			d.Draw(render.NewPixmapTarget(800, 600), req)

			found := false
			for _, c := range rec.Commands() {
				q, ok := c.(render.QuadCmd)
				if ok && q.Colormap == nil {
					found = true
					if q.Color != backdropColor || q.Rect != req.Spectrum {
						t.Errorf("backdrop = %+v, want (0, 0, 0.1) over the spectrum area", q)
					}
				}
			}
			if found != tt.backdrop {
				t.Errorf("backdrop drawn = %v, want %v", found, tt.backdrop)
			}
		})
	}
}

func TestDrawGridOnlyWithSpectrumLayers(t *testing.T) {
	tests := []struct {
		opts  Options
		lines int
		texts int
	}{
		{OptWaterfall, 0, 0},
		{OptWaterfall | OptLabelPower | OptLabelFreq, 0, 0},
		{OptHistogram, 22, 0},
		{OptMaxHold | OptLabelPower, 22, 11},
		{OptLive | OptLabelFreq, 22, 11},
	}
	for _, tt := range tests {
		d, _, rec := newTestDisplay(t, 256)
		d.Draw(render.NewPixmapTarget(800, 600), request(tt.opts))
		cmds := rec.Commands()
		if got := countKind(cmds, render.KindLines); got != tt.lines {
			t.Errorf("opts %b: lines = %d, want %d", tt.opts, got, tt.lines)
		}
		if got := countKind(cmds, render.KindText); got != tt.texts {
			t.Errorf("opts %b: texts = %d, want %d", tt.opts, got, tt.texts)
		}
	}
}

func TestDrawGridGeometry(t *testing.T) {
	d, _, rec := newTestDisplay(t, 256)
	req := request(OptLive)
	d.Draw(render.NewPixmapTarget(800, 600), req)

	var lines []render.LinesCmd
	for _, c := range rec.Commands() {
		if l, ok := c.(render.LinesCmd); ok {
			lines = append(lines, l)
		}
	}
	if len(lines) != 22 {
		t.Fatalf("lines = %d, want 22", len(lines))
	}
	r := req.Spectrum
	vert := lines[2*3].Points
	wantX := r.X0 + 3*req.XDiv + 0.5
	if vert[0] != rfscope.Pt(wantX, r.Y0+0.5) || vert[1] != rfscope.Pt(wantX, r.Y1-0.5) {
		t.Errorf("vertical line 3 = %v, want x=%v from y0+0.5 to y1-0.5", vert, wantX)
	}
	horz := lines[2*3+1].Points
	wantY := r.Y0 + 3*req.YDiv + 0.5
	if horz[0] != rfscope.Pt(r.X0+0.5, wantY) || horz[1] != rfscope.Pt(r.X1-0.5, wantY) {
		t.Errorf("horizontal line 3 = %v, want y=%v from x0+0.5 to x1-0.5", horz, wantY)
	}
	for _, l := range lines {
		if l.Color != gridColor || l.Blend != render.BlendAlpha {
			t.Fatalf("grid line color=%v blend=%v, want black 0.5 blended", l.Color, l.Blend)
		}
	}
}

func TestDrawLabels(t *testing.T) {
	d, _, rec := newTestDisplay(t, 256)
	d.SetFrequencyRange(100e6, 10e6)
	if err := d.SetPowerRange(-20, 5); err != nil {
		t.Fatal(err)
	}
	d.Draw(render.NewPixmapTarget(800, 600), request(OptLive|OptLabelPower|OptLabelFreq))

	var got []string
	for _, c := range rec.Commands() {
		if tc, ok := c.(render.TextCmd); ok {
			got = append(got, tc.Text)
			if tc.Color != labelColor {
				t.Errorf("label %q color = %v, want %v", tc.Text, tc.Color, labelColor)
			}
		}
	}
	want := []string{"-70", "95M", "-65", "96M"}
	for i, w := range want {
		if i >= len(got) || got[i] != w {
			t.Fatalf("labels = %v, want prefix %v", got, want)
		}
	}
	if last := got[len(got)-2:]; last[0] != "-20" || last[1] != "105M" {
		t.Errorf("last labels = %v, want [-20 105M]", last)
	}
}

func TestDrawRendererErrorStillFlushes(t *testing.T) {
	d, _, rec := newTestDisplay(t, 64)
	rec.RenderErr = errors.New("lost surface")

	d.Draw(render.NewPixmapTarget(320, 240), request(OptLive))

	if got := rec.Flushes(); got != 1 {
		t.Errorf("Flushes() = %d, want 1", got)
	}
}

func TestDrawAfterFailureOrRelease(t *testing.T) {
	d, dev, rec := newTestDisplay(t, 64)
	dev.Fail = func(op render.DeviceOp) error {
		if op == render.OpCreateTexture {
			return rfscope.ErrOutOfMemory
		}
		return nil
	}
	d.Draw(render.NewPixmapTarget(320, 240), request(OptAll))
	if got := len(rec.Events()); got != 0 {
		t.Errorf("events after failed init = %d, want 0", got)
	}

	d.Release()
	d.Draw(render.NewPixmapTarget(320, 240), request(OptAll))
	if got := len(rec.Events()); got != 0 {
		t.Errorf("events after Release = %d, want 0", got)
	}
}

func TestDrawSoftwareBackdrop(t *testing.T) {
	dev := render.NewSoftwareDevice()
	d, err := New(dev, render.NewSoftwareRenderer(dev), WithSpectrumLength(64))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer d.Release()

	target := render.NewPixmapTarget(200, 150)
	req := &RenderRequest{Width: 200, Height: 150, Options: OptLive, ZoomSpan: 1}
	req.Refresh()
	d.Draw(target, req)

	// Inside the first grid cell, away from lines and the trace.
	c := target.At(19, 15)
	if c.R != 0 || c.G != 0 || c.B == 0 || c.B > 40 {
		t.Errorf("backdrop pixel = %v, want dark blue", c)
	}
	// Outside the spectrum area nothing is drawn.
	if c := target.At(2, 2); c.A != 0 {
		t.Errorf("margin pixel = %v, want transparent", c)
	}
}

func TestDrawPowerLabelsUngrouped(t *testing.T) {
	d, _, rec := newTestDisplay(t, 64)
	if err := d.SetPowerRange(0, 200); err != nil {
		t.Fatal(err)
	}
	d.Draw(render.NewPixmapTarget(800, 600), request(OptLive|OptLabelPower))

	var got []string
	for _, c := range rec.Commands() {
		if tc, ok := c.(render.TextCmd); ok {
			got = append(got, tc.Text)
		}
	}
	if len(got) == 0 || got[0] != "-2000" {
		t.Errorf("power labels = %v, want first -2000", got)
	}
}
