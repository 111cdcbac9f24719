package synth

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/gogpu/rfscope"
	"github.com/gogpu/rfscope/gpucore"
	"github.com/gogpu/rfscope/scope"
)

// ErrInvalidLength is returned for a spectrum length that is not a power
// of two of at least 2.
var ErrInvalidLength = errors.New("synth: spectrum length must be a power of two >= 2")

// Tone is one carrier in the synthetic signal.
type Tone struct {
	// Freq is the normalized frequency in cycles per sample, in
	// [-0.5, 0.5).
	Freq float64 `yaml:"freq"`

	// Power is the carrier level in dB.
	Power float64 `yaml:"power"`

	// Drift is added to Freq after every frame.
	Drift float64 `yaml:"drift"`
}

// Config describes the generated signal and the trace persistence.
type Config struct {
	Tones []Tone `yaml:"tones"`

	// Noise is the per-bin noise floor in dB.
	Noise float64 `yaml:"noise"`

	// Seed makes the noise reproducible.
	Seed uint64 `yaml:"seed"`

	// HistogramDecay multiplies every histogram cell once per frame.
	HistogramDecay float64 `yaml:"histogram_decay"`

	// MaxHoldDecay is subtracted from the max-hold trace once per frame,
	// in dB.
	MaxHoldDecay float64 `yaml:"max_hold_decay"`
}

// DefaultConfig returns two carriers over a -90 dB noise floor.
func DefaultConfig() Config {
	return Config{
		Tones: []Tone{
			{Freq: -0.2, Power: -30, Drift: 0.0005},
			{Freq: 0.125, Power: -45},
		},
		Noise:          -90,
		Seed:           1,
		HistogramDecay: 0.9,
		MaxHoldDecay:   0.5,
	}
}

// Targets are the shared resources a Generator writes.
type Targets struct {
	Waterfall gpucore.TextureID
	Histogram gpucore.TextureID
	Spectrum  gpucore.BufferID
}

// TargetsFrom resolves the shared resources of d, creating them if needed.
func TargetsFrom(d *scope.Display) (Targets, error) {
	var t Targets
	for _, s := range []struct {
		which scope.SharedResource
		id    *uint64
	}{
		{scope.SharedWaterfall, (*uint64)(&t.Waterfall)},
		{scope.SharedHistogram, (*uint64)(&t.Histogram)},
		{scope.SharedSpectrum, (*uint64)(&t.Spectrum)},
	} {
		id, err := d.SharedID(s.which)
		if err != nil {
			return Targets{}, fmt.Errorf("synth: %s: %w", s.which, err)
		}
		*s.id = id
	}
	return t, nil
}

// Generator synthesizes spectrum frames.
//
// A Generator is not safe for concurrent use.
type Generator struct {
	n     int
	cfg   Config
	tones []Tone
	rng   *rand.Rand

	win      []float64
	noiseStd float64
	gain     float64 // 1 / sum(window)

	samples []complex128
	power   []float64 // dB per bin, FFT order
	maxHold []float64
	histo   []float32 // HistogramRows x n, row 0 at the bottom

	rows int // waterfall rows written
	time int // sample clock
}

// New creates a Generator for n bins.
func New(n int, cfg Config) (*Generator, error) {
	if n < 2 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	win := window.Hann(n)
	var sum, sumSq float64
	for _, w := range win {
		sum += w
		sumSq += w * w
	}
	g := &Generator{
		n:       n,
		cfg:     cfg,
		tones:   append([]Tone(nil), cfg.Tones...),
		rng:     rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		win:     win,
		gain:    1 / sum,
		samples: make([]complex128, n),
		power:   make([]float64, n),
		maxHold: make([]float64, n),
		histo:   make([]float32, scope.HistogramRows*n),
	}
	// Normalized so the windowed noise power in one bin equals cfg.Noise.
	g.noiseStd = math.Pow(10, cfg.Noise/20) * sum / math.Sqrt(sumSq)
	for i := range g.maxHold {
		g.maxHold[i] = math.Inf(-1)
	}
	return g, nil
}

// Len returns the number of bins.
func (g *Generator) Len() int { return g.n }

// Rows returns the number of waterfall rows written so far. It is the
// value a RenderRequest takes as WaterfallPos.
func (g *Generator) Rows() int { return g.rows }

// Power returns the last computed spectrum in dB, bins in FFT order.
// The slice is reused by the next frame.
func (g *Generator) Power() []float64 { return g.power }

// MaxHold returns the max-hold trace in dB, bins in FFT order.
func (g *Generator) MaxHold() []float64 { return g.maxHold }

// Histogram returns the histogram cells, HistogramRows rows of Len
// values, bottom row first.
func (g *Generator) Histogram() []float32 { return g.histo }

// Compute synthesizes one block and updates the spectrum, max-hold and
// histogram state. The power transform places spectrum levels in the
// histogram rows.
func (g *Generator) Compute(p scope.PowerTransform) {
	for i := range g.samples {
		t := float64(g.time + i)
		var s complex128
		for _, tone := range g.tones {
			amp := math.Pow(10, tone.Power/20)
			s += cmplx.Rect(amp, 2*math.Pi*tone.Freq*t)
		}
		s += complex(g.rng.NormFloat64(), g.rng.NormFloat64()) * complex(g.noiseStd/math.Sqrt2, 0)
		g.samples[i] = s * complex(g.win[i], 0)
	}
	g.time += g.n

	spectrum := fft.FFT(g.samples)
	for k, x := range spectrum {
		mag := cmplx.Abs(x) * g.gain
		g.power[k] = 20 * math.Log10(mag+1e-12)
	}

	for k, db := range g.power {
		g.maxHold[k] = math.Max(g.maxHold[k]-g.cfg.MaxHoldDecay, db)
	}

	decay := float32(g.cfg.HistogramDecay)
	for i := range g.histo {
		g.histo[i] *= decay
	}
	for k, db := range g.power {
		row := int(p.Apply(db) * scope.HistogramRows)
		if row < 0 || row >= scope.HistogramRows {
			continue
		}
		c := &g.histo[row*g.n+k]
		*c = min(*c+(1-decay), 1)
	}

	for i := range g.tones {
		g.tones[i].Freq = wrapFreq(g.tones[i].Freq + g.tones[i].Drift)
	}
}

// Upload writes the current state into the shared resources on dev. The
// waterfall row goes to Rows() mod WaterfallRows, after which Rows is
// advanced.
func (g *Generator) Upload(dev gpucore.Device, t Targets) error {
	row := g.rows % scope.WaterfallRows
	if err := dev.WriteTexture(t.Waterfall, gpucore.Region{Y: row, Width: g.n, Height: 1}, floatBytes(g.power)); err != nil {
		return fmt.Errorf("synth: waterfall row %d: %w", row, err)
	}
	if err := dev.WriteTexture(t.Histogram, gpucore.Region{Width: g.n, Height: scope.HistogramRows}, float32Bytes(g.histo)); err != nil {
		return fmt.Errorf("synth: histogram: %w", err)
	}

	buf, err := dev.MapBuffer(t.Spectrum, gpucore.MapWrite)
	if err != nil {
		return fmt.Errorf("synth: map spectrum: %w", err)
	}
	if len(buf) < 2*g.n*8 {
		_ = dev.UnmapBuffer(t.Spectrum)
		return fmt.Errorf("synth: spectrum buffer holds %d bytes, want %d", len(buf), 2*g.n*8)
	}
	g.encodeTraces(buf)
	if err := dev.UnmapBuffer(t.Spectrum); err != nil {
		return fmt.Errorf("synth: unmap spectrum: %w", err)
	}

	g.rows++
	rfscope.Logger().Debug("synth: frame uploaded", "row", row, "bins", g.n)
	return nil
}

// Step computes one frame and uploads it.
func (g *Generator) Step(dev gpucore.Device, t Targets, p scope.PowerTransform) error {
	g.Compute(p)
	return g.Upload(dev, t)
}

// encodeTraces writes the live trace at points [0,n) and the max-hold
// trace at points [n,2n). Point d holds bin d^(n/2), so the points run
// from the lowest to the highest frequency.
func (g *Generator) encodeTraces(buf []byte) {
	half := g.n >> 1
	for k := 0; k < g.n; k++ {
		d := k ^ half
		x := scope.EncodeBinX(g.n, k)
		putPoint(buf, d, x, float32(g.power[k]))
		putPoint(buf, g.n+d, x, float32(g.maxHold[k]))
	}
}

func putPoint(buf []byte, i int, x, y float32) {
	binary.LittleEndian.PutUint32(buf[i*8:], math.Float32bits(x))
	binary.LittleEndian.PutUint32(buf[i*8+4:], math.Float32bits(y))
}

func floatBytes(v []float64) []byte {
	out := make([]byte, 0, 4*len(v))
	for _, f := range v {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(float32(f)))
	}
	return out
}

func float32Bytes(v []float32) []byte {
	out := make([]byte, 0, 4*len(v))
	for _, f := range v {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(f))
	}
	return out
}

// wrapFreq folds f into [-0.5, 0.5).
func wrapFreq(f float64) float64 {
	return f - math.Floor(f+0.5)
}

// Bin returns the FFT bin nearest to normalized frequency f.
func Bin(n int, f float64) int {
	k := int(math.Round(wrapFreq(f) * float64(n)))
	return (k%n + n) % n
}
