package scope

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/rfscope"
	"github.com/gogpu/rfscope/axis"
	"github.com/gogpu/rfscope/cmap"
	"github.com/gogpu/rfscope/gpucore"
	"github.com/gogpu/rfscope/render"
	"github.com/gogpu/rfscope/text"
)

// Errors returned by Display.
var (
	ErrInvalidSpectrumLength = errors.New("scope: spectrum length must be a power of two >= 2")
	ErrNilDevice             = errors.New("scope: nil device")
	ErrNilRenderer           = errors.New("scope: nil renderer")
	ErrReleased              = errors.New("scope: display released")
	ErrUnknownShared         = errors.New("scope: unknown shared resource")
)

// SharedResource names a resource written by the compute stage.
type SharedResource uint8

// Shared resources.
const (
	SharedWaterfall SharedResource = iota + 1
	SharedHistogram
	SharedSpectrum
)

func (s SharedResource) String() string {
	switch s {
	case SharedWaterfall:
		return "waterfall"
	case SharedHistogram:
		return "histogram"
	case SharedSpectrum:
		return "spectrum"
	default:
		return fmt.Sprintf("SharedResource(%d)", uint8(s))
	}
}

// resourceState tracks deferred resource creation.
type resourceState uint8

const (
	statePending resourceState = iota
	stateReady
	stateFailed
	stateReleased
)

// tileSize is the edge of the zero tiles used to clear textures.
const tileSize = 16

// Display owns the GPU resources of one spectrum view and draws frames.
//
// A Display is used from a single render thread. SharedID may be called
// from another goroutine, also concurrently with Release; resource
// creation and release are serialized on the same lock.
type Display struct {
	dev      gpucore.Device
	renderer render.Renderer
	n        int

	font         *text.Font
	cmap         *cmap.Context
	lutWaterfall gpucore.TextureID
	lutHistogram gpucore.TextureID

	mu           sync.Mutex
	state        resourceState
	stateErr     error
	texWaterfall gpucore.TextureID
	texHistogram gpucore.TextureID
	vbo          gpucore.BufferID

	power      PowerTransform
	freqCenter float64
	freqSpan   float64

	scene *render.Scene
}

// New creates a Display drawing through r with resources on dev.
//
// Fonts and palettes are created immediately; textures and the vertex
// buffer are deferred. On failure everything acquired so far is released
// and the error is returned: rfscope.ErrResourceNotFound when the font
// asset is missing, or the palette, face or device error.
func New(dev gpucore.Device, r render.Renderer, opts ...Option) (*Display, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.length < 2 || o.length&(o.length-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSpectrumLength, o.length)
	}
	if dev == nil {
		return nil, ErrNilDevice
	}
	if r == nil {
		return nil, ErrNilRenderer
	}

	power, _ := NewPowerTransform(DefaultDBRef, DefaultDBPerDiv)
	d := &Display{
		dev:      dev,
		renderer: r,
		n:        o.length,
		power:    power,
		scene:    render.NewScene(),
	}
	if err := d.init(o); err != nil {
		d.Release()
		return nil, err
	}
	rfscope.Logger().Info("scope: display created", "bins", d.n, "font", o.fontName)
	return d, nil
}

func (d *Display) init(o options) error {
	font, err := text.NewFont(o.fontSize, text.FlagLCD)
	if err != nil {
		return fmt.Errorf("scope: font: %w", err)
	}
	d.font = font

	data, ok := o.loader.Get(o.fontName)
	if !ok {
		return fmt.Errorf("scope: font %q: %w", o.fontName, rfscope.ErrResourceNotFound)
	}
	if err := d.font.LoadFace(data); err != nil {
		return fmt.Errorf("scope: font %q: %w", o.fontName, err)
	}

	if d.cmap, err = cmap.New(d.dev); err != nil {
		return fmt.Errorf("scope: %w", err)
	}
	if d.lutWaterfall, err = d.cmap.GenerateLUT(o.wfPalette, o.lutSize); err != nil {
		return fmt.Errorf("scope: waterfall palette: %w", err)
	}
	if d.lutHistogram, err = d.cmap.GenerateLUT(o.hstPalette, o.lutSize); err != nil {
		return fmt.Errorf("scope: histogram palette: %w", err)
	}
	return nil
}

// Release destroys all resources in reverse dependency order: vertex
// buffer, histogram texture, waterfall texture, histogram LUT, waterfall
// LUT, color mapping context, font. It is safe on a nil, partially
// initialized or already released Display.
func (d *Display) Release() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == stateReleased {
		return
	}

	if d.vbo != gpucore.InvalidID {
		d.dev.DestroyBuffer(d.vbo)
	}
	if d.texHistogram != gpucore.InvalidID {
		d.dev.DestroyTexture(d.texHistogram)
	}
	if d.texWaterfall != gpucore.InvalidID {
		d.dev.DestroyTexture(d.texWaterfall)
	}
	if d.cmap != nil {
		d.cmap.DestroyLUT(d.lutHistogram)
		d.cmap.DestroyLUT(d.lutWaterfall)
		d.cmap.Release()
	}
	d.font.Free()

	d.vbo, d.texHistogram, d.texWaterfall = gpucore.InvalidID, gpucore.InvalidID, gpucore.InvalidID
	d.lutHistogram, d.lutWaterfall = gpucore.InvalidID, gpucore.InvalidID
	d.cmap = nil
	d.font = nil
	d.state = stateReleased
	d.stateErr = nil
	rfscope.Logger().Info("scope: display released")
}

// SpectrumLength returns N.
func (d *Display) SpectrumLength() int { return d.n }

// SharedID returns the device handle of a shared resource, creating the
// textures and vertex buffer first if needed. Handles are stable for the
// life of the Display.
func (d *Display) SharedID(which SharedResource) (uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureLocked(); err != nil {
		return 0, err
	}
	switch which {
	case SharedWaterfall:
		return uint64(d.texWaterfall), nil
	case SharedHistogram:
		return uint64(d.texHistogram), nil
	case SharedSpectrum:
		return uint64(d.vbo), nil
	}
	return 0, fmt.Errorf("%w: %v", ErrUnknownShared, which)
}

// ensureResources runs deferred creation exactly once. A failure is
// remembered and returned on every later call; a released Display returns
// ErrReleased.
//
// A vertex buffer that cannot be mapped panics with
// *rfscope.EnvironmentFault.
func (d *Display) ensureResources() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ensureLocked()
}

// ensureLocked is ensureResources with d.mu held.
func (d *Display) ensureLocked() error {
	switch d.state {
	case stateReady:
		return nil
	case stateFailed:
		return d.stateErr
	case stateReleased:
		return ErrReleased
	}

	if err := d.createResources(); err != nil {
		d.destroyResources()
		d.state = stateFailed
		d.stateErr = err
		rfscope.Logger().Warn("scope: deferred resource creation failed", "err", err)

		var fault *rfscope.EnvironmentFault
		if errors.As(err, &fault) {
			panic(fault)
		}
		return err
	}
	d.state = stateReady
	return nil
}

func (d *Display) createResources() error {
	var err error
	d.texWaterfall, err = d.createClearedTexture(gpucore.TextureDesc{
		Label:     "waterfall",
		Width:     d.n,
		Height:    WaterfallRows,
		Format:    gpucore.TextureFormatR32Float,
		MinFilter: gpucore.FilterLinear,
		MagFilter: gpucore.FilterLinear,
		WrapU:     gpucore.AddressRepeat,
		WrapV:     gpucore.AddressRepeat,
	})
	if err != nil {
		return err
	}

	d.texHistogram, err = d.createClearedTexture(gpucore.TextureDesc{
		Label:     "histogram",
		Width:     d.n,
		Height:    HistogramRows,
		Format:    gpucore.TextureFormatR32Float,
		MinFilter: gpucore.FilterLinear,
		MagFilter: gpucore.FilterLinear,
		WrapU:     gpucore.AddressRepeat,
		WrapV:     gpucore.AddressClampToEdge,
	})
	if err != nil {
		return err
	}

	size := uint64(2 * d.n * 2 * 4) // 2N points of two float32
	d.vbo, err = d.dev.CreateBuffer(gpucore.BufferDesc{
		Label: "spectrum",
		Size:  size,
		Usage: gpucore.BufferUsageVertex | gpucore.BufferUsageCopyDst | gpucore.BufferUsageMapWrite | gpucore.BufferUsageDynamic,
	})
	if err != nil {
		d.vbo = gpucore.InvalidID
		return fmt.Errorf("scope: create spectrum buffer: %w", err)
	}
	if err := d.clearBuffer(d.vbo); err != nil {
		return err
	}

	rfscope.Logger().Debug("scope: shared resources created",
		"bins", d.n,
		"waterfall", uint64(d.texWaterfall),
		"histogram", uint64(d.texHistogram),
		"spectrum", uint64(d.vbo),
		"spectrum_bytes", size)
	return nil
}

func (d *Display) createClearedTexture(desc gpucore.TextureDesc) (gpucore.TextureID, error) {
	id, err := d.dev.CreateTexture(desc)
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("scope: create %s texture: %w", desc.Label, err)
	}
	zero := make([]byte, tileSize*tileSize*desc.Format.BytesPerPixel())
	for _, r := range gpucore.TileRegions(desc.Width, desc.Height, tileSize) {
		if err := d.dev.WriteTexture(id, r, zero[:r.Width*r.Height*desc.Format.BytesPerPixel()]); err != nil {
			d.dev.DestroyTexture(id)
			return gpucore.InvalidID, fmt.Errorf("scope: clear %s texture: %w", desc.Label, err)
		}
	}
	return id, nil
}

func (d *Display) clearBuffer(id gpucore.BufferID) error {
	mem, err := d.dev.MapBuffer(id, gpucore.MapWrite)
	if err != nil {
		return &rfscope.EnvironmentFault{Op: "map spectrum buffer", Err: err}
	}
	clear(mem)
	if err := d.dev.UnmapBuffer(id); err != nil {
		return &rfscope.EnvironmentFault{Op: "unmap spectrum buffer", Err: err}
	}
	return nil
}

func (d *Display) destroyResources() {
	if d.vbo != gpucore.InvalidID {
		d.dev.DestroyBuffer(d.vbo)
		d.vbo = gpucore.InvalidID
	}
	if d.texHistogram != gpucore.InvalidID {
		d.dev.DestroyTexture(d.texHistogram)
		d.texHistogram = gpucore.InvalidID
	}
	if d.texWaterfall != gpucore.InvalidID {
		d.dev.DestroyTexture(d.texWaterfall)
		d.texWaterfall = gpucore.InvalidID
	}
}

// SetPowerRange sets the reference level and dB per grid division.
func (d *Display) SetPowerRange(dbRef, dbPerDiv int) error {
	p, err := NewPowerTransform(dbRef, dbPerDiv)
	if err != nil {
		return err
	}
	d.power = p
	return nil
}

// Power returns the active power transform.
func (d *Display) Power() PowerTransform { return d.power }

// SetFrequencyRange sets the center frequency and span, in Hz, used for
// frequency labels. A zero span prints division offsets instead.
func (d *Display) SetFrequencyRange(center, span float64) {
	d.freqCenter = center
	d.freqSpan = span
}

// FrequencyAxis returns the label formatter for the current range.
func (d *Display) FrequencyAxis() axis.Axis {
	return axis.Build(d.freqCenter, d.freqSpan)
}
