package native

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rfscope"
	"github.com/gogpu/rfscope/gpucore"
	"github.com/gogpu/rfscope/render"
)

// waitTimeout bounds every fence wait.
const waitTimeout = 5 * time.Second

type textureEntry struct {
	desc    gpucore.TextureDesc
	tex     hal.Texture
	view    hal.TextureView
	sampler hal.Sampler
}

type bufferEntry struct {
	desc   gpucore.BufferDesc
	buf    hal.Buffer
	shadow []byte
	mapped bool
}

// Device implements gpucore.Device on a gogpu/wgpu HAL device.
//
// Textures are created with a default view and a sampler matching their
// descriptor, so a renderer can bind them directly. Buffers keep a host
// shadow: MapBuffer hands out the shadow and UnmapBuffer uploads it.
//
// Thread Safety: Device is safe for concurrent use. Resource maps are
// protected by a mutex.
type Device struct {
	mu     sync.RWMutex
	device hal.Device
	queue  hal.Queue

	nextID atomic.Uint64

	textures map[gpucore.TextureID]*textureEntry
	buffers  map[gpucore.BufferID]*bufferEntry
}

var _ gpucore.Device = (*Device)(nil)

// NewDevice wraps a HAL device and queue.
func NewDevice(device hal.Device, queue hal.Queue) (*Device, error) {
	if device == nil || queue == nil {
		return nil, ErrNilHALDevice
	}
	d := &Device{
		device:   device,
		queue:    queue,
		textures: make(map[gpucore.TextureID]*textureEntry),
		buffers:  make(map[gpucore.BufferID]*bufferEntry),
	}
	// Start ID generation at 1 (0 is invalid)
	d.nextID.Store(1)
	return d, nil
}

// NewDeviceFromProvider wraps the HAL device shared by the host, such as a
// gogpu window. Besides render.DeviceHandle, the handle must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
func NewDeviceFromProvider(handle render.DeviceHandle) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	if handle == nil {
		return nil, fmt.Errorf("%w: nil device handle", ErrNoHALProvider)
	}
	hp, ok := handle.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALProvider)
	}
	rfscope.Logger().Info("native: using shared GPU device")
	return NewDevice(device, queue)
}

// HAL returns the wrapped device and queue.
func (d *Device) HAL() (hal.Device, hal.Queue) {
	return d.device, d.queue
}

func (d *Device) newID() uint64 {
	return d.nextID.Add(1) - 1
}

// CreateTexture implements gpucore.Device.
func (d *Device) CreateTexture(desc gpucore.TextureDesc) (gpucore.TextureID, error) {
	if desc.Width <= 0 || desc.Height <= 0 || desc.Format.BytesPerPixel() == 0 {
		return gpucore.InvalidID, fmt.Errorf("%w: texture %q %dx%d %s",
			gpucore.ErrInvalidDescriptor, desc.Label, desc.Width, desc.Height, desc.Format)
	}

	format := convertTextureFormat(desc.Format)
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              uint32(desc.Width),  //nolint:gosec // validated positive
			Height:             uint32(desc.Height), //nolint:gosec // validated positive
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create texture %q: %w", desc.Label, err)
	}

	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         desc.Label + "_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return gpucore.InvalidID, fmt.Errorf("native: create texture view %q: %w", desc.Label, err)
	}

	entry := &textureEntry{desc: desc, tex: tex, view: view}
	if filterable(desc.Format) {
		sampler, err := d.device.CreateSampler(&hal.SamplerDescriptor{
			Label:        desc.Label + "_sampler",
			AddressModeU: convertAddress(desc.WrapU),
			AddressModeV: convertAddress(desc.WrapV),
			AddressModeW: gputypes.AddressModeClampToEdge,
			MagFilter:    convertFilter(desc.MagFilter),
			MinFilter:    convertFilter(desc.MinFilter),
			MipmapFilter: gputypes.FilterModeNearest,
		})
		if err != nil {
			d.device.DestroyTextureView(view)
			d.device.DestroyTexture(tex)
			return gpucore.InvalidID, fmt.Errorf("native: create sampler %q: %w", desc.Label, err)
		}
		entry.sampler = sampler
	}

	id := gpucore.TextureID(d.newID())

	d.mu.Lock()
	d.textures[id] = entry
	d.mu.Unlock()

	return id, nil
}

// WriteTexture implements gpucore.Device.
func (d *Device) WriteTexture(id gpucore.TextureID, r gpucore.Region, data []byte) error {
	d.mu.RLock()
	t, ok := d.textures[id]
	d.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: texture %d", gpucore.ErrUnknownResource, id)
	}

	bpp := t.desc.Format.BytesPerPixel()
	if r.X < 0 || r.Y < 0 || r.Width <= 0 || r.Height <= 0 ||
		r.X+r.Width > t.desc.Width || r.Y+r.Height > t.desc.Height {
		return fmt.Errorf("%w: %+v in %dx%d", gpucore.ErrRegionOutOfBounds, r, t.desc.Width, t.desc.Height)
	}
	if len(data) < r.Width*r.Height*bpp {
		return fmt.Errorf("%w: %d bytes for %dx%d region", gpucore.ErrRegionOutOfBounds, len(data), r.Width, r.Height)
	}

	d.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: uint32(r.X), Y: uint32(r.Y)}, //nolint:gosec // validated above
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(r.Width * bpp), //nolint:gosec // validated above
			RowsPerImage: uint32(r.Height),      //nolint:gosec // validated above
		},
		&hal.Extent3D{Width: uint32(r.Width), Height: uint32(r.Height), DepthOrArrayLayers: 1}, //nolint:gosec // validated above
	)
	return nil
}

// DestroyTexture implements gpucore.Device.
func (d *Device) DestroyTexture(id gpucore.TextureID) {
	d.mu.Lock()
	t, ok := d.textures[id]
	if ok {
		delete(d.textures, id)
	}
	d.mu.Unlock()

	if !ok {
		return
	}
	if t.sampler != nil {
		d.device.DestroySampler(t.sampler)
	}
	d.device.DestroyTextureView(t.view)
	d.device.DestroyTexture(t.tex)
}

// CreateBuffer implements gpucore.Device.
func (d *Device) CreateBuffer(desc gpucore.BufferDesc) (gpucore.BufferID, error) {
	if desc.Size == 0 {
		return gpucore.InvalidID, fmt.Errorf("%w: buffer %q has zero size", gpucore.ErrInvalidDescriptor, desc.Label)
	}

	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: convertBufferUsage(desc.Usage),
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create buffer %q: %w", desc.Label, err)
	}

	id := gpucore.BufferID(d.newID())

	d.mu.Lock()
	d.buffers[id] = &bufferEntry{desc: desc, buf: buf, shadow: make([]byte, desc.Size)}
	d.mu.Unlock()

	return id, nil
}

// WriteBuffer implements gpucore.Device.
func (d *Device) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) error {
	d.mu.Lock()
	b, ok := d.buffers[id]
	if !ok {
		d.mu.Unlock()
		return fmt.Errorf("%w: buffer %d", gpucore.ErrUnknownResource, id)
	}
	if offset+uint64(len(data)) > b.desc.Size {
		d.mu.Unlock()
		return fmt.Errorf("%w: %d bytes at %d in buffer of %d", gpucore.ErrRegionOutOfBounds, len(data), offset, b.desc.Size)
	}
	copy(b.shadow[offset:], data)
	d.mu.Unlock()

	if len(data) > 0 {
		d.queue.WriteBuffer(b.buf, offset, data)
	}
	return nil
}

// MapBuffer implements gpucore.Device. The returned slice is the host
// shadow of the buffer; writes become visible to the GPU on UnmapBuffer.
func (d *Device) MapBuffer(id gpucore.BufferID, _ gpucore.MapMode) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.buffers[id]
	if !ok {
		return nil, fmt.Errorf("%w: buffer %d", gpucore.ErrUnknownResource, id)
	}
	if b.mapped {
		return nil, fmt.Errorf("%w: buffer %d", gpucore.ErrAlreadyMapped, id)
	}
	b.mapped = true
	return b.shadow, nil
}

// UnmapBuffer implements gpucore.Device.
func (d *Device) UnmapBuffer(id gpucore.BufferID) error {
	d.mu.Lock()
	b, ok := d.buffers[id]
	if !ok {
		d.mu.Unlock()
		return fmt.Errorf("%w: buffer %d", gpucore.ErrUnknownResource, id)
	}
	wasMapped := b.mapped
	b.mapped = false
	d.mu.Unlock()

	if wasMapped {
		d.queue.WriteBuffer(b.buf, 0, b.shadow)
	}
	return nil
}

// DestroyBuffer implements gpucore.Device.
func (d *Device) DestroyBuffer(id gpucore.BufferID) {
	d.mu.Lock()
	b, ok := d.buffers[id]
	if ok {
		delete(d.buffers, id)
	}
	d.mu.Unlock()

	if ok {
		d.device.DestroyBuffer(b.buf)
	}
}

// WaitIdle implements gpucore.Device. It submits an empty batch with a
// fence and waits for it.
func (d *Device) WaitIdle() error {
	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("native: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit(nil, fence, 1); err != nil {
		return fmt.Errorf("native: submit: %w", err)
	}
	ok, err := d.device.Wait(fence, 1, waitTimeout)
	if err != nil {
		return fmt.Errorf("native: wait: %w", err)
	}
	if !ok {
		return ErrGPUTimeout
	}
	return nil
}

// LiveResources returns the number of live textures and buffers.
func (d *Device) LiveResources() (textures, buffers int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.textures), len(d.buffers)
}

func (d *Device) texture(id gpucore.TextureID) (*textureEntry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.textures[id]
	return t, ok
}

func (d *Device) buffer(id gpucore.BufferID) (*bufferEntry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	b, ok := d.buffers[id]
	return b, ok
}
