// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/rfscope"
	"github.com/gogpu/rfscope/gpucore"
)

// DeviceOp names a SoftwareDevice operation for fault injection.
type DeviceOp string

// Operations that can be failed through SoftwareDevice.Fail.
const (
	OpCreateTexture DeviceOp = "CreateTexture"
	OpCreateBuffer  DeviceOp = "CreateBuffer"
	OpMapBuffer     DeviceOp = "MapBuffer"
)

type softTexture struct {
	desc gpucore.TextureDesc
	data []byte
}

type softBuffer struct {
	desc   gpucore.BufferDesc
	data   []byte
	mapped bool
}

// SoftwareDevice is a gpucore.Device backed by host memory.
//
// Texture and buffer contents are kept as raw bytes in the same layout a
// GPU would use (tightly packed rows, little-endian floats), so a compute
// stage can write them through the Device interface and the
// SoftwareRenderer can sample them.
type SoftwareDevice struct {
	mu       sync.Mutex
	nextID   uint64
	textures map[gpucore.TextureID]*softTexture
	buffers  map[gpucore.BufferID]*softBuffer

	// Fail, when set, is consulted before allocating or mapping. A non-nil
	// return aborts the operation with that error.
	Fail func(op DeviceOp) error
}

// NewSoftwareDevice creates an empty device.
func NewSoftwareDevice() *SoftwareDevice {
	return &SoftwareDevice{
		textures: make(map[gpucore.TextureID]*softTexture),
		buffers:  make(map[gpucore.BufferID]*softBuffer),
	}
}

func (d *SoftwareDevice) allocID() uint64 {
	d.nextID++
	return d.nextID
}

func (d *SoftwareDevice) fail(op DeviceOp) error {
	if d.Fail == nil {
		return nil
	}
	return d.Fail(op)
}

// CreateTexture implements gpucore.Device. Contents start zeroed.
func (d *SoftwareDevice) CreateTexture(desc gpucore.TextureDesc) (gpucore.TextureID, error) {
	if desc.Width <= 0 || desc.Height <= 0 || desc.Format.BytesPerPixel() == 0 {
		return gpucore.InvalidID, fmt.Errorf("%w: texture %q %dx%d %s",
			gpucore.ErrInvalidDescriptor, desc.Label, desc.Width, desc.Height, desc.Format)
	}
	if err := d.fail(OpCreateTexture); err != nil {
		return gpucore.InvalidID, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	id := gpucore.TextureID(d.allocID())
	d.textures[id] = &softTexture{desc: desc, data: make([]byte, desc.Size())}
	return id, nil
}

// WriteTexture implements gpucore.Device.
func (d *SoftwareDevice) WriteTexture(id gpucore.TextureID, r gpucore.Region, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.textures[id]
	if !ok {
		return fmt.Errorf("%w: texture %d", gpucore.ErrUnknownResource, id)
	}
	bpp := t.desc.Format.BytesPerPixel()
	if r.X < 0 || r.Y < 0 || r.Width < 0 || r.Height < 0 ||
		r.X+r.Width > t.desc.Width || r.Y+r.Height > t.desc.Height ||
		len(data) < r.Width*r.Height*bpp {
		return fmt.Errorf("%w: texture %d region %+v", gpucore.ErrRegionOutOfBounds, id, r)
	}
	rowBytes := r.Width * bpp
	for y := 0; y < r.Height; y++ {
		dst := ((r.Y+y)*t.desc.Width + r.X) * bpp
		copy(t.data[dst:dst+rowBytes], data[y*rowBytes:(y+1)*rowBytes])
	}
	return nil
}

// DestroyTexture implements gpucore.Device.
func (d *SoftwareDevice) DestroyTexture(id gpucore.TextureID) {
	d.mu.Lock()
	delete(d.textures, id)
	d.mu.Unlock()
}

// CreateBuffer implements gpucore.Device. Contents start zeroed.
func (d *SoftwareDevice) CreateBuffer(desc gpucore.BufferDesc) (gpucore.BufferID, error) {
	if desc.Size == 0 {
		return gpucore.InvalidID, fmt.Errorf("%w: buffer %q has zero size", gpucore.ErrInvalidDescriptor, desc.Label)
	}
	if err := d.fail(OpCreateBuffer); err != nil {
		return gpucore.InvalidID, err
	}
	if desc.Size > math.MaxInt32 {
		return gpucore.InvalidID, fmt.Errorf("%w: buffer %q of %d bytes", rfscope.ErrOutOfMemory, desc.Label, desc.Size)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	id := gpucore.BufferID(d.allocID())
	d.buffers[id] = &softBuffer{desc: desc, data: make([]byte, desc.Size)}
	return id, nil
}

// WriteBuffer implements gpucore.Device.
func (d *SoftwareDevice) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.buffers[id]
	if !ok {
		return fmt.Errorf("%w: buffer %d", gpucore.ErrUnknownResource, id)
	}
	if offset+uint64(len(data)) > uint64(len(b.data)) {
		return fmt.Errorf("%w: buffer %d write of %d at %d", gpucore.ErrRegionOutOfBounds, id, len(data), offset)
	}
	copy(b.data[offset:], data)
	return nil
}

// MapBuffer implements gpucore.Device. The returned slice aliases the
// buffer storage.
func (d *SoftwareDevice) MapBuffer(id gpucore.BufferID, mode gpucore.MapMode) ([]byte, error) {
	if err := d.fail(OpMapBuffer); err != nil {
		return nil, err
	}
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
	return b.data, nil
}

// UnmapBuffer implements gpucore.Device.
func (d *SoftwareDevice) UnmapBuffer(id gpucore.BufferID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.buffers[id]
	if !ok {
		return fmt.Errorf("%w: buffer %d", gpucore.ErrUnknownResource, id)
	}
	b.mapped = false
	return nil
}

// DestroyBuffer implements gpucore.Device.
func (d *SoftwareDevice) DestroyBuffer(id gpucore.BufferID) {
	d.mu.Lock()
	delete(d.buffers, id)
	d.mu.Unlock()
}

// WaitIdle implements gpucore.Device. Host memory is always idle.
func (d *SoftwareDevice) WaitIdle() error { return nil }

// LiveResources returns the number of live textures and buffers.
func (d *SoftwareDevice) LiveResources() (textures, buffers int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.textures), len(d.buffers)
}

// TextureDesc returns the descriptor of a live texture.
func (d *SoftwareDevice) TextureDesc(id gpucore.TextureID) (gpucore.TextureDesc, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.textures[id]
	if !ok {
		return gpucore.TextureDesc{}, false
	}
	return t.desc, true
}

// BufferDesc returns the descriptor of a live buffer.
func (d *SoftwareDevice) BufferDesc(id gpucore.BufferID) (gpucore.BufferDesc, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.buffers[id]
	if !ok {
		return gpucore.BufferDesc{}, false
	}
	return b.desc, true
}

// TextureBytes returns a copy of a texture's contents.
func (d *SoftwareDevice) TextureBytes(id gpucore.TextureID) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.textures[id]
	if !ok {
		return nil
	}
	return append([]byte(nil), t.data...)
}

// BufferBytes returns a copy of a buffer's contents.
func (d *SoftwareDevice) BufferBytes(id gpucore.BufferID) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.buffers[id]
	if !ok {
		return nil
	}
	return append([]byte(nil), b.data...)
}

// texel returns the RGBA value of the texel at (x, y), which must be in
// bounds. Single-channel formats replicate into R with alpha 1.
func (t *softTexture) texel(x, y int) [4]float32 {
	bpp := t.desc.Format.BytesPerPixel()
	off := (y*t.desc.Width + x) * bpp
	switch t.desc.Format {
	case gpucore.TextureFormatR32Float:
		v := math.Float32frombits(binary.LittleEndian.Uint32(t.data[off:]))
		return [4]float32{v, 0, 0, 1}
	case gpucore.TextureFormatRGBA8Unorm:
		return [4]float32{
			float32(t.data[off+0]) / 255,
			float32(t.data[off+1]) / 255,
			float32(t.data[off+2]) / 255,
			float32(t.data[off+3]) / 255,
		}
	}
	return [4]float32{}
}

// point returns the i-th 2-D float32 point of a buffer.
func (b *softBuffer) point(i int) (rfscope.Point, bool) {
	off := i * 8
	if i < 0 || off+8 > len(b.data) {
		return rfscope.Point{}, false
	}
	x := math.Float32frombits(binary.LittleEndian.Uint32(b.data[off:]))
	y := math.Float32frombits(binary.LittleEndian.Uint32(b.data[off+4:]))
	return rfscope.Pt(float64(x), float64(y)), true
}

var _ gpucore.Device = (*SoftwareDevice)(nil)
