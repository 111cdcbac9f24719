// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"testing"

	"github.com/gogpu/rfscope/gpucore"
)

func TestSoftwareDeviceTextures(t *testing.T) {
	d := NewSoftwareDevice()
	id, err := d.CreateTexture(gpucore.TextureDesc{Width: 4, Height: 2, Format: gpucore.TextureFormatR32Float})
	if err != nil {
		t.Fatalf("CreateTexture() = %v", err)
	}
	if id == gpucore.InvalidID {
		t.Fatal("CreateTexture() returned InvalidID")
	}
	if err := d.WriteTexture(id, gpucore.Region{X: 2, Y: 1, Width: 2, Height: 1}, []byte{1, 2, 3, 4, 5, 6, 7, 8}); err != nil {
		t.Fatalf("WriteTexture() = %v", err)
	}
	data := d.TextureBytes(id)
	if len(data) != 32 {
		t.Fatalf("TextureBytes() len = %d, want 32", len(data))
	}
	if data[24] != 1 || data[31] != 8 {
		t.Errorf("texel bytes = %v, want region at offset 24", data[24:])
	}

	err = d.WriteTexture(id, gpucore.Region{X: 3, Y: 0, Width: 2, Height: 1}, make([]byte, 8))
	if !errors.Is(err, gpucore.ErrRegionOutOfBounds) {
		t.Errorf("out-of-bounds WriteTexture() = %v, want ErrRegionOutOfBounds", err)
	}

	d.DestroyTexture(id)
	d.DestroyTexture(id)
	if tex, _ := d.LiveResources(); tex != 0 {
		t.Errorf("live textures = %d, want 0", tex)
	}
}

func TestSoftwareDeviceInvalidDescriptor(t *testing.T) {
	d := NewSoftwareDevice()
	if _, err := d.CreateTexture(gpucore.TextureDesc{Width: 0, Height: 1, Format: gpucore.TextureFormatR32Float}); !errors.Is(err, gpucore.ErrInvalidDescriptor) {
		t.Errorf("CreateTexture(zero width) = %v, want ErrInvalidDescriptor", err)
	}
	if _, err := d.CreateBuffer(gpucore.BufferDesc{}); !errors.Is(err, gpucore.ErrInvalidDescriptor) {
		t.Errorf("CreateBuffer(zero size) = %v, want ErrInvalidDescriptor", err)
	}
}

func TestSoftwareDeviceMapping(t *testing.T) {
	d := NewSoftwareDevice()
	id, err := d.CreateBuffer(gpucore.BufferDesc{Size: 16, Usage: gpucore.BufferUsageVertex})
	if err != nil {
		t.Fatalf("CreateBuffer() = %v", err)
	}
	m, err := d.MapBuffer(id, gpucore.MapWrite)
	if err != nil {
		t.Fatalf("MapBuffer() = %v", err)
	}
	m[0] = 0xAB
	if _, err := d.MapBuffer(id, gpucore.MapWrite); !errors.Is(err, gpucore.ErrAlreadyMapped) {
		t.Errorf("second MapBuffer() = %v, want ErrAlreadyMapped", err)
	}
	if err := d.UnmapBuffer(id); err != nil {
		t.Fatalf("UnmapBuffer() = %v", err)
	}
	if got := d.BufferBytes(id)[0]; got != 0xAB {
		t.Errorf("buffer[0] = %#x, want 0xab", got)
	}
}

func TestSoftwareDeviceFail(t *testing.T) {
	injected := errors.New("injected")
	d := NewSoftwareDevice()
	d.Fail = func(op DeviceOp) error {
		if op == OpCreateBuffer {
			return injected
		}
		return nil
	}
	if _, err := d.CreateBuffer(gpucore.BufferDesc{Size: 8}); !errors.Is(err, injected) {
		t.Errorf("CreateBuffer() = %v, want injected", err)
	}
	if _, err := d.CreateTexture(gpucore.TextureDesc{Width: 1, Height: 1, Format: gpucore.TextureFormatRGBA8Unorm}); err != nil {
		t.Errorf("CreateTexture() = %v, want nil", err)
	}
}
