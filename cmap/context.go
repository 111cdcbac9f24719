// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cmap

import (
	"errors"
	"fmt"

	"github.com/gogpu/rfscope"
	"github.com/gogpu/rfscope/gpucore"
	"github.com/gogpu/rfscope/render"
)

// ErrReleased is returned when a released Context is used.
var ErrReleased = errors.New("cmap: context released")

// Context owns the palette lookup tables created on a device.
type Context struct {
	dev      gpucore.Device
	luts     map[gpucore.TextureID]Palette
	released bool
}

// New creates a color mapping context on dev.
func New(dev gpucore.Device) (*Context, error) {
	if dev == nil {
		return nil, errors.New("cmap: nil device")
	}
	return &Context{dev: dev, luts: make(map[gpucore.TextureID]Palette)}, nil
}

// GenerateLUT builds an n-entry palette and uploads it as an n x 1 RGBA
// texture with linear filtering and clamped addressing.
func (c *Context) GenerateLUT(p Palette, n int) (gpucore.TextureID, error) {
	if c.released {
		return gpucore.InvalidID, ErrReleased
	}
	colors, err := Generate(p, n)
	if err != nil {
		return gpucore.InvalidID, err
	}
	id, err := c.dev.CreateTexture(gpucore.TextureDesc{
		Label:     "cmap-" + p.String(),
		Width:     n,
		Height:    1,
		Format:    gpucore.TextureFormatRGBA8Unorm,
		MinFilter: gpucore.FilterLinear,
		MagFilter: gpucore.FilterLinear,
		WrapU:     gpucore.AddressClampToEdge,
		WrapV:     gpucore.AddressClampToEdge,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("cmap: create %s lut: %w", p, err)
	}

	data := make([]byte, 0, 4*n)
	for _, col := range colors {
		data = append(data, col.R, col.G, col.B, col.A)
	}
	if err := c.dev.WriteTexture(id, gpucore.Region{Width: n, Height: 1}, data); err != nil {
		c.dev.DestroyTexture(id)
		return gpucore.InvalidID, fmt.Errorf("cmap: upload %s lut: %w", p, err)
	}

	c.luts[id] = p
	rfscope.Logger().Debug("cmap: lut generated", "palette", p.String(), "entries", n, "id", uint64(id))
	return id, nil
}

// DestroyLUT releases a table created by GenerateLUT. Unknown IDs are ignored.
func (c *Context) DestroyLUT(id gpucore.TextureID) {
	if _, ok := c.luts[id]; !ok {
		return
	}
	delete(c.luts, id)
	c.dev.DestroyTexture(id)
}

// Enable binds src through lut for subsequent quads of s.
func (c *Context) Enable(s *render.Scene, src, lut gpucore.TextureID, scale, offset float32, mode render.SampleMode) {
	s.SetColormap(render.ColormapBinding{
		Source: src,
		LUT:    lut,
		Scale:  scale,
		Offset: offset,
		Mode:   mode,
	})
}

// Disable removes the colormap binding from s.
func (c *Context) Disable(s *render.Scene) {
	s.ClearColormap()
}

// Release destroys any tables still owned by the context. Safe to call
// more than once.
func (c *Context) Release() {
	if c == nil || c.released {
		return
	}
	for id := range c.luts {
		c.dev.DestroyTexture(id)
	}
	clear(c.luts)
	c.released = true
}
