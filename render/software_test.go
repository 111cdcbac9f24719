// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"bytes"
	"encoding/binary"
	"image"
	"math"
	"testing"

	"github.com/gogpu/rfscope"
	"github.com/gogpu/rfscope/gpucore"
)

func float32Bytes(vals ...float32) []byte {
	out := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
	}
	return out
}

func TestSoftwareRendererRejectsGPUTarget(t *testing.T) {
	r := NewSoftwareRenderer(NewSoftwareDevice())
	if err := r.Render(nil, NewScene()); err == nil {
		t.Error("Render(nil target) = nil, want error")
	}
	st := NewSurfaceTarget(4, 4, 0, nil)
	if err := r.Render(st, NewScene()); err == nil {
		t.Error("Render(surface target) = nil, want error")
	}
}

func TestSoftwareRendererFillRect(t *testing.T) {
	r := NewSoftwareRenderer(NewSoftwareDevice())
	target := NewPixmapTarget(8, 8)
	s := NewScene()
	s.SetColor(rfscope.RGB(0, 0, 1))
	s.FillRect(rfscope.Rect{X0: 2, Y0: 0, X1: 4, Y1: 2})

	if err := r.Render(target, s); err != nil {
		t.Fatalf("Render() = %v", err)
	}
	if got := target.At(3, 1); got.B != 255 || got.A != 255 {
		t.Errorf("At(3,1) = %v, want opaque blue", got)
	}
	if got := target.At(4, 1); got.A != 0 {
		t.Errorf("At(4,1) = %v, want untouched", got)
	}
	// Scene origin is lower-left: row 0 of the scene is the last image row.
	if got := target.Image().RGBAAt(3, 7); got.B != 255 {
		t.Errorf("image row 7 = %v, want blue", got)
	}
}

func TestSoftwareRendererColormap(t *testing.T) {
	d := NewSoftwareDevice()
	src, _ := d.CreateTexture(gpucore.TextureDesc{
		Width: 2, Height: 1, Format: gpucore.TextureFormatR32Float,
		MinFilter: gpucore.FilterNearest, MagFilter: gpucore.FilterNearest,
	})
	_ = d.WriteTexture(src, gpucore.Region{Width: 2, Height: 1}, float32Bytes(0, 1))

	lut, _ := d.CreateTexture(gpucore.TextureDesc{
		Width: 2, Height: 1, Format: gpucore.TextureFormatRGBA8Unorm,
		MagFilter: gpucore.FilterLinear, WrapU: gpucore.AddressClampToEdge,
	})
	_ = d.WriteTexture(lut, gpucore.Region{Width: 2, Height: 1}, []byte{0, 0, 0, 255, 255, 0, 0, 255})

	s := NewScene()
	s.SetColormap(ColormapBinding{Source: src, LUT: lut, Scale: 1, Mode: SampleNearest})
	s.Quad(rfscope.Rect{X1: 4, Y1: 1}, 0, 0, 1, 1)

	target := NewPixmapTarget(4, 1)
	if err := NewSoftwareRenderer(d).Render(target, s); err != nil {
		t.Fatalf("Render() = %v", err)
	}
	if got := target.At(0, 0); got.R != 0 {
		t.Errorf("left pixel R = %d, want 0", got.R)
	}
	if got := target.At(3, 0); got.R != 255 {
		t.Errorf("right pixel R = %d, want 255", got.R)
	}
}

func TestParallelSoftwareRendererMatchesSerial(t *testing.T) {
	const w, h = 64, 200
	d := NewSoftwareDevice()
	src, _ := d.CreateTexture(gpucore.TextureDesc{
		Width: 16, Height: 16, Format: gpucore.TextureFormatR32Float,
		MinFilter: gpucore.FilterLinear, MagFilter: gpucore.FilterLinear,
	})
	vals := make([]float32, 16*16)
	for i := range vals {
		vals[i] = float32(i%17) / 16
	}
	_ = d.WriteTexture(src, gpucore.Region{Width: 16, Height: 16}, float32Bytes(vals...))
	lut, _ := d.CreateTexture(gpucore.TextureDesc{
		Width: 2, Height: 1, Format: gpucore.TextureFormatRGBA8Unorm,
		MagFilter: gpucore.FilterLinear, WrapU: gpucore.AddressClampToEdge,
	})
	_ = d.WriteTexture(lut, gpucore.Region{Width: 2, Height: 1}, []byte{0, 0, 255, 255, 255, 255, 0, 255})

	s := NewScene()
	s.SetColormap(ColormapBinding{Source: src, LUT: lut, Scale: 1, Mode: SampleBilinear})
	s.Quad(rfscope.Rect{X1: w, Y1: h}, 0, 0, 1, 1)

	serial := NewPixmapTarget(w, h)
	if err := NewSoftwareRenderer(d).Render(serial, s); err != nil {
		t.Fatalf("serial Render() = %v", err)
	}
	pr := NewParallelSoftwareRenderer(d, 4)
	defer pr.Close()
	banded := NewPixmapTarget(w, h)
	if err := pr.Render(banded, s); err != nil {
		t.Fatalf("parallel Render() = %v", err)
	}
	if !bytes.Equal(serial.Pixels(), banded.Pixels()) {
		t.Error("parallel output differs from serial output")
	}
}

func TestSoftwareRendererUnknownTexture(t *testing.T) {
	s := NewScene()
	s.SetColormap(ColormapBinding{Source: 42, LUT: 43})
	s.Quad(rfscope.Rect{X1: 1, Y1: 1}, 0, 0, 1, 1)
	if err := NewSoftwareRenderer(NewSoftwareDevice()).Render(NewPixmapTarget(2, 2), s); err == nil {
		t.Error("Render() with unknown texture = nil, want error")
	}
}

func TestSoftwareRendererLineStrip(t *testing.T) {
	d := NewSoftwareDevice()
	buf, _ := d.CreateBuffer(gpucore.BufferDesc{Size: 32, Usage: gpucore.BufferUsageVertex})
	// Horizontal line across the middle in unit coordinates.
	_ = d.WriteBuffer(buf, 0, float32Bytes(0, 0.5, 1, 0.5))

	s := NewScene()
	s.Scale(10, 10)
	s.SetColor(rfscope.White)
	s.LineStrip(buf, 0, 2, 1)

	target := NewPixmapTarget(10, 10)
	if err := NewSoftwareRenderer(d).Render(target, s); err != nil {
		t.Fatalf("Render() = %v", err)
	}
	for x := 0; x < 10; x++ {
		if got := target.At(x, 5); got.R != 255 {
			t.Fatalf("At(%d,5) = %v, want white", x, got)
		}
	}
	if got := target.At(5, 2); got.A != 0 {
		t.Errorf("At(5,2) = %v, want untouched", got)
	}
}

func TestSoftwareRendererLineStripOutOfRange(t *testing.T) {
	d := NewSoftwareDevice()
	buf, _ := d.CreateBuffer(gpucore.BufferDesc{Size: 16})
	s := NewScene()
	s.LineStrip(buf, 1, 4, 1)
	if err := NewSoftwareRenderer(d).Render(NewPixmapTarget(4, 4), s); err == nil {
		t.Error("Render() reading past the buffer = nil, want error")
	}
}

func TestSoftwareRendererAlphaLines(t *testing.T) {
	s := NewScene()
	s.SetColor(rfscope.RGBA2(0, 0, 0, 0.5))
	s.SetBlend(BlendAlpha)
	s.Lines(rfscope.Pt(0.5, 0.5), rfscope.Pt(0.5, 3.5))

	target := NewPixmapTarget(4, 4)
	target.Clear(rfscope.White.Color())
	if err := NewSoftwareRenderer(NewSoftwareDevice()).Render(target, s); err != nil {
		t.Fatalf("Render() = %v", err)
	}
	got := target.At(0, 2)
	if got.R < 120 || got.R > 135 {
		t.Errorf("blended R = %d, want about 128", got.R)
	}
	if got := target.At(1, 2); got.R != 255 {
		t.Errorf("neighbor R = %d, want 255", got.R)
	}
}

func TestSoftwareRendererText(t *testing.T) {
	mask := image.NewAlpha(image.Rect(0, 0, 2, 2))
	mask.Pix[0] = 255 // top-left of the mask

	s := NewScene()
	s.SetColor(rfscope.RGB(1, 1, 0))
	s.Text(rfscope.Pt(1, 1), mask, "x")

	target := NewPixmapTarget(4, 4)
	if err := NewSoftwareRenderer(NewSoftwareDevice()).Render(target, s); err != nil {
		t.Fatalf("Render() = %v", err)
	}
	if got := target.At(1, 2); got.R != 255 || got.G != 255 || got.B != 0 {
		t.Errorf("At(1,2) = %v, want yellow", got)
	}
	if got := target.At(1, 1); got.A != 0 {
		t.Errorf("At(1,1) = %v, want untouched", got)
	}
}

func TestSampleLinearWrap(t *testing.T) {
	tex := &softTexture{
		desc: gpucore.TextureDesc{
			Width: 2, Height: 1, Format: gpucore.TextureFormatR32Float,
			MagFilter: gpucore.FilterLinear,
			WrapU:     gpucore.AddressRepeat, WrapV: gpucore.AddressClampToEdge,
		},
		data: float32Bytes(0, 1),
	}
	// u=0 sits half way between the last texel (wrapped) and the first.
	if got := tex.sampleLinear(0, 0.5)[0]; math.Abs(float64(got)-0.5) > 1e-6 {
		t.Errorf("sampleLinear(0) = %v, want 0.5", got)
	}
	if got := tex.sampleLinear(0.25, 0.5)[0]; got != 0 {
		t.Errorf("sampleLinear(0.25) = %v, want 0", got)
	}
	// Repeat makes u and u+1 identical.
	a := tex.sampleLinear(0.6, 0.5)[0]
	b := tex.sampleLinear(1.6, 0.5)[0]
	if math.Abs(float64(a-b)) > 1e-6 {
		t.Errorf("sampleLinear(0.6) = %v, sampleLinear(1.6) = %v, want equal", a, b)
	}
}
