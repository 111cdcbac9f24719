// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cmap

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Errors returned by palette generation.
var (
	ErrUnknownPalette = errors.New("cmap: unknown palette")
	ErrInvalidSize    = errors.New("cmap: lookup table size must be at least 2")
)

// Palette names a color ramp.
type Palette uint8

// Palettes.
const (
	// PaletteWaterfall ramps black to blue, then sweeps hue from blue to red.
	PaletteWaterfall Palette = iota + 1

	// PaletteHistogram is an iron ramp from black through purple and orange to white.
	PaletteHistogram

	// PaletteGrayscale is a linear black to white ramp.
	PaletteGrayscale
)

func (p Palette) String() string {
	switch p {
	case PaletteWaterfall:
		return "waterfall"
	case PaletteHistogram:
		return "histogram"
	case PaletteGrayscale:
		return "grayscale"
	default:
		return fmt.Sprintf("Palette(%d)", uint8(p))
	}
}

// ParsePalette returns the palette with the given name.
func ParsePalette(name string) (Palette, error) {
	for _, p := range []Palette{PaletteWaterfall, PaletteHistogram, PaletteGrayscale} {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
}

type stop struct {
	pos float64
	col colorful.Color
}

var ironStops = []stop{
	{0.00, colorful.Color{R: 0, G: 0, B: 0}},
	{0.25, colorful.Color{R: 0.33, G: 0.0, B: 0.5}},
	{0.50, colorful.Color{R: 0.85, G: 0.15, B: 0.2}},
	{0.75, colorful.Color{R: 1.0, G: 0.65, B: 0.0}},
	{1.00, colorful.Color{R: 1, G: 1, B: 1}},
}

// Generate returns an n-entry palette. Entries are opaque.
func Generate(p Palette, n int) ([]color.RGBA, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}
	var at func(x float64) colorful.Color
	switch p {
	case PaletteWaterfall:
		at = waterfallAt
	case PaletteHistogram:
		at = func(x float64) colorful.Color { return rampAt(ironStops, x) }
	case PaletteGrayscale:
		at = func(x float64) colorful.Color { return colorful.Color{R: x, G: x, B: x} }
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownPalette, p)
	}

	out := make([]color.RGBA, n)
	for i := range out {
		r, g, b := at(float64(i) / float64(n-1)).Clamped().RGB255()
		out[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return out, nil
}

func waterfallAt(x float64) colorful.Color {
	const knee = 0.2
	if x < knee {
		return colorful.Hsv(240, 1, x/knee)
	}
	t := (x - knee) / (1 - knee)
	return colorful.Hsv(240*(1-t), 1, 1)
}

func rampAt(stops []stop, x float64) colorful.Color {
	for i := 1; i < len(stops); i++ {
		if x <= stops[i].pos {
			a, b := stops[i-1], stops[i]
			return a.col.BlendRgb(b.col, (x-a.pos)/(b.pos-a.pos))
		}
	}
	return stops[len(stops)-1].col
}
