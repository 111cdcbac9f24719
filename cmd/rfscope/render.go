package main

import (
	"fmt"
	"image/color"
	"os"

	"github.com/gogpu/rfscope"
	"github.com/gogpu/rfscope/backend"
	"github.com/gogpu/rfscope/internal/synth"
	"github.com/gogpu/rfscope/render"
	"github.com/gogpu/rfscope/scope"
)

// renderFrames runs the synthetic signal through a display for
// cfg.Frames frames on the configured backend and returns the last frame.
func renderFrames(cfg *Config) (*render.PixmapTarget, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	displayOpts, err := cfg.DisplayOptions()
	if err != nil {
		return nil, err
	}

	b, err := backend.Open(cfg.Backend)
	if err != nil {
		return nil, err
	}
	defer b.Close()
	dev := b.Device()

	d, err := scope.New(dev, b.Renderer(), displayOpts...)
	if err != nil {
		return nil, fmt.Errorf("create display: %w", err)
	}
	defer d.Release()

	if err := d.SetPowerRange(cfg.Power.Ref, cfg.Power.PerDiv); err != nil {
		return nil, err
	}
	d.SetFrequencyRange(cfg.Frequency.Center, cfg.Frequency.Span)

	targets, err := synth.TargetsFrom(d)
	if err != nil {
		return nil, err
	}
	gen, err := synth.New(cfg.Bins, cfg.Signal)
	if err != nil {
		return nil, err
	}

	target := render.NewPixmapTarget(cfg.Width, cfg.Height)
	target.Clear(color.Black)
	for i := 0; i < cfg.Frames; i++ {
		if err := gen.Step(dev, targets, d.Power()); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
	}

	req, err := cfg.Request(gen.Rows())
	if err != nil {
		return nil, err
	}
	d.Draw(target, req)
	rfscope.Logger().Info("rendered", "backend", b.Name(), "frames", cfg.Frames, "bins", cfg.Bins,
		"width", cfg.Width, "height", cfg.Height)
	return target, nil
}

func writePNG(target *render.PixmapTarget, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := target.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
