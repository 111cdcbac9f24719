package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/rfscope/backend"
	"github.com/gogpu/rfscope/cmap"
	"github.com/gogpu/rfscope/internal/synth"
	"github.com/gogpu/rfscope/scope"
)

// Config is the YAML document read by the render command.
type Config struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Bins   int    `yaml:"bins"`
	Frames int    `yaml:"frames"`
	Output string `yaml:"output"`

	// Backend names a registered backend.
	Backend string `yaml:"backend"`

	Layers []string `yaml:"layers"`

	// Ratio is the share of the height given to the spectrum area.
	Ratio         float64 `yaml:"ratio"`
	WaterfallSpan float64 `yaml:"waterfall_span"`

	Zoom      ZoomConfig      `yaml:"zoom"`
	Power     PowerConfig     `yaml:"power"`
	Frequency FrequencyConfig `yaml:"frequency"`
	Palettes  PaletteConfig   `yaml:"palettes"`

	Font     string  `yaml:"font"`
	FontSize float64 `yaml:"font_size"`

	Signal synth.Config `yaml:"signal"`
}

// ZoomConfig selects a normalized frequency window of the spectrum.
// Center and Span are fractions of the full span.
type ZoomConfig struct {
	Enabled bool    `yaml:"enabled"`
	Center  float64 `yaml:"center"`
	Span    float64 `yaml:"span"`
}

// PowerConfig is the power axis: reference level at the top of the grid
// and dB per division.
type PowerConfig struct {
	Ref    int `yaml:"ref"`
	PerDiv int `yaml:"per_div"`
}

// FrequencyConfig is the tuned center frequency and sample span in Hz.
type FrequencyConfig struct {
	Center float64 `yaml:"center"`
	Span   float64 `yaml:"span"`
}

// PaletteConfig names the waterfall and histogram palettes.
type PaletteConfig struct {
	Waterfall string `yaml:"waterfall"`
	Histogram string `yaml:"histogram"`
}

// layerNames maps config layer names to request options.
var layerNames = map[string]scope.Options{
	"waterfall":   scope.OptWaterfall,
	"histogram":   scope.OptHistogram,
	"live":        scope.OptLive,
	"maxhold":     scope.OptMaxHold,
	"power-label": scope.OptLabelPower,
	"freq-label":  scope.OptLabelFreq,
}

// DefaultConfig returns an 800x600 render of every layer over a synthetic
// signal, drawn with the software backend.
func DefaultConfig() *Config {
	return &Config{
		Width:         800,
		Height:        600,
		Bins:          scope.DefaultSpectrumLength,
		Frames:        200,
		Output:        "rfscope.png",
		Backend:       backend.BackendSoftware,
		Layers:        []string{"waterfall", "histogram", "live", "maxhold", "power-label", "freq-label"},
		Ratio:         0.5,
		WaterfallSpan: 0.25,
		Zoom:          ZoomConfig{Center: 0.5, Span: 1},
		Power:         PowerConfig{Ref: scope.DefaultDBRef, PerDiv: scope.DefaultDBPerDiv},
		Frequency:     FrequencyConfig{Center: 100e6, Span: 10e6},
		Palettes:      PaletteConfig{Waterfall: cmap.PaletteWaterfall.String(), Histogram: cmap.PaletteHistogram.String()},
		FontSize:      scope.DefaultFontSize,
		Signal:        synth.DefaultConfig(),
	}
}

// Load reads a config file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values the display cannot recover from.
func (c *Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("size %dx%d must be positive", c.Width, c.Height))
	}
	if c.Bins < 2 || c.Bins&(c.Bins-1) != 0 {
		errs = append(errs, fmt.Errorf("bins %d must be a power of two >= 2", c.Bins))
	}
	if c.Frames < 0 {
		errs = append(errs, fmt.Errorf("frames %d must not be negative", c.Frames))
	}
	if c.Power.PerDiv <= 0 {
		errs = append(errs, fmt.Errorf("power.per_div %d must be positive", c.Power.PerDiv))
	}
	if _, err := c.Options(); err != nil {
		errs = append(errs, err)
	}
	if !backend.IsRegistered(c.Backend) {
		errs = append(errs, fmt.Errorf("backend %q is not registered (have %v)", c.Backend, backend.Available()))
	}
	if _, _, err := c.palettes(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Options returns the layer selection.
func (c *Config) Options() (scope.Options, error) {
	var opts scope.Options
	for _, name := range c.Layers {
		o, ok := layerNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("unknown layer %q", name)
		}
		opts |= o
	}
	return opts, nil
}

func (c *Config) palettes() (waterfall, histogram cmap.Palette, err error) {
	if waterfall, err = cmap.ParsePalette(c.Palettes.Waterfall); err != nil {
		return 0, 0, err
	}
	if histogram, err = cmap.ParsePalette(c.Palettes.Histogram); err != nil {
		return 0, 0, err
	}
	return waterfall, histogram, nil
}

// DisplayOptions returns the options for scope.New.
func (c *Config) DisplayOptions() ([]scope.Option, error) {
	wf, hst, err := c.palettes()
	if err != nil {
		return nil, err
	}
	opts := []scope.Option{
		scope.WithSpectrumLength(c.Bins),
		scope.WithPalettes(wf, hst),
	}
	if c.Font != "" {
		opts = append(opts, scope.WithFont(c.Font))
	}
	if c.FontSize > 0 {
		opts = append(opts, scope.WithFontSize(c.FontSize))
	}
	return opts, nil
}

// Request builds the refreshed render request for the frame whose newest
// waterfall row is pos.
func (c *Config) Request(pos int) (*scope.RenderRequest, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	req := &scope.RenderRequest{
		Width:               c.Width,
		Height:              c.Height,
		Options:             opts,
		HistoWaterfallRatio: c.Ratio,
		ZoomEnabled:         c.Zoom.Enabled,
		ZoomCenter:          c.Zoom.Center,
		ZoomSpan:            c.Zoom.Span,
		WaterfallPos:        pos,
		WaterfallSpan:       c.WaterfallSpan,
	}
	req.Refresh()
	return req, nil
}
