// Command rfscope renders spectrum display frames from a synthetic signal.
//
// Usage:
//
//	rfscope render --config scope.yaml --output frame.png
//	rfscope config --bins 4096 > scope.yaml
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/rfscope"
	"github.com/gogpu/rfscope/backend"
)

var (
	configFile string
	logLevel   string
	output     string
	frames     int
	width      int
	height     int
	bins       int
	zoomSpan   float64
	backendArg string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rfscope:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rfscope",
		Short:         "spectrum display renderer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(logLevel)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render a frame to PNG",
		Args:  cobra.NoArgs,
		RunE:  runRender,
	}
	addConfigFlags(renderCmd)

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective config as YAML",
		Long:  "Print the configuration render would use: defaults, then --config, then flags.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := effectiveConfig(cmd)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	addConfigFlags(configCmd)

	backendsCmd := &cobra.Command{
		Use:   "backends",
		Short: "list rendering backends",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range backend.Available() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}

	rootCmd.AddCommand(renderCmd, configCmd, backendsCmd)
	return rootCmd
}

// addConfigFlags registers the config file and override flags on cmd.
func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVarP(&output, "output", "o", "", "output PNG (overrides config)")
	f.IntVar(&frames, "frames", 0, "frames to simulate (overrides config)")
	f.IntVar(&width, "width", 0, "image width (overrides config)")
	f.IntVar(&height, "height", 0, "image height (overrides config)")
	f.IntVar(&bins, "bins", 0, "FFT bins (overrides config)")
	f.StringVar(&backendArg, "backend", "", "rendering backend (overrides config)")
	f.Float64Var(&zoomSpan, "zoom", 0, "zoom span in (0,1), centered on the config zoom center")
}

func setupLogger(level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	rfscope.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}

	target, err := renderFrames(cfg)
	if err != nil {
		return err
	}
	if err := writePNG(target, cfg.Output); err != nil {
		return fmt.Errorf("write %s: %w", cfg.Output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%dx%d, %d bins, %d frames)\n",
		cfg.Output, cfg.Width, cfg.Height, cfg.Bins, cfg.Frames)
	return nil
}

// effectiveConfig returns the defaults, overlaid by --config when given and
// then by explicitly set flags.
func effectiveConfig(cmd *cobra.Command) (*Config, error) {
	cfg := DefaultConfig()
	if cmd.Flags().Changed("config") && configFile != "" {
		var err error
		if cfg, err = Load(configFile); err != nil {
			return nil, err
		}
	}
	applyFlags(cmd, cfg)
	return cfg, nil
}

// applyFlags copies explicitly set flags over the config.
func applyFlags(cmd *cobra.Command, cfg *Config) {
	f := cmd.Flags()
	if f.Changed("output") {
		cfg.Output = output
	}
	if f.Changed("frames") {
		cfg.Frames = frames
	}
	if f.Changed("width") {
		cfg.Width = width
	}
	if f.Changed("height") {
		cfg.Height = height
	}
	if f.Changed("bins") {
		cfg.Bins = bins
	}
	if f.Changed("backend") {
		cfg.Backend = backendArg
	}
	if f.Changed("zoom") {
		cfg.Zoom.Enabled = true
		cfg.Zoom.Span = zoomSpan
	}
}
