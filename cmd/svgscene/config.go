package main

import (
	"bytes"
	"os"

	"github.com/benoitkugler/svgscene/svgparse"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// Config is the content of the TOML file given with --config.
// Command line flags take precedence over it.
type Config struct {
	Parse  ParseConfig  `toml:"parse"`
	Render RenderConfig `toml:"render"`
}

type ParseConfig struct {
	DPI           float64 `toml:"dpi"`
	PixelsPerUnit float64 `toml:"pixels-per-unit"`
	WindowWidth   float64 `toml:"window-width"`
	WindowHeight  float64 `toml:"window-height"`
	ErrorMode     string  `toml:"error-mode"` // ignore, warn or strict
}

type RenderConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

func defaultConfig() Config {
	return Config{
		Parse:  ParseConfig{ErrorMode: "warn"},
		Render: RenderConfig{Width: 512, Height: 512},
	}
}

// loadConfig reads the TOML file at `path` over the defaults.
// Unknown keys are rejected.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading configuration")
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "invalid configuration %s", path)
	}
	return cfg, nil
}

// resolveConfig loads the configuration file and applies
// the flags explicitly set on the command line.
func resolveConfig(ctx *cli.Context) (Config, error) {
	cfg, err := loadConfig(ctx.String("config"))
	if err != nil {
		return cfg, err
	}
	if ctx.IsSet("dpi") {
		cfg.Parse.DPI = ctx.Float64("dpi")
	}
	if ctx.IsSet("pixels-per-unit") {
		cfg.Parse.PixelsPerUnit = ctx.Float64("pixels-per-unit")
	}
	if ctx.IsSet("error-mode") {
		cfg.Parse.ErrorMode = ctx.String("error-mode")
	}
	if ctx.IsSet("width") {
		cfg.Render.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		cfg.Render.Height = ctx.Int("height")
	}
	return cfg, nil
}

// options returns the parser options, decoding
// images with `images`.
func (pc ParseConfig) options(images svgparse.ImageDecoder) (svgparse.Options, error) {
	mode, err := svgparse.ParseErrorMode(pc.ErrorMode)
	if err != nil {
		return svgparse.Options{}, err
	}
	return svgparse.Options{
		DPI:           pc.DPI,
		PixelsPerUnit: pc.PixelsPerUnit,
		WindowWidth:   pc.WindowWidth,
		WindowHeight:  pc.WindowHeight,
		ErrorMode:     mode,
		Images:        images,
	}, nil
}
