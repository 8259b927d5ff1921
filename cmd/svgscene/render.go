package main

import (
	"bytes"
	"image/png"
	"io"

	"github.com/benoitkugler/svgscene/svgdraw"
	"github.com/benoitkugler/svgscene/svgpdf"
	"github.com/benoitkugler/svgscene/svgraster"
	"github.com/benoitkugler/svgscene/svgscene"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var cmdRender = cli.Command{
	Name:      "render",
	Usage:     "Rasterize the document to a PNG image",
	ArgsUsage: "[file.svg]",
	Action:    runRender,
	Flags: []cli.Flag{
		outputFlag,
		&cli.IntFlag{
			Name:  "width",
			Usage: "Width of the image, in pixels",
		},
		&cli.IntFlag{
			Name:  "height",
			Usage: "Height of the image, in pixels",
		},
	},
}

var cmdPDF = cli.Command{
	Name:      "pdf",
	Usage:     "Convert the document to a one page PDF file",
	ArgsUsage: "[file.svg]",
	Action:    runPDF,
	Flags:     []cli.Flag{outputFlag},
}

func runRender(ctx *cli.Context) error {
	cfg, err := resolveConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.Render.Width <= 0 || cfg.Render.Height <= 0 {
		return errors.Errorf("invalid image size %dx%d", cfg.Render.Width, cfg.Render.Height)
	}
	scene, opacities, err := readInput(ctx, cfg.Parse)
	if err != nil {
		return err
	}
	target := svgscene.Identity
	if bounds, ok := svgdraw.Bounds(scene); ok {
		target = svgdraw.Fit(bounds, float64(cfg.Render.Width), float64(cfg.Render.Height))
	}
	img, err := svgraster.RasterScene(scene, opacities, cfg.Render.Width, cfg.Render.Height, target)
	if err != nil {
		return err
	}
	return withOutput(ctx, func(w io.Writer) error {
		return errors.Wrap(png.Encode(w, img), "encoding PNG")
	})
}

func runPDF(ctx *cli.Context) error {
	cfg, err := resolveConfig(ctx)
	if err != nil {
		return err
	}
	scene, opacities, err := readInput(ctx, cfg.Parse)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := svgpdf.RenderScene(scene, opacities, &buf); err != nil {
		return err
	}
	return withOutput(ctx, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	})
}
