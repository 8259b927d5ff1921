// Command svgscene compiles SVG documents to scenes, and
// dumps or renders them.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/benoitkugler/svgscene/svgimage"
	"github.com/benoitkugler/svgscene/svgparse"
	"github.com/benoitkugler/svgscene/svgscene"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func main() {
	app := NewApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var outputFlag = &cli.StringFlag{
	Name:    "output",
	Aliases: []string{"o"},
	Usage:   "Path to output to instead of stdout (will overwrite if exists)",
}

// NewApp returns the command line application.
func NewApp() *cli.App {
	return &cli.App{
		Name:  "svgscene",
		Usage: "Compile SVG documents to scene graphs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML configuration file",
			},
			&cli.Float64Flag{
				Name:  "dpi",
				Usage: "Resolution used for absolute units (default 90)",
			},
			&cli.Float64Flag{
				Name:  "pixels-per-unit",
				Usage: "Scale the scene down by this factor",
			},
			&cli.StringFlag{
				Name:  "error-mode",
				Usage: "How to handle unsupported constructs: ignore, warn or strict",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log the skipped elements",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			&cmdDump,
			&cmdRender,
			&cmdPDF,
		},
	}
}

// setupLogger reports the parser warnings on the error output.
func setupLogger(ctx *cli.Context) error {
	level := slog.LevelWarn
	if ctx.Bool("verbose") {
		level = slog.LevelDebug
	}
	svgparse.SetLogger(slog.New(slog.NewTextHandler(ctx.App.ErrWriter, &slog.HandlerOptions{Level: level})))
	return nil
}

// readInput compiles the document named by the first argument,
// or the standard input when it is absent or "-".
func readInput(ctx *cli.Context, parse ParseConfig) (*svgscene.Scene, svgscene.NodeOpacities, error) {
	path := ctx.Args().First()
	in := ctx.App.Reader
	baseDir := "."
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening input")
		}
		defer f.Close()
		in, baseDir = f, filepath.Dir(path)
	}
	opts, err := parse.options(svgimage.Decoder{BaseDir: baseDir})
	if err != nil {
		return nil, nil, err
	}
	scene, opacities, err := svgparse.ReadSceneStream(in, opts)
	if err != nil {
		if path != "" && path != "-" {
			return nil, nil, errors.Wrapf(err, "compiling %s", path)
		}
		return nil, nil, err
	}
	return scene, opacities, nil
}

// withOutput calls `write` with the file given by --output,
// or the application writer.
func withOutput(ctx *cli.Context, write func(w io.Writer) error) error {
	name := ctx.String("output")
	if name == "" {
		return write(ctx.App.Writer)
	}
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "creating output")
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
