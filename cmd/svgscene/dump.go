package main

import (
	"fmt"
	"io"

	"github.com/benoitkugler/svgscene/svgscene"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

var cmdDump = cli.Command{
	Name:      "dump",
	Usage:     "Print the compiled scene as YAML",
	ArgsUsage: "[file.svg]",
	Action:    runDump,
	Flags:     []cli.Flag{outputFlag},
}

func runDump(ctx *cli.Context) error {
	cfg, err := resolveConfig(ctx)
	if err != nil {
		return err
	}
	scene, opacities, err := readInput(ctx, cfg.Parse)
	if err != nil {
		return err
	}
	return withOutput(ctx, func(w io.Writer) error {
		return writeYAML(w, dumpScene(scene, opacities))
	})
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

type sceneDump struct {
	Root         int        `yaml:"root"`
	Titles       []string   `yaml:"titles,omitempty"`
	Descriptions []string   `yaml:"descriptions,omitempty"`
	Nodes        []nodeDump `yaml:"nodes"`
}

type nodeDump struct {
	ID        int            `yaml:"id"`
	Transform string         `yaml:"transform,omitempty"` // omitted for the identity
	Opacity   *float64       `yaml:"opacity,omitempty"`
	Clipper   *int           `yaml:"clipper,omitempty"`
	Children  []int          `yaml:"children,flow,omitempty"`
	Drawables []drawableDump `yaml:"drawables,omitempty"`
}

type drawableDump struct {
	Kind     string      `yaml:"kind"`
	Contours int         `yaml:"contours,omitempty"`
	Rect     string      `yaml:"rect,omitempty"`
	Fill     *fillDump   `yaml:"fill,omitempty"`
	Stroke   *strokeDump `yaml:"stroke,omitempty"`
}

type fillDump struct {
	Type       string   `yaml:"type"`
	Color      string   `yaml:"color,omitempty"`
	Stops      []string `yaml:"stops,flow,omitempty"`
	Mode       string   `yaml:"mode"`
	Addressing string   `yaml:"addressing,omitempty"`
	Focus      string   `yaml:"focus,omitempty"`
	Transform  string   `yaml:"transform,omitempty"`
	Texture    string   `yaml:"texture,omitempty"`
}

type strokeDump struct {
	Color      string    `yaml:"color"`
	Width      float64   `yaml:"width"`
	Dashes     []float64 `yaml:"dashes,flow,omitempty"`
	DashOffset float64   `yaml:"dash-offset,omitempty"`
	Head       string    `yaml:"head"`
	Tail       string    `yaml:"tail"`
	Corners    string    `yaml:"corners"`
	MiterLimit float64   `yaml:"miter-limit"`
}

func matrixString(m svgscene.Matrix2D) string {
	if m == svgscene.Identity {
		return ""
	}
	return m.String()
}

func dumpScene(scene *svgscene.Scene, opacities svgscene.NodeOpacities) sceneDump {
	out := sceneDump{
		Root:         int(scene.Root),
		Titles:       scene.Titles,
		Descriptions: scene.Descriptions,
		Nodes:        make([]nodeDump, len(scene.Nodes)),
	}
	for i, node := range scene.Nodes {
		nd := nodeDump{ID: i, Transform: matrixString(node.Transform)}
		if op, ok := opacities[svgscene.NodeID(i)]; ok {
			nd.Opacity = &op
		}
		if node.Clipper != svgscene.NoNode {
			clipper := int(node.Clipper)
			nd.Clipper = &clipper
		}
		for _, child := range node.Children {
			nd.Children = append(nd.Children, int(child))
		}
		for _, d := range node.Drawables {
			nd.Drawables = append(nd.Drawables, dumpDrawable(d))
		}
		out.Nodes[i] = nd
	}
	return out
}

func dumpDrawable(d svgscene.Drawable) drawableDump {
	var out drawableDump
	switch d := d.(type) {
	case *svgscene.Path:
		out.Kind, out.Contours = "path", 1
	case *svgscene.Shape:
		out.Kind, out.Contours = "shape", len(d.Contours)
	case *svgscene.Rectangle:
		out.Kind = "rectangle"
		out.Rect = fmt.Sprintf("%s %s", d.Position, d.Size)
	}
	if filled := svgscene.FillOf(d); filled != nil && filled.Fill != nil {
		out.Fill = dumpFill(filled)
	}
	if props := d.PathProps(); props.Stroke != nil {
		out.Stroke = &strokeDump{
			Color:      props.Stroke.Color.String(),
			Width:      2 * props.Stroke.HalfThickness,
			Dashes:     props.Stroke.Pattern,
			DashOffset: props.Stroke.PatternOffset,
			Head:       props.Head.String(),
			Tail:       props.Tail.String(),
			Corners:    props.Corners.String(),
			MiterLimit: props.Stroke.TippedCornerLimit,
		}
	}
	return out
}

func dumpFill(filled *svgscene.Filled) *fillDump {
	out := &fillDump{Mode: filled.Fill.FillMode().String()}
	switch f := filled.Fill.(type) {
	case *svgscene.SolidFill:
		out.Type, out.Color = "solid", f.Color.String()
	case *svgscene.GradientFill:
		out.Type = "linear"
		if f.Type == svgscene.Radial {
			out.Type = "radial"
			out.Focus = f.RadialFocus.String()
		}
		for _, stop := range f.Stops {
			out.Stops = append(out.Stops, fmt.Sprintf("%g %s", stop.Offset, stop.Color))
		}
		out.Addressing = f.Addressing.String()
		out.Transform = matrixString(filled.FillTransform)
	case *svgscene.TextureFill:
		out.Type = "texture"
		out.Texture = fmt.Sprintf("%s %dx%d", f.Texture.Format, f.Texture.Width, f.Texture.Height)
		out.Addressing = f.Addressing.String()
		out.Transform = matrixString(filled.FillTransform)
	}
	return out
}
