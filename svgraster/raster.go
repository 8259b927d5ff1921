// Implements a raster backend to render SVG scenes,
// by wrapping rasterx.
package svgraster

import (
	"image"
	"image/color"
	"io"

	"github.com/benoitkugler/svgscene/svgdraw"
	"github.com/benoitkugler/svgscene/svgparse"
	"github.com/benoitkugler/svgscene/svgscene"
	"github.com/srwiley/rasterx"
)

// assert interface conformance
var (
	_ svgdraw.Driver  = (*Renderer)(nil)
	_ svgdraw.Filler  = filler{}
	_ svgdraw.Stroker = stroker{}
)

type Renderer struct {
	dasher *rasterx.Dasher // to avoid shared state
	filler *rasterx.Filler // we use separated instance
}

// NewRenderer returns a renderer with default values.
// In addition to rasterizing lines like a Scanner,
// it can also rasterize quadratic and cubic bezier curves.
func NewRenderer(width, height int, scanner rasterx.Scanner) *Renderer {
	return &Renderer{dasher: rasterx.NewDasher(width, height, scanner), filler: rasterx.NewFiller(width, height, scanner)}
}

// RasterScene uses a ScannerGV instance to render the
// scene into a (width, height) image and returns it.
// `target` maps the scene space to the image space.
func RasterScene(scene *svgscene.Scene, opacities svgscene.NodeOpacities, width, height int, target svgscene.Matrix2D) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	renderer := NewRenderer(width, height, scanner)
	if err := svgdraw.Draw(renderer, scene, opacities, target); err != nil {
		return nil, err
	}
	return img, nil
}

// RasterSVGToImage compiles the SVG document and renders it
// into an image of the given size, fitting the drawing
// bounds.
func RasterSVGToImage(svg io.Reader, width, height int, opts svgparse.Options) (*image.RGBA, error) {
	scene, opacities, err := svgparse.ReadSceneStream(svg, opts)
	if err != nil {
		return nil, err
	}
	target := svgscene.Identity
	if bounds, ok := svgdraw.Bounds(scene); ok {
		target = svgdraw.Fit(bounds, float64(width), float64(height))
	}
	return RasterScene(scene, opacities, width, height, target)
}

func (rd *Renderer) SetupDrawers(willFill, willStroke bool) (f svgdraw.Filler, s svgdraw.Stroker) {
	if willFill {
		f = filler{rd.filler}
	}
	if willStroke {
		s = stroker{rd.dasher}
	}
	return f, s
}

// setPaint resolves the paint to a color or a color function
func setPaint(paint svgdraw.Paint, scanner rasterx.Scanner) {
	if paint.IsSolid() {
		scanner.SetColor(paint.ColorAt(0, 0))
		return
	}
	scanner.SetColor(rasterx.ColorFunc(func(x, y int) color.Color {
		// sample at the pixel center
		return paint.ColorAt(float64(x)+0.5, float64(y)+0.5)
	}))
}

// filler and stroker add the paint setters to the rasterx painters
type filler struct{ *rasterx.Filler }

func (f filler) SetPaint(paint svgdraw.Paint) { setPaint(paint, f.Scanner) }

var (
	joinToJoin = [...]rasterx.JoinMode{
		svgscene.Tipped:      rasterx.Miter,
		svgscene.RoundCorner: rasterx.Round,
		svgscene.Beveled:     rasterx.Bevel,
	}

	capToFunc = [...]rasterx.CapFunc{
		svgscene.Chop:        rasterx.ButtCap,
		svgscene.Square:      rasterx.SquareCap,
		svgscene.RoundEnding: rasterx.RoundCap,
	}
)

type stroker struct{ *rasterx.Dasher }

func (s stroker) SetColor(c svgscene.Color) { s.Scanner.SetColor(c) }

func (s stroker) SetStrokeOptions(options svgdraw.StrokeOptions) {
	s.Dasher.SetStroke(
		options.LineWidth, options.Join.MiterLimit, capToFunc[options.Join.LeadLineCap],
		capToFunc[options.Join.TrailLineCap], rasterx.FlatGap,
		joinToJoin[options.Join.LineJoin], options.Dash.Dash, options.Dash.DashOffset,
	)
}
