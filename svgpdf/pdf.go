// Implements a PDF backend to render SVG scenes,
// by wrapping github.com/jung-kurt/gofpdf.
//
// Gradients are approximated by the average of their stops.
// Textures are placed on the bounding box of their rectangle, which
// is exact as long as the scene is not rotated nor skewed.
package svgpdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/benoitkugler/svgscene/svgdraw"
	"github.com/benoitkugler/svgscene/svgparse"
	"github.com/benoitkugler/svgscene/svgscene"
	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"
	"golang.org/x/image/math/fixed"
)

// assert interface conformance
var (
	_ svgdraw.Driver  = Renderer{}
	_ svgdraw.Filler  = (*filler)(nil)
	_ svgdraw.Stroker = (*stroker)(nil)
)

type Renderer struct {
	pdf *gofpdf.Fpdf
}

// implements the common path commands,
// shared by the filler and the stroker
type pather struct {
	pdf         *gofpdf.Fpdf
	a           svgscene.Point // current point, used to compute boundingBox
	boundingBox svgscene.Rect  // bounding box for the current path
	hasBox      bool
}

// implements the filling operation
type filler struct {
	pather
	useNonZeroWinding bool
	paint             svgdraw.Paint
}

// implements the stroking operation
type stroker struct {
	pather
}

// NewRenderer return a renderer which will
// write to the given `pdf`.
func NewRenderer(pdf *gofpdf.Fpdf) Renderer {
	return Renderer{pdf: pdf}
}

func (r Renderer) SetupDrawers(willFill, willStroke bool) (f svgdraw.Filler, s svgdraw.Stroker) {
	if willFill {
		f = &filler{pather: pather{pdf: r.pdf}}
	}
	if willStroke {
		s = &stroker{pather: pather{pdf: r.pdf}}
	}
	return f, s
}

// RenderSVGToPDF compiles the SVG document and writes it
// as a one page PDF file, with the size of the drawing.
func RenderSVGToPDF(svg io.Reader, out io.Writer, opts svgparse.Options) error {
	scene, opacities, err := svgparse.ReadSceneStream(svg, opts)
	if err != nil {
		return err
	}
	return RenderScene(scene, opacities, out)
}

// RenderScene writes `scene` as a one page PDF file,
// with the size of the drawing.
func RenderScene(scene *svgscene.Scene, opacities svgscene.NodeOpacities, out io.Writer) error {
	bounds, ok := svgdraw.Bounds(scene)
	if !ok || bounds.IsEmpty() {
		bounds = svgscene.Rect{Size: svgscene.Point{X: 1, Y: 1}}
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: bounds.Size.X, Ht: bounds.Size.Y},
	})
	pdf.AddPage()
	target := svgscene.Identity.Translate(-bounds.Min.X, -bounds.Min.Y)
	if err := svgdraw.Draw(NewRenderer(pdf), scene, opacities, target); err != nil {
		return err
	}
	if err := pdf.Output(out); err != nil {
		return errors.Wrap(err, "writing PDF")
	}
	return nil
}

func (p *pather) extend(r svgscene.Rect) {
	if p.hasBox {
		p.boundingBox = p.boundingBox.Union(r)
	} else {
		p.boundingBox, p.hasBox = r, true
	}
}

func (p *pather) Clear() {
	p.boundingBox, p.hasBox = svgscene.Rect{}, false
	p.a = svgscene.Point{}
}

func (p *pather) Start(a fixed.Point26_6) {
	p.a = svgdraw.FixedToPoint(a)
	p.pdf.MoveTo(p.a.X, p.a.Y)
	p.extend(svgscene.Rect{Min: p.a}) // degenerate case
}

func (p *pather) Line(b fixed.Point26_6) {
	pb := svgdraw.FixedToPoint(b)
	p.pdf.LineTo(pb.X, pb.Y)
	p.extend(svgscene.MakeLine(p.a, pb).Bounds())
	p.a = pb
}

func (p *pather) CubeBezier(b, c, d fixed.Point26_6) {
	pb, pc, pd := svgdraw.FixedToPoint(b), svgdraw.FixedToPoint(c), svgdraw.FixedToPoint(d)
	p.pdf.CurveBezierCubicTo(pb.X, pb.Y, pc.X, pc.Y, pd.X, pd.Y)
	p.extend(svgscene.BezierSegment{P0: p.a, P1: pb, P2: pc, P3: pd}.Bounds())
	p.a = pd
}

func (p *pather) Stop(closeLoop bool) {
	if closeLoop {
		p.pdf.ClosePath()
	}
}

func (p *pather) setAlpha(alpha float64) {
	p.pdf.SetAlpha(alpha, "Normal")
}

func (f *filler) SetWinding(useNonZeroWinding bool) {
	f.useNonZeroWinding = useNonZeroWinding
}

// pdfImageTypes are the texture formats supported by gofpdf
var pdfImageTypes = map[string]string{
	"image/png":  "PNG",
	"image/jpeg": "JPG",
	"image/gif":  "GIF",
}

// textureType returns the gofpdf image type of the current paint,
// or false if it is not a supported texture
func (f *filler) textureType() (*svgscene.TextureFill, string, bool) {
	tex, ok := f.paint.Fill.(*svgscene.TextureFill)
	if !ok {
		return nil, "", false
	}
	imageType, ok := pdfImageTypes[tex.Texture.Format]
	return tex, imageType, ok
}

// SetPaint updates the graphic state, which must
// be done before adding the path.
func (f *filler) SetPaint(paint svgdraw.Paint) {
	f.paint = paint
	if _, _, isTexture := f.textureType(); isTexture {
		return
	}
	c := paint.Average()
	n := c.NRGBA()
	f.pdf.SetFillColor(int(n.R), int(n.G), int(n.B))
	f.setAlpha(c.A)
}

func (f *filler) Draw() {
	if tex, imageType, ok := f.textureType(); ok && f.hasBox {
		f.pdf.DrawPath("n") // the path only locates the image
		f.drawTexture(tex, imageType)
		return
	}
	styleStr := "F*"
	if f.useNonZeroWinding {
		styleStr = "F"
	}
	f.pdf.DrawPath(styleStr)
}

func (f *filler) drawTexture(tex *svgscene.TextureFill, imageType string) {
	name := fmt.Sprintf("texture-%p", tex)
	options := gofpdf.ImageOptions{ImageType: imageType}
	if info := f.pdf.GetImageInfo(name); info == nil {
		f.pdf.RegisterImageOptionsReader(name, options, bytes.NewReader(tex.Texture.Data))
	}
	f.setAlpha(f.paint.Opacity)
	box := f.boundingBox
	f.pdf.ImageOptions(name, box.Min.X, box.Min.Y, box.Size.X, box.Size.Y, false, options, 0, "")
}

// SetColor updates the graphic state, which must
// be done before adding the path.
func (s *stroker) SetColor(c svgscene.Color) {
	n := c.NRGBA()
	s.pdf.SetDrawColor(int(n.R), int(n.G), int(n.B))
	s.setAlpha(c.A)
}

var (
	capStyles  = [...]string{svgscene.Chop: "butt", svgscene.Square: "square", svgscene.RoundEnding: "round"}
	joinStyles = [...]string{svgscene.Tipped: "miter", svgscene.RoundCorner: "round", svgscene.Beveled: "bevel"}
)

// SetStrokeOptions must be called before adding
// the path, since it changes the graphic state.
func (s *stroker) SetStrokeOptions(options svgdraw.StrokeOptions) {
	s.pdf.SetLineWidth(float64(options.LineWidth) / 64)
	s.pdf.SetLineCapStyle(capStyles[options.Join.TrailLineCap])
	s.pdf.SetLineJoinStyle(joinStyles[options.Join.LineJoin])
	s.pdf.SetDashPattern(options.Dash.Dash, options.Dash.DashOffset)
}

func (s *stroker) Draw() { s.pdf.DrawPath("D") }
