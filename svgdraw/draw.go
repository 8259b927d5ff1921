// Given a compiled scene, implements how to
// draw it on screen.
// This requires a driver implementing the actual draw operations,
// such as a rasterizer to output .png images or a pdf writer.
//
// Group opacities are applied to each drawable, without
// offscreen compositing. Clip paths are not rendered.
package svgdraw

import (
	"bytes"
	"image"
	"math"

	"github.com/benoitkugler/svgscene/svgscene"
	"github.com/pkg/errors"
	"golang.org/x/image/math/fixed"
)

// Bounds returns the extent of `scene`, in the space of
// its parent (that is, with the root transform applied).
func Bounds(scene *svgscene.Scene) (svgscene.Rect, bool) {
	r, ok := scene.NodeBounds(scene.Root)
	if !ok {
		return r, false
	}
	return scene.Node(scene.Root).Transform.TransformRect(r), true
}

// Fit returns the transform mapping `bounds` into
// a (width, height) device, preserving the aspect ratio.
func Fit(bounds svgscene.Rect, width, height float64) svgscene.Matrix2D {
	if bounds.IsEmpty() {
		return svgscene.Identity
	}
	s := math.Min(width/bounds.Size.X, height/bounds.Size.Y)
	return svgscene.Identity.Scale(s, s).Translate(-bounds.Min.X, -bounds.Min.Y)
}

type painter struct {
	driver   Driver
	textures map[*svgscene.TextureFill]image.Image
}

// Draw renders `scene` into the driver `d`, where `target` maps
// the scene space to the device space.
// Textures are decoded with the formats registered in the image package.
func Draw(d Driver, scene *svgscene.Scene, opacities svgscene.NodeOpacities, target svgscene.Matrix2D) error {
	pt := painter{driver: d, textures: make(map[*svgscene.TextureFill]image.Image)}
	for _, visit := range scene.WorldTransformedNodes(opacities) {
		world := target.Mult(visit.WorldTransform)
		for _, drawable := range scene.Node(visit.Node).Drawables {
			if err := pt.drawTransformed(drawable, world, visit.WorldOpacity); err != nil {
				return err
			}
		}
	}
	return nil
}

func (pt *painter) texture(fill *svgscene.TextureFill) (image.Image, error) {
	if img, ok := pt.textures[fill]; ok {
		return img, nil
	}
	img, _, err := image.Decode(bytes.NewReader(fill.Texture.Data))
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s texture", fill.Texture.Format)
	}
	pt.textures[fill] = img
	return img, nil
}

func contours(d svgscene.Drawable) []svgscene.BezierContour {
	switch d := d.(type) {
	case *svgscene.Path:
		return []svgscene.BezierContour{d.Contour}
	case *svgscene.Shape:
		return d.Contours
	case *svgscene.Rectangle:
		return []svgscene.BezierContour{svgscene.RectangleContour(d)}
	}
	return nil
}

// drawTransformed draws `d` into the driver while applying transform `m`.
func (pt *painter) drawTransformed(d svgscene.Drawable, m svgscene.Matrix2D, opacity float64) error {
	if !m.IsInvertible() {
		return nil
	}
	var paint *Paint
	if filled := svgscene.FillOf(d); filled != nil && filled.Fill != nil {
		paint = &Paint{
			Fill:         filled.Fill,
			DeviceToFill: filled.FillTransform.Mult(m.Invert()),
			Opacity:      opacity,
		}
		if tex, ok := filled.Fill.(*svgscene.TextureFill); ok {
			img, err := pt.texture(tex)
			if err != nil {
				return err
			}
			paint.texture = img
		}
	}
	props := d.PathProps()

	cs := contours(d)
	filler, stroker := pt.driver.SetupDrawers(paint != nil, props.Stroke != nil)
	if filler != nil {
		filler.Clear()
		filler.SetWinding(paint.Fill.FillMode() == svgscene.NonZero)
		filler.SetPaint(*paint)
		for _, c := range cs {
			emitContour(filler, c, m)
		}
		filler.Draw()
	}

	if stroker != nil {
		stroker.Clear()
		stroker.SetStrokeOptions(strokeOptions(props, m))
		color := props.Stroke.Color
		color.A *= opacity
		stroker.SetColor(color)
		for _, c := range cs {
			emitContour(stroker, c, m)
		}
		stroker.Draw()
	}
	return nil
}

// scaleFactor is the mean scaling applied by `m`, used for widths.
func scaleFactor(m svgscene.Matrix2D) float64 {
	return math.Sqrt(math.Abs(m.Determinant()))
}

func strokeOptions(props svgscene.PathProperties, m svgscene.Matrix2D) StrokeOptions {
	s := scaleFactor(m)
	opts := StrokeOptions{
		LineWidth: fixed.Int26_6(2 * props.Stroke.HalfThickness * s * 64),
		Join: JoinOptions{
			MiterLimit:   fixed.Int26_6(props.Stroke.TippedCornerLimit * 64),
			LineJoin:     props.Corners,
			LeadLineCap:  props.Head,
			TrailLineCap: props.Tail,
		},
	}
	if len(props.Stroke.Pattern) != 0 {
		opts.Dash.Dash = make([]float64, len(props.Stroke.Pattern))
		for i, v := range props.Stroke.Pattern {
			opts.Dash.Dash[i] = v * s
		}
		opts.Dash.DashOffset = props.Stroke.PatternOffset * s
	}
	return opts
}

// emitContour sends the transformed contour `c` to `dr`.
// Straight segments are sent as lines.
func emitContour(dr Drawer, c svgscene.BezierContour, m svgscene.Matrix2D) {
	if len(c.Segments) == 0 {
		return
	}
	dr.Start(toFixed(m.Apply(c.Segments[0].P0)))
	for _, s := range svgscene.ContourSegments(c) {
		if s == svgscene.MakeLine(s.P0, s.P3) {
			dr.Line(toFixed(m.Apply(s.P3)))
			continue
		}
		dr.CubeBezier(toFixed(m.Apply(s.P1)), toFixed(m.Apply(s.P2)), toFixed(m.Apply(s.P3)))
	}
	dr.Stop(c.Closed)
}
