package svgdraw

import (
	"github.com/benoitkugler/svgscene/svgscene"
	"golang.org/x/image/math/fixed"
)

// Drawer knows how to do the actual draw operations
// but doesn't need any SVG knowledge.
// In particular, transformation matrices are already applied to the points
// before sending them to the Drawer.
type Drawer interface {
	// Clear must reset the internal state (used before starting a new path painting)
	Clear()

	// Start starts a new contour at the given point.
	Start(a fixed.Point26_6)

	// Line adds a line from the current point to `b`
	Line(b fixed.Point26_6)

	// CubeBezier adds a cubic bezier curve to the path
	CubeBezier(b, c, d fixed.Point26_6)

	// Stop closes the contour to the start point if `closeLoop` is true
	Stop(closeLoop bool)

	// Draw fills or strokes the accumulated path using the current settings
	Draw()
}

type Filler interface {
	Drawer

	// SetWinding selects the NonZero (true) or EvenOdd (false) rule for the current path
	SetWinding(useNonZeroWinding bool)

	// SetPaint sets the fill of the current path.
	// It is called before the path is built.
	SetPaint(paint Paint)
}

type Stroker interface {
	Drawer

	// SetStrokeOptions parametrizes the stroking style for the current path.
	// It is called before the path is built.
	SetStrokeOptions(options StrokeOptions)

	// SetColor sets the color of the current path, opacity already applied.
	// It is called before the path is built.
	SetColor(color svgscene.Color)
}

type Driver interface {
	// SetupDrawers returns the backend painters, and
	// will be called at the beginning of every drawable.
	// If the `willXXX` boolean is false, the returned drawer should be nil
	// to avoid useless operations.
	// When both booleans are true, one can assume that the exact same draw operations
	// will be performed on the Filler first and then on the Stroker.
	SetupDrawers(willFill, willStroke bool) (Filler, Stroker)
}

type DashOptions struct {
	Dash       []float64 // values for the dash pattern (nil or an empty slice for no dashes)
	DashOffset float64   // starting offset into the dash array
}

type JoinOptions struct {
	MiterLimit   fixed.Int26_6 // the miter cutoff value, only used for Tipped corners
	LineJoin     svgscene.PathCorner
	LeadLineCap  svgscene.PathEnding
	TrailLineCap svgscene.PathEnding
}

// StrokeOptions are expressed in device space.
type StrokeOptions struct {
	LineWidth fixed.Int26_6 // full width of the line
	Join      JoinOptions
	Dash      DashOptions
}

func toFixed(p svgscene.Point) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(p.X * 64), Y: fixed.Int26_6(p.Y * 64)}
}

// FixedToPoint converts back a point sent to a Drawer.
func FixedToPoint(a fixed.Point26_6) svgscene.Point {
	return svgscene.Point{X: float64(a.X) / 64, Y: float64(a.Y) / 64}
}
