package svgscene

// Drawable is one of *Path, *Shape, *Rectangle.
type Drawable interface {
	isDrawable()
	// PathProps returns the stroking style.
	PathProps() PathProperties
}

func (*Path) isDrawable()      {}
func (*Shape) isDrawable()     {}
func (*Rectangle) isDrawable() {}

func (p *Path) PathProps() PathProperties      { return p.Props }
func (s *Shape) PathProps() PathProperties     { return s.Props }
func (r *Rectangle) PathProps() PathProperties { return r.Props }

// Filled is embedded in the drawables supporting a fill.
type Filled struct {
	Fill Fill // nil for no fill
	// FillTransform maps the drawable space to the
	// gradient space. It is only meaningful for gradients,
	// and set once the whole document is known.
	FillTransform Matrix2D
}

// FillOf returns the fill part of `d`, or nil for paths.
func FillOf(d Drawable) *Filled {
	switch d := d.(type) {
	case *Shape:
		return &d.Filled
	case *Rectangle:
		return &d.Filled
	}
	return nil
}

// Path is a single stroked contour.
type Path struct {
	Contour BezierContour
	Props   PathProperties
}

// Shape is a set of contours, filled and stroked together.
type Shape struct {
	Contours []BezierContour
	Filled
	Props PathProperties
}

// Rectangle is an axis aligned rectangle, with optional
// elliptical corners (a radius of (0,0) is a sharp corner).
type Rectangle struct {
	Position Point
	Size     Point

	RadiusTL, RadiusTR, RadiusBL, RadiusBR Point

	Filled
	Props PathProperties
}

// Rect returns the rectangle geometry.
func (r *Rectangle) Rect() Rect { return Rect{Min: r.Position, Size: r.Size} }
