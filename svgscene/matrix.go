package svgscene

import (
	"fmt"
	"math"
)

// Point is a 2D point or vector.
type Point struct{ X, Y float64 }

func (p Point) Add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }
func (p Point) Length() float64       { return math.Hypot(p.X, p.Y) }
func (p Point) String() string        { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

// Lerp returns the point at parameter t on the segment [p, q].
func (p Point) Lerp(q Point, t float64) Point { return p.Add(q.Sub(p).Scale(t)) }

// Rect is an axis aligned rectangle, given by its top-left corner and size.
type Rect struct {
	Min  Point
	Size Point
}

// Max returns the bottom-right corner.
func (r Rect) Max() Point { return r.Min.Add(r.Size) }

// IsEmpty returns true if `r` has a zero (or negative) dimension.
func (r Rect) IsEmpty() bool { return r.Size.X <= 0 || r.Size.Y <= 0 }

// Union returns the smallest rectangle containing both `r` and `o`.
func (r Rect) Union(o Rect) Rect {
	min := Point{math.Min(r.Min.X, o.Min.X), math.Min(r.Min.Y, o.Min.Y)}
	rm, om := r.Max(), o.Max()
	max := Point{math.Max(rm.X, om.X), math.Max(rm.Y, om.Y)}
	return Rect{Min: min, Size: max.Sub(min)}
}

// Matrix2D represents an affine transformation:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the identity transform.
var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

// Mult returns a * b, that is the transform applying
// `b` first and then `a`.
func (a Matrix2D) Mult(b Matrix2D) Matrix2D {
	return Matrix2D{
		A: a.A*b.A + a.C*b.B,
		B: a.B*b.A + a.D*b.B,
		C: a.A*b.C + a.C*b.D,
		D: a.B*b.C + a.D*b.D,
		E: a.A*b.E + a.C*b.F + a.E,
		F: a.B*b.E + a.D*b.F + a.F,
	}
}

// Determinant returns A*D - B*C.
func (a Matrix2D) Determinant() float64 { return a.A*a.D - a.B*a.C }

// IsInvertible returns false for degenerated transforms.
func (a Matrix2D) IsInvertible() bool { return math.Abs(a.Determinant()) > 1e-12 }

// Invert returns the inverse matrix. It must
// only be called on invertible matrices.
func (a Matrix2D) Invert() Matrix2D {
	det := a.Determinant()
	return Matrix2D{
		A: a.D / det,
		B: -a.B / det,
		C: -a.C / det,
		D: a.A / det,
		E: (a.C*a.F - a.D*a.E) / det,
		F: (a.B*a.E - a.A*a.F) / det,
	}
}

// Transform applies the matrix to the point (x1, y1).
func (a Matrix2D) Transform(x1, y1 float64) (x2, y2 float64) {
	return x1*a.A + y1*a.C + a.E, x1*a.B + y1*a.D + a.F
}

// Apply is the same as Transform, for a Point.
func (a Matrix2D) Apply(p Point) Point {
	x, y := a.Transform(p.X, p.Y)
	return Point{x, y}
}

// TransformVector ignores the translation part.
func (a Matrix2D) TransformVector(x1, y1 float64) (x2, y2 float64) {
	return x1*a.A + y1*a.C, x1*a.B + y1*a.D
}

// Translate returns a * translation(x, y).
func (a Matrix2D) Translate(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{1, 0, 0, 1, x, y})
}

// Scale returns a * scaling(x, y).
func (a Matrix2D) Scale(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{x, 0, 0, y, 0, 0})
}

// Rotate returns a * rotation(theta), with theta in radians.
func (a Matrix2D) Rotate(theta float64) Matrix2D {
	s, c := math.Sincos(theta)
	return a.Mult(Matrix2D{c, s, -s, c, 0, 0})
}

// SkewX returns a * skewX(theta), with theta in radians.
func (a Matrix2D) SkewX(theta float64) Matrix2D {
	return a.Mult(Matrix2D{1, 0, math.Tan(theta), 1, 0, 0})
}

// SkewY returns a * skewY(theta), with theta in radians.
func (a Matrix2D) SkewY(theta float64) Matrix2D {
	return a.Mult(Matrix2D{1, math.Tan(theta), 0, 1, 0, 0})
}

// TransformRect returns the bounding box of the image of `r`.
func (a Matrix2D) TransformRect(r Rect) Rect {
	max := r.Max()
	corners := [4]Point{r.Min, {max.X, r.Min.Y}, max, {r.Min.X, max.Y}}
	return pointsBounds(corners[:], a)
}

func pointsBounds(pts []Point, m Matrix2D) Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		p = m.Apply(p)
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return Rect{Min: Point{minX, minY}, Size: Point{maxX - minX, maxY - minY}}
}

func (a Matrix2D) String() string {
	return fmt.Sprintf("matrix(%g %g %g %g %g %g)", a.A, a.B, a.C, a.D, a.E, a.F)
}
