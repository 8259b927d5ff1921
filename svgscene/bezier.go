package svgscene

import (
	"math"
)

// BezierPathSegment stores the start point and the two control
// points of a cubic segment. Its end point is the start of the next
// segment. For open contours, the last segment only carries the end
// point (in P0); for closed contours the last segment ends on the
// first start point.
type BezierPathSegment struct {
	P0, P1, P2 Point
}

// BezierSegment is a standalone cubic curve.
type BezierSegment struct {
	P0, P1, P2, P3 Point
}

type BezierContour struct {
	Segments []BezierPathSegment
	Closed   bool
}

// MakeLine returns the cubic segment equivalent to the line [from, to].
func MakeLine(from, to Point) BezierSegment {
	return BezierSegment{P0: from, P1: from.Lerp(to, 1./3), P2: from.Lerp(to, 2./3), P3: to}
}

// ContourSegments unpacks the cubic curves of `c`.
func ContourSegments(c BezierContour) []BezierSegment {
	n := len(c.Segments)
	if n == 0 {
		return nil
	}
	count := n - 1
	if c.Closed {
		count = n
	}
	out := make([]BezierSegment, 0, count)
	for i := 0; i < count; i++ {
		s := c.Segments[i]
		end := c.Segments[(i+1)%n].P0
		out = append(out, BezierSegment{P0: s.P0, P1: s.P1, P2: s.P2, P3: end})
	}
	return out
}

// ContourFromSegments packs a chain of cubic curves, where each curve
// starts at the end of the previous one.
func ContourFromSegments(segs []BezierSegment, closed bool) BezierContour {
	out := BezierContour{Closed: closed}
	if len(segs) == 0 {
		return out
	}
	for _, s := range segs {
		out.Segments = append(out.Segments, BezierPathSegment{P0: s.P0, P1: s.P1, P2: s.P2})
	}
	last := segs[len(segs)-1].P3
	if !closed {
		out.Segments = append(out.Segments, BezierPathSegment{P0: last, P1: last, P2: last})
	} else if last != segs[0].P0 {
		out.Segments = append(out.Segments, bezierPathSegment(MakeLine(last, segs[0].P0)))
	}
	return out
}

func bezierPathSegment(s BezierSegment) BezierPathSegment {
	return BezierPathSegment{P0: s.P0, P1: s.P1, P2: s.P2}
}

// kappa is the control point distance approximating a quarter of circle
const kappa = 0.5522847498307936

// RectangleContour returns the closed contour of `r`, including
// its rounded corners.
func RectangleContour(r *Rectangle) BezierContour {
	x0, y0 := r.Position.X, r.Position.Y
	x1, y1 := x0+r.Size.X, y0+r.Size.Y
	tl, tr, bl, br := r.RadiusTL, r.RadiusTR, r.RadiusBL, r.RadiusBR

	var segs []BezierSegment
	current := Point{x0 + tl.X, y0}
	lineTo := func(p Point) {
		if p != current {
			segs = append(segs, MakeLine(current, p))
			current = p
		}
	}
	// corner arcs the current point to `to`; `c1` and `c2` are the
	// tangent directions at both ends
	cornerTo := func(to Point, radius Point, horizontalFirst bool) {
		if radius.X == 0 || radius.Y == 0 {
			return
		}
		d := to.Sub(current)
		var c1, c2 Point
		if horizontalFirst {
			c1 = Point{current.X + d.X*kappa, current.Y}
			c2 = Point{to.X, to.Y - d.Y*kappa}
		} else {
			c1 = Point{current.X, current.Y + d.Y*kappa}
			c2 = Point{to.X - d.X*kappa, to.Y}
		}
		segs = append(segs, BezierSegment{P0: current, P1: c1, P2: c2, P3: to})
		current = to
	}

	lineTo(Point{x1 - tr.X, y0})
	cornerTo(Point{x1, y0 + tr.Y}, tr, true)
	lineTo(Point{x1, y1 - br.Y})
	cornerTo(Point{x1 - br.X, y1}, br, false)
	lineTo(Point{x0 + bl.X, y1})
	cornerTo(Point{x0, y1 - bl.Y}, bl, true)
	lineTo(Point{x0, y0 + tl.Y})
	cornerTo(Point{x0 + tl.X, y0}, tl, false)

	return ContourFromSegments(segs, true)
}

// cubic polinomial
// x = At^3 + Bt^2 + Ct + D
// where A,B,C,D:
// A = p3 -3 * p2 + 3 * p1 - p0
// B = 3 * p2 - 6 * p1 +3 * p0
// C = 3 * p1 - 3 * p0
// D = p0
func bezierSpline(p0, p1, p2, p3, t float64) float64 {
	return (p3-3*p2+3*p1-p0)*t*t*t +
		(3*p2-6*p1+3*p0)*t*t +
		(3*p1-3*p0)*t +
		(p0)
}

// Eval returns the point at parameter t.
func (s BezierSegment) Eval(t float64) Point {
	return Point{
		bezierSpline(s.P0.X, s.P1.X, s.P2.X, s.P3.X, t),
		bezierSpline(s.P0.Y, s.P1.Y, s.P2.Y, s.P3.Y, t),
	}
}

// X' = (3*p3-9*p2+9*p1-3*p0)t^2 + (6*p2-12*p1+6*p0)t + (3*p1-3*p0)
// taken as aX^2 + bX + c  a,b and c are:
func cubicDerivative(p0, p1, p2, p3 float64) (a, b, c float64) {
	return 3*p3 - 9*p2 + 9*p1 - 3*p0, 6*p2 - 12*p1 + 6*p0, 3*p1 - 3*p0
}

func quadraticRoots(a, b, c float64) []float64 {
	if math.Abs(a) < 1e-12 {
		if b == 0 {
			return nil
		}
		// bX + c : simple line
		return []float64{-c / b}
	}
	d := b*b - 4*a*c
	if d < 0 {
		return nil
	}
	sq := math.Sqrt(d)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}

// criticalPoints returns the parameters zeroing the derivative.
func (s BezierSegment) criticalPoints() []float64 {
	aX, bX, cX := cubicDerivative(s.P0.X, s.P1.X, s.P2.X, s.P3.X)
	aY, bY, cY := cubicDerivative(s.P0.Y, s.P1.Y, s.P2.Y, s.P3.Y)
	return append(quadraticRoots(aX, bX, cX), quadraticRoots(aY, bY, cY)...)
}

// Bounds returns the exact bounding box of the curve.
func (s BezierSegment) Bounds() Rect {
	pts := []Point{s.P0, s.P3}
	for _, t := range s.criticalPoints() {
		if 0 < t && t < 1 {
			pts = append(pts, s.Eval(t))
		}
	}
	return pointsBounds(pts, Identity)
}

// ContourBounds returns the bounding box of `c`, or false
// for an empty contour.
func ContourBounds(c BezierContour) (Rect, bool) {
	if len(c.Segments) == 0 {
		return Rect{}, false
	}
	out := Rect{Min: c.Segments[0].P0}
	for _, s := range ContourSegments(c) {
		out = out.Union(s.Bounds())
	}
	return out, true
}

// DrawableBounds returns the bounding box of `d`, in its local space.
func DrawableBounds(d Drawable) (Rect, bool) {
	switch d := d.(type) {
	case *Rectangle:
		return d.Rect(), true
	case *Path:
		return ContourBounds(d.Contour)
	case *Shape:
		var (
			out Rect
			ok  bool
		)
		for _, c := range d.Contours {
			r, has := ContourBounds(c)
			if !has {
				continue
			}
			if ok {
				out = out.Union(r)
			} else {
				out, ok = r, true
			}
		}
		return out, ok
	}
	return Rect{}, false
}

// NodeBounds returns the bounding box of the subtree rooted
// at `id`, expressed in the space of the node (that is, before
// the node transform). Clippers are ignored.
func (s *Scene) NodeBounds(id NodeID) (Rect, bool) {
	return s.nodeBounds(id, map[NodeID]bool{})
}

func (s *Scene) nodeBounds(id NodeID, onPath map[NodeID]bool) (out Rect, ok bool) {
	if onPath[id] {
		return Rect{}, false
	}
	onPath[id] = true
	defer delete(onPath, id)

	add := func(r Rect) {
		if ok {
			out = out.Union(r)
		} else {
			out, ok = r, true
		}
	}
	node := &s.Nodes[id]
	for _, d := range node.Drawables {
		if r, has := DrawableBounds(d); has {
			add(r)
		}
	}
	for _, child := range node.Children {
		if r, has := s.nodeBounds(child, onPath); has {
			add(s.Nodes[child].Transform.TransformRect(r))
		}
	}
	return out, ok
}
