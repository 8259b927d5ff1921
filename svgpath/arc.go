package svgpath

import (
	"math"

	"github.com/benoitkugler/svgscene/svgscene"
)

// maxSpan is the largest angle covered by one cubic segment.
const maxSpan = math.Pi / 8

// ellipse is the parametric curve
// center + Rotate(phi) * (rx cos(t), ry sin(t))
type ellipse struct {
	center   svgscene.Point
	rx, ry   float64
	sin, cos float64 // of phi
}

func (e ellipse) rotate(x, y float64) svgscene.Point {
	return svgscene.Point{X: x*e.cos - y*e.sin, Y: x*e.sin + y*e.cos}
}

func (e ellipse) point(t float64) svgscene.Point {
	return e.center.Add(e.rotate(e.rx*math.Cos(t), e.ry*math.Sin(t)))
}

// derivative returns the tangent vector at `t`.
func (e ellipse) derivative(t float64) svgscene.Point {
	return e.rotate(-e.rx*math.Sin(t), e.ry*math.Cos(t))
}

// centerArc converts the endpoint form of an arc to its ellipse,
// start angle and signed angular span. Radii too small to join the
// endpoints are scaled up, preserving their ratio.
// The radii must be non zero.
func centerArc(from, to svgscene.Point, rx, ry, phi float64, largeArc, sweep bool) (e ellipse, start, span float64) {
	e = ellipse{rx: math.Abs(rx), ry: math.Abs(ry), sin: math.Sin(phi), cos: math.Cos(phi)}

	// half chord, in the ellipse axes
	dx, dy := (from.X-to.X)/2, (from.Y-to.Y)/2
	x1 := e.cos*dx + e.sin*dy
	y1 := -e.sin*dx + e.cos*dy

	if lambda := x1*x1/(e.rx*e.rx) + y1*y1/(e.ry*e.ry); lambda > 1 {
		s := math.Sqrt(lambda)
		e.rx, e.ry = e.rx*s, e.ry*s
	}

	rx2, ry2 := e.rx*e.rx, e.ry*e.ry
	num := rx2*ry2 - rx2*y1*y1 - ry2*x1*x1
	den := rx2*y1*y1 + ry2*x1*x1
	var coef float64
	if num > 0 && den > 0 { // num is 0 up to rounding for scaled radii
		coef = math.Sqrt(num / den)
	}
	if largeArc == sweep {
		coef = -coef
	}
	cx, cy := coef*e.rx*y1/e.ry, -coef*e.ry*x1/e.rx
	mid := from.Add(to).Scale(0.5)
	e.center = mid.Add(e.rotate(cx, cy))

	start = math.Atan2((y1-cy)/e.ry, (x1-cx)/e.rx)
	end := math.Atan2((-y1-cy)/e.ry, (-x1-cx)/e.rx)
	span = end - start
	if sweep && span < 0 {
		span += 2 * math.Pi
	} else if !sweep && span > 0 {
		span -= 2 * math.Pi
	}
	return e, start, span
}

// arcSegments approximates the elliptical arc going from `from` to `to`, with
// radii (rx, ry) rotated by rotDeg degrees.
// The endpoints must be distinct and the radii non zero.
//
// Each segment follows L. Maisonobe, "Drawing an elliptical arc using
// polylines, quadratic or cubic Bezier curves", 2003.
func arcSegments(from, to svgscene.Point, rx, ry, rotDeg float64, largeArc, sweep bool) []svgscene.BezierSegment {
	e, start, span := centerArc(from, to, rx, ry, rotDeg*math.Pi/180, largeArc, sweep)

	n := int(math.Abs(span)/maxSpan) + 1
	step := span / float64(n)
	tan := math.Tan(step / 2)
	alpha := math.Sin(step) * (math.Sqrt(4+3*tan*tan) - 1) / 3

	out := make([]svgscene.BezierSegment, 0, n)
	p, dp := from, e.derivative(start)
	for i := 1; i <= n; i++ {
		t := start + step*float64(i)
		q, dq := e.point(t), e.derivative(t)
		if i == n {
			q = to // exact end point
		}
		out = append(out, svgscene.BezierSegment{
			P0: p,
			P1: p.Add(dp.Scale(alpha)),
			P2: q.Sub(dq.Scale(alpha)),
			P3: q,
		})
		p, dp = q, dq
	}
	return out
}
