package svgpath

import (
	"math"

	"github.com/benoitkugler/svgscene/svgerr"
	"github.com/benoitkugler/svgscene/svgscene"
)

type curveKind uint8

const (
	noCurve curveKind = iota
	cubicCurve
	quadCurve
)

// pathBuilder is the state machine used to parse path data.
type pathBuilder struct {
	sc  scanner
	cmd byte

	pen   svgscene.Point
	start svgscene.Point // first point of the current subpath

	// last control point, used by S and T
	lastCtrl svgscene.Point
	lastKind curveKind

	current  []svgscene.BezierSegment
	contours []svgscene.BezierContour
}

// ParsePath parses the 'd' attribute of a path element into
// a list of contours. Quadratic curves and arcs are converted to cubic curves.
func ParsePath(d string) ([]svgscene.BezierContour, error) {
	b := pathBuilder{sc: scanner{attr: "d", s: d}}
	cmd, err := b.nextCommand(true)
	if err != nil {
		return nil, err
	}
	if cmd != 'm' && cmd != 'M' {
		return nil, svgerr.NewAt(svgerr.InvalidPathStart, "d", 0, "path must start with a MoveTo command")
	}
	for cmd != 0 {
		if err = b.processCommand(); err != nil {
			return nil, err
		}
		cmd, err = b.nextCommand(false)
		if err != nil {
			return nil, err
		}
	}
	b.conclude(false)
	return b.contours, nil
}

// nextCommand returns the next command letter, or the previous one when
// a number follows, or 0 at the end of the input.
func (b *pathBuilder) nextCommand(noInheritance bool) (byte, error) {
	sc := &b.sc
	if sc.atEnd() {
		return 0, nil
	}
	c := sc.s[sc.pos]
	if isLetter(c) {
		b.cmd = c
		sc.pos++
		return c, nil
	}
	if !noInheritance && (isDigit(c) || c == '.' || c == '-') && b.cmd != 'z' && b.cmd != 'Z' {
		return b.cmd, nil
	}
	return 0, svgerr.NewAt(svgerr.InvalidAttributeValue, "d", sc.pos, "unexpected character %q at %d in path data", c, sc.pos)
}

func (b *pathBuilder) nextPoint(relative bool) (svgscene.Point, error) {
	p, err := b.sc.nextPoint()
	if relative {
		p = p.Add(b.pen)
	}
	return p, err
}

func (b *pathBuilder) addSegment(s svgscene.BezierSegment) {
	b.current = append(b.current, s)
	b.pen = s.P3
}

// conclude terminates the current contour.
func (b *pathBuilder) conclude(closed bool) {
	if len(b.current) != 0 {
		b.contours = append(b.contours, svgscene.ContourFromSegments(b.current, closed))
	}
	b.current = nil
}

// quadToCubic elevates the quadratic curve (p0, q, p3)
func quadToCubic(p0, q, p3 svgscene.Point) svgscene.BezierSegment {
	const t = 2. / 3
	return svgscene.BezierSegment{P0: p0, P1: p0.Lerp(q, t), P2: p3.Lerp(q, t), P3: p3}
}

// reflected returns the reflection of the last control point
// through the pen, if the previous segment was a curve of the given kind.
func (b *pathBuilder) reflected(kind curveKind) svgscene.Point {
	if b.lastKind != kind {
		return b.pen
	}
	return b.pen.Scale(2).Sub(b.lastCtrl)
}

func (b *pathBuilder) processCommand() error {
	relative := 'a' <= b.cmd && b.cmd <= 'z'
	kind := noCurve
	switch b.cmd {
	case 'm', 'M':
		to, err := b.nextPoint(relative)
		if err != nil {
			return err
		}
		b.conclude(false)
		b.pen, b.start = to, to
		// subsequent pairs are implicit line-to
		if relative {
			b.cmd = 'l'
		} else {
			b.cmd = 'L'
		}
	case 'z', 'Z':
		b.pen = b.start
		b.conclude(true)
	case 'l', 'L':
		to, err := b.nextPoint(relative)
		if err != nil {
			return err
		}
		b.addSegment(svgscene.MakeLine(b.pen, to))
	case 'h', 'H':
		x, err := b.sc.nextFloat()
		if err != nil {
			return err
		}
		if relative {
			x += b.pen.X
		}
		b.addSegment(svgscene.MakeLine(b.pen, svgscene.Point{X: x, Y: b.pen.Y}))
	case 'v', 'V':
		y, err := b.sc.nextFloat()
		if err != nil {
			return err
		}
		if relative {
			y += b.pen.Y
		}
		b.addSegment(svgscene.MakeLine(b.pen, svgscene.Point{X: b.pen.X, Y: y}))
	case 'c', 'C', 's', 'S':
		seg := svgscene.BezierSegment{P0: b.pen}
		var err error
		if b.cmd == 'c' || b.cmd == 'C' {
			if seg.P1, err = b.nextPoint(relative); err != nil {
				return err
			}
		} else {
			seg.P1 = b.reflected(cubicCurve)
		}
		if seg.P2, err = b.nextPoint(relative); err != nil {
			return err
		}
		if seg.P3, err = b.nextPoint(relative); err != nil {
			return err
		}
		b.addSegment(seg)
		kind, b.lastCtrl = cubicCurve, seg.P2
	case 'q', 'Q', 't', 'T':
		var (
			q   svgscene.Point
			err error
		)
		if b.cmd == 'q' || b.cmd == 'Q' {
			if q, err = b.nextPoint(relative); err != nil {
				return err
			}
		} else {
			q = b.reflected(quadCurve)
		}
		to, err := b.nextPoint(relative)
		if err != nil {
			return err
		}
		b.addSegment(quadToCubic(b.pen, q, to))
		kind, b.lastCtrl = quadCurve, q
	case 'a', 'A':
		if err := b.arc(relative); err != nil {
			return err
		}
	default:
		return svgerr.NewAt(svgerr.InvalidAttributeValue, "d", b.sc.pos-1, "unknown path command %q", b.cmd)
	}
	b.lastKind = kind
	return nil
}

func (b *pathBuilder) arc(relative bool) error {
	radii, err := b.sc.nextPoint()
	if err != nil {
		return err
	}
	rot, err := b.sc.nextFloat()
	if err != nil {
		return err
	}
	largeArc, err := b.sc.nextFlag()
	if err != nil {
		return err
	}
	sweep, err := b.sc.nextFlag()
	if err != nil {
		return err
	}
	to, err := b.nextPoint(relative)
	if err != nil {
		return err
	}

	if to == b.pen { // the arc is omitted
		return nil
	}
	if math.Hypot(radii.X, radii.Y) <= epsilon || radii.X == 0 || radii.Y == 0 {
		b.addSegment(svgscene.MakeLine(b.pen, to))
		return nil
	}
	for _, seg := range arcSegments(b.pen, to, radii.X, radii.Y, rot, largeArc, sweep) {
		b.addSegment(seg)
	}
	return nil
}
