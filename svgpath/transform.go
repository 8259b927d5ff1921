package svgpath

import (
	"math"

	"github.com/benoitkugler/svgscene/svgerr"
	"github.com/benoitkugler/svgscene/svgscene"
)

// ParseTransform parses a transform list, such as
// "translate(10 20) rotate(45, 5, 5)". The commands are
// composed from left to right.
func ParseTransform(s string) (svgscene.Matrix2D, error) {
	sc := scanner{attr: "transform", s: s}
	out := svgscene.Identity
	for !sc.atEnd() {
		cmdPos := sc.pos
		cmd := sc.nextWord()
		if cmd == "" {
			return out, svgerr.NewAt(svgerr.InvalidTransform, sc.attr, sc.pos, "unexpected character %q at %d", sc.s[sc.pos], sc.pos)
		}
		if err := sc.skipSymbol('(', svgerr.InvalidTransform); err != nil {
			return out, err
		}
		m, err := sc.transformArgs(cmd, cmdPos)
		if err != nil {
			return out, err
		}
		if err := sc.skipSymbol(')', svgerr.InvalidTransform); err != nil {
			return out, err
		}
		out = out.Mult(m)
	}
	return out, nil
}

func (sc *scanner) transformArgs(cmd string, cmdPos int) (svgscene.Matrix2D, error) {
	var args [6]float64
	// reads n mandatory arguments
	read := func(n int) error {
		for i := 0; i < n; i++ {
			var err error
			if args[i], err = sc.nextFloat(); err != nil {
				return err
			}
		}
		return nil
	}
	// an unclosed list ends the arguments, and is reported by the caller
	optional := func() bool { return !sc.atEnd() && !sc.peekSymbol(')') }

	switch cmd {
	case "matrix":
		if err := read(6); err != nil {
			return svgscene.Matrix2D{}, err
		}
		return svgscene.Matrix2D{A: args[0], B: args[1], C: args[2], D: args[3], E: args[4], F: args[5]}, nil
	case "translate":
		if err := read(1); err != nil {
			return svgscene.Matrix2D{}, err
		}
		if optional() {
			var err error
			if args[1], err = sc.nextFloat(); err != nil {
				return svgscene.Matrix2D{}, err
			}
		}
		return svgscene.Identity.Translate(args[0], args[1]), nil
	case "scale":
		if err := read(1); err != nil {
			return svgscene.Matrix2D{}, err
		}
		y := args[0]
		if optional() {
			var err error
			if y, err = sc.nextFloat(); err != nil {
				return svgscene.Matrix2D{}, err
			}
		}
		return svgscene.Identity.Scale(args[0], y), nil
	case "rotate":
		a, err := sc.nextFloat()
		if err != nil {
			return svgscene.Matrix2D{}, err
		}
		a *= math.Pi / 180
		if !optional() {
			return svgscene.Identity.Rotate(a), nil
		}
		if err := read(2); err != nil {
			return svgscene.Matrix2D{}, err
		}
		cx, cy := args[0], args[1]
		return svgscene.Identity.Translate(cx, cy).Rotate(a).Translate(-cx, -cy), nil
	case "skewX", "skewY":
		a, err := sc.nextFloat()
		if err != nil {
			return svgscene.Matrix2D{}, err
		}
		a *= math.Pi / 180
		if cmd == "skewX" {
			return svgscene.Identity.SkewX(a), nil
		}
		return svgscene.Identity.SkewY(a), nil
	default:
		return svgscene.Matrix2D{}, svgerr.NewAt(svgerr.InvalidTransform, sc.attr, cmdPos, "unknown transform command %q at %d", cmd, cmdPos)
	}
}
