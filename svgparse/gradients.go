package svgparse

import (
	"math"
	"strings"

	"github.com/benoitkugler/svgscene/svgerr"
	"github.com/benoitkugler/svgscene/svgpath"
	"github.com/benoitkugler/svgscene/svgscene"
	"github.com/benoitkugler/svgscene/svgstyle"
)

// gradientGeometry stores the raw geometry attributes of a gradient.
// Percentages are relative to the referencing shape, so that these
// values are only evaluated once the document is known.
type gradientGeometry struct {
	name  string
	value string // empty for missing attributes
	def   string // used when value is empty
	axis  svgpath.Axis
}

// gradientDef stores what is needed to resolve the
// fill transforms of a gradient.
type gradientDef struct {
	fill *svgscene.GradientFill

	userSpace bool // gradientUnits="userSpaceOnUse"
	transform svgscene.Matrix2D

	// x1, y1, x2, y2 for linear gradients,
	// cx, cy, r, fx, fy for radial ones
	geometry []gradientGeometry

	focusResolved bool
}

func (p *parser) parseGradient(el *element, kind svgscene.GradientType) (*gradientDef, error) {
	def := &gradientDef{fill: &svgscene.GradientFill{Type: kind}}
	switch units := el.attrs["gradientUnits"]; units {
	case "", "objectBoundingBox":
	case "userSpaceOnUse":
		def.userSpace = true
	default:
		return nil, svgerr.NewAt(svgerr.InvalidAttributeValue, "gradientUnits", -1, "unsupported value %q", units)
	}
	switch spread := el.attrs["spreadMethod"]; spread {
	case "", "pad":
		def.fill.Addressing = svgscene.Clamp
	case "reflect":
		def.fill.Addressing = svgscene.Mirror
	case "repeat":
		def.fill.Addressing = svgscene.Wrap
	default:
		return nil, svgerr.NewAt(svgerr.InvalidAttributeValue, "spreadMethod", -1, "unsupported value %q", spread)
	}
	var err error
	if def.transform, err = transform(el, "gradientTransform"); err != nil {
		return nil, err
	}

	if kind == svgscene.Linear {
		def.geometry = []gradientGeometry{
			{name: "x1", def: "0", axis: svgpath.Width},
			{name: "y1", def: "0", axis: svgpath.Height},
			{name: "x2", def: "100%", axis: svgpath.Width},
			{name: "y2", def: "0", axis: svgpath.Height},
		}
	} else {
		def.geometry = []gradientGeometry{
			{name: "cx", def: "50%", axis: svgpath.Width},
			{name: "cy", def: "50%", axis: svgpath.Height},
			{name: "r", def: "50%", axis: svgpath.Length},
			{name: "fx", axis: svgpath.Width},  // defaults to cx
			{name: "fy", axis: svgpath.Height}, // defaults to cy
		}
	}

	// only validate the values: they are evaluated for each shape
	p.pushContainer(svgscene.Point{X: 1, Y: 1})
	for i := range def.geometry {
		g := &def.geometry[i]
		v, ok := p.cascade.Evaluate(g.name, svgstyle.Single)
		if !ok {
			continue
		}
		g.value = strings.TrimSpace(v)
		if _, err := p.evalLength(g.value, g.name, g.axis); err != nil {
			return nil, err
		}
	}
	if err := p.popContainer(); err != nil {
		return nil, err
	}

	p.gradients[def.fill] = def
	p.register(el, namedObject{node: svgscene.NoNode, fill: def.fill})
	return def, nil
}

func (p *parser) linearGradient(el *element) error {
	def, err := p.parseGradient(el, svgscene.Linear)
	if err != nil {
		return err
	}
	return p.parseChildren(el, linearGradientElement, svgscene.NoNode, def)
}

func (p *parser) radialGradient(el *element) error {
	def, err := p.parseGradient(el, svgscene.Radial)
	if err != nil {
		return err
	}
	return p.parseChildren(el, radialGradientElement, svgscene.NoNode, def)
}

// stop appends a color stop to `grad`.
func (p *parser) stop(el *element, grad *gradientDef) error {
	if grad == nil {
		return svgerr.New(svgerr.StackMismatch, "<stop> outside of a gradient")
	}
	color := svgscene.Black
	if v, ok := p.cascade.Evaluate("stop-color", svgstyle.Single); ok {
		var err error
		if color, err = svgpath.ParseColor(v); err != nil {
			return svgerr.WithAttr(err, "stop-color")
		}
	}
	opacity, err := p.number("stop-opacity", 1, svgstyle.Single)
	if err != nil {
		return err
	}
	stop := svgscene.GradientStop{Color: color.WithAlpha(opacity)}

	if v, _ := p.cascade.Evaluate("offset", svgstyle.Single); v != "" {
		v = strings.TrimSpace(v)
		percentage := strings.HasSuffix(v, "%")
		offset, err := svgpath.ParseFloat(strings.TrimSuffix(v, "%"))
		if err != nil {
			return svgerr.WithAttr(err, "offset")
		}
		if percentage {
			offset /= 100
		}
		stop.Offset = math.Max(0, math.Min(1, offset))
	}

	grad.fill.Stops = append(grad.fill.Stops, stop)
	return nil
}
