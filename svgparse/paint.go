package svgparse

import (
	"github.com/benoitkugler/svgscene/svgerr"
	"github.com/benoitkugler/svgscene/svgpath"
	"github.com/benoitkugler/svgscene/svgscene"
	"github.com/benoitkugler/svgscene/svgstyle"
)

// parseFill returns the fill of the current element, or nil.
func (p *parser) parseFill(el *element) (svgscene.Fill, error) {
	opacity, err := p.number("fill-opacity", 1, svgstyle.Hierarchy)
	if err != nil {
		return nil, err
	}
	mode := svgscene.NonZero
	if rule, ok := p.cascade.Evaluate("fill-rule", svgstyle.Hierarchy); ok {
		switch rule {
		case "nonzero":
		case "evenodd":
			mode = svgscene.EvenOdd
		default:
			return nil, svgerr.NewAt(svgerr.InvalidAttributeValue, "fill-rule", -1, "unknown fill-rule %q", rule)
		}
	}

	value, ok := p.cascade.Evaluate("fill", svgstyle.Hierarchy)
	if !ok || value == "" {
		if opacity < 1 {
			return &svgscene.SolidFill{Color: svgscene.Black.WithAlpha(opacity), Mode: mode}, nil
		}
		return p.stockBlack[mode], nil
	}
	paint, err := svgpath.ParsePaint(value)
	if err != nil {
		return nil, svgerr.WithAttr(err, "fill")
	}
	return p.resolvePaint(el, paint, opacity, mode)
}

func (p *parser) resolvePaint(el *element, paint svgpath.Paint, opacity float64, mode svgscene.FillMode) (svgscene.Fill, error) {
	switch paint.Kind {
	case svgpath.PaintColor:
		return &svgscene.SolidFill{Color: paint.Color.WithAlpha(opacity), Mode: mode}, nil
	case svgpath.PaintRef:
		if obj, ok := p.named[paint.Ref]; ok && obj.fill != nil {
			return obj.fill, nil
		}
		if paint.Fallback != nil {
			return p.resolvePaint(el, *paint.Fallback, opacity, mode)
		}
		return nil, p.unsupported(el, "referencing non-existent paint (%s)", paint.Ref)
	default:
		return nil, nil
	}
}

// parseStroke returns the stroking style of the current element.
func (p *parser) parseStroke(el *element) (svgscene.PathProperties, error) {
	props := svgscene.PathProperties{Head: svgscene.Chop, Tail: svgscene.Chop, Corners: svgscene.Tipped}
	value, ok := p.cascade.Evaluate("stroke", svgstyle.Hierarchy)
	if !ok || value == "" {
		return props, nil
	}
	opacity, err := p.number("stroke-opacity", 1, svgstyle.Hierarchy)
	if err != nil {
		return props, err
	}
	paint, err := svgpath.ParsePaint(value)
	if err != nil {
		return props, svgerr.WithAttr(err, "stroke")
	}
	fill, err := p.resolvePaint(el, paint, opacity, svgscene.NonZero)
	if err != nil {
		return props, err
	}
	if fill == nil {
		return props, nil
	}
	solid, isSolid := fill.(*svgscene.SolidFill)
	if !isSolid {
		if paint.Fallback == nil || paint.Fallback.Kind != svgpath.PaintColor {
			return props, p.unsupported(el, "stroke fills other than a solid color are not supported")
		}
		solid = &svgscene.SolidFill{Color: paint.Fallback.Color.WithAlpha(opacity)}
	}

	stroke := &svgscene.Stroke{Color: solid.Color}
	width, err := p.hierarchyLength("stroke-width", 1)
	if err != nil {
		return props, err
	}
	stroke.HalfThickness = width / 2

	linecap, _ := p.cascade.Evaluate("stroke-linecap", svgstyle.Hierarchy)
	switch linecap {
	case "butt":
		props.Head = svgscene.Chop
	case "square":
		props.Head = svgscene.Square
	case "round":
		props.Head = svgscene.RoundEnding
	}
	props.Tail = props.Head

	join, _ := p.cascade.Evaluate("stroke-linejoin", svgstyle.Hierarchy)
	switch join {
	case "miter":
		props.Corners = svgscene.Tipped
	case "round":
		props.Corners = svgscene.RoundCorner
	case "bevel":
		props.Corners = svgscene.Beveled
	}

	if dashes, ok := p.cascade.Evaluate("stroke-dasharray", svgstyle.Hierarchy); ok && dashes != "none" {
		pattern, err := p.parseDashes(dashes)
		if err != nil {
			return props, err
		}
		stroke.Pattern = pattern
		if stroke.PatternOffset, err = p.hierarchyLength("stroke-dashoffset", 0); err != nil {
			return props, err
		}
	}

	if stroke.TippedCornerLimit, err = p.hierarchyLength("stroke-miterlimit", 4); err != nil {
		return props, err
	}
	if stroke.TippedCornerLimit < 1 {
		return props, svgerr.NewAt(svgerr.InvalidAttributeValue, "stroke-miterlimit", -1,
			"'stroke-miterlimit' should be greater or equal to 1, got %g", stroke.TippedCornerLimit)
	}

	props.Stroke = stroke
	return props, nil
}

func (p *parser) hierarchyLength(name string, def float64) (float64, error) {
	v, ok := p.cascade.Evaluate(name, svgstyle.Hierarchy)
	if !ok {
		return def, nil
	}
	return p.evalLength(v, name, svgpath.Length)
}

// parseDashes splits a dash array. An odd list is repeated
// to obtain an even number of entries.
func (p *parser) parseDashes(value string) ([]float64, error) {
	entries := splitList(value)
	out := make([]float64, 0, 2*len(entries))
	for _, entry := range entries {
		l, err := p.evalLength(entry, "stroke-dasharray", svgpath.Length)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if len(out)%2 == 1 {
		out = append(out, out...)
	}
	return out, nil
}
