package svgparse

import (
	"math"

	"github.com/benoitkugler/svgscene/svgpath"
	"github.com/benoitkugler/svgscene/svgscene"
)

// focusEpsilon keeps the radial focus strictly inside the unit circle
const focusEpsilon = 1e-6

// resolve is the second pass, run once the whole document is known.
// It computes the fill transforms of the gradients and wraps the clip
// paths expressed in bounding box units.
func (p *parser) resolve() error {
	for _, visit := range p.scene.WorldTransformedNodes(p.opacities) {
		for _, d := range p.scene.Nodes[visit.Node].Drawables {
			filled := svgscene.FillOf(d)
			if filled == nil {
				continue
			}
			grad, ok := filled.Fill.(*svgscene.GradientFill)
			if !ok {
				continue
			}
			def := p.gradients[grad]
			if def == nil {
				continue
			}
			bounds, _ := svgscene.DrawableBounds(d)
			m, err := p.gradientFillTransform(def, bounds, p.nodeContainer[visit.Node])
			if err != nil {
				return err
			}
			filled.FillTransform = m
		}
	}
	return p.resolveClips()
}

// unitsSpace returns the transform from the gradient units space
// to the shape space, and the context size used for percentages.
func (def *gradientDef) unitsSpace(bounds svgscene.Rect, container svgscene.Point) (svgscene.Matrix2D, svgscene.Point) {
	if def.userSpace {
		return svgscene.Identity, container
	}
	return svgscene.Identity.Translate(bounds.Min.X, bounds.Min.Y).Scale(bounds.Size.X, bounds.Size.Y), svgscene.Point{X: 1, Y: 1}
}

// evalGeometry evaluates the raw gradient attributes in the context `size`.
// Missing focus coordinates default to the center.
func (p *parser) evalGeometry(def *gradientDef, size svgscene.Point) (map[string]float64, error) {
	ctx := svgpath.LengthContext{DPIScale: p.opts.dpiScale(), Size: size}
	out := make(map[string]float64, len(def.geometry))
	for _, g := range def.geometry {
		v := g.value
		if v == "" {
			v = g.def
		}
		if v == "" {
			continue
		}
		f, err := svgpath.ParseLength(v, g.axis, ctx)
		if err != nil {
			return nil, err
		}
		out[g.name] = f
	}
	if def.fill.Type == svgscene.Radial {
		if _, ok := out["fx"]; !ok {
			out["fx"] = out["cx"]
		}
		if _, ok := out["fy"]; !ok {
			out["fy"] = out["cy"]
		}
	}
	return out, nil
}

// gradientFillTransform returns the transform mapping the space of a shape
// with bounding box `bounds` to the gradient space: for linear gradients,
// x goes from 0 at the start point to 1 at the end point; radial gradients
// are the unit circle.
func (p *parser) gradientFillTransform(def *gradientDef, bounds svgscene.Rect, container svgscene.Point) (svgscene.Matrix2D, error) {
	units, size := def.unitsSpace(bounds, container)
	values, err := p.evalGeometry(def, size)
	if err != nil {
		return svgscene.Identity, err
	}

	toGradient := units.Mult(def.transform)
	if !toGradient.IsInvertible() {
		Logger().Warn("gradient space is degenerate", "bounds", bounds, "transform", def.transform)
		toGradient = svgscene.Identity
	}
	q := toGradient.Invert()

	// every point maps to the last stop
	degenerate := svgscene.Matrix2D{E: 1}

	if def.fill.Type == svgscene.Linear {
		start := svgscene.Point{X: values["x1"], Y: values["y1"]}
		end := svgscene.Point{X: values["x2"], Y: values["y2"]}
		vector := end.Sub(start)
		length := vector.Length()
		if length == 0 {
			return degenerate, nil
		}
		theta := math.Atan2(vector.Y, vector.X)
		return svgscene.Identity.Scale(1/length, 1/length).Rotate(-theta).Translate(-start.X, -start.Y).Mult(q), nil
	}

	center := svgscene.Point{X: values["cx"], Y: values["cy"]}
	focus := svgscene.Point{X: values["fx"], Y: values["fy"]}
	r := values["r"]
	if r == 0 {
		return degenerate, nil
	}
	// the gradient is shared: the focus is computed for the first shape only
	if !def.focusResolved {
		def.fill.RadialFocus = clampFocus(focus.Sub(center).Scale(1 / r))
		def.focusResolved = true
	}
	return svgscene.Identity.Scale(1/r, 1/r).Translate(-center.X, -center.Y).Mult(q), nil
}

// clampFocus pulls `focus` strictly inside the unit circle.
func clampFocus(focus svgscene.Point) svgscene.Point {
	const max = 1 - focusEpsilon
	if l := focus.Length(); l > max {
		return focus.Scale(max / l)
	}
	return focus
}

// resolveClips sets the clipper of the nodes with a 'clip-path'.
// Clip paths in bounding box units are wrapped in a node mapping
// the unit square to the bounding box of the clipped node.
func (p *parser) resolveClips() error {
	for _, ref := range p.clipRefs {
		clipper, ok := p.lookupNode(ref.id)
		if !ok {
			if err := p.unsupported(ref.el, "referencing non-existent clip path (%s)", ref.id); err != nil {
				return err
			}
			continue
		}
		if p.bboxClippers[clipper] {
			bounds, _ := p.scene.NodeBounds(ref.node)
			wrapper := p.scene.NewNode()
			p.scene.Node(wrapper).Transform = svgscene.Identity.Translate(bounds.Min.X, bounds.Min.Y).Scale(bounds.Size.X, bounds.Size.Y)
			p.scene.AddChild(wrapper, clipper)
			clipper = wrapper
		}
		p.scene.Node(ref.node).Clipper = clipper
	}
	return nil
}
