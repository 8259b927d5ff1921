package svgparse

import (
	"math"
	"strings"

	"github.com/benoitkugler/svgscene/svgerr"
	"github.com/benoitkugler/svgscene/svgpath"
	"github.com/benoitkugler/svgscene/svgscene"
)

// splitList splits on white spaces and commas.
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ' ', '\r', '\n', '\t', ',':
			return true
		}
		return false
	})
}

// shapeStyle reads the attributes shared by all the shapes:
// opacity, transform, fill and stroke.
func (p *parser) shapeStyle(el *element, node svgscene.NodeID, filled bool) (fill svgscene.Fill, props svgscene.PathProperties, err error) {
	if err = p.nodeBasics(el, node); err != nil {
		return
	}
	if filled {
		if fill, err = p.parseFill(el); err != nil {
			return
		}
	}
	props, err = p.parseStroke(el)
	return
}

// setDrawable concludes the handling of a shape element.
// `d` is nil for shapes without geometry, or whose drawables are already set.
func (p *parser) setDrawable(el *element, node svgscene.NodeID, d svgscene.Drawable) error {
	if d != nil {
		p.scene.Node(node).Drawables = []svgscene.Drawable{d}
	}
	if err := p.parseClip(el, node); err != nil {
		return err
	}
	p.registerNode(el, node)
	return nil
}

func (p *parser) path(el *element, node svgscene.NodeID) error {
	fill, props, err := p.shapeStyle(el, node, true)
	if err != nil {
		return err
	}
	d, ok := el.attrs["d"]
	if !ok {
		return svgerr.NewAt(svgerr.InvalidAttributeValue, "d", -1, "missing path data")
	}
	var contours []svgscene.BezierContour
	// an empty 'd' disables the rendering of the path
	if strings.TrimSpace(d) != "" {
		if contours, err = svgpath.ParsePath(d); err != nil {
			return svgerr.WithAttr(err, "d")
		}
	}
	if len(contours) != 0 {
		n := p.scene.Node(node)
		if fill == nil {
			for _, c := range contours {
				n.Drawables = append(n.Drawables, &svgscene.Path{Contour: c, Props: props})
			}
		} else {
			n.Drawables = []svgscene.Drawable{&svgscene.Shape{
				Contours: contours,
				Filled:   svgscene.Filled{Fill: fill, FillTransform: svgscene.Identity},
				Props:    props,
			}}
		}
	}
	return p.setDrawable(el, node, nil)
}

func (p *parser) rect(el *element, node svgscene.NodeID) error {
	fill, props, err := p.shapeStyle(el, node, true)
	if err != nil {
		return err
	}
	var x, y, rx, ry, width, height float64
	for _, attr := range [...]struct {
		name string
		def  float64
		axis svgpath.Axis
		dst  *float64
	}{
		{"x", 0, svgpath.Width, &x},
		{"y", 0, svgpath.Height, &y},
		{"rx", -1, svgpath.Length, &rx},
		{"ry", -1, svgpath.Length, &ry},
		{"width", 0, svgpath.Length, &width},
		{"height", 0, svgpath.Length, &height},
	} {
		if *attr.dst, err = p.length(el, attr.name, attr.def, attr.axis); err != nil {
			return err
		}
	}

	switch {
	case rx < 0 && ry >= 0:
		rx = ry
	case ry < 0 && rx >= 0:
		ry = rx
	case rx < 0 && ry < 0:
		rx, ry = 0, 0
	}
	rx = math.Min(rx, width/2)
	ry = math.Min(ry, height/2)

	radius := svgscene.Point{X: rx, Y: ry}
	r := &svgscene.Rectangle{
		Position: svgscene.Point{X: x, Y: y},
		Size:     svgscene.Point{X: width, Y: height},
		RadiusTL: radius, RadiusTR: radius, RadiusBL: radius, RadiusBR: radius,
		Filled: svgscene.Filled{Fill: fill, FillTransform: svgscene.Identity},
		Props:  props,
	}
	return p.setDrawable(el, node, r)
}

// ellipseRect returns the rectangle with fully rounded
// corners equivalent to the given ellipse.
func ellipseRect(center svgscene.Point, rx, ry float64, fill svgscene.Fill, props svgscene.PathProperties) *svgscene.Rectangle {
	radius := svgscene.Point{X: rx, Y: ry}
	return &svgscene.Rectangle{
		Position: center.Sub(radius),
		Size:     radius.Scale(2),
		RadiusTL: radius, RadiusTR: radius, RadiusBL: radius, RadiusBR: radius,
		Filled: svgscene.Filled{Fill: fill, FillTransform: svgscene.Identity},
		Props:  props,
	}
}

func (p *parser) center(el *element) (c svgscene.Point, err error) {
	if c.X, err = p.length(el, "cx", 0, svgpath.Width); err != nil {
		return
	}
	c.Y, err = p.length(el, "cy", 0, svgpath.Height)
	return
}

func (p *parser) circle(el *element, node svgscene.NodeID) error {
	fill, props, err := p.shapeStyle(el, node, true)
	if err != nil {
		return err
	}
	c, err := p.center(el)
	if err != nil {
		return err
	}
	r, err := p.length(el, "r", 0, svgpath.Length)
	if err != nil {
		return err
	}
	return p.setDrawable(el, node, ellipseRect(c, r, r, fill, props))
}

func (p *parser) ellipse(el *element, node svgscene.NodeID) error {
	fill, props, err := p.shapeStyle(el, node, true)
	if err != nil {
		return err
	}
	c, err := p.center(el)
	if err != nil {
		return err
	}
	rx, err := p.length(el, "rx", 0, svgpath.Length)
	if err != nil {
		return err
	}
	ry, err := p.length(el, "ry", 0, svgpath.Length)
	if err != nil {
		return err
	}
	return p.setDrawable(el, node, ellipseRect(c, rx, ry, fill, props))
}

func (p *parser) line(el *element, node svgscene.NodeID) error {
	_, props, err := p.shapeStyle(el, node, false)
	if err != nil {
		return err
	}
	var coords [4]float64
	for i, name := range [4]string{"x1", "y1", "x2", "y2"} {
		axis := svgpath.Width
		if i%2 == 1 {
			axis = svgpath.Height
		}
		if coords[i], err = p.length(el, name, 0, axis); err != nil {
			return err
		}
	}
	seg := svgscene.MakeLine(svgscene.Point{X: coords[0], Y: coords[1]}, svgscene.Point{X: coords[2], Y: coords[3]})
	path := &svgscene.Path{Contour: svgscene.ContourFromSegments([]svgscene.BezierSegment{seg}, false), Props: props}
	return p.setDrawable(el, node, path)
}

// poly handles <polygon> (closed) and <polyline> (open).
func (p *parser) poly(el *element, node svgscene.NodeID, closed bool) error {
	fill, props, err := p.shapeStyle(el, node, closed)
	if err != nil {
		return err
	}
	raw, ok := el.attrs["points"]
	if !ok {
		return p.setDrawable(el, node, nil)
	}
	values := splitList(raw)
	if len(values)%2 == 1 {
		return svgerr.NewAt(svgerr.InvalidAttributeValue, "points", -1, "%s 'points' must specify x,y for each coordinate", el.name)
	}
	if len(values) < 4 {
		return svgerr.NewAt(svgerr.InvalidAttributeValue, "points", -1, "%s 'points' do not even specify one line", el.name)
	}
	points := make([]svgscene.Point, len(values)/2)
	for i := range points {
		if points[i].X, err = p.evalLength(values[2*i], "points", svgpath.Width); err != nil {
			return err
		}
		if points[i].Y, err = p.evalLength(values[2*i+1], "points", svgpath.Height); err != nil {
			return err
		}
	}
	segs := make([]svgscene.BezierSegment, len(points)-1)
	for i := range segs {
		segs[i] = svgscene.MakeLine(points[i], points[i+1])
	}
	contour := svgscene.ContourFromSegments(segs, closed)
	if closed {
		return p.setDrawable(el, node, &svgscene.Shape{
			Contours: []svgscene.BezierContour{contour},
			Filled:   svgscene.Filled{Fill: fill, FillTransform: svgscene.Identity},
			Props:    props,
		})
	}
	return p.setDrawable(el, node, &svgscene.Path{Contour: contour, Props: props})
}
