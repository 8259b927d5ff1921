package svgparse

import (
	"strings"

	"github.com/benoitkugler/svgscene/svgerr"
	"github.com/benoitkugler/svgscene/svgscene"
	"github.com/benoitkugler/svgscene/svgstyle"
)

// svg handles the root element as well as nested ones, which
// establish a new viewport.
func (p *parser) svg(el *element, node svgscene.NodeID, defaultSize svgscene.Point) error {
	if err := p.nodeBasics(el, node); err != nil {
		return err
	}
	viewport, err := p.parseViewport(el, defaultSize)
	if err != nil {
		return err
	}
	vb, err := p.parseViewBox(el)
	if err != nil {
		return err
	}
	n := p.scene.Node(node)
	n.Transform = FitViewBox(n.Transform, vb.rect, viewport, vb.ratio)

	p.pushContainer(viewport.Size)
	p.nodeContainer[node] = viewport.Size
	if err := p.parseChildren(el, svgElement, node, nil); err != nil {
		return err
	}
	return p.popContainer()
}

func (p *parser) group(el *element, node svgscene.NodeID) error {
	if err := p.nodeBasics(el, node); err != nil {
		return err
	}
	if err := p.parseClip(el, node); err != nil {
		return err
	}
	p.registerNode(el, node)
	return p.parseChildren(el, gElement, node, nil)
}

// defs content is only reachable by reference, so
// it is built under a detached node.
func (p *parser) defs(el *element) error {
	node := p.scene.NewNode()
	p.nodeContainer[node] = p.containerSize()
	if err := p.nodeBasics(el, node); err != nil {
		return err
	}
	p.registerNode(el, node)
	return p.parseChildren(el, defsElement, node, nil)
}

func (p *parser) symbol(el *element) error {
	node := p.scene.NewNode()
	p.nodeContainer[node] = p.containerSize()
	if err := p.parseOpacity(node); err != nil {
		return err
	}
	vb, err := p.parseViewBox(el)
	if err != nil {
		return err
	}
	p.symbolViewBox[node] = vb
	p.registerNode(el, node)
	if err := p.parseChildren(el, symbolElement, node, nil); err != nil {
		return err
	}
	return p.parseClip(el, node)
}

// use references (without copying) a node defined earlier.
func (p *parser) use(el *element, node svgscene.NodeID) error {
	if err := p.parseOpacity(node); err != nil {
		return err
	}
	href := el.attrs["href"]
	if href == "" {
		href = el.attrs["xlink:href"]
	}
	if !strings.HasPrefix(href, "#") {
		return svgerr.NewAt(svgerr.InvalidAttributeValue, "href", -1, "unsupported reference %q", href)
	}
	target, ok := p.lookupNode(href[1:])
	if !ok {
		return svgerr.NewAt(svgerr.InvalidAttributeValue, "href", -1, "referencing non-existent element (%s)", href)
	}
	if p.open[target] {
		return svgerr.NewAt(svgerr.InvalidAttributeValue, "href", -1, "cyclic reference to %s", href)
	}

	m, err := transform(el, "transform")
	if err != nil {
		return err
	}
	// <use> does not establish a viewport for its content
	viewport, err := p.parseViewport(el, svgscene.Point{})
	if err != nil {
		return err
	}
	m = m.Translate(viewport.Min.X, viewport.Min.Y)
	if vb, isSymbol := p.symbolViewBox[target]; isSymbol {
		m = FitViewBox(m, vb.rect, viewport, vb.ratio)
	}
	p.scene.Node(node).Transform = m
	p.scene.AddChild(node, target)

	if err := p.parseClip(el, node); err != nil {
		return err
	}
	p.registerNode(el, node)
	return nil
}

func (p *parser) clipPath(el *element) error {
	node := p.scene.NewNode()
	p.nodeContainer[node] = p.containerSize()
	switch units := el.attrs["clipPathUnits"]; units {
	case "", "userSpaceOnUse":
	case "objectBoundingBox":
		p.bboxClippers[node] = true
	default:
		return svgerr.NewAt(svgerr.InvalidAttributeValue, "clipPathUnits", -1, "unsupported value %q", units)
	}
	p.registerNode(el, node)
	return p.parseChildren(el, clipPathElement, node, nil)
}

// style adds the content of a <style> element to the global sheet.
func (p *parser) style(el *element) error {
	text, err := p.cursor.readInnerText(el)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	sheet, err := svgstyle.ParseStyleSheet(text)
	if err != nil {
		return err
	}
	p.cascade.AddGlobal(sheet)
	return nil
}

func (p *parser) description(el *element, kind elementKind) error {
	text, err := p.cursor.readInnerText(el)
	if err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if kind == titleElement {
		p.scene.Titles = append(p.scene.Titles, text)
	} else {
		p.scene.Descriptions = append(p.scene.Descriptions, text)
	}
	return nil
}
