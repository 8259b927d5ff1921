// Package svgparse compiles SVG documents into scenes (see package svgscene).
//
// Compilation is done in two passes: the document is first streamed
// element by element, building nodes, fills and drawables. Then,
// once the whole tree is known, the gradient fill transforms and the
// clip paths expressed in bounding box units are resolved.
package svgparse

import (
	"io"
	"os"

	"github.com/benoitkugler/svgscene/svgerr"
	"github.com/benoitkugler/svgscene/svgpath"
	"github.com/benoitkugler/svgscene/svgscene"
	"github.com/benoitkugler/svgscene/svgstyle"
	"github.com/pkg/errors"
)

// namedObject is an entry of the id table: either a node or a fill.
type namedObject struct {
	node svgscene.NodeID
	fill svgscene.Fill
}

// clipRef is a 'clip-path' reference, resolved once the document is known.
type clipRef struct {
	node svgscene.NodeID
	id   string
	el   *element
}

type parser struct {
	cursor  *elementCursor
	opts    Options
	cascade *svgstyle.Cascade

	scene     *svgscene.Scene
	opacities svgscene.NodeOpacities

	// named objects, the last definition wins
	named map[string]namedObject

	containers    []svgscene.Point // viewport sizes, for percentages
	nodeContainer map[svgscene.NodeID]svgscene.Point

	gradients     map[*svgscene.GradientFill]*gradientDef
	bboxClippers  map[svgscene.NodeID]bool // clipPathUnits="objectBoundingBox"
	clipRefs      []clipRef
	symbolViewBox map[svgscene.NodeID]viewBox

	open map[svgscene.NodeID]bool // nodes whose children are being parsed

	stockBlack [2]*svgscene.SolidFill // indexed by FillMode
}

func newParser(r io.Reader, opts Options) *parser {
	return &parser{
		cursor:        newElementCursor(r),
		opts:          opts,
		cascade:       svgstyle.NewCascade(),
		scene:         svgscene.NewScene(),
		opacities:     make(svgscene.NodeOpacities),
		named:         make(map[string]namedObject),
		nodeContainer: make(map[svgscene.NodeID]svgscene.Point),
		gradients:     make(map[*svgscene.GradientFill]*gradientDef),
		bboxClippers:  make(map[svgscene.NodeID]bool),
		symbolViewBox: make(map[svgscene.NodeID]viewBox),
		open:          make(map[svgscene.NodeID]bool),
		stockBlack: [2]*svgscene.SolidFill{
			svgscene.NonZero: {Color: svgscene.Black, Mode: svgscene.NonZero},
			svgscene.EvenOdd: {Color: svgscene.Black, Mode: svgscene.EvenOdd},
		},
	}
}

// ReadSceneStream compiles the SVG document read from `r`.
// It returns the scene and the opacity of its nodes.
// On failure, no partial scene is returned and the error
// is a *svgerr.Error, located in the document when possible.
func ReadSceneStream(r io.Reader, opts Options) (*svgscene.Scene, svgscene.NodeOpacities, error) {
	p := newParser(r, opts)
	if err := p.parse(); err != nil {
		return nil, nil, err
	}
	return p.scene, p.opacities, nil
}

// ReadScene compiles the SVG document stored in `file`.
func ReadScene(file string, opts Options) (*svgscene.Scene, svgscene.NodeOpacities, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening SVG file")
	}
	defer f.Close()
	scene, opacities, err := ReadSceneStream(f, opts)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading %s", file)
	}
	return scene, opacities, nil
}

// ImportSVG is a shortcut for ReadSceneStream, with
// warnings enabled.
func ImportSVG(r io.Reader, dpi, pixelsPerUnit float64, windowWidth, windowHeight int) (*svgscene.Scene, svgscene.NodeOpacities, error) {
	return ReadSceneStream(r, Options{
		DPI:           dpi,
		PixelsPerUnit: pixelsPerUnit,
		WindowWidth:   float64(windowWidth),
		WindowHeight:  float64(windowHeight),
		ErrorMode:     WarnErrorMode,
	})
}

func (p *parser) parse() error {
	ok, err := p.cursor.goToRoot("svg")
	if err != nil {
		return err
	}
	if !ok {
		return svgerr.New(svgerr.MalformedDocument, "document doesn't have 'svg' root")
	}
	root := p.cursor.visitCurrent()
	if err := p.cascade.PushNode(root.name, root.attrs); err != nil {
		return svgerr.At(err, root.line, root.col)
	}
	window := svgscene.Point{X: p.opts.WindowWidth, Y: p.opts.WindowHeight}
	if err := p.svg(root, p.scene.Root, window); err != nil {
		return svgerr.At(err, root.line, root.col)
	}
	if err := p.cascade.PopNode(); err != nil {
		return err
	}
	if p.cascade.Depth() != 0 || len(p.containers) != 0 {
		return svgerr.New(svgerr.StackMismatch, "vector scene construction mismatch")
	}

	if err := p.resolve(); err != nil {
		return err
	}

	if ppu := p.opts.PixelsPerUnit; ppu != 0 && ppu != 1 {
		root := p.scene.Node(p.scene.Root)
		root.Transform = root.Transform.Scale(1/ppu, 1/ppu)
	}
	return nil
}

// parseChildren processes the children of `parent`, using `node`
// as the parent of the attached elements and `grad` as the gradient
// receiving the stops.
func (p *parser) parseChildren(parent *element, kind elementKind, node svgscene.NodeID, grad *gradientDef) error {
	if node != svgscene.NoNode {
		p.open[node] = true
		defer delete(p.open, node)
	}
	for {
		ok, err := p.cursor.goToNextChild(parent)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		child := p.cursor.visitCurrent()
		childKind := elementKinds[child.name]
		if !childGrammar[kind][childKind] {
			if err := p.unsupported(child, "skipping unsupported child <%s> of <%s>", child.name, parent.name); err != nil {
				return err
			}
			if err := p.cursor.skipSubtree(child); err != nil {
				return err
			}
			continue
		}
		if err := p.parseElement(child, childKind, node, grad); err != nil {
			return svgerr.At(err, child.line, child.col)
		}
	}
}

func (p *parser) parseElement(el *element, kind elementKind, parentNode svgscene.NodeID, grad *gradientDef) error {
	if err := p.cascade.PushNode(el.name, el.attrs); err != nil {
		return err
	}
	if display, _ := p.cascade.Evaluate("display", svgstyle.Single); display == "none" {
		Logger().Debug("skipping hidden element", "element", el.name, "line", el.line)
		if err := p.cursor.skipSubtree(el); err != nil {
			return err
		}
		return p.cascade.PopNode()
	}

	node := svgscene.NoNode
	if attachedKinds[kind] {
		node = p.scene.NewNode()
		p.scene.AddChild(parentNode, node)
		p.nodeContainer[node] = p.containerSize()
	}

	if err := p.dispatch(el, kind, node, grad); err != nil {
		return err
	}
	// leaves only accept descriptive children; containers
	// have already consumed their content
	if err := p.parseChildren(el, kind, node, nil); err != nil {
		return err
	}

	return p.cascade.PopNode()
}

// dispatch calls the handler of `kind`. `node` is the node
// created for attached elements, NoNode otherwise.
func (p *parser) dispatch(el *element, kind elementKind, node svgscene.NodeID, grad *gradientDef) error {
	switch kind {
	case svgElement:
		return p.svg(el, node, p.containerSize())
	case gElement:
		return p.group(el, node)
	case defsElement:
		return p.defs(el)
	case symbolElement:
		return p.symbol(el)
	case useElement:
		return p.use(el, node)
	case clipPathElement:
		return p.clipPath(el)
	case pathElement:
		return p.path(el, node)
	case rectElement:
		return p.rect(el, node)
	case circleElement:
		return p.circle(el, node)
	case ellipseElement:
		return p.ellipse(el, node)
	case lineElement:
		return p.line(el, node)
	case polygonElement:
		return p.poly(el, node, true)
	case polylineElement:
		return p.poly(el, node, false)
	case imageElement:
		return p.image(el, node)
	case linearGradientElement:
		return p.linearGradient(el)
	case radialGradientElement:
		return p.radialGradient(el)
	case stopElement:
		return p.stop(el, grad)
	case styleElement:
		return p.style(el)
	case titleElement, descElement:
		return p.description(el, kind)
	default:
		return svgerr.New(svgerr.UnsupportedFeature, "unsupported element <%s>", el.name)
	}
}

func (p *parser) containerSize() svgscene.Point {
	if len(p.containers) == 0 {
		return svgscene.Point{}
	}
	return p.containers[len(p.containers)-1]
}

func (p *parser) pushContainer(size svgscene.Point) { p.containers = append(p.containers, size) }

func (p *parser) popContainer() error {
	if len(p.containers) == 0 {
		return svgerr.New(svgerr.StackMismatch, "container size stack popped past its depth")
	}
	p.containers = p.containers[:len(p.containers)-1]
	return nil
}

func (p *parser) lengthContext() svgpath.LengthContext {
	return svgpath.LengthContext{DPIScale: p.opts.dpiScale(), Size: p.containerSize()}
}

// register adds `obj` to the id table, if `el` has an id.
// A repeated id replaces the previous object.
func (p *parser) register(el *element, obj namedObject) {
	id := el.attrs["id"]
	if id == "" {
		return
	}
	if _, has := p.named[id]; has {
		Logger().Debug("id redefined", "id", id, "line", el.line)
	}
	p.named[id] = obj
}

func (p *parser) registerNode(el *element, node svgscene.NodeID) {
	p.register(el, namedObject{node: node})
}

// lookupNode returns the node named `id`.
func (p *parser) lookupNode(id string) (svgscene.NodeID, bool) {
	obj, ok := p.named[id]
	if !ok || obj.fill != nil {
		return svgscene.NoNode, false
	}
	return obj.node, true
}

// length evaluates the property `name` of the current element.
func (p *parser) length(el *element, name string, def float64, axis svgpath.Axis) (float64, error) {
	v, ok := p.cascade.Evaluate(name, svgstyle.Single)
	if !ok {
		return def, nil
	}
	return p.evalLength(v, name, axis)
}

func (p *parser) evalLength(v, name string, axis svgpath.Axis) (float64, error) {
	f, err := svgpath.ParseLength(v, axis, p.lengthContext())
	if err != nil {
		return 0, svgerr.WithAttr(err, name)
	}
	return f, nil
}

// number evaluates the numeric property `name`.
func (p *parser) number(name string, def float64, limit svgstyle.Limit) (float64, error) {
	v, ok := p.cascade.Evaluate(name, limit)
	if !ok {
		return def, nil
	}
	f, err := svgpath.ParseFloat(v)
	if err != nil {
		return 0, svgerr.WithAttr(err, name)
	}
	return f, nil
}

// transform parses the raw attribute `name`, which is not a style property.
func transform(el *element, name string) (svgscene.Matrix2D, error) {
	v := el.attrs[name]
	if v == "" {
		return svgscene.Identity, nil
	}
	m, err := svgpath.ParseTransform(v)
	if err != nil {
		return m, svgerr.WithAttr(err, name)
	}
	return m, nil
}

// parseOpacity stores the 'opacity' of `node` when it is not 1.
func (p *parser) parseOpacity(node svgscene.NodeID) error {
	op, err := p.number("opacity", 1, svgstyle.Single)
	if err != nil {
		return err
	}
	if op != 1 {
		p.opacities[node] = op
	}
	return nil
}

// nodeBasics sets the opacity and transform of `node`.
func (p *parser) nodeBasics(el *element, node svgscene.NodeID) error {
	if err := p.parseOpacity(node); err != nil {
		return err
	}
	m, err := transform(el, "transform")
	if err != nil {
		return err
	}
	p.scene.Node(node).Transform = m
	return nil
}

// parseClip records the 'clip-path' reference of `node`.
func (p *parser) parseClip(el *element, node svgscene.NodeID) error {
	v := el.attrs["clip-path"]
	if v == "" || v == "none" {
		return nil
	}
	paint, err := svgpath.ParsePaint(v)
	if err != nil {
		return svgerr.WithAttr(err, "clip-path")
	}
	if paint.Kind != svgpath.PaintRef {
		return svgerr.NewAt(svgerr.InvalidAttributeValue, "clip-path", -1, "expected a clip path reference, got %q", v)
	}
	p.clipRefs = append(p.clipRefs, clipRef{node: node, id: paint.Ref, el: el})
	return nil
}
