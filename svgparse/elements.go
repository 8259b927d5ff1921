package svgparse

// elementKind enumerates the supported elements.
type elementKind uint8

const (
	unknownElement elementKind = iota
	svgElement
	gElement
	defsElement
	symbolElement
	useElement
	pathElement
	rectElement
	circleElement
	ellipseElement
	lineElement
	polygonElement
	polylineElement
	imageElement
	linearGradientElement
	radialGradientElement
	stopElement
	clipPathElement
	styleElement
	titleElement
	descElement

	elementKindCount
)

var elementKinds = map[string]elementKind{
	"svg":            svgElement,
	"g":              gElement,
	"defs":           defsElement,
	"symbol":         symbolElement,
	"use":            useElement,
	"path":           pathElement,
	"rect":           rectElement,
	"circle":         circleElement,
	"ellipse":        ellipseElement,
	"line":           lineElement,
	"polygon":        polygonElement,
	"polyline":       polylineElement,
	"image":          imageElement,
	"linearGradient": linearGradientElement,
	"radialGradient": radialGradientElement,
	"stop":           stopElement,
	"clipPath":       clipPathElement,
	"style":          styleElement,
	"title":          titleElement,
	"desc":           descElement,
}

func (k elementKind) String() string {
	for name, kind := range elementKinds {
		if kind == k {
			return name
		}
	}
	return "<unknown>"
}

// childGrammar[parent][child] is true if `child` is processed
// when found inside `parent`.
var childGrammar [elementKindCount][elementKindCount]bool

// attachedKinds are the elements creating a node in the tree of their parent.
// The other elements are only reachable through references.
var attachedKinds = [elementKindCount]bool{
	svgElement: true, gElement: true, useElement: true, imageElement: true,
	pathElement: true, rectElement: true, circleElement: true, ellipseElement: true,
	lineElement: true, polygonElement: true, polylineElement: true,
}

func init() {
	containerContent := []elementKind{
		svgElement, gElement, defsElement, symbolElement, useElement,
		pathElement, rectElement, circleElement, ellipseElement, lineElement,
		polygonElement, polylineElement, imageElement,
		linearGradientElement, radialGradientElement, clipPathElement, styleElement,
	}
	for _, container := range []elementKind{svgElement, gElement, defsElement, symbolElement, clipPathElement} {
		for _, child := range containerContent {
			childGrammar[container][child] = true
		}
	}
	childGrammar[linearGradientElement][stopElement] = true
	childGrammar[radialGradientElement][stopElement] = true

	// descriptive elements are accepted everywhere
	for parent := svgElement; parent < elementKindCount; parent++ {
		childGrammar[parent][titleElement] = true
		childGrammar[parent][descElement] = true
	}
}
