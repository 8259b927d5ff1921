package svgparse

import (
	"strings"

	"github.com/benoitkugler/svgscene/svgerr"
	"github.com/benoitkugler/svgscene/svgpath"
	"github.com/benoitkugler/svgscene/svgscene"
)

// Align positions the viewBox along one axis.
type Align uint8

const (
	AlignMin Align = iota
	AlignMid
	AlignMax
)

// FitMode is the 'meet or slice' part of preserveAspectRatio.
type FitMode uint8

const (
	// Meet scales the viewBox so that it is entirely visible.
	Meet FitMode = iota
	// Slice scales the viewBox so that it covers the viewport.
	Slice
	// None scales each axis independently.
	None
)

// AspectRatio is the parsed form of 'preserveAspectRatio'.
// Its zero value is not the default: see DefaultAspectRatio.
type AspectRatio struct {
	AlignX, AlignY Align
	Mode           FitMode
}

// DefaultAspectRatio is "xMidYMid meet".
var DefaultAspectRatio = AspectRatio{AlignX: AlignMid, AlignY: AlignMid, Mode: Meet}

var alignments = map[string][2]Align{
	"xMinYMin": {AlignMin, AlignMin},
	"xMidYMin": {AlignMid, AlignMin},
	"xMaxYMin": {AlignMax, AlignMin},
	"xMinYMid": {AlignMin, AlignMid},
	"xMidYMid": {AlignMid, AlignMid},
	"xMaxYMid": {AlignMax, AlignMid},
	"xMinYMax": {AlignMin, AlignMax},
	"xMidYMax": {AlignMid, AlignMax},
	"xMaxYMax": {AlignMax, AlignMax},
}

// ParseAspectRatio parses a 'preserveAspectRatio' value.
// Unknown keywords are ignored, and "none" overrides "meet" and "slice".
func ParseAspectRatio(s string) AspectRatio {
	out := DefaultAspectRatio
	wantNone := false
	for _, value := range strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' }) {
		switch value {
		case "defer": // only meaningful for images referencing documents
		case "none":
			wantNone = true
		case "meet":
			out.Mode = Meet
		case "slice":
			out.Mode = Slice
		default:
			if al, ok := alignments[value]; ok {
				out.AlignX, out.AlignY = al[0], al[1]
			}
		}
	}
	if wantNone {
		out.Mode = None
	}
	return out
}

// viewBox is a parsed 'viewBox' attribute, with its fitting policy.
// An empty Rect means no viewBox.
type viewBox struct {
	rect  svgscene.Rect
	ratio AspectRatio
}

func alignOffset(al Align, slack float64) float64 {
	switch al {
	case AlignMid:
		return slack / 2
	case AlignMax:
		return slack
	default:
		return 0
	}
}

// FitViewBox returns `m` followed by the transform mapping `vb`
// onto `viewport`. When one of the rectangles has a zero size,
// `m` is returned unchanged.
func FitViewBox(m svgscene.Matrix2D, vb, viewport svgscene.Rect, ar AspectRatio) svgscene.Matrix2D {
	if vb.Size.X == 0 || vb.Size.Y == 0 || viewport.Size == (svgscene.Point{}) {
		return m
	}
	offset := svgscene.Point{X: -vb.Min.X, Y: -vb.Min.Y}
	if ar.Mode == None {
		return m.Scale(viewport.Size.X/vb.Size.X, viewport.Size.Y/vb.Size.Y).Translate(offset.X, offset.Y)
	}

	s := viewport.Size.X / vb.Size.X
	var fitsOnWidth bool
	if ar.Mode == Meet {
		fitsOnWidth = vb.Size.Y*s <= viewport.Size.Y
	} else {
		fitsOnWidth = vb.Size.Y*s > viewport.Size.Y
	}
	var align svgscene.Point
	if fitsOnWidth {
		align.Y = alignOffset(ar.AlignY, viewport.Size.Y-vb.Size.Y*s)
	} else {
		s = viewport.Size.Y / vb.Size.Y
		align.X = alignOffset(ar.AlignX, viewport.Size.X-vb.Size.X*s)
	}
	offset = offset.Add(align.Scale(1 / s))
	return m.Scale(s, s).Translate(offset.X, offset.Y)
}

// parseViewport reads the x, y, width and height attributes of `el`,
// with `defaultSize` for missing dimensions.
func (p *parser) parseViewport(el *element, defaultSize svgscene.Point) (svgscene.Rect, error) {
	var (
		out svgscene.Rect
		err error
	)
	if out.Min.X, err = p.length(el, "x", 0, svgpath.Width); err != nil {
		return out, err
	}
	if out.Min.Y, err = p.length(el, "y", 0, svgpath.Height); err != nil {
		return out, err
	}
	if out.Size.X, err = p.length(el, "width", defaultSize.X, svgpath.Width); err != nil {
		return out, err
	}
	if out.Size.Y, err = p.length(el, "height", defaultSize.Y, svgpath.Height); err != nil {
		return out, err
	}
	return out, nil
}

// parseViewBox reads the 'viewBox' and 'preserveAspectRatio'
// attributes. A missing viewBox returns an empty rectangle.
func (p *parser) parseViewBox(el *element) (viewBox, error) {
	out := viewBox{ratio: ParseAspectRatio(el.attrs["preserveAspectRatio"])}
	raw := strings.TrimSpace(el.attrs["viewBox"])
	if raw == "" {
		return out, nil
	}
	values, err := svgpath.ParseNumbers(raw)
	if err != nil {
		return out, svgerr.WithAttr(err, "viewBox")
	}
	if len(values) != 4 {
		return out, svgerr.NewAt(svgerr.InvalidAttributeValue, "viewBox", -1, "invalid viewBox specification %q", raw)
	}
	out.rect = svgscene.Rect{
		Min:  svgscene.Point{X: values[0], Y: values[1]},
		Size: svgscene.Point{X: values[2], Y: values[3]},
	}
	return out, nil
}
