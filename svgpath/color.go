package svgpath

import (
	"strconv"
	"strings"

	"github.com/benoitkugler/svgscene/svgerr"
	"github.com/benoitkugler/svgscene/svgscene"
	"golang.org/x/image/colornames"
)

// ParseColor parses a color: #rgb, #rrggbb, rgb(r, g, b)
// or a named color. The returned color is opaque.
func ParseColor(s string) (svgscene.Color, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHexColor(s)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseRGBColor(s)
	}
	c, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return svgscene.Color{}, svgerr.New(svgerr.UnknownColorName, "unknown color %q", s)
	}
	return svgscene.NewColor8(c.R, c.G, c.B), nil
}

func parseHexColor(s string) (svgscene.Color, error) {
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return svgscene.Color{}, svgerr.New(svgerr.InvalidAttributeValue, "invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return svgscene.Color{}, svgerr.New(svgerr.InvalidAttributeValue, "invalid hex color %q", s)
	}
	if len(hex) == 3 { // #ABC -> #AABBCC
		r, g, b := uint8(v>>8&0xF), uint8(v>>4&0xF), uint8(v&0xF)
		return svgscene.NewColor8(r<<4|r, g<<4|g, b<<4|b), nil
	}
	return svgscene.NewColor8(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

func parseRGBColor(s string) (svgscene.Color, error) {
	inner := s[len("rgb(") : len(s)-1]
	parts := strings.FieldsFunc(inner, func(r rune) bool {
		return r == ',' || r == '%' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(parts) != 3 {
		return svgscene.Color{}, svgerr.New(svgerr.InvalidAttributeValue, "invalid rgb() color specification %q", s)
	}
	divisor := 255.
	if strings.Contains(inner, "%") {
		divisor = 100
	}
	var channels [3]float64
	for i, p := range parts {
		v, err := ParseFloat(p)
		if err != nil {
			return svgscene.Color{}, svgerr.New(svgerr.InvalidAttributeValue, "invalid rgb() component %q", p)
		}
		channels[i] = clamp(v/divisor, 0, 1)
	}
	return svgscene.Color{R: channels[0], G: channels[1], B: channels[2], A: 1}, nil
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// PaintKind distinguishes the forms of a paint value.
type PaintKind uint8

const (
	PaintNone PaintKind = iota // "none" or "transparent"
	PaintColor
	PaintRef
)

// Paint is the parsed value of a 'fill' or 'stroke' attribute.
// References are not resolved.
type Paint struct {
	Kind  PaintKind
	Color svgscene.Color // for PaintColor, opaque
	Ref   string         // for PaintRef, without the leading '#'
	// Fallback is the optional paint used when
	// Ref can't be resolved.
	Fallback *Paint
}

// ParsePaint parses a paint specification:
// none, transparent, url(#id) [fallback] or a color.
func ParsePaint(s string) (Paint, error) {
	return parsePaint(strings.TrimSpace(s), true)
}

func parsePaint(s string, allowRef bool) (Paint, error) {
	switch s {
	case "":
		return Paint{}, svgerr.New(svgerr.InvalidAttributeValue, "empty paint")
	case "none", "transparent":
		return Paint{Kind: PaintNone}, nil
	case "currentColor":
		return Paint{}, svgerr.New(svgerr.UnsupportedFeature, "currentColor is not supported")
	}
	if allowRef && strings.HasPrefix(s, "url(") {
		end := strings.IndexByte(s, ')')
		if end == -1 {
			return Paint{}, svgerr.New(svgerr.InvalidAttributeValue, "unterminated url reference in %q", s)
		}
		ref := strings.TrimSpace(s[len("url("):end])
		if !strings.HasPrefix(ref, "#") {
			return Paint{}, svgerr.New(svgerr.UnsupportedFeature, "unsupported reference type (%s)", ref)
		}
		out := Paint{Kind: PaintRef, Ref: ref[1:]}
		if rest := strings.TrimSpace(s[end+1:]); rest != "" {
			fb, err := parsePaint(rest, false)
			if err != nil {
				return Paint{}, err
			}
			out.Fallback = &fb
		}
		return out, nil
	}
	c, err := ParseColor(s)
	if err != nil {
		return Paint{}, err
	}
	return Paint{Kind: PaintColor, Color: c}, nil
}
