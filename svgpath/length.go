package svgpath

import (
	"math"
	"strings"

	"github.com/benoitkugler/svgscene/svgerr"
	"github.com/benoitkugler/svgscene/svgscene"
)

// Axis selects the reference dimension of percentages.
type Axis uint8

const (
	// Width resolves percentages against the context width.
	Width Axis = iota
	// Height resolves percentages against the context height.
	Height
	// Length resolves percentages against the context diagonal, divided by sqrt(2).
	Length
)

// lengthFactor normalizes the diagonal of the context
const lengthFactor = math.Sqrt2

// LengthContext provides what is needed to resolve relative
// and absolute units.
type LengthContext struct {
	// DPIScale is dpi / 90, the document default resolution.
	DPIScale float64
	// Size is the reference size used for percentages.
	Size svgscene.Point
}

// unit factors for a 90 dpi document
var unitFactors = map[string]float64{
	"px": 1,
	"in": 90,
	"cm": 35.43307,
	"mm": 3.543307,
	"pt": 1.25,
	"pc": 15,
}

// ParseLength evaluates a number with an optional unit.
func ParseLength(v string, axis Axis, ctx LengthContext) (float64, error) {
	v = strings.TrimSpace(v)
	end := numberEnd(v, 0)
	value, err := ParseFloat(v[:end])
	if err != nil {
		return 0, err
	}
	unit := v[end:]
	switch unit {
	case "":
		return value, nil
	case "px":
		return value, nil
	case "em", "ex":
		return 0, svgerr.New(svgerr.UnsupportedFeature, "unit %q is not supported", unit)
	case "%":
		if value < 0 {
			return 0, svgerr.New(svgerr.InvalidAttributeValue, "negative percentage %q", v)
		}
		ratio := value / 100
		switch axis {
		case Width:
			return ratio * ctx.Size.X, nil
		case Height:
			return ratio * ctx.Size.Y, nil
		default:
			return ratio * ctx.Size.Length() / lengthFactor, nil
		}
	}
	factor, ok := unitFactors[unit]
	if !ok {
		return 0, svgerr.New(svgerr.InvalidAttributeValue, "unknown unit %q in %q", unit, v)
	}
	scale := ctx.DPIScale
	if scale == 0 {
		scale = 1
	}
	return value * factor * scale, nil
}
