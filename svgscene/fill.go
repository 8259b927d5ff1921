package svgscene

import (
	"fmt"
	"image/color"
)

// Color is a non premultiplied RGBA color, with
// channels in [0, 1].
type Color struct {
	R, G, B, A float64
}

// NewColor8 returns an opaque color from 8-bit channels.
func NewColor8(r, g, b uint8) Color {
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: 1}
}

// Black is the opaque black color.
var Black = Color{A: 1}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(clamp01(c.A)*0xffff + 0.5)
	r = uint32(clamp01(c.R)*clamp01(c.A)*0xffff + 0.5)
	g = uint32(clamp01(c.G)*clamp01(c.A)*0xffff + 0.5)
	b = uint32(clamp01(c.B)*clamp01(c.A)*0xffff + 0.5)
	return
}

// NRGBA returns the 8-bit version of the color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// WithAlpha returns a copy of `c` with alpha `a`.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

func (c Color) String() string {
	n := c.NRGBA()
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// FillMode is the winding rule used to fill shapes.
type FillMode uint8

const (
	NonZero FillMode = iota
	EvenOdd
)

func (f FillMode) String() string {
	if f == EvenOdd {
		return "EvenOdd"
	}
	return "NonZero"
}

// AddressMode specifies how a gradient or a texture
// is sampled outside of its [0, 1] domain.
type AddressMode uint8

const (
	Wrap AddressMode = iota
	Clamp
	Mirror
)

func (a AddressMode) String() string {
	switch a {
	case Wrap:
		return "Wrap"
	case Clamp:
		return "Clamp"
	case Mirror:
		return "Mirror"
	default:
		return "<unknown AddressMode>"
	}
}

// Fill is one of *SolidFill, *GradientFill, *TextureFill.
type Fill interface {
	isFill()
	// FillMode returns the winding rule.
	FillMode() FillMode
}

func (*SolidFill) isFill()    {}
func (*GradientFill) isFill() {}
func (*TextureFill) isFill()  {}

func (s *SolidFill) FillMode() FillMode    { return s.Mode }
func (g *GradientFill) FillMode() FillMode { return g.Mode }
func (t *TextureFill) FillMode() FillMode  { return t.Mode }

type SolidFill struct {
	Color Color
	Mode  FillMode
}

// GradientType is Linear or Radial.
type GradientType uint8

const (
	Linear GradientType = iota
	Radial
)

func (g GradientType) String() string {
	if g == Radial {
		return "Radial"
	}
	return "Linear"
}

type GradientStop struct {
	Color  Color
	Offset float64 // in [0, 1]
}

// GradientFill is shared between all the drawables referencing it.
// The mapping from a drawable space to the gradient space is
// stored on the drawable (see Filled.FillTransform).
//
// In gradient space, a linear gradient varies with x: 0 is the first
// stop and 1 the last one. A radial gradient is the unit circle centered
// at the origin, with its focus at RadialFocus.
type GradientFill struct {
	Type        GradientType
	Stops       []GradientStop
	Mode        FillMode
	Addressing  AddressMode
	RadialFocus Point
}

// Texture is an opaque handle returned by an image decoder.
type Texture struct {
	Width, Height int
	Format        string // MIME type of the source data
	Data          []byte
}

// TextureFill paints a texture mapped on the unit square.
type TextureFill struct {
	Texture    Texture
	Mode       FillMode
	Addressing AddressMode
}

// PathEnding is the shape of the extremities of open strokes.
type PathEnding uint8

const (
	Chop PathEnding = iota
	Square
	RoundEnding
)

func (p PathEnding) String() string {
	switch p {
	case Chop:
		return "Chop"
	case Square:
		return "Square"
	case RoundEnding:
		return "Round"
	default:
		return "<unknown PathEnding>"
	}
}

// PathCorner is the shape of stroke joins.
type PathCorner uint8

const (
	Tipped PathCorner = iota
	RoundCorner
	Beveled
)

func (p PathCorner) String() string {
	switch p {
	case Tipped:
		return "Tipped"
	case RoundCorner:
		return "Round"
	case Beveled:
		return "Beveled"
	default:
		return "<unknown PathCorner>"
	}
}

type Stroke struct {
	Color         Color
	HalfThickness float64
	// Pattern is the dash pattern, always with an even length
	// (nil for solid lines).
	Pattern           []float64
	PatternOffset     float64
	TippedCornerLimit float64 // miter limit, >= 1
}

// PathProperties gathers the stroking style of a drawable.
type PathProperties struct {
	Stroke  *Stroke // nil for no stroke
	Head    PathEnding
	Tail    PathEnding
	Corners PathCorner
}
