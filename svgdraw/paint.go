package svgdraw

import (
	"image"
	"math"

	"github.com/benoitkugler/svgscene/svgscene"
)

// Paint is a fill ready to be sampled in device space.
type Paint struct {
	Fill svgscene.Fill
	// DeviceToFill maps the device space to the fill space: the gradient
	// space for gradients, the drawable space for textures.
	DeviceToFill svgscene.Matrix2D
	Opacity      float64

	texture image.Image // decoded texture, nil for other fills
}

// IsSolid returns true for solid fills, which
// don't depend on the sampled point.
func (p Paint) IsSolid() bool {
	_, ok := p.Fill.(*svgscene.SolidFill)
	return ok
}

// ColorAt returns the color at the device point (x, y).
func (p Paint) ColorAt(x, y float64) svgscene.Color {
	var c svgscene.Color
	switch fill := p.Fill.(type) {
	case *svgscene.SolidFill:
		c = fill.Color
	case *svgscene.GradientFill:
		q := p.DeviceToFill.Apply(svgscene.Point{X: x, Y: y})
		c = sampleGradient(fill, q)
	case *svgscene.TextureFill:
		if p.texture == nil {
			return svgscene.Color{}
		}
		q := p.DeviceToFill.Apply(svgscene.Point{X: x, Y: y})
		c = sampleTexture(p.texture, fill.Addressing, q)
	}
	c.A *= p.Opacity
	return c
}

// Average returns a single color approximating the paint,
// for backends without gradient or texture support.
func (p Paint) Average() svgscene.Color {
	var c svgscene.Color
	switch fill := p.Fill.(type) {
	case *svgscene.SolidFill:
		c = fill.Color
	case *svgscene.GradientFill:
		c = averageStops(fill.Stops)
	case *svgscene.TextureFill:
		if p.texture == nil {
			return svgscene.Color{}
		}
		c = averageImage(p.texture)
	}
	c.A *= p.Opacity
	return c
}

// address maps `t` into [0, 1] according to `mode`.
func address(t float64, mode svgscene.AddressMode) float64 {
	switch mode {
	case svgscene.Wrap:
		return t - math.Floor(t)
	case svgscene.Mirror:
		t = math.Mod(math.Abs(t), 2)
		if t > 1 {
			return 2 - t
		}
		return t
	default:
		return math.Max(0, math.Min(1, t))
	}
}

// gradientParameter returns the position of `q` (in gradient space)
// along the gradient, before addressing.
func gradientParameter(g *svgscene.GradientFill, q svgscene.Point) float64 {
	if g.Type == svgscene.Linear {
		return q.X
	}
	// the ray from the focus through q hits the unit circle at f + s*d
	f := g.RadialFocus
	d := q.Sub(f)
	dd := d.X*d.X + d.Y*d.Y
	if dd == 0 {
		return 0
	}
	fd := f.X*d.X + f.Y*d.Y
	ff := f.X*f.X + f.Y*f.Y
	delta := fd*fd - dd*(ff-1)
	if delta < 0 {
		return 1
	}
	s := (-fd + math.Sqrt(delta)) / dd
	if s <= 0 {
		return 1
	}
	return 1 / s
}

func sampleGradient(g *svgscene.GradientFill, q svgscene.Point) svgscene.Color {
	t := address(gradientParameter(g, q), g.Addressing)
	return stopsColor(g.Stops, t)
}

// stopsColor interpolates the stops at `t`, in [0, 1].
// Stops are sorted by offset.
func stopsColor(stops []svgscene.GradientStop, t float64) svgscene.Color {
	switch len(stops) {
	case 0:
		return svgscene.Color{}
	case 1:
		return stops[0].Color
	}
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		s0, s1 := stops[i-1], stops[i]
		if t > s1.Offset {
			continue
		}
		span := s1.Offset - s0.Offset
		if span <= 0 {
			return s1.Color
		}
		return lerpColor(s0.Color, s1.Color, (t-s0.Offset)/span)
	}
	return stops[len(stops)-1].Color
}

func lerpColor(a, b svgscene.Color, t float64) svgscene.Color {
	return svgscene.Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}

func averageStops(stops []svgscene.GradientStop) svgscene.Color {
	var out svgscene.Color
	if len(stops) == 0 {
		return out
	}
	for _, s := range stops {
		out.R += s.Color.R
		out.G += s.Color.G
		out.B += s.Color.B
		out.A += s.Color.A
	}
	n := float64(len(stops))
	return svgscene.Color{R: out.R / n, G: out.G / n, B: out.B / n, A: out.A / n}
}

func fromImageColor(img image.Image, x, y int) svgscene.Color {
	r, g, b, a := img.At(x, y).RGBA()
	if a == 0 {
		return svgscene.Color{}
	}
	// un-premultiply
	fa := float64(a)
	return svgscene.Color{R: float64(r) / fa, G: float64(g) / fa, B: float64(b) / fa, A: fa / 0xffff}
}

// sampleTexture returns the texel containing `q`, a point in
// the texture pixel space.
func sampleTexture(img image.Image, mode svgscene.AddressMode, q svgscene.Point) svgscene.Color {
	bounds := img.Bounds()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	if w == 0 || h == 0 {
		return svgscene.Color{}
	}
	u, v := address(q.X/w, mode), address(q.Y/h, mode)
	x := bounds.Min.X + int(math.Min(u*w, w-1))
	y := bounds.Min.Y + int(math.Min(v*h, h-1))
	return fromImageColor(img, x, y)
}

func averageImage(img image.Image) svgscene.Color {
	const grid = 8
	bounds := img.Bounds()
	if bounds.Empty() {
		return svgscene.Color{}
	}
	var (
		out svgscene.Color
		n   float64
	)
	for i := 0; i < grid; i++ {
		for j := 0; j < grid; j++ {
			x := bounds.Min.X + i*bounds.Dx()/grid
			y := bounds.Min.Y + j*bounds.Dy()/grid
			c := fromImageColor(img, x, y)
			out.R += c.R
			out.G += c.G
			out.B += c.B
			out.A += c.A
			n++
		}
	}
	return svgscene.Color{R: out.R / n, G: out.G / n, B: out.B / n, A: out.A / n}
}
