package svgscene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertMatrixEqual(t *testing.T, exp, got Matrix2D) {
	t.Helper()
	const eps = 1e-9
	for i, pair := range [6][2]float64{
		{exp.A, got.A}, {exp.B, got.B}, {exp.C, got.C},
		{exp.D, got.D}, {exp.E, got.E}, {exp.F, got.F},
	} {
		assert.InDeltaf(t, pair[0], pair[1], eps, "coefficient %d of %s and %s", i, exp, got)
	}
}

func TestMultOrder(t *testing.T) {
	// translate then scale: the scale is applied first
	m := Identity.Translate(10, 20).Scale(2, 3)
	x, y := m.Transform(1, 1)
	assert.Equal(t, 12., x)
	assert.Equal(t, 23., y)

	m = Identity.Rotate(math.Pi / 2)
	x, y = m.Transform(1, 0)
	assert.InDelta(t, 0, x, 1e-12)
	assert.InDelta(t, 1, y, 1e-12)
}

func TestInvert(t *testing.T) {
	for _, m := range []Matrix2D{
		Identity,
		Identity.Translate(4, -8),
		Identity.Scale(3, 0.5).Rotate(0.3),
		Identity.SkewX(0.2).SkewY(-0.4).Translate(1, 2),
		{1, 2, 3, 4, 5, 6},
	} {
		assert.True(t, m.IsInvertible())
		assertMatrixEqual(t, Identity, m.Mult(m.Invert()))
		assertMatrixEqual(t, Identity, m.Invert().Mult(m))
	}
	assert.False(t, Identity.Scale(0, 1).IsInvertible())
}

func TestTransformRect(t *testing.T) {
	r := Rect{Min: Point{0, 0}, Size: Point{2, 1}}
	got := Identity.Rotate(math.Pi / 2).TransformRect(r)
	assert.InDelta(t, -1, got.Min.X, 1e-12)
	assert.InDelta(t, 0, got.Min.Y, 1e-12)
	assert.InDelta(t, 1, got.Size.X, 1e-12)
	assert.InDelta(t, 2, got.Size.Y, 1e-12)
}

func TestColor(t *testing.T) {
	c := NewColor8(0xff, 0x80, 0)
	assert.Equal(t, "#ff8000ff", c.String())
	r, g, b, a := c.WithAlpha(0).RGBA()
	assert.Equal(t, [4]uint32{}, [4]uint32{r, g, b, a})
	_, _, _, a = Black.RGBA()
	assert.Equal(t, uint32(0xffff), a)
}
