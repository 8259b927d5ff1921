package svgpdf

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/benoitkugler/svgscene/svgdraw"
	"github.com/benoitkugler/svgscene/svgimage"
	"github.com/benoitkugler/svgscene/svgparse"
	"github.com/benoitkugler/svgscene/svgscene"
	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/fixed"
)

func fixedPoint(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
}

func TestBoundingBox(t *testing.T) {
	p := pather{pdf: gofpdf.New("", "", "", "")}
	p.pdf.AddPage()

	p.Start(fixedPoint(10, 10))
	p.Line(fixedPoint(20, 10))
	// the control points are outside of the curve extent
	p.CubeBezier(fixedPoint(30, 10), fixedPoint(30, 30), fixedPoint(20, 30))
	p.Stop(true)
	p.pdf.DrawPath("D")

	assert.True(t, p.hasBox)
	assert.Equal(t, svgscene.Point{X: 10, Y: 10}, p.boundingBox.Min)
	assert.InDelta(t, 17.5, p.boundingBox.Size.X, 1e-9)
	assert.InDelta(t, 20, p.boundingBox.Size.Y, 1e-9)

	p.Clear()
	assert.False(t, p.hasBox)
	require.NoError(t, p.pdf.Error())
}

func render(t *testing.T, doc string, opts svgparse.Options) []byte {
	t.Helper()
	var out bytes.Buffer
	err := RenderSVGToPDF(strings.NewReader(doc), &out, opts)
	require.NoError(t, err)
	return out.Bytes()
}

func TestRenderShapes(t *testing.T) {
	out := render(t, `<svg width="100" height="100">
		<linearGradient id="g"><stop stop-color="red"/><stop offset="1" stop-color="blue"/></linearGradient>
		<rect x="10" y="10" width="50" height="20" rx="4" fill="url(#g)" stroke="black" stroke-dasharray="2"/>
		<circle cx="50" cy="60" r="20" fill="green" fill-opacity="0.5"/>
		<polyline points="0 0 10 10 20 0" fill="none" stroke="red" stroke-linecap="round" stroke-linejoin="bevel"/>
	</svg>`, svgparse.Options{})
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRenderTexture(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(1, 1, color.NRGBA{R: 0xff, A: 0xff})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	out := render(t, `<svg width="40" height="40"><image width="40" height="40" href="`+uri+`"/></svg>`,
		svgparse.Options{Images: svgimage.Decoder{}})
	assert.True(t, bytes.Contains(out, []byte("/Subtype /Image")))
}

func TestRendererState(t *testing.T) {
	pdf := gofpdf.New("", "", "", "")
	pdf.AddPage()
	f, s := NewRenderer(pdf).SetupDrawers(true, false)
	assert.Nil(t, s)
	fl := f.(*filler)
	fl.SetWinding(false)
	fl.SetPaint(svgdraw.Paint{Fill: &svgscene.SolidFill{Color: svgscene.Black}, Opacity: 1})
	_, _, isTexture := fl.textureType()
	assert.False(t, isTexture)
	fl.Start(fixedPoint(0, 0))
	fl.Line(fixedPoint(10, 0))
	fl.Line(fixedPoint(10, 10))
	fl.Stop(true)
	fl.Draw()
	require.NoError(t, pdf.Error())
}
