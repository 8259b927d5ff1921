package svgraster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benoitkugler/svgscene/svgparse"
	"github.com/benoitkugler/svgscene/svgscene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toPngBytes(m image.Image) ([]byte, error) {
	var b bytes.Buffer
	err := png.Encode(&b, m)
	if err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func render(t *testing.T, doc string, width, height int) *image.RGBA {
	t.Helper()
	scene, opacities, err := svgparse.ReadSceneStream(strings.NewReader(doc), svgparse.Options{ErrorMode: svgparse.StrictErrorMode})
	require.NoError(t, err)
	img, err := RasterScene(scene, opacities, width, height, svgscene.Identity)
	require.NoError(t, err)
	return img
}

var (
	transparent = color.RGBA{}
	opaqueRed   = color.RGBA{R: 0xff, A: 0xff}
	opaqueBlue  = color.RGBA{B: 0xff, A: 0xff}
)

func TestFill(t *testing.T) {
	img := render(t, `<svg width="20" height="20">
		<rect x="5" y="5" width="10" height="10" fill="red"/>
	</svg>`, 20, 20)
	assert.Equal(t, opaqueRed, img.RGBAAt(10, 10))
	assert.Equal(t, transparent, img.RGBAAt(1, 1))
	assert.Equal(t, transparent, img.RGBAAt(18, 10))
}

// ScannerGV ignores the winding rule: both contours are filled
// with the non-zero rule.
func TestCompoundPath(t *testing.T) {
	img := render(t, `<svg width="30" height="30">
		<path fill-rule="evenodd" fill="blue" d="M0 0 H10 V10 H0 Z M20 20 H30 V30 H20 Z"/>
	</svg>`, 30, 30)
	assert.Equal(t, opaqueBlue, img.RGBAAt(5, 5))
	assert.Equal(t, opaqueBlue, img.RGBAAt(25, 25))
	assert.Equal(t, transparent, img.RGBAAt(15, 15))
}

func TestStroke(t *testing.T) {
	img := render(t, `<svg width="20" height="20">
		<line x1="0" y1="10" x2="20" y2="10" stroke="blue" stroke-width="4"/>
	</svg>`, 20, 20)
	assert.Equal(t, opaqueBlue, img.RGBAAt(10, 10))
	assert.Equal(t, opaqueBlue, img.RGBAAt(10, 8))
	assert.Equal(t, transparent, img.RGBAAt(10, 2))
}

func TestOpacity(t *testing.T) {
	img := render(t, `<svg width="20" height="20">
		<g opacity="0.5"><rect width="20" height="20" fill="red"/></g>
	</svg>`, 20, 20)
	c := img.RGBAAt(10, 10)
	assert.InDelta(t, 0x80, int(c.A), 2)
	assert.InDelta(t, 0x80, int(c.R), 2) // premultiplied
}

func TestGradient(t *testing.T) {
	img := render(t, `<svg width="100" height="10">
		<linearGradient id="g">
			<stop offset="0" stop-color="red"/>
			<stop offset="1" stop-color="blue"/>
		</linearGradient>
		<rect width="100" height="10" fill="url(#g)"/>
	</svg>`, 100, 10)
	left, right := img.RGBAAt(1, 5), img.RGBAAt(98, 5)
	assert.Greater(t, int(left.R), 240)
	assert.Less(t, int(left.B), 15)
	assert.Greater(t, int(right.B), 240)
	assert.Less(t, int(right.R), 15)
	mid := img.RGBAAt(50, 5)
	assert.InDelta(t, 127, int(mid.R), 4)
	assert.InDelta(t, 127, int(mid.B), 4)
}

func TestRasterSVGToImage(t *testing.T) {
	img, err := RasterSVGToImage(strings.NewReader(`<svg><rect x="10" y="10" width="10" height="10" fill="red"/></svg>`), 40, 40, svgparse.Options{})
	require.NoError(t, err)
	// the drawing is scaled to the image
	assert.Equal(t, opaqueRed, img.RGBAAt(2, 2))
	assert.Equal(t, opaqueRed, img.RGBAAt(37, 37))

	out, err := toPngBytes(img)
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rect.png"), out, os.ModePerm))

	_, err = RasterSVGToImage(strings.NewReader(`<svg><rect transform="rotate("/></svg>`), 40, 40, svgparse.Options{})
	assert.Error(t, err)
}
