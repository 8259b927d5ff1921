package svgimage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeData(t *testing.T) {
	data := encodePNG(t, 3, 2)
	tex, err := Decoder{}.DecodeData("image/png", data)
	require.NoError(t, err)
	assert.Equal(t, 3, tex.Width)
	assert.Equal(t, 2, tex.Height)
	assert.Equal(t, "image/png", tex.Format)

	// the content wins over the declared type
	tex, err = Decoder{}.DecodeData("image/jpeg", data)
	require.NoError(t, err)
	assert.Equal(t, "image/png", tex.Format)

	_, err = Decoder{}.DecodeData("image/png", []byte("not an image"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDecodeURL(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img.png"), encodePNG(t, 4, 5), 0o644))

	dec := Decoder{BaseDir: dir}
	tex, err := dec.DecodeURL("img.png")
	require.NoError(t, err)
	assert.Equal(t, 4, tex.Width)
	assert.Equal(t, 5, tex.Height)

	_, err = dec.DecodeURL("missing.png")
	assert.Error(t, err)

	_, err = dec.DecodeURL("https://example.com/img.png")
	assert.Error(t, err)
}
