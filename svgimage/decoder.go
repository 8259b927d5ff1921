// Package svgimage provides the image decoder used for
// <image> elements.
package svgimage

import (
	"bytes"
	"image"
	_ "image/gif"  // for processing gif images
	_ "image/jpeg" // for processing jpeg images
	_ "image/png"  // for processing png images
	"net/url"
	"os"
	"path/filepath"

	"github.com/benoitkugler/svgscene/svgparse"
	"github.com/benoitkugler/svgscene/svgscene"
	"github.com/h2non/filetype"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"  // for processing bmp images
	_ "golang.org/x/image/webp" // for processing webp images
)

// ErrUnknownFormat is returned for data which is not a supported image.
var ErrUnknownFormat = errors.New("unknown image format")

// Decoder implements svgparse.ImageDecoder, reading
// local files relative to BaseDir.
type Decoder struct {
	BaseDir string
}

var _ svgparse.ImageDecoder = Decoder{}

// DecodeData sniffs the format of `data`, which has precedence
// over the declared `mime` type, and reads the image dimensions.
func (d Decoder) DecodeData(mime string, data []byte) (svgscene.Texture, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown || !filetype.IsImage(data) {
		return svgscene.Texture{}, ErrUnknownFormat
	}
	if mime != "" && mime != kind.MIME.Value {
		svgparse.Logger().Debug("image type mismatch", "declared", mime, "detected", kind.MIME.Value)
	}
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return svgscene.Texture{}, errors.Wrap(err, "decoding image header")
	}
	return svgscene.Texture{
		Width:  config.Width,
		Height: config.Height,
		Format: kind.MIME.Value,
		Data:   data,
	}, nil
}

// DecodeURL loads the file referenced by `ref`, which
// must be a relative path or a file:// URL.
func (d Decoder) DecodeURL(ref string) (svgscene.Texture, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return svgscene.Texture{}, errors.Wrapf(err, "invalid image reference %q", ref)
	}
	if u.Scheme != "" && u.Scheme != "file" {
		return svgscene.Texture{}, errors.Errorf("unsupported image scheme %q", u.Scheme)
	}
	path := filepath.FromSlash(u.Path)
	if !filepath.IsAbs(path) {
		path = filepath.Join(d.BaseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return svgscene.Texture{}, errors.Wrap(err, "reading image")
	}
	tex, err := d.DecodeData("", data)
	if err != nil {
		return tex, errors.Wrapf(err, "decoding %s", path)
	}
	return tex, nil
}
