package svgparse

import (
	"fmt"

	"github.com/benoitkugler/svgscene/svgerr"
	"github.com/benoitkugler/svgscene/svgscene"
)

// ErrorMode sets how the parser reacts to unsupported elements
type ErrorMode uint8

const (
	// IgnoreErrorMode skips unsupported elements silently
	IgnoreErrorMode ErrorMode = iota
	// WarnErrorMode logs a warning and skips unsupported elements
	WarnErrorMode
	// StrictErrorMode turns unsupported elements into errors
	StrictErrorMode
)

func (e ErrorMode) String() string {
	switch e {
	case IgnoreErrorMode:
		return "ignore"
	case WarnErrorMode:
		return "warn"
	case StrictErrorMode:
		return "strict"
	default:
		return fmt.Sprintf("<unknown ErrorMode %d>", uint8(e))
	}
}

// ParseErrorMode is the inverse of ErrorMode.String
func ParseErrorMode(s string) (ErrorMode, error) {
	switch s {
	case "ignore":
		return IgnoreErrorMode, nil
	case "warn", "":
		return WarnErrorMode, nil
	case "strict":
		return StrictErrorMode, nil
	}
	return 0, fmt.Errorf("invalid error mode %q", s)
}

// ImageDecoder provides the textures of <image> elements.
// The parser only uses the dimensions of the returned texture.
type ImageDecoder interface {
	// DecodeData is called for data: URIs, with the declared
	// MIME type and the decoded bytes.
	DecodeData(mime string, data []byte) (svgscene.Texture, error)
	// DecodeURL is called for the other references.
	DecodeURL(url string) (svgscene.Texture, error)
}

// Options controls the compilation of one document.
type Options struct {
	// DPI is the resolution of the target device, used for absolute
	// units (in, cm, mm, pt, pc). 0 means 90, the document default.
	DPI float64
	// PixelsPerUnit scales the whole scene down by this factor.
	// 0 means 1.
	PixelsPerUnit float64
	// WindowWidth and WindowHeight are the viewport size used
	// when the root element does not specify one.
	WindowWidth, WindowHeight float64

	ErrorMode ErrorMode

	// Images is used for <image> elements. When nil,
	// images are skipped.
	Images ImageDecoder
}

func (opts Options) dpiScale() float64 {
	if opts.DPI <= 0 {
		return 1
	}
	return opts.DPI / 90
}

// unsupported reports a recoverable problem on element `el`, according
// to the error mode. A non nil error is only returned in StrictErrorMode.
func (p *parser) unsupported(el *element, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	switch p.opts.ErrorMode {
	case StrictErrorMode:
		err := svgerr.New(svgerr.UnsupportedFeature, "%s", msg)
		if el != nil {
			return svgerr.At(err, el.line, el.col)
		}
		return err
	case WarnErrorMode:
		if el != nil {
			Logger().Warn(msg, "element", el.name, "line", el.line)
		} else {
			Logger().Warn(msg)
		}
	}
	return nil
}
