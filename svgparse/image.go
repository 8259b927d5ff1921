package svgparse

import (
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/benoitkugler/svgscene/svgerr"
	"github.com/benoitkugler/svgscene/svgscene"
)

// decodeDataURI splits a data: URI into its media type and payload.
func decodeDataURI(uri string) (mime string, data []byte, err error) {
	rest := strings.TrimPrefix(uri, "data:")
	comma := strings.IndexByte(rest, ',')
	if comma == -1 {
		return "", nil, svgerr.NewAt(svgerr.InvalidAttributeValue, "href", -1, "invalid data URI: missing ','")
	}
	header, payload := rest[:comma], rest[comma+1:]
	params := strings.Split(header, ";")
	mime = strings.TrimSpace(params[0])
	isBase64 := false
	for _, param := range params[1:] {
		if strings.TrimSpace(param) == "base64" {
			isBase64 = true
		}
	}
	if isBase64 {
		// line breaks are common in embedded images
		payload = strings.Map(func(r rune) rune {
			switch r {
			case ' ', '\n', '\r', '\t':
				return -1
			}
			return r
		}, payload)
		data, err = base64.StdEncoding.DecodeString(payload)
	} else {
		var s string
		s, err = url.PathUnescape(payload)
		data = []byte(s)
	}
	if err != nil {
		return "", nil, svgerr.NewAt(svgerr.InvalidAttributeValue, "href", -1, "invalid data URI: %s", err)
	}
	return mime, data, nil
}

func (p *parser) loadTexture(el *element, href string) (svgscene.Texture, bool, error) {
	if p.opts.Images == nil {
		Logger().Debug("no image decoder: skipping image", "line", el.line)
		return svgscene.Texture{}, false, nil
	}
	var (
		tex svgscene.Texture
		err error
	)
	if strings.HasPrefix(href, "data:") {
		mime, data, errURI := decodeDataURI(href)
		if errURI != nil {
			return tex, false, errURI
		}
		tex, err = p.opts.Images.DecodeData(mime, data)
	} else {
		tex, err = p.opts.Images.DecodeURL(href)
	}
	if err != nil {
		return tex, false, p.unsupported(el, "unsupported image: %s", err)
	}
	return tex, tex.Width > 0 && tex.Height > 0, nil
}

// image builds a rectangle filled with the referenced texture.
// Images which can't be loaded are skipped.
func (p *parser) image(el *element, node svgscene.NodeID) error {
	href := el.attrs["href"]
	if href == "" {
		href = el.attrs["xlink:href"]
	}
	if href != "" {
		tex, ok, err := p.loadTexture(el, href)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		// fill and stroke are ignored for images
		if err := p.nodeBasics(el, node); err != nil {
			return err
		}
		viewport, err := p.parseViewport(el, p.containerSize())
		if err != nil {
			return err
		}
		n := p.scene.Node(node)
		n.Transform = n.Transform.Translate(viewport.Min.X, viewport.Min.Y)
		size := svgscene.Point{X: float64(tex.Width), Y: float64(tex.Height)}
		vb := svgscene.Rect{Size: size}
		n.Transform = FitViewBox(n.Transform, vb, viewport, ParseAspectRatio(el.attrs["preserveAspectRatio"]))

		rect := &svgscene.Rectangle{
			Size: size,
			Filled: svgscene.Filled{
				Fill:          &svgscene.TextureFill{Texture: tex, Mode: svgscene.NonZero, Addressing: svgscene.Clamp},
				FillTransform: svgscene.Identity,
			},
		}
		n.Drawables = []svgscene.Drawable{rect}
		if err := p.parseClip(el, node); err != nil {
			return err
		}
	}
	p.registerNode(el, node)
	return nil
}
