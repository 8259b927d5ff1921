package svgparse

import (
	"errors"
	"strings"
	"testing"

	"github.com/benoitkugler/svgscene/svgerr"
	"github.com/benoitkugler/svgscene/svgscene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, doc string, mode ErrorMode) (*svgscene.Scene, svgscene.NodeOpacities) {
	t.Helper()
	scene, opacities, err := ReadSceneStream(strings.NewReader(doc), Options{ErrorMode: mode})
	require.NoError(t, err)
	return scene, opacities
}

func parseErr(doc string) error {
	_, _, err := ReadSceneStream(strings.NewReader(doc), Options{ErrorMode: StrictErrorMode})
	return err
}

// drawableAt returns the first drawable of the i-th child of the root.
func drawableAt(t *testing.T, scene *svgscene.Scene, i int) svgscene.Drawable {
	t.Helper()
	root := scene.Node(scene.Root)
	require.Greater(t, len(root.Children), i)
	node := scene.Node(root.Children[i])
	require.NotEmpty(t, node.Drawables)
	return node.Drawables[0]
}

func solidColor(t *testing.T, d svgscene.Drawable) svgscene.Color {
	t.Helper()
	filled := svgscene.FillOf(d)
	require.NotNil(t, filled)
	solid, ok := filled.Fill.(*svgscene.SolidFill)
	require.True(t, ok, "unexpected fill %T", filled.Fill)
	return solid.Color
}

var (
	red  = svgscene.Color{R: 1, A: 1}
	blue = svgscene.Color{B: 1, A: 1}
)

func TestLinearGradientEndToEnd(t *testing.T) {
	scene, _ := parseDoc(t, `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="100">
		<defs>
			<linearGradient id="grad" x1="0%" y1="0%" x2="100%" y2="0%">
				<stop offset="0%" stop-color="red"/>
				<stop offset="100%" stop-color="blue" stop-opacity="0.5"/>
			</linearGradient>
		</defs>
		<rect x="5" y="10" width="100" height="20" fill="url(#grad)"/>
	</svg>`, StrictErrorMode)

	r, ok := drawableAt(t, scene, 0).(*svgscene.Rectangle)
	require.True(t, ok)
	grad, ok := r.Fill.(*svgscene.GradientFill)
	require.True(t, ok)
	assert.Equal(t, svgscene.Linear, grad.Type)
	assert.Equal(t, svgscene.Clamp, grad.Addressing)
	assert.Equal(t, []svgscene.GradientStop{
		{Color: red, Offset: 0},
		{Color: blue.WithAlpha(0.5), Offset: 1},
	}, grad.Stops)

	bounds := r.Rect()
	for _, test := range []struct {
		p svgscene.Point
		u float64
	}{
		{bounds.Min, 0},
		{bounds.Max(), 1},
		{svgscene.Point{X: 105, Y: 10}, 1},
		{svgscene.Point{X: 55, Y: 30}, 0.5},
	} {
		got := r.FillTransform.Apply(test.p)
		assert.InDelta(t, test.u, got.X, 1e-9, "at %s", test.p)
	}
}

func TestGradientUserSpace(t *testing.T) {
	scene, _ := parseDoc(t, `<svg width="200" height="100">
		<linearGradient id="g" gradientUnits="userSpaceOnUse" x1="0" y1="0" x2="0" y2="50%" gradientTransform="translate(10, 0)" spreadMethod="reflect">
			<stop offset="0.2" stop-color="red"/>
		</linearGradient>
		<rect x="0" y="0" width="200" height="100" fill="url(#g)"/>
	</svg>`, StrictErrorMode)

	r := drawableAt(t, scene, 0).(*svgscene.Rectangle)
	grad := r.Fill.(*svgscene.GradientFill)
	assert.Equal(t, svgscene.Mirror, grad.Addressing)
	assert.Equal(t, 0.2, grad.Stops[0].Offset)
	// vertical gradient, 50 units long
	assert.InDelta(t, 0, r.FillTransform.Apply(svgscene.Point{X: 30, Y: 0}).X, 1e-9)
	assert.InDelta(t, 1, r.FillTransform.Apply(svgscene.Point{X: 30, Y: 50}).X, 1e-9)
	assert.InDelta(t, 2, r.FillTransform.Apply(svgscene.Point{X: 0, Y: 100}).X, 1e-9)
}

func TestRadialGradient(t *testing.T) {
	scene, _ := parseDoc(t, `<svg width="100" height="100">
		<radialGradient id="r" fx="100%" fy="50%">
			<stop offset="0" stop-color="red"/>
			<stop offset="1" stop-color="blue"/>
		</radialGradient>
		<rect width="100" height="100" fill="url(#r)"/>
	</svg>`, StrictErrorMode)

	r := drawableAt(t, scene, 0).(*svgscene.Rectangle)
	grad := r.Fill.(*svgscene.GradientFill)
	assert.Equal(t, svgscene.Radial, grad.Type)

	// the focus on the outer circle is pulled inside
	focus := grad.RadialFocus
	assert.Less(t, focus.Length(), 1.)
	assert.InDelta(t, 1-focusEpsilon, focus.X, 1e-12)
	assert.InDelta(t, 0, focus.Y, 1e-12)

	assertMaps(t, r.FillTransform, svgscene.Point{X: 50, Y: 50}, svgscene.Point{})
	assertMaps(t, r.FillTransform, svgscene.Point{X: 100, Y: 50}, svgscene.Point{X: 1, Y: 0})
	assertMaps(t, r.FillTransform, svgscene.Point{X: 50, Y: 0}, svgscene.Point{X: 0, Y: -1})
}

func TestDegenerateGradient(t *testing.T) {
	scene, _ := parseDoc(t, `<svg>
		<linearGradient id="g" x1="50%" x2="50%"><stop offset="1" stop-color="red"/></linearGradient>
		<rect width="10" height="10" fill="url(#g)"/>
	</svg>`, StrictErrorMode)
	r := drawableAt(t, scene, 0).(*svgscene.Rectangle)
	assert.Equal(t, 1., r.FillTransform.Apply(svgscene.Point{X: 3, Y: 7}).X)
}

func TestRootViewBox(t *testing.T) {
	scene, _ := parseDoc(t, `<svg width="200" height="200" viewBox="0 0 100 50"><rect width="1" height="1"/></svg>`, StrictErrorMode)
	root := scene.Node(scene.Root)
	assertMaps(t, root.Transform, svgscene.Point{}, svgscene.Point{X: 0, Y: 50})

	// the window size is used when the root has no dimensions
	scene, _, err := ReadSceneStream(strings.NewReader(`<svg viewBox="0 0 10 10"/>`), Options{WindowWidth: 20, WindowHeight: 20, PixelsPerUnit: 2})
	require.NoError(t, err)
	// scaled by 2 for the viewBox, then by 1/2 for the pixels per unit
	assertMaps(t, scene.Node(scene.Root).Transform, svgscene.Point{X: 10, Y: 10}, svgscene.Point{X: 10, Y: 10})
}

func TestShapes(t *testing.T) {
	scene, opacities := parseDoc(t, `<svg width="100" height="100">
		<rect x="1" y="2" width="10" height="4" rx="3" opacity="0.5"/>
		<circle cx="10" cy="10" r="5"/>
		<ellipse cx="10" cy="10" rx="5" ry="2" transform="translate(1 1)"/>
		<line x1="0" y1="0" x2="10" y2="0" stroke="red"/>
		<polygon points="0,0 10,0 10,10"/>
		<polyline points="0 0 10 0 10 10" stroke="blue"/>
		<rect width="50%" height="10"/>
	</svg>`, StrictErrorMode)
	root := scene.Node(scene.Root)
	require.Len(t, root.Children, 7)

	r := drawableAt(t, scene, 0).(*svgscene.Rectangle)
	assert.Equal(t, svgscene.Point{X: 3, Y: 2}, r.RadiusTL) // ry copies rx, then clamped
	assert.Equal(t, r.RadiusTL, r.RadiusBR)
	assert.Equal(t, 0.5, opacities.Opacity(root.Children[0]))
	assert.Equal(t, 1., opacities.Opacity(root.Children[1]))
	assert.Equal(t, svgscene.Black, solidColor(t, r))

	c := drawableAt(t, scene, 1).(*svgscene.Rectangle)
	assert.Equal(t, svgscene.Point{X: 5, Y: 5}, c.Position)
	assert.Equal(t, svgscene.Point{X: 10, Y: 10}, c.Size)
	assert.Equal(t, svgscene.Point{X: 5, Y: 5}, c.RadiusTR)

	e := drawableAt(t, scene, 2).(*svgscene.Rectangle)
	assert.Equal(t, svgscene.Point{X: 5, Y: 2}, e.RadiusBL)
	assert.Equal(t, svgscene.Identity.Translate(1, 1), scene.Node(root.Children[2]).Transform)

	l := drawableAt(t, scene, 3).(*svgscene.Path)
	require.NotNil(t, l.Props.Stroke)
	assert.Equal(t, red, l.Props.Stroke.Color)
	assert.Len(t, svgscene.ContourSegments(l.Contour), 1)

	poly := drawableAt(t, scene, 4).(*svgscene.Shape)
	require.Len(t, poly.Contours, 1)
	assert.True(t, poly.Contours[0].Closed)
	assert.Len(t, svgscene.ContourSegments(poly.Contours[0]), 3)

	pl := drawableAt(t, scene, 5).(*svgscene.Path)
	assert.False(t, pl.Contour.Closed)
	assert.Len(t, svgscene.ContourSegments(pl.Contour), 2)

	half := drawableAt(t, scene, 6).(*svgscene.Rectangle)
	assert.InDelta(t, 50, half.Size.X, 1e-9)
}

func TestPathDrawables(t *testing.T) {
	scene, _ := parseDoc(t, `<svg>
		<path d="M0 0 L10 0 Z M20 20 L30 30" fill="none" stroke="red"/>
		<path d="M0 0 L10 0 Z M20 20 L30 30" fill-rule="evenodd"/>
		<path id="empty" d=""/>
		<use href="#empty"/>
	</svg>`, StrictErrorMode)
	root := scene.Node(scene.Root)
	// one path per contour without fill
	assert.Len(t, scene.Node(root.Children[0]).Drawables, 2)

	shapes := scene.Node(root.Children[1]).Drawables
	require.Len(t, shapes, 1)
	s := shapes[0].(*svgscene.Shape)
	assert.Len(t, s.Contours, 2)
	assert.Equal(t, svgscene.EvenOdd, s.Fill.FillMode())
	assert.Nil(t, s.Props.Stroke)

	assert.Empty(t, scene.Node(root.Children[2]).Drawables)
	// the empty path can still be referenced
	assert.Equal(t, []svgscene.NodeID{root.Children[2]}, scene.Node(root.Children[3]).Children)

	err := parseErr(`<svg><path/></svg>`)
	assert.True(t, svgerr.Is(err, svgerr.InvalidAttributeValue))
}

func TestStroke(t *testing.T) {
	scene, _ := parseDoc(t, `<svg>
		<g stroke-width="4" stroke-linecap="round">
			<path d="M0 0 L10 0" stroke="red" stroke-opacity="0.5" stroke-dasharray="1 2 3" stroke-dashoffset="2" stroke-linejoin="bevel" fill="none"/>
		</g>
	</svg>`, StrictErrorMode)
	g := scene.Node(scene.Node(scene.Root).Children[0])
	path := scene.Node(g.Children[0]).Drawables[0].(*svgscene.Path)
	props := path.Props
	require.NotNil(t, props.Stroke)
	assert.Equal(t, red.WithAlpha(0.5), props.Stroke.Color)
	assert.Equal(t, 2., props.Stroke.HalfThickness)
	assert.Equal(t, []float64{1, 2, 3, 1, 2, 3}, props.Stroke.Pattern)
	assert.Equal(t, 2., props.Stroke.PatternOffset)
	assert.Equal(t, 4., props.Stroke.TippedCornerLimit)
	assert.Equal(t, svgscene.RoundEnding, props.Head)
	assert.Equal(t, svgscene.RoundEnding, props.Tail)
	assert.Equal(t, svgscene.Beveled, props.Corners)

	err := parseErr(`<svg><rect stroke="red" stroke-miterlimit="0.5"/></svg>`)
	assert.True(t, svgerr.Is(err, svgerr.InvalidAttributeValue))
}

func TestFills(t *testing.T) {
	scene, _ := parseDoc(t, `<svg>
		<rect width="1" height="1" fill-opacity="0.5"/>
		<rect width="1" height="1" fill="url(#missing) red"/>
		<rect width="1" height="1" fill="url(#missing)"/>
		<rect width="1" height="1" fill="none"/>
		<rect width="1" height="1" fill="#00f" fill-opacity="0.25"/>
	</svg>`, WarnErrorMode)

	assert.Equal(t, svgscene.Black.WithAlpha(0.5), solidColor(t, drawableAt(t, scene, 0)))
	assert.Equal(t, red, solidColor(t, drawableAt(t, scene, 1)))
	assert.Nil(t, svgscene.FillOf(drawableAt(t, scene, 2)).Fill)
	assert.Nil(t, svgscene.FillOf(drawableAt(t, scene, 3)).Fill)
	assert.Equal(t, blue.WithAlpha(0.25), solidColor(t, drawableAt(t, scene, 4)))

	// dangling paints are errors in strict mode
	err := parseErr(`<svg><rect fill="url(#missing)"/></svg>`)
	assert.True(t, svgerr.Is(err, svgerr.UnsupportedFeature))

	for _, doc := range []string{
		`<svg><rect fill="currentColor"/></svg>`,
		`<svg><rect fill="bleu"/></svg>`,
		`<svg><rect fill-rule="odd"/></svg>`,
	} {
		assert.Error(t, parseErr(doc), doc)
	}
}

func TestStyleCascade(t *testing.T) {
	scene, _ := parseDoc(t, `<svg>
		<style>
			.a { fill: blue }
			rect { fill: #00ff00 }
		</style>
		<rect class="a" style="fill:red" fill="yellow" width="1" height="1"/>
		<rect class="a" width="1" height="1"/>
		<rect width="1" height="1"/>
		<g fill="red"><circle r="1"/></g>
		<rect class="a" style="fill:red;stroke:blue" width="1" height="1"/>
	</svg>`, StrictErrorMode)

	assert.Equal(t, red, solidColor(t, drawableAt(t, scene, 0)))
	assert.Equal(t, blue, solidColor(t, drawableAt(t, scene, 1)))
	assert.Equal(t, svgscene.Color{G: 1, A: 1}, solidColor(t, drawableAt(t, scene, 2)))

	g := scene.Node(scene.Node(scene.Root).Children[3])
	circle := scene.Node(g.Children[0]).Drawables[0]
	assert.Equal(t, red, solidColor(t, circle))

	last := drawableAt(t, scene, 4)
	assert.Equal(t, red, solidColor(t, last))
	require.NotNil(t, last.PathProps().Stroke)
	assert.Equal(t, blue, last.PathProps().Stroke.Color)
}

func TestUseAndSymbol(t *testing.T) {
	scene, _ := parseDoc(t, `<svg xmlns:xlink="http://www.w3.org/1999/xlink" width="100" height="100">
		<defs>
			<g id="shape"><rect width="10" height="10"/></g>
		</defs>
		<symbol id="sym" viewBox="0 0 10 10"><rect width="10" height="10"/></symbol>
		<use href="#shape" x="5" y="6"/>
		<use xlink:href="#shape" x="20"/>
		<use href="#sym" x="50" width="20" height="20"/>
	</svg>`, StrictErrorMode)

	root := scene.Node(scene.Root)
	require.Len(t, root.Children, 3)
	first, second := scene.Node(root.Children[0]), scene.Node(root.Children[1])
	require.Len(t, first.Children, 1)
	// the same node is shared
	assert.Equal(t, first.Children, second.Children)
	assert.Equal(t, svgscene.Identity.Translate(5, 6), first.Transform)

	shared := first.Children[0]
	var visits int
	for _, v := range scene.WorldTransformedNodes(nil) {
		if v.Node == shared {
			visits++
		}
	}
	assert.Equal(t, 2, visits)

	// the symbol viewBox maps its 10x10 content to 20x20
	sym := scene.Node(root.Children[2])
	assertMaps(t, sym.Transform, svgscene.Point{X: 10, Y: 10}, svgscene.Point{X: 70, Y: 20})
}

func TestUseErrors(t *testing.T) {
	for _, doc := range []string{
		`<svg><use href="#nope"/></svg>`,
		`<svg><use href="#later"/><g id="later"/></svg>`,
		`<svg><use href="other.svg#a"/></svg>`,
		`<svg><g id="loop"><g><use href="#loop"/></g></g></svg>`,
	} {
		err := parseErr(doc)
		assert.True(t, svgerr.Is(err, svgerr.InvalidAttributeValue), doc)
	}
}

func TestDuplicateIDLastWins(t *testing.T) {
	scene, _ := parseDoc(t, `<svg>
		<linearGradient id="g"><stop stop-color="red"/></linearGradient>
		<linearGradient id="g"><stop stop-color="blue"/></linearGradient>
		<rect width="1" height="1" fill="url(#g)"/>
	</svg>`, StrictErrorMode)
	grad := svgscene.FillOf(drawableAt(t, scene, 0)).Fill.(*svgscene.GradientFill)
	assert.Equal(t, blue, grad.Stops[0].Color)
}

func TestClipPath(t *testing.T) {
	scene, _ := parseDoc(t, `<svg>
		<g clip-path="url(#bbox)"><rect x="10" y="20" width="100" height="50"/></g>
		<clipPath id="bbox" clipPathUnits="objectBoundingBox"><rect width="0.5" height="1"/></clipPath>
		<clipPath id="user"><rect width="5" height="5"/></clipPath>
		<rect width="1" height="1" clip-path="url(#user)"/>
	</svg>`, StrictErrorMode)
	root := scene.Node(scene.Root)

	g := scene.Node(root.Children[0])
	require.NotEqual(t, svgscene.NoNode, g.Clipper)
	wrapper := scene.Node(g.Clipper)
	require.Len(t, wrapper.Children, 1)
	assertMaps(t, wrapper.Transform, svgscene.Point{}, svgscene.Point{X: 10, Y: 20})
	assertMaps(t, wrapper.Transform, svgscene.Point{X: 1, Y: 1}, svgscene.Point{X: 110, Y: 70})

	r := scene.Node(root.Children[1])
	require.NotEqual(t, svgscene.NoNode, r.Clipper)
	assert.Len(t, scene.Node(r.Clipper).Drawables, 0)
	assert.Len(t, scene.Node(r.Clipper).Children, 1)
}

func TestUnsupportedElements(t *testing.T) {
	doc := `<svg><title> Icon </title><desc>A test</desc><text>hello</text><rect width="1" height="1"><animate/></rect><g display="none"><rect/></g></svg>`
	scene, _ := parseDoc(t, doc, WarnErrorMode)
	assert.Equal(t, []string{"Icon"}, scene.Titles)
	assert.Equal(t, []string{"A test"}, scene.Descriptions)
	// <text> is skipped, as well as the hidden group
	assert.Len(t, scene.Node(scene.Root).Children, 1)

	err := parseErr(doc)
	assert.True(t, svgerr.Is(err, svgerr.UnsupportedFeature))
	var e *svgerr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 1, e.Line)
}

func TestErrorsAreLocated(t *testing.T) {
	err := parseErr("<svg>\n<g>\n<rect transform=\"rotat(4)\"/></g></svg>")
	var e *svgerr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, svgerr.InvalidTransform, e.Kind)
	assert.Equal(t, 3, e.Line)
	assert.Equal(t, "transform", e.Attr)

	assert.True(t, svgerr.Is(parseErr(`<html/>`), svgerr.MalformedDocument))
	assert.True(t, svgerr.Is(parseErr(`<svg><g></svg>`), svgerr.MalformedDocument))
	assert.True(t, svgerr.Is(parseErr(`<svg><path d="L 10 10"/></svg>`), svgerr.InvalidPathStart))
	assert.True(t, svgerr.Is(parseErr(`<svg><polygon points="0 0 1"/></svg>`), svgerr.InvalidAttributeValue))
	assert.True(t, svgerr.Is(parseErr(`<svg><rect width="1em"/></svg>`), svgerr.UnsupportedFeature))
	assert.True(t, svgerr.Is(parseErr(`<svg><linearGradient spreadMethod="loop"/></svg>`), svgerr.InvalidAttributeValue))
}

type fakeDecoder struct {
	mimes []string
	data  [][]byte
}

func (fd *fakeDecoder) DecodeData(mime string, data []byte) (svgscene.Texture, error) {
	fd.mimes = append(fd.mimes, mime)
	fd.data = append(fd.data, data)
	return svgscene.Texture{Width: 4, Height: 2, Format: mime, Data: data}, nil
}

func (fd *fakeDecoder) DecodeURL(url string) (svgscene.Texture, error) {
	return svgscene.Texture{}, errors.New("no network in tests: " + url)
}

func TestImage(t *testing.T) {
	doc := `<svg width="100" height="100">
		<image x="1" y="1" width="8" height="4" href="data:image/png;base64,aGVs
		bG8="/>
		<image width="8" height="4" href="https://example.com/a.png"/>
	</svg>`
	decoder := &fakeDecoder{}
	scene, _, err := ReadSceneStream(strings.NewReader(doc), Options{Images: decoder})
	require.NoError(t, err)
	assert.Equal(t, []string{"image/png"}, decoder.mimes)
	assert.Equal(t, []byte("hello"), decoder.data[0])

	root := scene.Node(scene.Root)
	require.Len(t, root.Children, 2)
	img := scene.Node(root.Children[0])
	require.Len(t, img.Drawables, 1)
	r := img.Drawables[0].(*svgscene.Rectangle)
	tex, ok := r.Fill.(*svgscene.TextureFill)
	require.True(t, ok)
	assert.Equal(t, 4, tex.Texture.Width)
	assertMaps(t, img.Transform, svgscene.Point{X: 4, Y: 2}, svgscene.Point{X: 9, Y: 5})

	// images which can't be loaded are skipped
	assert.Empty(t, scene.Node(root.Children[1]).Drawables)

	_, _, err = ReadSceneStream(strings.NewReader(doc), Options{Images: decoder, ErrorMode: StrictErrorMode})
	assert.True(t, svgerr.Is(err, svgerr.UnsupportedFeature))
}

func TestDataURI(t *testing.T) {
	mime, data, err := decodeDataURI("data:image/svg+xml,%3Csvg%2F%3E")
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", mime)
	assert.Equal(t, "<svg/>", string(data))

	_, _, err = decodeDataURI("data:image/png;base64")
	assert.True(t, svgerr.Is(err, svgerr.InvalidAttributeValue))
	_, _, err = decodeDataURI("data:image/png;base64,@@")
	assert.Error(t, err)
}
