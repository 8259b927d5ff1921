package svgscene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContourSegments(t *testing.T) {
	segs := []BezierSegment{
		MakeLine(Point{0, 0}, Point{10, 0}),
		MakeLine(Point{10, 0}, Point{10, 10}),
	}
	closed := ContourFromSegments(segs, true)
	require.Len(t, closed.Segments, 3) // closing line added
	unpacked := ContourSegments(closed)
	require.Len(t, unpacked, 3)
	assert.Equal(t, Point{0, 0}, unpacked[2].P3)

	open := ContourFromSegments(segs, false)
	require.Len(t, open.Segments, 3) // end point
	unpacked = ContourSegments(open)
	require.Len(t, unpacked, 2)
	assert.Equal(t, Point{10, 10}, unpacked[1].P3)
}

func TestMakeLine(t *testing.T) {
	l := MakeLine(Point{0, 0}, Point{3, 6})
	assert.Equal(t, Point{1, 2}, l.P1)
	assert.Equal(t, Point{2, 4}, l.P2)
}

func TestCurveBounds(t *testing.T) {
	// symmetric arch reaching y = 0.75 * 4 = 3 at t = 0.5
	s := BezierSegment{P0: Point{0, 0}, P1: Point{0, 4}, P2: Point{10, 4}, P3: Point{10, 0}}
	b := s.Bounds()
	assert.InDelta(t, 0, b.Min.X, 1e-9)
	assert.InDelta(t, 0, b.Min.Y, 1e-9)
	assert.InDelta(t, 10, b.Size.X, 1e-9)
	assert.InDelta(t, 3, b.Size.Y, 1e-9)
}

func TestRectangleContour(t *testing.T) {
	r := &Rectangle{Position: Point{5, 10}, Size: Point{100, 20}}
	c := RectangleContour(r)
	assert.True(t, c.Closed)
	assert.Len(t, ContourSegments(c), 4)
	b, ok := ContourBounds(c)
	require.True(t, ok)
	assert.Equal(t, r.Rect(), b)

	r.RadiusTL, r.RadiusTR, r.RadiusBL, r.RadiusBR = Point{5, 5}, Point{5, 5}, Point{5, 5}, Point{5, 5}
	c = RectangleContour(r)
	assert.Len(t, ContourSegments(c), 8)
	b, _ = ContourBounds(c)
	assert.InDelta(t, 5, b.Min.X, 1e-9)
	assert.InDelta(t, 20, b.Size.Y, 1e-9)
}

func TestSharedNodes(t *testing.T) {
	s := NewScene()
	shared := s.NewNode()
	s.Node(shared).Drawables = []Drawable{&Rectangle{Size: Point{1, 1}}}

	a, b := s.NewNode(), s.NewNode()
	s.Node(a).Transform = Identity.Translate(10, 0)
	s.Node(b).Transform = Identity.Translate(0, 10)
	s.AddChild(s.Root, a)
	s.AddChild(s.Root, b)
	s.AddChild(a, shared)
	s.AddChild(b, shared)
	// a cycle is not followed
	s.AddChild(shared, a)

	visits := s.WorldTransformedNodes(NodeOpacities{b: 0.5})
	var sharedVisits []NodeWorldTransform
	for _, v := range visits {
		if v.Node == shared {
			sharedVisits = append(sharedVisits, v)
		}
	}
	require.Len(t, sharedVisits, 2)
	assert.Equal(t, a, sharedVisits[0].Parent)
	assert.Equal(t, 1., sharedVisits[0].WorldOpacity)
	assert.Equal(t, 0.5, sharedVisits[1].WorldOpacity)
	x, y := sharedVisits[1].WorldTransform.Transform(0, 0)
	assert.Equal(t, [2]float64{0, 10}, [2]float64{x, y})

	bounds, ok := s.NodeBounds(s.Root)
	require.True(t, ok)
	assert.Equal(t, Rect{Min: Point{0, 0}, Size: Point{11, 11}}, bounds)
}
