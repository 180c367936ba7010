package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitSquare(t *testing.T) *BoundaryComponent {
	t.Helper()
	c, err := PolygonSpec("outer",
		NewVec2(0, 0), NewVec2(1, 0), NewVec2(1, 1), NewVec2(0, 1),
	).Build()
	require.NoError(t, err)
	return c
}

func TestBoundaryComponentRejectsEmpty(t *testing.T) {
	_, err := NewBoundaryComponent("empty", nil)
	assert.ErrorIs(t, err, ErrEmptyComponent)
}

func TestCumulativeLengths(t *testing.T) {
	c := unitSquare(t)
	assert.Equal(t, []float64{1, 2, 3, 4}, c.CumulativeLengths())
	assert.InDelta(t, 4.0, c.Length(), 1e-12)
	assert.Equal(t, 4, c.SegmentCount())
}

func TestLocateWrapsAndUsesHalfOpenJoints(t *testing.T) {
	c := unitSquare(t)

	cases := []struct {
		s     float64
		seg   int
		local float64
	}{
		{0, 0, 0},
		{0.5, 0, 0.5},
		{1, 1, 0},
		{2.25, 2, 0.25},
		{3.999, 3, 0.999},
		{4, 0, 0},
		{5.5, 1, 0.5},
		{-0.5, 3, 0.5},
		{-4.25, 3, 0.75},
	}
	for _, tc := range cases {
		seg, local := c.Locate(tc.s)
		assert.Equal(t, tc.seg, seg, "s=%g", tc.s)
		assert.InDelta(t, tc.local, local, 1e-12, "s=%g", tc.s)
	}
}

func TestLocatePartitionsEverySegmentInOrder(t *testing.T) {
	spec := BoundarySpec{Name: "mixed", Segments: []SegmentSpec{
		LineSpec(NewVec2(-1, -1), NewVec2(1, -1)),
		ArcSpec(NewVec2(1, 0), 1, -math.Pi/2, math.Pi/2, true),
		LineSpec(NewVec2(1, 1), NewVec2(-1, 1)),
		ArcSpec(NewVec2(-1, 0), 1, math.Pi/2, 3*math.Pi/2, true),
	}}
	c, err := spec.Build()
	require.NoError(t, err)

	const n = 2000
	lastSeg, lastLocal := 0, -1.0
	visited := map[int]bool{}
	for i := 0; i < n; i++ {
		s := c.Length() * float64(i) / n
		seg, local := c.Locate(s)
		visited[seg] = true
		require.GreaterOrEqual(t, seg, lastSeg, "segments must be visited in order")
		if seg == lastSeg {
			require.Greater(t, local, lastLocal)
		}
		require.GreaterOrEqual(t, local, 0.0)
		require.Less(t, local, c.Segment(seg).Length())
		assert.InDelta(t, s, c.GlobalS(seg, local), 1e-9)
		lastSeg, lastLocal = seg, local
	}
	assert.Len(t, visited, 4)
}

func TestGlobalSReconstructsWrappedS(t *testing.T) {
	c := unitSquare(t)
	for _, s := range []float64{0.1, 1.7, 3.3, 7.9, -2.2} {
		seg, local := c.Locate(s)
		assert.InDelta(t, c.Wrap(s), c.GlobalS(seg, local), 1e-12)
	}
}

func TestPointTangentAndInwardNormal(t *testing.T) {
	c := unitSquare(t)

	p, tan := c.PointAndTangentAt(2.5)
	assert.InDelta(t, 0.5, p.X, 1e-12)
	assert.InDelta(t, 1.0, p.Y, 1e-12)
	assert.InDelta(t, -1.0, tan.X, 1e-12)

	// bottom edge: inward is +y
	_, n := c.PointAndInwardNormalAt(0.5)
	assert.InDelta(t, 0.0, n.X, 1e-12)
	assert.InDelta(t, 1.0, n.Y, 1e-12)

	// right edge: inward is -x
	_, n = c.PointAndInwardNormalAt(1.5)
	assert.InDelta(t, -1.0, n.X, 1e-12)
	assert.InDelta(t, 0.0, n.Y, 1e-12)
}

func TestOrientationAndClosure(t *testing.T) {
	c := unitSquare(t)
	assert.Equal(t, CounterClockwise, c.Orientation())
	assert.InDelta(t, 1.0, c.SignedArea(), 1e-12)
	assert.InDelta(t, 0.0, c.Closure(), 1e-12)

	cw, err := BoundarySpec{Name: "post", Segments: []SegmentSpec{
		ArcSpec(NewVec2(0.5, 0.5), 0.2, 2*math.Pi, 0, false),
	}}.Build()
	require.NoError(t, err)
	assert.Equal(t, Clockwise, cw.Orientation())
	assert.InDelta(t, 0.0, cw.Closure(), 1e-12)

	open, err := BoundarySpec{Name: "open", Segments: []SegmentSpec{
		LineSpec(NewVec2(0, 0), NewVec2(1, 0)),
		LineSpec(NewVec2(1, 0), NewVec2(1, 1)),
	}}.Build()
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, open.Closure(), 1e-12)
}

func TestObstacleNormalPointsIntoTableWhenClockwise(t *testing.T) {
	post, err := BoundarySpec{Name: "post", Segments: []SegmentSpec{
		CircleSpec(NewVec2(0, 0), 1, false),
	}}.Build()
	require.NoError(t, err)

	for _, s := range []float64{0, 1, 2.5, 5} {
		p, n := post.PointAndInwardNormalAt(s)
		// the normal points away from the obstacle center
		assert.InDelta(t, 1.0, p.Dot(n), 1e-12)
	}
}
