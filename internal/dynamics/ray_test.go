package dynamics

import (
	"math"
	"testing"

	"github.com/playpool/billiard/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-8

func TestRayHitsHorizontalSegmentFromBelow(t *testing.T) {
	table := horizontalSegmentTable(t)
	ray := Ray{Origin: geometry.NewVec2(0.5, -1), Direction: geometry.NewVec2(0, 1)}

	hit, ok := ray.IntersectTable(table, eps)
	require.True(t, ok)
	assert.Equal(t, 0, hit.ComponentIndex)
	assert.Equal(t, 0, hit.SegmentIndex)
	assert.InDelta(t, 1.0, hit.RayParameter, 1e-10)
	assert.InDelta(t, 0.5, hit.LocalT, 1e-10)
}

func TestRayMissesSegmentWhenPointedAway(t *testing.T) {
	table := horizontalSegmentTable(t)
	ray := Ray{Origin: geometry.NewVec2(0.5, -1), Direction: geometry.NewVec2(0, -1)}

	_, ok := ray.IntersectTable(table, eps)
	assert.False(t, ok)
}

func TestRayLineLocalTOnLongSegment(t *testing.T) {
	seg, err := geometry.NewLineSegment(geometry.NewVec2(-2, 3), geometry.NewVec2(6, 3))
	require.NoError(t, err)

	// unnormalized direction: ray parameter is still a distance
	ray := Ray{Origin: geometry.NewVec2(1, 0), Direction: geometry.NewVec2(0, 10)}
	rt, local, ok := ray.IntersectLine(seg, eps)
	require.True(t, ok)
	assert.InDelta(t, 3.0, rt, 1e-12)
	assert.InDelta(t, 3.0, local, 1e-12)

	// just past the end of the segment
	ray = Ray{Origin: geometry.NewVec2(6.001, 0), Direction: geometry.NewVec2(0, 1)}
	_, _, ok = ray.IntersectLine(seg, eps)
	assert.False(t, ok)
}

func TestRayParallelAndDegenerate(t *testing.T) {
	seg, err := geometry.NewLineSegment(geometry.NewVec2(0, 0), geometry.NewVec2(1, 0))
	require.NoError(t, err)

	_, _, ok := Ray{Origin: geometry.NewVec2(0, 1), Direction: geometry.NewVec2(1, 0)}.IntersectLine(seg, eps)
	assert.False(t, ok)

	_, _, ok = Ray{Origin: geometry.NewVec2(0.5, -1), Direction: geometry.Vec2{}}.IntersectLine(seg, eps)
	assert.False(t, ok)
}

func TestRayIgnoresHitsWithinEpsilonOfOrigin(t *testing.T) {
	seg, err := geometry.NewLineSegment(geometry.NewVec2(0, 0), geometry.NewVec2(1, 0))
	require.NoError(t, err)

	_, _, ok := Ray{Origin: geometry.NewVec2(0.5, 0), Direction: geometry.NewVec2(0, 1)}.IntersectLine(seg, eps)
	assert.False(t, ok)
}

func TestRayHitsQuarterCircleArc(t *testing.T) {
	table := quarterCircleTable(t)
	ray := Ray{Origin: geometry.NewVec2(2, 0.5), Direction: geometry.NewVec2(-1, 0)}

	hit, ok := ray.IntersectTable(table, eps)
	require.True(t, ok)
	assert.Equal(t, 0, hit.ComponentIndex)
	assert.Equal(t, 0, hit.SegmentIndex)

	p, ok := ray.Point(hit.RayParameter)
	require.True(t, ok)
	assert.InDelta(t, 1.0, p.X*p.X+p.Y*p.Y, 1e-10)

	angle := math.Atan2(p.Y, p.X)
	assert.GreaterOrEqual(t, angle, -1e-8)
	assert.LessOrEqual(t, angle, math.Pi/2+1e-8)
	assert.InDelta(t, math.Pi/6, hit.LocalT, 1e-10)
}

func TestRayMissesArcOutsideItsSpan(t *testing.T) {
	table := quarterCircleTable(t)
	// crosses the circle only in the lower half plane
	ray := Ray{Origin: geometry.NewVec2(2, -0.5), Direction: geometry.NewVec2(-1, 0)}

	_, ok := ray.IntersectTable(table, eps)
	assert.False(t, ok)
}

func TestRayInsideCircleTakesFarRoot(t *testing.T) {
	arc, err := geometry.NewCircularArc(geometry.NewVec2(0, 0), 1, 0, 2*math.Pi, true)
	require.NoError(t, err)

	rt, local, ok := Ray{Origin: geometry.NewVec2(0, 0), Direction: geometry.NewVec2(0, 1)}.IntersectArc(arc, eps)
	require.True(t, ok)
	assert.InDelta(t, 1.0, rt, 1e-12)
	assert.InDelta(t, math.Pi/2, local, 1e-12)
}

func TestRayTangentToCircleCountsOnce(t *testing.T) {
	ray := Ray{Origin: geometry.NewVec2(-2, 1), Direction: geometry.NewVec2(1, 0)}
	roots := ray.intersectCircle(geometry.NewVec2(0, 0), 1, eps)
	require.Len(t, roots, 1)
	assert.InDelta(t, 2.0, roots[0], 1e-12)
}

func TestIntersectTablePicksNearestComponent(t *testing.T) {
	table := sinaiTable(t)

	// from the left wall straight across: the post is nearer than the right wall
	ray := Ray{Origin: geometry.NewVec2(0, 0.5), Direction: geometry.NewVec2(1, 0)}
	hit, ok := ray.IntersectTable(table, eps)
	require.True(t, ok)
	assert.Equal(t, 1, hit.ComponentIndex)
	assert.InDelta(t, 0.3, hit.RayParameter, 1e-12)

	// above the post: only the right wall
	ray = Ray{Origin: geometry.NewVec2(0, 0.9), Direction: geometry.NewVec2(1, 0)}
	hit, ok = ray.IntersectTable(table, eps)
	require.True(t, ok)
	assert.Equal(t, 0, hit.ComponentIndex)
	assert.Equal(t, 1, hit.SegmentIndex)
	assert.InDelta(t, 1.0, hit.RayParameter, 1e-12)
}

func TestIntersectTableMatchesBruteForceMinimum(t *testing.T) {
	table := sinaiTable(t)
	origin := geometry.NewVec2(0.1, 0.2)

	for k := 0; k < 72; k++ {
		angle := float64(k) * 2 * math.Pi / 72
		ray := Ray{Origin: origin, Direction: geometry.NewVec2(math.Cos(angle), math.Sin(angle))}

		best := math.Inf(1)
		for _, c := range table.Components() {
			for i := 0; i < c.SegmentCount(); i++ {
				if rt, _, ok := ray.IntersectSegment(c.Segment(i), eps); ok && rt < best {
					best = rt
				}
			}
		}

		hit, ok := ray.IntersectTable(table, eps)
		require.True(t, ok, "closed table must always be hit")
		assert.Equal(t, best, hit.RayParameter)
		assert.Greater(t, hit.RayParameter, eps)
	}
}
