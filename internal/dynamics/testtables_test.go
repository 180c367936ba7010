package dynamics

import (
	"math"
	"testing"

	"github.com/playpool/billiard/internal/geometry"
	"github.com/stretchr/testify/require"
)

func unitSquareTable(t *testing.T) *geometry.Table {
	t.Helper()
	table, err := geometry.TableSpec{
		Outer: geometry.PolygonSpec("outer",
			geometry.NewVec2(0, 0), geometry.NewVec2(1, 0),
			geometry.NewVec2(1, 1), geometry.NewVec2(0, 1)),
	}.Build()
	require.NoError(t, err)
	return table
}

func horizontalSegmentTable(t *testing.T) *geometry.Table {
	t.Helper()
	seg, err := geometry.NewLineSegment(geometry.NewVec2(0, 0), geometry.NewVec2(1, 0))
	require.NoError(t, err)
	outer, err := geometry.NewBoundaryComponent("outer", []geometry.Segment{seg})
	require.NoError(t, err)
	return geometry.NewTable(outer)
}

func quarterCircleTable(t *testing.T) *geometry.Table {
	t.Helper()
	arc, err := geometry.NewCircularArc(geometry.NewVec2(0, 0), 1, 0, math.Pi/2, true)
	require.NoError(t, err)
	outer, err := geometry.NewBoundaryComponent("outer", []geometry.Segment{arc})
	require.NoError(t, err)
	return geometry.NewTable(outer)
}

func sinaiTable(t *testing.T) *geometry.Table {
	t.Helper()
	table, err := geometry.TableSpec{
		Outer: geometry.PolygonSpec("outer",
			geometry.NewVec2(0, 0), geometry.NewVec2(1, 0),
			geometry.NewVec2(1, 1), geometry.NewVec2(0, 1)),
		Obstacles: []geometry.BoundarySpec{{
			Name:     "sinai",
			Segments: []geometry.SegmentSpec{geometry.ArcSpec(geometry.NewVec2(0.5, 0.5), 0.2, 2*math.Pi, 0, false)},
		}},
	}.Build()
	require.NoError(t, err)
	return table
}
