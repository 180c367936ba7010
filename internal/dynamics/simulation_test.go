package dynamics

import (
	"math"
	"testing"

	"github.com/playpool/billiard/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextCollisionInUnitSquareFromBottomEdge(t *testing.T) {
	table := unitSquareTable(t)

	c, ok, err := NextCollision(table, BoundaryState{ComponentIndex: 0, S: 0.5, Theta: math.Pi / 2}, eps)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 0, c.ComponentIndex)
	assert.Equal(t, 2, c.SegmentIndex)
	assert.InDelta(t, 0.5, c.HitPoint.X, 1e-10)
	assert.InDelta(t, 1.0, c.HitPoint.Y, 1e-10)
	assert.InDelta(t, 2.5, c.S, 1e-10)
	assert.InDelta(t, math.Pi/2, c.Theta, 1e-10)
	assert.InDelta(t, 1.0, c.FreePath, 1e-10)
}

func TestVerticalOrbitInUnitSquare(t *testing.T) {
	table := unitSquareTable(t)
	initial := BoundaryState{ComponentIndex: 0, S: 0.5, Theta: math.Pi / 2}

	traj, err := Run(table, initial, 4, eps)
	require.NoError(t, err)
	require.Len(t, traj.Collisions, 4)
	assert.Equal(t, StepLimit, traj.Termination)

	wantSeg := []int{2, 0, 2, 0}
	wantY := []float64{1, 0, 1, 0}
	for i, c := range traj.Collisions {
		assert.Equal(t, 0, c.ComponentIndex)
		assert.Equal(t, wantSeg[i], c.SegmentIndex, "step %d", i)
		assert.InDelta(t, 0.5, c.HitPoint.X, 1e-10, "step %d", i)
		assert.InDelta(t, wantY[i], c.HitPoint.Y, 1e-10, "step %d", i)
	}
}

func TestRunStopsWhenRayEscapes(t *testing.T) {
	table := horizontalSegmentTable(t)

	// leaving the lone segment upward there is nothing else to hit
	traj, err := Run(table, BoundaryState{ComponentIndex: 0, S: 0.5, Theta: math.Pi / 3}, 10, eps)
	require.NoError(t, err)
	assert.Empty(t, traj.Collisions)
	assert.Equal(t, Escaped, traj.Termination)
}

func TestRunRejectsBadComponent(t *testing.T) {
	table := unitSquareTable(t)
	_, err := Run(table, BoundaryState{ComponentIndex: 5, S: 0.5, Theta: 1}, 10, eps)
	assert.ErrorIs(t, err, geometry.ErrComponentIndex)
}

func TestStepsCanBeStoppedAndRestarted(t *testing.T) {
	table := unitSquareTable(t)
	seq := Steps(table, BoundaryState{ComponentIndex: 0, S: 0.3, Theta: 1.1}, eps)

	collect := func(n int) []CollisionResult {
		var out []CollisionResult
		for c, err := range seq {
			require.NoError(t, err)
			out = append(out, c)
			if len(out) == n {
				break
			}
		}
		return out
	}

	first := collect(5)
	second := collect(5)
	require.Len(t, first, 5)
	assert.Equal(t, first, second)
}

func TestTrajectoryObeysReflectionLaw(t *testing.T) {
	table := sinaiTable(t)
	initial := BoundaryState{ComponentIndex: 0, S: 0.3, Theta: math.Pi / 3}

	traj, err := Run(table, initial, 200, eps)
	require.NoError(t, err)
	require.Len(t, traj.Collisions, 200, "a closed table never lets the particle escape")

	prevPoint := geometry.NewVec2(0.3, 0)
	hitObstacle := false
	for i, c := range traj.Collisions {
		if c.ComponentIndex == 1 {
			hitObstacle = true
		}

		// incoming direction from the previous bounce
		vIn, ok := c.HitPoint.Sub(prevPoint).TryNormalized()
		require.True(t, ok)

		comp, err := table.Component(c.ComponentIndex)
		require.NoError(t, err)
		p, n := comp.PointAndInwardNormalAt(c.S)
		assert.InDelta(t, 0.0, p.Sub(c.HitPoint).Length(), 1e-9, "step %d", i)

		ws, err := c.State().ToWorld(table)
		require.NoError(t, err)
		vOut := ws.Direction

		assert.InDelta(t, 1.0, vOut.Length(), 1e-9, "step %d", i)
		assert.InDelta(t, math.Abs(vIn.Dot(n)), math.Abs(vOut.Dot(n)), 1e-9, "step %d", i)
		assert.InDelta(t, vIn.Cross(n), vOut.Cross(n), 1e-9, "step %d", i)

		// the particle stays inside the square
		assert.True(t, c.HitPoint.X > -1e-9 && c.HitPoint.X < 1+1e-9, "step %d", i)
		assert.True(t, c.HitPoint.Y > -1e-9 && c.HitPoint.Y < 1+1e-9, "step %d", i)

		prevPoint = c.HitPoint
	}
	assert.True(t, hitObstacle, "the trajectory should strike the central post")
}
