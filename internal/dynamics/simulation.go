package dynamics

import (
	"iter"

	"github.com/playpool/billiard/internal/geometry"
)

// Termination says why a trajectory stopped.
type Termination string

const (
	// StepLimit means the requested number of collisions was produced.
	StepLimit Termination = "step_limit"
	// Escaped means a step found no boundary ahead of the particle.
	Escaped Termination = "escaped"
)

// CollisionResult is one bounce: where it happened and the outgoing state.
type CollisionResult struct {
	ComponentIndex int
	SegmentIndex   int
	// S is the global arc-length of the hit on its component.
	S float64
	// Theta is the outgoing angle after reflection.
	Theta    float64
	HitPoint geometry.Vec2
	// FreePath is the distance travelled since the previous bounce.
	FreePath float64
}

// State is the boundary state the next step starts from.
func (c CollisionResult) State() BoundaryState {
	return BoundaryState{ComponentIndex: c.ComponentIndex, S: c.S, Theta: c.Theta}
}

// Trajectory is an ordered run of collisions.
type Trajectory struct {
	Collisions  []CollisionResult
	Termination Termination
}

// NextCollision advances one bounce from bs. It reports false when the ray
// leaving bs hits nothing or its direction cannot be established. An error is
// returned only for a component index the table does not have.
func NextCollision(table *geometry.Table, bs BoundaryState, epsilon float64) (CollisionResult, bool, error) {
	ws, err := bs.ToWorld(table)
	if err != nil {
		return CollisionResult{}, false, err
	}

	vIn, ok := ws.Direction.TryNormalized()
	if !ok {
		return CollisionResult{}, false, nil
	}

	ray := Ray{Origin: ws.Position, Direction: vIn}
	hit, ok := ray.IntersectTable(table, epsilon)
	if !ok {
		return CollisionResult{}, false, nil
	}

	c, err := table.Component(hit.ComponentIndex)
	if err != nil {
		return CollisionResult{}, false, err
	}
	s := c.GlobalS(hit.SegmentIndex, hit.LocalT)
	hitPoint := ws.Position.Add(vIn.Scale(hit.RayParameter))

	_, n := c.PointAndInwardNormalAt(s)
	n, ok = n.TryNormalized()
	if !ok {
		return CollisionResult{}, false, nil
	}

	outgoing := WorldState{Position: hitPoint, Direction: Reflect(vIn, n)}
	next, ok, err := outgoing.ToBoundary(table, hit.ComponentIndex, s)
	if err != nil || !ok {
		return CollisionResult{}, false, err
	}

	return CollisionResult{
		ComponentIndex: next.ComponentIndex,
		SegmentIndex:   hit.SegmentIndex,
		S:              next.S,
		Theta:          next.Theta,
		HitPoint:       hitPoint,
		FreePath:       hit.RayParameter,
	}, true, nil
}

// Steps yields successive collisions starting from initial. The sequence ends
// when a step finds no hit, after yielding an error, or when the consumer
// stops; callers bound its length.
func Steps(table *geometry.Table, initial BoundaryState, epsilon float64) iter.Seq2[CollisionResult, error] {
	return func(yield func(CollisionResult, error) bool) {
		current := initial
		for {
			c, ok, err := NextCollision(table, current, epsilon)
			if err != nil {
				yield(CollisionResult{}, err)
				return
			}
			if !ok {
				return
			}
			if !yield(c, nil) {
				return
			}
			current = c.State()
		}
	}
}

// Run collects up to maxSteps collisions starting from initial.
func Run(table *geometry.Table, initial BoundaryState, maxSteps int, epsilon float64) (Trajectory, error) {
	traj := Trajectory{
		Collisions:  make([]CollisionResult, 0, min(maxSteps, 4096)),
		Termination: Escaped,
	}
	if maxSteps <= 0 {
		traj.Termination = StepLimit
		return traj, nil
	}

	for c, err := range Steps(table, initial, epsilon) {
		if err != nil {
			return Trajectory{}, err
		}
		traj.Collisions = append(traj.Collisions, c)
		if len(traj.Collisions) == maxSteps {
			traj.Termination = StepLimit
			break
		}
	}
	return traj, nil
}
