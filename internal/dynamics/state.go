package dynamics

import (
	"math"

	"github.com/playpool/billiard/internal/geometry"
)

// BoundaryState is a collision state on the boundary: a point given by
// component and arc-length, and an outgoing angle measured from the local
// tangent. Theta = 0 is tangential; increasing theta turns toward the normal
// returned by PointAndInwardNormalAt.
type BoundaryState struct {
	ComponentIndex int     `json:"component_index"`
	S              float64 `json:"s"`
	Theta          float64 `json:"theta"`
}

// WorldState is a position and direction of motion in the plane.
type WorldState struct {
	Position  geometry.Vec2
	Direction geometry.Vec2
}

// ToWorld converts the boundary state to world coordinates.
func (bs BoundaryState) ToWorld(table *geometry.Table) (WorldState, error) {
	c, err := table.Component(bs.ComponentIndex)
	if err != nil {
		return WorldState{}, err
	}

	position, tangent := c.PointAndTangentAt(bs.S)
	_, normal := c.PointAndInwardNormalAt(bs.S)

	sin, cos := math.Sincos(bs.Theta)
	return WorldState{
		Position:  position,
		Direction: tangent.Scale(cos).Add(normal.Scale(sin)),
	}, nil
}

// ToBoundary anchors the world state at arc-length s on the given component
// and recovers theta as the signed angle from the tangent to the direction,
// in (-π, π]. It reports false when the direction or tangent is degenerate.
func (ws WorldState) ToBoundary(table *geometry.Table, componentIndex int, s float64) (BoundaryState, bool, error) {
	c, err := table.Component(componentIndex)
	if err != nil {
		return BoundaryState{}, false, err
	}

	_, tangent := c.PointAndTangentAt(s)
	tHat, ok := tangent.TryNormalized()
	if !ok {
		return BoundaryState{}, false, nil
	}
	dHat, ok := ws.Direction.TryNormalized()
	if !ok {
		return BoundaryState{}, false, nil
	}

	dot := math.Max(-1, math.Min(1, tHat.Dot(dHat)))
	theta := math.Atan2(tHat.Cross(dHat), dot)

	return BoundaryState{ComponentIndex: componentIndex, S: s, Theta: theta}, true, nil
}

// Reflect applies the specular law v - 2(v.n)n about the unit normal n.
func Reflect(v, n geometry.Vec2) geometry.Vec2 {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}
