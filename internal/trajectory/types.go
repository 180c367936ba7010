package trajectory

import (
	"github.com/playpool/billiard/internal/dynamics"
	"github.com/playpool/billiard/internal/geometry"
)

// StateDTO is the wire form of a boundary state.
type StateDTO struct {
	ComponentIndex int     `json:"component_index"`
	S              float64 `json:"s"`
	Theta          float64 `json:"theta"`
}

func (s StateDTO) Core() dynamics.BoundaryState {
	return dynamics.BoundaryState{ComponentIndex: s.ComponentIndex, S: s.S, Theta: s.Theta}
}

// SimulateRequest is the body of POST /simulate. Epsilon may be omitted, in
// which case the configured default applies.
type SimulateRequest struct {
	Table        geometry.TableSpec `json:"table"`
	InitialState StateDTO           `json:"initial_state"`
	MaxSteps     int                `json:"max_steps"`
	Epsilon      *float64           `json:"epsilon,omitempty"`
}

// CollisionDTO is one collision record; Step counts from zero.
type CollisionDTO struct {
	Step           int     `json:"step"`
	ComponentIndex int     `json:"component_index"`
	SegmentIndex   int     `json:"segment_index"`
	S              float64 `json:"s"`
	Theta          float64 `json:"theta"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
}

func NewCollisionDTO(step int, c dynamics.CollisionResult) CollisionDTO {
	return CollisionDTO{
		Step:           step,
		ComponentIndex: c.ComponentIndex,
		SegmentIndex:   c.SegmentIndex,
		S:              c.S,
		Theta:          c.Theta,
		X:              c.HitPoint.X,
		Y:              c.HitPoint.Y,
	}
}

type SimulateResponse struct {
	Collisions  []CollisionDTO       `json:"collisions"`
	Termination dynamics.Termination `json:"termination"`
	Count       int                  `json:"count"`
}

func NewSimulateResponse(traj dynamics.Trajectory) SimulateResponse {
	out := SimulateResponse{
		Collisions:  make([]CollisionDTO, len(traj.Collisions)),
		Termination: traj.Termination,
		Count:       len(traj.Collisions),
	}
	for i, c := range traj.Collisions {
		out.Collisions[i] = NewCollisionDTO(i, c)
	}
	return out
}

// ComponentReport describes one boundary component of a validated table.
type ComponentReport struct {
	Index       int     `json:"index"`
	Name        string  `json:"name"`
	Segments    int     `json:"segments"`
	Length      float64 `json:"length"`
	Closure     float64 `json:"closure_gap"`
	Closed      bool    `json:"closed"`
	Orientation string  `json:"orientation"`
}

// ValidationReport is the body of POST /tables/validate.
type ValidationReport struct {
	Valid      bool              `json:"valid"`
	Components []ComponentReport `json:"components"`
	Warnings   []string          `json:"warnings,omitempty"`
}
