package trajectory

import (
	"context"
	"fmt"
	"math"

	"github.com/playpool/billiard/internal/dynamics"
	"github.com/playpool/billiard/internal/geometry"
)

// Limits bounds what a single request may ask for.
type Limits struct {
	MaxSteps         int
	DefaultEpsilon   float64
	StrictTables     bool
	ClosureTolerance float64
}

// Params are validated simulation inputs.
type Params struct {
	Table    *geometry.Table
	Initial  dynamics.BoundaryState
	MaxSteps int
	Epsilon  float64
}

// Prepare validates req and builds its table. Malformed numbers are
// bad_request; a table that cannot be constructed is simulation_failed.
func Prepare(req SimulateRequest, limits Limits) (Params, error) {
	if req.MaxSteps <= 0 {
		return Params{}, BadRequest("max_steps must be greater than 0")
	}
	if limits.MaxSteps > 0 && req.MaxSteps > limits.MaxSteps {
		return Params{}, BadRequest("max_steps must not exceed %d", limits.MaxSteps)
	}

	eps := limits.DefaultEpsilon
	if req.Epsilon != nil {
		eps = *req.Epsilon
	}
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps <= 0 {
		return Params{}, BadRequest("epsilon must be positive and finite")
	}

	st := req.InitialState
	if !isFinite(st.S) || !isFinite(st.Theta) {
		return Params{}, BadRequest("initial_state s and theta must be finite")
	}

	table, err := BuildTable(req.Table, limits)
	if err != nil {
		return Params{}, err
	}
	if st.ComponentIndex < 0 || st.ComponentIndex >= table.ComponentCount() {
		return Params{}, BadRequest("initial_state component_index %d out of range [0, %d)",
			st.ComponentIndex, table.ComponentCount())
	}

	return Params{
		Table:    table,
		Initial:  st.Core(),
		MaxSteps: req.MaxSteps,
		Epsilon:  eps,
	}, nil
}

// BuildTable constructs spec, enforcing loop closure in strict mode.
func BuildTable(spec geometry.TableSpec, limits Limits) (*geometry.Table, error) {
	table, err := spec.Build()
	if err != nil {
		return nil, SimulationFailed(err)
	}
	if limits.StrictTables {
		if err := table.Validate(limits.ClosureTolerance); err != nil {
			return nil, SimulationFailed(err)
		}
	}
	return table, nil
}

// Simulate runs a prepared request to completion.
func Simulate(p Params) (SimulateResponse, error) {
	traj, err := dynamics.Run(p.Table, p.Initial, p.MaxSteps, p.Epsilon)
	if err != nil {
		return SimulateResponse{}, SimulationFailed(err)
	}
	return NewSimulateResponse(traj), nil
}

// Stream feeds collisions to emit one at a time, stopping early when ctx is
// cancelled or emit fails.
func Stream(ctx context.Context, p Params, emit func(CollisionDTO) error) (dynamics.Termination, error) {
	step := 0
	for c, err := range dynamics.Steps(p.Table, p.Initial, p.Epsilon) {
		if err != nil {
			return "", SimulationFailed(err)
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := emit(NewCollisionDTO(step, c)); err != nil {
			return "", err
		}
		step++
		if step == p.MaxSteps {
			return dynamics.StepLimit, nil
		}
	}
	return dynamics.Escaped, nil
}

// Validate builds spec and reports on each component without simulating.
func Validate(spec geometry.TableSpec, tolerance float64) (ValidationReport, error) {
	table, err := spec.Build()
	if err != nil {
		return ValidationReport{}, SimulationFailed(err)
	}

	report := ValidationReport{Valid: true}
	for i, c := range table.Components() {
		gap := c.Closure()
		closed := gap <= tolerance
		orient := c.Orientation()

		report.Components = append(report.Components, ComponentReport{
			Index:       i,
			Name:        c.Name(),
			Segments:    c.SegmentCount(),
			Length:      c.Length(),
			Closure:     gap,
			Closed:      closed,
			Orientation: orient.String(),
		})

		if !closed {
			report.Valid = false
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("component %q is not closed (gap %.3g)", c.Name(), gap))
		}
		switch {
		case i == 0 && orient == geometry.Clockwise:
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("outer boundary %q is clockwise; theta signs will be mirrored", c.Name()))
		case i > 0 && orient == geometry.CounterClockwise:
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("obstacle %q is counter-clockwise; theta signs will be mirrored", c.Name()))
		}
	}
	return report, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Prepare validates req against l.
func (l Limits) Prepare(req SimulateRequest) (Params, error) {
	return Prepare(req, l)
}
