package geometry

import (
	"fmt"
	"iter"
)

// Table is a billiard table: one outer wall plus zero or more obstacles.
// Component index 0 is the outer wall, index i >= 1 is obstacle i-1.
type Table struct {
	outer     *BoundaryComponent
	obstacles []*BoundaryComponent
}

func NewTable(outer *BoundaryComponent, obstacles ...*BoundaryComponent) *Table {
	obs := make([]*BoundaryComponent, len(obstacles))
	copy(obs, obstacles)
	return &Table{outer: outer, obstacles: obs}
}

func (t *Table) Outer() *BoundaryComponent { return t.outer }

func (t *Table) Obstacles() []*BoundaryComponent {
	out := make([]*BoundaryComponent, len(t.obstacles))
	copy(out, t.obstacles)
	return out
}

func (t *Table) ComponentCount() int {
	return 1 + len(t.obstacles)
}

// Component returns the component at index i.
func (t *Table) Component(i int) (*BoundaryComponent, error) {
	switch {
	case i == 0:
		return t.outer, nil
	case i > 0 && i <= len(t.obstacles):
		return t.obstacles[i-1], nil
	default:
		return nil, fmt.Errorf("component %d of %d: %w", i, t.ComponentCount(), ErrComponentIndex)
	}
}

// Components yields every component with its index, outer wall first.
func (t *Table) Components() iter.Seq2[int, *BoundaryComponent] {
	return func(yield func(int, *BoundaryComponent) bool) {
		if !yield(0, t.outer) {
			return
		}
		for i, obs := range t.obstacles {
			if !yield(i+1, obs) {
				return
			}
		}
	}
}

// Validate checks that every component closes into a loop within tolerance.
func (t *Table) Validate(tolerance float64) error {
	for _, c := range t.Components() {
		if gap := c.Closure(); gap > tolerance {
			return fmt.Errorf("component %q gap %g: %w", c.Name(), gap, ErrOpenLoop)
		}
	}
	return nil
}
