package geometry

import (
	"fmt"
	"math"
	"sort"
)

// Orientation is the winding direction of a closed boundary component.
type Orientation int

const (
	Clockwise Orientation = iota - 1
	Degenerate
	CounterClockwise
)

func (o Orientation) String() string {
	switch o {
	case CounterClockwise:
		return "ccw"
	case Clockwise:
		return "cw"
	default:
		return "degenerate"
	}
}

// BoundaryComponent is a closed chain of segments parametrized by global
// arc-length s, taken modulo the total length. It is immutable once built.
type BoundaryComponent struct {
	name              string
	segments          []Segment
	cumulativeLengths []float64
	totalLength       float64
}

// NewBoundaryComponent builds a component from an ordered segment list. The
// list must be non-empty and every segment must have positive length. Whether
// the segments actually close into a loop is not checked here; see Closure.
func NewBoundaryComponent(name string, segments []Segment) (*BoundaryComponent, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("component %q: %w", name, ErrEmptyComponent)
	}

	segs := make([]Segment, len(segments))
	copy(segs, segments)

	cumulative := make([]float64, len(segs))
	total := 0.0
	for i, seg := range segs {
		if seg == nil {
			return nil, fmt.Errorf("component %q segment %d: %w", name, i, ErrUnknownSegment)
		}
		l := seg.Length()
		if !(l > 0) || math.IsInf(l, 0) {
			return nil, fmt.Errorf("component %q segment %d: %w", name, i, ErrDegenerateSegment)
		}
		total += l
		cumulative[i] = total
	}

	return &BoundaryComponent{
		name:              name,
		segments:          segs,
		cumulativeLengths: cumulative,
		totalLength:       total,
	}, nil
}

func (c *BoundaryComponent) Name() string { return c.name }

// Length is the total arc-length of the component.
func (c *BoundaryComponent) Length() float64 { return c.totalLength }

func (c *BoundaryComponent) SegmentCount() int { return len(c.segments) }

func (c *BoundaryComponent) Segment(i int) Segment { return c.segments[i] }

// Segments returns a copy of the segment list.
func (c *BoundaryComponent) Segments() []Segment {
	out := make([]Segment, len(c.segments))
	copy(out, c.segments)
	return out
}

// CumulativeLengths returns a copy of the running length table: entry i is the
// summed length of segments 0..i.
func (c *BoundaryComponent) CumulativeLengths() []float64 {
	out := make([]float64, len(c.cumulativeLengths))
	copy(out, c.cumulativeLengths)
	return out
}

// Wrap reduces s into [0, Length()).
func (c *BoundaryComponent) Wrap(s float64) float64 {
	w := math.Mod(s, c.totalLength)
	if w < 0 {
		w += c.totalLength
	}
	if w >= c.totalLength {
		w = 0
	}
	return w
}

// Locate maps a global arc-length to the segment containing it and the local
// offset on that segment. A point exactly on a joint belongs to the segment
// that starts there.
func (c *BoundaryComponent) Locate(s float64) (int, float64) {
	w := c.Wrap(s)
	n := len(c.cumulativeLengths)
	i := sort.Search(n, func(i int) bool { return c.cumulativeLengths[i] > w })
	if i == n {
		// NaN input or rounding at the very end of the loop
		i = n - 1
	}
	local := w
	if i > 0 {
		local -= c.cumulativeLengths[i-1]
	}
	return i, clamp(local, 0, c.segments[i].Length())
}

// GlobalS is the inverse of Locate.
func (c *BoundaryComponent) GlobalS(segmentIndex int, localT float64) float64 {
	if segmentIndex == 0 {
		return localT
	}
	return c.cumulativeLengths[segmentIndex-1] + localT
}

func (c *BoundaryComponent) PointAndTangentAt(s float64) (Vec2, Vec2) {
	i, t := c.Locate(s)
	seg := c.segments[i]
	return seg.PointAt(t), seg.TangentAt(t)
}

// PointAndInwardNormalAt returns the boundary point and the unit tangent
// rotated by +90 degrees. That is the inward normal for a counter-clockwise
// outer wall; for a clockwise obstacle it points away from the obstacle, into
// the table.
func (c *BoundaryComponent) PointAndInwardNormalAt(s float64) (Vec2, Vec2) {
	p, tangent := c.PointAndTangentAt(s)
	n := tangent.Perp()
	if unit, ok := n.TryNormalized(); ok {
		n = unit
	}
	return p, n
}

// Closure returns the largest gap between the end of a segment and the start
// of the next one, wrapping from the last segment back to the first.
func (c *BoundaryComponent) Closure() float64 {
	worst := 0.0
	for i, seg := range c.segments {
		next := c.segments[(i+1)%len(c.segments)]
		gap := seg.PointAt(seg.Length()).Sub(next.PointAt(0)).Length()
		worst = math.Max(worst, gap)
	}
	return worst
}

// SignedArea is the shoelace area of the boundary, positive for
// counter-clockwise loops. Arcs are sampled.
func (c *BoundaryComponent) SignedArea() float64 {
	pts := c.samplePoints()
	area := 0.0
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		area += p.Cross(q)
	}
	return area / 2
}

func (c *BoundaryComponent) Orientation() Orientation {
	area := c.SignedArea()
	switch {
	case area > 0:
		return CounterClockwise
	case area < 0:
		return Clockwise
	default:
		return Degenerate
	}
}

// samplePoints walks the loop once, emitting the start of every segment and
// interior points along arcs.
func (c *BoundaryComponent) samplePoints() []Vec2 {
	var pts []Vec2
	for _, seg := range c.segments {
		n := 1
		if arc, ok := seg.(CircularArcSegment); ok {
			n = int(math.Ceil(arc.Sweep() / twoPi * 64))
			if n < 4 {
				n = 4
			}
		}
		step := seg.Length() / float64(n)
		for k := 0; k < n; k++ {
			pts = append(pts, seg.PointAt(float64(k)*step))
		}
	}
	return pts
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
