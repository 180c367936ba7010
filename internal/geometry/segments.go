package geometry

import (
	"fmt"
	"math"
)

// angularTolerance admits hits that land a hair outside an arc's span.
const angularTolerance = 1e-9

const twoPi = 2 * math.Pi

// Segment is a curve piece of a boundary component, parametrized by local
// arc-length t in [0, Length()]. The variants are LineSegment and
// CircularArcSegment.
type Segment interface {
	Length() float64
	PointAt(t float64) Vec2
	TangentAt(t float64) Vec2

	segment()
}

// LineSegment is a straight segment oriented from start to end.
type LineSegment struct {
	start  Vec2
	end    Vec2
	length float64
}

// NewLineSegment builds a segment from start to end. The endpoints must differ.
func NewLineSegment(start, end Vec2) (LineSegment, error) {
	if !start.IsFinite() || !end.IsFinite() {
		return LineSegment{}, ErrNonFinite
	}
	length := end.Sub(start).Length()
	if length <= 0 {
		return LineSegment{}, fmt.Errorf("line (%g,%g)->(%g,%g): %w", start.X, start.Y, end.X, end.Y, ErrDegenerateSegment)
	}
	return LineSegment{start: start, end: end, length: length}, nil
}

func (l LineSegment) Start() Vec2 { return l.start }
func (l LineSegment) End() Vec2   { return l.end }

func (l LineSegment) Length() float64 {
	return l.length
}

func (l LineSegment) PointAt(t float64) Vec2 {
	return l.start.Add(l.end.Sub(l.start).Scale(t / l.length))
}

// TangentAt is constant along a line.
func (l LineSegment) TangentAt(float64) Vec2 {
	return l.end.Sub(l.start).Div(l.length)
}

func (LineSegment) segment() {}

// CircularArcSegment is a piece of a circle swept from startAngle toward
// endAngle, counter-clockwise when ccw is set and clockwise otherwise. The
// endpoints are computed once at construction.
type CircularArcSegment struct {
	center     Vec2
	radius     float64
	startAngle float64
	endAngle   float64
	ccw        bool

	sweep float64
	start Vec2
	end   Vec2
}

// NewCircularArc builds an arc on the circle (center, radius). The swept angle
// is |endAngle - startAngle| and may not exceed one full turn.
func NewCircularArc(center Vec2, radius, startAngle, endAngle float64, ccw bool) (CircularArcSegment, error) {
	if !center.IsFinite() || math.IsNaN(startAngle) || math.IsInf(startAngle, 0) || math.IsNaN(endAngle) || math.IsInf(endAngle, 0) {
		return CircularArcSegment{}, ErrNonFinite
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return CircularArcSegment{}, fmt.Errorf("arc radius %g: %w", radius, ErrInvalidRadius)
	}
	sweep := math.Abs(endAngle - startAngle)
	if sweep == 0 {
		return CircularArcSegment{}, fmt.Errorf("arc at angle %g: %w", startAngle, ErrDegenerateSegment)
	}
	if sweep > twoPi+angularTolerance {
		return CircularArcSegment{}, fmt.Errorf("arc sweep %g: %w", sweep, ErrArcSweep)
	}
	sweep = math.Min(sweep, twoPi)

	a := CircularArcSegment{
		center:     center,
		radius:     radius,
		startAngle: startAngle,
		endAngle:   endAngle,
		ccw:        ccw,
		sweep:      sweep,
	}
	a.start = a.pointAtAngle(startAngle)
	a.end = a.pointAtAngle(a.angleAt(a.Length()))
	return a, nil
}

func (a CircularArcSegment) Center() Vec2        { return a.center }
func (a CircularArcSegment) Radius() float64     { return a.radius }
func (a CircularArcSegment) StartAngle() float64 { return a.startAngle }
func (a CircularArcSegment) EndAngle() float64   { return a.endAngle }
func (a CircularArcSegment) CCW() bool           { return a.ccw }
func (a CircularArcSegment) Start() Vec2         { return a.start }
func (a CircularArcSegment) End() Vec2           { return a.end }

// Sweep is the unsigned angle covered by the arc, in radians.
func (a CircularArcSegment) Sweep() float64 { return a.sweep }

func (a CircularArcSegment) Length() float64 {
	return a.radius * a.sweep
}

func (a CircularArcSegment) PointAt(t float64) Vec2 {
	return a.pointAtAngle(a.angleAt(t))
}

func (a CircularArcSegment) TangentAt(t float64) Vec2 {
	sin, cos := math.Sincos(a.angleAt(t))
	if a.ccw {
		return Vec2{X: -sin, Y: cos}
	}
	return Vec2{X: sin, Y: -cos}
}

func (CircularArcSegment) segment() {}

// direction is +1 for counter-clockwise arcs and -1 for clockwise ones.
func (a CircularArcSegment) direction() float64 {
	if a.ccw {
		return 1
	}
	return -1
}

func (a CircularArcSegment) angleAt(t float64) float64 {
	return a.startAngle + a.direction()*t/a.radius
}

func (a CircularArcSegment) pointAtAngle(theta float64) Vec2 {
	sin, cos := math.Sincos(theta)
	return Vec2{X: a.center.X + a.radius*cos, Y: a.center.Y + a.radius*sin}
}

// sweepOffset measures how far theta lies from the start angle when walking
// in the arc's sweep direction. The result is in [0, 2π).
func (a CircularArcSegment) sweepOffset(theta float64) float64 {
	delta := math.Mod(a.direction()*(theta-a.startAngle), twoPi)
	if delta < 0 {
		delta += twoPi
	}
	if delta >= twoPi {
		delta = 0
	}
	return delta
}

// LocalAt maps a polar angle around the arc's center to local arc-length.
// It reports false when the angle falls outside the arc's span by more than
// the angular tolerance. Results are clamped into [0, Length()].
func (a CircularArcSegment) LocalAt(theta float64) (float64, bool) {
	delta := a.sweepOffset(theta)
	switch {
	case delta <= a.sweep+angularTolerance:
		return a.radius * math.Min(delta, a.sweep), true
	case twoPi-delta <= angularTolerance:
		// just behind the start point
		return 0, true
	default:
		return 0, false
	}
}
