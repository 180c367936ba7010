package geometry

import "math"

// lengthLowerBound is the smallest length TryNormalized will scale to unit length.
const lengthLowerBound = 1e-10

// Vec2 is an immutable 2D vector.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Div(s float64) Vec2 {
	return Vec2{X: v.X / s, Y: v.Y / s}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z component of the 3D cross product of v and o.
func (v Vec2) Cross(o Vec2) float64 {
	return v.X*o.Y - v.Y*o.X
}

func (v Vec2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vec2) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// Perp rotates v by +90 degrees: (x, y) -> (-y, x).
func (v Vec2) Perp() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

// Normalized returns v scaled to unit length without checking for zero length.
// Prefer TryNormalized.
func (v Vec2) Normalized() Vec2 {
	return v.Div(v.Length())
}

// TryNormalized returns the unit vector along v, or false when v is too short
// to have a reliable direction.
func (v Vec2) TryNormalized() (Vec2, bool) {
	if v.LengthSquared() < lengthLowerBound*lengthLowerBound {
		return Vec2{}, false
	}
	return v.Normalized(), true
}

// IsFinite reports whether both components are finite numbers.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
