package tables

import (
	"math"
	"sort"

	"github.com/playpool/billiard/internal/geometry"
)

// Demo is a built-in table with a suggested starting state.
type Demo struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Spec        geometry.TableSpec `json:"table"`
	// Suggested initial boundary state.
	ComponentIndex int     `json:"component_index"`
	S              float64 `json:"s"`
	Theta          float64 `json:"theta"`
}

var demos = map[string]func() Demo{
	"square":  squareDemo,
	"sinai":   sinaiDemo,
	"stadium": stadiumDemo,
	"circle":  circleDemo,
}

// DemoNames lists the built-in demos in sorted order.
func DemoNames() []string {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupDemo returns a fresh copy of the named demo.
func LookupDemo(name string) (Demo, bool) {
	build, ok := demos[name]
	if !ok {
		return Demo{}, false
	}
	return build(), true
}

// Demos returns every built-in demo, sorted by name.
func Demos() []Demo {
	out := make([]Demo, 0, len(demos))
	for _, name := range DemoNames() {
		out = append(out, demos[name]())
	}
	return out
}

// UnitSquare is the CCW unit square with no obstacles.
func UnitSquare() geometry.TableSpec {
	return geometry.TableSpec{
		Outer: unitSquareOuter(),
	}
}

// Sinai is the unit square with a clockwise circular scatterer of radius 0.2
// at its center.
func Sinai() geometry.TableSpec {
	return geometry.TableSpec{
		Outer: unitSquareOuter(),
		Obstacles: []geometry.BoundarySpec{{
			Name: "sinai",
			Segments: []geometry.SegmentSpec{
				geometry.ArcSpec(geometry.NewVec2(0.5, 0.5), 0.2, 2*math.Pi, 0, false),
			},
		}},
	}
}

// Stadium is a Bunimovich stadium: two unit-length flats joined by
// half-circles of radius 0.5, traversed CCW.
func Stadium() geometry.TableSpec {
	return geometry.TableSpec{
		Outer: geometry.BoundarySpec{
			Name: "stadium",
			Segments: []geometry.SegmentSpec{
				geometry.LineSpec(geometry.NewVec2(0, 0), geometry.NewVec2(1, 0)),
				geometry.ArcSpec(geometry.NewVec2(1, 0.5), 0.5, -math.Pi/2, math.Pi/2, true),
				geometry.LineSpec(geometry.NewVec2(1, 1), geometry.NewVec2(0, 1)),
				geometry.ArcSpec(geometry.NewVec2(0, 0.5), 0.5, math.Pi/2, 3*math.Pi/2, true),
			},
		},
	}
}

// Circle is a unit disc, a single CCW arc.
func Circle() geometry.TableSpec {
	return geometry.TableSpec{
		Outer: geometry.BoundarySpec{
			Name:     "circle",
			Segments: []geometry.SegmentSpec{geometry.CircleSpec(geometry.NewVec2(0, 0), 1, true)},
		},
	}
}

func unitSquareOuter() geometry.BoundarySpec {
	return geometry.PolygonSpec("outer",
		geometry.NewVec2(0, 0),
		geometry.NewVec2(1, 0),
		geometry.NewVec2(1, 1),
		geometry.NewVec2(0, 1),
	)
}

func squareDemo() Demo {
	return Demo{
		Name:           "square",
		Description:    "unit square, periodic vertical bounce",
		Spec:           UnitSquare(),
		ComponentIndex: 0,
		S:              0.5,
		Theta:          math.Pi / 2,
	}
}

func sinaiDemo() Demo {
	return Demo{
		Name:           "sinai",
		Description:    "unit square with a central circular scatterer",
		Spec:           Sinai(),
		ComponentIndex: 0,
		S:              0.3,
		Theta:          math.Pi / 3,
	}
}

func stadiumDemo() Demo {
	return Demo{
		Name:           "stadium",
		Description:    "Bunimovich stadium",
		Spec:           Stadium(),
		ComponentIndex: 0,
		S:              0.25,
		Theta:          1.1,
	}
}

func circleDemo() Demo {
	return Demo{
		Name:           "circle",
		Description:    "unit disc, rotationally symmetric orbit",
		Spec:           Circle(),
		ComponentIndex: 0,
		S:              0,
		Theta:          math.Pi / 5,
	}
}
