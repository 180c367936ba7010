package geometry

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// SegmentKind tags the variant carried by a SegmentSpec.
type SegmentKind string

const (
	KindLine        SegmentKind = "line"
	KindCircularArc SegmentKind = "circular_arc"
)

// SegmentSpec is the serializable form of a Segment. Only the fields of the
// variant named by Kind are meaningful; on the wire it is a tagged union:
//
//	{"kind":"line","start":{...},"end":{...}}
//	{"kind":"circular_arc","center":{...},"radius":r,"start_angle":a,"end_angle":b,"ccw":true}
type SegmentSpec struct {
	Kind SegmentKind

	Start Vec2
	End   Vec2

	Center     Vec2
	Radius     float64
	StartAngle float64
	EndAngle   float64
	CCW        bool
}

// BoundarySpec is the serializable form of a BoundaryComponent.
type BoundarySpec struct {
	Name     string        `json:"name"`
	Segments []SegmentSpec `json:"segments"`
}

// TableSpec is the serializable form of a Table.
type TableSpec struct {
	Outer     BoundarySpec   `json:"outer"`
	Obstacles []BoundarySpec `json:"obstacles"`
}

// MarshalJSON always writes obstacles as an array, empty when there are none.
func (t TableSpec) MarshalJSON() ([]byte, error) {
	type tableWire TableSpec
	w := tableWire(t)
	if w.Obstacles == nil {
		w.Obstacles = []BoundarySpec{}
	}
	return json.Marshal(w)
}

func LineSpec(start, end Vec2) SegmentSpec {
	return SegmentSpec{Kind: KindLine, Start: start, End: end}
}

func ArcSpec(center Vec2, radius, startAngle, endAngle float64, ccw bool) SegmentSpec {
	return SegmentSpec{
		Kind:       KindCircularArc,
		Center:     center,
		Radius:     radius,
		StartAngle: startAngle,
		EndAngle:   endAngle,
		CCW:        ccw,
	}
}

// CircleSpec is a full circle starting at angle 0.
func CircleSpec(center Vec2, radius float64, ccw bool) SegmentSpec {
	return ArcSpec(center, radius, 0, 2*math.Pi, ccw)
}

// PolygonSpec closes the given vertices into a loop of line segments, in order.
func PolygonSpec(name string, vertices ...Vec2) BoundarySpec {
	segs := make([]SegmentSpec, 0, len(vertices))
	for i, v := range vertices {
		segs = append(segs, LineSpec(v, vertices[(i+1)%len(vertices)]))
	}
	return BoundarySpec{Name: name, Segments: segs}
}

type lineWire struct {
	Kind  SegmentKind `json:"kind"`
	Start Vec2        `json:"start"`
	End   Vec2        `json:"end"`
}

type arcWire struct {
	Kind       SegmentKind `json:"kind"`
	Center     Vec2        `json:"center"`
	Radius     float64     `json:"radius"`
	StartAngle float64     `json:"start_angle"`
	EndAngle   float64     `json:"end_angle"`
	CCW        bool        `json:"ccw"`
}

// segmentWire accepts either variant; pointers let us spot missing fields.
type segmentWire struct {
	Kind       SegmentKind `json:"kind"`
	Start      *Vec2       `json:"start"`
	End        *Vec2       `json:"end"`
	Center     *Vec2       `json:"center"`
	Radius     *float64    `json:"radius"`
	StartAngle *float64    `json:"start_angle"`
	EndAngle   *float64    `json:"end_angle"`
	CCW        *bool       `json:"ccw"`
}

func (s SegmentSpec) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case KindLine:
		return json.Marshal(lineWire{Kind: s.Kind, Start: s.Start, End: s.End})
	case KindCircularArc:
		return json.Marshal(arcWire{
			Kind:       s.Kind,
			Center:     s.Center,
			Radius:     s.Radius,
			StartAngle: s.StartAngle,
			EndAngle:   s.EndAngle,
			CCW:        s.CCW,
		})
	default:
		return nil, fmt.Errorf("marshal segment %q: %w", s.Kind, ErrUnknownSegment)
	}
}

func (s *SegmentSpec) UnmarshalJSON(data []byte) error {
	var w segmentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	switch w.Kind {
	case KindLine:
		if w.Start == nil || w.End == nil {
			return errors.New("line segment requires start and end")
		}
		*s = LineSpec(*w.Start, *w.End)
	case KindCircularArc:
		if w.Center == nil || w.Radius == nil || w.StartAngle == nil || w.EndAngle == nil {
			return errors.New("circular_arc segment requires center, radius, start_angle and end_angle")
		}
		ccw := true
		if w.CCW != nil {
			ccw = *w.CCW
		}
		*s = ArcSpec(*w.Center, *w.Radius, *w.StartAngle, *w.EndAngle, ccw)
	default:
		return fmt.Errorf("segment kind %q: %w", w.Kind, ErrUnknownSegment)
	}
	return nil
}

// Build converts the segment spec into a Segment.
func (s SegmentSpec) Build() (Segment, error) {
	switch s.Kind {
	case KindLine:
		return NewLineSegment(s.Start, s.End)
	case KindCircularArc:
		return NewCircularArc(s.Center, s.Radius, s.StartAngle, s.EndAngle, s.CCW)
	default:
		return nil, fmt.Errorf("segment kind %q: %w", s.Kind, ErrUnknownSegment)
	}
}

// Build converts the boundary spec into a BoundaryComponent.
func (b BoundarySpec) Build() (*BoundaryComponent, error) {
	if len(b.Segments) == 0 {
		return nil, fmt.Errorf("component %q: %w", b.Name, ErrEmptyComponent)
	}
	segs := make([]Segment, 0, len(b.Segments))
	for i, spec := range b.Segments {
		seg, err := spec.Build()
		if err != nil {
			return nil, fmt.Errorf("component %q segment %d: %w", b.Name, i, err)
		}
		segs = append(segs, seg)
	}
	return NewBoundaryComponent(b.Name, segs)
}

// Build converts the table spec into a Table.
func (t TableSpec) Build() (*Table, error) {
	outer, err := t.Outer.Build()
	if err != nil {
		return nil, fmt.Errorf("outer boundary: %w", err)
	}
	obstacles := make([]*BoundaryComponent, 0, len(t.Obstacles))
	for i, spec := range t.Obstacles {
		obs, err := spec.Build()
		if err != nil {
			return nil, fmt.Errorf("obstacle %d: %w", i, err)
		}
		obstacles = append(obstacles, obs)
	}
	return NewTable(outer, obstacles...), nil
}

// SpecOf converts a built segment back into its serializable form.
func SpecOf(seg Segment) SegmentSpec {
	switch s := seg.(type) {
	case LineSegment:
		return LineSpec(s.Start(), s.End())
	case CircularArcSegment:
		return ArcSpec(s.Center(), s.Radius(), s.StartAngle(), s.EndAngle(), s.CCW())
	default:
		return SegmentSpec{}
	}
}

func (c *BoundaryComponent) Spec() BoundarySpec {
	segs := make([]SegmentSpec, 0, len(c.segments))
	for _, seg := range c.segments {
		segs = append(segs, SpecOf(seg))
	}
	return BoundarySpec{Name: c.name, Segments: segs}
}

func (t *Table) Spec() TableSpec {
	obstacles := make([]BoundarySpec, 0, len(t.obstacles))
	for _, obs := range t.obstacles {
		obstacles = append(obstacles, obs.Spec())
	}
	return TableSpec{Outer: t.outer.Spec(), Obstacles: obstacles}
}
