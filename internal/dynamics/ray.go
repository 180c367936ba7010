package dynamics

import (
	"math"
	"sort"

	"github.com/playpool/billiard/internal/geometry"
)

const (
	// parallelThreshold is the smallest |cross(r, s)| treated as a crossing.
	parallelThreshold = 1e-12
	// rootMergeThreshold folds the two roots of a tangent ray into one.
	rootMergeThreshold = 1e-14
)

// Ray is the half-line Origin + t*Direction, t >= 0. Direction does not need
// to be unit length; the intersection routines normalize it so that ray
// parameters are Euclidean distances.
type Ray struct {
	Origin    geometry.Vec2
	Direction geometry.Vec2
}

// Intersection is the nearest boundary hit of a ray against a table.
type Intersection struct {
	ComponentIndex int
	SegmentIndex   int
	// LocalT is the arc-length offset of the hit on its segment.
	LocalT float64
	// RayParameter is the distance from the ray origin to the hit.
	RayParameter float64
}

// Point returns the world position reached after travelling distance t.
func (r Ray) Point(t float64) (geometry.Vec2, bool) {
	d, ok := r.Direction.TryNormalized()
	if !ok {
		return geometry.Vec2{}, false
	}
	return r.Origin.Add(d.Scale(t)), true
}

// IntersectLine returns the ray parameter and local arc-length of the hit on
// seg. Hits closer than epsilon to the origin are ignored.
func (r Ray) IntersectLine(seg geometry.LineSegment, epsilon float64) (float64, float64, bool) {
	d, ok := r.Direction.TryNormalized()
	if !ok {
		return 0, 0, false
	}

	length := seg.Length()
	if length <= epsilon {
		return 0, 0, false
	}
	s := seg.End().Sub(seg.Start()).Div(length)

	denom := d.Cross(s)
	if math.Abs(denom) < parallelThreshold {
		return 0, 0, false
	}

	qp := seg.Start().Sub(r.Origin)
	t := qp.Cross(s) / denom
	// u runs along the unit direction s, so it is already an arc-length;
	// as a fraction of the segment it is u/length.
	u := qp.Cross(d) / denom
	frac := u / length

	if t > epsilon && frac >= 0 && frac <= 1 {
		return t, frac * length, true
	}
	return 0, 0, false
}

// intersectCircle returns the ray parameters beyond epsilon at which the ray
// meets the full circle, in ascending order.
func (r Ray) intersectCircle(center geometry.Vec2, radius, epsilon float64) []float64 {
	d, ok := r.Direction.TryNormalized()
	if !ok {
		return nil
	}

	// |m + t d|^2 = r^2  =>  t^2 + 2(m.d)t + (m.m - r^2) = 0
	m := r.Origin.Sub(center)
	b := m.Dot(d)
	c := m.Dot(m) - radius*radius

	disc := b*b - c
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)
	t1 := -b - sq
	t2 := -b + sq

	roots := make([]float64, 0, 2)
	if t1 > epsilon {
		roots = append(roots, t1)
	}
	if t2 > epsilon && math.Abs(t2-t1) > rootMergeThreshold {
		roots = append(roots, t2)
	}
	sort.Float64s(roots)
	return roots
}

// IntersectArc returns the nearest hit on the arc's angular span.
func (r Ray) IntersectArc(arc geometry.CircularArcSegment, epsilon float64) (float64, float64, bool) {
	d, ok := r.Direction.TryNormalized()
	if !ok {
		return 0, 0, false
	}

	for _, t := range r.intersectCircle(arc.Center(), arc.Radius(), epsilon) {
		rel := r.Origin.Add(d.Scale(t)).Sub(arc.Center())
		local, ok := arc.LocalAt(math.Atan2(rel.Y, rel.X))
		if !ok {
			continue
		}
		// roots are ascending, so the first match is the nearest
		return t, local, true
	}
	return 0, 0, false
}

// IntersectSegment dispatches on the segment variant.
func (r Ray) IntersectSegment(seg geometry.Segment, epsilon float64) (float64, float64, bool) {
	switch s := seg.(type) {
	case geometry.LineSegment:
		return r.IntersectLine(s, epsilon)
	case geometry.CircularArcSegment:
		return r.IntersectArc(s, epsilon)
	default:
		return 0, 0, false
	}
}

// IntersectComponent returns the segment index, ray parameter and local
// arc-length of the nearest hit on the component.
func (r Ray) IntersectComponent(c *geometry.BoundaryComponent, epsilon float64) (int, float64, float64, bool) {
	best := -1
	bestT, bestLocal := math.Inf(1), 0.0
	for i := 0; i < c.SegmentCount(); i++ {
		t, local, ok := r.IntersectSegment(c.Segment(i), epsilon)
		if ok && t < bestT {
			best, bestT, bestLocal = i, t, local
		}
	}
	if best < 0 {
		return 0, 0, 0, false
	}
	return best, bestT, bestLocal, true
}

// IntersectTable returns the nearest hit over all components. When two
// components are hit at exactly the same distance the one visited first wins;
// that ordering is an implementation detail, not a guarantee.
func (r Ray) IntersectTable(table *geometry.Table, epsilon float64) (Intersection, bool) {
	var best Intersection
	found := false
	for ci, c := range table.Components() {
		si, t, local, ok := r.IntersectComponent(c, epsilon)
		if !ok {
			continue
		}
		if !found || t < best.RayParameter {
			best = Intersection{
				ComponentIndex: ci,
				SegmentIndex:   si,
				LocalT:         local,
				RayParameter:   t,
			}
			found = true
		}
	}
	return best, found
}
