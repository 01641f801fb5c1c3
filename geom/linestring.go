package geom

import (
	"math"

	"github.com/golang/geo/r2"
)

// Point is a location in a flat, meter-based coordinate system.
type Point = r2.Point

// LineString is an immutable polyline with precomputed cumulative distances.
type LineString struct {
	pts []Point
	cum []float64 // cumulative distance from the start at each vertex
}

// NewLineString builds a LineString from the given vertices.
func NewLineString(pts []Point) LineString {
	cp := make([]Point, len(pts))
	copy(cp, pts)
	cum := make([]float64, len(cp))
	for i := 1; i < len(cp); i++ {
		cum[i] = cum[i-1] + cp[i].Sub(cp[i-1]).Norm()
	}
	return LineString{pts: cp, cum: cum}
}

// Points returns the vertices of the polyline.
func (l LineString) Points() []Point {
	cp := make([]Point, len(l.pts))
	copy(cp, l.pts)
	return cp
}

// NumPoints returns the number of vertices.
func (l LineString) NumPoints() int { return len(l.pts) }

// Point returns the i-th vertex.
func (l LineString) Point(i int) Point { return l.pts[i] }

// CumDist returns the distance from the start of the polyline to the i-th
// vertex.
func (l LineString) CumDist(i int) float64 { return l.cum[i] }

// Length returns the total length of the polyline.
func (l LineString) Length() float64 {
	if len(l.cum) == 0 {
		return 0
	}
	return l.cum[len(l.cum)-1]
}

// Reverse returns a new LineString with the vertex order flipped.
func (l LineString) Reverse() LineString {
	rev := make([]Point, len(l.pts))
	for i, p := range l.pts {
		rev[len(l.pts)-1-i] = p
	}
	return NewLineString(rev)
}

// Interpolate returns the point at the given distance along the polyline.
// Distances outside [0, Length] clamp to the endpoints.
func (l LineString) Interpolate(dist float64) Point {
	n := len(l.pts)
	if n == 0 {
		return Point{}
	}
	if dist <= 0 || n == 1 {
		return l.pts[0]
	}
	if dist >= l.Length() {
		return l.pts[n-1]
	}
	for i := 1; i < n; i++ {
		if l.cum[i] >= dist {
			segLen := l.cum[i] - l.cum[i-1]
			if segLen == 0 {
				return l.pts[i]
			}
			t := (dist - l.cum[i-1]) / segLen
			return l.pts[i-1].Add(l.pts[i].Sub(l.pts[i-1]).Mul(t))
		}
	}
	return l.pts[n-1]
}

// Project returns the distance along the polyline of the point on it closest
// to p.
func (l LineString) Project(p Point) float64 {
	best := math.Inf(1)
	bestDist := 0.0
	for i := 1; i < len(l.pts); i++ {
		a, b := l.pts[i-1], l.pts[i]
		ab := b.Sub(a)
		segLen2 := ab.Dot(ab)
		t := 0.0
		if segLen2 > 0 {
			t = p.Sub(a).Dot(ab) / segLen2
			t = math.Max(0, math.Min(1, t))
		}
		closest := a.Add(ab.Mul(t))
		d := p.Sub(closest).Norm()
		if d < best {
			best = d
			bestDist = l.cum[i-1] + t*math.Sqrt(segLen2)
		}
	}
	return bestDist
}

// DistanceTo returns the distance from p to the closest point on the
// polyline.
func (l LineString) DistanceTo(p Point) float64 {
	return p.Sub(l.Interpolate(l.Project(p))).Norm()
}

// Bounds returns the axis-aligned bounding box of the polyline as
// (min, max) corner points.
func (l LineString) Bounds() (Point, Point) {
	if len(l.pts) == 0 {
		return Point{}, Point{}
	}
	min, max := l.pts[0], l.pts[0]
	for _, p := range l.pts[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}
