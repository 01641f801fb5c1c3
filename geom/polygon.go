package geom

import (
	"math"
	"sort"
)

// Polygon is a simple polygon given by its exterior ring. The ring need not
// repeat the first vertex.
type Polygon struct {
	ring []Point
}

// NewPolygon builds a polygon from the given exterior ring.
func NewPolygon(ring []Point) Polygon {
	cp := make([]Point, 0, len(ring))
	cp = append(cp, ring...)
	// Drop a closing vertex duplicating the first one.
	if n := len(cp); n > 1 && cp[0] == cp[n-1] {
		cp = cp[:n-1]
	}
	return Polygon{ring: cp}
}

// Ring returns the exterior ring vertices.
func (pg Polygon) Ring() []Point {
	cp := make([]Point, len(pg.ring))
	copy(cp, pg.ring)
	return cp
}

// Area returns the unsigned area of the polygon.
func (pg Polygon) Area() float64 {
	n := len(pg.ring)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		a := pg.ring[i]
		b := pg.ring[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(sum) / 2
}

// Centroid returns the arithmetic mean of the ring vertices. Good enough as
// a representative point for convex-ish corridors.
func (pg Polygon) Centroid() Point {
	if len(pg.ring) == 0 {
		return Point{}
	}
	var c Point
	for _, p := range pg.ring {
		c = c.Add(p)
	}
	return c.Mul(1 / float64(len(pg.ring)))
}

// Contains reports whether p lies inside the polygon, using even-odd ray
// casting. Points exactly on an edge may land on either side; callers that
// care inflate the polygon first.
func (pg Polygon) Contains(p Point) bool {
	n := len(pg.ring)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := pg.ring[i], pg.ring[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// BoundaryDistance returns the distance from p to the nearest point on the
// polygon's boundary ring.
func (pg Polygon) BoundaryDistance(p Point) float64 {
	if len(pg.ring) == 0 {
		return math.Inf(1)
	}
	closed := append(pg.Ring(), pg.ring[0])
	return NewLineString(closed).DistanceTo(p)
}

// Covers reports whether p lies inside the polygon or within tol of its
// boundary. Contains uses a half-open edge rule, so a point exactly on an
// edge can test outside; membership checks that must include the boundary
// go through Covers.
func (pg Polygon) Covers(p Point, tol float64) bool {
	return pg.Contains(p) || pg.BoundaryDistance(p) <= tol
}

// Crossings returns the distances along l at which l crosses the polygon
// boundary, sorted ascending.
func (pg Polygon) Crossings(l LineString) []float64 {
	n := len(pg.ring)
	if n < 2 {
		return nil
	}
	var dists []float64
	for i := 1; i < l.NumPoints(); i++ {
		a := l.Point(i - 1)
		b := l.Point(i)
		segLen := l.CumDist(i) - l.CumDist(i-1)
		if segLen == 0 {
			continue
		}
		for j := 0; j < n; j++ {
			c := pg.ring[j]
			d := pg.ring[(j+1)%n]
			if t, ok := segmentIntersection(a, b, c, d); ok {
				dists = append(dists, l.CumDist(i-1)+t*segLen)
			}
		}
	}
	sort.Float64s(dists)
	return dists
}

// segmentIntersection returns the parameter along a->b of the intersection
// with c->d, if the open segments properly cross.
func segmentIntersection(a, b, c, d Point) (float64, bool) {
	r := b.Sub(a)
	s := d.Sub(c)
	denom := r.Cross(s)
	if denom == 0 {
		return 0, false // parallel or collinear
	}
	ac := c.Sub(a)
	t := ac.Cross(s) / denom
	u := ac.Cross(r) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return 0, false
	}
	return t, true
}
