package geom

import "math"

// Side selects which side of a polyline a corridor covers.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
	SideBoth  Side = "both"
)

// maxMiter caps miter joins at sharp vertices to keep offset rings sane.
const maxMiter = 4.0

// Buffer returns the corridor of half-width dist around the polyline, with
// flat end caps (the corridor ends exactly at the polyline endpoints).
func Buffer(l LineString, dist float64) Polygon {
	left := offsetRing(l, dist, true)
	right := offsetRing(l, dist, false)
	ring := make([]Point, 0, len(left)+len(right))
	ring = append(ring, left...)
	for i := len(right) - 1; i >= 0; i-- {
		ring = append(ring, right[i])
	}
	return NewPolygon(ring)
}

// BufferSide returns the corridor of width dist on the given side of the
// polyline. For "both" or a non-positive dist it is the full two-sided
// corridor. For "left"/"right" the corridor hugs one side but is inflated
// across the polyline by 1.1 times a small splitting epsilon so that points
// lying exactly on the polyline still test as inside.
func BufferSide(l LineString, side Side, dist float64) Polygon {
	if side == SideBoth || dist <= 0 {
		return Buffer(l, dist)
	}
	eps := math.Min(dist/2, 0.001)
	overhang := 1.1 * eps
	onPicked := offsetRing(l, dist, side == SideLeft)
	// Pushed slightly past the polyline onto the opposite side.
	onOther := offsetRing(l, overhang, side != SideLeft)
	ring := make([]Point, 0, len(onPicked)+len(onOther))
	ring = append(ring, onPicked...)
	for i := len(onOther) - 1; i >= 0; i-- {
		ring = append(ring, onOther[i])
	}
	return NewPolygon(ring)
}

// offsetRing offsets every vertex of the polyline by dist to its left or
// right, using miter joins at interior vertices.
func offsetRing(l LineString, dist float64, left bool) []Point {
	n := l.NumPoints()
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []Point{l.Point(0)}
	}
	out := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		var dir Point
		switch {
		case i == 0:
			dir = segmentDir(l, 1)
		case i == n-1:
			dir = segmentDir(l, n-1)
		default:
			// Average of the adjacent segment directions.
			dir = segmentDir(l, i).Add(segmentDir(l, i+1))
			if dir.Norm() == 0 {
				// U-turn at this vertex; fall back to the incoming segment.
				dir = segmentDir(l, i)
			} else {
				dir = dir.Normalize()
			}
		}
		normal := leftNormal(dir)
		if !left {
			normal = normal.Mul(-1)
		}
		scale := dist
		if i > 0 && i < n-1 {
			// Miter scaling so the joined offset edges stay dist away from
			// both segments, clamped at sharp angles.
			cosHalf := normal.Dot(leftNormalOf(l, i, left))
			if cosHalf > 1/maxMiter {
				scale = dist / cosHalf
			} else {
				scale = dist * maxMiter
			}
		}
		out = append(out, l.Point(i).Add(normal.Mul(scale)))
	}
	return out
}

// segmentDir returns the unit direction of the segment ending at vertex i.
func segmentDir(l LineString, i int) Point {
	d := l.Point(i).Sub(l.Point(i - 1))
	if d.Norm() == 0 {
		return Point{X: 1, Y: 0}
	}
	return d.Normalize()
}

// leftNormal returns the unit normal pointing to the left of a direction.
func leftNormal(dir Point) Point {
	return Point{X: -dir.Y, Y: dir.X}
}

// leftNormalOf returns the side normal of the segment arriving at vertex i.
func leftNormalOf(l LineString, i int, left bool) Point {
	n := leftNormal(segmentDir(l, i))
	if !left {
		n = n.Mul(-1)
	}
	return n
}
