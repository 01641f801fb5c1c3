package makegtfs

import (
	"sort"

	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/geom"
	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/protofeed"
)

// BoundarySequence marks speed samples inserted where a path crosses a speed
// zone boundary, as opposed to samples at the path's own vertices.
const BoundarySequence = -1

// SpeedSample is one point of a shape's speed profile: a location along the
// shape together with the speed zone governing it.
type SpeedSample struct {
	ShapeID  string
	Sequence int
	// Dist is the distance along the shape in meters.
	Dist      float64
	Point     geom.Point
	RouteType int
	ZoneID    string
	// Speed in km/h; protofeed.UnboundedSpeed when the zone sets none.
	Speed float64
}

// ShapePointSpeeds builds the speed profiles of the given shapes against the
// speed zones of one route type. The profile of a shape contains a sample per
// shape vertex plus a sample wherever the shape crosses a zone boundary,
// ordered by distance along the shape with boundary samples first among ties.
// Samples outside every zone are dropped. Returns nil when the route type has
// no speed zones.
func ShapePointSpeeds(shapeGeoms map[string]geom.LineString, zones []protofeed.SpeedZone, routeType int) []SpeedSample {
	var typed []protofeed.SpeedZone
	for _, z := range zones {
		if z.RouteType == routeType {
			typed = append(typed, z)
		}
	}
	if len(typed) == 0 {
		return nil
	}

	shapeIDs := make([]string, 0, len(shapeGeoms))
	for id := range shapeGeoms {
		shapeIDs = append(shapeIDs, id)
	}
	sort.Strings(shapeIDs)

	var samples []SpeedSample
	for _, shapeID := range shapeIDs {
		l := shapeGeoms[shapeID]
		var raw []SpeedSample
		for i := 0; i < l.NumPoints(); i++ {
			raw = append(raw, SpeedSample{
				ShapeID:  shapeID,
				Sequence: i,
				Dist:     l.CumDist(i),
				Point:    l.Point(i),
			})
		}
		for _, z := range typed {
			for _, pg := range z.Polygons {
				for _, dist := range pg.Crossings(l) {
					raw = append(raw, SpeedSample{
						ShapeID:  shapeID,
						Sequence: BoundarySequence,
						Dist:     dist,
						Point:    l.Interpolate(dist),
					})
				}
			}
		}
		sort.SliceStable(raw, func(i, j int) bool {
			if raw[i].Dist != raw[j].Dist {
				return raw[i].Dist < raw[j].Dist
			}
			return raw[i].Sequence < raw[j].Sequence
		})
		for _, s := range raw {
			zone, ok := firstContainingZone(typed, s.Point)
			if !ok {
				continue
			}
			s.RouteType = routeType
			s.ZoneID = zone.ZoneID
			s.Speed = zone.Speed
			samples = append(samples, s)
		}
	}
	return samples
}

// firstContainingZone returns the first zone containing the point. Zone order
// matters: normalization puts explicit zones before the catch-all.
func firstContainingZone(zones []protofeed.SpeedZone, p geom.Point) (protofeed.SpeedZone, bool) {
	for _, z := range zones {
		if z.ContainsPoint(p) {
			return z, true
		}
	}
	return protofeed.SpeedZone{}, false
}
