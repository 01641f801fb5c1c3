package protofeed

import (
	"sort"

	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/geom"
)

// serviceAreaMargin is how far (meters) the shape bounding box is expanded
// to form the service area used for the catch-all speed zone.
const serviceAreaMargin = 1000.0

// normalize fills route type and speed defaults and tidies the speed zones
// so that every route type with zones also has a catch-all default zone.
func (pf *ProtoFeed) normalize() {
	speeds := pf.SpeedByRouteType()
	for i := range pf.Frequencies {
		f := &pf.Frequencies[i]
		if f.Speed == 0 {
			if s, ok := speeds[f.RouteType]; ok {
				f.Speed = s
			}
		}
	}
	pf.tidySpeedZones()
}

// serviceArea returns the bounding box of all shapes expanded by
// serviceAreaMargin, as a rectangle polygon.
func (pf *ProtoFeed) serviceArea() geom.Polygon {
	if len(pf.Shapes) == 0 {
		return geom.NewPolygon(nil)
	}
	min, max := pf.Shapes[0].Geometry.Bounds()
	for _, s := range pf.Shapes[1:] {
		lo, hi := s.Geometry.Bounds()
		if lo.X < min.X {
			min.X = lo.X
		}
		if lo.Y < min.Y {
			min.Y = lo.Y
		}
		if hi.X > max.X {
			max.X = hi.X
		}
		if hi.Y > max.Y {
			max.Y = hi.Y
		}
	}
	min = min.Sub(geom.Point{X: serviceAreaMargin, Y: serviceAreaMargin})
	max = max.Add(geom.Point{X: serviceAreaMargin, Y: serviceAreaMargin})
	return geom.NewPolygon([]geom.Point{
		{X: min.X, Y: min.Y},
		{X: max.X, Y: min.Y},
		{X: max.X, Y: max.Y},
		{X: min.X, Y: max.Y},
	})
}

// tidySpeedZones orders zones by (route type, zone ID) and appends, at the
// end of each route type group, a catch-all "default" zone covering the
// whole service area at UnboundedSpeed. Zone lookups take the first
// containing zone, so explicit zones always win over the catch-all.
func (pf *ProtoFeed) tidySpeedZones() {
	if len(pf.SpeedZones) == 0 {
		return
	}
	area := pf.serviceArea()

	byType := map[int][]SpeedZone{}
	for _, z := range pf.SpeedZones {
		byType[z.RouteType] = append(byType[z.RouteType], z)
	}
	routeTypes := make([]int, 0, len(byType))
	for rt := range byType {
		routeTypes = append(routeTypes, rt)
	}
	sort.Ints(routeTypes)

	tidied := make([]SpeedZone, 0, len(pf.SpeedZones)+len(routeTypes))
	for _, rt := range routeTypes {
		group := byType[rt]
		sort.SliceStable(group, func(i, j int) bool { return group[i].ZoneID < group[j].ZoneID })
		tidied = append(tidied, group...)
		tidied = append(tidied, SpeedZone{
			ZoneID:    "default",
			RouteType: rt,
			Speed:     UnboundedSpeed,
			Polygons:  []geom.Polygon{area},
		})
	}
	pf.SpeedZones = tidied
}
