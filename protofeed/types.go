package protofeed

import (
	"math"
	"sort"

	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/geom"
)

// UnboundedSpeed marks a speed zone with no local speed override. Samples in
// such a zone fall back to the route's own speed.
var UnboundedSpeed = math.Inf(1)

// DefaultSpeedByRouteType holds the default average route speed in km/h per
// GTFS route type, used when frequencies omit a speed.
var DefaultSpeedByRouteType = map[int]float64{
	0:  11,
	1:  30,
	2:  45,
	3:  22,
	4:  22,
	5:  13,
	6:  20,
	7:  18,
	11: 22,
	12: 65,
}

// Meta is the single-row network metadata table.
type Meta struct {
	AgencyName     string `validate:"required"`
	AgencyURL      string `validate:"required,url"`
	AgencyTimezone string `validate:"required"`
	StartDate      string `validate:"required,len=8,numeric"`
	EndDate        string `validate:"required,len=8,numeric"`

	// SpeedOverrides maps a GTFS route type to a default speed in km/h,
	// overriding DefaultSpeedByRouteType.
	SpeedOverrides map[int]float64 `validate:"-"`
}

// ServiceWindow is a time interval plus active weekdays during which routes
// run at constant frequency.
type ServiceWindow struct {
	ID        string `validate:"required"`
	StartTime string `validate:"required"`
	EndTime   string `validate:"required"`
	// Weekdays holds Monday..Sunday activity bits.
	Weekdays [7]int `validate:"-"`
}

// Frequency specifies how often a route runs on a shape during a service
// window.
type Frequency struct {
	RouteShortName  string `validate:"required"`
	RouteLongName   string `validate:"required"`
	RouteType       int    `validate:"gte=0"`
	ServiceWindowID string `validate:"required"`
	Direction       int    `validate:"gte=0,lte=2"`
	Frequency       int    `validate:"gte=0"`
	ShapeID         string `validate:"required"`
	// Speed in km/h; zero means unset and is filled from the defaults.
	Speed float64 `validate:"gte=0"`
}

// RouteShape is a named path geometry in flat coordinates.
type RouteShape struct {
	ShapeID  string
	Geometry geom.LineString
}

// Stop is a candidate stop location.
type Stop struct {
	StopID   string `validate:"required"`
	StopName string
	X        float64
	Y        float64
}

// SpeedZone is a region with a route-type-specific travel speed. A speed of
// UnboundedSpeed means "no override here".
type SpeedZone struct {
	ZoneID    string
	RouteType int
	Speed     float64
	Polygons  []geom.Polygon
}

// ContainsPoint reports whether the point lies in any of the zone's polygons.
func (z SpeedZone) ContainsPoint(p geom.Point) bool {
	for _, pg := range z.Polygons {
		if pg.Contains(p) {
			return true
		}
	}
	return false
}

// ProtoFeed holds the source data from which to build a GTFS feed.
type ProtoFeed struct {
	Meta           Meta
	ServiceWindows []ServiceWindow
	Shapes         []RouteShape
	Frequencies    []Frequency
	// Stops is nil when no stop table was supplied; the builder then derives
	// stops from shape endpoints.
	Stops []Stop
	// SpeedZones is nil when no zones were supplied. After normalization
	// each route type group ends with a catch-all "default" zone covering
	// the service area at UnboundedSpeed.
	SpeedZones []SpeedZone
}

// SpeedByRouteType returns the default speeds with the meta overrides
// applied.
func (pf *ProtoFeed) SpeedByRouteType() map[int]float64 {
	d := make(map[int]float64, len(DefaultSpeedByRouteType))
	for k, v := range DefaultSpeedByRouteType {
		d[k] = v
	}
	for k, v := range pf.Meta.SpeedOverrides {
		d[k] = v
	}
	return d
}

// RouteTypes returns the distinct route types appearing in the frequencies,
// sorted ascending.
func (pf *ProtoFeed) RouteTypes() []int {
	seen := map[int]struct{}{}
	var out []int
	for _, f := range pf.Frequencies {
		if _, ok := seen[f.RouteType]; !ok {
			seen[f.RouteType] = struct{}{}
			out = append(out, f.RouteType)
		}
	}
	sort.Ints(out)
	return out
}

// DirectionsByShape returns, per shape ID, the trip directions using that
// shape: 0, 1, or 2 (both).
func (pf *ProtoFeed) DirectionsByShape() map[string]int {
	byShape := map[string]map[int]struct{}{}
	for _, f := range pf.Frequencies {
		if byShape[f.ShapeID] == nil {
			byShape[f.ShapeID] = map[int]struct{}{}
		}
		byShape[f.ShapeID][f.Direction] = struct{}{}
	}
	out := make(map[string]int, len(byShape))
	for shape, dirs := range byShape {
		if len(dirs) > 1 {
			out[shape] = 2
			continue
		}
		for d := range dirs {
			out[shape] = d
		}
	}
	return out
}

// ShapeGeometry returns the geometry for the given (unqualified) shape ID.
func (pf *ProtoFeed) ShapeGeometry(shapeID string) (geom.LineString, bool) {
	for _, s := range pf.Shapes {
		if s.ShapeID == shapeID {
			return s.Geometry, true
		}
	}
	return geom.LineString{}, false
}

// ZonesForRouteType returns the speed zones restricted to one route type,
// preserving normalization order (explicit zones first, catch-all last).
func (pf *ProtoFeed) ZonesForRouteType(routeType int) []SpeedZone {
	var out []SpeedZone
	for _, z := range pf.SpeedZones {
		if z.RouteType == routeType {
			out = append(out, z)
		}
	}
	return out
}
