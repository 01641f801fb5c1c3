package makegtfs

import (
	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/geom"
	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/protofeed"
)

// testProtoFeed returns a small normalized protofeed: one route running
// every 15 minutes on a straight 1 km eastbound shape, two stops on the
// right-hand side of the street, and a catch-all speed zone.
func testProtoFeed() *protofeed.ProtoFeed {
	return &protofeed.ProtoFeed{
		Meta: protofeed.Meta{
			AgencyName:     "Test Transit",
			AgencyURL:      "https://transit.example.com",
			AgencyTimezone: "America/New_York",
			StartDate:      "20260101",
			EndDate:        "20261231",
		},
		ServiceWindows: []protofeed.ServiceWindow{
			{
				ID:        "weekday_peak",
				StartTime: "06:00:00",
				EndTime:   "09:00:00",
				Weekdays:  [7]int{1, 1, 1, 1, 1, 0, 0},
			},
		},
		Shapes: []protofeed.RouteShape{
			{
				ShapeID: "sh1",
				Geometry: geom.NewLineString([]geom.Point{
					{X: 0, Y: 0}, {X: 1000, Y: 0},
				}),
			},
		},
		Frequencies: []protofeed.Frequency{
			{
				RouteShortName:  "10",
				RouteLongName:   "Crosstown",
				RouteType:       3,
				ServiceWindowID: "weekday_peak",
				Direction:       0,
				Frequency:       4,
				ShapeID:         "sh1",
				Speed:           36,
			},
		},
		Stops: []protofeed.Stop{
			{StopID: "s0", StopName: "First St", X: 0, Y: -5},
			{StopID: "s1", StopName: "Last St", X: 1000, Y: -5},
		},
		SpeedZones: []protofeed.SpeedZone{
			catchAllZone(3),
		},
	}
}

// catchAllZone covers the whole test area with no speed override.
func catchAllZone(routeType int) protofeed.SpeedZone {
	return protofeed.SpeedZone{
		ZoneID:    "default",
		RouteType: routeType,
		Speed:     protofeed.UnboundedSpeed,
		Polygons: []geom.Polygon{
			rectZone(-2000, -2000, 4000, 2000),
		},
	}
}

// loopGeometry is a closed path whose start and end coincide.
func loopGeometry() geom.LineString {
	return geom.NewLineString([]geom.Point{
		{X: 0, Y: 0}, {X: 500, Y: 0}, {X: 500, Y: 500}, {X: 0, Y: 500}, {X: 0, Y: 0},
	})
}

func rectZone(minX, minY, maxX, maxY float64) geom.Polygon {
	return geom.NewPolygon([]geom.Point{
		{X: minX, Y: minY}, {X: maxX, Y: minY},
		{X: maxX, Y: maxY}, {X: minX, Y: maxY},
	})
}
