package makegtfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/config"
	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/geom"
	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/protofeed"
)

func straightPath() geom.LineString {
	return geom.NewLineString([]geom.Point{{X: 0, Y: 0}, {X: 1000, Y: 0}})
}

func endpointStops() []protofeed.Stop {
	return []protofeed.Stop{
		{StopID: "s0", X: 0, Y: -5},
		{StopID: "s1", X: 1000, Y: -5},
	}
}

func TestStopTimesForTripUniformSpeed(t *testing.T) {
	path := straightPath()
	zones := []protofeed.SpeedZone{catchAllZone(3)}
	profile := ShapePointSpeeds(map[string]geom.LineString{"sh1-0": path}, zones, 3)

	// 1 km at 36 km/h (10 m/s) takes 100 seconds.
	rows := stopTimesForTrip(endpointStops(), path, zones, profile, 36)
	require.Len(t, rows, 2)
	assert.Equal(t, "s0", rows[0].StopID)
	assert.InDelta(t, 0, rows[0].Arrival, 1e-9)
	assert.InDelta(t, 0, rows[0].Dist, 1e-9)
	assert.Equal(t, "s1", rows[1].StopID)
	assert.InDelta(t, 100, rows[1].Arrival, 1e-6)
	assert.InDelta(t, 1000, rows[1].Dist, 1e-6)
}

func TestStopTimesForTripPiecewiseSpeeds(t *testing.T) {
	path := straightPath()
	zones := []protofeed.SpeedZone{
		{
			ZoneID:    "slow",
			RouteType: 3,
			Speed:     10,
			Polygons:  []geom.Polygon{rectZone(-50, -100, 500, 100)},
		},
		{
			ZoneID:    "fast",
			RouteType: 3,
			Speed:     50,
			Polygons:  []geom.Polygon{rectZone(500, -100, 1100, 100)},
		},
	}
	profile := ShapePointSpeeds(map[string]geom.LineString{"sh1-0": path}, zones, 3)

	rows := stopTimesForTrip(endpointStops(), path, zones, profile, 22)
	require.Len(t, rows, 2)

	// 500 m at 10 km/h plus 500 m at 50 km/h: 180 s + 36 s. Averaging the
	// two speeds to 30 km/h would give 120 s instead, so the piecewise
	// integration is observable here.
	assert.InDelta(t, 216, rows[1].Arrival, 1e-6)
}

func TestStopTimesForTripSingleStop(t *testing.T) {
	path := straightPath()
	zones := []protofeed.SpeedZone{catchAllZone(3)}
	profile := ShapePointSpeeds(map[string]geom.LineString{"sh1-0": path}, zones, 3)

	rows := stopTimesForTrip(endpointStops()[:1], path, zones, profile, 36)
	require.Len(t, rows, 1)
	assert.InDelta(t, 0, rows[0].Arrival, 1e-9)
}

func TestStopTimesForTripNoStops(t *testing.T) {
	path := straightPath()
	zones := []protofeed.SpeedZone{catchAllZone(3)}
	profile := ShapePointSpeeds(map[string]geom.LineString{"sh1-0": path}, zones, 3)

	assert.Empty(t, stopTimesForTrip(nil, path, zones, profile, 36))
}

func TestStopTimesForTripCoincidentStops(t *testing.T) {
	path := straightPath()
	zones := []protofeed.SpeedZone{catchAllZone(3)}
	profile := ShapePointSpeeds(map[string]geom.LineString{"sh1-0": path}, zones, 3)

	stops := []protofeed.Stop{
		{StopID: "a", X: 200, Y: -5},
		{StopID: "b", X: 200, Y: 5},
	}
	rows := stopTimesForTrip(stops, path, zones, profile, 36)
	require.Len(t, rows, 2)
	// Zero-length segment, zero duration, no NaN.
	assert.InDelta(t, rows[0].Arrival, rows[1].Arrival, 1e-9)
}

func TestBuildStopTimes(t *testing.T) {
	pf := testProtoFeed()
	b := NewBuilder(config.Default())
	routes := BuildRoutes(pf)
	_, serviceByWindow := BuildCalendar(pf)
	_, shapeGeoms := BuildShapes(pf, "-")
	stops := BuildStops(pf, shapeGeoms, "-")
	trips, err := BuildTrips(pf, routes, serviceByWindow, "-")
	require.NoError(t, err)

	stopTimes, err := b.BuildStopTimes(pf, routes, shapeGeoms, stops, trips)
	require.NoError(t, err)
	// 12 trips, 2 stops each.
	require.Len(t, stopTimes, 24)

	first := stopTimes[0]
	assert.Equal(t, trips[0].TripID, first.TripID)
	assert.Equal(t, "s0", first.StopID)
	assert.Equal(t, 0, first.StopSequence)
	assert.Equal(t, "06:00:00", first.ArrivalTime)
	assert.Equal(t, first.ArrivalTime, first.DepartureTime)
	assert.InDelta(t, 0, first.ShapeDistTraveled, 1e-9)

	// 1 km at the route speed of 36 km/h.
	second := stopTimes[1]
	assert.Equal(t, "s1", second.StopID)
	assert.Equal(t, "06:01:40", second.ArrivalTime)
	assert.InDelta(t, 1000, second.ShapeDistTraveled, 1e-9)

	// Trips depart a headway apart: 4 per hour is every 900 seconds.
	third := stopTimes[2]
	assert.Equal(t, trips[1].TripID, third.TripID)
	assert.Equal(t, "06:15:00", third.ArrivalTime)

	// Rows of each trip are non-decreasing in distance and time.
	byTrip := map[string][]int{}
	for i, st := range stopTimes {
		byTrip[st.TripID] = append(byTrip[st.TripID], i)
	}
	for _, idxs := range byTrip {
		for i := 1; i < len(idxs); i++ {
			prev, cur := stopTimes[idxs[i-1]], stopTimes[idxs[i]]
			assert.LessOrEqual(t, prev.ShapeDistTraveled, cur.ShapeDistTraveled)
			assert.LessOrEqual(t, prev.ArrivalTime, cur.ArrivalTime)
		}
	}
}

func TestBuildStopTimesDeterministic(t *testing.T) {
	pf := testProtoFeed()
	b := NewBuilder(config.Default())
	routes := BuildRoutes(pf)
	_, serviceByWindow := BuildCalendar(pf)
	_, shapeGeoms := BuildShapes(pf, "-")
	stops := BuildStops(pf, shapeGeoms, "-")
	trips, err := BuildTrips(pf, routes, serviceByWindow, "-")
	require.NoError(t, err)

	first, err := b.BuildStopTimes(pf, routes, shapeGeoms, stops, trips)
	require.NoError(t, err)
	second, err := b.BuildStopTimes(pf, routes, shapeGeoms, stops, trips)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildStopTimesConfigSpeedFallback(t *testing.T) {
	pf := testProtoFeed()
	// An extended route type with no default speed and no explicit speed:
	// normalization leaves the frequency speed at zero.
	pf.Frequencies[0].RouteType = 99
	pf.Frequencies[0].Speed = 0
	pf.SpeedZones = []protofeed.SpeedZone{catchAllZone(99)}

	b := NewBuilder(config.Default())
	routes := BuildRoutes(pf)
	_, serviceByWindow := BuildCalendar(pf)
	_, shapeGeoms := BuildShapes(pf, "-")
	stops := BuildStops(pf, shapeGeoms, "-")
	trips, err := BuildTrips(pf, routes, serviceByWindow, "-")
	require.NoError(t, err)

	stopTimes, err := b.BuildStopTimes(pf, routes, shapeGeoms, stops, trips)
	require.NoError(t, err)
	require.Len(t, stopTimes, 24)

	// 1 km at the configured 22 km/h is 164 seconds, not zero.
	assert.Equal(t, "06:00:00", stopTimes[0].ArrivalTime)
	assert.Equal(t, "06:02:44", stopTimes[1].ArrivalTime)
}

func TestBuildStopTimesWrongSideStops(t *testing.T) {
	pf := testProtoFeed()
	// Stops on the left of an eastbound shape; US traffic looks right.
	for i := range pf.Stops {
		pf.Stops[i].Y = 5
	}
	b := NewBuilder(config.Default())
	routes := BuildRoutes(pf)
	_, serviceByWindow := BuildCalendar(pf)
	_, shapeGeoms := BuildShapes(pf, "-")
	stops := BuildStops(pf, shapeGeoms, "-")
	trips, err := BuildTrips(pf, routes, serviceByWindow, "-")
	require.NoError(t, err)

	stopTimes, err := b.BuildStopTimes(pf, routes, shapeGeoms, stops, trips)
	require.NoError(t, err)
	assert.Empty(t, stopTimes)
}

func TestBuildStopTimesLeftHandTraffic(t *testing.T) {
	pf := testProtoFeed()
	pf.Meta.AgencyTimezone = "Europe/London"
	for i := range pf.Stops {
		pf.Stops[i].Y = 5
	}
	b := NewBuilder(config.Default())
	routes := BuildRoutes(pf)
	_, serviceByWindow := BuildCalendar(pf)
	_, shapeGeoms := BuildShapes(pf, "-")
	stops := BuildStops(pf, shapeGeoms, "-")
	trips, err := BuildTrips(pf, routes, serviceByWindow, "-")
	require.NoError(t, err)

	stopTimes, err := b.BuildStopTimes(pf, routes, shapeGeoms, stops, trips)
	require.NoError(t, err)
	assert.Len(t, stopTimes, 24)
}
