package protofeed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/geom"
)

const metaCSV = `agency_name,agency_url,agency_timezone,start_date,end_date,speed_route_type_0
City Transit,https://city.example.com,Europe/London,20260101,20261231,15
`

const serviceWindowsCSV = `service_window_id,start_time,end_time,monday,tuesday,wednesday,thursday,friday,saturday,sunday
peak,06:00:00,09:00:00,1,1,1,1,1,0,0
weekend,08:00:00,20:00:00,0,0,0,0,0,1,1
`

const frequenciesCSV = `route_short_name,route_long_name,route_type,service_window_id,direction,frequency,shape_id,speed
10,Crosstown,3,peak,2,4,sh1,
T1,Tram Line,0,weekend,0,2,sh1,25
`

const shapesGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"shape_id": "sh1"},
      "geometry": {"type": "LineString", "coordinates": [[0, 0], [1000, 0], [1000, 500]]}
    }
  ]
}`

const stopsCSV = `stop_id,stop_name,stop_lon,stop_lat
s0,First St,0,-5
s1,Last St,1000,-5
`

const speedZonesGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"zone_id": "z_slow", "route_type": 3, "speed": 20},
      "geometry": {"type": "Polygon", "coordinates": [[[0, -100], [500, -100], [500, 100], [0, 100], [0, -100]]]}
    },
    {
      "type": "Feature",
      "properties": {"zone_id": "z_open", "route_type": 3},
      "geometry": {"type": "MultiPolygon", "coordinates": [[[[500, -100], [900, -100], [900, 100], [500, 100], [500, -100]]]]}
    }
  ]
}`

func writeProtoFeedDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func fullFixture() map[string]string {
	return map[string]string{
		"meta.csv":            metaCSV,
		"service_windows.csv": serviceWindowsCSV,
		"frequencies.csv":     frequenciesCSV,
		"shapes.geojson":      shapesGeoJSON,
		"stops.csv":           stopsCSV,
		"speed_zones.geojson": speedZonesGeoJSON,
	}
}

func TestRead(t *testing.T) {
	dir := writeProtoFeedDir(t, fullFixture())
	pf, err := Read(dir)
	require.NoError(t, err)

	assert.Equal(t, "City Transit", pf.Meta.AgencyName)
	assert.Equal(t, "Europe/London", pf.Meta.AgencyTimezone)
	assert.Equal(t, map[int]float64{0: 15}, pf.Meta.SpeedOverrides)

	require.Len(t, pf.ServiceWindows, 2)
	assert.Equal(t, [7]int{1, 1, 1, 1, 1, 0, 0}, pf.ServiceWindows[0].Weekdays)

	require.Len(t, pf.Frequencies, 2)
	// Empty speed falls back to the route type default, overridden by meta.
	assert.InDelta(t, DefaultSpeedByRouteType[3], pf.Frequencies[0].Speed, 1e-9)
	assert.InDelta(t, 25, pf.Frequencies[1].Speed, 1e-9)
	assert.Equal(t, 2, pf.Frequencies[0].Direction)

	require.Len(t, pf.Shapes, 1)
	assert.Equal(t, "sh1", pf.Shapes[0].ShapeID)
	assert.Equal(t, 3, pf.Shapes[0].Geometry.NumPoints())
	assert.InDelta(t, 1500, pf.Shapes[0].Geometry.Length(), 1e-9)

	require.Len(t, pf.Stops, 2)
	assert.Equal(t, "s0", pf.Stops[0].StopID)
	assert.InDelta(t, -5, pf.Stops[0].Y, 1e-9)
}

func TestReadTidiesSpeedZones(t *testing.T) {
	dir := writeProtoFeedDir(t, fullFixture())
	pf, err := Read(dir)
	require.NoError(t, err)

	// Two explicit zones plus the appended catch-all for route type 3.
	require.Len(t, pf.SpeedZones, 3)
	assert.Equal(t, "z_open", pf.SpeedZones[0].ZoneID)
	assert.Equal(t, "z_slow", pf.SpeedZones[1].ZoneID)
	assert.True(t, pf.SpeedZones[0].Speed == UnboundedSpeed)
	assert.InDelta(t, 20, pf.SpeedZones[1].Speed, 1e-9)

	last := pf.SpeedZones[2]
	assert.Equal(t, "default", last.ZoneID)
	assert.Equal(t, 3, last.RouteType)
	assert.True(t, last.Speed == UnboundedSpeed)
	// The catch-all covers the shapes plus a margin.
	assert.True(t, last.ContainsPoint(geom.Point{X: -900, Y: -900}))
	assert.True(t, last.ContainsPoint(geom.Point{X: 1900, Y: 1400}))
	assert.False(t, last.ContainsPoint(geom.Point{X: 5000, Y: 0}))
}

func TestReadWithoutOptionalFiles(t *testing.T) {
	files := fullFixture()
	delete(files, "stops.csv")
	delete(files, "speed_zones.geojson")
	dir := writeProtoFeedDir(t, files)

	pf, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, pf.Stops)
	assert.Nil(t, pf.SpeedZones)
}

func TestReadMissingRequiredFile(t *testing.T) {
	files := fullFixture()
	delete(files, "frequencies.csv")
	dir := writeProtoFeedDir(t, files)

	_, err := Read(dir)
	assert.Error(t, err)
}

func TestReadRejectsBadWindowTime(t *testing.T) {
	files := fullFixture()
	files["service_windows.csv"] = `service_window_id,start_time,end_time,monday,tuesday,wednesday,thursday,friday,saturday,sunday
peak,6am,09:00:00,1,1,1,1,1,0,0
weekend,08:00:00,20:00:00,0,0,0,0,0,1,1
`
	dir := writeProtoFeedDir(t, files)

	_, err := Read(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_time")
}

func TestReadRejectsDanglingShapeReference(t *testing.T) {
	files := fullFixture()
	files["frequencies.csv"] = `route_short_name,route_long_name,route_type,service_window_id,direction,frequency,shape_id,speed
10,Crosstown,3,peak,0,4,no_such_shape,30
`
	dir := writeProtoFeedDir(t, files)

	_, err := Read(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shape_id")
}

func TestValidateCollectsAllProblems(t *testing.T) {
	pf := &ProtoFeed{
		Meta: Meta{AgencyName: "X", AgencyURL: "not a url", AgencyTimezone: "UTC", StartDate: "20260101", EndDate: "20261231"},
		ServiceWindows: []ServiceWindow{
			{ID: "w", StartTime: "25:00:00", EndTime: "26:00:00", Weekdays: [7]int{1, 0, 0, 0, 0, 0, 2}},
		},
		Frequencies: []Frequency{
			{RouteShortName: "1", RouteLongName: "L", RouteType: 3, ServiceWindowID: "missing", Direction: 0, Frequency: 1, ShapeID: "none", Speed: 10},
		},
	}
	err := pf.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "start_time")
	assert.Contains(t, msg, "sunday")
	assert.Contains(t, msg, "service_window_id")
	assert.Contains(t, msg, "shape_id")
}

func TestSpeedByRouteTypeOverrides(t *testing.T) {
	pf := &ProtoFeed{Meta: Meta{SpeedOverrides: map[int]float64{3: 40}}}
	speeds := pf.SpeedByRouteType()
	assert.InDelta(t, 40, speeds[3], 1e-9)
	assert.InDelta(t, DefaultSpeedByRouteType[0], speeds[0], 1e-9)
}

func TestRouteTypes(t *testing.T) {
	pf := &ProtoFeed{
		Frequencies: []Frequency{
			{RouteType: 3}, {RouteType: 0}, {RouteType: 3}, {RouteType: 1},
		},
	}
	assert.Equal(t, []int{0, 1, 3}, pf.RouteTypes())
}

func TestShapeGeometry(t *testing.T) {
	pf := &ProtoFeed{
		Shapes: []RouteShape{
			{ShapeID: "sh1", Geometry: geom.NewLineString([]geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}})},
		},
	}
	g, ok := pf.ShapeGeometry("sh1")
	require.True(t, ok)
	assert.InDelta(t, 10, g.Length(), 1e-9)

	_, ok = pf.ShapeGeometry("missing")
	assert.False(t, ok)
}

func TestDirectionsByShape(t *testing.T) {
	pf := &ProtoFeed{
		Frequencies: []Frequency{
			{ShapeID: "a", Direction: 0},
			{ShapeID: "b", Direction: 1},
			{ShapeID: "c", Direction: 0},
			{ShapeID: "c", Direction: 1},
			{ShapeID: "d", Direction: 2},
		},
	}
	dirs := pf.DirectionsByShape()
	assert.Equal(t, 0, dirs["a"])
	assert.Equal(t, 1, dirs["b"])
	assert.Equal(t, 2, dirs["c"])
	assert.Equal(t, 2, dirs["d"])
}
