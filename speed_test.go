package makegtfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/geom"
	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/protofeed"
)

func TestShapePointSpeedsProfile(t *testing.T) {
	path := geom.NewLineString([]geom.Point{
		{X: 0, Y: 0}, {X: 500, Y: 0}, {X: 1000, Y: 0},
	})
	zones := []protofeed.SpeedZone{
		{
			ZoneID:    "slow",
			RouteType: 3,
			Speed:     40,
			Polygons:  []geom.Polygon{rectZone(-50, -100, 500, 100)},
		},
		catchAllZone(3),
	}

	profile := ShapePointSpeeds(map[string]geom.LineString{"sh1-0": path}, zones, 3)
	require.Len(t, profile, 5)

	// First vertex sits in the slow zone.
	assert.Equal(t, 0, profile[0].Sequence)
	assert.Equal(t, "slow", profile[0].ZoneID)
	assert.InDelta(t, 40, profile[0].Speed, 1e-9)

	// Zone edge at x=500: boundary samples sort before the vertex there.
	assert.InDelta(t, 500, profile[1].Dist, 1e-9)
	assert.Equal(t, BoundarySequence, profile[1].Sequence)
	assert.Equal(t, BoundarySequence, profile[2].Sequence)
	assert.InDelta(t, 500, profile[3].Dist, 1e-9)
	assert.Equal(t, 1, profile[3].Sequence)

	// Everything past the slow zone falls to the catch-all.
	assert.Equal(t, "default", profile[3].ZoneID)
	assert.True(t, profile[3].Speed == protofeed.UnboundedSpeed)
	assert.Equal(t, 2, profile[4].Sequence)
	assert.InDelta(t, 1000, profile[4].Dist, 1e-9)

	// Non-decreasing distances throughout.
	for i := 1; i < len(profile); i++ {
		assert.LessOrEqual(t, profile[i-1].Dist, profile[i].Dist)
	}
}

func TestShapePointSpeedsNoZonesForRouteType(t *testing.T) {
	path := geom.NewLineString([]geom.Point{{X: 0, Y: 0}, {X: 1000, Y: 0}})
	zones := []protofeed.SpeedZone{catchAllZone(3)}

	assert.Nil(t, ShapePointSpeeds(map[string]geom.LineString{"sh1-0": path}, zones, 1))
}

func TestShapePointSpeedsDropsUncoveredSamples(t *testing.T) {
	path := geom.NewLineString([]geom.Point{{X: 0, Y: 0}, {X: 1000, Y: 0}})
	// Zone covering only the first half, no catch-all.
	zones := []protofeed.SpeedZone{
		{
			ZoneID:    "half",
			RouteType: 3,
			Speed:     30,
			Polygons:  []geom.Polygon{rectZone(-50, -100, 500, 100)},
		},
	}

	profile := ShapePointSpeeds(map[string]geom.LineString{"sh1-0": path}, zones, 3)
	for _, s := range profile {
		assert.Equal(t, "half", s.ZoneID)
		assert.LessOrEqual(t, s.Dist, 500.0)
	}
}

func TestShapePointSpeedsDeterministic(t *testing.T) {
	pf := testProtoFeed()
	geoms := map[string]geom.LineString{}
	for _, s := range pf.Shapes {
		geoms[s.ShapeID+"-0"] = s.Geometry
	}
	a := ShapePointSpeeds(geoms, pf.SpeedZones, 3)
	b := ShapePointSpeeds(geoms, pf.SpeedZones, 3)
	assert.Equal(t, a, b)
}
