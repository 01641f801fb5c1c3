package makegtfs

import (
	"fmt"
	"math"
	"sort"

	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/feed"
	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/geom"
	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/protofeed"
)

// kphToMps converts km/h to m/s.
const kphToMps = 1000.0 / 3600.0

// stopTimeRow is one stop of a stop time template: the stop, its distance
// along the shape in meters, and its arrival in seconds from trip start.
type stopTimeRow struct {
	StopID  string
	Dist    float64
	Arrival float64
}

// stopTimesForTrip computes the stop time template of a trip departing at
// second zero: the stops in encounter order along the path with
// distance-weighted travel times between them.
//
// Stop speeds come from the first speed zone containing them; stops in no
// zone are dropped. The speed profile samples (already restricted to this
// shape) carve the path into constant-speed segments; the unbounded speed
// sentinel falls back to defaultSpeed. Distances are in meters, speeds in
// km/h.
func stopTimesForTrip(
	stopsNearby []protofeed.Stop,
	path geom.LineString,
	zones []protofeed.SpeedZone,
	profile []SpeedSample,
	defaultSpeed float64,
) []stopTimeRow {
	type sample struct {
		stopID string
		dist   float64
		speed  float64 // m/s
	}

	// Project the stops onto the path and assign zone speeds.
	var merged []sample
	for _, s := range stopsNearby {
		zone, ok := firstContainingZone(zones, geom.Point{X: s.X, Y: s.Y})
		if !ok {
			continue
		}
		merged = append(merged, sample{
			stopID: s.StopID,
			dist:   path.Project(geom.Point{X: s.X, Y: s.Y}),
			speed:  zone.Speed * kphToMps,
		})
	}
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].dist < merged[j].dist })

	for _, p := range profile {
		merged = append(merged, sample{dist: p.Dist, speed: p.Speed * kphToMps})
	}
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].dist < merged[j].dist })

	defaultMps := defaultSpeed * kphToMps
	for i := range merged {
		if math.IsInf(merged[i].speed, 1) {
			merged[i].speed = defaultMps
		}
	}

	// Piecewise integration of travel time over distance: each merged
	// segment is traversed at the speed holding at its start, so a slow
	// zone costs its full share of time no matter how the samples fall.
	elapsed := make([]float64, len(merged))
	for i := 1; i < len(merged); i++ {
		seg := merged[i].dist - merged[i-1].dist
		dt := 0.0
		if seg > 0 && merged[i-1].speed > 0 {
			dt = seg / merged[i-1].speed
		}
		elapsed[i] = elapsed[i-1] + dt
	}

	// Keep the stops; the time between successive stops is the elapsed
	// travel time between their positions along the path.
	var rows []stopTimeRow
	var prev float64
	var clock float64
	for i, m := range merged {
		if m.stopID == "" {
			continue
		}
		if len(rows) > 0 {
			clock += elapsed[i] - prev
		}
		rows = append(rows, stopTimeRow{StopID: m.stopID, Dist: m.dist, Arrival: clock})
		prev = elapsed[i]
	}
	return rows
}

// BuildStopTimes synthesizes stop_times.txt rows for the given trips. Trips
// whose shape has no stops within the buffer get no rows. Stop time
// templates are cached per (route type, shape, speed) group and shifted by
// each trip's start offset; the cache is purged before returning.
func (b *Builder) BuildStopTimes(
	pf *protofeed.ProtoFeed,
	routes []feed.Route,
	shapeGeoms map[string]geom.LineString,
	stops []feed.Stop,
	trips []feed.Trip,
) ([]feed.StopTime, error) {
	defer b.cache.purge()

	shortNameByRouteID := make(map[string]string, len(routes))
	for _, r := range routes {
		shortNameByRouteID[r.RouteID] = r.ShortName
	}
	candidates := make([]protofeed.Stop, len(stops))
	for i, s := range stops {
		candidates[i] = protofeed.Stop{StopID: s.StopID, StopName: s.StopName, X: s.X, Y: s.Y}
	}
	side := b.traffic.Side(pf.Meta.AgencyTimezone)

	// Group trips by (route type, qualified shape, speed): every trip of a
	// group shares a stop time template.
	type groupKey struct {
		routeType int
		shapeID   string
		speed     float64
	}
	groups := map[groupKey][]groupTrip{}
	for _, t := range trips {
		key, err := ParseTripID(t.TripID, b.cfg.Separator)
		if err != nil {
			return nil, err
		}
		freq, ok := lookupFrequency(pf, shortNameByRouteID[t.RouteID], key.WindowID, t.DirectionID)
		if !ok {
			return nil, fmt.Errorf("no frequency for trip %q", t.TripID)
		}
		speed := freq.Speed
		if speed == 0 {
			// Normalization leaves the speed unresolved for route types
			// outside the default table; fall back to the configured speed.
			speed = b.cfg.DefaultSpeed
		}
		gk := groupKey{routeType: freq.RouteType, shapeID: t.ShapeID, speed: speed}
		groups[gk] = append(groups[gk], groupTrip{trip: t, key: key, frequency: freq.Frequency})
	}
	keys := make([]groupKey, 0, len(groups))
	for gk := range groups {
		keys = append(keys, gk)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, c := keys[i], keys[j]
		if a.routeType != c.routeType {
			return a.routeType < c.routeType
		}
		if a.shapeID != c.shapeID {
			return a.shapeID < c.shapeID
		}
		return a.speed < c.speed
	})

	// One speed profile per route type in the protofeed; groups share them.
	routeTypes := pf.RouteTypes()
	profiles := make(map[int][]SpeedSample, len(routeTypes))
	for _, rt := range routeTypes {
		profiles[rt] = ShapePointSpeeds(shapeGeoms, pf.SpeedZones, rt)
	}
	var out []feed.StopTime
	for _, gk := range keys {
		path, ok := shapeGeoms[gk.shapeID]
		if !ok {
			return nil, fmt.Errorf("no geometry for shape %q", gk.shapeID)
		}
		nearby := StopsNearby(candidates, path, side, b.cfg.Buffer)
		if len(nearby) == 0 {
			b.log.Debug("no stops near shape, skipping", "shape_id", gk.shapeID)
			continue
		}
		var profile []SpeedSample
		for _, s := range profiles[gk.routeType] {
			if s.ShapeID == gk.shapeID {
				profile = append(profile, s)
			}
		}
		zones := pf.ZonesForRouteType(gk.routeType)

		ck := templateKey(gk.shapeID, path, nearby, gk.routeType, profile, gk.speed)
		template, hit := b.cache.get(ck)
		if !hit {
			template = stopTimesForTrip(nearby, path, zones, profile, gk.speed)
			b.cache.put(ck, template)
		}
		b.log.Debug("stop time template",
			"shape_id", gk.shapeID, "route_type", gk.routeType,
			"stops", len(template), "cache_hit", hit)

		for _, gt := range groups[gk] {
			if gt.frequency == 0 {
				continue
			}
			base, err := TimeToSeconds(gt.key.StartTime)
			if err != nil {
				return nil, fmt.Errorf("trip %q: %w", gt.trip.TripID, err)
			}
			headway := 3600.0 / float64(gt.frequency)
			start := float64(base) + headway*float64(gt.key.Index)
			for seq, r := range template {
				t := SecondsToTime(int(math.Round(start + r.Arrival)))
				out = append(out, feed.StopTime{
					TripID:            gt.trip.TripID,
					StopID:            r.StopID,
					StopSequence:      seq,
					ArrivalTime:       t,
					DepartureTime:     t,
					ShapeDistTraveled: math.Round(r.Dist),
				})
			}
		}
	}
	return out, nil
}

type groupTrip struct {
	trip      feed.Trip
	key       TripKey
	frequency int
}

// lookupFrequency finds the frequency row behind a trip. A row with
// direction 2 covers trips in either direction.
func lookupFrequency(pf *protofeed.ProtoFeed, shortName, windowID string, direction int) (protofeed.Frequency, bool) {
	for _, f := range pf.Frequencies {
		if f.RouteShortName != shortName || f.ServiceWindowID != windowID {
			continue
		}
		if f.Direction == direction || f.Direction == 2 {
			return f, true
		}
	}
	return protofeed.Frequency{}, false
}
