package makegtfs

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/config"
	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/feed"
	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/geom"
	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/protofeed"
)

// Builder turns a protofeed into a GTFS feed.
type Builder struct {
	cfg     config.AppConfig
	traffic TrafficSides
	log     *slog.Logger
	cache   *stopTimesCache
}

// BuilderOption customizes a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the builder's logger.
func WithLogger(log *slog.Logger) BuilderOption {
	return func(b *Builder) { b.log = log }
}

// WithTrafficSides overrides the built-in traffic side table.
func WithTrafficSides(t TrafficSides) BuilderOption {
	return func(b *Builder) { b.traffic = t }
}

// NewBuilder returns a Builder with the given configuration.
func NewBuilder(cfg config.AppConfig, opts ...BuilderOption) *Builder {
	b := &Builder{
		cfg:     cfg,
		traffic: DefaultTrafficSides(),
		log:     nopLogger(),
		cache:   newStopTimesCache(defaultCacheSize),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// BuildAgency returns the agency.txt row.
func BuildAgency(pf *protofeed.ProtoFeed) feed.Agency {
	return feed.Agency{
		Name:     pf.Meta.AgencyName,
		URL:      pf.Meta.AgencyURL,
		Timezone: pf.Meta.AgencyTimezone,
	}
}

// BuildCalendar returns the calendar.txt rows plus the service ID of each
// service window. Windows with identical weekday bits share a service.
func BuildCalendar(pf *protofeed.ProtoFeed) ([]feed.Calendar, map[string]string) {
	serviceByWindow := make(map[string]string, len(pf.ServiceWindows))
	seen := map[string]struct{}{}
	var cal []feed.Calendar
	for _, w := range pf.ServiceWindows {
		sid := serviceID(w.Weekdays)
		serviceByWindow[w.ID] = sid
		if _, ok := seen[sid]; ok {
			continue
		}
		seen[sid] = struct{}{}
		cal = append(cal, feed.Calendar{
			ServiceID: sid,
			Weekdays:  w.Weekdays,
			StartDate: pf.Meta.StartDate,
			EndDate:   pf.Meta.EndDate,
		})
	}
	return cal, serviceByWindow
}

// serviceID derives a service ID from weekday activity bits, so equal
// weekday patterns map to the same service.
func serviceID(weekdays [7]int) string {
	var sb strings.Builder
	sb.WriteString("srv")
	for _, bit := range weekdays {
		sb.WriteString(strconv.Itoa(bit))
	}
	return sb.String()
}

// BuildRoutes returns the routes.txt rows, one per distinct route short name
// in the frequencies.
func BuildRoutes(pf *protofeed.ProtoFeed) []feed.Route {
	seen := map[string]struct{}{}
	var routes []feed.Route
	for _, f := range pf.Frequencies {
		if _, ok := seen[f.RouteShortName]; ok {
			continue
		}
		seen[f.RouteShortName] = struct{}{}
		routes = append(routes, feed.Route{
			RouteID:   "r" + f.RouteShortName,
			ShortName: f.RouteShortName,
			LongName:  f.RouteLongName,
			RouteType: f.RouteType,
		})
	}
	return routes
}

// BuildShapes returns the shapes.txt rows and the geometry of each emitted
// shape, keyed by its direction-qualified ID. Only shapes referenced by the
// frequencies are emitted; shapes traversed in both directions get a forward
// and a reversed copy.
func BuildShapes(pf *protofeed.ProtoFeed, sep string) ([]feed.ShapePoint, map[string]geom.LineString) {
	directions := pf.DirectionsByShape()
	var points []feed.ShapePoint
	geoms := map[string]geom.LineString{}

	emit := func(shapeID string, l geom.LineString) {
		geoms[shapeID] = l
		for i := 0; i < l.NumPoints(); i++ {
			p := l.Point(i)
			points = append(points, feed.ShapePoint{
				ShapeID:  shapeID,
				Sequence: i,
				X:        p.X,
				Y:        p.Y,
			})
		}
	}

	for _, s := range pf.Shapes {
		direction, ok := directions[s.ShapeID]
		if !ok {
			continue
		}
		if direction == 2 {
			emit(DirectionShapeID(s.ShapeID, 0, sep), s.Geometry)
			emit(DirectionShapeID(s.ShapeID, 1, sep), s.Geometry.Reverse())
			continue
		}
		emit(DirectionShapeID(s.ShapeID, direction, sep), s.Geometry)
	}
	return points, geoms
}

// BuildStops returns the stops.txt rows. Supplied protofeed stops pass
// through unchanged; otherwise one stop is created at each end of every
// built shape, dropping duplicate locations (a loop shape yields one stop).
func BuildStops(pf *protofeed.ProtoFeed, shapeGeoms map[string]geom.LineString, sep string) []feed.Stop {
	if pf.Stops != nil {
		stops := make([]feed.Stop, len(pf.Stops))
		for i, s := range pf.Stops {
			stops[i] = feed.Stop{StopID: s.StopID, StopName: s.StopName, X: s.X, Y: s.Y}
		}
		return stops
	}

	shapeIDs := make([]string, 0, len(shapeGeoms))
	for id := range shapeGeoms {
		shapeIDs = append(shapeIDs, id)
	}
	sort.Strings(shapeIDs)

	seen := map[geom.Point]struct{}{}
	var stops []feed.Stop
	for _, shapeID := range shapeIDs {
		l := shapeGeoms[shapeID]
		ids := defaultStopIDs(shapeID, sep)
		names := defaultStopNames(shapeID)
		ends := [2]geom.Point{l.Point(0), l.Point(l.NumPoints() - 1)}
		for i, p := range ends {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			stops = append(stops, feed.Stop{
				StopID:   ids[i],
				StopName: names[i],
				X:        p.X,
				Y:        p.Y,
			})
		}
	}
	return stops
}

// BuildFeed converts the protofeed into a complete GTFS feed, with distances
// in meters, and prunes rows no stop time reaches.
func (b *Builder) BuildFeed(pf *protofeed.ProtoFeed) (*feed.Feed, error) {
	agency := BuildAgency(pf)
	calendar, serviceByWindow := BuildCalendar(pf)
	routes := BuildRoutes(pf)
	shapePoints, shapeGeoms := BuildShapes(pf, b.cfg.Separator)
	stops := BuildStops(pf, shapeGeoms, b.cfg.Separator)

	trips, err := BuildTrips(pf, routes, serviceByWindow, b.cfg.Separator)
	if err != nil {
		return nil, fmt.Errorf("building trips: %w", err)
	}
	b.log.Info("built trips", "count", len(trips), "routes", len(routes))

	stopTimes, err := b.BuildStopTimes(pf, routes, shapeGeoms, stops, trips)
	if err != nil {
		return nil, fmt.Errorf("building stop times: %w", err)
	}
	b.log.Info("built stop times", "count", len(stopTimes))

	f := &feed.Feed{
		Agency:    agency,
		Calendar:  calendar,
		Routes:    routes,
		Shapes:    shapePoints,
		Stops:     stops,
		Trips:     trips,
		StopTimes: stopTimes,
	}
	f.DropZombies()
	return f, nil
}
