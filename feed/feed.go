package feed

// Agency is the single row of agency.txt.
type Agency struct {
	Name     string
	URL      string
	Timezone string
}

// Calendar is one row of calendar.txt.
type Calendar struct {
	ServiceID string
	// Weekdays holds Monday..Sunday activity bits.
	Weekdays  [7]int
	StartDate string
	EndDate   string
}

// Route is one row of routes.txt.
type Route struct {
	RouteID   string
	ShortName string
	LongName  string
	RouteType int
}

// Trip is one row of trips.txt.
type Trip struct {
	RouteID     string
	TripID      string
	DirectionID int
	ShapeID     string
	ServiceID   string
}

// ShapePoint is one row of shapes.txt.
type ShapePoint struct {
	ShapeID  string
	Sequence int
	X        float64
	Y        float64
}

// Stop is one row of stops.txt.
type Stop struct {
	StopID   string
	StopName string
	X        float64
	Y        float64
}

// StopTime is one row of stop_times.txt. Arrival and departure are always
// equal; no dwell time is modeled.
type StopTime struct {
	TripID            string
	StopID            string
	StopSequence      int
	ArrivalTime       string
	DepartureTime     string
	ShapeDistTraveled float64
}

// Feed gathers all the tables of a synthesized GTFS feed.
type Feed struct {
	Agency    Agency
	Calendar  []Calendar
	Routes    []Route
	Shapes    []ShapePoint
	Stops     []Stop
	Trips     []Trip
	StopTimes []StopTime
}

// DropZombies removes table rows unreachable from the stop times: trips
// without stop times, then stops, shapes, routes, and services no remaining
// row references.
func (f *Feed) DropZombies() {
	tripsWithTimes := map[string]struct{}{}
	stopsUsed := map[string]struct{}{}
	for _, st := range f.StopTimes {
		tripsWithTimes[st.TripID] = struct{}{}
		stopsUsed[st.StopID] = struct{}{}
	}

	trips := f.Trips[:0]
	shapesUsed := map[string]struct{}{}
	routesUsed := map[string]struct{}{}
	servicesUsed := map[string]struct{}{}
	for _, t := range f.Trips {
		if _, ok := tripsWithTimes[t.TripID]; !ok {
			continue
		}
		trips = append(trips, t)
		shapesUsed[t.ShapeID] = struct{}{}
		routesUsed[t.RouteID] = struct{}{}
		servicesUsed[t.ServiceID] = struct{}{}
	}
	f.Trips = trips

	stops := f.Stops[:0]
	for _, s := range f.Stops {
		if _, ok := stopsUsed[s.StopID]; ok {
			stops = append(stops, s)
		}
	}
	f.Stops = stops

	shapes := f.Shapes[:0]
	for _, sp := range f.Shapes {
		if _, ok := shapesUsed[sp.ShapeID]; ok {
			shapes = append(shapes, sp)
		}
	}
	f.Shapes = shapes

	routes := f.Routes[:0]
	for _, r := range f.Routes {
		if _, ok := routesUsed[r.RouteID]; ok {
			routes = append(routes, r)
		}
	}
	f.Routes = routes

	cal := f.Calendar[:0]
	for _, c := range f.Calendar {
		if _, ok := servicesUsed[c.ServiceID]; ok {
			cal = append(cal, c)
		}
	}
	f.Calendar = cal
}
