package makegtfs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/feed"
	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/protofeed"
)

// TripKey identifies a synthesized trip: route, service window, window start
// time, travel direction, and the trip's index within the window. Trip IDs
// are the serialized form of this key, so stop time synthesis can recover the
// route and window of any trip from its ID alone.
type TripKey struct {
	RouteID   string
	WindowID  string
	StartTime string
	Direction int
	Index     int
}

// TripID serializes the key into a trip ID using the given separator.
func (k TripKey) TripID(sep string) string {
	return strings.Join([]string{
		"t", k.RouteID, k.WindowID, k.StartTime,
		strconv.Itoa(k.Direction), strconv.Itoa(k.Index),
	}, sep)
}

// ParseTripID parses a trip ID produced by TripKey.TripID back into its key.
func ParseTripID(id, sep string) (TripKey, error) {
	parts := strings.Split(id, sep)
	if len(parts) != 6 || parts[0] != "t" {
		return TripKey{}, fmt.Errorf("malformed trip ID %q", id)
	}
	direction, err := strconv.Atoi(parts[4])
	if err != nil {
		return TripKey{}, fmt.Errorf("malformed trip ID %q: %w", id, err)
	}
	index, err := strconv.Atoi(parts[5])
	if err != nil {
		return TripKey{}, fmt.Errorf("malformed trip ID %q: %w", id, err)
	}
	return TripKey{
		RouteID:   parts[1],
		WindowID:  parts[2],
		StartTime: parts[3],
		Direction: direction,
		Index:     index,
	}, nil
}

// DirectionShapeID returns the direction-qualified shape ID for a source
// shape. Trips and shape points must agree on this naming.
func DirectionShapeID(shapeID string, direction int, sep string) string {
	return shapeID + sep + strconv.Itoa(direction)
}

// BuildTrips expands the protofeed frequencies into trips.txt rows. Each
// frequency entry yields floor(frequency x window hours) trips per direction;
// direction 2 yields that many trips in each of directions 0 and 1. Zero
// frequencies yield no trips. Trips carry direction-qualified shape IDs.
func BuildTrips(
	pf *protofeed.ProtoFeed,
	routes []feed.Route,
	serviceByWindow map[string]string,
	sep string,
) ([]feed.Trip, error) {
	routeIDByShortName := make(map[string]string, len(routes))
	for _, r := range routes {
		routeIDByShortName[r.ShortName] = r.RouteID
	}
	windowByID := make(map[string]protofeed.ServiceWindow, len(pf.ServiceWindows))
	for _, w := range pf.ServiceWindows {
		windowByID[w.ID] = w
	}

	var trips []feed.Trip
	for _, f := range pf.Frequencies {
		if f.Frequency == 0 {
			continue
		}
		routeID, ok := routeIDByShortName[f.RouteShortName]
		if !ok {
			return nil, fmt.Errorf("frequency references unknown route %q", f.RouteShortName)
		}
		window, ok := windowByID[f.ServiceWindowID]
		if !ok {
			return nil, fmt.Errorf("frequency references unknown service window %q", f.ServiceWindowID)
		}
		service, ok := serviceByWindow[window.ID]
		if !ok {
			return nil, fmt.Errorf("no service for window %q", window.ID)
		}
		if _, ok := pf.ShapeGeometry(f.ShapeID); !ok {
			return nil, fmt.Errorf("frequency references unknown shape %q", f.ShapeID)
		}
		hours, err := windowDuration(window.StartTime, window.EndTime)
		if err != nil {
			return nil, fmt.Errorf("service window %q: %w", window.ID, err)
		}
		// Non-integral products truncate.
		numTrips := int(float64(f.Frequency) * hours)

		directions := []int{f.Direction}
		if f.Direction == 2 {
			directions = []int{0, 1}
		}
		for _, direction := range directions {
			shapeID := DirectionShapeID(f.ShapeID, direction, sep)
			for i := 0; i < numTrips; i++ {
				key := TripKey{
					RouteID:   routeID,
					WindowID:  window.ID,
					StartTime: window.StartTime,
					Direction: direction,
					Index:     i,
				}
				trips = append(trips, feed.Trip{
					RouteID:     routeID,
					TripID:      key.TripID(sep),
					DirectionID: direction,
					ShapeID:     shapeID,
					ServiceID:   service,
				})
			}
		}
	}
	return trips, nil
}
