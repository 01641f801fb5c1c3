package makegtfs

import (
	"fmt"
	"strings"

	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/geom"
	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/protofeed"
)

// corridorTol absorbs point-on-edge cases so a stop sitting exactly on the
// corridor boundary, such as a shape endpoint on an end cap, still counts.
const corridorTol = 1e-9

// StopsNearby returns the stops lying within buffer distance units of the
// path on the given side, in input order. With geom.SideBoth the corridor
// spans both sides of the path. Stops on the corridor boundary are included.
func StopsNearby(stops []protofeed.Stop, path geom.LineString, side geom.Side, buffer float64) []protofeed.Stop {
	corridor := geom.BufferSide(path, side, buffer)
	var out []protofeed.Stop
	for _, s := range stops {
		if corridor.Covers(geom.Point{X: s.X, Y: s.Y}, corridorTol) {
			out = append(out, s)
		}
	}
	return out
}

// defaultStopIDs returns the pair of stop IDs derived from a shape ID, used
// when the protofeed supplies no stops of its own.
func defaultStopIDs(shapeID, sep string) [2]string {
	var ids [2]string
	for i := range ids {
		ids[i] = strings.Join([]string{"stp", shapeID, fmt.Sprintf("%d", i)}, sep)
	}
	return ids
}

// defaultStopNames returns the pair of stop names matching defaultStopIDs.
func defaultStopNames(shapeID string) [2]string {
	var names [2]string
	for i := range names {
		names[i] = fmt.Sprintf("Stop %d on shape %s", i, shapeID)
	}
	return names
}
