// Package makegtfs synthesizes a complete GTFS feed from a protofeed: named
// routes with directional frequencies, service windows, path geometries, and
// optional speed zones.
//
// The heart of the package is the schedule synthesis pipeline:
//
//   - BuildTrips expands frequency specifications into discrete trips with
//     composite identifiers.
//   - StopsNearby locates the candidate stops a directional path serves,
//     on the traffic side of the street for the feed's timezone.
//   - ShapePointSpeeds builds a distance-ordered speed profile for a path
//     from speed-zone overlays.
//   - BuildStopTimes converts profiles and stop sets into concrete,
//     monotonically ordered arrival/departure times via distance-weighted
//     speed integration, memoizing the per-group computation so trips that
//     differ only by start time share one template.
//
// BuildFeed ties the pipeline together with the surrounding table builders
// (agency, calendar, routes, shapes, stops) and returns a feed.Feed ready to
// write.
package makegtfs
