// Package protofeed reads and validates the compact route specification
// from which a GTFS feed is synthesized: network metadata, service windows,
// route frequencies, path geometries, and optional stops and speed zones.
//
// A protofeed directory contains:
//
//   - meta.csv: agency name/URL/timezone, feed validity dates, and optional
//     speed_route_type_<k> columns overriding the default speed per GTFS
//     route type
//   - service_windows.csv: service_window_id, start_time, end_time (HH:MM:SS)
//     and seven weekday activity columns
//   - frequencies.csv: route_short_name, route_long_name, route_type,
//     service_window_id, direction (0, 1, or 2), frequency (vehicles/hour),
//     shape_id, optional speed (km/h)
//   - shapes.geojson: LineString features with a shape_id property
//   - stops.csv (optional): stop_id, stop_name, stop_lon, stop_lat
//   - speed_zones.geojson (optional): Polygon/MultiPolygon features with
//     zone_id, route_type, and speed properties
//
// Geometry coordinates must already be in a locally flat, meter-based
// coordinate system; this package performs no reprojection.
package protofeed
