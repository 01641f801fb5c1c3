// Package geom provides the planar geometry primitives used by the feed
// builder: polylines with distance bookkeeping, simple polygons, corridor
// buffering, and point-on-path projection.
//
// All coordinates are assumed to live in a locally flat, distance-preserving
// coordinate system with meter units (for example a UTM zone). Reprojection
// from geographic coordinates happens before data enters this package.
//
// Geometry validity is a caller precondition. Degenerate inputs such as
// polylines with fewer than two distinct points or self-intersecting rings
// produce geometrically undefined results rather than errors.
package geom
