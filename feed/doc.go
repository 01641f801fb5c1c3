// Package feed holds the synthesized GTFS tables in memory and writes them
// out as a directory of CSV files or a single zip archive.
//
// Times are GTFS "HH:MM:SS" strings where the hour may exceed 23 for
// service running past midnight. Coordinates are written as-is; converting
// them to the desired output coordinate system is the caller's business.
package feed
