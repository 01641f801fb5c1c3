package feed

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Write saves the feed to the given path. A path ending in ".zip" produces a
// zip archive; any other path is treated as a directory, created if needed.
// Float columns are rounded to ndigits decimal places.
func (f *Feed) Write(path string, ndigits int) error {
	tables := f.tables(ndigits)
	if strings.HasSuffix(path, ".zip") {
		return writeZip(path, tables)
	}
	return writeDir(path, tables)
}

type table struct {
	name   string
	header []string
	rows   [][]string
}

func (f *Feed) tables(ndigits int) []table {
	ff := func(v float64) string {
		return strconv.FormatFloat(round(v, ndigits), 'f', -1, 64)
	}

	agency := table{
		name:   "agency.txt",
		header: []string{"agency_name", "agency_url", "agency_timezone"},
		rows:   [][]string{{f.Agency.Name, f.Agency.URL, f.Agency.Timezone}},
	}

	calendar := table{
		name: "calendar.txt",
		header: []string{
			"service_id", "monday", "tuesday", "wednesday", "thursday",
			"friday", "saturday", "sunday", "start_date", "end_date",
		},
	}
	for _, c := range f.Calendar {
		row := []string{c.ServiceID}
		for _, b := range c.Weekdays {
			row = append(row, strconv.Itoa(b))
		}
		row = append(row, c.StartDate, c.EndDate)
		calendar.rows = append(calendar.rows, row)
	}

	routes := table{
		name:   "routes.txt",
		header: []string{"route_id", "route_short_name", "route_long_name", "route_type"},
	}
	for _, r := range f.Routes {
		routes.rows = append(routes.rows, []string{
			r.RouteID, r.ShortName, r.LongName, strconv.Itoa(r.RouteType),
		})
	}

	shapes := table{
		name:   "shapes.txt",
		header: []string{"shape_id", "shape_pt_sequence", "shape_pt_lon", "shape_pt_lat"},
	}
	for _, sp := range f.Shapes {
		shapes.rows = append(shapes.rows, []string{
			sp.ShapeID, strconv.Itoa(sp.Sequence), ff(sp.X), ff(sp.Y),
		})
	}

	stops := table{
		name:   "stops.txt",
		header: []string{"stop_id", "stop_name", "stop_lon", "stop_lat"},
	}
	for _, s := range f.Stops {
		stops.rows = append(stops.rows, []string{s.StopID, s.StopName, ff(s.X), ff(s.Y)})
	}

	trips := table{
		name:   "trips.txt",
		header: []string{"route_id", "trip_id", "direction_id", "shape_id", "service_id"},
	}
	for _, t := range f.Trips {
		trips.rows = append(trips.rows, []string{
			t.RouteID, t.TripID, strconv.Itoa(t.DirectionID), t.ShapeID, t.ServiceID,
		})
	}

	stopTimes := table{
		name: "stop_times.txt",
		header: []string{
			"trip_id", "stop_id", "stop_sequence", "arrival_time",
			"departure_time", "shape_dist_traveled",
		},
	}
	for _, st := range f.StopTimes {
		stopTimes.rows = append(stopTimes.rows, []string{
			st.TripID, st.StopID, strconv.Itoa(st.StopSequence),
			st.ArrivalTime, st.DepartureTime, ff(st.ShapeDistTraveled),
		})
	}

	return []table{agency, calendar, routes, shapes, stops, trips, stopTimes}
}

func round(v float64, ndigits int) float64 {
	s := strconv.FormatFloat(v, 'f', ndigits, 64)
	r, _ := strconv.ParseFloat(s, 64)
	return r
}

func writeTable(w io.Writer, t table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.rows); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func writeDir(dir string, tables []table) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, t := range tables {
		f, err := os.Create(filepath.Join(dir, t.name))
		if err != nil {
			return err
		}
		if err := writeTable(f, t); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", t.name, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

func writeZip(path string, tables []table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(f)
	for _, t := range tables {
		w, err := zw.Create(t.name)
		if err != nil {
			zw.Close()
			f.Close()
			return err
		}
		if err := writeTable(w, t); err != nil {
			zw.Close()
			f.Close()
			return fmt.Errorf("writing %s: %w", t.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
