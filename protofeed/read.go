package protofeed

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/geom"
)

// Read loads the protofeed files in the given directory, normalizes them
// (route type and speed defaults, speed zone tidying), and validates the
// result.
func Read(dir string) (*ProtoFeed, error) {
	pf := &ProtoFeed{}

	meta, err := readMeta(filepath.Join(dir, "meta.csv"))
	if err != nil {
		return nil, fmt.Errorf("reading meta.csv: %w", err)
	}
	pf.Meta = meta

	windows, err := readServiceWindows(filepath.Join(dir, "service_windows.csv"))
	if err != nil {
		return nil, fmt.Errorf("reading service_windows.csv: %w", err)
	}
	pf.ServiceWindows = windows

	freqs, err := readFrequencies(filepath.Join(dir, "frequencies.csv"))
	if err != nil {
		return nil, fmt.Errorf("reading frequencies.csv: %w", err)
	}
	pf.Frequencies = freqs

	shapes, err := readShapes(filepath.Join(dir, "shapes.geojson"))
	if err != nil {
		return nil, fmt.Errorf("reading shapes.geojson: %w", err)
	}
	pf.Shapes = shapes

	stopsPath := filepath.Join(dir, "stops.csv")
	if _, err := os.Stat(stopsPath); err == nil {
		stops, err := readStops(stopsPath)
		if err != nil {
			return nil, fmt.Errorf("reading stops.csv: %w", err)
		}
		pf.Stops = stops
	}

	zonesPath := filepath.Join(dir, "speed_zones.geojson")
	if _, err := os.Stat(zonesPath); err == nil {
		zones, err := readSpeedZones(zonesPath)
		if err != nil {
			return nil, fmt.Errorf("reading speed_zones.geojson: %w", err)
		}
		pf.SpeedZones = zones
	}

	pf.normalize()
	if err := pf.Validate(); err != nil {
		return nil, err
	}
	return pf, nil
}

// csvTable is a parsed CSV file with header-based column access.
type csvTable struct {
	header map[string]int
	rows   [][]string
}

func readCSVTable(path string) (*csvTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	recs, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%s: empty file", filepath.Base(path))
	}
	header := make(map[string]int, len(recs[0]))
	for i, name := range recs[0] {
		header[strings.TrimSpace(strings.ToLower(name))] = i
	}
	return &csvTable{header: header, rows: recs[1:]}, nil
}

func (t *csvTable) get(row []string, col string) string {
	i, ok := t.header[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *csvTable) getInt(row []string, col string) (int, error) {
	s := t.get(row, col)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func (t *csvTable) getFloat(row []string, col string) (float64, error) {
	s := t.get(row, col)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func readMeta(path string) (Meta, error) {
	t, err := readCSVTable(path)
	if err != nil {
		return Meta{}, err
	}
	if len(t.rows) != 1 {
		return Meta{}, fmt.Errorf("expected exactly 1 row, got %d", len(t.rows))
	}
	row := t.rows[0]
	m := Meta{
		AgencyName:     t.get(row, "agency_name"),
		AgencyURL:      t.get(row, "agency_url"),
		AgencyTimezone: t.get(row, "agency_timezone"),
		StartDate:      t.get(row, "start_date"),
		EndDate:        t.get(row, "end_date"),
		SpeedOverrides: map[int]float64{},
	}
	for col := range t.header {
		if !strings.HasPrefix(col, "speed_route_type_") {
			continue
		}
		rt, err := strconv.Atoi(strings.TrimPrefix(col, "speed_route_type_"))
		if err != nil {
			continue
		}
		v, err := t.getFloat(row, col)
		if err != nil {
			return Meta{}, fmt.Errorf("column %s: %w", col, err)
		}
		if v > 0 {
			m.SpeedOverrides[rt] = v
		}
	}
	return m, nil
}

var weekdayColumns = [7]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

func readServiceWindows(path string) ([]ServiceWindow, error) {
	t, err := readCSVTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]ServiceWindow, 0, len(t.rows))
	for _, row := range t.rows {
		w := ServiceWindow{
			ID:        t.get(row, "service_window_id"),
			StartTime: t.get(row, "start_time"),
			EndTime:   t.get(row, "end_time"),
		}
		for i, col := range weekdayColumns {
			b, err := t.getInt(row, col)
			if err != nil {
				return nil, fmt.Errorf("window %s: column %s: %w", w.ID, col, err)
			}
			w.Weekdays[i] = b
		}
		out = append(out, w)
	}
	return out, nil
}

func readFrequencies(path string) ([]Frequency, error) {
	t, err := readCSVTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]Frequency, 0, len(t.rows))
	for i, row := range t.rows {
		rt, err := t.getInt(row, "route_type")
		if err != nil {
			return nil, fmt.Errorf("row %d: route_type: %w", i+1, err)
		}
		dir, err := t.getInt(row, "direction")
		if err != nil {
			return nil, fmt.Errorf("row %d: direction: %w", i+1, err)
		}
		freq, err := t.getInt(row, "frequency")
		if err != nil {
			return nil, fmt.Errorf("row %d: frequency: %w", i+1, err)
		}
		speed, err := t.getFloat(row, "speed")
		if err != nil {
			return nil, fmt.Errorf("row %d: speed: %w", i+1, err)
		}
		out = append(out, Frequency{
			RouteShortName:  t.get(row, "route_short_name"),
			RouteLongName:   t.get(row, "route_long_name"),
			RouteType:       rt,
			ServiceWindowID: t.get(row, "service_window_id"),
			Direction:       dir,
			Frequency:       freq,
			ShapeID:         t.get(row, "shape_id"),
			Speed:           speed,
		})
	}
	return out, nil
}

func readStops(path string) ([]Stop, error) {
	t, err := readCSVTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]Stop, 0, len(t.rows))
	for i, row := range t.rows {
		x, err := t.getFloat(row, "stop_lon")
		if err != nil {
			return nil, fmt.Errorf("row %d: stop_lon: %w", i+1, err)
		}
		y, err := t.getFloat(row, "stop_lat")
		if err != nil {
			return nil, fmt.Errorf("row %d: stop_lat: %w", i+1, err)
		}
		out = append(out, Stop{
			StopID:   t.get(row, "stop_id"),
			StopName: t.get(row, "stop_name"),
			X:        x,
			Y:        y,
		})
	}
	return out, nil
}

// Minimal GeoJSON decoding; only the geometry types the protofeed uses.

type geojsonFile struct {
	Features []geojsonFeature `json:"features"`
}

type geojsonFeature struct {
	Properties map[string]any  `json:"properties"`
	Geometry   geojsonGeometry `json:"geometry"`
}

type geojsonGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

func (f geojsonFeature) stringProp(key string) string {
	switch v := f.Properties[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func (f geojsonFeature) floatProp(key string) (float64, bool) {
	switch v := f.Properties[key].(type) {
	case float64:
		return v, true
	case string:
		if x, err := strconv.ParseFloat(v, 64); err == nil {
			return x, true
		}
	case nil:
		// Absent or JSON null; both mean "unset".
	}
	return 0, false
}

func decodeGeoJSON(path string) (*geojsonFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file geojsonFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

func toPoints(coords [][]float64) []geom.Point {
	pts := make([]geom.Point, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		pts = append(pts, geom.Point{X: c[0], Y: c[1]})
	}
	return pts
}

func readShapes(path string) ([]RouteShape, error) {
	file, err := decodeGeoJSON(path)
	if err != nil {
		return nil, err
	}
	out := make([]RouteShape, 0, len(file.Features))
	for i, feat := range file.Features {
		if feat.Geometry.Type != "LineString" {
			return nil, fmt.Errorf("feature %d: expected LineString, got %s", i, feat.Geometry.Type)
		}
		var coords [][]float64
		if err := json.Unmarshal(feat.Geometry.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		shapeID := feat.stringProp("shape_id")
		if shapeID == "" {
			return nil, fmt.Errorf("feature %d: missing shape_id property", i)
		}
		out = append(out, RouteShape{ShapeID: shapeID, Geometry: geom.NewLineString(toPoints(coords))})
	}
	return out, nil
}

func readSpeedZones(path string) ([]SpeedZone, error) {
	file, err := decodeGeoJSON(path)
	if err != nil {
		return nil, err
	}
	out := make([]SpeedZone, 0, len(file.Features))
	for i, feat := range file.Features {
		var polys []geom.Polygon
		switch feat.Geometry.Type {
		case "Polygon":
			var rings [][][]float64
			if err := json.Unmarshal(feat.Geometry.Coordinates, &rings); err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
			if len(rings) > 0 {
				polys = append(polys, geom.NewPolygon(toPoints(rings[0])))
			}
		case "MultiPolygon":
			var multi [][][][]float64
			if err := json.Unmarshal(feat.Geometry.Coordinates, &multi); err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
			for _, rings := range multi {
				if len(rings) > 0 {
					polys = append(polys, geom.NewPolygon(toPoints(rings[0])))
				}
			}
		default:
			return nil, fmt.Errorf("feature %d: expected Polygon or MultiPolygon, got %s", i, feat.Geometry.Type)
		}
		rt, _ := feat.floatProp("route_type")
		speed, ok := feat.floatProp("speed")
		if !ok || speed <= 0 {
			speed = UnboundedSpeed
		}
		out = append(out, SpeedZone{
			ZoneID:    feat.stringProp("zone_id"),
			RouteType: int(rt),
			Speed:     speed,
			Polygons:  polys,
		})
	}
	return out, nil
}
