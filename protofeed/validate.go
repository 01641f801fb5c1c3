package protofeed

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9]):([0-5][0-9])$`)

// Validate checks the protofeed for structural errors: missing fields,
// malformed times, dangling references. It returns an error listing every
// problem found, or nil.
func (pf *ProtoFeed) Validate() error {
	v := validator.New()
	var problems []string

	report := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if err := v.Struct(pf.Meta); err != nil {
		report("meta: %v", err)
	}

	windowIDs := map[string]struct{}{}
	for _, w := range pf.ServiceWindows {
		if err := v.Struct(w); err != nil {
			report("service window %q: %v", w.ID, err)
		}
		if !timePattern.MatchString(w.StartTime) {
			report("service window %q: bad start_time %q", w.ID, w.StartTime)
		}
		if !timePattern.MatchString(w.EndTime) {
			report("service window %q: bad end_time %q", w.ID, w.EndTime)
		}
		for i, b := range w.Weekdays {
			if b != 0 && b != 1 {
				report("service window %q: %s must be 0 or 1", w.ID, weekdayColumns[i])
			}
		}
		if _, dup := windowIDs[w.ID]; dup {
			report("service window %q: duplicate ID", w.ID)
		}
		windowIDs[w.ID] = struct{}{}
	}

	shapeIDs := map[string]struct{}{}
	for _, s := range pf.Shapes {
		if s.ShapeID == "" {
			report("shape with empty shape_id")
			continue
		}
		if _, dup := shapeIDs[s.ShapeID]; dup {
			report("shape %q: duplicate ID", s.ShapeID)
		}
		shapeIDs[s.ShapeID] = struct{}{}
		if s.Geometry.Length() <= 0 {
			report("shape %q: zero-length geometry", s.ShapeID)
		}
	}

	for i, f := range pf.Frequencies {
		if err := v.Struct(f); err != nil {
			report("frequency row %d: %v", i+1, err)
		}
		if _, ok := windowIDs[f.ServiceWindowID]; !ok {
			report("frequency row %d: unknown service_window_id %q", i+1, f.ServiceWindowID)
		}
		if _, ok := shapeIDs[f.ShapeID]; !ok {
			report("frequency row %d: unknown shape_id %q", i+1, f.ShapeID)
		}
	}

	stopIDs := map[string]struct{}{}
	for _, s := range pf.Stops {
		if err := v.Struct(s); err != nil {
			report("stop %q: %v", s.StopID, err)
		}
		if _, dup := stopIDs[s.StopID]; dup {
			report("stop %q: duplicate ID", s.StopID)
		}
		stopIDs[s.StopID] = struct{}{}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid protofeed:\n%s", strings.Join(problems, "\n"))
	}
	return nil
}
