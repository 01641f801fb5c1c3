package makegtfs

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeToSeconds converts a GTFS "HH:MM:SS" time string to integer seconds
// past midnight. In keeping with GTFS, the hours field may exceed 23 for
// service running past midnight. Malformed strings yield an error, never a
// panic.
func TimeToSeconds(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("bad time string %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, fmt.Errorf("bad time string %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("bad time string %q", s)
	}
	sec, err := strconv.Atoi(parts[2])
	if err != nil || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("bad time string %q", s)
	}
	return h*3600 + m*60 + sec, nil
}

// SecondsToTime converts integer seconds past midnight to a GTFS "HH:MM:SS"
// string. The hours field may exceed 23.
func SecondsToTime(sec int) string {
	h := sec / 3600
	rem := sec % 3600
	return fmt.Sprintf("%02d:%02d:%02d", h, rem/60, rem%60)
}

// windowDuration returns end-start in hours. Assumes start <= end.
func windowDuration(start, end string) (float64, error) {
	a, err := TimeToSeconds(start)
	if err != nil {
		return 0, err
	}
	b, err := TimeToSeconds(end)
	if err != nil {
		return 0, err
	}
	return float64(b-a) / 3600, nil
}
