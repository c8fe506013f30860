package main

import (
	"fmt"
	"strings"
	"time"
)

// whenLayouts are the absolute formats accepted by --at and --end, read in
// the child's timezone unless they carry an offset.
var whenLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

// parseWhen reads a time flag. Accepted forms:
//
//	""                 now (zero time)
//	"20m", "1h30m"     that long before now
//	"14:05"            today at that clock time, yesterday if still ahead
//	"2025-10-27 14:05" an absolute local time
//	RFC3339            an absolute time with offset
func parseWhen(s string, now time.Time, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}

	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			return time.Time{}, fmt.Errorf("invalid time %q: duration must not be negative", s)
		}
		return now.Add(-d), nil
	}

	if clock, err := time.ParseInLocation("15:04", s, loc); err == nil {
		local := now.In(loc)
		t := time.Date(local.Year(), local.Month(), local.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
		if t.After(now) {
			t = t.AddDate(0, 0, -1)
		}
		return t, nil
	}

	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid time %q (use 20m, 14:05, 2006-01-02 15:04 or RFC3339)", s)
}
