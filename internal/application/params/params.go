// Package params parses lenient request parameters, applying defaults instead of failing.
package params

import (
	"strings"
	"time"
)

// DefaultReportWindow is how far back a report reaches when no lower bound is given.
const DefaultReportWindow = 30 * 24 * time.Hour

// dateTimeLayouts are tried in order. Layouts without a zone are read in the caller's location.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04", // HTML datetime-local
	"2006-01-02 15:04",
}

const dateLayout = "2006-01-02"

// ParseDateTime reads raw as a timestamp or a bare date.
// PRE: loc is non-nil
// POST: ok is false when raw is empty or matches no layout; dateOnly is true for a bare date
func ParseDateTime(raw string, loc *time.Location) (t time.Time, dateOnly bool, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false, false
	}
	for _, layout := range dateTimeLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return parsed, false, true
		}
	}
	if parsed, err := time.ParseInLocation(dateLayout, raw, loc); err == nil {
		return parsed, true, true
	}
	return time.Time{}, false, false
}

// ReportRange resolves the report window from optional raw bounds.
// Each bound falls back on its own: to defaults to now, from to now minus DefaultReportWindow.
// A bare date for to covers that whole day.
// PRE: loc is non-nil
// POST: Returns concrete bounds; from may be after to when the caller asks for that
func ReportRange(rawFrom, rawTo string, now time.Time, loc *time.Location) (from, to time.Time) {
	to = now
	if t, dateOnly, ok := ParseDateTime(rawTo, loc); ok {
		to = t
		if dateOnly {
			to = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
	}
	from = now.Add(-DefaultReportWindow)
	if t, _, ok := ParseDateTime(rawFrom, loc); ok {
		from = t
	}
	return from, to
}
