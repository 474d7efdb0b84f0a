package clock

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Location is the zone used for datetime strings without an offset, such as the value of a
// datetime-local form input.
var Location = time.Local

var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.RFC822Z,
	"Mon Jan 2 2006 15:04:05 GMT-0700",
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04",
	"2006-01-02",
}

// ParseTimestamp turns a numeric epoch-millisecond string or a date string into epoch milliseconds.
func ParseTimestamp(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return RoundMillis(f)
	}
	// Long date strings may end with a zone name in parentheses.
	if i := strings.Index(s, " ("); i > 0 {
		s = s[:i]
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli(), true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, Location); err == nil {
			return t.UnixMilli(), true
		}
	}
	return 0, false
}

// RoundMillis rounds a numeric timestamp to an integer. NaN, infinities and values beyond
// 8.64e15 milliseconds from the epoch are rejected.
func RoundMillis(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	const maxDate = 8.64e15
	if math.Abs(f) > maxDate {
		return 0, false
	}
	return int64(math.Round(f)), true
}
