package reminder

import (
	"math"
	"strconv"
	"strings"

	"github.com/at-ishikawa/linkboard/internal/clock"
)

// Mode is how a reminder was specified in a form.
type Mode string

const (
	ModeNone     Mode = "none"
	ModeMinutes  Mode = "minutes"
	ModeDatetime Mode = "datetime"
)

// Input is a raw reminder form submission.
type Input struct {
	Mode    string
	Minutes string
	At      string
}

// Parsed is the normalized reminder request. Minutes is only non-zero in minutes mode and
// At is only set in datetime mode.
type Parsed struct {
	Mode    Mode
	Minutes int
	At      *int64
}

// ParseInput resolves the reminder mode of a submission. An explicit mode wins when its value
// is usable; otherwise a valid datetime wins over positive minutes, and anything else is ModeNone.
func ParseInput(in Input) Parsed {
	minutes, minutesOK := CoerceMinutes(in.Minutes)
	minutesOK = minutesOK && minutes > 0
	at, atOK := clock.ParseTimestamp(in.At)

	switch Mode(strings.TrimSpace(in.Mode)) {
	case ModeMinutes:
		if minutesOK {
			return Parsed{Mode: ModeMinutes, Minutes: minutes}
		}
	case ModeDatetime:
		if atOK {
			return Parsed{Mode: ModeDatetime, At: &at}
		}
	}

	switch {
	case atOK:
		return Parsed{Mode: ModeDatetime, At: &at}
	case minutesOK:
		return Parsed{Mode: ModeMinutes, Minutes: minutes}
	}
	return Parsed{Mode: ModeNone}
}

// CoerceMinutes rounds a numeric string down to a non-negative integer. Blank or non-numeric
// input is reported as absent.
func CoerceMinutes(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Floor(f)
	if f < 0 {
		f = 0
	}
	if f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
