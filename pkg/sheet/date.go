package sheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/xuri/excelize/v2"
)

// DateLayout is the layout dates are written back out with.
const DateLayout = "2006-01-02"

// Largest serial Excel accepts (9999-12-31).
const maxSerial = 2958465

var missing = map[string]bool{
	"":     true,
	"-":    true,
	"n/a":  true,
	"na":   true,
	"nan":  true,
	"nat":  true,
	"none": true,
	"null": true,
}

// ParseDate interprets a cell as a calendar date. Numeric cells are treated as
// Excel serial dates; anything else goes through a permissive layout detector
// (month-first for ambiguous numeric dates, day-first when month-first
// cannot be a valid date). The result is in UTC. ok is false
// for blanks, missing-value markers, and anything unparseable.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if missing[strings.ToLower(s)] {
		return time.Time{}, false
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f <= 0 || f > maxSerial {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(f, false)
		if err != nil {
			return time.Time{}, false
		}
		return t.UTC(), true
	}

	t, err := dateparse.ParseIn(s, time.UTC, dateparse.RetryAmbiguousDateWithSwap(true))
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// FormatDate renders t with DateLayout, or "" when t is nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
