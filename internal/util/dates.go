package util

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Layouts accepted for fit dates in fitting-log workbooks. Date-only layouts
// resolve to midnight UTC. "01-02-06" is how excelize renders the built-in
// short date format.
var fitDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/06",
	"1/2/06 15:04",
	"01-02-06",
	"1-2-2006",
	"2-Jan-06",
	"2-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Excel serials outside this window are not treated as dates (1900-01-01 .. 9999-12-31).
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// ParseFitDate resolves a workbook cell into a timestamp. ok is false when the
// value is blank or matches no known format; callers fall back to the current time.
func ParseFitDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range fitDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= minExcelSerial && f <= maxExcelSerial {
		if t, err := excelize.ExcelDateToTime(f, false); err == nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}

// DateRange is a half-open [Start, EndExclusive) filter window.
type DateRange struct {
	Start        time.Time
	HasStart     bool
	EndExclusive time.Time
	HasEnd       bool
}

var ErrInvalidDate = errors.New("invalid date format (use YYYY-MM-DD or RFC3339)")

// ParseDateRange parses optional query bounds. A date-only end bound includes
// the whole day; reversed bounds are swapped.
func ParseDateRange(startStr, endStr *string) (DateRange, error) {
	var r DateRange

	start, startOK, _, err := parseBound(startStr)
	if err != nil {
		return DateRange{}, err
	}
	end, endOK, endDateOnly, err := parseBound(endStr)
	if err != nil {
		return DateRange{}, err
	}

	if startOK && endOK && end.Before(start) {
		start, end = end, start
	}

	if startOK {
		r.Start, r.HasStart = start, true
	}
	if endOK {
		if endDateOnly {
			end = end.AddDate(0, 0, 1)
		}
		r.EndExclusive, r.HasEnd = end, true
	}
	return r, nil
}

func parseBound(s *string) (t time.Time, ok bool, dateOnly bool, err error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return time.Time{}, false, false, nil
	}
	v := strings.TrimSpace(*s)

	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, true, false, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, true, true, nil
	}
	return time.Time{}, false, false, ErrInvalidDate
}
