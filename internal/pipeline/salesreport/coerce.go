package salesreport

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// parseNumber parses a spreadsheet cell as a float. Thousands separators and
// surrounding spaces are tolerated; anything else is a failure.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// toFloat coerces a cell to a number, 0 when unparsable.
func toFloat(s string) float64 {
	f, _ := parseNumber(s)
	return f
}

// toInt coerces a cell to an integer identifier, 0 when unparsable.
// Fractions are truncated, so "1001.0" reads as 1001.
func toInt(s string) int64 {
	f, ok := parseNumber(s)
	if !ok {
		return 0
	}
	return int64(f)
}

// negate flips the sign without producing a negative zero.
func negate(v float64) float64 {
	if v == 0 {
		return 0
	}
	return -v
}

// product multiplies without producing a negative zero.
func product(a, b float64) float64 {
	if v := a * b; v != 0 {
		return v
	}
	return 0
}

var floatArtifact = regexp.MustCompile(`^(-?\d+)\.0+$`)

// normalizeKey prepares a string join key. Numeric identifiers that went
// through a float column ("12345.0") are folded back to their integer text.
func normalizeKey(s string) string {
	s = strings.TrimSpace(s)
	if m := floatArtifact.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-1-2",
	"2006/1/2",
	"2006.01.02",
	"20060102",
	"01-02-06",
}

// parseDate reads a date cell. Text dates in the common ERP layouts and raw
// Excel serial numbers are accepted.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < 2958466 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dateOnly drops the clock so range checks compare calendar days.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// numericOrText returns a float for cells that are plain numbers, so they are
// written back as numbers, and the original text otherwise. Identifiers with
// leading zeros stay text.
func numericOrText(s string) any {
	t := strings.TrimSpace(s)
	if t == "" {
		return ""
	}
	if len(t) > 1 && t[0] == '0' && t[1] != '.' {
		return s
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return s
	}
	return f
}
