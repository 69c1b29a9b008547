package core

// convert.go provides parsing helpers for messy CSV cells.
//
// These functions handle the reality of exported retail data:
//   - Multiple date formats (day-first, month-first, ISO, timestamps)
//   - Currency symbols and thousand separators in numbers
//   - Excel formula prefixes (="value") and stray quotes
//
// Every Parse* function reports failure with ok=false instead of an error so
// that a bad cell degrades to "missing" and never aborts a batch.

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

// Date layouts split by ambiguity. Unambiguous layouts are always tried first.
var (
	unambiguousLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"2006-01-02 15:04:05", "2006-01-02T15:04:05", time.RFC3339,
		"2006-01-02 15:04",
		"Jan 2, 2006", "2 Jan 2006", "January 2, 2006", "2 January 2006",
		"20060102",
	}
	dayFirstLayouts = []string{
		"2/1/2006", "02/01/2006", "2-1-2006", "02-01-2006", "2.1.2006", "02.01.2006",
		"2/1/2006 15:04", "02/01/2006 15:04",
	}
	monthFirstLayouts = []string{
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"1/2/2006 15:04", "01/02/2006 15:04",
	}
	dayFirstShortLayouts = []string{
		"2/1/06", "02/01/06", "2-1-06", "2.1.06", "02.01.06",
	}
	monthFirstShortLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
)

// CleanCell removes spreadsheet export artifacts from a structured cell
// (identifier, date, number): surrounding whitespace, the Excel formula
// prefix (="..."), and surrounding quotes. Never apply it to free text.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}

// ParseDate parses a calendar date. When dayFirst is true, ambiguous numeric
// dates such as 03/04/2024 are read as 3 April; the other order is still tried
// when the preferred one cannot parse (e.g. 12/25/2024).
// The returned time is truncated to midnight UTC.
func ParseDate(s string, dayFirst bool) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	long, short := monthFirstLayouts, monthFirstShortLayouts
	altLong, altShort := dayFirstLayouts, dayFirstShortLayouts
	if dayFirst {
		long, short, altLong, altShort = altLong, altShort, long, short
	}

	for _, group := range [][]string{unambiguousLayouts, long, altLong} {
		for _, layout := range group {
			if t, err := time.Parse(layout, s); err == nil {
				return truncateDate(t), true
			}
		}
	}

	// 2-digit years with pivot adjustment
	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, group := range [][]string{short, altShort} {
		for _, layout := range group {
			t, err := time.Parse(layout, s)
			if err != nil {
				continue
			}
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return truncateDate(t), true
		}
	}

	return time.Time{}, false
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseNumeric parses a decimal number, handling currency symbols, thousands
// separators, and accounting format (parentheses for negative).
// It returns the canonical decimal text alongside the float value.
func ParseNumeric(s string) (string, float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", 0, false
	}

	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return "", 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", 0, false
	}

	s = strings.TrimPrefix(s, "+")
	if strings.HasSuffix(s, ".") {
		s = strings.TrimSuffix(s, ".")
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	} else if strings.HasPrefix(s, "-.") {
		s = "-0" + s[1:]
	}

	return s, f, true
}

// MakeHeaderIndex creates a HeaderIndex from a CSV header row.
// Keys are lowercased for case-insensitive matching.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(CleanCell(h))
		idx[key] = i
	}
	return idx
}
