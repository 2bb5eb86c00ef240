package datecalc

import (
	"fmt"
	"time"
)

// DateLayout is the ISO 8601 calendar date format trips are entered in.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO date. The empty string is not a date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// Days returns the inclusive number of calendar days from start to end.
// ok is false if either date is missing or malformed, or end precedes start.
func Days(start, end string) (days int, ok bool) {
	s, err := ParseDate(start)
	if err != nil {
		return 0, false
	}
	e, err := ParseDate(end)
	if err != nil {
		return 0, false
	}
	if e.Before(s) {
		return 0, false
	}
	return int(e.Sub(s).Hours()/24) + 1, true
}

// FormatDays formats a day count like "1 day" or "10 days".
func FormatDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// FormatSpan renders "start – end", adding the trip length when both dates
// parse. Missing dates are shown as "?".
func FormatSpan(start, end string) string {
	if start == "" {
		start = "?"
	}
	if end == "" {
		end = "?"
	}
	span := fmt.Sprintf("%s – %s", start, end)
	if n, ok := Days(start, end); ok {
		span += fmt.Sprintf(" (%s)", FormatDays(n))
	}
	return span
}
