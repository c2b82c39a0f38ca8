// Package timeparsing turns the time expressions accepted by --since into
// instants. Layers are tried in order and the first match wins: compact
// duration (2d, -6h, +1w), date-only, RFC3339, then English phrases
// ("yesterday", "3 days ago").
package timeparsing

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var compactRe = regexp.MustCompile(`^([+-]?)(\d+)([hdwmy])$`)

// step moves t by n units. m is months, not minutes.
var step = map[string]func(t time.Time, n int) time.Time{
	"h": func(t time.Time, n int) time.Time { return t.Add(time.Duration(n) * time.Hour) },
	"d": func(t time.Time, n int) time.Time { return t.AddDate(0, 0, n) },
	"w": func(t time.Time, n int) time.Time { return t.AddDate(0, 0, 7*n) },
	"m": func(t time.Time, n int) time.Time { return t.AddDate(0, n, 0) },
	"y": func(t time.Time, n int) time.Time { return t.AddDate(n, 0, 0) },
}

// IsCompactDuration reports whether s looks like [+-]N(h|d|w|m|y).
func IsCompactDuration(s string) bool {
	return compactRe.MatchString(s)
}

// ParseCompactDuration applies s to now. Unsigned amounts move forward.
func ParseCompactDuration(s string, now time.Time) (time.Time, error) {
	m := compactRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("not a compact duration: %q", s)
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid duration amount %q: %w", m[2], err)
	}
	if m[1] == "-" {
		n = -n
	}
	return step[m[3]](now, n), nil
}
