package timeparsing

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var nlp = newParser()

func newParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseNaturalLanguage parses English expressions such as "yesterday" or
// "3 days ago" relative to now.
func ParseNaturalLanguage(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}
	r, err := nlp.Parse(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("no time expression found in %q", s)
	}
	return r.Time, nil
}

// ParseRelativeTime runs every layer in order: compact duration, date-only
// (midnight in now's location), RFC3339, then natural language.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if IsCompactDuration(s) {
		return ParseCompactDuration(s, now)
	}
	if t, err := time.ParseInLocation("2006-01-02", s, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := ParseNaturalLanguage(s, now); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q (try 2d, 2025-01-20, RFC3339 or \"yesterday\")", s)
}

// ParseSince is ParseRelativeTime for lower bounds: an unsigned compact
// duration counts back from now, so "2d" means two days ago.
func ParseSince(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if IsCompactDuration(s) && !strings.HasPrefix(s, "+") && !strings.HasPrefix(s, "-") {
		s = "-" + s
	}
	return ParseRelativeTime(s, now)
}
