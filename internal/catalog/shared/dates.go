package shared

import (
	"fmt"
	"strings"
	"time"
)

var sinceLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseSince parses an optional lower bound for date filters. An empty value
// yields nil. Dates without zone are read as UTC.
func ParseSince(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range sinceLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q, use YYYY-MM-DD or RFC 3339", ErrInvalidDateFormat, value)
}

// DaysBetween returns the whole days elapsed from start to end.
func DaysBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start) / (24 * time.Hour))
}
