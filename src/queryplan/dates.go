package queryplan

import (
	"fmt"
	"time"
)

// ParseFrom parses a lower range bound: RFC3339, or a bare date taken as the
// start of that day UTC. Empty input means no bound.
func ParseFrom(s string) (*time.Time, error) {
	return parseBound(s, false)
}

// ParseTo parses an upper range bound: RFC3339, or a bare date taken as the
// end of that day UTC, keeping the bound inclusive.
func ParseTo(s string) (*time.Time, error) {
	return parseBound(s, true)
}

func parseBound(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC3339", s)
	}
	t = t.UTC()
	if endOfDay {
		// Last instant of the day, so the inclusive bound keeps records
		// timestamped within the final second.
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}
