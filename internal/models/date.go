package models

import (
	"fmt"
	"time"
)

// DateFormat is the wire format for snapshot dates.
const DateFormat = "2006-01-02"

// Day truncates t to midnight UTC. Snapshot dates carry no time-of-day
// semantics, so every date is normalized before it is stored or compared.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO date (YYYY-MM-DD) into a normalized day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want %s: %w", s, DateFormat, err)
	}
	return Day(t), nil
}
