package pkg

import (
	"fmt"
	"strings"
	"time"
)

// ParseTimestamp parses timestamps as the fitness platforms send them:
// RFC 3339 (with or without the trailing Z), or a plain
// "YYYY-MM-DD HH:MM:SS" which Garmin uses for some fields (taken as UTC).
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	if t, err := time.Parse("2006-01-02T15:04:05", value); err == nil {
		return t.UTC(), nil
	}

	if t, err := time.Parse("2006-01-02 15:04:05", value); err == nil {
		return t.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("unsupported timestamp format: %q", value)
}

// ParseDate parses a plain YYYY-MM-DD date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("unsupported date format: %q", value)
	}
	return t, nil
}
