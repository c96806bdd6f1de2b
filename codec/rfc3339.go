// Package codec converts between wire strings and time.Time for date-typed
// schema nodes.
package codec

import (
	"errors"
	"time"
)

// ErrInvalidTime is returned when no supported layout matches the input.
var ErrInvalidTime = errors.New("codec: invalid time")

// layouts are tried in order; the first successful parse wins.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseTime coerces s into a time.Time using the supported layouts.
func ParseTime(s string) (time.Time, error) {
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidTime
}

// FormatTime renders t canonically: UTC, RFC3339Nano (trailing zeros trimmed).
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
