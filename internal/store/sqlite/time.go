package sqlite

import (
	"fmt"
	"time"
)

// timeFormat is how timestamps are written: RFC3339 TEXT with fixed-width
// nanoseconds, always UTC, so lexical ORDER BY matches chronological order.
// The fractional part must be zero-padded (.000000000, not .9): trimmed
// trailing zeros would make "...05Z" sort after "...05.5Z".
const timeFormat = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

// parseRFC3339 parses the timestamp strings stored in SQLite.
// SQLite has no native datetime type; we store RFC3339 TEXT.
func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", s, err)
	}
	return t, nil
}
