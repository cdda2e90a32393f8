// ABOUTME: Timestamp encoding for SQLite text columns
// ABOUTME: Fixed-width UTC so lexical order matches chronological order
package sqlite

import (
	"fmt"
	"time"
)

const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t, nil
}
