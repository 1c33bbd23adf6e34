package models

import "time"

// TimestampLayout is the ISO-8601 form written into artifacts.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Bookkeeping is the patch a successful run applies to the sync config.
type Bookkeeping struct {
	LastSyncedAt     time.Time
	LastFigmaVersion string
}
