package domain

import "time"

// Epoch is the game time origin. Join times and queue scores are whole
// seconds relative to this instant, not the Unix epoch.
var Epoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// SecondsSinceEpoch converts t to whole seconds since the game epoch.
func SecondsSinceEpoch(t time.Time) int64 {
	return int64(t.Sub(Epoch) / time.Second)
}

// Now returns the current time as seconds since the game epoch.
func Now() int64 {
	return SecondsSinceEpoch(time.Now())
}
