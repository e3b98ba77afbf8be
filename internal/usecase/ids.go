package usecase

import (
	"strconv"
	"time"
)

// timestampID returns now in unix milliseconds, bumped past any taken value.
func timestampID(now time.Time, taken func(string) bool) string {
	n := now.UnixMilli()
	for {
		id := strconv.FormatInt(n, 10)
		if !taken(id) {
			return id
		}
		n++
	}
}

// nextAfter returns now, or prev plus a millisecond when the clock has not
// moved past prev.
func nextAfter(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Millisecond)
}
