package dataprocessing

import "time"

// ComputeWindow returns the closed rolling interval [now - days, now].
// It is recomputed on every run; callers must not cache the result because
// "now" moves between runs.
func ComputeWindow(now time.Time, days int) (start, end time.Time) {
	return now.AddDate(0, 0, -days), now
}
