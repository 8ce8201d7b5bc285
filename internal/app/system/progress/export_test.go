package progress

import "time"

// NewTrackerWithClock exposes the clock seam to tests.
func NewTrackerWithClock(bus *Bus, file string, total int64, now func() time.Time) *Tracker {
	return newTracker(bus, file, total, now)
}
