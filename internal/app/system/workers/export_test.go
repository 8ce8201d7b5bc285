package workers

import "time"

// SetClock replaces the worker's time source.
func (w *SpoolCleanup) SetClock(now func() time.Time) { w.now = now }
