// internal/app/system/workers/spoolcleanup.go
package workers

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SpoolCleanup is a background worker that removes abandoned upload spool
// files (left behind by crashes or killed requests).
type SpoolCleanup struct {
	dir      string
	log      *zap.Logger
	interval time.Duration
	maxAge   time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewSpoolCleanup creates a new spool cleanup worker.
//
// Parameters:
//   - dir: the upload spool directory
//   - logger: zap logger for logging
//   - interval: how often to sweep (e.g., 10 minutes)
//   - maxAge: how old a file must be before it is removed (e.g., 1 hour)
func NewSpoolCleanup(dir string, logger *zap.Logger, interval, maxAge time.Duration) *SpoolCleanup {
	return &SpoolCleanup{
		dir:      dir,
		log:      logger,
		interval: interval,
		maxAge:   maxAge,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background cleanup loop.
func (w *SpoolCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("spool cleanup worker started",
		zap.String("dir", w.dir),
		zap.Duration("interval", w.interval),
		zap.Duration("max_age", w.maxAge))
}

// Stop signals the worker to stop and waits for it to finish. Safe to call
// more than once.
func (w *SpoolCleanup) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("spool cleanup worker stopped")
	})
}

func (w *SpoolCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep removes regular files in the spool directory older than maxAge and
// returns how many were removed.
func (w *SpoolCleanup) Sweep() int {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.log.Warn("read spool dir failed", zap.String("dir", w.dir), zap.Error(err))
		return 0
	}

	cutoff := w.now().Add(-w.maxAge)
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(w.dir, e.Name())); err != nil {
			w.log.Warn("remove stale spool file failed", zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		w.log.Info("removed stale spool files", zap.Int("count", removed))
	}
	return removed
}
