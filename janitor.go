package plinth

import (
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CleanupDir removes regular files in dir whose modification time is older
// than maxAge and reports how many were removed. Subdirectories are left
// alone. Missing dir is an error; removal errors abort the sweep.
func CleanupDir(dir string, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return removed, err
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return removed, err
		}
		removed++
	}

	return removed, nil
}

// ScheduleCleanup runs CleanupDir on a cron schedule (standard 5-field
// spec, e.g. "*/5 * * * *") and returns the started scheduler. Stop it
// during OnStop. Sweep failures are logged, not fatal.
func ScheduleCleanup(spec string, dir string, maxAge time.Duration, log *logrus.Logger) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		removed, err := CleanupDir(dir, maxAge)
		if err != nil {
			log.Errorf("Upload cleanup of %s failed: %v", dir, err)
			return
		}
		if removed > 0 {
			log.Infof("Upload cleanup removed %d stale file(s) from %s", removed, dir)
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
