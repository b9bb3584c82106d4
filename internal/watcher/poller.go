package watcher

import (
	"context"
	"os"
	"time"
)

// runPolling compares the directory's modification time on a fixed
// interval. Adding, linking or removing an entry changes it.
func (m *Monitor) runPolling(ctx context.Context, interval time.Duration, last time.Time, done chan struct{}) {
	defer close(done)

	if interval <= 0 {
		interval = defaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mod := m.dirModTime()
			if !mod.Equal(last) {
				last = mod
				m.notify()
			}
		}
	}
}

func (m *Monitor) dirModTime() time.Time {
	info, err := os.Stat(m.dir)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
