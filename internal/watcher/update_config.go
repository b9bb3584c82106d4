package watcher

import (
	"github.com/raoulx24/stats-backup/internal/config"
)

// UpdateConfig applies new watch settings for hot-reload, restarting the
// watch when it was running.
func (m *Monitor) UpdateConfig(cfg config.WatchConfig) {
	m.mu.Lock()
	changed := cfg.Mode != m.mode || cfg.PollInterval != m.interval || cfg.DebounceWindow != m.debounce
	m.mode = cfg.Mode
	m.interval = cfg.PollInterval
	m.debounce = cfg.DebounceWindow
	running := m.cancel != nil
	m.mu.Unlock()

	if changed && running {
		m.Stop()
		m.Start()
	}
}
