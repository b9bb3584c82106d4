// Package watcher monitors the snapshot directory and reports changes made
// by anyone, so cached directory stats can be invalidated without polling
// the whole listing.
package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/raoulx24/stats-backup/internal/config"
	"github.com/raoulx24/stats-backup/internal/fsprobe"
	"github.com/raoulx24/stats-backup/internal/logging"
)

const defaultPollInterval = 5 * time.Second

// Monitor watches one directory and invokes a single callback after each
// debounced batch of changes. Monitoring is best effort: failures to open
// the directory are logged and the monitor stays idle.
type Monitor struct {
	mu sync.Mutex

	dir      string
	mode     string
	interval time.Duration
	debounce time.Duration

	log logging.Logger

	onChange func(at time.Time)

	cancel context.CancelFunc
	done   chan struct{}
	active string
}

// New creates a monitor from the watch configuration. It does not start watching.
func New(dir string, cfg config.WatchConfig, log logging.Logger) *Monitor {
	return &Monitor{
		dir:      dir,
		mode:     cfg.Mode,
		interval: cfg.PollInterval,
		debounce: cfg.DebounceWindow,
		log:      log,
	}
}

// OnChange sets the callback. It runs on the monitor's goroutine and must
// not block; it must not call Stop either.
func (m *Monitor) OnChange(fn func(at time.Time)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Start begins watching. Calling Start on a running monitor does nothing.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return
	}

	mode := m.mode
	if mode == "auto" || mode == "" {
		res := fsprobe.Probe(m.dir)
		if res.FsnotifySupported {
			m.log.Debug("fsnotify selected", "dir", m.dir, "latency", res.Latency)
			mode = "fsnotify"
		} else {
			m.log.Warn("fsnotify disabled, polling instead", "dir", m.dir, "reason", res.Reason)
			mode = "poll"
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	switch mode {
	case "fsnotify":
		w, err := m.openFsNotify()
		if err != nil {
			cancel()
			m.log.Error("cannot monitor backup directory", "dir", m.dir, "error", err)
			return
		}
		go m.runFsNotify(ctx, w, m.debounce, done)

	case "poll":
		go m.runPolling(ctx, m.interval, m.dirModTime(), done)

	case "off":
		cancel()
		m.log.Info("backup directory monitoring disabled", "dir", m.dir)
		return

	default:
		cancel()
		m.log.Error("unknown watch mode", "mode", mode)
		return
	}

	m.cancel = cancel
	m.done = done
	m.active = mode
	m.log.Debug("monitoring backup directory", "dir", m.dir, "mode", mode)
}

// Stop cancels the watch and releases its resources. It is safe to call
// more than once and before Start.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done, m.active = nil, nil, ""
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Mode returns the strategy in use, or "" when not monitoring.
func (m *Monitor) Mode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Serve runs the monitor until ctx ends, for use under a supervisor.
func (m *Monitor) Serve(ctx context.Context) error {
	m.Start()
	<-ctx.Done()
	m.Stop()
	return ctx.Err()
}

func (m *Monitor) String() string { return "folder-monitor" }

// notify hands the change to the callback, if any.
func (m *Monitor) notify() {
	m.mu.Lock()
	fn := m.onChange
	m.mu.Unlock()

	if fn == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			m.log.Error("change callback panic", "panic", r)
		}
	}()
	fn(time.Now())
}
