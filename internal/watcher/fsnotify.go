package watcher

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
)

// openFsNotify prepares a watch on the directory. Hard links show up as Create.
func (m *Monitor) openFsNotify() (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(m.dir); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

// runFsNotify forwards relevant events, coalescing bursts within the
// debounce window into one notification.
func (m *Monitor) runFsNotify(ctx context.Context, w *fsnotify.Watcher, debounce time.Duration, done chan struct{}) {
	defer close(done)
	defer w.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.Events:
			if !ok {
				m.log.Error("events channel closed")
				return
			}

			if !relevant(ev) {
				continue
			}
			m.log.Debug("event", "name", ev.Name, "op", ev.Op.String())

			if debounce <= 0 {
				m.notify()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			m.notify()

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			m.log.Error("fsnotify error", "error", err)
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) ||
		ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}
