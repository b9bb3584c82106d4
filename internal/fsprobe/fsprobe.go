// Package fsprobe checks whether fsnotify works reliably for a directory.
// It performs a real create+link test to ensure link events are delivered.
package fsprobe

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Timeout bounds how long Probe waits for the link event.
var Timeout = 200 * time.Millisecond

// Result reports whether fsnotify is usable and why.
type Result struct {
	FsnotifySupported bool          // true if events are delivered
	Reason            string        // explanation when unsupported
	Latency           time.Duration // link to event delay when supported
}

func unsupported(format string, args ...any) Result {
	return Result{Reason: fmt.Sprintf(format, args...)}
}

// Probe tests whether fsnotify reliably reports hard-link creation in dir.
// The probe files are hidden and never look like snapshots.
func Probe(dir string) Result {
	st, err := os.Stat(dir)
	if err != nil {
		return unsupported("stat failed: %v", err)
	}
	if !st.IsDir() {
		return unsupported("not a directory")
	}

	tmp := filepath.Join(dir, ".fsprobe_tmp")
	link := filepath.Join(dir, ".fsprobe_link")

	// Create the source before watching so only the link can produce an event.
	if f, err := os.Create(tmp); err == nil {
		f.Close()
	} else {
		return unsupported("cannot create temp file: %v", err)
	}
	defer os.Remove(tmp)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return unsupported("fsnotify unavailable: %v", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return unsupported("cannot watch directory: %v", err)
	}

	start := time.Now()
	if err := os.Link(tmp, link); err != nil {
		return unsupported("link failed: %v", err)
	}
	defer os.Remove(link)

	timeout := time.NewTimer(Timeout)
	defer timeout.Stop()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return unsupported("events channel closed")
			}
			if filepath.Base(ev.Name) == filepath.Base(link) && ev.Has(fsnotify.Create) {
				return Result{FsnotifySupported: true, Latency: time.Since(start)}
			}
		case err := <-w.Errors:
			return unsupported("watch error: %v", err)
		case <-timeout.C:
			return unsupported("no event for link within %s", Timeout)
		}
	}
}
