// Package retention deletes the oldest snapshots once the rotation bound is exceeded.
package retention

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/raoulx24/stats-backup/internal/fs"
	"github.com/raoulx24/stats-backup/internal/logging"
	"github.com/raoulx24/stats-backup/internal/snapshot"
)

type Engine struct {
	fs  fs.FS
	log logging.Logger
}

func New(f fs.FS, log logging.Logger) *Engine {
	return &Engine{fs: f, log: log}
}

// candidate is a snapshot file with its filesystem creation time.
type candidate struct {
	path    string
	created time.Time
	stamp   time.Time
}

// Prune deletes up to count snapshot files from dir, oldest first, but
// never leaves fewer than keep. The count comes from an earlier scan, so
// the floor stops a stale count from eating into the newest snapshots.
//
// Age is the filesystem creation time, not the name, so a snapshot with a
// misleading name still rotates out in arrival order. Hard links share the
// creation time of the inode they point at; ties fall back to the name.
// Individual delete failures are logged, counted and skipped; files that
// are already gone count as neither.
func (e *Engine) Prune(dir string, count, keep int) (deleted, failed int, err error) {
	if count <= 0 {
		return 0, 0, nil
	}

	candidates, err := e.scan(dir)
	if err != nil {
		return 0, 0, err
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if !a.created.Equal(b.created) {
			return a.created.Before(b.created)
		}
		return a.stamp.Before(b.stamp)
	})

	count = min(count, len(candidates)-max(keep, 0))
	for _, c := range candidates[:max(count, 0)] {
		switch err := e.Remove(c.path); {
		case err == nil:
			deleted++
		case !errors.Is(err, os.ErrNotExist):
			failed++
		}
	}
	return deleted, failed, nil
}

// Remove deletes a single snapshot file. A file that is already gone
// returns an error wrapping os.ErrNotExist.
func (e *Engine) Remove(path string) error {
	if err := e.fs.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			e.log.Debug("retention: snapshot already gone", "path", path)
		} else {
			e.log.Error("retention: cannot delete snapshot", "path", path, "error", err)
		}
		return err
	}
	e.log.Info("retention: deleted snapshot", "path", path)
	return nil
}

// scan finds snapshot files in dir together with their creation times.
func (e *Engine) scan(dir string) ([]candidate, error) {
	entries, err := e.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading folder: %w", err)
	}

	var out []candidate
	for _, ent := range entries {
		name := ent.Name()
		if strings.HasPrefix(name, ".") || !ent.Type().IsRegular() {
			continue
		}

		entry, ok := snapshot.FromName(dir, name)
		if !ok {
			continue
		}

		info, err := e.fs.Stat(entry.Path)
		if err != nil {
			e.log.Warn("retention: stat failed", "path", entry.Path, "error", err)
			continue
		}

		out = append(out, candidate{
			path:    entry.Path,
			created: info.Birth,
			stamp:   entry.Timestamp,
		})
	}

	return out, nil
}
