// Package stats derives aggregate information about the snapshot directory
// and caches it until the directory changes.
package stats

import (
	"errors"
	"fmt"
	"strings"

	"github.com/raoulx24/stats-backup/internal/fs"
	"github.com/raoulx24/stats-backup/internal/snapshot"
)

// ErrUnavailable is returned when the snapshot directory cannot be listed.
// It is distinct from an empty directory.
var ErrUnavailable = errors.New("backup stats unavailable")

// Stats summarizes the snapshots present at scan time.
// Latest and Oldest are nil when Count is zero.
type Stats struct {
	Count  int
	Latest *snapshot.Entry
	Oldest *snapshot.Entry
}

// Scan lists dir without descending into subdirectories and folds the
// snapshot files it finds. Files that are not snapshots are ignored.
func Scan(f fs.FS, dir string) (Stats, error) {
	entries, err := f.ReadDir(dir)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: reading %s: %w", ErrUnavailable, dir, err)
	}

	var s Stats
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || !e.Type().IsRegular() {
			continue
		}

		entry, ok := snapshot.FromName(dir, name)
		if !ok {
			continue
		}

		if s.Latest == nil || entry.Timestamp.After(s.Latest.Timestamp) {
			latest := entry
			s.Latest = &latest
		}
		if s.Oldest == nil || entry.Timestamp.Before(s.Oldest.Timestamp) {
			oldest := entry
			s.Oldest = &oldest
		}
		s.Count++
	}

	return s, nil
}
