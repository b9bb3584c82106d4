// Package snapshot names and parses the rotated backup files.
package snapshot

import (
	"path/filepath"
	"time"
)

// Entry represents a single snapshot file found in the backup directory.
type Entry struct {
	Path      string
	Name      string
	Timestamp time.Time
}

// FromName builds an Entry for name inside dir.
// It reports false when name is not a snapshot file name.
func FromName(dir, name string) (Entry, bool) {
	ts, ok := Decode(name)
	if !ok {
		return Entry{}, false
	}
	return Entry{
		Path:      filepath.Join(dir, name),
		Name:      name,
		Timestamp: ts,
	}, true
}
