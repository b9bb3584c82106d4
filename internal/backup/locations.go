package backup

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Location is a well-known path the application uses.
type Location struct {
	Label  string `json:"label"`
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

// Locations lists the application paths in display order.
func (m *Manager) Locations() []Location {
	paths := []struct{ label, path string }{
		{"App root", m.root},
		{"Auto backup", filepath.Join(m.root, AutoBackupDir)},
		{"SQLite", m.dir},
		{"Database", m.source},
	}

	out := make([]Location, 0, len(paths))
	for _, p := range paths {
		_, err := m.fs.Stat(p.path)
		out = append(out, Location{Label: p.label, Path: p.path, Exists: err == nil})
	}
	return out
}

// EnsureDirs creates the directory locations. The database itself is
// owned by the host and never created here.
func (m *Manager) EnsureDirs() error {
	var errs []error
	created := false
	for _, d := range []string{m.root, filepath.Join(m.root, AutoBackupDir), m.dir} {
		if _, err := m.fs.Stat(d); err == nil {
			continue
		}
		if err := m.fs.MkdirAll(d); err != nil {
			errs = append(errs, fmt.Errorf("creating %s: %w", d, err))
			continue
		}
		created = true
		m.log.Info("created folder", "path", d)
	}
	if created {
		m.cache.MarkDirty(m.now())
	}
	return errors.Join(errs...)
}
