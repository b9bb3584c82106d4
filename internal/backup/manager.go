// Package backup implements the rotation cycle: snapshot the source database
// as a full copy or a hard link to an identical snapshot, then enforce the
// retention bound.
package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/raoulx24/stats-backup/internal/config"
	"github.com/raoulx24/stats-backup/internal/digest"
	"github.com/raoulx24/stats-backup/internal/fs"
	"github.com/raoulx24/stats-backup/internal/logging"
	"github.com/raoulx24/stats-backup/internal/metrics"
	"github.com/raoulx24/stats-backup/internal/retention"
	"github.com/raoulx24/stats-backup/internal/snapshot"
	"github.com/raoulx24/stats-backup/internal/sourcedb"
	"github.com/raoulx24/stats-backup/internal/stats"
)

const (
	AutoBackupDir = "AutoBackups"
	SQLiteDir     = "SQLite"
)

// Manager owns the snapshot directory and its stats cache.
// Backup calls are serialized internally.
type Manager struct {
	mu sync.Mutex

	root       string
	source     string
	dir        string
	checkpoint bool
	textfile   string
	maxBackups atomic.Int64

	fs        fs.FS
	hasher    *digest.Hasher
	cache     *stats.Cache
	retention *retention.Engine
	metrics   *metrics.Metrics
	log       logging.Logger
	codec     snapshot.Codec
	now       func() time.Time
	sqlite    func(ctx context.Context, path string) (sourcedb.Result, error)
}

type Option func(*Manager)

func WithFS(f fs.FS) Option { return func(m *Manager) { m.fs = f } }

func WithMetrics(mt *metrics.Metrics) Option { return func(m *Manager) { m.metrics = mt } }

// WithClock replaces time.Now for naming snapshots and the daily check.
func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

// WithCodec sets the zone snapshot names are written in.
func WithCodec(c snapshot.Codec) Option { return func(m *Manager) { m.codec = c } }

// New builds a manager for cfg. The snapshot directory is
// <root>/AutoBackups/SQLite.
func New(cfg *config.Config, log logging.Logger, opts ...Option) (*Manager, error) {
	h, err := digest.New(cfg.Backup.Hash)
	if err != nil {
		return nil, err
	}
	if cfg.Backup.MaxBackups < 1 {
		return nil, fmt.Errorf("maxBackups must be at least 1, got %d", cfg.Backup.MaxBackups)
	}

	m := &Manager{
		root:       cfg.Root,
		source:     cfg.Source.Path,
		dir:        filepath.Join(cfg.Root, AutoBackupDir, SQLiteDir),
		checkpoint: cfg.Source.Checkpoint,
		textfile:   cfg.Metrics.Textfile,
		fs:         fs.New(),
		hasher:     h,
		log:        log,
		now:        time.Now,
		sqlite:     sourcedb.Checkpoint,
	}
	m.maxBackups.Store(int64(cfg.Backup.MaxBackups))

	for _, o := range opts {
		o(m)
	}

	m.cache = stats.NewCache(m.fs, m.dir)
	m.retention = retention.New(m.fs, log)
	m.metrics.TrackScans(m.cache.Scans)
	return m, nil
}

// Dir returns the snapshot directory.
func (m *Manager) Dir() string { return m.dir }

// MaxBackups returns the current retention bound.
func (m *Manager) MaxBackups() int { return int(m.maxBackups.Load()) }

// SetMaxBackups changes the retention bound for the next cycle.
func (m *Manager) SetMaxBackups(n int) {
	if n < 1 {
		m.log.Warn("ignoring invalid maxBackups", "maxBackups", n)
		return
	}
	m.maxBackups.Store(int64(n))
}

// MarkDirty tells the stats cache the snapshot directory changed.
func (m *Manager) MarkDirty(at time.Time) {
	m.cache.MarkDirty(at)
}

// Stats returns the snapshot directory summary.
// The error wraps stats.ErrUnavailable when the directory cannot be read.
func (m *Manager) Stats() (stats.Stats, error) {
	return m.cache.Get()
}

// AutoBackupForToday runs Backup when no snapshot exists for the current
// local calendar day. It reports false only when it could not decide.
func (m *Manager) AutoBackupForToday(ctx context.Context) bool {
	// on first launch the snapshot folder does not exist yet
	if err := m.EnsureDirs(); err != nil {
		m.log.Warn("cannot create backup folders", "error", err)
	}

	s, err := m.Stats()
	if err != nil {
		m.log.Error("cannot get backup stats", "dir", m.dir, "error", err)
		return false
	}

	if s.Latest == nil {
		if s.Count != 0 {
			return false
		}
		m.log.Info("no snapshot yet, backing up")
		m.Backup(ctx)
		return true
	}

	if !sameDay(s.Latest.Timestamp, m.now(), m.codec.Location) {
		m.log.Info("no snapshot for today, backing up", "latest", s.Latest.Name)
		m.Backup(ctx)
	}
	return true
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// Backup runs one rotation cycle. Failures are logged; the returned report
// says what happened.
func (m *Manager) Backup(ctx context.Context) Report {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := m.now()
	rep := Report{RunID: uuid.NewString(), Action: ActionFailed}
	log := withRun(m.log, rep.RunID)
	log.Info("backup started", "source", m.source, "dir", m.dir)

	prior, err := m.Stats()
	havePrior := err == nil
	if !havePrior {
		log.Warn("cannot get backup stats, retention skipped", "error", err)
	}

	defer func() {
		m.metrics.ObserveBackup(string(rep.Action), m.now().Sub(start), m.now())
		if err := m.metrics.WriteTextfile(m.textfile); err != nil {
			log.Warn("metrics export failed", "error", err)
		}
	}()

	if err := m.fs.MkdirAll(m.dir); err != nil {
		log.Error("cannot create snapshot folder", "dir", m.dir, "error", err)
		return rep
	}

	if m.checkpoint {
		m.checkpointSource(ctx, log)
	}

	dst := m.nextPath(start)
	if havePrior && prior.Latest != nil && m.hasher.Identical(m.source, prior.Latest.Path) {
		if err := m.fs.Link(ctx, prior.Latest.Path, dst); err != nil {
			log.Warn("hard link failed, copying instead", "target", prior.Latest.Path, "error", err)
		} else {
			rep.Action = ActionLinked
		}
	}

	if rep.Action != ActionLinked {
		if err := m.fs.CopyFile(ctx, m.source, dst); err != nil {
			log.Error("snapshot copy failed", "source", m.source, "dst", dst, "error", err)
		} else {
			rep.Action = ActionCopied
		}
	}

	created := rep.Action != ActionFailed
	if created {
		rep.Path = dst
		m.cache.MarkDirty(m.now())
		log.Info("snapshot created", "action", string(rep.Action), "path", dst)
	}

	if havePrior {
		m.applyRetention(log, prior, created, &rep)
	}

	return rep
}

// applyRetention enforces the bound using the stats observed before the
// snapshot was taken.
func (m *Manager) applyRetention(log logging.Logger, prior stats.Stats, created bool, rep *Report) {
	n := prior.Count
	if created {
		n++
	}
	limit := m.MaxBackups()

	switch {
	case n <= limit:
	case n == limit+1:
		if prior.Oldest == nil {
			break
		}
		switch err := m.retention.Remove(prior.Oldest.Path); {
		case err == nil:
			rep.Pruned = 1
		case !errors.Is(err, os.ErrNotExist):
			rep.PruneFailed = 1
		}
	default:
		deleted, failed, err := m.retention.Prune(m.dir, n-limit, limit)
		if err != nil {
			log.Error("retention failed", "dir", m.dir, "error", err)
		}
		rep.Pruned = deleted
		rep.PruneFailed = failed
	}

	if rep.Pruned > 0 {
		m.cache.MarkDirty(m.now())
		log.Info("retention applied", "deleted", rep.Pruned, "maxBackups", limit)
	}
	m.metrics.AddDeletions(rep.Pruned, rep.PruneFailed)
	m.metrics.SetSnapshots(n - rep.Pruned)
}

func (m *Manager) checkpointSource(ctx context.Context, log logging.Logger) {
	res, err := m.sqlite(ctx, m.source)
	if err != nil {
		log.Warn("source checkpoint failed", "source", m.source, "error", err)
		return
	}
	if res.Busy {
		log.Warn("source checkpoint incomplete, database busy", "source", m.source)
		return
	}
	log.Debug("source checkpointed", "frames", res.LogFrames, "checkpointed", res.Checkpointed)
}

// nextPath returns a snapshot path for t, moving forward one nanosecond at
// a time until the name is free.
func (m *Manager) nextPath(t time.Time) string {
	for {
		p := filepath.Join(m.dir, m.codec.FileName(t))
		if _, err := m.fs.Stat(p); err != nil {
			return p
		}
		t = t.Add(time.Nanosecond)
	}
}
