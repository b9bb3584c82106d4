// Package worker serializes backup triggers and dispatches them to the engine.
package worker

import (
	"context"
	"sync/atomic"

	"github.com/raoulx24/stats-backup/internal/backup"
	"github.com/raoulx24/stats-backup/internal/logging"
	"github.com/raoulx24/stats-backup/internal/mailbox"
	"github.com/raoulx24/stats-backup/internal/trigger"
)

// Engine is the part of the backup manager the worker drives.
type Engine interface {
	Backup(ctx context.Context) backup.Report
	AutoBackupForToday(ctx context.Context) bool
}

// Worker takes triggers from a mailbox and runs them one at a time.
type Worker struct {
	engine     Engine
	log        logging.Logger
	mb         *mailbox.Mailbox[trigger.Kind]
	autoBackup atomic.Bool
}

// New creates a worker. Triggers posted while a backup is running are
// merged so a pending manual request is never downgraded.
func New(engine Engine, log logging.Logger) *Worker {
	w := &Worker{
		engine: engine,
		log:    log,
		mb:     mailbox.NewMerging(trigger.Merge),
	}
	w.autoBackup.Store(true)
	return w
}

// SetAutoBackup enables or disables the automatic daily triggers.
func (w *Worker) SetAutoBackup(enabled bool) {
	w.autoBackup.Store(enabled)
}

// Submit queues a trigger. Triggers that never back up are logged and dropped.
func (w *Worker) Submit(kind trigger.Kind) {
	if kind.Action() == trigger.ActionNone {
		w.log.Info("trigger observed", "trigger", kind.String())
		return
	}
	w.log.Debug("trigger queued", "trigger", kind.String())
	w.mb.Put(kind)
}

// Serve runs the worker loop until ctx ends.
func (w *Worker) Serve(ctx context.Context) error {
	w.log.Info("starting worker")
	for {
		kind, ok := w.mb.Take(ctx)
		if !ok {
			return ctx.Err()
		}
		w.Handle(ctx, kind)
	}
}

// Handle runs a single trigger synchronously.
func (w *Worker) Handle(ctx context.Context, kind trigger.Kind) {
	switch kind.Action() {
	case trigger.ActionBackup:
		w.log.Info("backup requested", "trigger", kind.String())
		w.engine.Backup(ctx)
	case trigger.ActionAutoForToday:
		if !w.autoBackup.Load() {
			w.log.Debug("auto backup disabled", "trigger", kind.String())
			return
		}
		if !w.engine.AutoBackupForToday(ctx) {
			w.log.Warn("daily backup check skipped", "trigger", kind.String())
		}
	default:
		w.log.Info("trigger observed", "trigger", kind.String())
	}
}

func (w *Worker) String() string { return "backup-worker" }
