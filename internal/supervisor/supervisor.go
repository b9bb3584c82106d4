// Package supervisor runs the long-lived services of the run command under
// a suture tree, restarting any that fail.
package supervisor

import (
	"context"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"

	"github.com/raoulx24/stats-backup/internal/logging"
)

type Config struct {
	FailureThreshold float64
	FailureDecay     float64
	FailureBackoff   time.Duration
	ShutdownTimeout  time.Duration
}

// DefaultConfig mirrors suture's own defaults.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Tree has two layers: watch (monitor, scheduler) and work (backup worker),
// so a misbehaving watcher never takes the worker down with it.
type Tree struct {
	root  *suture.Supervisor
	watch *suture.Supervisor
	work  *suture.Supervisor
}

func New(log logging.Logger, cfg Config) *Tree {
	def := DefaultConfig()
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.FailureDecay == 0 {
		cfg.FailureDecay = def.FailureDecay
	}
	if cfg.FailureBackoff == 0 {
		cfg.FailureBackoff = def.FailureBackoff
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}

	spec := suture.Spec{
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	}
	rootSpec := spec
	rootSpec.EventHook = (&sutureslog.Handler{Logger: logging.Slog(log)}).MustHook()

	t := &Tree{
		root:  suture.New("stats-backup", rootSpec),
		watch: suture.New("watch-layer", spec),
		work:  suture.New("work-layer", spec),
	}
	t.root.Add(t.watch)
	t.root.Add(t.work)
	return t
}

// AddWatch adds a service that observes the outside world.
func (t *Tree) AddWatch(svc suture.Service) suture.ServiceToken {
	return t.watch.Add(svc)
}

// AddWork adds a service that performs backups.
func (t *Tree) AddWork(svc suture.Service) suture.ServiceToken {
	return t.work.Add(svc)
}

// ServeBackground starts the tree and returns a channel with its final error.
func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}
