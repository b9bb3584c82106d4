package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/raoulx24/stats-backup/internal/config"
	"github.com/raoulx24/stats-backup/internal/supervisor"
	"github.com/raoulx24/stats-backup/internal/trigger"
	"github.com/raoulx24/stats-backup/internal/watcher"
	"github.com/raoulx24/stats-backup/internal/worker"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Stay resident and back up on launch, daily and on signals",
		Long: `Run as a long-lived host. A launch check runs immediately and the
daily check follows backup.dailyCheck. Signals:
  SIGUSR1          manual backup
  SIGUSR2          unlock check (backs up if today has no snapshot)
  SIGHUP           reload retention, log level and watch settings
  SIGINT, SIGTERM  final backup, then exit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sigs := make(chan os.Signal, 4)
			signal.Notify(sigs, hostSignals...)
			defer signal.Stop(sigs)

			return a.run(cmd.Context(), sigs)
		},
	}
}

// host is the set of services run wires together.
type host struct {
	monitor *watcher.Monitor
	worker  *worker.Worker
	tree    *supervisor.Tree
}

func (a *app) newHost() (*host, error) {
	h := &host{
		monitor: watcher.New(a.manager.Dir(), a.cfg.Watch, a.log),
		worker:  worker.New(a.manager, a.log),
		tree:    supervisor.New(a.log, supervisor.DefaultConfig()),
	}
	h.worker.SetAutoBackup(a.cfg.Backup.AutoBackup)
	h.monitor.OnChange(a.manager.MarkDirty)

	h.tree.AddWatch(h.monitor)
	if spec := a.cfg.Backup.DailyCheck; spec != "" {
		sched, err := trigger.NewScheduler(spec, h.worker.Submit, a.log)
		if err != nil {
			return nil, err
		}
		h.tree.AddWatch(sched)
	}
	h.tree.AddWork(h.worker)
	return h, nil
}

func (a *app) run(ctx context.Context, sigs <-chan os.Signal) error {
	if err := a.manager.EnsureDirs(); err != nil {
		a.log.Warn("cannot create backup folders", "error", err)
	}

	h, err := a.newHost()
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	svcCtx, stop := context.WithCancel(ctx)
	defer stop()
	done := h.tree.ServeBackground(svcCtx)

	a.log.Info("stats-backup running", "dir", a.manager.Dir(), "watch", a.cfg.Watch.Mode)
	h.worker.Submit(trigger.Launch)

	for {
		select {
		case sig := <-sigs:
			switch classify(sig) {
			case signalManual:
				h.worker.Submit(trigger.Manual)
			case signalUnlock:
				h.worker.Submit(trigger.Unlock)
			case signalReload:
				a.reload(h)
			default:
				a.log.Info("shutting down", "signal", sig.String())
				return a.shutdown(h, stop, done)
			}
		case <-ctx.Done():
			a.log.Info("shutting down", "reason", ctx.Err().Error())
			return a.shutdown(h, stop, done)
		}
	}
}

// shutdown stops the services, then takes the final backup on the
// caller's goroutine so it completes before the process exits.
func (a *app) shutdown(h *host, stop context.CancelFunc, done <-chan error) error {
	stop()
	<-done
	h.worker.Handle(context.Background(), trigger.Terminate)
	a.log.Info("exit complete")
	return nil
}

func (a *app) reload(h *host) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		a.log.Error("config reload failed", "error", err)
		return
	}

	a.log.SetLevel(cfg.Logging.Level)
	a.manager.SetMaxBackups(cfg.Backup.MaxBackups)
	h.worker.SetAutoBackup(cfg.Backup.AutoBackup)
	h.monitor.UpdateConfig(cfg.Watch)

	a.cfg.Logging.Level = cfg.Logging.Level
	a.cfg.Backup.MaxBackups = cfg.Backup.MaxBackups
	a.cfg.Backup.AutoBackup = cfg.Backup.AutoBackup
	a.cfg.Watch = cfg.Watch

	a.log.Info("config reloaded", "maxBackups", cfg.Backup.MaxBackups, "level", cfg.Logging.Level)
}
