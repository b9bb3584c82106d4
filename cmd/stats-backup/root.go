package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raoulx24/stats-backup/internal/backup"
	"github.com/raoulx24/stats-backup/internal/config"
	"github.com/raoulx24/stats-backup/internal/logging"
	"github.com/raoulx24/stats-backup/internal/metrics"
)

// app holds what every subcommand needs, built once the flags are parsed.
type app struct {
	configPath string

	cfg     *config.Config
	log     *logging.ZeroLogger
	metrics *metrics.Metrics
	manager *backup.Manager
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "stats-backup",
		Short: "Rotating, deduplicated snapshots of the Stats database",
		Long: `stats-backup keeps a bounded set of timestamped snapshots of a SQLite
database. A snapshot whose content matches the latest one is stored as a
hard link; otherwise the database is copied. The oldest snapshots are
deleted once the configured maximum is exceeded.

Examples:
  stats-backup backup                 # run one rotation cycle
  stats-backup stats --json           # summarize the snapshot folder
  stats-backup locations              # show the folders in use
  stats-backup run -c /etc/stats.yaml # stay resident and back up daily`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "config.yaml", "path to the YAML config file")

	root.AddCommand(
		newBackupCmd(a),
		newStatsCmd(a),
		newLocationsCmd(a),
		newRunCmd(a),
	)
	return root
}

func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	a.cfg = cfg
	a.log = logging.New(loggingConfig(cfg.Logging))
	a.metrics = metrics.New()

	a.manager, err = backup.New(cfg, a.log, backup.WithMetrics(a.metrics))
	if err != nil {
		return fmt.Errorf("failed to create backup manager: %w", err)
	}
	return nil
}

func (a *app) close() {
	if a.log != nil {
		_ = a.log.Close()
	}
}

func loggingConfig(c config.LoggingConfig) logging.Config {
	return logging.Config{
		Level:      c.Level,
		Format:     c.Format,
		File:       c.File,
		MaxSizeMB:  c.MaxSizeMB,
		MaxFiles:   c.MaxFiles,
		MaxAgeDays: c.MaxAgeDays,
	}
}
