// Package metrics exposes backup counters on a private Prometheus registry.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	reg *prometheus.Registry

	backupsTotal      *prometheus.CounterVec
	backupDuration    prometheus.Histogram
	deletionsTotal    prometheus.Counter
	deleteFailures    prometheus.Counter
	scansOnce         sync.Once
	scansTotal        prometheus.CounterFunc
	snapshots         prometheus.Gauge
	lastBackupSeconds prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		backupsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stats_backup_runs_total",
			Help: "Backup cycles by outcome (copied, linked, failed)",
		}, []string{"action"}),
		backupDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "stats_backup_duration_seconds",
			Help:    "Duration of a backup cycle in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		deletionsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "stats_backup_deletions_total",
			Help: "Snapshots deleted by retention",
		}),
		deleteFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "stats_backup_deletion_failures_total",
			Help: "Snapshots retention failed to delete",
		}),
		snapshots: f.NewGauge(prometheus.GaugeOpts{
			Name: "stats_backup_snapshots",
			Help: "Snapshots present after the last cycle",
		}),
		lastBackupSeconds: f.NewGauge(prometheus.GaugeOpts{
			Name: "stats_backup_last_success_timestamp_seconds",
			Help: "Unix time of the last cycle that produced a snapshot",
		}),
	}
}

// Registry returns the registry holding all collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// ObserveBackup records one cycle.
func (m *Metrics) ObserveBackup(action string, d time.Duration, at time.Time) {
	if m == nil {
		return
	}
	m.backupsTotal.WithLabelValues(action).Inc()
	m.backupDuration.Observe(d.Seconds())
	if action != "failed" {
		m.lastBackupSeconds.Set(float64(at.Unix()))
	}
}

func (m *Metrics) AddDeletions(ok, failed int) {
	if m == nil {
		return
	}
	m.deletionsTotal.Add(float64(ok))
	m.deleteFailures.Add(float64(failed))
}

// TrackScans exposes a cumulative scan count read from scans at collection
// time. Only the first call registers; later calls are ignored.
func (m *Metrics) TrackScans(scans func() uint64) {
	if m == nil {
		return
	}
	m.scansOnce.Do(func() {
		m.scansTotal = promauto.With(m.reg).NewCounterFunc(prometheus.CounterOpts{
			Name: "stats_backup_directory_scans_total",
			Help: "Rescans of the snapshot directory",
		}, func() float64 { return float64(scans()) })
	})
}

func (m *Metrics) SetSnapshots(n int) {
	if m == nil {
		return
	}
	m.snapshots.Set(float64(n))
}

// WriteTextfile writes the registry in text exposition format to path,
// for pickup by the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
