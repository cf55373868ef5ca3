package server

import (
	"github.com/prometheus/client_golang/prometheus"

	dirsync "github.com/corpintra/directory-sync/internal/sync"
)

type Metrics struct {
	runs         *prometheus.CounterVec
	created      prometheus.Counter
	updated      prometheus.Counter
	deactivated  prometheus.Counter
	skipped      prometheus.Counter
	recordErrors prometheus.Counter
}

func NewMetrics(registry *prometheus.Registry) *Metrics {
	var metrics = &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dirsync_runs_total",
			Help: "Completed synchronization runs by result.",
		}, []string{"result"}),
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dirsync_records_created_total",
			Help: "Local records created by synchronization runs.",
		}),
		updated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dirsync_records_updated_total",
			Help: "Local records updated by synchronization runs.",
		}),
		deactivated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dirsync_records_deactivated_total",
			Help: "Local records deactivated by synchronization runs.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dirsync_records_skipped_total",
			Help: "Upstream records skipped for lacking an account name.",
		}),
		recordErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dirsync_record_errors_total",
			Help: "Per-record errors isolated during synchronization runs.",
		}),
	}
	registry.MustRegister(metrics.runs, metrics.created, metrics.updated, metrics.deactivated, metrics.skipped, metrics.recordErrors)
	return metrics
}

func (m *Metrics) Observe(report *dirsync.Report) {
	m.runs.WithLabelValues(string(report.State)).Inc()
	m.created.Add(float64(report.Created))
	m.updated.Add(float64(report.Updated))
	m.deactivated.Add(float64(report.Deactivated))
	m.skipped.Add(float64(report.Skipped))
	m.recordErrors.Add(float64(len(report.Errors)))
}
