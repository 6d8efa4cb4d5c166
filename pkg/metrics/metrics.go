// Package metrics exports the outcome of consistency runs as Prometheus
// metrics, written in the node_exporter textfile format.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agentstation/flowcheck/pkg/errors"
	"github.com/agentstation/flowcheck/pkg/report"
)

const namespace = "flowcheck"

// Recorder collects per-section and per-run metrics.
type Recorder struct {
	registry *prometheus.Registry
	issues   *prometheus.GaugeVec
	failed   *prometheus.GaugeVec
	runs     prometheus.Counter
	duration prometheus.Gauge
	lastRun  prometheus.Gauge
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		issues: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "section_issues",
			Help:      "Number of issues reported by a section in the last run.",
		}, []string{"section"}),
		failed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "section_failed",
			Help:      "Whether a section could not read its sources in the last run (1) or not (0).",
		}, []string{"section"}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Number of completed runs.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last run.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Start time of the last run as a Unix timestamp.",
		}),
	}
	r.registry.MustRegister(r.issues, r.failed, r.runs, r.duration, r.lastRun)
	return r
}

// ObserveSection records the outcome of one section. It is safe to use as a
// section hook.
func (r *Recorder) ObserveSection(s *report.Section) {
	r.issues.WithLabelValues(s.Title).Set(float64(s.Issues()))
	failed := 0.0
	if s.Failed() {
		failed = 1
	}
	r.failed.WithLabelValues(s.Title).Set(failed)
}

// ObserveReport records the run-level metrics of rep. Sections are recorded
// too, so callers not using section hooks only need this call.
func (r *Recorder) ObserveReport(rep *report.Report) {
	for _, s := range rep.Sections {
		r.ObserveSection(s)
	}
	r.runs.Inc()
	r.duration.Set(rep.Duration.Seconds())
	r.lastRun.Set(float64(rep.StartedAt.Unix()))
}

// Gatherer returns the registry holding the metrics.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the current metrics to path, replacing it atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return errors.WrapIO("write", path, prometheus.WriteToTextfile(path, r.registry))
}
