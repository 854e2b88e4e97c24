// Package metrics exposes Prometheus collectors for the fetch, parse and
// merge pipeline. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tvfixtures"

type Metrics struct {
	fetchAttempts   *prometheus.CounterVec
	renderFallbacks *prometheus.CounterVec
	eventsParsed    *prometheus.GaugeVec
	eventsSkipped   *prometheus.CounterVec
	eventsMerged    prometheus.Gauge
	matches         prometheus.Counter
	runs            *prometheus.CounterVec
	runDuration     prometheus.Summary
	lastSuccessTS   prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_attempts_total",
			Help:      "HTTP fetch attempts by source and outcome",
		}, []string{"source", "outcome"}),
		renderFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_fallbacks_total",
			Help:      "Headless browser renders by source and outcome",
		}, []string{"source", "outcome"}),
		eventsParsed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "events_parsed",
			Help:      "Events parsed from each source in the last run",
		}, []string{"source"}),
		eventsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_skipped_total",
			Help:      "Rows dropped for a missing time or team pair",
		}, []string{"source"}),
		eventsMerged: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "events_merged",
			Help:      "Merged events written in the last run",
		}),
		matches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_total",
			Help:      "Source B events folded into a Source A event",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Pipeline runs by status",
		}, []string{"status"}),
		runDuration: prometheus.NewSummary(prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Time spent in a full pipeline run",
		}),
		lastSuccessTS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix timestamp of the last successful run",
		}),
	}

	reg.MustRegister(
		m.fetchAttempts, m.renderFallbacks,
		m.eventsParsed, m.eventsSkipped, m.eventsMerged, m.matches,
		m.runs, m.runDuration, m.lastSuccessTS,
	)
	return m
}

func (m *Metrics) FetchAttempt(source, outcome string) {
	if m == nil {
		return
	}
	m.fetchAttempts.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) RenderFallback(source, outcome string) {
	if m == nil {
		return
	}
	m.renderFallbacks.WithLabelValues(source, outcome).Inc()
}

// Parsed records the per-source parse result of a run.
func (m *Metrics) Parsed(source string, events, skipped int) {
	if m == nil {
		return
	}
	m.eventsParsed.WithLabelValues(source).Set(float64(events))
	m.eventsSkipped.WithLabelValues(source).Add(float64(skipped))
}

// Merged records the size of the merged list and how many pairs matched.
func (m *Metrics) Merged(total, matched int) {
	if m == nil {
		return
	}
	m.eventsMerged.Set(float64(total))
	m.matches.Add(float64(matched))
}

// Run records a finished pipeline run. status is "ok" or "error".
func (m *Metrics) Run(status string, elapsed time.Duration, finished time.Time) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(status).Inc()
	m.runDuration.Observe(elapsed.Seconds())
	if status == "ok" {
		m.lastSuccessTS.Set(float64(finished.Unix()))
	}
}
