// Package metrics holds the Prometheus collectors of the ingest pipeline.
//
// A nil *Metrics is valid and records nothing, so callers that run without
// an HTTP surface (the parse and stats commands, tests) pass nil.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gkgfeed"

// Metrics is a set of collectors registered on a dedicated registry.
type Metrics struct {
	registry *prometheus.Registry

	linesRead       prometheus.Counter
	recordsParsed   prometheus.Counter
	linesRejected   prometheus.Counter
	recordsFiltered prometheus.Counter
	recordsStored   prometheus.Counter
	batchDuration   prometheus.Histogram
	lastRun         prometheus.Gauge
}

// New creates the collectors and registers them together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		linesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_read_total",
			Help:      "Non-empty GKG lines read from input.",
		}),
		recordsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_parsed_total",
			Help:      "Lines successfully parsed into records.",
		}),
		linesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_rejected_total",
			Help:      "Lines rejected by the parser.",
		}),
		recordsFiltered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_filtered_total",
			Help:      "Parsed records dropped by filters.",
		}),
		recordsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_stored_total",
			Help:      "Records inserted into storage.",
		}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Time spent writing one batch of records.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last finished ingest run.",
		}),
	}

	m.registry.MustRegister(
		m.linesRead,
		m.recordsParsed,
		m.linesRejected,
		m.recordsFiltered,
		m.recordsStored,
		m.batchDuration,
		m.lastRun,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) LineRead() {
	if m != nil {
		m.linesRead.Inc()
	}
}

func (m *Metrics) RecordParsed() {
	if m != nil {
		m.recordsParsed.Inc()
	}
}

func (m *Metrics) LineRejected() {
	if m != nil {
		m.linesRejected.Inc()
	}
}

func (m *Metrics) RecordFiltered() {
	if m != nil {
		m.recordsFiltered.Inc()
	}
}

// BatchStored records a written batch of n records and its duration.
func (m *Metrics) BatchStored(n int, d time.Duration) {
	if m == nil {
		return
	}
	m.recordsStored.Add(float64(n))
	m.batchDuration.Observe(d.Seconds())
}

// RunFinished sets the last-run gauge to t.
func (m *Metrics) RunFinished(t time.Time) {
	if m != nil {
		m.lastRun.Set(float64(t.Unix()))
	}
}
