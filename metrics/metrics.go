// Package metrics exposes Prometheus instrumentation for the pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors updated by the monitor and relay pipeline.
// A nil *Metrics is valid and drops every observation.
type Metrics struct {
	TxProcessed      prometheus.Counter
	Opportunities    *prometheus.CounterVec
	BundlesBuilt     prometheus.Counter
	BundlesSubmitted prometheus.Counter
	BundlesSucceeded prometheus.Counter
	SubmitLatency    prometheus.Histogram
	Errors           prometheus.Counter
}

// New builds and registers the collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TxProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vortex",
			Name:      "transactions_processed_total",
			Help:      "Pending transactions pulled from the mempool stream and classified.",
		}),
		Opportunities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vortex",
			Name:      "opportunities_detected_total",
			Help:      "Opportunities detected, labelled by strategy kind.",
		}, []string{"kind"}),
		BundlesBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vortex",
			Name:      "bundles_built_total",
			Help:      "Bundles assembled from detected opportunities.",
		}),
		BundlesSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vortex",
			Name:      "bundles_submitted_total",
			Help:      "Bundle submission attempts handed to the relay pipeline.",
		}),
		BundlesSucceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vortex",
			Name:      "bundles_succeeded_total",
			Help:      "Bundle submissions accepted by a relay.",
		}),
		SubmitLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vortex",
			Name:      "submit_latency_seconds",
			Help:      "Wall time of one relay pipeline submission including fallback.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		Errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vortex",
			Name:      "errors_total",
			Help:      "Per-transaction processing failures that were skipped.",
		}),
	}
	reg.MustRegister(
		m.TxProcessed,
		m.Opportunities,
		m.BundlesBuilt,
		m.BundlesSubmitted,
		m.BundlesSucceeded,
		m.SubmitLatency,
		m.Errors,
	)
	return m
}

func (m *Metrics) IncTxProcessed() {
	if m != nil {
		m.TxProcessed.Inc()
	}
}

func (m *Metrics) IncOpportunity(kind string) {
	if m != nil {
		m.Opportunities.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) IncBundlesBuilt() {
	if m != nil {
		m.BundlesBuilt.Inc()
	}
}

func (m *Metrics) IncBundlesSubmitted() {
	if m != nil {
		m.BundlesSubmitted.Inc()
	}
}

func (m *Metrics) IncBundlesSucceeded() {
	if m != nil {
		m.BundlesSucceeded.Inc()
	}
}

func (m *Metrics) ObserveSubmitLatency(seconds float64) {
	if m != nil {
		m.SubmitLatency.Observe(seconds)
	}
}

func (m *Metrics) IncErrors() {
	if m != nil {
		m.Errors.Inc()
	}
}
