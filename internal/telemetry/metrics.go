package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "learntabs"

// Source request outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeEmpty = "empty"
)

// Metrics groups the collectors recorded by retrieval and planning. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	SourceRequests    *prometheus.CounterVec
	SourceDuration    *prometheus.HistogramVec
	SourceCandidates  *prometheus.CounterVec
	RetrieveDuration  prometheus.Histogram
	DuplicatesDropped prometheus.Counter
	PlanStrategy      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SourceRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_requests_total",
			Help:      "Source adapter calls by outcome.",
		}, []string{"source", "outcome"}),
		SourceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_request_duration_seconds",
			Help:      "Latency of a single source adapter call.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		SourceCandidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_candidates_total",
			Help:      "Candidates returned per source before deduplication.",
		}, []string{"source"}),
		RetrieveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieve_duration_seconds",
			Help:      "Wall time of a full fan-out retrieval.",
			Buckets:   prometheus.DefBuckets,
		}),
		DuplicatesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_dropped_total",
			Help:      "Candidates discarded because their canonical URL was already seen.",
		}),
		PlanStrategy: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_strategy_total",
			Help:      "Plans served per strategy.",
		}, []string{"strategy"}),
	}
	if reg != nil {
		reg.MustRegister(m.SourceRequests, m.SourceDuration, m.SourceCandidates, m.RetrieveDuration, m.DuplicatesDropped, m.PlanStrategy)
	}
	return m
}

func (m *Metrics) ObserveSource(source, outcome string, candidates int, took time.Duration) {
	if m == nil {
		return
	}
	m.SourceRequests.WithLabelValues(source, outcome).Inc()
	m.SourceDuration.WithLabelValues(source).Observe(took.Seconds())
	if candidates > 0 {
		m.SourceCandidates.WithLabelValues(source).Add(float64(candidates))
	}
}

func (m *Metrics) ObserveRetrieve(took time.Duration, duplicates int) {
	if m == nil {
		return
	}
	m.RetrieveDuration.Observe(took.Seconds())
	if duplicates > 0 {
		m.DuplicatesDropped.Add(float64(duplicates))
	}
}

func (m *Metrics) ObservePlan(strategy string) {
	if m == nil {
		return
	}
	m.PlanStrategy.WithLabelValues(strategy).Inc()
}
