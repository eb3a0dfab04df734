// In file: internal/metrics/metrics.go

// Package metrics exposes the Prometheus collectors that report how analyses
// are produced: by which source, how long each phase took, how the cache and
// each model attempt fared.
package metrics

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "decision_gateway"

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics groups every collector the gateway reports.
type Metrics struct {
	outcomes        *prometheus.CounterVec
	phaseDuration   *prometheus.HistogramVec
	cacheRequests   *prometheus.CounterVec
	modelAttempts   *prometheus.CounterVec
	attemptDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

var (
	defaultMetricsOnce sync.Once
	sharedMetrics      *Metrics
)

// Default returns the instance registered with the global Prometheus
// registry. The collectors are created only once.
func Default() *Metrics {
	defaultMetricsOnce.Do(func() {
		sharedMetrics = MustNewMetrics(prometheus.DefaultRegisterer)
	})
	return sharedMetrics
}

// MustNewMetrics constructs the collectors on reg. A collector that is already
// registered is reused; any other registration error panics.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Metrics{
		outcomes: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Analyses returned, by the source that produced them.",
			},
			[]string{"source"},
		)),
		phaseDuration: register(reg, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "phase_duration_seconds",
				Help:      "Time spent in each request phase.",
				Buckets:   []float64{.001, .01, .05, .1, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"phase"},
		)),
		cacheRequests: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "requests_total",
				Help:      "Analysis cache lookups by result.",
			},
			[]string{"result"},
		)),
		modelAttempts: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "model",
				Name:      "attempts_total",
				Help:      "Model attempts by model, outcome and failure reason.",
			},
			[]string{"model", "outcome", "reason"},
		)),
		attemptDuration: register(reg, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "model",
				Name:      "attempt_duration_seconds",
				Help:      "Duration of a single model attempt.",
				Buckets:   []float64{.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
			},
			[]string{"model"},
		)),
		inFlight: register(reg, prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "analyses_in_flight",
				Help:      "Analyses currently being produced.",
			},
		)),
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// ObserveOutcome counts an analysis returned by source.
func (m *Metrics) ObserveOutcome(source string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(source).Inc()
}

// ObservePhase records the time spent in a request phase.
func (m *Metrics) ObservePhase(phase string, d time.Duration) {
	if m == nil {
		return
	}
	m.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// ObserveCache counts a cache lookup with one of CacheHit, CacheMiss or CacheError.
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues(result).Inc()
}

// ObserveAttempt records a single model attempt. reason is empty on success.
func (m *Metrics) ObserveAttempt(model string, success bool, reason string, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.modelAttempts.WithLabelValues(model, outcome, reason).Inc()
	m.attemptDuration.WithLabelValues(model).Observe(d.Seconds())
}

// TrackInFlight marks an analysis as started and returns the func that marks it done.
func (m *Metrics) TrackInFlight() func() {
	if m == nil {
		return func() {}
	}
	m.inFlight.Inc()
	return m.inFlight.Dec
}
