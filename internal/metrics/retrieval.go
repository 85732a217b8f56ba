package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Retrieval Prometheus metrics.
var (
	RetrievalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_duration_seconds",
			Help:      "End-to-end retrieval duration per search mode",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"mode", "status"},
	)

	RetrievalHits = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_hits",
			Help:      "Number of hits returned per search mode",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"mode"},
	)

	BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "breaker_state",
			Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	BreakerRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "breaker_rejections_total",
			Help:      "Calls rejected by an open or saturated circuit breaker",
		},
		[]string{"name"},
	)
)

var registerRetrieval sync.Once

// RegisterRetrievalMetrics adds the retrieval and breaker collectors to the
// default registry. Later calls are no-ops.
func RegisterRetrievalMetrics() {
	registerRetrieval.Do(func() {
		prometheus.MustRegister(RetrievalDuration, RetrievalHits, BreakerState, BreakerRejectionsTotal)
	})
}

// ObserveRetrieval records one finished retrieval. hits is ignored on failure.
func ObserveRetrieval(mode string, started time.Time, hits int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	RetrievalDuration.WithLabelValues(mode, status).Observe(time.Since(started).Seconds())
	if err == nil {
		RetrievalHits.WithLabelValues(mode).Observe(float64(hits))
	}
}
