// Package metrics exposes Prometheus collectors for the ingestion service.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	crawlRunsTotal        *prometheus.CounterVec
	crawlEntitiesTotal    *prometheus.CounterVec
	crawlErrorsTotal      *prometheus.CounterVec
	crawlDurationSeconds  *prometheus.HistogramVec
	rateLimitDelaySeconds *prometheus.HistogramVec
	fetchRetriesTotal     *prometheus.CounterVec

	once sync.Once
)

// Init registers the Prometheus collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		crawlRunsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sanctions_crawl_runs_total",
				Help: "Total crawl runs, labeled by source and outcome.",
			},
			[]string{"source", "outcome"},
		)

		crawlEntitiesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sanctions_crawl_entities_total",
				Help: "Total canonical entities produced, labeled by source.",
			},
			[]string{"source"},
		)

		crawlErrorsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sanctions_crawl_errors_total",
				Help: "Total run-level and validation errors, labeled by source.",
			},
			[]string{"source"},
		)

		crawlDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sanctions_crawl_duration_seconds",
				Help:    "Wall-clock duration of crawl runs.",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			},
			[]string{"source"},
		)

		rateLimitDelaySeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sanctions_rate_limit_delay_seconds",
				Help:    "Delay introduced by the per-source rate limiter.",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"source"},
		)

		fetchRetriesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sanctions_fetch_retries_total",
				Help: "Fetch attempts retried after a transient failure.",
			},
			[]string{"source"},
		)
	})
}

// RecordRun observes one finished crawl run.
func RecordRun(source, outcome string, duration time.Duration, entities, errs int) {
	if crawlRunsTotal == nil {
		return
	}
	crawlRunsTotal.WithLabelValues(source, outcome).Inc()
	crawlEntitiesTotal.WithLabelValues(source).Add(float64(entities))
	crawlErrorsTotal.WithLabelValues(source).Add(float64(errs))
	crawlDurationSeconds.WithLabelValues(source).Observe(duration.Seconds())
}

// ObserveRateLimitDelay records time spent waiting on the rate limiter.
func ObserveRateLimitDelay(source string, delay time.Duration) {
	if rateLimitDelaySeconds == nil {
		return
	}
	rateLimitDelaySeconds.WithLabelValues(source).Observe(delay.Seconds())
}

// RecordRetry counts one retried fetch attempt.
func RecordRetry(source string) {
	if fetchRetriesTotal == nil {
		return
	}
	fetchRetriesTotal.WithLabelValues(source).Inc()
}

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
