// Package metrics holds the Prometheus collectors of the card service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cardpress"

var (
	registry = prometheus.NewRegistry()
	once     sync.Once

	jobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Processing jobs by source kind and result",
		},
		[]string{"source", "result"},
	)

	jobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Duration of processing jobs by source kind",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	cardsRendered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_rendered_total",
			Help:      "Total number of cards written to documents",
		},
	)

	extractions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Item extractions by source kind and result",
		},
		[]string{"source", "result"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "code"},
	)

	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests by route",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

// Init registers the collectors along with the Go and process collectors.
// Calling it more than once is harmless.
func Init() {
	once.Do(func() {
		registry.MustRegister(
			jobsTotal, jobDuration, cardsRendered, extractions, httpRequests, httpLatency,
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
}

// Handler returns the http.Handler for /metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// ObserveJob records a finished job. cards is the number of cards rendered.
func ObserveJob(source, result string, cards int, dur time.Duration) {
	jobsTotal.WithLabelValues(source, result).Inc()
	jobDuration.WithLabelValues(source).Observe(dur.Seconds())
	if cards > 0 {
		cardsRendered.Add(float64(cards))
	}
}

// IncExtraction counts an item extraction.
func IncExtraction(source, result string) { extractions.WithLabelValues(source, result).Inc() }

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, code int, dur time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	httpLatency.WithLabelValues(route).Observe(dur.Seconds())
}
