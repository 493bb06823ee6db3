// ABOUTME: Prometheus collectors for the roast pipeline and the HTTP API
// ABOUTME: Collectors are package level and registered once with the default registry

package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	// StageTransitionsTotal counts pipeline stage changes.
	StageTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roast",
		Subsystem: "pipeline",
		Name:      "stage_transitions_total",
		Help:      "Total number of roast pipeline stage transitions, labeled by source and target stage.",
	}, []string{"from", "to"})

	// PipelineDurationSeconds is end-to-end time of one generation including retries.
	PipelineDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "roast",
		Subsystem: "pipeline",
		Name:      "duration_seconds",
		Help:      "End-to-end time to generate a roast, labeled by outcome.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120, 300},
	}, []string{"outcome"})

	// FallbackTotal counts results built from the fixed fallback critique.
	FallbackTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "roast",
		Subsystem: "pipeline",
		Name:      "fallback_total",
		Help:      "Total number of roasts answered with the fallback critique.",
	})

	// OutboundCallsTotal counts calls to external APIs by result.
	OutboundCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roast",
		Subsystem: "outbound",
		Name:      "calls_total",
		Help:      "Total number of external API calls, labeled by api and result.",
	}, []string{"api", "result"})

	// HTTPRequestsTotal counts served API requests.
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roast",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests, labeled by method and status code.",
	}, []string{"method", "status"})

	// HTTPRequestDurationSeconds is the time to serve one API request.
	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "roast",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Time to serve an HTTP request, labeled by method.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"method"})
)

// Register registers all collectors with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			StageTransitionsTotal,
			PipelineDurationSeconds,
			FallbackTotal,
			OutboundCallsTotal,
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
		)
	})
}

// Handler serves the default registry in the Prometheus exposition format
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveStage records a stage transition
func ObserveStage(from, to string) {
	StageTransitionsTotal.WithLabelValues(from, to).Inc()
}

// ObservePipeline records a finished generation
func ObservePipeline(outcome string, startedAt time.Time) {
	PipelineDurationSeconds.WithLabelValues(outcome).Observe(time.Since(startedAt).Seconds())
}

// ObserveCall records one external API call
func ObserveCall(api string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	OutboundCallsTotal.WithLabelValues(api, result).Inc()
}
