// Package metrics provides Prometheus collectors for selections, per-container
// evaluations and HTTP traffic. Collectors live on a private registry so that
// several instances can coexist in tests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cartonfit"

// Collector owns the registry and every metric the service exports.
type Collector struct {
	registry *prometheus.Registry

	httpRequestDuration *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec

	evaluationsTotal      prometheus.Counter
	evaluationDuration    prometheus.Histogram
	evaluationUtilization prometheus.Histogram
	itemsPlaced           prometheus.Histogram

	selectionsTotal     *prometheus.CounterVec
	selectionDuration   prometheus.Histogram
	selectionCandidates prometheus.Histogram
}

// New registers all collectors, plus the Go runtime and process collectors, on a fresh registry.
func New() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		evaluationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Total number of container evaluations",
		}),
		evaluationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Time spent packing one container",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}),
		evaluationUtilization: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_utilization_percent",
			Help:      "Volume utilization per evaluated container",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		itemsPlaced: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_items_placed",
			Help:      "Items placed per evaluated container",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 11),
		}),
		selectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "selections_total",
				Help:      "Total number of best-fit selections by outcome",
			},
			[]string{"outcome"},
		),
		selectionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "selection_duration_seconds",
			Help:      "Time spent evaluating every candidate for one request",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
		selectionCandidates: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "selection_candidates",
			Help:      "Candidate containers per selection",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

// ObserveEvaluation records one container evaluation.
func (c *Collector) ObserveEvaluation(placed int, utilization float64, elapsed time.Duration) {
	c.evaluationsTotal.Inc()
	c.evaluationDuration.Observe(elapsed.Seconds())
	c.evaluationUtilization.Observe(utilization)
	c.itemsPlaced.Observe(float64(placed))
}

// ObserveSelection records one best-fit selection.
func (c *Collector) ObserveSelection(found bool, candidates int, elapsed time.Duration) {
	outcome := "none"
	if found {
		outcome = "found"
	}
	c.selectionsTotal.WithLabelValues(outcome).Inc()
	c.selectionDuration.Observe(elapsed.Seconds())
	c.selectionCandidates.Observe(float64(candidates))
}

// ObserveRequest records one served HTTP request.
func (c *Collector) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	c.httpRequestDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
	c.httpRequestsTotal.WithLabelValues(method, path, code).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
