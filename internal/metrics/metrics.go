// Package metrics holds the Prometheus collectors for query and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	LabelKind   = "kind"
	LabelRoute  = "route"
	LabelMethod = "method"
	LabelCode   = "code"
)

// Collector owns a registry so several servers can run in one process.
type Collector struct {
	registry      *prometheus.Registry
	queriesTotal  *prometheus.CounterVec
	queryDuration prometheus.Histogram
	requestsTotal *prometheus.CounterVec
}

// NewCollector creates a registry with the query, HTTP and runtime collectors.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	c := &Collector{
		registry: registry,
		queriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "cardiag_queries_total", Help: "Resolved queries by response kind"},
			[]string{LabelKind},
		),
		queryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cardiag_query_duration_seconds",
			Help:    "Time spent resolving a query",
			Buckets: []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01},
		}),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "cardiag_http_requests_total", Help: "HTTP requests by route and status code"},
			[]string{LabelRoute, LabelMethod, LabelCode},
		),
	}
	registry.MustRegister(
		c.queriesTotal,
		c.queryDuration,
		c.requestsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveQuery records one resolved query.
func (c *Collector) ObserveQuery(kind string, duration time.Duration) {
	c.queriesTotal.WithLabelValues(kind).Inc()
	c.queryDuration.Observe(duration.Seconds())
}

// ObserveRequest records one served HTTP request.
func (c *Collector) ObserveRequest(route, method string, code int) {
	c.requestsTotal.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
