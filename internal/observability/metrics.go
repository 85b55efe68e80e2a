package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	SourceProducts *prometheus.CounterVec
	SourceFailures *prometheus.CounterVec
	SourceDuration *prometheus.HistogramVec
	HTTPRequests   *prometheus.CounterVec

	registry *prometheus.Registry
}

func NewMetrics() *Metrics {
	m := &Metrics{
		SourceProducts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "climaprj_source_products_total",
				Help: "Products returned by each source",
			},
			[]string{"source"},
		),
		SourceFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "climaprj_source_failures_total",
				Help: "Source invocations that reported an error",
			},
			[]string{"source"},
		),
		SourceDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "climaprj_source_duration_seconds",
				Help:    "Time spent collecting products from a source",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
			},
			[]string{"source"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "climaprj_http_requests_total",
				Help: "HTTP requests handled by the API",
			},
			[]string{"path", "method", "code"},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.SourceProducts,
		m.SourceFailures,
		m.SourceDuration,
		m.HTTPRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveSource records one source invocation. Safe on a nil receiver.
func (m *Metrics) ObserveSource(name string, count int, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.SourceProducts.WithLabelValues(name).Add(float64(count))
	m.SourceDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		m.SourceFailures.WithLabelValues(name).Inc()
	}
}

// ObserveRequest counts one API response. Safe on a nil receiver.
func (m *Metrics) ObserveRequest(path, method string, code int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(path, method, strconv.Itoa(code)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
