package metrics

import (
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "gateway"
	codeOK    = "ok"
)

// Metrics owns a private registry so tests and multiple servers in one
// process do not collide on registration.
type Metrics struct {
	registry           *prometheus.Registry
	downstreamRequests *prometheus.CounterVec
	downstreamDuration *prometheus.HistogramVec
	authFailures       *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		downstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downstream_requests_total",
			Help:      "Downstream calls by operation and result code.",
		}, []string{"operation", "code"}),
		downstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "downstream_duration_seconds",
			Help:      "Downstream call latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Rejected inbound requests by reason.",
		}, []string{"reason"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.downstreamRequests,
		m.downstreamDuration,
		m.authFailures,
	)

	return m
}

// ObserveDownstream records one downstream call. A nil receiver is a no-op.
func (m *Metrics) ObserveDownstream(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	code := codeOK
	if err != nil {
		code = connect.CodeOf(err).String()
	}
	m.downstreamRequests.WithLabelValues(operation, code).Inc()
	m.downstreamDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// AuthFailure counts a rejected inbound request. A nil receiver is a no-op.
func (m *Metrics) AuthFailure(reason string) {
	if m == nil {
		return
	}
	m.authFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// DownstreamRequests exposes the request counter for assertions.
func (m *Metrics) DownstreamRequests() *prometheus.CounterVec {
	return m.downstreamRequests
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
