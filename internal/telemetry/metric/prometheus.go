package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hireflow"

// Registry holds all client metrics on a private Prometheus registry.
//
// It satisfies the recorder interfaces of apiclient, session and query.
type Registry struct {
	registry *prometheus.Registry

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Session metrics
	SessionPurges prometheus.Counter

	// Cache metrics
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	CacheInvalidations prometheus.Counter
}

// NewRegistry creates a registry with all client metrics registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Backend requests by service, method and outcome class.",
		}, []string{"service", "method", "class"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Backend request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "method"}),

		SessionPurges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "purges_total",
			Help:      "Sessions cleared after an authentication failure.",
		}),

		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query_cache",
			Name:      "hits_total",
			Help:      "Reads served from a fresh cache entry.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query_cache",
			Name:      "misses_total",
			Help:      "Reads that went to the backend.",
		}),
		CacheInvalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query_cache",
			Name:      "invalidations_total",
			Help:      "Cache entries marked stale.",
		}),
	}

	r.registry.MustRegister(
		r.RequestsTotal,
		r.RequestDuration,
		r.SessionPurges,
		r.CacheHits,
		r.CacheMisses,
		r.CacheInvalidations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Registerer returns the underlying registerer for extra collectors.
func (r *Registry) Registerer() prometheus.Registerer {
	return r.registry
}

// Gatherer returns the underlying gatherer.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one completed backend call.
func (r *Registry) ObserveRequest(service, method, class string, d time.Duration) {
	r.RequestsTotal.WithLabelValues(service, method, class).Inc()
	r.RequestDuration.WithLabelValues(service, method).Observe(d.Seconds())
}

// SessionPurged records a session cleared by the guard.
func (r *Registry) SessionPurged() {
	r.SessionPurges.Inc()
}

// CacheHit records a fresh cache read.
func (r *Registry) CacheHit() { r.CacheHits.Inc() }

// CacheMiss records a cache read that required a fetch.
func (r *Registry) CacheMiss() { r.CacheMisses.Inc() }

// CacheInvalidated records n entries marked stale.
func (r *Registry) CacheInvalidated(n int) {
	r.CacheInvalidations.Add(float64(n))
}
