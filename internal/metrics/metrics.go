// Package metrics exposes Prometheus metrics for upstream fetches, the
// response cache, schema decoding and the HTTP surface.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace     = "pokeview"
	endpointLabel = "endpoint"
	resultLabel   = "result"
)

// Fetch results.
const (
	ResultOK    = "ok"
	ResultError = "error"
	ResultHit   = "hit"
	ResultMiss  = "miss"
)

// Metrics manages the metric information pokeview measures. A nil *Metrics
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	fetchTotal          *prometheus.CounterVec
	fetchSeconds        *prometheus.HistogramVec
	fetchRetriesTotal   *prometheus.CounterVec
	cacheLookupsTotal   *prometheus.CounterVec
	decodeFailuresTotal *prometheus.CounterVec
	httpRequestsTotal   *prometheus.CounterVec
}

// NewMetrics creates a new instance of Metrics with its own registry.
func NewMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("register process collector: %w", err)
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}

	return &Metrics{
		registry: reg,
		fetchTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "total",
			Help:      "Total number of upstream fetches by endpoint and result.",
		}, []string{endpointLabel, resultLabel}),
		fetchSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "duration_seconds",
			Help:      "The duration of upstream fetches including retries.",
		}, []string{endpointLabel}),
		fetchRetriesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "retries_total",
			Help:      "Total number of retried upstream requests.",
		}, []string{endpointLabel}),
		cacheLookupsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Total number of response cache lookups by result.",
		}, []string{endpointLabel, resultLabel}),
		decodeFailuresTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "caster",
			Name:      "decode_failures_total",
			Help:      "Total number of responses rejected by their schema.",
		}, []string{"type", "code"}),
		httpRequestsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests served.",
		}, []string{"method", "route", "status"}),
	}, nil
}

// Registry returns the registry to expose.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveFetch records a finished fetch.
func (m *Metrics) ObserveFetch(endpoint string, err error, d time.Duration) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.fetchTotal.WithLabelValues(endpoint, result).Inc()
	m.fetchSeconds.WithLabelValues(endpoint).Observe(d.Seconds())
}

// AddRetry records a retried request.
func (m *Metrics) AddRetry(endpoint string) {
	if m == nil {
		return
	}
	m.fetchRetriesTotal.WithLabelValues(endpoint).Inc()
}

// ObserveCache records a cache lookup.
func (m *Metrics) ObserveCache(endpoint string, hit bool) {
	if m == nil {
		return
	}
	result := ResultMiss
	if hit {
		result = ResultHit
	}
	m.cacheLookupsTotal.WithLabelValues(endpoint, result).Inc()
}

// AddDecodeFailure records a schema rejection.
func (m *Metrics) AddDecodeFailure(typeName, code string) {
	if m == nil {
		return
	}
	m.decodeFailuresTotal.WithLabelValues(typeName, code).Inc()
}

// ObserveHTTP records a served request.
func (m *Metrics) ObserveHTTP(method, route string, status int) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
