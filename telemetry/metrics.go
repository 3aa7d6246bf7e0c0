package telemetry

import (
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names emitted by this module.
const (
	MetricJWKSCache          = "bearerauth_jwks_cache_total"
	MetricJWKSFetch          = "bearerauth_jwks_fetch_total"
	MetricJWKSFetchSeconds   = "bearerauth_jwks_fetch_duration_seconds"
	MetricTokenVerify        = "bearerauth_token_verify_total"
	MetricTokenVerifySeconds = "bearerauth_token_verify_duration_seconds"
	MetricExchange           = "bearerauth_credential_exchange_total"
)

// Metrics is a generic metrics interface.
type Metrics interface {
	IncCounter(name string, labels map[string]string)
	ObserveHistogram(name string, value float64, labels map[string]string)
}

// NopMetrics does nothing.
type NopMetrics struct{}

func (NopMetrics) IncCounter(string, map[string]string)                {}
func (NopMetrics) ObserveHistogram(string, float64, map[string]string) {}

// PrometheusMetrics implements Metrics on top of a prometheus.Registerer.
// Vectors are created and registered lazily on first use; the label set
// of a metric name is fixed by its first observation.
type PrometheusMetrics struct {
	registerer prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusMetrics returns a Metrics implementation backed by Prometheus.
// A nil registerer means prometheus.DefaultRegisterer.
func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	return &PrometheusMetrics{
		registerer: registerer,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func (m *PrometheusMetrics) IncCounter(name string, labels map[string]string) {
	m.mu.Lock()
	vec, ok := m.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help(name)}, keys(labels))
		m.registerer.MustRegister(vec)
		m.counters[name] = vec
	}
	m.mu.Unlock()
	vec.With(labels).Inc()
}

func (m *PrometheusMetrics) ObserveHistogram(name string, value float64, labels map[string]string) {
	m.mu.Lock()
	vec, ok := m.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    name,
			Help:    help(name),
			Buckets: prometheus.DefBuckets,
		}, keys(labels))
		m.registerer.MustRegister(vec)
		m.histograms[name] = vec
	}
	m.mu.Unlock()
	vec.With(labels).Observe(value)
}

func help(name string) string {
	return strings.ReplaceAll(strings.TrimPrefix(name, "bearerauth_"), "_", " ")
}

func keys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
