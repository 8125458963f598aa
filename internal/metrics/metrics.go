// Package metrics exposes Prometheus counters for the write paths and
// the AI helpers.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "folio"

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// AI feature label values.
const (
	FeatureKeywords = "keywords"
	FeatureAltText  = "alt_text"
)

// Metrics owns its registry so tests can build as many as they like.
type Metrics struct {
	registry        *prometheus.Registry
	contentUpdates  *prometheus.CounterVec
	contactMessages *prometheus.CounterVec
	aiRequests      *prometheus.CounterVec
	cacheFlushes    prometheus.Counter
	rateLimited     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		contentUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_updates_total",
			Help:      "Admin content updates by outcome.",
		}, []string{"outcome"}),
		contactMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contact_submissions_total",
			Help:      "Contact form submissions by outcome.",
		}, []string{"outcome"}),
		aiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_requests_total",
			Help:      "Calls to the generative model by feature and outcome.",
		}, []string{"feature", "outcome"}),
		cacheFlushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_cache_flushes_total",
			Help:      "View cache invalidations.",
		}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the per-IP limiter.",
		}, []string{"scope"}),
	}
	m.registry.MustRegister(
		m.contentUpdates,
		m.contactMessages,
		m.aiRequests,
		m.cacheFlushes,
		m.rateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ContentUpdate(outcome string)     { m.contentUpdates.WithLabelValues(outcome).Inc() }
func (m *Metrics) ContactSubmission(outcome string) { m.contactMessages.WithLabelValues(outcome).Inc() }
func (m *Metrics) AIRequest(feature, outcome string) {
	m.aiRequests.WithLabelValues(feature, outcome).Inc()
}
func (m *Metrics) CacheFlush()                    { m.cacheFlushes.Inc() }
func (m *Metrics) RateLimited(scope string)       { m.rateLimited.WithLabelValues(scope).Inc() }
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
