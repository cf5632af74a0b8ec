// Package metrics registers the prometheus instruments shared across components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the application counters and histograms.
type Metrics struct {
	ChatTurns   *prometheus.CounterVec
	GLMRequests *prometheus.CounterVec
	GLMLatency  *prometheus.HistogramVec
	Errors      *prometheus.CounterVec
}

// New creates and registers all instruments on the given registerer.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ChatTurns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_turns_total",
			Help:      "Processed chat turns by outcome.",
		}, []string{"outcome"}),
		GLMRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "glm_requests_total",
			Help:      "GLM completion calls by result.",
		}, []string{"result"}),
		GLMLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "glm_request_duration_seconds",
			Help:      "GLM completion call latency by HTTP status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Recovered errors by component.",
		}, []string{"component"}),
	}

	reg.MustRegister(m.ChatTurns, m.GLMRequests, m.GLMLatency, m.Errors)
	return m
}
