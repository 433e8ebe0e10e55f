package observability

// Package observability exposes prometheus metrics for the webhook pipeline.

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Event and reply handling results.
const (
	ResultOK        = "ok"
	ResultProcessed = "processed"
	ResultIgnored   = "ignored"
	ResultDuplicate = "duplicate"
	ResultFailed    = "failed"
)

type Metrics struct {
	registry *prometheus.Registry

	WebhookBatches   prometheus.Counter
	Events           *prometheus.CounterVec
	Replies          *prometheus.CounterVec
	RequestDurations *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		WebhookBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "topupbot",
			Name:      "webhook_batches_total",
			Help:      "Webhook callback batches accepted.",
		}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "topupbot",
			Name:      "events_total",
			Help:      "Inbound events by type and handling result.",
		}, []string{"type", "result"}),
		Replies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "topupbot",
			Name:      "replies_total",
			Help:      "Outbound replies by result.",
		}, []string{"result"}),
		RequestDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "topupbot",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request durations by route and status class.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status_class"}),
	}
	registry.MustRegister(m.WebhookBatches, m.Events, m.Replies, m.RequestDurations)

	return m
}

// Handler serves the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// BatchAccepted records one acknowledged webhook callback batch.
func (m *Metrics) BatchAccepted() {
	if m == nil {
		return
	}
	m.WebhookBatches.Inc()
}

// EventResult records the outcome of handling one inbound event.
func (m *Metrics) EventResult(eventType, result string) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(eventType, result).Inc()
}

// ReplyResult records the outcome of one outbound reply attempt.
func (m *Metrics) ReplyResult(result string) {
	if m == nil {
		return
	}
	m.Replies.WithLabelValues(result).Inc()
}
