// Package metrics collects Prometheus metrics and serves them on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what handlers and services report to.
type Recorder interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
	UpstreamCall(service string, err error, d time.Duration)
	WebhookDelivery(outcome string)
	NotificationSent(ok bool)
}

// Webhook outcomes.
const (
	WebhookIgnoredEvent  = "ignored_event"
	WebhookIgnoredBranch = "ignored_branch"
	WebhookUnknownRepo   = "unknown_repo"
	WebhookRelayed       = "relayed"
	WebhookFailed        = "failed"
)

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	upstreamCalls   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	webhooks        *prometheus.CounterVec
	notifications   *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "devcollab_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "devcollab_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "devcollab_upstream_calls_total",
			Help: "Calls to external services by outcome.",
		}, []string{"service", "outcome"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "devcollab_upstream_latency_seconds",
			Help:    "External call latency.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"service"}),
		webhooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "devcollab_webhook_deliveries_total",
			Help: "GitHub webhook deliveries by outcome.",
		}, []string{"outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "devcollab_notifications_total",
			Help: "Per-collaborator update emails by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.upstreamCalls,
		c.upstreamLatency,
		c.webhooks,
		c.notifications,
	)
	return c
}

func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (c *Collector) UpstreamCall(service string, err error, d time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.upstreamCalls.WithLabelValues(service, outcome).Inc()
	c.upstreamLatency.WithLabelValues(service).Observe(d.Seconds())
}

func (c *Collector) WebhookDelivery(outcome string) {
	c.webhooks.WithLabelValues(outcome).Inc()
}

func (c *Collector) NotificationSent(ok bool) {
	result := "sent"
	if !ok {
		result = "failed"
	}
	c.notifications.WithLabelValues(result).Inc()
}

// Nop discards everything.
type Nop struct{}

func (Nop) ObserveHTTP(string, string, int, time.Duration) {}
func (Nop) UpstreamCall(string, error, time.Duration)      {}
func (Nop) WebhookDelivery(string)                         {}
func (Nop) NotificationSent(bool)                          {}

// Handler serves the metrics in gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
