// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cookfeed"

// Metrics holds all Prometheus metrics.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Auth metrics
	AuthEventsTotal     *prometheus.CounterVec
	RateLimitedTotal    prometheus.Counter
	SessionsPurgedTotal prometheus.Counter

	// Digest metrics
	DigestRunsTotal   *prometheus.CounterVec
	DigestEmailsTotal *prometheus.CounterVec
	DigestRunDuration prometheus.Histogram
}

// New creates a registry with the Go runtime and process collectors and
// registers every CookFeed metric on it.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewMetrics(registry)
}

// NewMetrics creates and registers all metrics on registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		AuthEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_events_total",
				Help:      "Authentication events by kind and outcome",
			},
			[]string{"event", "result"},
		),
		RateLimitedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_requests_total",
				Help:      "Requests rejected by the per-IP auth rate limiter",
			},
		),
		SessionsPurgedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_purged_total",
				Help:      "Expired sessions removed by the cleanup job",
			},
		),

		DigestRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "digest_runs_total",
				Help:      "Weekly digest runs by trigger and outcome",
			},
			[]string{"trigger", "status"},
		),
		DigestEmailsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "digest_emails_total",
				Help:      "Weekly digest emails by result",
			},
			[]string{"result"},
		),
		DigestRunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "digest_run_duration_seconds",
				Help:      "Weekly digest run duration in seconds",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthEventsTotal,
		m.RateLimitedTotal,
		m.SessionsPurgedTotal,
		m.DigestRunsTotal,
		m.DigestEmailsTotal,
		m.DigestRunDuration,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware instruments HTTP requests. Requests are labelled by chi route
// pattern rather than raw path so recipe and user IDs do not explode the
// label space.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// ObserveAuth counts an auth event such as "login" with result "success" or "failure".
func (m *Metrics) ObserveAuth(event string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.AuthEventsTotal.WithLabelValues(event, result).Inc()
}

// ObserveDigest records one digest run.
func (m *Metrics) ObserveDigest(trigger string, err error, sent, failed int, took time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.DigestRunsTotal.WithLabelValues(trigger, status).Inc()
	m.DigestEmailsTotal.WithLabelValues("sent").Add(float64(sent))
	m.DigestEmailsTotal.WithLabelValues("failed").Add(float64(failed))
	m.DigestRunDuration.Observe(took.Seconds())
}

// ObservePurge counts sessions removed by the cleanup job.
func (m *Metrics) ObservePurge(n int) {
	if m == nil {
		return
	}
	m.SessionsPurgedTotal.Add(float64(n))
}
