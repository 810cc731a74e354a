// Package metrics exposes Prometheus collectors for the authentication service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	LoginTotal    *prometheus.CounterVec
	RegisterTotal *prometheus.CounterVec
	VerifyTotal   *prometheus.CounterVec
	RevokeTotal   prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates the collectors and registers them with registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gophauth_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gophauth_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		LoginTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gophauth_login_total",
				Help: "Login attempts by result",
			},
			[]string{"result"},
		),
		RegisterTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gophauth_register_total",
				Help: "Registration attempts by result",
			},
			[]string{"result"},
		),
		VerifyTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gophauth_token_verify_total",
				Help: "Token verifications by status",
			},
			[]string{"status"},
		),
		RevokeTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "gophauth_token_revoke_total",
				Help: "Tokens revoked on logout",
			},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.LoginTotal,
		m.RegisterTotal,
		m.VerifyTotal,
		m.RevokeTotal,
	)

	return m
}

func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveLogin(result string) {
	if m == nil {
		return
	}
	m.LoginTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRegister(result string) {
	if m == nil {
		return
	}
	m.RegisterTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveVerify(status string) {
	if m == nil {
		return
	}
	m.VerifyTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveRevoke() {
	if m == nil {
		return
	}
	m.RevokeTotal.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
