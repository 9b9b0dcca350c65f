// Package metrics exposes Prometheus counters for the session lifecycle.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "auth"

// AuthMetrics implements ports.SessionMetrics.
type AuthMetrics struct {
	guard   *prometheus.CounterVec
	refresh *prometheus.CounterVec
	issued  prometheus.Counter
	revoked prometheus.Counter
}

func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	factory := promauto.With(reg)

	return &AuthMetrics{
		guard: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guard_decisions_total",
			Help:      "Access token checks by result.",
		}, []string{"result"}),
		refresh: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_total",
			Help:      "Refresh attempts by result.",
		}, []string{"result"}),
		issued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_issued_total",
			Help:      "Sessions created at signup or signin.",
		}),
		revoked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_revoked_total",
			Help:      "Logout calls.",
		}),
	}
}

func (m *AuthMetrics) ObserveGuard(result string)   { m.guard.WithLabelValues(result).Inc() }
func (m *AuthMetrics) ObserveRefresh(result string) { m.refresh.WithLabelValues(result).Inc() }
func (m *AuthMetrics) SessionIssued()               { m.issued.Inc() }
func (m *AuthMetrics) SessionRevoked()              { m.revoked.Inc() }

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
