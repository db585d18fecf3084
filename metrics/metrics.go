// Package metrics exposes Prometheus counters for session refreshes and
// gateway outcomes. A nil *Metrics records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess      = "success"
	OutcomeFailure      = "failure"
	OutcomeSkipped      = "skipped"
	OutcomeError        = "error"
	OutcomeUnauthorized = "unauthorized"
	OutcomeExpired      = "expired"
)

type Metrics struct {
	refresh      *prometheus.CounterVec
	requests     *prometheus.CounterVec
	unauthorized prometheus.Counter
}

// New registers the collectors on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		refresh: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gosession_refresh_total",
			Help: "Session refresh attempts by outcome.",
		}, []string{"outcome"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gosession_gateway_requests_total",
			Help: "Gateway requests by outcome.",
		}, []string{"outcome"}),
		unauthorized: f.NewCounter(prometheus.CounterOpts{
			Name: "gosession_gateway_unauthorized_total",
			Help: "Responses with status 401 that cleared the session.",
		}),
	}
}

func (m *Metrics) Refresh(outcome string) {
	if m == nil {
		return
	}
	m.refresh.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Request(outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Unauthorized() {
	if m == nil {
		return
	}
	m.unauthorized.Inc()
}
