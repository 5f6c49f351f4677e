// Package metrics provides Prometheus metrics for the session manager.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Refresh results.
const (
	RefreshSuccess = "success"
	RefreshDenied  = "denied"
	RefreshFailed  = "failed"
)

// Metrics holds the session metrics on a private registry, so several
// managers (tests, mostly) never collide on registration.
type Metrics struct {
	enabled  bool
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	refreshTotal    *prometheus.CounterVec
	replaysTotal    prometheus.Counter
	refreshWaiters  prometheus.Counter
	refreshDuration prometheus.Histogram
	sessionState    prometheus.Gauge
}

// New creates the metrics. If enabled is false, every Record method is a no-op.
func New(enabled bool) *Metrics {
	m := &Metrics{enabled: enabled}
	if !enabled {
		return m
	}

	m.registry = prometheus.NewRegistry()
	f := promauto.With(m.registry)

	m.requestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "learnsphere_session_requests_total",
		Help: "Authenticated requests by outcome",
	}, []string{"outcome"})

	m.refreshTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "learnsphere_session_refresh_total",
		Help: "Calls to the refresh endpoint by result",
	}, []string{"result"})

	m.replaysTotal = f.NewCounter(prometheus.CounterOpts{
		Name: "learnsphere_session_replays_total",
		Help: "Requests re-issued after a credential change",
	})

	m.refreshWaiters = f.NewCounter(prometheus.CounterOpts{
		Name: "learnsphere_session_refresh_waiters_total",
		Help: "Requests that joined a refresh started by another request",
	})

	m.refreshDuration = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "learnsphere_session_refresh_duration_seconds",
		Help:    "Refresh call duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	m.sessionState = f.NewGauge(prometheus.GaugeOpts{
		Name: "learnsphere_session_state",
		Help: "Current session state (see session.State)",
	})

	return m
}

// Registry exposes the private registry, nil when disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordRequest(outcome string) {
	if !m.enabled {
		return
	}
	m.requestsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordRefresh(result string, durationSeconds float64) {
	if !m.enabled {
		return
	}
	m.refreshTotal.WithLabelValues(result).Inc()
	m.refreshDuration.Observe(durationSeconds)
}

func (m *Metrics) RecordReplay() {
	if !m.enabled {
		return
	}
	m.replaysTotal.Inc()
}

func (m *Metrics) RecordWaiter() {
	if !m.enabled {
		return
	}
	m.refreshWaiters.Inc()
}

func (m *Metrics) SetState(state int) {
	if !m.enabled {
		return
	}
	m.sessionState.Set(float64(state))
}

// RefreshCount returns the number of refresh calls with the given result.
func (m *Metrics) RefreshCount(result string) float64 {
	if !m.enabled {
		return 0
	}
	return counterValue(m.refreshTotal.WithLabelValues(result))
}

// ReplayCount returns the number of replays recorded so far.
func (m *Metrics) ReplayCount() float64 {
	if !m.enabled {
		return 0
	}
	return counterValue(m.replaysTotal)
}

// WaiterCount returns how many requests joined a refresh started by another.
func (m *Metrics) WaiterCount() float64 {
	if !m.enabled {
		return 0
	}
	return counterValue(m.refreshWaiters)
}
