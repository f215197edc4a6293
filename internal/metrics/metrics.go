package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the planner service collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Commands *prometheus.CounterVec
	Rejected *prometheus.CounterVec
	Sessions prometheus.Gauge
	Clients  prometheus.Gauge
	Links    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planner",
			Name:      "commands_total",
			Help:      "Commands applied to planning sessions, by type.",
		}, []string{"type"}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planner",
			Name:      "commands_rejected_total",
			Help:      "Commands rejected as malformed, by type.",
		}, []string{"type"}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "planner",
			Name:      "sessions",
			Help:      "Live planning sessions.",
		}),
		Clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "planner",
			Name:      "clients",
			Help:      "Connected websocket clients.",
		}),
		Links: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planner",
			Name:      "links_total",
			Help:      "Share links stored or resolved, by operation.",
		}, []string{"op"}),
	}
	m.registry.MustRegister(m.Commands, m.Rejected, m.Sessions, m.Clients, m.Links)
	return m
}

func (m *Metrics) CommandApplied(cmdType string) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(cmdType).Inc()
}

func (m *Metrics) CommandRejected(cmdType string) {
	if m == nil {
		return
	}
	m.Rejected.WithLabelValues(cmdType).Inc()
}

func (m *Metrics) SessionOpened() {
	if m != nil {
		m.Sessions.Inc()
	}
}

func (m *Metrics) SessionClosed() {
	if m != nil {
		m.Sessions.Dec()
	}
}

func (m *Metrics) ClientJoined() {
	if m != nil {
		m.Clients.Inc()
	}
}

func (m *Metrics) ClientLeft() {
	if m != nil {
		m.Clients.Dec()
	}
}

func (m *Metrics) Link(op string) {
	if m != nil {
		m.Links.WithLabelValues(op).Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
