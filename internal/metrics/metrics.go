// Package metrics exposes Prometheus collectors for the booking board and the
// reminder engine.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Kerhoff/floristbot/internal/board"
	"github.com/Kerhoff/floristbot/internal/models"
)

const namespace = "floristbot"

// Metrics groups every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	evaluations   prometheus.Counter
	activeByLevel *prometheus.GaugeVec
	notifications *prometheus.CounterVec
	boardColumns  *prometheus.GaugeVec
	httpRequests  *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		evaluations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminder_evaluations_total",
			Help:      "Number of reminder evaluations.",
		}),
		activeByLevel: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reminders_active",
			Help:      "Active reminders from the last evaluation.",
		}, []string{"type", "priority"}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminder_notifications_total",
			Help:      "Reminder notifications pushed to chat.",
		}, []string{"type"}),
		boardColumns: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "board_events",
			Help:      "Events per kanban column from the last board build.",
		}, []string{"column"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP API requests.",
		}, []string{"method", "route", "code"}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveReminders records one evaluation and its result.
func (m *Metrics) ObserveReminders(rs []models.Reminder) {
	if m == nil {
		return
	}
	m.evaluations.Inc()
	m.activeByLevel.Reset()
	for _, r := range rs {
		m.activeByLevel.WithLabelValues(string(r.Type), string(r.Priority)).Inc()
	}
}

// ObserveBoard records column sizes.
func (m *Metrics) ObserveBoard(b *board.Board) {
	if m == nil || b == nil {
		return
	}
	for status, n := range b.Counts() {
		m.boardColumns.WithLabelValues(string(status)).Set(float64(n))
	}
}

// NotificationSent counts one pushed reminder.
func (m *Metrics) NotificationSent(r models.Reminder) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(string(r.Type)).Inc()
}

// HTTPRequest counts one API call.
func (m *Metrics) HTTPRequest(method, route string, code int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}
