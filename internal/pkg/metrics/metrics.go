// Package metrics holds the Prometheus collectors the service exports on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	CheckoutSessions *prometheus.CounterVec
	WebhookEvents    *prometheus.CounterVec
	BookingsSaved    *prometheus.CounterVec
	StatusLookups    *prometheus.CounterVec
	AdminMutations   *prometheus.CounterVec
	Subscriptions    prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CheckoutSessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "viewminder",
			Name:      "checkout_sessions_total",
			Help:      "Checkout session requests by outcome.",
		}, []string{"outcome"}),
		WebhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "viewminder",
			Name:      "webhook_events_total",
			Help:      "Payment webhook deliveries by event type and outcome.",
		}, []string{"type", "outcome"}),
		BookingsSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "viewminder",
			Name:      "bookings_saved_total",
			Help:      "Booking persistence attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		StatusLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "viewminder",
			Name:      "status_lookups_total",
			Help:      "Customer status lookups by outcome.",
		}, []string{"outcome"}),
		AdminMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "viewminder",
			Name:      "admin_mutations_total",
			Help:      "Admin writes by operation and outcome.",
		}, []string{"op", "outcome"}),
		Subscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "viewminder",
			Name:      "status_subscriptions",
			Help:      "Open status subscriptions.",
		}),
	}
	reg.MustRegister(
		m.CheckoutSessions,
		m.WebhookEvents,
		m.BookingsSaved,
		m.StatusLookups,
		m.AdminMutations,
		m.Subscriptions,
	)
	return m
}

// NewNop returns collectors registered with a throwaway registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
