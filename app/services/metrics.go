package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AuthEvents counts admin session operations by outcome
var AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "admin_auth_events_total",
	Help: "Admin session operations by operation and outcome",
}, []string{"operation", "outcome"})

// RecordAuthEvent increments AuthEvents
func RecordAuthEvent(operation, outcome string) {
	AuthEvents.WithLabelValues(operation, outcome).Inc()
}
