// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package event

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values for published events.
const (
	OutcomeDelivered = "delivered"
	OutcomeCancelled = "cancelled"
)

// Publishes counts published events by final outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var Publishes = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "waymark_event_publishes_total",
		Help: "Total number of published events by type, policy and outcome",
	},
	[]string{"event_type", "policy", "outcome"},
)

// SubscriberFaults counts errors and panics raised by subscribers.
var SubscriberFaults = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "waymark_event_subscriber_faults_total",
		Help: "Total number of subscriber faults by event type and subscriber",
	},
	[]string{"event_type", "subscriber"},
)

// SkippedSubscribers counts subscribers not invoked because an earlier link
// of a short-circuit chain cancelled the event.
var SkippedSubscribers = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "waymark_event_skipped_subscribers_total",
		Help: "Total number of subscribers skipped by short-circuit dispatch",
	},
	[]string{"event_type"},
)

// DispatchDuration observes how long a publish takes end to end.
var DispatchDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "waymark_event_dispatch_duration_seconds",
		Help:    "Event dispatch duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	},
	[]string{"event_type"},
)

// RegisterMetrics registers event bus metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Publishes)
	reg.MustRegister(SubscriberFaults)
	reg.MustRegister(SkippedSubscribers)
	reg.MustRegister(DispatchDuration)
}

func recordPublish(typ Type, policy Policy, cancelled bool, d time.Duration) {
	outcome := OutcomeDelivered
	if cancelled {
		outcome = OutcomeCancelled
	}
	Publishes.WithLabelValues(string(typ), policy.String(), outcome).Inc()
	DispatchDuration.WithLabelValues(string(typ)).Observe(d.Seconds())
}

func recordFault(typ Type, subscriber string) {
	SubscriberFaults.WithLabelValues(string(typ), subscriber).Inc()
}

func recordShortCircuit(typ Type, skipped int) {
	if skipped <= 0 {
		return
	}
	SkippedSubscribers.WithLabelValues(string(typ)).Add(float64(skipped))
}
