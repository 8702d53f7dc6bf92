// internal/metric/metrics.go

// Package metric holds the service's prometheus instrumentation.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all service-level counters and gauges.
type Metrics struct {
	SamplesIngested  *prometheus.CounterVec // by result: accepted, rejected, not_found, error
	EventsDelivered  prometheus.Counter
	EventsDropped    prometheus.Counter
	SubscribersGauge prometheus.Gauge
	GeneratorTicks   prometheus.Counter
}

// New creates the metric set and registers it with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SamplesIngested: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "robotic",
				Subsystem: "telemetry",
				Name:      "samples_ingested_total",
				Help:      "Telemetry samples processed, by result",
			},
			[]string{"result"},
		),
		EventsDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "robotic",
			Subsystem: "broadcast",
			Name:      "events_delivered_total",
			Help:      "Telemetry events delivered to subscriber queues",
		}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "robotic",
			Subsystem: "broadcast",
			Name:      "events_dropped_total",
			Help:      "Telemetry events dropped because a subscriber queue was full",
		}),
		SubscribersGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "robotic",
			Subsystem: "broadcast",
			Name:      "connected_clients",
			Help:      "Currently connected WebSocket clients",
		}),
		GeneratorTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "robotic",
			Subsystem: "generator",
			Name:      "ticks_total",
			Help:      "Synthetic generator ticks completed",
		}),
	}

	reg.MustRegister(
		m.SamplesIngested,
		m.EventsDelivered,
		m.EventsDropped,
		m.SubscribersGauge,
		m.GeneratorTicks,
	)
	return m
}

// Result labels for SamplesIngested.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
	ResultNotFound = "not_found"
	ResultError    = "error"
)
