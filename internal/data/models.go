// internal/data/models.go
package data

import "time"

// Device is a registered robot in the fleet.
type Device struct {
	DeviceID   string    `json:"device_id"`
	DeviceName string    `json:"device_name"`
	Model      string    `json:"model"`
	CreatedAt  time.Time `json:"created_at"`
}

// MetricDefinition describes one measurable quantity devices report,
// e.g. battery level in % or a categorical status. The name doubles as
// the lookup key for validation rules.
type MetricDefinition struct {
	MetricID   string `json:"metric_id"`
	MetricName string `json:"metric_name"`
	MetricUnit string `json:"metric_unit"`
}

// Sample is one timestamped observation of a metric for a device.
// Values are stored as text so numeric and categorical metrics share
// one shape ("55", "79.9", "operational").
type Sample struct {
	DeviceID   string    `json:"device_id"`
	MetricID   string    `json:"metric_id"`
	Value      string    `json:"value"`
	RecordedAt time.Time `json:"recorded_at"`
}

// EnrichedSample is a Sample joined with its metric definition for
// query responses. Name and unit are empty when the metric id no
// longer resolves.
type EnrichedSample struct {
	Sample
	MetricName string `json:"metric_name,omitempty"`
	MetricUnit string `json:"metric_unit,omitempty"`
}

// TelemetryEvent is the payload pushed to WebSocket subscribers of a
// device whenever a new sample is accepted.
type TelemetryEvent struct {
	DeviceID   string    `json:"device_id"`
	MetricName string    `json:"metric_name"`
	MetricUnit string    `json:"metric_unit"`
	Value      string    `json:"value"`
	RecordedAt time.Time `json:"recorded_at"`
}

// MetricSummary holds derived statistics for one metric of one device.
// Average, Min and Max are nil when no sample parses as a number;
// Latest is nil when the metric has no samples at all.
type MetricSummary struct {
	MetricUnit      string     `json:"metric_unit"`
	Count           int        `json:"count"`
	Latest          *string    `json:"latest"`
	LatestTimestamp *time.Time `json:"latest_timestamp,omitempty"`
	Average         *float64   `json:"average"`
	Min             *float64   `json:"min"`
	Max             *float64   `json:"max"`
}

// CommandLog records one command dispatched to a device.
type CommandLog struct {
	DeviceID    string    `json:"device_id"`
	CommandName string    `json:"command_name"`
	Status      string    `json:"status"` // success | failed | pending
	IssuedAt    time.Time `json:"issued_at"`
}
