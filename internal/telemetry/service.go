// internal/telemetry/service.go

// Package telemetry wires the ingest path together: catalog lookup,
// validation, storage and subscriber fan-out. It is the single entry
// point for writing samples, whether they arrive over HTTP or from the
// synthetic generator.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/avanishpal143/Robotic-backend/internal/catalog"
	"github.com/avanishpal143/Robotic-backend/internal/data"
	"github.com/avanishpal143/Robotic-backend/internal/metric"
	"github.com/avanishpal143/Robotic-backend/internal/storage"
	"github.com/avanishpal143/Robotic-backend/internal/summary"
	"github.com/avanishpal143/Robotic-backend/internal/validation"
	"github.com/avanishpal143/Robotic-backend/internal/websocket"
)

type Service struct {
	catalog   *catalog.MetricCatalog
	devices   *catalog.DeviceDirectory
	store     storage.Store
	validator *validation.Validator
	hub       *websocket.Hub
	metrics   *metric.Metrics
	log       *zap.Logger

	// strict rejects samples referencing unknown device or metric ids;
	// permissive stores them as-is.
	strict        bool
	defaultLimit  int
	commandsLimit int
}

func NewService(
	cat *catalog.MetricCatalog,
	devices *catalog.DeviceDirectory,
	store storage.Store,
	validator *validation.Validator,
	hub *websocket.Hub,
	m *metric.Metrics,
	log *zap.Logger,
	strict bool,
	defaultLimit, commandsLimit int,
) *Service {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	if commandsLimit <= 0 {
		commandsLimit = 5
	}
	return &Service{
		catalog:       cat,
		devices:       devices,
		store:         store,
		validator:     validator,
		hub:           hub,
		metrics:       m,
		log:           log,
		strict:        strict,
		defaultLimit:  defaultLimit,
		commandsLimit: commandsLimit,
	}
}

// Ingest validates and stores one sample, then notifies subscribers of
// the sample's device. On rejection nothing is stored. Delivery to
// subscribers is best-effort and never fails the ingest.
func (s *Service) Ingest(ctx context.Context, deviceID, metricID, value string) (data.Sample, error) {
	def, err := s.catalog.Lookup(metricID)
	if err != nil {
		if s.strict {
			s.metrics.SamplesIngested.WithLabelValues(metric.ResultNotFound).Inc()
			return data.Sample{}, err
		}
		// Permissive: store the sample without validation or fan-out;
		// there is no definition to enrich the event with.
		return s.appendOnly(ctx, deviceID, metricID, value)
	}

	if s.strict {
		if _, err := s.devices.Lookup(deviceID); err != nil {
			s.metrics.SamplesIngested.WithLabelValues(metric.ResultNotFound).Inc()
			return data.Sample{}, err
		}
	}

	if err := s.validator.Validate(def, value); err != nil {
		s.metrics.SamplesIngested.WithLabelValues(metric.ResultRejected).Inc()
		return data.Sample{}, err
	}

	sample := data.Sample{
		DeviceID:   deviceID,
		MetricID:   metricID,
		Value:      value,
		RecordedAt: time.Now().UTC(),
	}
	if err := s.store.Append(ctx, sample); err != nil {
		s.metrics.SamplesIngested.WithLabelValues(metric.ResultError).Inc()
		return data.Sample{}, fmt.Errorf("store sample: %w", err)
	}
	s.metrics.SamplesIngested.WithLabelValues(metric.ResultAccepted).Inc()

	s.hub.NotifyTelemetry(data.TelemetryEvent{
		DeviceID:   sample.DeviceID,
		MetricName: def.MetricName,
		MetricUnit: def.MetricUnit,
		Value:      sample.Value,
		RecordedAt: sample.RecordedAt,
	})
	return sample, nil
}

func (s *Service) appendOnly(ctx context.Context, deviceID, metricID, value string) (data.Sample, error) {
	sample := data.Sample{
		DeviceID:   deviceID,
		MetricID:   metricID,
		Value:      value,
		RecordedAt: time.Now().UTC(),
	}
	if err := s.store.Append(ctx, sample); err != nil {
		s.metrics.SamplesIngested.WithLabelValues(metric.ResultError).Inc()
		return data.Sample{}, fmt.Errorf("store sample: %w", err)
	}
	s.metrics.SamplesIngested.WithLabelValues(metric.ResultAccepted).Inc()
	return sample, nil
}

// Recent returns up to limit samples for a device, newest first, each
// joined with its metric name and unit. A non-positive limit falls
// back to the configured default.
func (s *Service) Recent(ctx context.Context, deviceID string, limit int) ([]data.EnrichedSample, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	samples, err := s.store.Recent(ctx, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent samples: %w", err)
	}

	out := make([]data.EnrichedSample, 0, len(samples))
	for _, sm := range samples {
		es := data.EnrichedSample{Sample: sm}
		if def, err := s.catalog.Lookup(sm.MetricID); err == nil {
			es.MetricName = def.MetricName
			es.MetricUnit = def.MetricUnit
		}
		out = append(out, es)
	}
	return out, nil
}

// Summary computes per-metric statistics for a device over everything
// stored, one entry per catalog metric including those with no samples.
func (s *Service) Summary(ctx context.Context, deviceID string) (map[string]data.MetricSummary, error) {
	samples, err := s.store.All(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	return summary.Summarize(s.catalog.List(), samples), nil
}

// Command dispatches a mock command to a device and logs the outcome.
// Execution is simulated: it fails twenty percent of the time.
func (s *Service) Command(ctx context.Context, deviceID, commandName string) (data.CommandLog, error) {
	if s.strict {
		if _, err := s.devices.Lookup(deviceID); err != nil {
			return data.CommandLog{}, err
		}
	}

	status := "success"
	if rand.Float64() <= 0.2 {
		status = "failed"
	}
	entry := data.CommandLog{
		DeviceID:    deviceID,
		CommandName: commandName,
		Status:      status,
		IssuedAt:    time.Now().UTC(),
	}
	if err := s.store.AppendCommand(ctx, entry); err != nil {
		return data.CommandLog{}, fmt.Errorf("store command log: %w", err)
	}
	return entry, nil
}

// RecentCommands returns the latest command-log entries for a device,
// newest first, capped at the configured command log limit.
func (s *Service) RecentCommands(ctx context.Context, deviceID string) ([]data.CommandLog, error) {
	entries, err := s.store.RecentCommands(ctx, deviceID, s.commandsLimit)
	if err != nil {
		return nil, fmt.Errorf("query command log: %w", err)
	}
	return entries, nil
}

// IsNotFound reports whether err is a device or metric lookup failure.
func IsNotFound(err error) bool {
	return errors.Is(err, data.ErrMetricNotFound) || errors.Is(err, data.ErrDeviceNotFound)
}
