// cmd/server/seed.go
package main

import (
	"errors"

	"go.uber.org/zap"

	"github.com/avanishpal143/Robotic-backend/internal/catalog"
	"github.com/avanishpal143/Robotic-backend/internal/data"
)

// seed registers the demo fleet and the standard metric set so the
// synthetic generator has something to drive on a fresh start.
func seed(cat *catalog.MetricCatalog, devices *catalog.DeviceDirectory, log *zap.Logger) {
	fleet := []struct{ name, model string }{
		{"ORo-Alpha-001", "ORo-V1"},
		{"ORo-Beta-002", "ORo-V2"},
		{"ORo-Gamma-003", "ORo-V1"},
	}
	for _, d := range fleet {
		dev := devices.Register(d.name, d.model)
		log.Info("seeded device", zap.String("device_id", dev.DeviceID), zap.String("name", d.name))
	}

	metrics := []struct{ name, unit string }{
		{"battery", "%"},
		{"temperature", "°C"},
		{"task_count", "count"},
		{"status", "status"},
	}
	for _, m := range metrics {
		if _, err := cat.Register(m.name, m.unit); err != nil && !errors.Is(err, data.ErrDuplicateMetric) {
			log.Warn("seed metric failed", zap.String("name", m.name), zap.Error(err))
		}
	}
	log.Info("seed complete",
		zap.Int("devices", len(fleet)), zap.Int("metrics", len(metrics)))
}
