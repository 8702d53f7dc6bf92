// internal/catalog/catalog.go

// Package catalog holds the metric catalog and the device directory.
// Both are in-memory lookup structures guarded by a mutex; definitions
// are immutable once registered.
package catalog

import (
	"sync"

	"github.com/google/uuid"

	"github.com/avanishpal143/Robotic-backend/internal/data"
)

// MetricCatalog is the set of known metric definitions.
type MetricCatalog struct {
	mu      sync.RWMutex
	byID    map[string]data.MetricDefinition
	byName  map[string]string // metric_name -> metric_id
	ordered []string          // registration order, for stable listing
}

func NewMetricCatalog() *MetricCatalog {
	return &MetricCatalog{
		byID:   make(map[string]data.MetricDefinition),
		byName: make(map[string]string),
	}
}

// Register adds a metric definition under a fresh id. Names must be
// unique: they key validation rules and summary entries, so a second
// registration of the same name returns ErrDuplicateMetric.
func (c *MetricCatalog) Register(name, unit string) (data.MetricDefinition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byName[name]; exists {
		return data.MetricDefinition{}, data.ErrDuplicateMetric
	}

	def := data.MetricDefinition{
		MetricID:   uuid.NewString(),
		MetricName: name,
		MetricUnit: unit,
	}
	c.byID[def.MetricID] = def
	c.byName[name] = def.MetricID
	c.ordered = append(c.ordered, def.MetricID)
	return def, nil
}

// List returns all known metrics in registration order.
func (c *MetricCatalog) List() []data.MetricDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]data.MetricDefinition, 0, len(c.ordered))
	for _, id := range c.ordered {
		out = append(out, c.byID[id])
	}
	return out
}

// Lookup resolves a metric id, returning ErrMetricNotFound when the id
// is unknown.
func (c *MetricCatalog) Lookup(metricID string) (data.MetricDefinition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	def, ok := c.byID[metricID]
	if !ok {
		return data.MetricDefinition{}, data.ErrMetricNotFound
	}
	return def, nil
}
