// internal/summary/aggregator.go

// Package summary computes per-device, per-metric statistics from the
// stored samples on request. Nothing here is persisted.
package summary

import (
	"math"
	"strconv"

	"github.com/avanishpal143/Robotic-backend/internal/data"
)

// Summarize produces one entry per metric definition, keyed by metric
// name. Metrics with no samples for the device still appear with a
// zero count and nil statistics. Samples whose value does not parse as
// a number count toward Count and may be Latest, but are excluded from
// Average/Min/Max.
func Summarize(metrics []data.MetricDefinition, samples []data.Sample) map[string]data.MetricSummary {
	byMetric := make(map[string][]data.Sample)
	for _, s := range samples {
		byMetric[s.MetricID] = append(byMetric[s.MetricID], s)
	}

	out := make(map[string]data.MetricSummary, len(metrics))
	for _, m := range metrics {
		out[m.MetricName] = summarizeMetric(m, byMetric[m.MetricID])
	}
	return out
}

func summarizeMetric(m data.MetricDefinition, samples []data.Sample) data.MetricSummary {
	entry := data.MetricSummary{
		MetricUnit: m.MetricUnit,
		Count:      len(samples),
	}
	if len(samples) == 0 {
		return entry
	}

	// First-encountered sample wins on a recorded_at tie.
	latest := samples[0]
	for _, s := range samples[1:] {
		if s.RecordedAt.After(latest.RecordedAt) {
			latest = s
		}
	}
	entry.Latest = &latest.Value
	ts := latest.RecordedAt
	entry.LatestTimestamp = &ts

	var sum, min, max float64
	n := 0
	for _, s := range samples {
		f, err := strconv.ParseFloat(s.Value, 64)
		if err != nil {
			continue
		}
		if n == 0 || f < min {
			min = f
		}
		if n == 0 || f > max {
			max = f
		}
		sum += f
		n++
	}
	if n > 0 {
		avg := math.Round(sum/float64(n)*100) / 100
		entry.Average = &avg
		entry.Min = &min
		entry.Max = &max
	}
	return entry
}
