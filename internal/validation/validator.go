// internal/validation/validator.go

// Package validation decides whether a raw telemetry value is
// acceptable for its metric. Rules are keyed by metric name and come
// from configuration; metrics without a rule accept any non-empty
// string, which covers categorical metrics like status.
package validation

import (
	"fmt"
	"strconv"

	"github.com/avanishpal143/Robotic-backend/internal/config"
	"github.com/avanishpal143/Robotic-backend/internal/data"
)

type Validator struct {
	rules map[string]config.Rule
}

func New(rules map[string]config.Rule) *Validator {
	if rules == nil {
		rules = make(map[string]config.Rule)
	}
	return &Validator{rules: rules}
}

// Validate checks rawValue against the rule for metric. It returns nil
// on acceptance and a *data.ValidationError on rejection. A value that
// does not parse as a number is rejected outright when a numeric rule
// exists for the metric.
func (v *Validator) Validate(metric data.MetricDefinition, rawValue string) error {
	if rawValue == "" {
		return &data.ValidationError{
			MetricName: metric.MetricName,
			Value:      rawValue,
			Reason:     "value must not be empty",
		}
	}

	rule, ok := v.rules[metric.MetricName]
	if !ok {
		return nil
	}

	f, err := strconv.ParseFloat(rawValue, 64)
	if err != nil {
		return &data.ValidationError{
			MetricName: metric.MetricName,
			Value:      rawValue,
			Reason:     "value is not numeric",
		}
	}
	if f < rule.Min || f > rule.Max {
		return &data.ValidationError{
			MetricName: metric.MetricName,
			Value:      rawValue,
			Reason:     fmt.Sprintf("value must be between %g and %g", rule.Min, rule.Max),
		}
	}
	return nil
}
