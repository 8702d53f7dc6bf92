// internal/data/errors.go
package data

import (
	"errors"
	"fmt"
)

// Standard error variables returned by the catalog, directory and
// ingestion paths. Handlers map them to HTTP status codes.
var (
	ErrMetricNotFound  = errors.New("metric not found")
	ErrDeviceNotFound  = errors.New("device not found")
	ErrDuplicateMetric = errors.New("metric name already registered")
)

// ValidationError reports a sample value that failed the domain rule
// for its metric. The sample is not stored; the caller must resubmit a
// corrected value.
type ValidationError struct {
	MetricName string
	Value      string
	Reason     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value %q for metric %s: %s", e.Value, e.MetricName, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
