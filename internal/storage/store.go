// internal/storage/store.go
package storage

import (
	"context"

	"github.com/avanishpal143/Robotic-backend/internal/data"
)

// Store abstracts the telemetry and command-log persistence back-end.
// Samples are append-only: once written they are never edited.
type Store interface {
	// Append writes one sample. It performs no referential check on
	// the device or metric id; that is the ingest layer's concern.
	Append(ctx context.Context, s data.Sample) error

	// Recent returns up to limit samples for a device, newest first.
	Recent(ctx context.Context, deviceID string, limit int) ([]data.Sample, error)

	// All returns every stored sample for a device, order unspecified.
	// Aggregation input.
	All(ctx context.Context, deviceID string) ([]data.Sample, error)

	// AppendCommand writes one command-log entry.
	AppendCommand(ctx context.Context, c data.CommandLog) error

	// RecentCommands returns up to limit command-log entries for a
	// device, newest first.
	RecentCommands(ctx context.Context, deviceID string, limit int) ([]data.CommandLog, error)

	// Close releases any resources held by the back-end.
	Close() error
}
