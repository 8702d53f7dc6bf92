// internal/storage/sqlite.go
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/avanishpal143/Robotic-backend/internal/data"
)

// SQLiteStore persists samples and command logs in a local SQLite
// file. The modernc.org driver is pure Go and needs no CGO.
type SQLiteStore struct {
	db  *sql.DB
	log *zap.Logger
}

// NewSQLiteStore opens (or creates) the database at dbPath and applies
// the schema migration. The caller must Close() at shutdown.
func NewSQLiteStore(dbPath string, log *zap.Logger) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_fk=1", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	s := &SQLiteStore{db: db, log: log}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migration: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	const stmt = `
CREATE TABLE IF NOT EXISTS telemetry (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    device_id   TEXT NOT NULL,
    metric_id   TEXT NOT NULL,
    value       TEXT NOT NULL,
    recorded_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_telemetry_device_ts ON telemetry(device_id, recorded_at DESC);

CREATE TABLE IF NOT EXISTS command_log (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    device_id    TEXT NOT NULL,
    command_name TEXT NOT NULL,
    status       TEXT NOT NULL,
    issued_at    DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_command_log_device_ts ON command_log(device_id, issued_at DESC);
`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	s.log.Info("sqlite migration applied")
	return nil
}

func (s *SQLiteStore) Append(ctx context.Context, sample data.Sample) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO telemetry (device_id, metric_id, value, recorded_at) VALUES (?, ?, ?, ?)`,
		sample.DeviceID, sample.MetricID, sample.Value, sample.RecordedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Recent(ctx context.Context, deviceID string, limit int) ([]data.Sample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT device_id, metric_id, value, recorded_at
		   FROM telemetry WHERE device_id = ?
		  ORDER BY recorded_at DESC, id DESC LIMIT ?`,
		deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent samples: %w", err)
	}
	defer rows.Close()
	return scanSamples(rows)
}

func (s *SQLiteStore) All(ctx context.Context, deviceID string) ([]data.Sample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT device_id, metric_id, value, recorded_at FROM telemetry WHERE device_id = ?`,
		deviceID)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()
	return scanSamples(rows)
}

func scanSamples(rows *sql.Rows) ([]data.Sample, error) {
	var out []data.Sample
	for rows.Next() {
		var sm data.Sample
		if err := rows.Scan(&sm.DeviceID, &sm.MetricID, &sm.Value, &sm.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AppendCommand(ctx context.Context, c data.CommandLog) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO command_log (device_id, command_name, status, issued_at) VALUES (?, ?, ?, ?)`,
		c.DeviceID, c.CommandName, c.Status, c.IssuedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert command log: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RecentCommands(ctx context.Context, deviceID string, limit int) ([]data.CommandLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT device_id, command_name, status, issued_at
		   FROM command_log WHERE device_id = ?
		  ORDER BY issued_at DESC, id DESC LIMIT ?`,
		deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("query command log: %w", err)
	}
	defer rows.Close()

	var out []data.CommandLog
	for rows.Next() {
		var c data.CommandLog
		if err := rows.Scan(&c.DeviceID, &c.CommandName, &c.Status, &c.IssuedAt); err != nil {
			return nil, fmt.Errorf("scan command log: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
