package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avanishpal143/Robotic-backend/internal/data"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "telemetry.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_AppendAndRecent(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(ctx, sampleAt("dev-1", time.Duration(i)*time.Second)))
	}

	got, err := s.Recent(ctx, "dev-1", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].RecordedAt.After(got[2].RecordedAt))
	assert.Equal(t, "42", got[0].Value)
}

func TestSQLiteStore_AllReturnsEverySample(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	require.NoError(t, s.Append(ctx, sampleAt("dev-1", 0)))
	require.NoError(t, s.Append(ctx, sampleAt("dev-1", time.Second)))
	require.NoError(t, s.Append(ctx, sampleAt("dev-2", time.Second)))

	all, err := s.All(ctx, "dev-1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSQLiteStore_CommandLogRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.AppendCommand(ctx, data.CommandLog{
			DeviceID:    "dev-1",
			CommandName: "dock",
			Status:      "success",
			IssuedAt:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := s.RecentCommands(ctx, "dev-1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "dock", got[0].CommandName)
	assert.True(t, got[0].IssuedAt.After(got[1].IssuedAt))
}
