// internal/storage/memory.go
package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/avanishpal143/Robotic-backend/internal/data"
)

// MemoryStore keeps samples and command logs in per-device slices.
// Each device keeps at most capacity samples; the oldest are evicted
// when the cap is reached so the process stays bounded under the
// generator's continuous writes.
type MemoryStore struct {
	mu       sync.RWMutex
	samples  map[string][]data.Sample
	commands map[string][]data.CommandLog
	capacity int
}

func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemoryStore{
		samples:  make(map[string][]data.Sample),
		commands: make(map[string][]data.CommandLog),
		capacity: capacity,
	}
}

func (s *MemoryStore) Append(_ context.Context, sample data.Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := s.samples[sample.DeviceID]
	if len(buf) >= s.capacity {
		buf = buf[1:]
	}
	s.samples[sample.DeviceID] = append(buf, sample)
	return nil
}

func (s *MemoryStore) Recent(_ context.Context, deviceID string, limit int) ([]data.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buf := s.samples[deviceID]
	out := make([]data.Sample, len(buf))
	copy(out, buf)

	// Newest first; equal timestamps keep insertion order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) All(_ context.Context, deviceID string) ([]data.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buf := s.samples[deviceID]
	out := make([]data.Sample, len(buf))
	copy(out, buf)
	return out, nil
}

func (s *MemoryStore) AppendCommand(_ context.Context, c data.CommandLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := s.commands[c.DeviceID]
	if len(buf) >= s.capacity {
		buf = buf[1:]
	}
	s.commands[c.DeviceID] = append(buf, c)
	return nil
}

func (s *MemoryStore) RecentCommands(_ context.Context, deviceID string, limit int) ([]data.CommandLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buf := s.commands[deviceID]
	out := make([]data.CommandLog, len(buf))
	copy(out, buf)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IssuedAt.After(out[j].IssuedAt)
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
