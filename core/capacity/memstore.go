// Package capacity - In-memory day store.
// Backs tests and CLI dry runs; the mutex provides the same
// serialization the SQLite store gets from single-statement upserts.
package capacity

import (
	"context"
	"sync"
	"time"

	"shopquote/core/types"
)

type dayKey struct {
	machineID string
	day       time.Time
}

// MemStore is a mutex-guarded in-memory DayStore
type MemStore struct {
	mu   sync.Mutex
	days map[dayKey]types.CapacityDay
}

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{days: make(map[dayKey]types.CapacityDay)}
}

// Seed inserts or replaces a day record
func (s *MemStore) Seed(day types.CapacityDay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	day.Day = types.DateOnly(day.Day)
	s.days[dayKey{day.MachineID, day.Day}] = day
}

// Days implements DayStore
func (s *MemStore) Days(_ context.Context, machineID string, from, to time.Time) ([]types.CapacityDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []types.CapacityDay
	for k, d := range s.days {
		if k.machineID != machineID {
			continue
		}
		if k.day.Before(from) || k.day.After(to) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// ReserveMinutes implements DayStore with an atomic read-modify-write
// under the store mutex
func (s *MemStore) ReserveMinutes(_ context.Context, machineID string, day time.Time, minutes, defaultAvailable float64) (types.CapacityDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dayKey{machineID, types.DateOnly(day)}
	rec, ok := s.days[key]
	if !ok {
		rec = types.CapacityDay{
			MachineID:        machineID,
			Day:              key.day,
			MinutesAvailable: defaultAvailable,
		}
	}
	rec.MinutesReserved += minutes
	s.days[key] = rec
	return rec, nil
}
