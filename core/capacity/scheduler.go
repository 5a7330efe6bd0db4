// Package capacity finds and reserves machine capacity in a rolling
// day window. The scheduler itself is stateless; all mutation happens
// through the DayStore, whose implementation must make the reserve
// increment atomic (see db.CapacityStore).
package capacity

import (
	"context"
	"time"

	"go.uber.org/zap"

	"shopquote/internal/logging"

	"shopquote/core/types"
)

// DayStore is the storage collaborator for capacity days.
// ReserveMinutes must be an atomic upsert-increment: two concurrent
// reservations of the same machine/day must both be applied.
type DayStore interface {
	// Days returns existing records for a machine between from and to
	// inclusive. Days with no record are simply absent.
	Days(ctx context.Context, machineID string, from, to time.Time) ([]types.CapacityDay, error)

	// ReserveMinutes increments minutes_reserved for one machine/day,
	// creating the record with defaultAvailable minutes if absent, and
	// returns the record after the increment.
	ReserveMinutes(ctx context.Context, machineID string, day time.Time, minutes, defaultAvailable float64) (types.CapacityDay, error)
}

// Config holds scheduling tunables
type Config struct {
	// HorizonDays is the search window length
	HorizonDays int

	// StandardOffsetDays is the first searchable day for standard lead time
	StandardOffsetDays int

	// ExpediteOffsetDays is the first searchable day for expedite lead time
	ExpediteOffsetDays int

	// DefaultDayMinutes is the capacity assumed for days with no record
	DefaultDayMinutes float64
}

// DefaultConfig returns the standard 30-day window
func DefaultConfig() Config {
	return Config{
		HorizonDays:        30,
		StandardOffsetDays: 3,
		ExpediteOffsetDays: 1,
		DefaultDayMinutes:  480,
	}
}

// Slot is a found capacity slot
type Slot struct {
	// Day is the promised production day
	Day time.Time `json:"day"`

	// Existing is the current day record, if one exists
	Existing *types.CapacityDay `json:"existing,omitempty"`

	// Fallback is true when no day in the horizon had room and the
	// last horizon day was returned pessimistically
	Fallback bool `json:"fallback,omitempty"`
}

// Scheduler searches and commits machine capacity
type Scheduler struct {
	store DayStore
	cfg   Config
	log   *zap.Logger

	// now is injectable for tests
	now func() time.Time
}

// New creates a scheduler over a day store
func New(store DayStore, cfg Config) *Scheduler {
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = 30
	}
	if cfg.DefaultDayMinutes <= 0 {
		cfg.DefaultDayMinutes = 480
	}
	return &Scheduler{
		store: store,
		cfg:   cfg,
		log:   logging.With(zap.String("component", "capacity")),
		now:   time.Now,
	}
}

// FindSlot returns the earliest day in the window with enough
// uncommitted capacity. Scheduling degrades instead of blocking: if no
// day qualifies, the last day of the horizon comes back as a
// pessimistic fallback, never an error.
func (s *Scheduler) FindSlot(ctx context.Context, machineID string, minutesRequired float64, lead types.LeadTimeClass) (Slot, error) {
	start := types.DateOnly(s.now()).AddDate(0, 0, s.offsetFor(lead))
	end := start.AddDate(0, 0, s.cfg.HorizonDays-1)

	records, err := s.store.Days(ctx, machineID, start, end)
	if err != nil {
		return Slot{}, err
	}
	byDay := make(map[time.Time]types.CapacityDay, len(records))
	for _, r := range records {
		byDay[types.DateOnly(r.Day)] = r
	}

	for i := 0; i < s.cfg.HorizonDays; i++ {
		day := start.AddDate(0, 0, i)
		if rec, ok := byDay[day]; ok {
			if rec.Remaining() >= minutesRequired {
				existing := rec
				return Slot{Day: day, Existing: &existing}, nil
			}
			continue
		}
		if s.cfg.DefaultDayMinutes >= minutesRequired {
			return Slot{Day: day}, nil
		}
	}

	s.log.Warn("no capacity in horizon, returning pessimistic fallback",
		zap.String("machine", machineID),
		zap.Float64("minutes", minutesRequired))
	slot := Slot{Day: end, Fallback: true}
	if rec, ok := byDay[end]; ok {
		existing := rec
		slot.Existing = &existing
	}
	return slot, nil
}

// Reserve finds a slot and commits the requested minutes against it,
// returning the promised ship date. The increment is delegated to the
// store, which serializes concurrent reservations of the same day.
func (s *Scheduler) Reserve(ctx context.Context, machineID string, minutes float64, lead types.LeadTimeClass) (time.Time, error) {
	slot, err := s.FindSlot(ctx, machineID, minutes, lead)
	if err != nil {
		return time.Time{}, err
	}

	rec, err := s.store.ReserveMinutes(ctx, machineID, slot.Day, minutes, s.cfg.DefaultDayMinutes)
	if err != nil {
		return time.Time{}, err
	}

	s.log.Info("capacity reserved",
		zap.String("machine", machineID),
		zap.Time("day", rec.Day),
		zap.Float64("minutes", minutes),
		zap.Float64("reserved_total", rec.MinutesReserved))
	return slot.Day, nil
}

func (s *Scheduler) offsetFor(lead types.LeadTimeClass) int {
	if lead == types.LeadExpedite {
		if s.cfg.ExpediteOffsetDays > 0 {
			return s.cfg.ExpediteOffsetDays
		}
		return 1
	}
	if s.cfg.StandardOffsetDays > 0 {
		return s.cfg.StandardOffsetDays
	}
	return 3
}
