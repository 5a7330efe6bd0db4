// Package capacity - Scheduler tests against the in-memory store.
package capacity

import (
	"context"
	"sync"
	"testing"
	"time"

	"shopquote/core/types"
)

var testNow = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func day(offset int) time.Time {
	return types.DateOnly(testNow).AddDate(0, 0, offset)
}

func testScheduler(store DayStore) *Scheduler {
	s := New(store, DefaultConfig())
	s.now = func() time.Time { return testNow }
	return s
}

func TestFindSlotLeadTimeOffsets(t *testing.T) {
	s := testScheduler(NewMemStore())

	slot, err := s.FindSlot(context.Background(), "vf2", 60, types.LeadStandard)
	if err != nil {
		t.Fatalf("FindSlot: %v", err)
	}
	if !slot.Day.Equal(day(3)) {
		t.Errorf("standard lead starts at day+3, got %s", slot.Day)
	}

	slot, err = s.FindSlot(context.Background(), "vf2", 60, types.LeadExpedite)
	if err != nil {
		t.Fatalf("FindSlot: %v", err)
	}
	if !slot.Day.Equal(day(1)) {
		t.Errorf("expedite lead starts at day+1, got %s", slot.Day)
	}
	if slot.Fallback {
		t.Error("empty store has room on the first day")
	}
}

func TestFindSlotSkipsFullDays(t *testing.T) {
	store := NewMemStore()
	store.Seed(types.CapacityDay{MachineID: "vf2", Day: day(3), MinutesAvailable: 480, MinutesReserved: 480})
	store.Seed(types.CapacityDay{MachineID: "vf2", Day: day(4), MinutesAvailable: 480, MinutesReserved: 430})

	s := testScheduler(store)
	slot, err := s.FindSlot(context.Background(), "vf2", 60, types.LeadStandard)
	if err != nil {
		t.Fatalf("FindSlot: %v", err)
	}
	// Day 3 is full and day 4 has only 50 minutes left; day 5 has no
	// record and defaults to a full shift.
	if !slot.Day.Equal(day(5)) {
		t.Errorf("expected first day with room, got %s", slot.Day)
	}
	if slot.Existing != nil {
		t.Error("an unrecorded day has no existing record")
	}
}

func TestFindSlotUsesPartialDay(t *testing.T) {
	store := NewMemStore()
	store.Seed(types.CapacityDay{MachineID: "vf2", Day: day(3), MinutesAvailable: 480, MinutesReserved: 400})

	s := testScheduler(store)
	slot, err := s.FindSlot(context.Background(), "vf2", 80, types.LeadStandard)
	if err != nil {
		t.Fatalf("FindSlot: %v", err)
	}
	if !slot.Day.Equal(day(3)) {
		t.Errorf("80 remaining minutes fit an 80-minute job, got %s", slot.Day)
	}
	if slot.Existing == nil || slot.Existing.MinutesReserved != 400 {
		t.Errorf("expected the existing record on the slot, got %+v", slot.Existing)
	}
}

func TestFindSlotIgnoresOtherMachines(t *testing.T) {
	store := NewMemStore()
	store.Seed(types.CapacityDay{MachineID: "other", Day: day(3), MinutesAvailable: 480, MinutesReserved: 480})

	s := testScheduler(store)
	slot, err := s.FindSlot(context.Background(), "vf2", 60, types.LeadStandard)
	if err != nil {
		t.Fatalf("FindSlot: %v", err)
	}
	if !slot.Day.Equal(day(3)) {
		t.Errorf("another machine's load must not matter, got %s", slot.Day)
	}
}

func TestFindSlotPessimisticFallback(t *testing.T) {
	s := testScheduler(NewMemStore())

	// No single day can hold more than the default shift.
	slot, err := s.FindSlot(context.Background(), "vf2", 1000, types.LeadStandard)
	if err != nil {
		t.Fatalf("FindSlot must degrade, not fail: %v", err)
	}
	if !slot.Fallback {
		t.Error("expected the pessimistic fallback flag")
	}
	if !slot.Day.Equal(day(3 + 29)) {
		t.Errorf("fallback is the last horizon day, got %s", slot.Day)
	}
}

func TestReserveCommitsMinutes(t *testing.T) {
	store := NewMemStore()
	s := testScheduler(store)

	ship, err := s.Reserve(context.Background(), "vf2", 120, types.LeadStandard)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if !ship.Equal(day(3)) {
		t.Errorf("expected ship day %s, got %s", day(3), ship)
	}

	// 360 minutes remain on day 3, so a 400-minute job moves on.
	ship, err = s.Reserve(context.Background(), "vf2", 400, types.LeadStandard)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if !ship.Equal(day(4)) {
		t.Errorf("expected spill to the next day, got %s", ship)
	}

	days, err := store.Days(context.Background(), "vf2", day(3), day(4))
	if err != nil {
		t.Fatalf("Days: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 day records, got %d", len(days))
	}
}

func TestConcurrentReservationsAllLand(t *testing.T) {
	store := NewMemStore()
	target := day(3)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.ReserveMinutes(context.Background(), "vf2", target, 10, 480); err != nil {
				t.Errorf("ReserveMinutes: %v", err)
			}
		}()
	}
	wg.Wait()

	days, err := store.Days(context.Background(), "vf2", target, target)
	if err != nil {
		t.Fatalf("Days: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("expected a single day record, got %d", len(days))
	}
	if days[0].MinutesReserved != 100 {
		t.Errorf("expected all 10 reservations applied, reserved=%v", days[0].MinutesReserved)
	}
	if days[0].MinutesAvailable != 480 {
		t.Errorf("expected default availability 480, got %v", days[0].MinutesAvailable)
	}
}
