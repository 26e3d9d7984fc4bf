package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/Dhru-Will/dayflow-hrms/internal/snapshot"
)

func fixedClock(dateHHMM string) Clock {
	t, err := time.Parse("2006-01-02 15:04", dateHHMM)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func TestTrackerFullDay(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemory()
	records := NewMemoryRecords()

	morning := NewTracker(store, records, fixedClock("2025-03-10 09:00"))
	state, rec, err := morning.CheckIn(ctx, "u1")
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if !state.IsCheckedIn || *state.CheckInTime != "09:00" {
		t.Fatalf("state after check-in: %+v", state)
	}
	if rec.Status != StatusPartial || rec.HoursWorked != 0 {
		t.Fatalf("record after check-in: %+v", rec)
	}

	// Same snapshot store, evening clock: the day continues.
	evening := NewTracker(store, records, fixedClock("2025-03-10 17:30"))
	state, rec, err = evening.CheckOut(ctx, "u1")
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if state.IsCheckedIn {
		t.Error("still checked in after check-out")
	}
	if rec.HoursWorked != 8.5 || rec.Status != StatusPresent {
		t.Errorf("final record: %+v", rec)
	}
	if *rec.CheckIn != "09:00" || *rec.CheckOut != "17:30" {
		t.Errorf("record times: %+v", rec)
	}

	history, err := evening.History(ctx, "u1", 10, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1 (upsert keyed by date)", len(history))
	}
}

func TestTrackerResetsOnNewDate(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemory()
	records := NewMemoryRecords()

	day1 := NewTracker(store, records, fixedClock("2025-03-10 09:00"))
	if _, _, err := day1.CheckIn(ctx, "u1"); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	day2 := NewTracker(store, records, fixedClock("2025-03-11 08:00"))
	state, err := day2.State(ctx, "u1")
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	want := DayState{CurrentDate: "2025-03-11"}
	if state != want {
		t.Errorf("state on new date = %+v, want %+v", state, want)
	}

	// Yesterday's record is untouched.
	rec, err := records.GetRecord(ctx, "u1", "2025-03-10")
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if rec == nil || *rec.CheckIn != "09:00" {
		t.Errorf("yesterday's record: %+v", rec)
	}
}

func TestTrackerRecoversFromCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemory()
	store.Put("attendance_state:u1", []byte("][garbage"))

	tr := NewTracker(store, NewMemoryRecords(), fixedClock("2025-03-10 09:00"))
	state, err := tr.State(ctx, "u1")
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state != DefaultState("2025-03-10") {
		t.Errorf("state from corrupt snapshot = %+v, want default", state)
	}
}

func TestTrackerStatesAreIndependentPerUser(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemory()
	records := NewMemoryRecords()
	tr := NewTracker(store, records, fixedClock("2025-03-10 09:00"))

	if _, _, err := tr.CheckIn(ctx, "u1"); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	state, err := tr.State(ctx, "u2")
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state.IsCheckedIn {
		t.Error("u1's check-in leaked into u2's state")
	}
}
