package attendance

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Dhru-Will/dayflow-hrms/internal/snapshot"
)

// Clock supplies "now". Injectable so transitions are deterministic in tests.
type Clock func() time.Time

// RecordStore persists the attendance history.
type RecordStore interface {
	ApplyUpsert(ctx context.Context, userID string, up RecordUpsert) (Record, error)
	ListRecords(ctx context.Context, userID string, limit, offset int) ([]Record, error)
	GetRecord(ctx context.Context, userID, date string) (*Record, error)
}

// Tracker binds the day-state transitions to a per-user persisted snapshot
// and the history store. All methods are safe to call from the single
// logical owner of a user's day; the snapshot is replaced whole on every
// mutation.
type Tracker struct {
	store   snapshot.Store
	records RecordStore
	clock   Clock
}

// NewTracker creates a tracker. A nil clock uses the wall clock.
func NewTracker(store snapshot.Store, records RecordStore, clock Clock) *Tracker {
	if clock == nil {
		clock = time.Now
	}
	return &Tracker{store: store, records: records, clock: clock}
}

const stateKeyPrefix = "attendance_state:"

// Today is the tracker's current calendar date.
func (t *Tracker) Today() string {
	return t.clock().Format("2006-01-02")
}

// State loads the user's day state, resetting it when the stored date is not
// today or the snapshot is corrupt or absent.
func (t *Tracker) State(ctx context.Context, userID string) (DayState, error) {
	today := t.Today()
	var persisted DayState
	err := t.store.Load(ctx, stateKeyPrefix+userID, &persisted)
	switch {
	case err == nil:
		return LoadOrInitialize(persisted, today), nil
	case errors.Is(err, snapshot.ErrNoSnapshot), errors.Is(err, snapshot.ErrCorruptSnapshot):
		return DefaultState(today), nil
	default:
		return DayState{}, err
	}
}

// CheckIn records a check-in for today and upserts the history record.
func (t *Tracker) CheckIn(ctx context.Context, userID string) (DayState, Record, error) {
	return t.transition(ctx, userID, CheckIn)
}

// CheckOut records a check-out for today and upserts the history record.
func (t *Tracker) CheckOut(ctx context.Context, userID string) (DayState, Record, error) {
	return t.transition(ctx, userID, CheckOut)
}

func (t *Tracker) transition(ctx context.Context, userID string, step func(DayState, time.Time) (DayState, RecordUpsert)) (DayState, Record, error) {
	state, err := t.State(ctx, userID)
	if err != nil {
		return DayState{}, Record{}, err
	}

	next, up := step(state, t.clock())
	if err := t.store.Save(ctx, stateKeyPrefix+userID, next); err != nil {
		return DayState{}, Record{}, err
	}
	rec, err := t.records.ApplyUpsert(ctx, userID, up)
	if err != nil {
		return DayState{}, Record{}, err
	}
	return next, rec, nil
}

// History lists the user's records, newest first.
func (t *Tracker) History(ctx context.Context, userID string, limit, offset int) ([]Record, error) {
	return t.records.ListRecords(ctx, userID, limit, offset)
}

// MemoryRecords is a map-backed RecordStore for dev and tests.
type MemoryRecords struct {
	mu   sync.Mutex
	byID map[string]map[string]Record // userID -> date -> record
}

// NewMemoryRecords creates an empty store.
func NewMemoryRecords() *MemoryRecords {
	return &MemoryRecords{byID: make(map[string]map[string]Record)}
}

// ApplyUpsert merges the upsert into the user's record for the date.
func (m *MemoryRecords) ApplyUpsert(_ context.Context, userID string, up RecordUpsert) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	days, ok := m.byID[userID]
	if !ok {
		days = make(map[string]Record)
		m.byID[userID] = days
	}
	var existing *Record
	if rec, ok := days[up.Date]; ok {
		existing = &rec
	}
	rec := ApplyUpsert(existing, userID, up)
	days[up.Date] = rec
	return rec, nil
}

// ListRecords returns the user's records, newest date first.
func (m *MemoryRecords) ListRecords(_ context.Context, userID string, limit, offset int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	m.mu.Lock()
	var all []Record
	for _, rec := range m.byID[userID] {
		all = append(all, rec)
	}
	m.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].Date > all[j].Date })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// GetRecord returns the user's record for a date, or nil.
func (m *MemoryRecords) GetRecord(_ context.Context, userID, date string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.byID[userID][date]; ok {
		return &rec, nil
	}
	return nil, nil
}
