package attendance

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Status classifies a day's attendance.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusOnLeave Status = "on-leave"
	StatusPartial Status = "partial"
)

// presentThreshold is the worked-hours floor for a full present day.
const presentThreshold = 7.5

// DayState is the in-progress check-in/check-out cycle for one calendar
// date. It is persisted as a whole snapshot and scoped to CurrentDate.
type DayState struct {
	IsCheckedIn  bool    `json:"is_checked_in"`
	CheckInTime  *string `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	CurrentDate  string  `json:"current_date"`
}

// Record is the date-keyed summary of a day's attendance. One record per
// user per date; created on first check-in, updated on check-out, never
// deleted.
type Record struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Date        string  `json:"date"`
	CheckIn     *string `json:"check_in"`
	CheckOut    *string `json:"check_out"`
	Status      Status  `json:"status"`
	HoursWorked float64 `json:"hours_worked"`
}

// RecordUpsert describes the history mutation a transition produced.
// Exactly one of CheckIn or CheckOut is set.
type RecordUpsert struct {
	Date        string
	CheckIn     *string
	CheckOut    *string
	Status      Status
	HoursWorked *float64
}

// DefaultState is the not-checked-in state for a date.
func DefaultState(today string) DayState {
	return DayState{CurrentDate: today}
}

// LoadOrInitialize returns the persisted state if it belongs to today,
// otherwise the default state for today. The boundary is the calendar date
// string, not a timer; calling it again on its own output is a no-op.
func LoadOrInitialize(persisted DayState, today string) DayState {
	if persisted.CurrentDate == today {
		return persisted
	}
	return DefaultState(today)
}

// FormatClock renders a wall-clock instant as zero-padded 24-hour HH:MM.
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

// CheckIn marks the day checked in at now. It is deliberately not
// idempotent: checking in while already checked in overwrites CheckInTime,
// matching the observable behavior of the system this replaces.
func CheckIn(state DayState, now time.Time) (DayState, RecordUpsert) {
	ts := FormatClock(now)
	state.IsCheckedIn = true
	state.CheckInTime = &ts
	return state, RecordUpsert{
		Date:    state.CurrentDate,
		CheckIn: &ts,
		Status:  StatusPartial,
	}
}

// CheckOut closes the day at now and derives hours and status. A check-out
// without a prior check-in is not rejected; it yields zero hours.
func CheckOut(state DayState, now time.Time) (DayState, RecordUpsert) {
	ts := FormatClock(now)
	hours := 0.0
	if state.CheckInTime != nil {
		hours = HoursBetween(*state.CheckInTime, ts)
	}
	state.IsCheckedIn = false
	state.CheckOutTime = &ts
	return state, RecordUpsert{
		Date:        state.CurrentDate,
		CheckOut:    &ts,
		Status:      StatusForHours(hours),
		HoursWorked: &hours,
	}
}

// HoursBetween computes the span between two HH:MM stamps in hours, rounded
// half-up at the tenths digit. Rounding runs over whole minutes so exact
// half-tenths (such as 8h21m) do not fall victim to float artifacts.
func HoursBetween(checkIn, checkOut string) float64 {
	mins := minutesOf(checkOut) - minutesOf(checkIn)
	return math.Floor(float64(mins)/6+0.5) / 10
}

// StatusForHours applies the full-day threshold.
func StatusForHours(hours float64) Status {
	if hours >= presentThreshold {
		return StatusPresent
	}
	return StatusPartial
}

// ApplyUpsert merges an upsert into the existing record for its date, or
// materializes a new record when none exists. Check-in on a record that
// already has a check-out restores present status; otherwise the day stays
// partial until checked out.
func ApplyUpsert(existing *Record, userID string, up RecordUpsert) Record {
	rec := Record{
		ID:     uuid.NewString(),
		UserID: userID,
		Date:   up.Date,
		Status: StatusPartial,
	}
	if existing != nil {
		rec = *existing
	}

	switch {
	case up.CheckIn != nil:
		rec.CheckIn = up.CheckIn
		if rec.CheckOut != nil {
			rec.Status = StatusPresent
		} else {
			rec.Status = StatusPartial
		}
	case up.CheckOut != nil:
		rec.CheckOut = up.CheckOut
		rec.Status = up.Status
		if up.HoursWorked != nil {
			rec.HoursWorked = *up.HoursWorked
		}
	}
	return rec
}

func minutesOf(hhmm string) int {
	var h, m int
	fmt.Sscanf(hhmm, "%d:%d", &h, &m)
	return h*60 + m
}

func roundTenth(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}
