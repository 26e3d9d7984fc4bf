package attendance

import (
	"context"
	"database/sql"
)

// MonthlyRollup is a per-user, per-month durable aggregate maintained by the
// worker from queue events.
type MonthlyRollup struct {
	UserID      string  `json:"user_id"`
	Month       string  `json:"month"` // YYYY-MM
	CheckIns    int     `json:"check_ins"`
	CheckOuts   int     `json:"check_outs"`
	HoursWorked float64 `json:"hours_worked"`
}

// MonthlyRepository persists rollups in Postgres.
type MonthlyRepository struct {
	db *sql.DB
}

// NewMonthlyRepository creates a repo.
func NewMonthlyRepository(db *sql.DB) *MonthlyRepository {
	return &MonthlyRepository{db: db}
}

// RecordCheckIn increments the month's check-in count.
func (r *MonthlyRepository) RecordCheckIn(ctx context.Context, userID, month string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_monthly (user_id, month, check_ins, check_outs, hours_worked)
		VALUES ($1, $2, 1, 0, 0)
		ON CONFLICT (user_id, month) DO UPDATE SET
			check_ins = attendance_monthly.check_ins + 1
	`, userID, month)
	return err
}

// RecordCheckOut increments the month's check-out count and adds the event's
// worked hours.
func (r *MonthlyRepository) RecordCheckOut(ctx context.Context, userID, month string, hoursDelta float64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_monthly (user_id, month, check_ins, check_outs, hours_worked)
		VALUES ($1, $2, 0, 1, $3)
		ON CONFLICT (user_id, month) DO UPDATE SET
			check_outs = attendance_monthly.check_outs + 1,
			hours_worked = attendance_monthly.hours_worked + EXCLUDED.hours_worked
	`, userID, month, hoursDelta)
	return err
}

// GetRollup returns the rollup for a user and month, zero-valued when the
// month has no activity yet.
func (r *MonthlyRepository) GetRollup(ctx context.Context, userID, month string) (MonthlyRollup, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, month, check_ins, check_outs, hours_worked
		FROM attendance_monthly
		WHERE user_id = $1 AND month = $2
	`, userID, month)
	var roll MonthlyRollup
	if err := row.Scan(&roll.UserID, &roll.Month, &roll.CheckIns, &roll.CheckOuts, &roll.HoursWorked); err != nil {
		if err == sql.ErrNoRows {
			return MonthlyRollup{UserID: userID, Month: month}, nil
		}
		return MonthlyRollup{}, err
	}
	return roll, nil
}
