package attendance

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// Repository persists attendance history in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ApplyUpsert writes the mutation a transition produced. Records are keyed
// by (user_id, date): the first check-in of a date inserts, everything after
// updates the same row. The check-in path recomputes status in SQL so a
// re-check-in after a check-out restores present, mirroring ApplyUpsert.
func (r *Repository) ApplyUpsert(ctx context.Context, userID string, up RecordUpsert) (Record, error) {
	var row *sql.Row
	switch {
	case up.CheckIn != nil:
		row = r.db.QueryRowContext(ctx, `
			INSERT INTO attendance_records (id, user_id, date, check_in, check_out, status, hours_worked)
			VALUES ($1, $2, $3, $4, NULL, 'partial', 0)
			ON CONFLICT (user_id, date) DO UPDATE SET
				check_in = EXCLUDED.check_in,
				status = CASE WHEN attendance_records.check_out IS NOT NULL THEN 'present' ELSE 'partial' END
			RETURNING id, user_id, date, check_in, check_out, status, hours_worked
		`, uuid.NewString(), userID, up.Date, up.CheckIn)
	case up.CheckOut != nil:
		row = r.db.QueryRowContext(ctx, `
			INSERT INTO attendance_records (id, user_id, date, check_in, check_out, status, hours_worked)
			VALUES ($1, $2, $3, NULL, $4, $5, $6)
			ON CONFLICT (user_id, date) DO UPDATE SET
				check_out = EXCLUDED.check_out,
				status = EXCLUDED.status,
				hours_worked = EXCLUDED.hours_worked
			RETURNING id, user_id, date, check_in, check_out, status, hours_worked
		`, uuid.NewString(), userID, up.Date, up.CheckOut, up.Status, up.HoursWorked)
	default:
		return Record{}, errors.New("empty upsert")
	}
	return scanRecord(row)
}

// ListRecords returns a user's records, newest date first.
func (r *Repository) ListRecords(ctx context.Context, userID string, limit, offset int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, date, check_in, check_out, status, hours_worked
		FROM attendance_records
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Date, &rec.CheckIn, &rec.CheckOut, &rec.Status, &rec.HoursWorked); err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

// GetRecord returns the record for a user and date, or nil.
func (r *Repository) GetRecord(ctx context.Context, userID, date string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, date, check_in, check_out, status, hours_worked
		FROM attendance_records
		WHERE user_id = $1 AND date = $2
	`, userID, date)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func scanRecord(row *sql.Row) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Date, &rec.CheckIn, &rec.CheckOut, &rec.Status, &rec.HoursWorked)
	return rec, err
}
