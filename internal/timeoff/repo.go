package timeoff

import (
	"context"
	"database/sql"
	"errors"
)

// Repository persists leave requests in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert stores a new request.
func (r *Repository) Insert(ctx context.Context, req Request) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO timeoff_requests
			(id, employee_id, employee_name, leave_type, start_date, end_date, days, reason, status, submitted_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, req.ID, req.EmployeeID, req.EmployeeName, req.LeaveType, req.StartDate, req.EndDate,
		req.Days, req.Reason, req.Status, req.SubmittedDate)
	return err
}

// Get returns a request by id.
func (r *Repository) Get(ctx context.Context, id string) (Request, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, employee_id, employee_name, leave_type, start_date, end_date,
		       days, reason, status, submitted_date, reviewed_by, reviewed_date
		FROM timeoff_requests WHERE id = $1
	`, id)
	req, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	return req, err
}

// SaveReview writes a reviewed request. The pending guard in SQL keeps the
// transition terminal even when two reviewers race: the second write matches
// no row and reports ErrAlreadyReviewed.
func (r *Repository) SaveReview(ctx context.Context, req Request) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE timeoff_requests
		SET status = $2, reviewed_by = $3, reviewed_date = $4
		WHERE id = $1 AND status = 'pending'
	`, req.ID, req.Status, req.ReviewedBy, req.ReviewedDate)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyReviewed
	}
	return nil
}

// List returns requests, optionally filtered to one employee, newest
// submission first.
func (r *Repository) List(ctx context.Context, employeeID string, limit, offset int) ([]Request, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `
		SELECT id, employee_id, employee_name, leave_type, start_date, end_date,
		       days, reason, status, submitted_date, reviewed_by, reviewed_date
		FROM timeoff_requests`
	args := []any{}
	if employeeID != "" {
		query += ` WHERE employee_id = $1 ORDER BY submitted_date DESC LIMIT $2 OFFSET $3`
		args = append(args, employeeID, limit, offset)
	} else {
		query += ` ORDER BY submitted_date DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Request
	for rows.Next() {
		var req Request
		if err := rows.Scan(&req.ID, &req.EmployeeID, &req.EmployeeName, &req.LeaveType,
			&req.StartDate, &req.EndDate, &req.Days, &req.Reason, &req.Status,
			&req.SubmittedDate, &req.ReviewedBy, &req.ReviewedDate); err != nil {
			return nil, err
		}
		res = append(res, req)
	}
	return res, rows.Err()
}

func scanRequest(row *sql.Row) (Request, error) {
	var req Request
	err := row.Scan(&req.ID, &req.EmployeeID, &req.EmployeeName, &req.LeaveType,
		&req.StartDate, &req.EndDate, &req.Days, &req.Reason, &req.Status,
		&req.SubmittedDate, &req.ReviewedBy, &req.ReviewedDate)
	return req, err
}
