package employee

import (
	"context"
	"database/sql"
	"errors"
)

// Repository reads the employee directory from Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `
	SELECT id, employee_id, name, email, department, position, join_date,
	       salary, status, manager, phone
	FROM employees`

// List returns all employees ordered by employee id. Callers must Redact
// the result for the viewing role before returning it anywhere.
func (r *Repository) List(ctx context.Context) ([]Employee, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` ORDER BY employee_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Employee
	for rows.Next() {
		e, err := scanEmployee(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// Get returns a single employee by id.
func (r *Repository) Get(ctx context.Context, id string) (Employee, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id)
	e, err := scanEmployee(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return e, err
}

// SeedDefaults inserts the stock directory rows when they are absent. Dev
// convenience only; existing rows are left alone.
func (r *Repository) SeedDefaults(ctx context.Context) error {
	salary := func(v float64) *float64 { return &v }
	str := func(v string) *string { return &v }
	defaults := []Employee{
		{ID: "1", EmployeeID: "ADM001", Name: "Admin User", Email: "admin@dayflow.com",
			Department: "Management", Position: "Administrator", JoinDate: "2020-02-03",
			Salary: salary(120000), Status: "ACTIVE"},
		{ID: "2", EmployeeID: "HR001", Name: "HR Manager", Email: "hr@dayflow.com",
			Department: "Human Resources", Position: "HR Manager", JoinDate: "2021-06-14",
			Salary: salary(85000), Status: "ACTIVE", Manager: str("Admin User")},
		{ID: "3", EmployeeID: "EMP001", Name: "John Doe", Email: "john.doe@dayflow.com",
			Department: "Engineering", Position: "Developer", JoinDate: "2022-01-15",
			Salary: salary(95000), Status: "ACTIVE", Manager: str("HR Manager")},
	}
	for _, e := range defaults {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO employees (id, employee_id, name, email, department, position, join_date, salary, status, manager, phone)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			ON CONFLICT (employee_id) DO NOTHING
		`, e.ID, e.EmployeeID, e.Name, e.Email, e.Department, e.Position, e.JoinDate, e.Salary, e.Status, e.Manager, e.Phone)
		if err != nil {
			return err
		}
	}
	return nil
}

func scanEmployee(scan func(...any) error) (Employee, error) {
	var e Employee
	err := scan(&e.ID, &e.EmployeeID, &e.Name, &e.Email, &e.Department, &e.Position,
		&e.JoinDate, &e.Salary, &e.Status, &e.Manager, &e.Phone)
	return e, err
}
