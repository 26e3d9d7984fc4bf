package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB wraps sql.DB for Postgres using pgx.
type DB struct {
	Client *sql.DB
}

// NewDB creates a Postgres connection with sane defaults.
func NewDB(connString string) (*DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	return &DB{Client: db}, db.PingContext(context.Background())
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}

// EnsureSchema creates the tables the service reads and writes. Statements
// are idempotent so every process can run this at startup.
func (d *DB) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS employees (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			department TEXT NOT NULL DEFAULT '',
			position TEXT NOT NULL DEFAULT '',
			join_date TEXT NOT NULL DEFAULT '',
			salary DOUBLE PRECISION,
			status TEXT NOT NULL DEFAULT 'ACTIVE',
			manager TEXT,
			phone TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS attendance_records (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			date TEXT NOT NULL,
			check_in TEXT,
			check_out TEXT,
			status TEXT NOT NULL DEFAULT 'partial',
			hours_worked DOUBLE PRECISION NOT NULL DEFAULT 0,
			UNIQUE (user_id, date)
		)`,
		`CREATE TABLE IF NOT EXISTS attendance_monthly (
			user_id TEXT NOT NULL,
			month TEXT NOT NULL,
			check_ins INTEGER NOT NULL DEFAULT 0,
			check_outs INTEGER NOT NULL DEFAULT 0,
			hours_worked DOUBLE PRECISION NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, month)
		)`,
		`CREATE TABLE IF NOT EXISTS timeoff_requests (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL,
			employee_name TEXT NOT NULL,
			leave_type TEXT NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			days INTEGER NOT NULL DEFAULT 1,
			reason TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			submitted_date TEXT NOT NULL,
			reviewed_by TEXT,
			reviewed_date TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := d.Client.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
