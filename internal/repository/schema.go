package repository

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE SCHEMA IF NOT EXISTS library`,
	`CREATE TABLE IF NOT EXISTS library.users (
		id            BIGSERIAL PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		email         TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS library.shifts (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time   TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS library.halls (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		seat_count INTEGER NOT NULL CHECK (seat_count >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS library.students (
		id             TEXT PRIMARY KEY,
		roll_no        TEXT NOT NULL,
		name           TEXT NOT NULL,
		mobile         TEXT NOT NULL DEFAULT '',
		aadhaar_enc    TEXT,
		aadhaar_hmac   TEXT UNIQUE,
		shift_id       TEXT REFERENCES library.shifts (id),
		assigned_seat  TEXT,
		admission_date DATE NOT NULL,
		monthly_fee    NUMERIC(12, 2) NOT NULL,
		is_active      BOOLEAN NOT NULL DEFAULT TRUE,
		deactivated_at TIMESTAMPTZ,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS students_active_seat_idx
		ON library.students (assigned_seat) WHERE is_active AND assigned_seat IS NOT NULL`,
	`CREATE TABLE IF NOT EXISTS library.fee_changes (
		id         TEXT PRIMARY KEY,
		student_id TEXT NOT NULL REFERENCES library.students (id) ON DELETE CASCADE,
		changed_at TIMESTAMPTZ NOT NULL,
		fee        NUMERIC(12, 2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS library.payments (
		id         TEXT PRIMARY KEY,
		student_id TEXT NOT NULL REFERENCES library.students (id) ON DELETE CASCADE,
		amount     NUMERIC(12, 2) NOT NULL DEFAULT 0,
		discount   NUMERIC(12, 2) NOT NULL DEFAULT 0,
		paid_at    TIMESTAMPTZ NOT NULL,
		note       TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS payments_student_idx ON library.payments (student_id)`,
	`INSERT INTO library.shifts (id, name, start_time, end_time) VALUES
		('shift1', 'Morning', '06:00', '12:00'),
		('shift2', 'Evening', '12:00', '18:00'),
		('shift3', 'Night', '18:00', '00:00')
	ON CONFLICT (id) DO NOTHING`,
	`INSERT INTO library.halls (id, name, seat_count) VALUES ('hall1', 'HALL', 86)
	ON CONFLICT (id) DO NOTHING`,
}

// EnsureSchema creates the library tables and default shifts and halls if missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema step %d: %w", i+1, err)
		}
	}
	return nil
}
