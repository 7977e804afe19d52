package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/models"
	"github.com/shopspring/decimal"
)

const studentColumns = `
		id, roll_no, name, mobile, aadhaar_enc, aadhaar_hmac, shift_id, assigned_seat,
		admission_date, monthly_fee, is_active, deactivated_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (models.Student, error) {
	var (
		s             models.Student
		aadhaar       sql.NullString
		aadhaarHMAC   sql.NullString
		shiftID       sql.NullString
		seat          sql.NullString
		deactivatedAt sql.NullTime
	)
	err := row.Scan(&s.ID, &s.RollNo, &s.Name, &s.Mobile, &aadhaar, &aadhaarHMAC, &shiftID, &seat,
		&s.AdmissionDate, &s.MonthlyFee, &s.IsActive, &deactivatedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return s, err
	}
	s.Aadhaar = aadhaar.String
	s.AadhaarHMAC = aadhaarHMAC.String
	s.ShiftID = shiftID.String
	s.AssignedSeat = seat.String
	if deactivatedAt.Valid {
		t := deactivatedAt.Time
		s.DeactivatedAt = &t
	}
	return s, nil
}

// ListStudents returns every student with its fee history.
// Aadhaar is returned encrypted.
func (r *Repository) ListStudents(ctx context.Context) ([]models.Student, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT`+studentColumns+`
		FROM library.students
		ORDER BY roll_no`)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	index := make(map[string]int)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		index[s.ID] = len(students)
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	changes, err := r.db.QueryContext(ctx, `
		SELECT student_id, changed_at, fee
		FROM library.fee_changes
		ORDER BY changed_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list fee changes: %w", err)
	}
	defer changes.Close()

	for changes.Next() {
		var (
			studentID string
			fc        models.FeeChange
		)
		if err := changes.Scan(&studentID, &fc.Date, &fc.Fee); err != nil {
			return nil, fmt.Errorf("failed to scan fee change: %w", err)
		}
		if i, ok := index[studentID]; ok {
			students[i].FeeChanges = append(students[i].FeeChanges, fc)
		}
	}
	return students, changes.Err()
}

// GetStudent retrieves a student and its fee history by ID
func (r *Repository) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	row := r.db.QueryRowContext(ctx, `SELECT`+studentColumns+`
		FROM library.students
		WHERE id = $1`, id)
	s, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("student %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find student: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT changed_at, fee
		FROM library.fee_changes
		WHERE student_id = $1
		ORDER BY changed_at, id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list fee changes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var fc models.FeeChange
		if err := rows.Scan(&fc.Date, &fc.Fee); err != nil {
			return nil, fmt.Errorf("failed to scan fee change: %w", err)
		}
		s.FeeChanges = append(s.FeeChanges, fc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list fee changes: %w", err)
	}
	return &s, nil
}

// AadhaarExists reports whether a student with the given Aadhaar fingerprint exists
func (r *Repository) AadhaarExists(ctx context.Context, fingerprint string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM library.students WHERE aadhaar_hmac = $1)`, fingerprint).
		Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check aadhaar: %w", err)
	}
	return exists, nil
}

// CreateStudent inserts a student; Aadhaar must already be encrypted
func (r *Repository) CreateStudent(ctx context.Context, s *models.Student) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	query := `
		INSERT INTO library.students (id, roll_no, name, mobile, aadhaar_enc, aadhaar_hmac, shift_id,
			assigned_seat, admission_date, monthly_fee, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9, $10, TRUE,
			CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING is_active, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, s.ID, s.RollNo, s.Name, s.Mobile, s.Aadhaar, s.AadhaarHMAC,
		s.ShiftID, s.AssignedSeat, s.AdmissionDate, s.MonthlyFee).
		Scan(&s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

// ChangeMonthlyFee sets the current fee and records the change in the fee history
func (r *Repository) ChangeMonthlyFee(ctx context.Context, studentID string, fee decimal.Decimal, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE library.students
		SET monthly_fee = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`, studentID, fee)
	if err != nil {
		return fmt.Errorf("failed to update fee: %w", err)
	}
	if err := expectOneRow(res, "student", studentID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO library.fee_changes (id, student_id, changed_at, fee)
		VALUES ($1, $2, $3, $4)`, uuid.NewString(), studentID, at, fee)
	if err != nil {
		return fmt.Errorf("failed to record fee change: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit fee change: %w", err)
	}
	return nil
}

// DeactivateStudent marks a student inactive as of at and releases the seat
func (r *Repository) DeactivateStudent(ctx context.Context, studentID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE library.students
		SET is_active = FALSE, deactivated_at = $2, assigned_seat = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`, studentID, at)
	if err != nil {
		return fmt.Errorf("failed to deactivate student: %w", err)
	}
	return expectOneRow(res, "student", studentID)
}

// ReactivateStudent marks a student active again and clears the deactivation date
func (r *Repository) ReactivateStudent(ctx context.Context, studentID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE library.students
		SET is_active = TRUE, deactivated_at = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`, studentID)
	if err != nil {
		return fmt.Errorf("failed to reactivate student: %w", err)
	}
	return expectOneRow(res, "student", studentID)
}

// AssignSeat puts a student on a seat. The active-seat unique index rejects a taken seat.
func (r *Repository) AssignSeat(ctx context.Context, studentID, seatID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE library.students
		SET assigned_seat = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`, studentID, seatID)
	if err != nil {
		return fmt.Errorf("failed to assign seat: %w", err)
	}
	return expectOneRow(res, "student", studentID)
}

// ReleaseSeat clears a student's seat
func (r *Repository) ReleaseSeat(ctx context.Context, studentID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE library.students
		SET assigned_seat = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`, studentID)
	if err != nil {
		return fmt.Errorf("failed to release seat: %w", err)
	}
	return expectOneRow(res, "student", studentID)
}

func expectOneRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}
