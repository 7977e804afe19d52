package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/models"
)

const paymentColumns = `id, student_id, amount, discount, paid_at, note, created_at`

func scanPayments(rows *sql.Rows) ([]models.Payment, error) {
	defer rows.Close()
	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.StudentID, &p.Amount, &p.Discount, &p.Date, &p.Note, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// ListPayments returns every payment, oldest first
func (r *Repository) ListPayments(ctx context.Context) ([]models.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+paymentColumns+`
		FROM library.payments
		ORDER BY paid_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return scanPayments(rows)
}

// ListPaymentsByStudent returns a student's payments, oldest first
func (r *Repository) ListPaymentsByStudent(ctx context.Context, studentID string) ([]models.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+paymentColumns+`
		FROM library.payments
		WHERE student_id = $1
		ORDER BY paid_at, id`, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return scanPayments(rows)
}

// CreatePayment records a payment
func (r *Repository) CreatePayment(ctx context.Context, p *models.Payment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	query := `
		INSERT INTO library.payments (id, student_id, amount, discount, paid_at, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, p.ID, p.StudentID, p.Amount, p.Discount, p.Date, p.Note).
		Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetPayment retrieves a payment by ID
func (r *Repository) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.QueryRowContext(ctx, `SELECT `+paymentColumns+`
		FROM library.payments
		WHERE id = $1`, id).
		Scan(&p.ID, &p.StudentID, &p.Amount, &p.Discount, &p.Date, &p.Note, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	return &p, nil
}

// UpdatePayment rewrites the amount, discount, date and note of a payment
func (r *Repository) UpdatePayment(ctx context.Context, p *models.Payment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE library.payments
		SET amount = $2, discount = $3, paid_at = $4, note = $5
		WHERE id = $1`, p.ID, p.Amount, p.Discount, p.Date, p.Note)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return expectOneRow(res, "payment", p.ID)
}

// DeletePayment removes a payment
func (r *Repository) DeletePayment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM library.payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return expectOneRow(res, "payment", id)
}
