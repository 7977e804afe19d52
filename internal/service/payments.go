package service

import (
	"context"
	"fmt"

	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/models"
)

func validateCredit(p *models.Payment) error {
	if p.Amount.IsNegative() || p.Discount.IsNegative() {
		return fmt.Errorf("%w: amount and discount must not be negative", ErrInvalidInput)
	}
	if !p.Credit().IsPositive() {
		return fmt.Errorf("%w: payment must carry an amount or a discount", ErrInvalidInput)
	}
	return nil
}

// RecordPayment stores a payment against an existing student.
// A missing date defaults to now.
func (s *Service) RecordPayment(ctx context.Context, p *models.Payment) error {
	if err := validateCredit(p); err != nil {
		return err
	}
	if _, err := s.repo.GetStudent(ctx, p.StudentID); err != nil {
		return err
	}
	if p.Date.IsZero() {
		p.Date = s.engine.Now()
	}
	if err := s.repo.CreatePayment(ctx, p); err != nil {
		return err
	}
	s.log.Infof("Payment %s recorded for student %s: %s + %s discount", p.ID, p.StudentID, p.Amount, p.Discount)
	return nil
}

// WaiveFee forgives one month at the student's current fee.
// The waiver is stored as a payment with no amount and the fee as discount.
func (s *Service) WaiveFee(ctx context.Context, studentID string) (*models.Payment, error) {
	student, err := s.repo.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !student.IsActive {
		return nil, fmt.Errorf("%w: student %s is inactive", ErrInvalidInput, student.RollNo)
	}
	if !student.MonthlyFee.IsPositive() {
		return nil, fmt.Errorf("%w: student %s has no monthly fee", ErrInvalidInput, student.RollNo)
	}

	waiver := &models.Payment{
		StudentID: student.ID,
		Discount:  student.MonthlyFee,
		Date:      s.engine.Now(),
		Note:      "Fee waived",
	}
	if err := s.repo.CreatePayment(ctx, waiver); err != nil {
		return nil, err
	}
	s.log.Infof("Waived %s for student %s", waiver.Discount, student.RollNo)
	return waiver, nil
}

// UpdatePayment corrects the amount, discount, date or note of a payment.
// The payment stays with its student; a zero date keeps the recorded one.
func (s *Service) UpdatePayment(ctx context.Context, p *models.Payment) (*models.Payment, error) {
	if err := validateCredit(p); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetPayment(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	existing.Amount = p.Amount
	existing.Discount = p.Discount
	existing.Note = p.Note
	if !p.Date.IsZero() {
		existing.Date = p.Date
	}
	if err := s.repo.UpdatePayment(ctx, existing); err != nil {
		return nil, err
	}
	s.log.Infof("Payment %s updated: %s + %s discount", existing.ID, existing.Amount, existing.Discount)
	return existing, nil
}

// DeletePayment removes a payment; its credit no longer counts
func (s *Service) DeletePayment(ctx context.Context, id string) error {
	if err := s.repo.DeletePayment(ctx, id); err != nil {
		return err
	}
	s.log.Infof("Payment %s deleted", id)
	return nil
}
