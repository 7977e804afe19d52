package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/billing"
	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/models"
	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/utils"
	"github.com/shopspring/decimal"
)

// AdmissionRequest carries the fields needed to admit a student
type AdmissionRequest struct {
	RollNo        string          `json:"roll_no" validate:"required,max=20"`
	Name          string          `json:"name" validate:"required,max=120"`
	Mobile        string          `json:"mobile" validate:"required,len=10,numeric"`
	Aadhaar       string          `json:"aadhaar" validate:"omitempty,len=12,numeric"`
	ShiftID       string          `json:"shift_id" validate:"required"`
	AssignedSeat  string          `json:"assigned_seat"`
	AdmissionDate string          `json:"admission_date" validate:"required,datetime=2006-01-02"`
	MonthlyFee    decimal.Decimal `json:"monthly_fee"`
}

// AdmitStudent registers a new active student.
// The Aadhaar number is stored encrypted alongside an HMAC fingerprint.
func (s *Service) AdmitStudent(ctx context.Context, req AdmissionRequest) (*models.Student, error) {
	if !utils.ValidMobile(req.Mobile) {
		return nil, fmt.Errorf("%w: mobile must be 10 digits", ErrInvalidInput)
	}
	if req.Aadhaar != "" && !utils.ValidAadhaar(req.Aadhaar) {
		return nil, fmt.Errorf("%w: aadhaar must be 12 digits", ErrInvalidInput)
	}
	if !req.MonthlyFee.IsPositive() {
		return nil, fmt.Errorf("%w: monthly fee must be positive", ErrInvalidInput)
	}
	admission, err := time.ParseInLocation("2006-01-02", req.AdmissionDate, s.engine.Location())
	if err != nil {
		return nil, fmt.Errorf("%w: admission date: %v", ErrInvalidInput, err)
	}

	student := &models.Student{
		RollNo:        strings.TrimSpace(req.RollNo),
		Name:          strings.TrimSpace(req.Name),
		Mobile:        req.Mobile,
		ShiftID:       req.ShiftID,
		AssignedSeat:  strings.TrimSpace(req.AssignedSeat),
		AdmissionDate: admission,
		MonthlyFee:    req.MonthlyFee,
		IsActive:      true,
	}

	if req.Aadhaar != "" {
		fingerprint := s.vault.Fingerprint(req.Aadhaar)
		exists, err := s.repo.AadhaarExists(ctx, fingerprint)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicateAadhaar
		}
		sealed, err := s.vault.Seal(req.Aadhaar)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt aadhaar: %w", err)
		}
		student.Aadhaar = sealed
		student.AadhaarHMAC = fingerprint
	}

	if student.AssignedSeat != "" {
		if err := s.checkSeat(ctx, student.AssignedSeat, ""); err != nil {
			return nil, err
		}
	}

	if err := s.repo.CreateStudent(ctx, student); err != nil {
		return nil, err
	}

	// Return student with masked Aadhaar for response
	student.Aadhaar = utils.MaskAadhaar(req.Aadhaar)
	s.log.Infof("Student admitted: %s (%s)", student.RollNo, student.ID)
	return student, nil
}

// present replaces the stored Aadhaar ciphertext with a masked value
func (s *Service) present(student *models.Student) {
	if student == nil || student.Aadhaar == "" {
		return
	}
	plain, err := s.vault.Open(student.Aadhaar)
	if err != nil {
		s.log.Warnf("Failed to decrypt aadhaar of student %s: %v", student.ID, err)
		student.Aadhaar = ""
		return
	}
	student.Aadhaar = utils.MaskAadhaar(plain)
}

func (s *Service) presentAll(entries []models.StudentFinancials) {
	for _, e := range entries {
		s.present(e.Student)
	}
}

// StudentFinancials computes the billing position of one student
func (s *Service) StudentFinancials(ctx context.Context, studentID string) (*models.StudentFinancials, error) {
	student, err := s.repo.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.ListPaymentsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	fin := s.engine.ComputeFinancials(student, payments)
	if fin.Truncated {
		s.log.Warnf("Billing walk for student %s hit the %d-cycle cap", studentID, billing.MaxCycles)
	}
	s.present(student)
	return &models.StudentFinancials{Student: student, Financials: fin}, nil
}

// ChangeFee sets a new monthly fee effective now
func (s *Service) ChangeFee(ctx context.Context, studentID string, fee decimal.Decimal) error {
	if !fee.IsPositive() {
		return fmt.Errorf("%w: monthly fee must be positive", ErrInvalidInput)
	}
	if err := s.repo.ChangeMonthlyFee(ctx, studentID, fee, s.engine.Now()); err != nil {
		return err
	}
	s.log.Infof("Monthly fee of student %s changed to %s", studentID, fee)
	return nil
}

// Deactivate freezes a student's dues at today and releases the seat
func (s *Service) Deactivate(ctx context.Context, studentID string) error {
	if err := s.repo.DeactivateStudent(ctx, studentID, s.engine.Now()); err != nil {
		return err
	}
	s.log.Infof("Student deactivated: %s", studentID)
	return nil
}

// Reactivate resumes billing for a student
func (s *Service) Reactivate(ctx context.Context, studentID string) error {
	if err := s.repo.ReactivateStudent(ctx, studentID); err != nil {
		return err
	}
	s.log.Infof("Student reactivated: %s", studentID)
	return nil
}
