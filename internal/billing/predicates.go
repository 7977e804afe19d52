package billing

import (
	"time"

	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/models"
	"github.com/shopspring/decimal"
)

// DueAmount is the outstanding balance
func (e *Engine) DueAmount(student *models.Student, payments []models.Payment) decimal.Decimal {
	return e.ComputeFinancials(student, payments).TotalDues
}

// PaidUntil is the last fully paid day, or the admission date when nothing was computed
func (e *Engine) PaidUntil(student *models.Student, payments []models.Payment) time.Time {
	if paid := e.ComputeFinancials(student, payments).PaidUntil; paid != nil {
		return *paid
	}
	if student == nil {
		return time.Time{}
	}
	return student.AdmissionDate
}

// DaysOverdue is the inclusive number of days in arrears
func (e *Engine) DaysOverdue(student *models.Student, payments []models.Payment) int {
	return e.ComputeFinancials(student, payments).DaysDue
}

// Overpaid is the credit beyond the cycles billed so far
func (e *Engine) Overpaid(student *models.Student, payments []models.Payment) decimal.Decimal {
	return e.ComputeFinancials(student, payments).Overpaid
}

// DueSince is the first unpaid day, nil when nothing is overdue
func (e *Engine) DueSince(student *models.Student, payments []models.Payment) *time.Time {
	return e.ComputeFinancials(student, payments).DueSince
}

// EligibleForDeactivation reports whether an active student has been in arrears
// for at least thresholdDays
func (e *Engine) EligibleForDeactivation(student *models.Student, payments []models.Payment, thresholdDays int) bool {
	if student == nil || !student.IsActive || thresholdDays <= 0 {
		return false
	}
	return e.DaysOverdue(student, payments) >= thresholdDays
}
