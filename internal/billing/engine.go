// Package billing computes student dues from admission date, fee history and payments.
// Everything here is pure: no I/O, no shared mutable state, safe for concurrent use.
package billing

import (
	"time"

	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/models"
	"github.com/shopspring/decimal"
)

// MaxCycles bounds each cycle walk (100 years of monthly cycles)
const MaxCycles = 1200

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

// Now implements Clock
func (f ClockFunc) Now() time.Time { return f() }

// Engine computes financial summaries against a clock and a time zone.
// An Engine is immutable once built.
type Engine struct {
	clock Clock
	loc   *time.Location
}

// Option configures an Engine
type Option func(*Engine)

// WithClock overrides the system clock
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithLocation sets the time zone that defines calendar days
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// NewEngine creates an engine using the system clock and local time zone unless overridden
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		clock: ClockFunc(time.Now),
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Location returns the engine's time zone
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Now returns the current time in the engine's time zone
func (e *Engine) Now() time.Time {
	return e.clock.Now().In(e.loc)
}

// Today returns the current date at midnight in the engine's time zone
func (e *Engine) Today() time.Time {
	return localDate(e.clock.Now(), e.loc)
}

var defaultEngine = NewEngine()

// ComputeFinancials runs the default engine (system clock, local time zone)
func ComputeFinancials(student *models.Student, payments []models.Payment) models.FinancialSummary {
	return defaultEngine.ComputeFinancials(student, payments)
}

// ComputeFinancials derives how far the student's payments reach and what is owed
// as of today, or as of the deactivation date when one is set.
//
// Inactive students, and students without an admission date or a positive monthly
// fee, get the zero summary.
func (e *Engine) ComputeFinancials(student *models.Student, payments []models.Payment) models.FinancialSummary {
	if !billable(student) {
		return models.ZeroSummary()
	}

	admission := calendarDate(student.AdmissionDate, e.loc)
	limit := e.Today()
	if student.DeactivatedAt != nil && !student.DeactivatedAt.IsZero() {
		limit = localDate(*student.DeactivatedAt, e.loc)
	}

	credit := creditFor(student.ID, payments)
	timeline := newFeeTimeline(admission, student.MonthlyFee, student.FeeChanges)

	paidUpTo, paidMonths, coverageCapped := coverage(admission, timeline, credit, e.loc)
	expected, accrualCapped := accrued(admission, timeline, limit, e.loc)

	summary := models.FinancialSummary{
		TotalDues:  decimal.Zero,
		PaidUntil:  &paidUpTo,
		AmountPaid: credit,
		Overpaid:   decimal.Zero,
		PaidMonths: paidMonths,
		Truncated:  coverageCapped || accrualCapped,
	}

	remaining := expected.Sub(credit)
	switch {
	case remaining.IsPositive():
		summary.TotalDues = remaining
	case remaining.IsNegative():
		summary.Overpaid = remaining.Neg()
	}

	if summary.TotalDues.IsPositive() {
		dueSince := paidUpTo.AddDate(0, 0, 1)
		if dueSince.After(limit) {
			// paid through the evaluation date; the remainder is not yet due
			summary.TotalDues = decimal.Zero
		} else {
			summary.DueSince = &dueSince
			summary.DaysDue = daysBetween(dueSince, limit) + 1
		}
	}

	return summary
}

func billable(s *models.Student) bool {
	return s != nil &&
		s.IsActive &&
		!s.AdmissionDate.IsZero() &&
		s.MonthlyFee.IsPositive()
}

// creditFor sums amount plus discount over the student's payments
func creditFor(studentID string, payments []models.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.StudentID != studentID {
			continue
		}
		total = total.Add(p.Credit())
	}
	return total
}

// coverage consumes credit cycle by cycle from admission and reports the last
// fully paid day together with the number of paid cycles.
// With nothing paid the last paid day is the day before admission.
func coverage(admission time.Time, timeline feeTimeline, credit decimal.Decimal, loc *time.Location) (paidUpTo time.Time, paidMonths int, capped bool) {
	walker := newCycleWalker(admission, timeline, loc)
	remaining := credit
	paidUpTo = admission.AddDate(0, 0, -1)

	for {
		fee := walker.fee()
		if !fee.IsPositive() || remaining.LessThan(fee) {
			return paidUpTo, paidMonths, false
		}
		if paidMonths == MaxCycles {
			return paidUpTo, paidMonths, true
		}
		remaining = remaining.Sub(fee)

		next, adjusted := walker.advance()
		// a clamped boundary is itself the last covered day
		paidUpTo = next
		if !adjusted {
			paidUpTo = next.AddDate(0, 0, -1)
		}
		paidMonths++
	}
}

// accrued sums the fee of every cycle starting on or before limit
func accrued(admission time.Time, timeline feeTimeline, limit time.Time, loc *time.Location) (total decimal.Decimal, capped bool) {
	walker := newCycleWalker(admission, timeline, loc)
	total = decimal.Zero

	for cycles := 0; !walker.start.After(limit); cycles++ {
		if cycles == MaxCycles {
			return total, true
		}
		total = total.Add(walker.fee())
		walker.advance()
	}
	return total, false
}
