package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialSummary is the derived billing position of a student at an evaluation date
type FinancialSummary struct {
	TotalDues  decimal.Decimal `json:"total_dues"`
	PaidUntil  *time.Time      `json:"paid_until"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Overpaid   decimal.Decimal `json:"overpaid"`
	DueSince   *time.Time      `json:"due_since"`
	DaysDue    int             `json:"days_due"`
	PaidMonths int             `json:"paid_months"`
	// Truncated reports that the cycle walk hit its safety cap
	Truncated bool `json:"truncated,omitempty"`
}

// ZeroSummary is returned for students whose dues are not computed
func ZeroSummary() FinancialSummary {
	return FinancialSummary{
		TotalDues:  decimal.Zero,
		AmountPaid: decimal.Zero,
		Overpaid:   decimal.Zero,
	}
}

// SeatStatus classifies a seat for the floor plan
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatDue       SeatStatus = "due"
	SeatOverpaid  SeatStatus = "overpaid"
	SeatPaid      SeatStatus = "paid"
	SeatShiftDone SeatStatus = "shift-done"
)

// SeatAssignment is a seat's status and its occupant, if any
type SeatAssignment struct {
	SeatID  string     `json:"seat_id"`
	Status  SeatStatus `json:"status"`
	Student *Student   `json:"student"`
}

// StudentFinancials pairs a student with its computed summary
type StudentFinancials struct {
	Student    *Student         `json:"student"`
	Financials FinancialSummary `json:"financials"`
}

// Alerts groups active students by how close they are to (or how far into) arrears
type Alerts struct {
	UpcomingDue    []StudentFinancials `json:"upcoming_due"`
	RecentlyDue    []StudentFinancials `json:"recently_due"`
	LongDue        []StudentFinancials `json:"long_due"`
	AutoDeactivate []StudentFinancials `json:"auto_deactivate"`
}

// Dashboard holds the headline numbers of the library
type Dashboard struct {
	ActiveStudents  int             `json:"active_students"`
	TotalSeats      int             `json:"total_seats"`
	OccupiedSeats   int             `json:"occupied_seats"`
	AvailableSeats  int             `json:"available_seats"`
	DueStudents     int             `json:"due_students"`
	TotalDue        decimal.Decimal `json:"total_due"`
	TodayCollection decimal.Decimal `json:"today_collection"`
}
