package billing

import (
	"strconv"
	"strings"

	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/models"
)

// ResolveSeatStatus classifies a seat by its active occupant.
// A finished shift frees the seat for the day whatever the occupant owes.
func (e *Engine) ResolveSeatStatus(seatID string, students []models.Student, payments []models.Payment, shifts []models.Shift) models.SeatAssignment {
	occupant := findOccupant(seatID, students)
	if occupant == nil {
		return models.SeatAssignment{SeatID: seatID, Status: models.SeatAvailable}
	}

	fin := e.ComputeFinancials(occupant, payments)
	status := models.SeatPaid
	switch {
	case e.IsShiftComplete(occupant, shifts):
		status = models.SeatShiftDone
	case fin.Overpaid.IsPositive():
		status = models.SeatOverpaid
	case fin.TotalDues.IsPositive():
		status = models.SeatDue
	}
	return models.SeatAssignment{SeatID: seatID, Status: status, Student: occupant}
}

func findOccupant(seatID string, students []models.Student) *models.Student {
	if seatID == "" {
		return nil
	}
	for i := range students {
		if students[i].IsActive && students[i].AssignedSeat == seatID {
			return &students[i]
		}
	}
	return nil
}

// IsShiftComplete reports whether the student's shift has ended for today.
// Overnight shifts (start after end) count as complete between their end and the next start.
// Unknown shifts and unparsable times are never complete.
func (e *Engine) IsShiftComplete(student *models.Student, shifts []models.Shift) bool {
	if student == nil {
		return false
	}
	var shift *models.Shift
	for i := range shifts {
		if shifts[i].ID == student.ShiftID {
			shift = &shifts[i]
			break
		}
	}
	if shift == nil {
		return false
	}
	start, ok := minuteOfDay(shift.StartTime)
	if !ok {
		return false
	}
	end, ok := minuteOfDay(shift.EndTime)
	if !ok {
		return false
	}

	now := e.clock.Now().In(e.loc)
	current := now.Hour()*60 + now.Minute()
	if start < end {
		return current > end
	}
	return end <= current && current < start
}

// minuteOfDay parses "HH:MM" into minutes since midnight
func minuteOfDay(hhmm string) (int, bool) {
	h, m, found := strings.Cut(strings.TrimSpace(hhmm), ":")
	if !found {
		return 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 24 {
		return 0, false
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}
