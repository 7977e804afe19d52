package billing

import (
	"testing"
	"time"

	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/models"
)

var testShifts = []models.Shift{
	{ID: "morning", Name: "Morning", StartTime: "06:00", EndTime: "12:00"},
	{ID: "early", Name: "Early", StartTime: "05:00", EndTime: "09:00"},
	{ID: "night", Name: "Night", StartTime: "18:00", EndTime: "00:00"},
	{ID: "overnight", Name: "Overnight", StartTime: "22:00", EndTime: "06:00"},
	{ID: "broken", Name: "Broken", StartTime: "6am", EndTime: "12:00"},
}

func TestIsShiftComplete(t *testing.T) {
	tests := []struct {
		shift string
		at    time.Time
		want  bool
	}{
		{"morning", time.Date(2025, 3, 20, 10, 30, 0, 0, time.UTC), false},
		{"morning", time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC), false},
		{"morning", time.Date(2025, 3, 20, 12, 1, 0, 0, time.UTC), true},
		{"early", time.Date(2025, 3, 20, 10, 30, 0, 0, time.UTC), true},
		{"night", time.Date(2025, 3, 20, 10, 30, 0, 0, time.UTC), true},
		{"night", time.Date(2025, 3, 20, 19, 0, 0, 0, time.UTC), false},
		{"overnight", time.Date(2025, 3, 20, 23, 0, 0, 0, time.UTC), false},
		{"overnight", time.Date(2025, 3, 20, 2, 0, 0, 0, time.UTC), false},
		{"overnight", time.Date(2025, 3, 20, 6, 0, 0, 0, time.UTC), true},
		{"overnight", time.Date(2025, 3, 20, 21, 59, 0, 0, time.UTC), true},
		{"broken", time.Date(2025, 3, 20, 23, 0, 0, 0, time.UTC), false},
		{"missing", time.Date(2025, 3, 20, 23, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		s := &models.Student{ShiftID: tt.shift}
		if got := engineAt(tt.at).IsShiftComplete(s, testShifts); got != tt.want {
			t.Errorf("IsShiftComplete(%s at %s) = %v, want %v", tt.shift, tt.at.Format("15:04"), got, tt.want)
		}
	}
}

func TestResolveSeatStatus(t *testing.T) {
	adm := day(2025, 3, 10)
	seated := func(id, seat, shift string) models.Student {
		s := newStudent(id, adm, 500)
		s.AssignedSeat = seat
		s.ShiftID = shift
		return *s
	}
	inactive := seated("gone", "hall1-5", "morning")
	inactive.IsActive = false

	students := []models.Student{
		seated("paid", "hall1-1", "morning"),
		seated("due", "hall1-2", "morning"),
		seated("over", "hall1-3", "morning"),
		seated("done", "hall1-4", "early"),
		inactive,
		seated("noshift", "hall1-7", "missing"),
	}
	payments := []models.Payment{
		payment("paid", 500, 0),
		payment("over", 800, 200),
	}
	e := engineAt(time.Date(2025, 3, 20, 10, 30, 0, 0, time.UTC))

	tests := []struct {
		seat        string
		want        models.SeatStatus
		wantStudent string
	}{
		{"hall1-1", models.SeatPaid, "paid"},
		{"hall1-2", models.SeatDue, "due"},
		{"hall1-3", models.SeatOverpaid, "over"},
		{"hall1-4", models.SeatShiftDone, "done"},
		{"hall1-5", models.SeatAvailable, ""},
		{"hall1-6", models.SeatAvailable, ""},
		{"hall1-7", models.SeatDue, "noshift"},
		{"", models.SeatAvailable, ""},
	}
	for _, tt := range tests {
		got := e.ResolveSeatStatus(tt.seat, students, payments, testShifts)
		if got.Status != tt.want {
			t.Errorf("seat %q status = %s, want %s", tt.seat, got.Status, tt.want)
		}
		switch {
		case tt.wantStudent == "" && got.Student != nil:
			t.Errorf("seat %q student = %s, want none", tt.seat, got.Student.ID)
		case tt.wantStudent != "" && (got.Student == nil || got.Student.ID != tt.wantStudent):
			t.Errorf("seat %q student = %v, want %s", tt.seat, got.Student, tt.wantStudent)
		}
	}
}

func TestMinuteOfDay(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"00:00", 0, true},
		{"06:30", 390, true},
		{" 18:05 ", 1085, true},
		{"24:00", 1440, true},
		{"25:00", 0, false},
		{"12:60", 0, false},
		{"noon", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := minuteOfDay(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("minuteOfDay(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
