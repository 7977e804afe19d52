package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Student represents a library member occupying (or waiting for) a seat
type Student struct {
	ID            string          `json:"id"`
	RollNo        string          `json:"roll_no"`
	Name          string          `json:"name"`
	Mobile        string          `json:"mobile"`
	Aadhaar       string          `json:"aadhaar,omitempty"` // Decrypted for response
	AadhaarHMAC   string          `json:"-"`
	ShiftID       string          `json:"shift_id"`
	AssignedSeat  string          `json:"assigned_seat"`
	AdmissionDate time.Time       `json:"admission_date"` // Date only, anchors the billing day
	MonthlyFee    decimal.Decimal `json:"monthly_fee"`
	FeeChanges    []FeeChange     `json:"fee_changes"`
	IsActive      bool            `json:"is_active"`
	DeactivatedAt *time.Time      `json:"deactivated_at"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// FeeChange sets the monthly fee from Date onward
type FeeChange struct {
	Date time.Time       `json:"date"`
	Fee  decimal.Decimal `json:"fee"`
}

// UnmarshalJSON accepts a fee given as a number, a numeric string or garbage (zero)
func (f *FeeChange) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date json.RawMessage `json:"date"`
		Fee  json.RawMessage `json:"fee"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := parseTime(raw.Date)
	if err != nil {
		return err
	}
	f.Date = date
	f.Fee = parseMoney(raw.Fee)
	return nil
}
