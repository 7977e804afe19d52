package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Payment represents money collected from a student.
// Discount is forgiven but still counts toward the student's dues.
type Payment struct {
	ID        string          `json:"id"`
	StudentID string          `json:"student_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Discount  decimal.Decimal `json:"discount"`
	Date      time.Time       `json:"date"`
	Note      string          `json:"note,omitempty" validate:"max=200"`
	CreatedAt time.Time       `json:"created_at"`
}

// Credit is the value applied to the billing timeline: amount plus discount
func (p Payment) Credit() decimal.Decimal {
	return p.Amount.Add(p.Discount)
}

// UnmarshalJSON coerces non-numeric amount and discount values to zero
func (p *Payment) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        string          `json:"id"`
		StudentID string          `json:"student_id"`
		Amount    json.RawMessage `json:"amount"`
		Discount  json.RawMessage `json:"discount"`
		Date      json.RawMessage `json:"date"`
		Note      string          `json:"note"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := parseTime(raw.Date)
	if err != nil {
		return err
	}
	p.ID = raw.ID
	p.StudentID = raw.StudentID
	p.Amount = parseMoney(raw.Amount)
	p.Discount = parseMoney(raw.Discount)
	p.Date = date
	p.Note = raw.Note
	return nil
}
