package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want decimal.Decimal
	}{
		{"number", `1250.5`, decimal.RequireFromString("1250.5")},
		{"numeric string", `"600"`, decimal.NewFromInt(600)},
		{"padded string", `" 75 "`, decimal.NewFromInt(75)},
		{"negative", `-40`, decimal.NewFromInt(-40)},
		{"garbage string", `"abc"`, decimal.Zero},
		{"empty string", `""`, decimal.Zero},
		{"null", `null`, decimal.Zero},
		{"missing", ``, decimal.Zero},
		{"bool", `true`, decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseMoney(json.RawMessage(tt.raw)); !got.Equal(tt.want) {
				t.Errorf("parseMoney(%s) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{"rfc3339", `"2025-03-12T10:30:00Z"`, time.Date(2025, 3, 12, 10, 30, 0, 0, time.UTC), false},
		{"no zone", `"2025-03-12T10:30:00"`, time.Date(2025, 3, 12, 10, 30, 0, 0, time.UTC), false},
		{"bare date", `"2025-03-12"`, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), false},
		{"null", `null`, time.Time{}, false},
		{"empty string", `""`, time.Time{}, false},
		{"not a date", `"12/03/2025"`, time.Time{}, true},
		{"number", `20250312`, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTime(json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTime(%s) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseTime(%s) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestStudentFeeChangesDecode(t *testing.T) {
	body := `{"id":"s1","monthly_fee":"600","fee_changes":[
		{"date":"2025-04-10","fee":"650"},
		{"date":"2025-06-01T08:00:00Z","fee":700},
		{"date":"2025-07-01","fee":"n/a"}]}`

	var s Student
	if err := json.Unmarshal([]byte(body), &s); err != nil {
		t.Fatal(err)
	}
	if len(s.FeeChanges) != 3 {
		t.Fatalf("fee changes = %+v", s.FeeChanges)
	}
	want := []FeeChange{
		{Date: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC), Fee: decimal.NewFromInt(650)},
		{Date: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC), Fee: decimal.NewFromInt(700)},
		{Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), Fee: decimal.Zero},
	}
	for i, fc := range s.FeeChanges {
		if !fc.Date.Equal(want[i].Date) || !fc.Fee.Equal(want[i].Fee) {
			t.Errorf("fee change %d = %+v, want %+v", i, fc, want[i])
		}
	}

	var bad FeeChange
	if err := json.Unmarshal([]byte(`{"date":"yesterday","fee":10}`), &bad); err == nil {
		t.Error("expected error for unparseable date")
	}
}

func TestPaymentDecode(t *testing.T) {
	var p Payment
	body := `{"student_id":"s1","amount":"400","discount":"oops","date":"2025-03-12","note":"cash"}`
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatal(err)
	}
	if p.StudentID != "s1" || p.Note != "cash" {
		t.Errorf("payment = %+v", p)
	}
	if !p.Amount.Equal(decimal.NewFromInt(400)) || !p.Discount.IsZero() {
		t.Errorf("amount = %s, discount = %s", p.Amount, p.Discount)
	}
	if !p.Credit().Equal(decimal.NewFromInt(400)) {
		t.Errorf("credit = %s", p.Credit())
	}
	if !p.Date.Equal(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", p.Date)
	}

	if err := json.Unmarshal([]byte(`{"student_id":"s1","amount":5,"date":false}`), &p); err == nil {
		t.Error("expected error for non-string date")
	}
}
