package billing

import (
	"slices"
	"strings"

	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/models"
	"github.com/shopspring/decimal"
)

// DueList returns active students with an outstanding balance, largest first.
// Equal balances are ordered by roll number.
func (e *Engine) DueList(students []models.Student, payments []models.Payment) []models.StudentFinancials {
	var due []models.StudentFinancials
	for i := range students {
		s := &students[i]
		if !s.IsActive {
			continue
		}
		fin := e.ComputeFinancials(s, payments)
		if fin.TotalDues.IsPositive() {
			due = append(due, models.StudentFinancials{Student: s, Financials: fin})
		}
	}
	slices.SortStableFunc(due, func(a, b models.StudentFinancials) int {
		if c := b.Financials.TotalDues.Cmp(a.Financials.TotalDues); c != 0 {
			return c
		}
		return strings.Compare(a.Student.RollNo, b.Student.RollNo)
	})
	return due
}

// TotalDue sums the balances of a due list
func TotalDue(due []models.StudentFinancials) decimal.Decimal {
	total := decimal.Zero
	for _, d := range due {
		total = total.Add(d.Financials.TotalDues)
	}
	return total
}
