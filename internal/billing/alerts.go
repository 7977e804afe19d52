package billing

import (
	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/models"
)

// AlertThresholds tunes ClassifyAlerts
type AlertThresholds struct {
	WindowDays       int // upcoming and recently-due window
	HighlightDays    int // long due
	DeactivationDays int // auto-deactivate
}

// DefaultAlertThresholds mirror the library's standing policy
var DefaultAlertThresholds = AlertThresholds{
	WindowDays:       7,
	HighlightDays:    90,
	DeactivationDays: 120,
}

// ClassifyAlerts sorts active students into alert buckets.
// A student may appear in more than one bucket.
func (e *Engine) ClassifyAlerts(students []models.Student, payments []models.Payment, th AlertThresholds) models.Alerts {
	today := e.Today()
	var alerts models.Alerts

	for i := range students {
		s := &students[i]
		if !s.IsActive {
			continue
		}
		fin := e.ComputeFinancials(s, payments)
		entry := models.StudentFinancials{Student: s, Financials: fin}

		paidUntil := s.AdmissionDate
		if fin.PaidUntil != nil {
			paidUntil = *fin.PaidUntil
		}
		left := daysBetween(today, paidUntil)

		if left > 0 && left <= th.WindowDays {
			alerts.UpcomingDue = append(alerts.UpcomingDue, entry)
		}
		if left <= 0 && left > -th.WindowDays {
			alerts.RecentlyDue = append(alerts.RecentlyDue, entry)
		}
		if th.HighlightDays > 0 && fin.DaysDue >= th.HighlightDays {
			alerts.LongDue = append(alerts.LongDue, entry)
		}
		if th.DeactivationDays > 0 && fin.DaysDue >= th.DeactivationDays {
			alerts.AutoDeactivate = append(alerts.AutoDeactivate, entry)
		}
	}
	return alerts
}
