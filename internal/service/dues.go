package service

import (
	"context"
	"fmt"

	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/billing"
	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func (s *Service) thresholds() billing.AlertThresholds {
	th := billing.DefaultAlertThresholds
	if s.config.HighlightThresholdDays > 0 {
		th.HighlightDays = s.config.HighlightThresholdDays
	}
	if s.config.DeactivationThresholdDays > 0 {
		th.DeactivationDays = s.config.DeactivationThresholdDays
	}
	return th
}

// SeatStatus classifies one seat
func (s *Service) SeatStatus(ctx context.Context, seatID string) (models.SeatAssignment, error) {
	snap, err := s.loadSnapshot(ctx, true)
	if err != nil {
		return models.SeatAssignment{}, err
	}
	seat := s.engine.ResolveSeatStatus(seatID, snap.students, snap.payments, snap.shifts)
	s.present(seat.Student)
	return seat, nil
}

// DueList returns active students in arrears, largest balance first
func (s *Service) DueList(ctx context.Context) ([]models.StudentFinancials, error) {
	snap, err := s.loadSnapshot(ctx, false)
	if err != nil {
		return nil, err
	}
	due := s.engine.DueList(snap.students, snap.payments)
	s.presentAll(due)
	return due, nil
}

// Alerts classifies active students into the alert buckets
func (s *Service) Alerts(ctx context.Context) (models.Alerts, error) {
	snap, err := s.loadSnapshot(ctx, false)
	if err != nil {
		return models.Alerts{}, err
	}
	alerts := s.engine.ClassifyAlerts(snap.students, snap.payments, s.thresholds())
	for _, bucket := range [][]models.StudentFinancials{alerts.UpcomingDue, alerts.RecentlyDue, alerts.LongDue, alerts.AutoDeactivate} {
		s.presentAll(bucket)
	}
	return alerts, nil
}

// DeactivateOverdue deactivates every active student whose arrears reached the
// deactivation threshold and returns their roll numbers
func (s *Service) DeactivateOverdue(ctx context.Context) ([]string, error) {
	snap, err := s.loadSnapshot(ctx, false)
	if err != nil {
		return nil, err
	}
	return s.deactivateEligible(ctx, snap)
}

func (s *Service) deactivateEligible(ctx context.Context, snap *snapshot) ([]string, error) {
	threshold := s.thresholds().DeactivationDays
	now := s.engine.Now()

	var deactivated []string
	for i := range snap.students {
		student := &snap.students[i]
		if !s.engine.EligibleForDeactivation(student, snap.payments, threshold) {
			continue
		}
		if err := s.repo.DeactivateStudent(ctx, student.ID, now); err != nil {
			return deactivated, fmt.Errorf("failed to deactivate %s: %w", student.RollNo, err)
		}
		deactivated = append(deactivated, student.RollNo)
	}
	if len(deactivated) > 0 {
		s.log.Infof("Auto-deactivated %d students", len(deactivated))
	}
	return deactivated, nil
}

// Dashboard computes the headline numbers
func (s *Service) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	snap, err := s.loadSnapshot(ctx, false)
	if err != nil {
		return nil, err
	}
	halls, err := s.repo.ListHalls(ctx)
	if err != nil {
		return nil, err
	}

	d := &models.Dashboard{TodayCollection: decimal.Zero}
	for _, h := range halls {
		d.TotalSeats += h.SeatCount
	}
	occupied := make(map[string]bool)
	for _, st := range snap.students {
		if !st.IsActive {
			continue
		}
		d.ActiveStudents++
		// seats outside the hall layout are not counted
		if seatInHalls(st.AssignedSeat, halls) {
			occupied[st.AssignedSeat] = true
		}
	}
	d.OccupiedSeats = len(occupied)
	d.AvailableSeats = d.TotalSeats - d.OccupiedSeats

	due := s.engine.DueList(snap.students, snap.payments)
	d.DueStudents = len(due)
	d.TotalDue = billing.TotalDue(due)

	today := s.engine.Today()
	loc := s.engine.Location()
	for _, p := range snap.payments {
		y, m, dd := p.Date.In(loc).Date()
		if ty, tm, td := today.Date(); y == ty && m == tm && dd == td {
			d.TodayCollection = d.TodayCollection.Add(p.Amount)
		}
	}
	return d, nil
}

// RunDuesJob is the daily job: optional auto-deactivation followed by the owner digest
func (s *Service) RunDuesJob(ctx context.Context) error {
	snap, err := s.loadSnapshot(ctx, false)
	if err != nil {
		return err
	}
	alerts := s.engine.ClassifyAlerts(snap.students, snap.payments, s.thresholds())
	s.log.WithFields(logrus.Fields{
		"upcoming":        len(alerts.UpcomingDue),
		"recently_due":    len(alerts.RecentlyDue),
		"long_due":        len(alerts.LongDue),
		"auto_deactivate": len(alerts.AutoDeactivate),
	}).Info("Dues job classified students")

	var deactivated []string
	if s.config.AutoDeactivate {
		if deactivated, err = s.deactivateEligible(ctx, snap); err != nil {
			return err
		}
	}

	if s.mailer == nil || !s.config.MailEnabled() {
		s.log.Debug("Dues digest skipped: mail not configured")
		return nil
	}
	return s.mailer.SendDuesDigest(s.engine.Today(), alerts, deactivated)
}
