package email

import (
	"bytes"
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/config"
	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/models"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// SendDuesDigest mails the owner the day's alert buckets
func (s *Sender) SendDuesDigest(date time.Time, alerts models.Alerts, deactivated []string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.OwnerEmail}
	e.Subject = fmt.Sprintf("Library dues digest for %s", date.Format("02 Jan 2006"))
	e.Text = DigestBody(date, alerts, deactivated)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send dues digest to %s: %v", s.cfg.OwnerEmail, err)
		return fmt.Errorf("failed to send dues digest: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", s.cfg.OwnerEmail, e.Subject)
	return nil
}

// DigestBody renders the plain-text digest
func DigestBody(date time.Time, alerts models.Alerts, deactivated []string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "Dues summary as of %s\n", date.Format("2006-01-02"))

	section := func(title string, list []models.StudentFinancials) {
		fmt.Fprintf(&b, "\n%s (%d)\n", title, len(list))
		for _, entry := range list {
			fin := entry.Financials
			fmt.Fprintf(&b, "  %s - %s: due %s", entry.Student.RollNo, entry.Student.Name, fin.TotalDues.StringFixed(2))
			if fin.DueSince != nil {
				fmt.Fprintf(&b, " since %s (%d days)", fin.DueSince.Format("2006-01-02"), fin.DaysDue)
			} else if fin.PaidUntil != nil {
				fmt.Fprintf(&b, ", paid until %s", fin.PaidUntil.Format("2006-01-02"))
			}
			b.WriteString("\n")
		}
	}
	section("Due in the next days", alerts.UpcomingDue)
	section("Recently due", alerts.RecentlyDue)
	section("Long due", alerts.LongDue)
	section("Eligible for deactivation", alerts.AutoDeactivate)

	if len(deactivated) > 0 {
		fmt.Fprintf(&b, "\nDeactivated today: %d\n", len(deactivated))
		for _, id := range deactivated {
			fmt.Fprintf(&b, "  %s\n", id)
		}
	}
	b.WriteString("\nBest regards,\nLibrary Service")
	return b.Bytes()
}
