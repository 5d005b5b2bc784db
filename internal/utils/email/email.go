package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/ddj1226/SpendSense/internal/config"
	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Digest is the weekly goal summary for one user
type Digest struct {
	FirstName     string
	NetWorth      decimal.Decimal
	TargetAmount  decimal.Decimal
	TargetDate    string
	Projected     decimal.Decimal
	OnTrack       bool
	TopCategories string
	Insight       string
}

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

// SendGoalDigest emails a savings goal progress report
func (s *Sender) SendGoalDigest(to string, d Digest) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	if d.OnTrack {
		e.Subject = "You're on track for your savings goal"
	} else {
		e.Subject = "Your savings goal needs attention"
	}
	e.Text = []byte(digestBody(d))

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send goal digest to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

func digestBody(d Digest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", d.FirstName)
	fmt.Fprintf(&b, "Goal: $%s by %s\n", d.TargetAmount.StringFixed(2), d.TargetDate)
	fmt.Fprintf(&b, "Current net worth: $%s\n", d.NetWorth.StringFixed(2))
	status := "OFF TRACK"
	if d.OnTrack {
		status = "ON TRACK"
	}
	fmt.Fprintf(&b, "Projected balance: $%s (%s)\n", d.Projected.StringFixed(2), status)
	if d.TopCategories != "" {
		fmt.Fprintf(&b, "Top spending (last 60 days): %s\n", d.TopCategories)
	}
	if d.Insight != "" {
		fmt.Fprintf(&b, "\n%s\n", d.Insight)
	}
	b.WriteString("\nBest regards,\nSpendSense")
	return b.String()
}
