// Package email delivers reminder and alert emails via SMTP.
package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"

	"subtrackt/internal/config"
	"subtrackt/internal/logger"
	"subtrackt/internal/models"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg *config.Config
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config) *Sender {
	return &Sender{cfg: cfg}
}

// Enabled reports whether SMTP delivery is configured. When it is not, the
// sweep still writes in-app notifications and simply skips email.
func (s *Sender) Enabled() bool {
	return s.cfg.SMTPHost != ""
}

// SendPaymentReminder sends a payment reminder email for one subscription.
func (s *Sender) SendPaymentReminder(to, name string, sub *models.Subscription, daysUntil int) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Upcoming Payment: %s", sub.Name)

	body := fmt.Sprintf("Dear %s,\n\n", name)
	if daysUntil == 1 {
		body += fmt.Sprintf(
			"Your %s subscription payment of $%.2f is due tomorrow (%s).\n",
			sub.Name, sub.Amount, sub.NextPayment.Format("2006-01-02"),
		)
	} else {
		body += fmt.Sprintf(
			"Your %s subscription payment of $%.2f is due in %d days (%s).\n",
			sub.Name, sub.Amount, daysUntil, sub.NextPayment.Format("2006-01-02"),
		)
	}
	body += "\nBest regards,\nSubtrackt"
	e.Text = []byte(body)

	return s.send(e, to)
}

// SendBudgetAlert sends a budget threshold email carrying the generated
// notification's message.
func (s *Sender) SendBudgetAlert(to, name string, n *models.Notification) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = n.Title

	body := fmt.Sprintf(
		"Dear %s,\n\n%s\n"+
			"Review your subscriptions if this is more than you planned.\n"+
			"\nBest regards,\nSubtrackt",
		name, n.Message,
	)
	e.Text = []byte(body)

	return s.send(e, to)
}

func (s *Sender) send(e *email.Email, to string) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		logger.Get().Errorw("failed to send email", "to", to, "subject", e.Subject, "error", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	logger.Get().Infow("email sent", "to", to, "subject", e.Subject, "at", time.Now().Format(time.RFC3339))
	return nil
}
