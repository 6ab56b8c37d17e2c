package email

import (
	"bytes"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

const statementContentType = "application/xml"

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

// SendReport mails a period summary to the user, with the XML statement attached when given
func (s *Sender) SendReport(to, username string, summary *models.Summary, statementXML []byte) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Your finance report: %s", summary.Period)
	e.Text = []byte(reportBody(username, summary))

	if len(statementXML) > 0 {
		if _, err := e.Attach(bytes.NewReader(statementXML), "statement.xml", statementContentType); err != nil {
			return fmt.Errorf("failed to attach statement: %w", err)
		}
	}

	addr := net.JoinHostPort(s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send report to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

func reportBody(username string, summary *models.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", username)
	fmt.Fprintf(&b, "Here is your summary for %s.\n\n", summary.Period)

	if len(summary.Categories) == 0 {
		b.WriteString("No transactions were recorded in this period.\n")
	} else {
		for _, c := range summary.Categories {
			fmt.Fprintf(&b, "  %-16s income %10s   expense %10s\n",
				c.Category, c.Income.StringFixed(2), c.Expense.StringFixed(2))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Total income:   %s\n", summary.Income.StringFixed(2))
	fmt.Fprintf(&b, "Total expenses: %s\n", summary.Expense.StringFixed(2))
	fmt.Fprintf(&b, "Balance:        %s\n", summary.Balance.StringFixed(2))
	b.WriteString("\nBest regards,\nFinance Service")
	return b.String()
}
