package email

import (
	"errors"
	"io"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func newTestSender(cfg *config.Config) (*Sender, *[]*email.Email, *string) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	var sent []*email.Email
	var addr string
	s := NewSender(cfg, log)
	s.send = func(e *email.Email, a string, auth smtp.Auth) error {
		sent = append(sent, e)
		addr = a
		return nil
	}
	return s, &sent, &addr
}

func testSummary() *models.Summary {
	return &models.Summary{
		Period: models.MonthPeriod(2024, time.January),
		Categories: []models.CategoryTotal{
			{Category: "Food", Income: decimal.Zero, Expense: decimal.NewFromInt(100), Total: decimal.NewFromInt(100)},
		},
		Income:  decimal.Zero,
		Expense: decimal.NewFromInt(100),
		Balance: decimal.NewFromInt(-100),
	}
}

func TestSendReport(t *testing.T) {
	cfg := &config.Config{SMTPHost: "smtp.example.com", SMTPPort: "2525", SenderEmail: "reports@example.com"}
	s, sent, addr := newTestSender(cfg)

	if err := s.SendReport("alice@example.com", "alice", testSummary(), []byte("<statement/>")); err != nil {
		t.Fatalf("SendReport() error = %v", err)
	}

	if len(*sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(*sent))
	}
	e := (*sent)[0]
	if *addr != "smtp.example.com:2525" {
		t.Errorf("addr = %q", *addr)
	}
	if e.From != "reports@example.com" || e.To[0] != "alice@example.com" {
		t.Errorf("from/to = %q/%v", e.From, e.To)
	}
	if !strings.Contains(e.Subject, "2024-01-01 to 2024-02-01") {
		t.Errorf("subject = %q", e.Subject)
	}
	body := string(e.Text)
	for _, want := range []string{"Dear alice", "Food", "Total expenses: 100.00", "Balance:        -100.00"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
	if len(e.Attachments) != 1 || e.Attachments[0].Filename != "statement.xml" {
		t.Errorf("attachments = %+v", e.Attachments)
	}
}

func TestSendReport_EmptyPeriodNoAttachment(t *testing.T) {
	cfg := &config.Config{SMTPHost: "smtp.example.com", SMTPPort: "25", SenderEmail: "reports@example.com"}
	s, sent, _ := newTestSender(cfg)

	summary := &models.Summary{Period: models.AllTime(), Categories: []models.CategoryTotal{}}
	if err := s.SendReport("bob@example.com", "bob", summary, nil); err != nil {
		t.Fatal(err)
	}
	e := (*sent)[0]
	if !strings.Contains(string(e.Text), "No transactions were recorded") {
		t.Errorf("body = %s", e.Text)
	}
	if len(e.Attachments) != 0 {
		t.Errorf("unexpected attachments %+v", e.Attachments)
	}
}

func TestSendReport_IPv6Host(t *testing.T) {
	cfg := &config.Config{SMTPHost: "2001:db8::25", SMTPPort: "587", SenderEmail: "reports@example.com"}
	s, _, addr := newTestSender(cfg)

	if err := s.SendReport("bob@example.com", "bob", testSummary(), nil); err != nil {
		t.Fatal(err)
	}
	if *addr != "[2001:db8::25]:587" {
		t.Errorf("addr = %q, want [2001:db8::25]:587", *addr)
	}
}

func TestSendReport_Failure(t *testing.T) {
	cfg := &config.Config{SMTPHost: "smtp.example.com", SMTPPort: "25", SenderEmail: "reports@example.com"}
	s, _, _ := newTestSender(cfg)
	s.send = func(e *email.Email, addr string, auth smtp.Auth) error {
		return errors.New("connection refused")
	}

	if err := s.SendReport("bob@example.com", "bob", testSummary(), nil); err == nil {
		t.Fatal("expected error")
	}
}
