package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/memstore"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/service"
	"github.com/sirupsen/logrus"
)

func newTestService(t *testing.T) *service.Service {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	svc := service.NewService(memstore.New(), log, &config.Config{})
	if err := svc.Seed(context.Background()); err != nil {
		t.Fatal(err)
	}
	return svc
}

func script(lines ...string) io.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func runSession(t *testing.T, svc *service.Service, in io.Reader) string {
	t.Helper()
	var out bytes.Buffer
	log := logrus.New()
	log.SetOutput(io.Discard)

	s := NewSession(svc, in, &out, nil, log)
	s.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v\noutput:\n%s", err, out.String())
	}
	return out.String()
}

func TestRegisterThenLogin(t *testing.T) {
	svc := newTestService(t)
	out := runSession(t, svc, script(
		"0", "alice", "secret", "alice@example.com",
		"1", "alice", "secret",
		"0",
	))

	for _, want := range []string{"Registration successful", "Login successful.", "Goodbye!"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLoginFailures(t *testing.T) {
	svc := newTestService(t)
	out := runSession(t, svc, script(
		"0", "alice", "secret", "bad-email",
		"0", "alice", "secret", "alice@example.com",
		"0", "alice", "other", "other@example.com",
		"1", "alice", "wrong",
		"1", "ghost", "secret",
		"7",
		"2",
	))

	if !strings.Contains(out, "invalid email") {
		t.Errorf("expected invalid email message:\n%s", out)
	}
	if !strings.Contains(out, "user already exists") {
		t.Errorf("expected duplicate user message:\n%s", out)
	}
	if strings.Count(out, "Invalid username or password.") != 2 {
		t.Errorf("expected two identical login failures:\n%s", out)
	}
	if !strings.Contains(out, "Choose a valid option.") {
		t.Errorf("expected invalid option message:\n%s", out)
	}
}

func TestTransactionMenu(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Register(context.Background(), "alice", "secret", "alice@example.com"); err != nil {
		t.Fatal(err)
	}

	out := runSession(t, svc, script(
		"1", "alice", "secret",
		// add: amount, category, type, description, date
		"2", "12,50", "1", "2", "groceries", "2024-03-01",
		"2", "1000", "6", "1", "salary", "",
		"2", "-4",
		// update the first: amount, keep category, keep type, description, keep date
		"4", "1", "15", "", "", "market", "",
		"1",
		// monthly and all-time reports
		"5", "2024-03",
		"6",
		"3", "2",
		"3", "2",
		"1",
		"0",
	))

	for _, want := range []string{
		"Transaction added with id 1",
		"Transaction added with id 2",
		"invalid amount",
		"Transaction updated.",
		"market",
		"Report for 2024-03-01 to 2024-04-01",
		"Balance:       985.00",
		"Report for all time",
		"Transaction deleted.",
		"transaction not found",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	list, err := svc.ListTransactions(context.Background(), 1, models.TransactionFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Amount.StringFixed(2) != "15.00" || list[0].Description != "market" {
		t.Errorf("remaining transactions = %+v", list)
	}
	if got := list[0].Date.Format(models.DateLayout); got != "2024-03-01" {
		t.Errorf("date = %s", got)
	}
}

func TestAddTransactionByNames(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Register(context.Background(), "alice", "secret", "alice@example.com"); err != nil {
		t.Fatal(err)
	}

	out := runSession(t, svc, script(
		"1", "alice", "secret",
		"2", "1000", "account", "INCOME", "salary", "2024-03-01",
		"2", "25", "groceries",
		"2", "25", "",
		"2", "30", "food", "expense", "lunch", "2024-03-02",
		"1",
		"0",
	))

	for _, want := range []string{
		"Transaction added with id 1",
		`unknown category "groceries"`,
		"category is required",
		"Transaction added with id 2",
		"+1000.00",
		"-30.00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestExportAndChangePassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, "alice", "secret", "alice@example.com"); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "march.xml")

	runSession(t, svc, script(
		"1", "alice", "secret",
		"2", "20", "2", "2", "bus", "2024-03-02",
		"7", "2024-03", path,
		"8", "secret", "fresh",
		"0",
	))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<statement") || !strings.Contains(string(data), "bus") {
		t.Errorf("statement = %s", data)
	}
	if _, err := svc.Authenticate(ctx, "alice", "fresh"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestRunEndsOnEOF(t *testing.T) {
	svc := newTestService(t)
	out := runSession(t, svc, strings.NewReader("1\n"))
	if !strings.Contains(out, "Enter your username:") {
		t.Errorf("output = %q", out)
	}
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		in      string
		want    models.Period
		wantErr bool
	}{
		{in: "", want: models.AllTime()},
		{in: "2024-02", want: models.MonthPeriod(2024, time.February)},
		{in: "2024-13", wantErr: true},
		{in: "February", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseMonth(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseMonth(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseMonth(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
