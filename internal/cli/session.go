// Package cli runs the interactive finance session on a terminal.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Dan9191/finance-service/internal/export"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/service"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// PasswordFunc reads a password without echoing it
type PasswordFunc func() (string, error)

// TerminalPassword returns a PasswordFunc for the terminal behind fd, or nil
// when fd is not a terminal
func TerminalPassword(fd int) PasswordFunc {
	if !term.IsTerminal(fd) {
		return nil
	}
	return func() (string, error) {
		b, err := term.ReadPassword(fd)
		return string(b), err
	}
}

// Session is one interactive run: sign-in followed by the main menu
type Session struct {
	svc      *service.Service
	in       *bufio.Scanner
	out      io.Writer
	password PasswordFunc
	log      *logrus.Logger
	now      func() time.Time

	user *models.User
}

// NewSession creates a session reading commands from in. A nil password func
// reads passwords as plain lines from in.
func NewSession(svc *service.Service, in io.Reader, out io.Writer, password PasswordFunc, log *logrus.Logger) *Session {
	return &Session{
		svc:      svc,
		in:       bufio.NewScanner(in),
		out:      out,
		password: password,
		log:      log,
		now:      time.Now,
	}
}

// Run drives the session until the user exits or input ends
func (s *Session) Run(ctx context.Context) error {
	err := s.run(ctx)
	if errors.Is(err, io.EOF) {
		s.println()
		return nil
	}
	return err
}

func (s *Session) run(ctx context.Context) error {
	for s.user == nil {
		choice, err := s.prompt("Select: [0] Register [1] Login [2] Exit: ")
		if err != nil {
			return err
		}
		switch choice {
		case "0":
			err = s.register(ctx)
		case "1":
			err = s.login(ctx)
		case "2":
			s.println("Goodbye!")
			return nil
		default:
			s.println("Choose a valid option.")
		}
		if err != nil {
			return err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.println()
		s.println("[1] View transactions")
		s.println("[2] Add transaction")
		s.println("[3] Delete transaction")
		s.println("[4] Update transaction")
		s.println("[5] Monthly report")
		s.println("[6] All-time report")
		s.println("[7] Export statement to XML")
		s.println("[8] Change password")
		s.println("[0] Exit")
		choice, err := s.prompt("Choose an option: ")
		if err != nil {
			return err
		}

		switch choice {
		case "0":
			s.println("Goodbye!")
			return nil
		case "1":
			err = s.showTransactions(ctx)
		case "2":
			err = s.addTransaction(ctx)
		case "3":
			err = s.deleteTransaction(ctx)
		case "4":
			err = s.updateTransaction(ctx)
		case "5":
			err = s.monthlyReport(ctx)
		case "6":
			err = s.report(ctx, models.AllTime())
		case "7":
			err = s.exportStatement(ctx)
		case "8":
			err = s.changePassword(ctx)
		default:
			s.println("Invalid option. Please try again.")
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return err
			}
			s.fail(err)
		}
	}
}

func (s *Session) register(ctx context.Context) error {
	username, err := s.prompt("Enter your username: ")
	if err != nil {
		return err
	}
	password, err := s.readPassword("Enter your password: ")
	if err != nil {
		return err
	}
	email, err := s.prompt("Enter your email: ")
	if err != nil {
		return err
	}

	if _, err := s.svc.Register(ctx, username, password, email); err != nil {
		s.fail(err)
		return nil
	}
	s.println("Registration successful. You can log in now.")
	return nil
}

func (s *Session) login(ctx context.Context) error {
	username, err := s.prompt("Enter your username: ")
	if err != nil {
		return err
	}
	password, err := s.readPassword("Enter your password: ")
	if err != nil {
		return err
	}

	user, err := s.svc.Authenticate(ctx, username, password)
	if err != nil {
		s.fail(err)
		return nil
	}
	s.user = user
	s.println("Login successful.")
	return nil
}

func (s *Session) changePassword(ctx context.Context) error {
	oldPassword, err := s.readPassword("Current password: ")
	if err != nil {
		return err
	}
	newPassword, err := s.readPassword("New password: ")
	if err != nil {
		return err
	}
	if err := s.svc.ChangePassword(ctx, s.user.ID, oldPassword, newPassword); err != nil {
		return err
	}
	s.println("Password changed.")
	return nil
}

// fail reports an error to the user; unexpected ones are also logged
func (s *Session) fail(err error) {
	switch {
	case errors.Is(err, models.ErrInvalidCredentials):
		s.println("Invalid username or password.")
	case errors.Is(err, models.ErrDuplicateUser),
		errors.Is(err, models.ErrNotFound),
		models.IsValidation(err):
		s.println("Error:", err)
	default:
		s.log.Errorf("Operation failed: %v", err)
		s.println("Something went wrong, please try again.")
	}
}

func (s *Session) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Session) readPassword(label string) (string, error) {
	if s.password == nil {
		return s.prompt(label)
	}
	fmt.Fprint(s.out, label)
	password, err := s.password()
	fmt.Fprintln(s.out)
	return password, err
}

func (s *Session) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Session) promptID(label string) (int64, error) {
	raw, err := s.prompt(label)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a valid id", models.ErrInvalidInput, raw)
	}
	return id, nil
}

func (s *Session) writeTransactions(transactions []models.Transaction) {
	if len(transactions) == 0 {
		s.println("No transactions found.")
		return
	}
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDate\tType\tCategory\tAmount\tDescription")
	for _, t := range transactions {
		sign := "-"
		if t.IsIncome() {
			sign = "+"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s%s\t%s\n",
			t.ID, t.Date.Format(models.DateLayout), t.TypeName, t.CategoryName,
			sign, t.Amount.StringFixed(2), t.Description)
	}
	tw.Flush()
}

func (s *Session) exportStatement(ctx context.Context) error {
	raw, err := s.prompt("Month (YYYY-MM, blank for all time): ")
	if err != nil {
		return err
	}
	period, err := parseMonth(raw)
	if err != nil {
		return err
	}
	path, err := s.prompt("File name [statement.xml]: ")
	if err != nil {
		return err
	}
	if path == "" {
		path = "statement.xml"
	}

	st, err := s.svc.Statement(ctx, s.user.ID, period)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.WriteStatement(f, s.user.Username, st); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	s.println("Statement written to", path)
	return nil
}

// parseMonth reads YYYY-MM; blank means all time
func parseMonth(raw string) (models.Period, error) {
	if raw == "" {
		return models.AllTime(), nil
	}
	t, err := time.Parse("2006-01", raw)
	if err != nil {
		return models.Period{}, fmt.Errorf("%w: %q, expected YYYY-MM", models.ErrInvalidPeriod, raw)
	}
	return models.MonthPeriod(t.Year(), t.Month()), nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
