package service

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/shopspring/decimal"
)

const amountPlaces = 2

// maxAmount is the largest value a NUMERIC(12,2) column holds
var maxAmount = decimal.RequireFromString("9999999999.99")

// ParseAmount parses user input such as "12.34" or "12,34" into a positive
// amount rounded to cents
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", models.ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", models.ErrInvalidAmount, s)
	}
	return normalizeAmount(d)
}

// normalizeAmount rounds to cents and rejects zero and negative values;
// the transaction type carries the direction
func normalizeAmount(d decimal.Decimal) (decimal.Decimal, error) {
	d = d.Round(amountPlaces)
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s must be greater than zero", models.ErrInvalidAmount, d.StringFixed(amountPlaces))
	}
	if d.GreaterThan(maxAmount) {
		return decimal.Zero, fmt.Errorf("%w: %s exceeds %s", models.ErrInvalidAmount, d.StringFixed(amountPlaces), maxAmount.StringFixed(amountPlaces))
	}
	return d, nil
}

// ParseDate parses a YYYY-MM-DD calendar date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q, expected YYYY-MM-DD", models.ErrInvalidDate, s)
	}
	return t, nil
}

// NormalizeEmail validates a bare address and returns it with surrounding
// spaces removed and the domain lower-cased
func NormalizeEmail(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) > 100 {
		return "", fmt.Errorf("%w: longer than 100 characters", models.ErrInvalidEmail)
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidEmail, s)
	}

	at := strings.LastIndex(addr.Address, "@")
	local, domain := addr.Address[:at], strings.ToLower(addr.Address[at+1:])
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return "", fmt.Errorf("%w: %q has no top-level domain", models.ErrInvalidEmail, s)
	}
	for _, label := range labels {
		if label == "" || strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return "", fmt.Errorf("%w: %q has an invalid domain", models.ErrInvalidEmail, s)
		}
	}
	return local + "@" + domain, nil
}

func validateUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", fmt.Errorf("%w: username is required", models.ErrInvalidInput)
	}
	if len(username) > 50 {
		return "", fmt.Errorf("%w: username is longer than 50 characters", models.ErrInvalidInput)
	}
	return username, nil
}

func validatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", models.ErrInvalidInput)
	}
	// bcrypt ignores everything past 72 bytes
	if len(password) > 72 {
		return fmt.Errorf("%w: password is longer than 72 bytes", models.ErrInvalidInput)
	}
	return nil
}
