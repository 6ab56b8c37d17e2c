package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Period is a half-open date range [Start, End). A zero bound is unbounded.
type Period struct {
	Start time.Time `json:"start,omitempty"`
	End   time.Time `json:"end,omitempty"`
}

// MonthPeriod covers one calendar month
func MonthPeriod(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}

// YearPeriod covers one calendar year
func YearPeriod(year int) Period {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(1, 0, 0)}
}

// AllTime is a period without bounds
func AllTime() Period {
	return Period{}
}

// NewPeriod builds an explicit range; start must be before end
func NewPeriod(start, end time.Time) (Period, error) {
	if !start.Before(end) {
		return Period{}, fmt.Errorf("%w: start %s is not before end %s",
			ErrInvalidPeriod, start.Format(DateLayout), end.Format(DateLayout))
	}
	return Period{Start: start, End: end}, nil
}

// Contains reports whether the date falls inside the period
func (p Period) Contains(date time.Time) bool {
	if !p.Start.IsZero() && date.Before(p.Start) {
		return false
	}
	if !p.End.IsZero() && !date.Before(p.End) {
		return false
	}
	return true
}

// String renders the period for logs and reports
func (p Period) String() string {
	switch {
	case p.Start.IsZero() && p.End.IsZero():
		return "all time"
	case p.Start.IsZero():
		return "until " + p.End.Format(DateLayout)
	case p.End.IsZero():
		return "from " + p.Start.Format(DateLayout)
	}
	return p.Start.Format(DateLayout) + " to " + p.End.Format(DateLayout)
}

// CategoryTotal holds one category's sums within a period
type CategoryTotal struct {
	Category string          `json:"category"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
	Total    decimal.Decimal `json:"total"`
}

// Summary represents income and expense totals for a period
type Summary struct {
	UserID     int64           `json:"user_id"`
	Period     Period          `json:"period"`
	Categories []CategoryTotal `json:"categories"`
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	Balance    decimal.Decimal `json:"balance"` // Income - Expense
}

// Statement is the list of transactions in a period together with its summary
type Statement struct {
	Summary      *Summary      `json:"summary"`
	Transactions []Transaction `json:"transactions"`
}

// CategorySum is one grouped row: the sum of a user's amounts for a category and type
type CategorySum struct {
	Category string
	Type     string
	Amount   decimal.Decimal
}
