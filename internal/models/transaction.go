package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for input and output
const DateLayout = "2006-01-02"

// Transaction represents a recorded income or expense
type Transaction struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	Amount       decimal.Decimal `json:"amount"`
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category"`
	TypeID       int64           `json:"type_id"`
	TypeName     string          `json:"type"`
	Description  string          `json:"description"`
	Date         time.Time       `json:"date"`
}

// IsIncome reports whether the transaction is of the Income type
func (t *Transaction) IsIncome() bool {
	return t.TypeName == TypeIncome
}

// NewTransaction carries the fields needed to record a transaction
type NewTransaction struct {
	UserID      int64
	Amount      decimal.Decimal
	CategoryID  int64
	TypeID      int64
	Description string
	Date        time.Time
}

// TransactionUpdate is a partial update; nil fields are left unchanged
type TransactionUpdate struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	CategoryID  *int64           `json:"category_id,omitempty"`
	TypeID      *int64           `json:"type_id,omitempty"`
	Description *string          `json:"description,omitempty"`
	Date        *time.Time       `json:"date,omitempty"`
}

// Empty reports whether the update changes nothing
func (u TransactionUpdate) Empty() bool {
	return u.Amount == nil && u.CategoryID == nil && u.TypeID == nil &&
		u.Description == nil && u.Date == nil
}

// TransactionFilter narrows a listing. From is inclusive, To is exclusive.
type TransactionFilter struct {
	From       *time.Time
	To         *time.Time
	CategoryID *int64
	TypeID     *int64
}

// DateOnly drops the clock and zone, keeping the calendar day as UTC midnight
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
