package service

import (
	"context"
	"fmt"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/shopspring/decimal"
)

// Summarize totals the user's transactions in the period per category, with
// overall income, expense and balance. An empty period yields zero totals.
func (s *Service) Summarize(ctx context.Context, userID int64, p models.Period) (*models.Summary, error) {
	if err := checkPeriod(p); err != nil {
		return nil, err
	}
	sums, err := s.store.CategorySums(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	return s.summarize(userID, p, sums), nil
}

// Statement lists the user's transactions in the period together with their
// summary, both read from the same snapshot
func (s *Service) Statement(ctx context.Context, userID int64, p models.Period) (*models.Statement, error) {
	if err := checkPeriod(p); err != nil {
		return nil, err
	}
	sums, transactions, err := s.store.StatementRows(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	return &models.Statement{Summary: s.summarize(userID, p, sums), Transactions: transactions}, nil
}

func checkPeriod(p models.Period) error {
	if !p.Start.IsZero() && !p.End.IsZero() && !p.Start.Before(p.End) {
		return fmt.Errorf("%w: start must be before end", models.ErrInvalidPeriod)
	}
	return nil
}

func (s *Service) summarize(userID int64, p models.Period, sums []models.CategorySum) *models.Summary {
	summary := &models.Summary{
		UserID:     userID,
		Period:     p,
		Categories: []models.CategoryTotal{},
		Income:     decimal.Zero,
		Expense:    decimal.Zero,
	}

	index := make(map[string]int)
	for _, sum := range sums {
		i, ok := index[sum.Category]
		if !ok {
			i = len(summary.Categories)
			index[sum.Category] = i
			summary.Categories = append(summary.Categories, models.CategoryTotal{
				Category: sum.Category,
				Income:   decimal.Zero,
				Expense:  decimal.Zero,
				Total:    decimal.Zero,
			})
		}
		ct := &summary.Categories[i]

		switch sum.Type {
		case models.TypeIncome:
			ct.Income = ct.Income.Add(sum.Amount)
			summary.Income = summary.Income.Add(sum.Amount)
		case models.TypeExpense:
			ct.Expense = ct.Expense.Add(sum.Amount)
			summary.Expense = summary.Expense.Add(sum.Amount)
		default:
			s.log.Warnf("Unknown transaction type %q in category %s", sum.Type, sum.Category)
		}
		ct.Total = ct.Total.Add(sum.Amount)
	}
	summary.Balance = summary.Income.Sub(summary.Expense)

	s.log.WithField("user_id", userID).Debugf("Summary for %s: income %s, expense %s",
		p, summary.Income.StringFixed(amountPlaces), summary.Expense.StringFixed(amountPlaces))
	return summary
}
