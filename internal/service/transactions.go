package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/sirupsen/logrus"
)

// CreateTransaction validates and records a transaction for its owner
func (s *Service) CreateTransaction(ctx context.Context, t models.NewTransaction) (int64, error) {
	amount, err := normalizeAmount(t.Amount)
	if err != nil {
		return 0, err
	}
	if t.Date.IsZero() {
		return 0, fmt.Errorf("%w: date is required", models.ErrInvalidDate)
	}
	if t.CategoryID <= 0 || t.TypeID <= 0 {
		return 0, fmt.Errorf("%w: category and type are required", models.ErrInvalidReference)
	}

	t.Amount = amount
	t.Date = models.DateOnly(t.Date)
	t.Description = strings.TrimSpace(t.Description)

	id, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":        t.UserID,
		"transaction_id": id,
	}).Infof("Transaction created: %s on %s", amount.StringFixed(amountPlaces), t.Date.Format(models.DateLayout))
	return id, nil
}

// GetTransaction returns one of the user's transactions
func (s *Service) GetTransaction(ctx context.Context, id, userID int64) (*models.Transaction, error) {
	return s.store.GetTransaction(ctx, id, userID)
}

// ListTransactions returns the user's transactions matching the filter
func (s *Service) ListTransactions(ctx context.Context, userID int64, f models.TransactionFilter) ([]models.Transaction, error) {
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return nil, fmt.Errorf("%w: from must be before to", models.ErrInvalidPeriod)
	}
	return s.store.ListTransactions(ctx, userID, f)
}

// UpdateTransaction applies a partial update to one of the user's transactions
func (s *Service) UpdateTransaction(ctx context.Context, id, userID int64, u models.TransactionUpdate) error {
	if u.Amount != nil {
		amount, err := normalizeAmount(*u.Amount)
		if err != nil {
			return err
		}
		u.Amount = &amount
	}
	if u.Date != nil {
		if u.Date.IsZero() {
			return fmt.Errorf("%w: date is required", models.ErrInvalidDate)
		}
		date := models.DateOnly(*u.Date)
		u.Date = &date
	}
	if u.Description != nil {
		description := strings.TrimSpace(*u.Description)
		u.Description = &description
	}

	if err := s.store.UpdateTransaction(ctx, id, userID, u); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": id,
	}).Info("Transaction updated")
	return nil
}

// DeleteTransaction removes one of the user's transactions
func (s *Service) DeleteTransaction(ctx context.Context, id, userID int64) error {
	if err := s.store.DeleteTransaction(ctx, id, userID); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": id,
	}).Info("Transaction deleted")
	return nil
}
