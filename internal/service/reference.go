package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dan9191/finance-service/internal/models"
)

// Seed ensures the fixed categories and types exist
func (s *Service) Seed(ctx context.Context) error {
	if err := s.store.SeedReferenceData(ctx); err != nil {
		return fmt.Errorf("failed to seed reference data: %w", err)
	}
	s.log.Debug("Reference data seeded")
	return nil
}

// Categories lists the available categories
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}

// Types lists the available transaction types
func (s *Service) Types(ctx context.Context) ([]models.Type, error) {
	return s.store.ListTypes(ctx)
}

// TypeByName looks up a transaction type, ignoring case
func (s *Service) TypeByName(ctx context.Context, name string) (*models.Type, error) {
	types, err := s.store.ListTypes(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: unknown type %q", models.ErrInvalidReference, name)
}

// CategoryByName looks up a category, ignoring case
func (s *Service) CategoryByName(ctx context.Context, name string) (*models.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: unknown category %q", models.ErrInvalidReference, name)
}
