package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dan9191/finance-service/internal/models"
)

// SeedReferenceData makes sure the fixed categories and types exist.
// Rows already present are left alone, so it is safe on every startup.
func (r *Repository) SeedReferenceData(ctx context.Context) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for _, name := range models.DefaultCategories {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO categories (category_name) VALUES ($1) ON CONFLICT (category_name) DO NOTHING`, name)
			if err != nil {
				return fmt.Errorf("failed to seed category %s: %w", name, translateError(err))
			}
		}
		for _, name := range models.DefaultTypes {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO types (type_name) VALUES ($1) ON CONFLICT (type_name) DO NOTHING`, name)
			if err != nil {
				return fmt.Errorf("failed to seed type %s: %w", name, translateError(err))
			}
		}
		return nil
	})
}

// ListCategories returns all categories ordered by id
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category_id, category_name FROM categories ORDER BY category_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", translateError(err))
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", translateError(err))
	}
	return categories, nil
}

// ListTypes returns all transaction types ordered by id
func (r *Repository) ListTypes(ctx context.Context) ([]models.Type, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT type_id, type_name FROM types ORDER BY type_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list types: %w", translateError(err))
	}
	defer rows.Close()

	var types []models.Type
	for rows.Next() {
		var t models.Type
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan type: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list types: %w", translateError(err))
	}
	return types, nil
}

// checkReferences fails with ErrInvalidReference when a given category or
// type id does not exist. Nil ids are not checked.
func checkReferences(ctx context.Context, q querier, categoryID, typeID *int64) error {
	if categoryID != nil {
		var exists bool
		err := q.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM categories WHERE category_id = $1)`, *categoryID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check category: %w", translateError(err))
		}
		if !exists {
			return fmt.Errorf("%w: category %d does not exist", models.ErrInvalidReference, *categoryID)
		}
	}
	if typeID != nil {
		var exists bool
		err := q.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM types WHERE type_id = $1)`, *typeID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check type: %w", translateError(err))
		}
		if !exists {
			return fmt.Errorf("%w: type %d does not exist", models.ErrInvalidReference, *typeID)
		}
	}
	return nil
}
