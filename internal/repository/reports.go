package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Dan9191/finance-service/internal/models"
)

// CategorySums groups the user's transactions within the period by category
// and type. Zero period bounds are treated as open.
func (r *Repository) CategorySums(ctx context.Context, userID int64, p models.Period) ([]models.CategorySum, error) {
	return categorySums(ctx, r.db, userID, p)
}

// StatementRows reads the period's category sums and its transactions from
// one snapshot so the totals match the rows
func (r *Repository) StatementRows(ctx context.Context, userID int64, p models.Period) ([]models.CategorySum, []models.Transaction, error) {
	var sums []models.CategorySum
	var transactions []models.Transaction
	err := r.withReadTx(ctx, func(tx *sql.Tx) error {
		var err error
		if sums, err = categorySums(ctx, tx, userID, p); err != nil {
			return err
		}
		var f models.TransactionFilter
		if !p.Start.IsZero() {
			f.From = &p.Start
		}
		if !p.End.IsZero() {
			f.To = &p.End
		}
		transactions, err = listTransactions(ctx, tx, userID, f)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return sums, transactions, nil
}

func categorySums(ctx context.Context, q querier, userID int64, p models.Period) ([]models.CategorySum, error) {
	query := `
		SELECT c.category_name, ty.type_name, SUM(t.amount)
		FROM transactions t
		JOIN categories c ON c.category_id = t.category_id
		JOIN types ty ON ty.type_id = t.type_id
		WHERE t.user_id = $1
			AND ($2::date IS NULL OR t.date >= $2::date)
			AND ($3::date IS NULL OR t.date < $3::date)
		GROUP BY c.category_name, ty.type_name
		ORDER BY c.category_name, ty.type_name`

	rows, err := q.QueryContext(ctx, query, userID, nullDate(p.Start), nullDate(p.End))
	if err != nil {
		return nil, fmt.Errorf("failed to summarize transactions: %w", translateError(err))
	}
	defer rows.Close()

	var sums []models.CategorySum
	for rows.Next() {
		var s models.CategorySum
		if err := rows.Scan(&s.Category, &s.Type, &s.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan category sum: %w", err)
		}
		sums = append(sums, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to summarize transactions: %w", translateError(err))
	}
	return sums, nil
}

func nullDate(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
