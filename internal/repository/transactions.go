package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/shopspring/decimal"
)

const transactionColumns = `
		t.transaction_id, t.user_id, t.amount, t.category_id, c.category_name,
		t.type_id, ty.type_name, t.description, t.date`

const transactionJoins = `
		FROM transactions t
		JOIN categories c ON c.category_id = t.category_id
		JOIN types ty ON ty.type_id = t.type_id`

// CreateTransaction checks the category and type references and inserts the
// row in one transaction, returning the generated id.
func (r *Repository) CreateTransaction(ctx context.Context, t models.NewTransaction) (int64, error) {
	var id int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkReferences(ctx, tx, &t.CategoryID, &t.TypeID); err != nil {
			return err
		}

		query := `
			INSERT INTO transactions (user_id, amount, category_id, description, date, type_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING transaction_id`
		err := tx.QueryRowContext(ctx, query,
			t.UserID, t.Amount, t.CategoryID, t.Description, t.Date, t.TypeID).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to create transaction: %w", translateError(err))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetTransaction retrieves one transaction owned by userID
func (r *Repository) GetTransaction(ctx context.Context, id, userID int64) (*models.Transaction, error) {
	query := `SELECT` + transactionColumns + transactionJoins + `
		WHERE t.transaction_id = $1 AND t.user_id = $2`
	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", translateError(err))
	}
	return t, nil
}

// ListTransactions returns the user's transactions matching the filter,
// ordered by date and id
func (r *Repository) ListTransactions(ctx context.Context, userID int64, f models.TransactionFilter) ([]models.Transaction, error) {
	return listTransactions(ctx, r.db, userID, f)
}

func listTransactions(ctx context.Context, q querier, userID int64, f models.TransactionFilter) ([]models.Transaction, error) {
	args := []any{userID}
	conditions := []string{"t.user_id = $1"}
	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}
	if f.From != nil {
		add("t.date >= $%d", *f.From)
	}
	if f.To != nil {
		add("t.date < $%d", *f.To)
	}
	if f.CategoryID != nil {
		add("t.category_id = $%d", *f.CategoryID)
	}
	if f.TypeID != nil {
		add("t.type_id = $%d", *f.TypeID)
	}

	query := `SELECT` + transactionColumns + transactionJoins + `
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY t.date, t.transaction_id`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", translateError(err))
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", translateError(err))
	}
	return transactions, nil
}

// UpdateTransaction applies the non-nil fields of u to the transaction with
// the given id if it is owned by userID.
func (r *Repository) UpdateTransaction(ctx context.Context, id, userID int64, u models.TransactionUpdate) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkReferences(ctx, tx, u.CategoryID, u.TypeID); err != nil {
			return err
		}

		var (
			amount      decimal.NullDecimal
			categoryID  sql.NullInt64
			typeID      sql.NullInt64
			description sql.NullString
			date        sql.NullTime
		)
		if u.Amount != nil {
			amount = decimal.NullDecimal{Decimal: *u.Amount, Valid: true}
		}
		if u.CategoryID != nil {
			categoryID = sql.NullInt64{Int64: *u.CategoryID, Valid: true}
		}
		if u.TypeID != nil {
			typeID = sql.NullInt64{Int64: *u.TypeID, Valid: true}
		}
		if u.Description != nil {
			description = sql.NullString{String: *u.Description, Valid: true}
		}
		if u.Date != nil {
			date = sql.NullTime{Time: *u.Date, Valid: true}
		}

		query := `
			UPDATE transactions SET
				amount = COALESCE($3, amount),
				category_id = COALESCE($4, category_id),
				type_id = COALESCE($5, type_id),
				description = COALESCE($6, description),
				date = COALESCE($7, date)
			WHERE transaction_id = $1 AND user_id = $2`
		res, err := tx.ExecContext(ctx, query, id, userID, amount, categoryID, typeID, description, date)
		if err != nil {
			return fmt.Errorf("failed to update transaction: %w", translateError(err))
		}
		return expectOneRow(res, "transaction")
	})
}

// DeleteTransaction removes the transaction if it is owned by userID
func (r *Repository) DeleteTransaction(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE transaction_id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", translateError(err))
	}
	return expectOneRow(res, "transaction")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	t := &models.Transaction{}
	err := row.Scan(&t.ID, &t.UserID, &t.Amount, &t.CategoryID, &t.CategoryName,
		&t.TypeID, &t.TypeName, &t.Description, &t.Date)
	if err != nil {
		return nil, err
	}
	t.Date = models.DateOnly(t.Date)
	return t, nil
}
