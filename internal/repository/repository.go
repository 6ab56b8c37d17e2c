package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/lib/pq"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository over a pool owned by the caller
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Open connects to PostgreSQL and verifies the connection
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", translateError(err))
	}
	return db, nil
}

// Ping checks that the database is reachable
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", translateError(err))
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn inside a transaction. It commits when fn returns nil and
// rolls back on error or panic.
func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return r.runTx(ctx, nil, fn)
}

// withReadTx runs fn in a read-only repeatable-read transaction, so every
// query in fn sees the same snapshot
func (r *Repository) withReadTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return r.runTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func (r *Repository) runTx(ctx context.Context, opts *sql.TxOptions, fn func(tx *sql.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", translateError(err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", translateError(cerr))
		}
	}()

	return fn(tx)
}

// translateError maps driver errors onto the application error taxonomy
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code.Name() == "unique_violation":
			return fmt.Errorf("%w: %s", models.ErrDuplicateUser, pqErr.Constraint)
		case pqErr.Code.Name() == "foreign_key_violation":
			return fmt.Errorf("%w: %s", models.ErrInvalidReference, pqErr.Constraint)
		case pqErr.Code.Name() == "numeric_value_out_of_range",
			pqErr.Code.Name() == "check_violation" && strings.Contains(pqErr.Constraint, "amount"):
			return fmt.Errorf("%w: %s", models.ErrInvalidAmount, pqErr.Message)
		case pqErr.Code.Class() == "08":
			return fmt.Errorf("%w: %v", models.ErrConnectionFailure, err)
		}
		return err
	}

	if errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %v", models.ErrConnectionFailure, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", models.ErrConnectionFailure, err)
	}
	return err
}
