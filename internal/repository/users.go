package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/finance-service/internal/models"
)

// CreateUser inserts a new user after checking that neither the username nor
// the email is taken. Both checks and the insert share one transaction.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		var usernameTaken, emailTaken bool
		err := tx.QueryRowContext(ctx, `
			SELECT
				EXISTS(SELECT 1 FROM users WHERE username = $1),
				EXISTS(SELECT 1 FROM users WHERE email = $2)`,
			user.Username, user.Email).Scan(&usernameTaken, &emailTaken)
		if err != nil {
			return fmt.Errorf("failed to check existing user: %w", translateError(err))
		}
		if usernameTaken {
			return fmt.Errorf("%w: username %q", models.ErrDuplicateUser, user.Username)
		}
		if emailTaken {
			return fmt.Errorf("%w: email already registered", models.ErrDuplicateUser)
		}

		query := `
			INSERT INTO users (username, password, email)
			VALUES ($1, $2, $3)
			RETURNING user_id`
		err = tx.QueryRowContext(ctx, query, user.Username, user.PasswordHash, user.Email).Scan(&user.ID)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", translateError(err))
		}
		return nil
	})
}

// FindUserByUsername retrieves a user by username
func (r *Repository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findUser(ctx, "username = $1", username)
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findUser(ctx, "user_id = $1", id)
}

func (r *Repository) findUser(ctx context.Context, where string, arg any) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT user_id, username, password, email
		FROM users
		WHERE ` + where
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", translateError(err))
	}
	return user, nil
}

// ListUsers returns every registered user ordered by id
func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, username, password, email
		FROM users
		ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", translateError(err))
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", translateError(err))
	}
	return users, nil
}

// UpdatePassword replaces the stored password hash
func (r *Repository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password = $2 WHERE user_id = $1`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", translateError(err))
	}
	return expectOneRow(res, "user")
}

func expectOneRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %w", what, models.ErrNotFound)
	}
	return nil
}
