package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/ponyseeo/internal/models"
	"github.com/desertthunder/ponyseeo/internal/shared"
)

const userColumns = "id, sequence, email, login_count, created_at, last_login_at"

// UserRepository persists [models.User] sign-in records.
type UserRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

// RecordLogin notes a sign-in for email, creating the user on first sight and bumping the count otherwise.
//
// Emails are compared case-insensitively.
func (r *UserRepository) RecordLogin(ctx context.Context, email string) (*models.User, error) {
	email = normalizeEmail(email)
	now := r.now().UTC()

	candidate := models.NewUser(email, now)
	if err := candidate.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"UPDATE users SET login_count = login_count + 1, last_login_at = ? WHERE email = ?",
		now, email,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		sequence, err := nextSequenceTx(tx, "users")
		if err != nil {
			return nil, fmt.Errorf("failed to generate sequence: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?)",
			shared.GenerateID(), sequence, email, candidate.LoginCount, now, now,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert user: %w", err)
		}
	}

	user, err := scanUser(tx.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sign-in: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", normalizeEmail(email))
	return scanUser(row)
}

// List returns every user, most recent sign-in first.
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY last_login_at DESC, sequence DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*models.User, error) {
	var u models.User
	err := s.Scan(&u.ID, &u.Sequence, &u.Email, &u.LoginCount, &u.CreatedAt, &u.LastLoginAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
