// Package repository provides account persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/allisson/handoff/internal/database"
	apperrors "github.com/allisson/handoff/internal/errors"
	"github.com/allisson/handoff/internal/identity/domain"
)

// PostgreSQLAccountRepository handles account persistence for PostgreSQL.
type PostgreSQLAccountRepository struct {
	db *sql.DB
}

// NewPostgreSQLAccountRepository creates a new PostgreSQLAccountRepository.
func NewPostgreSQLAccountRepository(db *sql.DB) *PostgreSQLAccountRepository {
	return &PostgreSQLAccountRepository{db: db}
}

// Create inserts a new account.
func (r *PostgreSQLAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO accounts (id, email, password_hash, failed_attempts, locked_until, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.FailedAttempts,
		account.LockedUntil,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrAccountAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create account")
	}
	return nil
}

// GetByEmail retrieves an account by its normalized email.
func (r *PostgreSQLAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, email, password_hash, failed_attempts, locked_until, created_at, updated_at
			  FROM accounts WHERE email = $1`

	var account domain.Account
	err := querier.QueryRowContext(ctx, query, email).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.FailedAttempts,
		&account.LockedUntil,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get account by email")
	}
	return &account, nil
}

// UpdateLockout persists the failure counter and lock expiry.
func (r *PostgreSQLAccountRepository) UpdateLockout(ctx context.Context, account *domain.Account) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE accounts SET failed_attempts = $1, locked_until = $2, updated_at = $3 WHERE id = $4`

	result, err := querier.ExecContext(
		ctx,
		query,
		account.FailedAttempts,
		account.LockedUntil,
		account.UpdatedAt,
		account.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update account lockout")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows count")
	}
	if rows == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
