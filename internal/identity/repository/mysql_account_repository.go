package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/allisson/handoff/internal/database"
	apperrors "github.com/allisson/handoff/internal/errors"
	"github.com/allisson/handoff/internal/identity/domain"
)

// MySQLAccountRepository handles account persistence for MySQL.
type MySQLAccountRepository struct {
	db *sql.DB
}

// NewMySQLAccountRepository creates a new MySQLAccountRepository.
func NewMySQLAccountRepository(db *sql.DB) *MySQLAccountRepository {
	return &MySQLAccountRepository{db: db}
}

// Create inserts a new account.
func (r *MySQLAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	querier := database.GetTx(ctx, r.db)

	// Convert UUID to bytes for MySQL BINARY(16)
	id, err := account.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `INSERT INTO accounts (id, email, password_hash, failed_attempts, locked_until, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		account.Email,
		account.PasswordHash,
		account.FailedAttempts,
		account.LockedUntil,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == 1062 {
			return domain.ErrAccountAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create account")
	}
	return nil
}

// GetByEmail retrieves an account by its normalized email.
func (r *MySQLAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, email, password_hash, failed_attempts, locked_until, created_at, updated_at
			  FROM accounts WHERE email = ?`

	var account domain.Account
	var id []byte
	err := querier.QueryRowContext(ctx, query, email).Scan(
		&id,
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

	if err := account.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	return &account, nil
}

// UpdateLockout persists the failure counter and lock expiry.
func (r *MySQLAccountRepository) UpdateLockout(ctx context.Context, account *domain.Account) error {
	querier := database.GetTx(ctx, r.db)

	id, err := account.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `UPDATE accounts SET failed_attempts = ?, locked_until = ?, updated_at = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, account.FailedAttempts, account.LockedUntil, account.UpdatedAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update account lockout")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows count")
	}
	// MySQL reports zero affected rows when the values did not change.
	if rows == 0 {
		return r.ensureExists(ctx, querier, id)
	}
	return nil
}

func (r *MySQLAccountRepository) ensureExists(ctx context.Context, querier database.Querier, id []byte) error {
	var found int
	err := querier.QueryRowContext(ctx, `SELECT 1 FROM accounts WHERE id = ?`, id).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrAccountNotFound
		}
		return apperrors.Wrap(err, "failed to get account")
	}
	return nil
}
