package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/allisson/handoff/internal/database"
	apperrors "github.com/allisson/handoff/internal/errors"
	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
)

// PostgreSQLTokenRepository implements handoff token persistence for PostgreSQL.
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// NewPostgreSQLTokenRepository creates a new PostgreSQL handoff token repository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}

// Create inserts a token record.
func (p *PostgreSQLTokenRepository) Create(ctx context.Context, token *handoffDomain.HandoffToken) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO handoff_tokens (id, token_hash, sealed_payload, nonce, issued_at, expires_at, consumed_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.TokenHash,
		token.SealedPayload,
		token.Nonce,
		token.IssuedAt,
		token.ExpiresAt,
		token.ConsumedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create handoff token")
	}
	return nil
}

// Consume sets consumed_at in a single conditional UPDATE ... RETURNING. Row-level locking
// makes concurrent callers serialize on the row; the loser re-evaluates the WHERE clause,
// finds consumed_at set and gets no row back.
func (p *PostgreSQLTokenRepository) Consume(
	ctx context.Context,
	tokenHash string,
	now time.Time,
) (*handoffDomain.HandoffToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE handoff_tokens
			  SET consumed_at = $2
			  WHERE token_hash = $1 AND consumed_at IS NULL AND expires_at > $2
			  RETURNING id, token_hash, sealed_payload, nonce, issued_at, expires_at, consumed_at`

	var token handoffDomain.HandoffToken
	err := querier.QueryRowContext(ctx, query, tokenHash, now).Scan(
		&token.ID,
		&token.TokenHash,
		&token.SealedPayload,
		&token.Nonce,
		&token.IssuedAt,
		&token.ExpiresAt,
		&token.ConsumedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, handoffDomain.ErrTokenInvalidOrExpired
		}
		return nil, apperrors.Wrap(err, "failed to consume handoff token")
	}
	return &token, nil
}

// DeleteExpired removes (or with dryRun counts) tokens with expires_at before the cutoff.
func (p *PostgreSQLTokenRepository) DeleteExpired(
	ctx context.Context,
	before time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	if dryRun {
		var count int64
		query := `SELECT COUNT(*) FROM handoff_tokens WHERE expires_at < $1`
		if err := querier.QueryRowContext(ctx, query, before).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count expired handoff tokens")
		}
		return count, nil
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM handoff_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired handoff tokens")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows count")
	}
	return count, nil
}
