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

// MySQLTokenRepository implements handoff token persistence for MySQL, storing UUIDs as
// BINARY(16).
type MySQLTokenRepository struct {
	db        *sql.DB
	txManager database.TxManager
}

// NewMySQLTokenRepository creates a new MySQL handoff token repository.
func NewMySQLTokenRepository(db *sql.DB, txManager database.TxManager) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db, txManager: txManager}
}

// Create inserts a token record.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *handoffDomain.HandoffToken) error {
	querier := database.GetTx(ctx, m.db)

	id, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal handoff token id")
	}

	query := `INSERT INTO handoff_tokens (id, token_hash, sealed_payload, nonce, issued_at, expires_at, consumed_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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

// Consume runs a conditional UPDATE and reads the row back in the same transaction.
// MySQL has no UPDATE ... RETURNING; exactly one racer sees RowsAffected() == 1.
func (m *MySQLTokenRepository) Consume(
	ctx context.Context,
	tokenHash string,
	now time.Time,
) (*handoffDomain.HandoffToken, error) {
	var token *handoffDomain.HandoffToken

	err := m.txManager.WithTx(ctx, func(ctx context.Context) error {
		querier := database.GetTx(ctx, m.db)

		update := `UPDATE handoff_tokens
				   SET consumed_at = ?
				   WHERE token_hash = ? AND consumed_at IS NULL AND expires_at > ?`

		result, err := querier.ExecContext(ctx, update, now, tokenHash, now)
		if err != nil {
			return apperrors.Wrap(err, "failed to consume handoff token")
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return apperrors.Wrap(err, "failed to get affected rows count")
		}
		if affected != 1 {
			return handoffDomain.ErrTokenInvalidOrExpired
		}

		token, err = m.getByHash(ctx, querier, tokenHash)
		return err
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (m *MySQLTokenRepository) getByHash(
	ctx context.Context,
	querier database.Querier,
	tokenHash string,
) (*handoffDomain.HandoffToken, error) {
	query := `SELECT id, token_hash, sealed_payload, nonce, issued_at, expires_at, consumed_at
			  FROM handoff_tokens WHERE token_hash = ?`

	var token handoffDomain.HandoffToken
	var idBytes []byte

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&idBytes,
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
		return nil, apperrors.Wrap(err, "failed to get handoff token")
	}

	if err := token.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal handoff token id")
	}
	return &token, nil
}

// DeleteExpired removes (or with dryRun counts) tokens with expires_at before the cutoff.
func (m *MySQLTokenRepository) DeleteExpired(ctx context.Context, before time.Time, dryRun bool) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	if dryRun {
		var count int64
		query := `SELECT COUNT(*) FROM handoff_tokens WHERE expires_at < ?`
		if err := querier.QueryRowContext(ctx, query, before).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count expired handoff tokens")
		}
		return count, nil
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM handoff_tokens WHERE expires_at < ?`, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired handoff tokens")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows count")
	}
	return count, nil
}
