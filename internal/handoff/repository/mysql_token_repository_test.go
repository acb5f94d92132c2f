package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/handoff/internal/database"
	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
	"github.com/allisson/handoff/internal/handoff/usecase"
	"github.com/allisson/handoff/internal/testutil"
)

func TestMySQLTokenRepository(t *testing.T) {
	testutil.SkipIfNoMySQL(t)

	testTokenRepository(t, func(t *testing.T) usecase.TokenRepository {
		db := testutil.SetupMySQLDB(t)
		t.Cleanup(func() { testutil.TeardownDB(t, db) })
		return NewMySQLTokenRepository(db, database.NewTxManager(db))
	}, true)
}

func TestMySQLTokenRepository_Consume_LostRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE handoff_tokens").
		WithArgs(sqlmock.AnyArg(), "hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	repo := NewMySQLTokenRepository(db, database.NewTxManager(db))
	_, err = repo.Consume(context.Background(), "hash", time.Now().UTC())

	assert.ErrorIs(t, err, handoffDomain.ErrTokenInvalidOrExpired)
	assert.NoError(t, mock.ExpectationsWereMet())
}
