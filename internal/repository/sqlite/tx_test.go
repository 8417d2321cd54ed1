package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sss-backend/internal/domain"
)

func TestTransactor_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	db, repo := newTestRepo(t)
	tx := NewTransactor(db)

	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		_, err := repo.Create(ctx, &domain.Member{Username: "user1", PasswordHash: "x"})
		return err
	})
	require.NoError(t, err)

	_, ok, err := repo.FindByUsername(ctx, "user1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db, repo := newTestRepo(t)
	tx := NewTransactor(db)
	boom := errors.New("boom")

	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := repo.Create(ctx, &domain.Member{Username: "user1", PasswordHash: "x"}); err != nil {
			return err
		}
		// visible inside the transaction
		_, ok, err := repo.FindByUsername(ctx, "user1")
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTransactor_NestedJoinsOuter(t *testing.T) {
	ctx := context.Background()
	db, repo := newTestRepo(t)
	tx := NewTransactor(db)
	boom := errors.New("boom")

	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			_, err := repo.Create(ctx, &domain.Member{Username: "inner", PasswordHash: "x"})
			return err
		})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, ok, err := repo.FindByUsername(ctx, "inner")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTransactor_RollbackIssuedToDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMemberRepository(db)
	tx := NewTransactor(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE members SET refresh_token").
		WithArgs("user1", sqlmock.AnyArg(), int64(1)).
		WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	err = tx.WithinTx(context.Background(), func(ctx context.Context) error {
		return repo.UpdateRefreshToken(ctx, 1, "user1")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}
