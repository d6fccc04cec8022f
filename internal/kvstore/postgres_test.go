package kvstore

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT value FROM visitor_state").
		WithArgs("primer_favorites").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow([]byte("[1,2]")))

	s := newPostgresStoreWithQuerier(mock)
	got, err := s.Get(context.Background(), "primer_favorites")
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", string(got))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT value FROM visitor_state").
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	_, err = newPostgresStoreWithQuerier(mock).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetAndDelete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO visitor_state").
		WithArgs("k", []byte("v")).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("DELETE FROM visitor_state").
		WithArgs("k").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	s := newPostgresStoreWithQuerier(mock)
	require.NoError(t, s.Set(context.Background(), "k", []byte("v")))
	require.NoError(t, s.Delete(context.Background(), "k"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO visitor_state").
		WithArgs("k", []byte("v")).
		WillReturnError(errors.New("db down"))

	err = newPostgresStoreWithQuerier(mock).Set(context.Background(), "k", []byte("v"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres set")
}
