package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	require.True(t, IsUniqueViolation(unique))
	require.False(t, IsRetryable(unique))

	require.True(t, IsRetryable(&pgconn.PgError{Code: "40001"}))
	require.True(t, IsRetryable(&pgconn.PgError{Code: "40P01"}))
	require.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	require.True(t, IsCheckViolation(&pgconn.PgError{Code: "23514"}))
	require.True(t, IsOutOfRange(&pgconn.PgError{Code: "22003"}))
	require.True(t, IsOutOfRange(&pgconn.PgError{Code: "22001"}))
	require.False(t, IsOutOfRange(unique))

	plain := errors.New("boom")
	require.False(t, IsUniqueViolation(plain))
	require.False(t, IsRetryable(nil))
}
