package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/shared"
)

func TestTranslate(t *testing.T) {
	require.NoError(t, translate("op", "product", "X", nil))

	cases := map[string]struct {
		err  error
		kind error
	}{
		"no rows":         {pgx.ErrNoRows, shared.ErrNotFound},
		"unique":          {&pgconn.PgError{Code: "23505"}, shared.ErrDuplicateCode},
		"foreign key":     {&pgconn.PgError{Code: "23503"}, shared.ErrInvalidInput},
		"check":           {&pgconn.PgError{Code: "23514"}, shared.ErrInvalidInput},
		"numeric range":   {fmt.Errorf("exec: %w", &pgconn.PgError{Code: "22003"}), shared.ErrInvalidInput},
		"string too long": {&pgconn.PgError{Code: "22001"}, shared.ErrInvalidInput},
		"other":           {errors.New("connection reset"), shared.ErrStoreFailure},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, translate("insert product", "product", "MTL-001", tc.err), tc.kind)
		})
	}
}
