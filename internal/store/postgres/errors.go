package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/shared"
	"github.com/odyssey-erp/odyssey-catalog/internal/platform/db"
)

// translate maps driver errors onto catalog error kinds.
func translate(op string, entity string, key any, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return shared.NotFound(entity, key)
	case db.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s %v already exists", shared.ErrDuplicateCode, entity, key)
	case db.IsForeignKeyViolation(err), db.IsCheckViolation(err), db.IsOutOfRange(err):
		return fmt.Errorf("%w: %s: %s", shared.ErrInvalidInput, op, err.Error())
	default:
		return shared.StoreError(op, err)
	}
}
