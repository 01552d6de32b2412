package cli

import (
	"context"
	"errors"
)

// Migrator applies the catalog schema.
type Migrator interface {
	Migrate(ctx context.Context) error
}

// Migrate applies the schema through m.
func Migrate(ctx context.Context, m Migrator) error {
	if m == nil {
		return errors.New("migrate: postgres store not configured")
	}
	return m.Migrate(ctx)
}
