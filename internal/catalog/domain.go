package catalog

import (
	"context"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/brands"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/categories"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/prices"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/products"
)

// Tx exposes every store operation available inside one unit of work.
type Tx interface {
	prices.Store
	categories.Store
	brands.Store
	products.Store
}

// Store opens units of work. A failing callback discards all of its writes.
type Store interface {
	WithTx(ctx context.Context, fn func(context.Context, Tx) error) error
}
