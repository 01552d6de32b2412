// Package memory keeps the catalog in process memory. It backs tests, local
// development and STORE_DRIVER=memory deployments.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/brands"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/categories"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/prices"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/products"
)

type state struct {
	products   map[int64]products.Product
	codes      map[string]int64
	categories map[int64]categories.Category
	brands     map[int64]brands.Brand
	prices     []prices.Record

	productSeq  int64
	categorySeq int64
	brandSeq    int64
	priceSeq    int64
}

func newState() *state {
	return &state{
		products:   make(map[int64]products.Product),
		codes:      make(map[string]int64),
		categories: make(map[int64]categories.Category),
		brands:     make(map[int64]brands.Brand),
	}
}

func (s *state) clone() *state {
	cp := *s
	cp.products = maps.Clone(s.products)
	cp.codes = maps.Clone(s.codes)
	cp.categories = maps.Clone(s.categories)
	cp.brands = maps.Clone(s.brands)
	cp.prices = slices.Clone(s.prices)
	return &cp
}

// Store serializes units of work. Each one runs against a private copy that
// replaces the shared state only when the callback succeeds.
type Store struct {
	mu    sync.Mutex
	state *state
}

func New() *Store {
	return &Store{state: newState()}
}

// WithTx runs fn against a snapshot and commits it on success.
func (s *Store) WithTx(ctx context.Context, fn func(context.Context, catalog.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(ctx, &tx{state: work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

type tx struct {
	state *state
}

var _ catalog.Tx = (*tx)(nil)
