package brands

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/shared"
)

type memoryStore struct {
	rows []Brand
}

func (s *memoryStore) InsertBrand(_ context.Context, b Brand) (Brand, error) {
	for _, row := range s.rows {
		if row.Code == b.Code {
			return Brand{}, shared.ErrDuplicateCode
		}
	}
	b.ID = int64(len(s.rows) + 1)
	s.rows = append(s.rows, b)
	return b, nil
}

func (s *memoryStore) BrandByID(_ context.Context, id int64) (Brand, error) {
	for _, row := range s.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return Brand{}, shared.NotFound("brand", id)
}

func (s *memoryStore) BrandByCode(_ context.Context, code string) (Brand, error) {
	for _, row := range s.rows {
		if row.Code == code {
			return row, nil
		}
	}
	return Brand{}, shared.NotFound("brand", code)
}

func (s *memoryStore) ListBrands(context.Context) ([]WithCount, error) {
	return nil, nil
}

func newTestResolver() (*Resolver, *memoryStore) {
	store := &memoryStore{}
	return NewResolver(store, func() time.Time { return time.Unix(0, 0) }), store
}

func TestGetOrCreateBrand(t *testing.T) {
	resolver, store := newTestResolver()
	ctx := context.Background()

	first, err := resolver.GetOrCreate(ctx, "Stanley", "STAN")
	require.NoError(t, err)
	require.True(t, first.Active)

	again, err := resolver.GetOrCreate(ctx, "Stanley Tools", "STAN")
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)
	require.Len(t, store.rows, 1)
}

func TestCreateBrandValidation(t *testing.T) {
	resolver, _ := newTestResolver()
	ctx := context.Background()

	_, err := resolver.Create(ctx, CreateInput{Name: "Bosch", Code: "BOS", Website: "not a url"})
	require.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = resolver.Create(ctx, CreateInput{Name: "Bosch", Code: "BOS", Website: "https://bosch.com"})
	require.NoError(t, err)
	_, err = resolver.Create(ctx, CreateInput{Name: "Bosch 2", Code: "BOS"})
	require.ErrorIs(t, err, shared.ErrDuplicateCode)

	_, err = resolver.Get(ctx, 0)
	require.ErrorIs(t, err, shared.ErrInvalidInput)

	list, err := resolver.List(ctx)
	require.NoError(t, err)
	require.NotNil(t, list)
}
