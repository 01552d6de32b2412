package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/categories"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/prices"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/products"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/shared"
)

var t0 = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func insertProduct(t *testing.T, s *Store, p products.Product) products.Product {
	t.Helper()
	var out products.Product
	require.NoError(t, s.WithTx(context.Background(), func(ctx context.Context, tx catalog.Tx) error {
		var err error
		out, err = tx.InsertProduct(ctx, p)
		return err
	}))
	return out
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := New()
	boom := errors.New("boom")
	err := s.WithTx(context.Background(), func(ctx context.Context, tx catalog.Tx) error {
		if _, err := tx.InsertProduct(ctx, products.Product{Code: "MTL-001", Name: "Martillo", Active: true}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = s.WithTx(context.Background(), func(ctx context.Context, tx catalog.Tx) error {
		_, err := tx.ProductByCode(ctx, "MTL-001")
		return err
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestWithTxHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := New().WithTx(ctx, func(context.Context, catalog.Tx) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, called)
}

func TestInsertProductRejectsDuplicatesAndDanglingRefs(t *testing.T) {
	s := New()
	insertProduct(t, s, products.Product{Code: "MTL-001", Name: "Martillo", Active: false})

	err := s.WithTx(context.Background(), func(ctx context.Context, tx catalog.Tx) error {
		_, err := tx.InsertProduct(ctx, products.Product{Code: "MTL-001", Name: "Otro"})
		return err
	})
	require.ErrorIs(t, err, shared.ErrDuplicateCode)

	missing := int64(99)
	err = s.WithTx(context.Background(), func(ctx context.Context, tx catalog.Tx) error {
		_, err := tx.InsertProduct(ctx, products.Product{Code: "MTL-002", Name: "Otro", CategoryID: &missing})
		return err
	})
	require.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestFindProductsFiltersSortsAndPages(t *testing.T) {
	s := New()
	var catID int64
	require.NoError(t, s.WithTx(context.Background(), func(ctx context.Context, tx catalog.Tx) error {
		c, err := tx.InsertCategory(ctx, categories.Category{Name: "Martillos", Code: "MAR", Active: true})
		catID = c.ID
		return err
	}))
	insertProduct(t, s, products.Product{Code: "A", Name: "Martillo Bola", Stock: 3, StockMinimum: 5, Active: true, CategoryID: &catID, CreatedAt: t0})
	insertProduct(t, s, products.Product{Code: "B", Name: "martillo goma", Stock: 10, StockMinimum: 5, Active: true, Featured: true, CreatedAt: t0.Add(time.Hour)})
	insertProduct(t, s, products.Product{Code: "C", Name: "MARTILLO demolición", Stock: 1, StockMinimum: 5, Active: false, CreatedAt: t0})
	insertProduct(t, s, products.Product{Code: "D", Name: "Destornillador", Stock: 7, StockMinimum: 5, Active: true, CreatedAt: t0})

	find := func(q products.Query) ([]string, int) {
		t.Helper()
		var codes []string
		var total int
		require.NoError(t, s.WithTx(context.Background(), func(ctx context.Context, tx catalog.Tx) error {
			list, n, err := tx.FindProducts(ctx, q)
			for _, p := range list {
				codes = append(codes, p.Code)
			}
			total = n
			return err
		}))
		return codes, total
	}

	codes, total := find(products.Query{ActiveOnly: true, Name: "MARTILLO"})
	require.Equal(t, []string{"A", "B"}, codes)
	require.Equal(t, 2, total)

	codes, _ = find(products.Query{Name: "martillo", Sort: products.SortByStock})
	require.Equal(t, []string{"C", "A", "B"}, codes)

	codes, _ = find(products.Query{ActiveOnly: true, Sort: products.SortByRelevance})
	require.Equal(t, []string{"B", "D", "A"}, codes)

	codes, total = find(products.Query{ActiveOnly: true, Sort: products.SortByName, Limit: 2, Offset: 2})
	require.Equal(t, []string{"B"}, codes)
	require.Equal(t, 3, total)

	codes, _ = find(products.Query{ActiveOnly: true, LowStockOnly: true})
	require.Equal(t, []string{"A"}, codes)

	codes, _ = find(products.Query{CategoryIDs: []int64{catID}})
	require.Equal(t, []string{"A"}, codes)

	since := t0.Add(30 * time.Minute)
	codes, _ = find(products.Query{CreatedSince: &since})
	require.Equal(t, []string{"B"}, codes)

	codes, total = find(products.Query{IDs: []int64{}})
	require.Empty(t, codes)
	require.Zero(t, total)
}

func TestPriceQueries(t *testing.T) {
	s := New()
	a := insertProduct(t, s, products.Product{Code: "A", Name: "Uno", Active: true})
	b := insertProduct(t, s, products.Product{Code: "B", Name: "Dos", Active: true})

	require.NoError(t, s.WithTx(context.Background(), func(ctx context.Context, tx catalog.Tx) error {
		for _, rec := range []prices.Record{
			{ProductID: a.ID, Value: decimal.NewFromInt(100), RecordedAt: t0},
			{ProductID: a.ID, Value: decimal.NewFromInt(120), RecordedAt: t0},
			{ProductID: b.ID, Value: decimal.NewFromInt(50), RecordedAt: t0.AddDate(0, 0, -20)},
		} {
			if _, err := tx.InsertPrice(ctx, rec); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, s.WithTx(context.Background(), func(ctx context.Context, tx catalog.Tx) error {
		latest, err := tx.LatestPrices(ctx, nil)
		require.NoError(t, err)
		require.Len(t, latest, 2)
		require.True(t, latest[a.ID].Value.Equal(decimal.NewFromInt(120)))

		latest, err = tx.LatestPrices(ctx, []int64{b.ID})
		require.NoError(t, err)
		require.Len(t, latest, 1)

		ids, err := tx.ProductIDsPricedBetween(ctx, t0.AddDate(0, 0, -15), t0)
		require.NoError(t, err)
		require.Equal(t, []int64{a.ID}, ids)

		// a's older 100 must not match: only the latest record counts
		lo, hi := decimal.NewFromInt(90), decimal.NewFromInt(110)
		ids, err = tx.ProductIDsWithLatestPriceBetween(ctx, &lo, &hi)
		require.NoError(t, err)
		require.Empty(t, ids)

		ids, err = tx.ProductIDsWithLatestPriceBetween(ctx, nil, &hi)
		require.NoError(t, err)
		require.Equal(t, []int64{b.ID}, ids)

		ids, err = tx.ProductIDsWithLatestPriceBetween(ctx, &lo, nil)
		require.NoError(t, err)
		require.Equal(t, []int64{a.ID}, ids)

		since := t0.Add(-time.Minute)
		history, err := tx.ListPrices(ctx, b.ID, &since)
		require.NoError(t, err)
		require.Empty(t, history)

		_, err = tx.InsertPrice(ctx, prices.Record{ProductID: 404, Value: decimal.NewFromInt(1), RecordedAt: t0})
		require.ErrorIs(t, err, shared.ErrInvalidInput)
		return nil
	}))
}
