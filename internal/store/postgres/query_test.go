package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/products"
)

func TestBuildProductQueryDefaults(t *testing.T) {
	built := buildProductQuery(products.Query{})
	require.Equal(t, "SELECT COUNT(*) FROM products WHERE 1=1", built.countSQL)
	require.True(t, strings.HasSuffix(built.selectSQL, " WHERE 1=1 ORDER BY id"))
	require.Empty(t, built.args)
}

func TestBuildProductQueryAdvanced(t *testing.T) {
	brand := int64(7)
	stockMin, stockMax := 0, 5
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	built := buildProductQuery(products.Query{
		ActiveOnly:   true,
		Name:         "50%_off",
		CategoryIDs:  []int64{1, 2},
		BrandID:      &brand,
		StockMin:     &stockMin,
		StockMax:     &stockMax,
		FeaturedOnly: true,
		LowStockOnly: true,
		IDs:          []int64{9},
		CreatedSince: &since,
		Sort:         products.SortByRelevance,
		Limit:        20,
		Offset:       20,
	})

	where := " WHERE 1=1 AND active AND name ILIKE $1 AND category_id = ANY($2) AND brand_id = $3" +
		" AND stock >= $4 AND stock <= $5 AND featured AND stock <= stock_minimum AND id = ANY($6) AND created_at >= $7"
	require.Equal(t, "SELECT COUNT(*) FROM products"+where, built.countSQL)
	require.True(t, strings.HasSuffix(built.selectSQL,
		where+" ORDER BY featured DESC, in_promotion DESC, LOWER(name), id LIMIT $8 OFFSET $9"))
	require.Len(t, built.countArgs, 7)
	require.Len(t, built.args, 9)
	require.Equal(t, `%50\%\_off%`, built.args[0])
	require.Equal(t, []int64{1, 2}, built.args[1])
	require.Equal(t, 20, built.args[7])
}

func TestOrderByStockAndNewest(t *testing.T) {
	require.Equal(t, "stock, id", orderBy(products.SortByStock))
	require.Equal(t, "created_at DESC, id DESC", orderBy(products.SortByNewest))
	require.Equal(t, "LOWER(name), id", orderBy(products.SortByName))
}

func TestSchemaDeclaresTables(t *testing.T) {
	for _, table := range []string{"categories", "brands", "products", "price_records"} {
		require.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table)
	}
}

func TestLatestPriceRangeQuery(t *testing.T) {
	require.Contains(t, latestPriceRangeQuery, "DISTINCT ON (product_id)")
	require.Contains(t, latestPriceRangeQuery, "ORDER BY product_id, recorded_at DESC, id DESC")
	require.Contains(t, latestPriceRangeQuery, "$1::numeric IS NULL")

	require.Nil(t, numericArg(nil))
	v := decimal.RequireFromString("19.90")
	require.Equal(t, "19.9", *numericArg(&v))
}
