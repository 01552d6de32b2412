package postgres

import (
	"strconv"
	"strings"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/products"
)

const productColumns = `id, code, name, description, stock, stock_minimum, unit, active, featured,
	in_promotion, weight::text, dimensions, color, model, category_id, brand_id, created_at, updated_at`

// productQuery is the SQL rendering of a products.Query.
type productQuery struct {
	selectSQL string
	countSQL  string
	args      []any
	countArgs []any
}

// buildProductQuery renders the filter conjunction. The count statement
// shares the WHERE clause and arguments but skips ordering and paging.
func buildProductQuery(q products.Query) productQuery {
	where := ` WHERE 1=1`
	args := []any{}
	argCount := 0
	next := func(v any) string {
		argCount++
		args = append(args, v)
		return `$` + strconv.Itoa(argCount)
	}

	if q.ActiveOnly {
		where += ` AND active`
	}
	if name := strings.TrimSpace(q.Name); name != "" {
		where += ` AND name ILIKE ` + next("%"+escapeLike(name)+"%")
	}
	if q.CategoryIDs != nil {
		where += ` AND category_id = ANY(` + next(q.CategoryIDs) + `)`
	}
	if q.BrandID != nil {
		where += ` AND brand_id = ` + next(*q.BrandID)
	}
	if q.StockMin != nil {
		where += ` AND stock >= ` + next(*q.StockMin)
	}
	if q.StockMax != nil {
		where += ` AND stock <= ` + next(*q.StockMax)
	}
	if q.FeaturedOnly {
		where += ` AND featured`
	}
	if q.PromotionOnly {
		where += ` AND in_promotion`
	}
	if q.LowStockOnly {
		where += ` AND stock <= stock_minimum`
	}
	if q.IDs != nil {
		where += ` AND id = ANY(` + next(q.IDs) + `)`
	}
	if q.CreatedSince != nil {
		where += ` AND created_at >= ` + next(*q.CreatedSince)
	}

	countArgs := make([]any, len(args))
	copy(countArgs, args)
	countSQL := `SELECT COUNT(*) FROM products` + where

	selectSQL := `SELECT ` + productColumns + ` FROM products` + where + ` ORDER BY ` + orderBy(q.Sort)
	if q.Limit > 0 {
		selectSQL += ` LIMIT ` + next(q.Limit)
	}
	if q.Offset > 0 {
		selectSQL += ` OFFSET ` + next(q.Offset)
	}
	return productQuery{selectSQL: selectSQL, countSQL: countSQL, args: args, countArgs: countArgs}
}

func orderBy(sort products.Sort) string {
	switch sort {
	case products.SortByName:
		return `LOWER(name), id`
	case products.SortByStock:
		return `stock, id`
	case products.SortByRelevance:
		return `featured DESC, in_promotion DESC, LOWER(name), id`
	case products.SortByNewest:
		return `created_at DESC, id DESC`
	default:
		return `id`
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
