package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/products"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/shared"
)

func (t *tx) InsertProduct(_ context.Context, p products.Product) (products.Product, error) {
	if _, exists := t.state.codes[p.Code]; exists {
		return products.Product{}, duplicate("product", p.Code)
	}
	if p.CategoryID != nil {
		if _, ok := t.state.categories[*p.CategoryID]; !ok {
			return products.Product{}, shared.Invalid("category %d does not exist", *p.CategoryID)
		}
	}
	if p.BrandID != nil {
		if _, ok := t.state.brands[*p.BrandID]; !ok {
			return products.Product{}, shared.Invalid("brand %d does not exist", *p.BrandID)
		}
	}
	t.state.productSeq++
	p.ID = t.state.productSeq
	t.state.products[p.ID] = p
	t.state.codes[p.Code] = p.ID
	return p, nil
}

func (t *tx) ProductByCode(_ context.Context, code string) (products.Product, error) {
	id, ok := t.state.codes[code]
	if !ok {
		return products.Product{}, shared.NotFound("product", code)
	}
	return t.state.products[id], nil
}

// LockProductByCode needs no extra locking: the whole unit of work holds the store mutex.
func (t *tx) LockProductByCode(ctx context.Context, code string) (products.Product, error) {
	return t.ProductByCode(ctx, code)
}

func (t *tx) UpdateProduct(_ context.Context, p products.Product) (products.Product, error) {
	current, ok := t.state.products[p.ID]
	if !ok {
		return products.Product{}, shared.NotFound("product", p.ID)
	}
	// code and creation time are immutable
	p.Code = current.Code
	p.CreatedAt = current.CreatedAt
	t.state.products[p.ID] = p
	return p, nil
}

func (t *tx) FindProducts(_ context.Context, q products.Query) ([]products.Product, int, error) {
	if q.MatchesNothing() {
		return []products.Product{}, 0, nil
	}
	needle := fold(strings.TrimSpace(q.Name))
	matched := make([]products.Product, 0)
	for _, p := range t.state.products {
		if matches(p, q, needle) {
			matched = append(matched, p)
		}
	}
	slices.SortFunc(matched, comparator(q.Sort))

	total := len(matched)
	start := min(max(q.Offset, 0), total)
	end := total
	if q.Limit > 0 {
		end = min(start+q.Limit, total)
	}
	return matched[start:end], total, nil
}

func matches(p products.Product, q products.Query, needle string) bool {
	if q.ActiveOnly && !p.Active {
		return false
	}
	if needle != "" && !strings.Contains(fold(p.Name), needle) {
		return false
	}
	if q.CategoryIDs != nil && (p.CategoryID == nil || !slices.Contains(q.CategoryIDs, *p.CategoryID)) {
		return false
	}
	if q.BrandID != nil && (p.BrandID == nil || *p.BrandID != *q.BrandID) {
		return false
	}
	if q.StockMin != nil && p.Stock < *q.StockMin {
		return false
	}
	if q.StockMax != nil && p.Stock > *q.StockMax {
		return false
	}
	if q.FeaturedOnly && !p.Featured {
		return false
	}
	if q.PromotionOnly && !p.InPromotion {
		return false
	}
	if q.LowStockOnly && !p.LowStock() {
		return false
	}
	if q.IDs != nil && !slices.Contains(q.IDs, p.ID) {
		return false
	}
	if q.CreatedSince != nil && p.CreatedAt.Before(*q.CreatedSince) {
		return false
	}
	return true
}

func comparator(sort products.Sort) func(a, b products.Product) int {
	byName := func(a, b products.Product) int {
		if c := strings.Compare(fold(a.Name), fold(b.Name)); c != 0 {
			return c
		}
		return cmpID(a.ID, b.ID)
	}
	switch sort {
	case products.SortByName:
		return byName
	case products.SortByStock:
		return func(a, b products.Product) int {
			if c := cmp.Compare(a.Stock, b.Stock); c != 0 {
				return c
			}
			return cmpID(a.ID, b.ID)
		}
	case products.SortByRelevance:
		return func(a, b products.Product) int {
			if c := cmpFlagDesc(a.Featured, b.Featured); c != 0 {
				return c
			}
			if c := cmpFlagDesc(a.InPromotion, b.InPromotion); c != 0 {
				return c
			}
			return byName(a, b)
		}
	case products.SortByNewest:
		return func(a, b products.Product) int {
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}
			return cmpID(b.ID, a.ID)
		}
	default:
		return func(a, b products.Product) int { return cmpID(a.ID, b.ID) }
	}
}

func cmpFlagDesc(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}
