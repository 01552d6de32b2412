package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/brands"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/shared"
)

func (t *tx) InsertBrand(_ context.Context, b brands.Brand) (brands.Brand, error) {
	for _, existing := range t.state.brands {
		if existing.Code == b.Code {
			return brands.Brand{}, duplicate("brand", b.Code)
		}
	}
	t.state.brandSeq++
	b.ID = t.state.brandSeq
	t.state.brands[b.ID] = b
	return b, nil
}

func (t *tx) BrandByID(_ context.Context, id int64) (brands.Brand, error) {
	b, ok := t.state.brands[id]
	if !ok {
		return brands.Brand{}, shared.NotFound("brand", id)
	}
	return b, nil
}

func (t *tx) BrandByCode(_ context.Context, code string) (brands.Brand, error) {
	for _, b := range t.state.brands {
		if b.Code == code {
			return b, nil
		}
	}
	return brands.Brand{}, shared.NotFound("brand", code)
}

func (t *tx) ListBrands(context.Context) ([]brands.WithCount, error) {
	counts := make(map[int64]int)
	for _, p := range t.state.products {
		if p.Active && p.BrandID != nil {
			counts[*p.BrandID]++
		}
	}
	out := make([]brands.WithCount, 0, len(t.state.brands))
	for _, b := range t.state.brands {
		if !b.Active {
			continue
		}
		out = append(out, brands.WithCount{Brand: b, TotalProducts: counts[b.ID]})
	}
	slices.SortFunc(out, func(a, b brands.WithCount) int {
		if c := strings.Compare(fold(a.Name), fold(b.Name)); c != 0 {
			return c
		}
		return cmpID(a.ID, b.ID)
	})
	return out, nil
}
