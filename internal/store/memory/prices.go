package memory

import (
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/prices"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/shared"
)

func (t *tx) InsertPrice(_ context.Context, rec prices.Record) (prices.Record, error) {
	if _, ok := t.state.products[rec.ProductID]; !ok {
		return prices.Record{}, shared.Invalid("price: product %d does not exist", rec.ProductID)
	}
	t.state.priceSeq++
	rec.ID = t.state.priceSeq
	t.state.prices = append(t.state.prices, rec)
	return rec, nil
}

func (t *tx) ListPrices(_ context.Context, productID int64, since *time.Time) ([]prices.Record, error) {
	var out []prices.Record
	for _, rec := range t.state.prices {
		if rec.ProductID != productID {
			continue
		}
		if since != nil && rec.RecordedAt.Before(*since) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (t *tx) LatestPrices(_ context.Context, productIDs []int64) (map[int64]prices.Record, error) {
	out := make(map[int64]prices.Record)
	for _, rec := range t.state.prices {
		if productIDs != nil && !slices.Contains(productIDs, rec.ProductID) {
			continue
		}
		if cur, ok := out[rec.ProductID]; !ok || prices.Newer(rec, cur) {
			out[rec.ProductID] = rec
		}
	}
	return out, nil
}

func (t *tx) ProductIDsWithLatestPriceBetween(ctx context.Context, min, max *decimal.Decimal) ([]int64, error) {
	latest, err := t.LatestPrices(ctx, nil)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(latest))
	for id, rec := range latest {
		if min != nil && rec.Value.LessThan(*min) {
			continue
		}
		if max != nil && rec.Value.GreaterThan(*max) {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (t *tx) ProductIDsPricedBetween(_ context.Context, from, to time.Time) ([]int64, error) {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, rec := range t.state.prices {
		if rec.RecordedAt.Before(from) || rec.RecordedAt.After(to) {
			continue
		}
		if _, ok := seen[rec.ProductID]; ok {
			continue
		}
		seen[rec.ProductID] = struct{}{}
		ids = append(ids, rec.ProductID)
	}
	slices.Sort(ids)
	return ids, nil
}
