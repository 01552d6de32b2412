package postgres

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/prices"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/shared"
)

const priceColumns = `id, product_id, value::text, recorded_at, actor_id, reason`

func (s *txStore) InsertPrice(ctx context.Context, rec prices.Record) (prices.Record, error) {
	err := s.tx.QueryRow(ctx,
		`INSERT INTO price_records (product_id, value, recorded_at, actor_id, reason)
		 VALUES ($1, $2::numeric, $3, $4, $5) RETURNING id`,
		rec.ProductID, rec.Value.StringFixed(2), rec.RecordedAt, rec.ActorID, rec.Reason,
	).Scan(&rec.ID)
	if err != nil {
		return prices.Record{}, translate("insert price", "price", rec.ProductID, err)
	}
	return rec, nil
}

func (s *txStore) ListPrices(ctx context.Context, productID int64, since *time.Time) ([]prices.Record, error) {
	query := `SELECT ` + priceColumns + ` FROM price_records WHERE product_id = $1`
	args := []any{productID}
	if since != nil {
		query += ` AND recorded_at >= $2`
		args = append(args, *since)
	}
	query += ` ORDER BY recorded_at DESC, id DESC`
	return s.queryPrices(ctx, "list prices", query, args...)
}

func (s *txStore) LatestPrices(ctx context.Context, productIDs []int64) (map[int64]prices.Record, error) {
	query := `SELECT DISTINCT ON (product_id) ` + priceColumns + ` FROM price_records`
	var args []any
	if productIDs != nil {
		query += ` WHERE product_id = ANY($1)`
		args = append(args, productIDs)
	}
	query += ` ORDER BY product_id, recorded_at DESC, id DESC`
	list, err := s.queryPrices(ctx, "latest prices", query, args...)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]prices.Record, len(list))
	for _, rec := range list {
		out[rec.ProductID] = rec
	}
	return out, nil
}

func (s *txStore) ProductIDsPricedBetween(ctx context.Context, from, to time.Time) ([]int64, error) {
	return s.queryIDs(ctx, "priced products",
		`SELECT DISTINCT product_id FROM price_records WHERE recorded_at BETWEEN $1 AND $2 ORDER BY product_id`,
		from, to)
}

const latestPriceRangeQuery = `SELECT product_id FROM (
	SELECT DISTINCT ON (product_id) product_id, value
	FROM price_records
	ORDER BY product_id, recorded_at DESC, id DESC
) latest
WHERE ($1::numeric IS NULL OR value >= $1::numeric)
  AND ($2::numeric IS NULL OR value <= $2::numeric)
ORDER BY product_id`

func (s *txStore) ProductIDsWithLatestPriceBetween(ctx context.Context, min, max *decimal.Decimal) ([]int64, error) {
	return s.queryIDs(ctx, "price range", latestPriceRangeQuery, numericArg(min), numericArg(max))
}

func (s *txStore) queryIDs(ctx context.Context, op, query string, args ...any) ([]int64, error) {
	rows, err := s.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, shared.StoreError(op, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, shared.StoreError(op, err)
		}
		ids = append(ids, id)
	}
	return ids, shared.StoreError(op, rows.Err())
}

// numericArg passes a decimal as text so NUMERIC keeps its exact scale.
func numericArg(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	v := d.String()
	return &v
}

func (s *txStore) queryPrices(ctx context.Context, op, query string, args ...any) ([]prices.Record, error) {
	rows, err := s.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, shared.StoreError(op, err)
	}
	defer rows.Close()

	var out []prices.Record
	for rows.Next() {
		var (
			rec   prices.Record
			value string
		)
		if err := rows.Scan(&rec.ID, &rec.ProductID, &value, &rec.RecordedAt, &rec.ActorID, &rec.Reason); err != nil {
			return nil, shared.StoreError(op, err)
		}
		if rec.Value, err = decimal.NewFromString(value); err != nil {
			return nil, shared.StoreError(op, err)
		}
		out = append(out, rec)
	}
	return out, shared.StoreError(op, rows.Err())
}
