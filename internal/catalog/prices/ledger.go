package prices

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/shared"
)

const maxReasonLength = 200

// Ledger appends and reads price history. Current price is always derived
// from the stored records and never cached on the product.
type Ledger struct {
	store Store
	now   func() time.Time
}

// NewLedger builds a ledger bound to a unit of work.
func NewLedger(store Store, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{store: store, now: now}
}

// Record appends a price. The value is rounded to cents and must stay positive.
func (l *Ledger) Record(ctx context.Context, entry Entry) (Record, error) {
	if entry.ProductID <= 0 {
		return Record{}, shared.Invalid("price: product id required")
	}
	value, err := NormalizeValue(entry.Value)
	if err != nil {
		return Record{}, err
	}
	reason := strings.TrimSpace(entry.Reason)
	if len(reason) > maxReasonLength {
		return Record{}, shared.Invalid("price: reason longer than %d characters", maxReasonLength)
	}
	recordedAt := entry.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = l.now()
	}
	return l.store.InsertPrice(ctx, Record{
		ProductID:  entry.ProductID,
		Value:      value,
		RecordedAt: recordedAt.UTC(),
		ActorID:    entry.ActorID,
		Reason:     reason,
	})
}

// Current returns the latest price of a product or nil when it has none.
func (l *Ledger) Current(ctx context.Context, productID int64) (*decimal.Decimal, error) {
	records, err := l.store.ListPrices(ctx, productID, nil)
	if err != nil {
		return nil, err
	}
	latest, ok := Latest(records)
	if !ok {
		return nil, nil
	}
	value := latest.Value
	return &value, nil
}

// History lists a product's prices newest first. since is optional and must
// be a date (YYYY-MM-DD) or an RFC 3339 timestamp.
func (l *Ledger) History(ctx context.Context, productID int64, since string) ([]Record, error) {
	from, err := shared.ParseSince(since)
	if err != nil {
		return nil, err
	}
	records, err := l.store.ListPrices(ctx, productID, from)
	if err != nil {
		return nil, err
	}
	SortNewestFirst(records)
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// InPromotionWindow reports whether any price was recorded during the last windowDays.
func (l *Ledger) InPromotionWindow(ctx context.Context, productID int64, windowDays int) (bool, error) {
	from, to, err := l.window(windowDays)
	if err != nil {
		return false, err
	}
	records, err := l.store.ListPrices(ctx, productID, &from)
	if err != nil {
		return false, err
	}
	for _, rec := range records {
		if inWindow(rec.RecordedAt, from, to) {
			return true, nil
		}
	}
	return false, nil
}

// PromotedProductIDs returns the set of products with a price change inside the window.
func (l *Ledger) PromotedProductIDs(ctx context.Context, windowDays int) (map[int64]struct{}, error) {
	from, to, err := l.window(windowDays)
	if err != nil {
		return nil, err
	}
	ids, err := l.store.ProductIDsPricedBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// CurrentPrices returns the latest value per product. Products without
// records are absent from the map.
func (l *Ledger) CurrentPrices(ctx context.Context, productIDs []int64) (map[int64]decimal.Decimal, error) {
	if productIDs != nil && len(productIDs) == 0 {
		return map[int64]decimal.Decimal{}, nil
	}
	latest, err := l.store.LatestPrices(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]decimal.Decimal, len(latest))
	for id, rec := range latest {
		out[id] = rec.Value
	}
	return out, nil
}

// ProductIDsInPriceRange resolves the products whose current price lies in
// [min, max]. Either bound may be nil. Unpriced products never match.
func (l *Ledger) ProductIDsInPriceRange(ctx context.Context, min, max *decimal.Decimal) ([]int64, error) {
	if min != nil && max != nil && min.GreaterThan(*max) {
		return nil, shared.Invalid("price: minimum %s greater than maximum %s", min, max)
	}
	return l.store.ProductIDsWithLatestPriceBetween(ctx, min, max)
}

func (l *Ledger) window(days int) (time.Time, time.Time, error) {
	if days < 0 {
		return time.Time{}, time.Time{}, shared.Invalid("price: window must not be negative, got %d", days)
	}
	to := l.now().UTC()
	return to.AddDate(0, 0, -days), to, nil
}

func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

// NormalizeValue rounds a price to cents and rejects values outside (0, MaxPrice].
func NormalizeValue(value decimal.Decimal) (decimal.Decimal, error) {
	rounded := value.Round(2)
	if !rounded.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: price must be greater than zero, got %s", shared.ErrInvalidInput, value)
	}
	if rounded.GreaterThan(shared.MaxPrice) {
		return decimal.Decimal{}, fmt.Errorf("%w: price must be at most %s, got %s", shared.ErrInvalidInput, shared.MaxPrice, value)
	}
	return rounded, nil
}

// Newer reports whether a should win over b as the current price.
func Newer(a, b Record) bool {
	if !a.RecordedAt.Equal(b.RecordedAt) {
		return a.RecordedAt.After(b.RecordedAt)
	}
	return a.ID > b.ID
}

// Latest folds records into the current one: latest RecordedAt, highest ID on ties.
func Latest(records []Record) (Record, bool) {
	if len(records) == 0 {
		return Record{}, false
	}
	best := records[0]
	for _, rec := range records[1:] {
		if Newer(rec, best) {
			best = rec
		}
	}
	return best, true
}

// SortNewestFirst orders records the way Latest picks them.
func SortNewestFirst(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return Newer(records[i], records[j])
	})
}
