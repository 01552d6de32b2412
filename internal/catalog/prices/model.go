package prices

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one immutable entry of a product's price history.
type Record struct {
	ID         int64           `json:"id"`
	ProductID  int64           `json:"product_id"`
	Value      decimal.Decimal `json:"value"`
	RecordedAt time.Time       `json:"recorded_at"`
	ActorID    *int64          `json:"actor_id,omitempty"`
	Reason     string          `json:"reason,omitempty"`
}

// Entry describes a price to append. A zero RecordedAt means "now".
type Entry struct {
	ProductID  int64
	Value      decimal.Decimal
	ActorID    *int64
	Reason     string
	RecordedAt time.Time
}

// Store is the persistence port of the ledger. Implementations never update
// or delete rows.
type Store interface {
	InsertPrice(ctx context.Context, rec Record) (Record, error)
	// ListPrices returns the records of a product, optionally only those
	// recorded at or after since. Order is not significant.
	ListPrices(ctx context.Context, productID int64, since *time.Time) ([]Record, error)
	// LatestPrices returns the most recent record per product. A nil id list
	// means every product that has at least one record.
	LatestPrices(ctx context.Context, productIDs []int64) (map[int64]Record, error)
	// ProductIDsPricedBetween lists products with a record inside [from, to].
	ProductIDsPricedBetween(ctx context.Context, from, to time.Time) ([]int64, error)
	// ProductIDsWithLatestPriceBetween lists, in ascending order, products
	// whose most recent record lies in [min, max]. Nil bounds are open.
	ProductIDsWithLatestPriceBetween(ctx context.Context, min, max *decimal.Decimal) ([]int64, error)
}
