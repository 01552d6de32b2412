package products

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item. Its current price lives in the price ledger.
type Product struct {
	ID           int64            `json:"id"`
	Code         string           `json:"code"`
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	Stock        int              `json:"stock"`
	StockMinimum int              `json:"stock_minimum"`
	Unit         string           `json:"unit"`
	Active       bool             `json:"active"`
	Featured     bool             `json:"featured"`
	InPromotion  bool             `json:"in_promotion"`
	Weight       *decimal.Decimal `json:"weight,omitempty"`
	Dimensions   string           `json:"dimensions,omitempty"`
	Color        string           `json:"color,omitempty"`
	Model        string           `json:"model,omitempty"`
	CategoryID   *int64           `json:"category_id,omitempty"`
	BrandID      *int64           `json:"brand_id,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// LowStock reports whether stock has reached the product's minimum.
func (p Product) LowStock() bool {
	return p.Stock <= p.StockMinimum
}

// Sort selects the ordering applied by Store.FindProducts.
type Sort int

const (
	// SortByID orders by id ascending.
	SortByID Sort = iota
	// SortByName orders by name then id.
	SortByName
	// SortByStock orders by stock ascending then id.
	SortByStock
	// SortByRelevance orders featured first, then stored promotion flag, then name and id.
	SortByRelevance
	// SortByNewest orders by creation time descending then id descending.
	SortByNewest
)

// Query is a conjunction of product filters. Nil slices mean "no
// restriction"; empty non-nil slices match nothing.
type Query struct {
	ActiveOnly    bool
	Name          string
	CategoryIDs   []int64
	BrandID       *int64
	StockMin      *int
	StockMax      *int
	FeaturedOnly  bool
	PromotionOnly bool
	LowStockOnly  bool
	IDs           []int64
	CreatedSince  *time.Time
	Sort          Sort
	Limit         int
	Offset        int
}

// MatchesNothing reports whether an id restriction is known to be empty.
func (q Query) MatchesNothing() bool {
	return (q.CategoryIDs != nil && len(q.CategoryIDs) == 0) || (q.IDs != nil && len(q.IDs) == 0)
}

// Store is the persistence port for products.
type Store interface {
	// InsertProduct fails with ErrDuplicateCode when the code exists, active or not.
	InsertProduct(ctx context.Context, p Product) (Product, error)
	// ProductByCode returns the product regardless of its active flag.
	ProductByCode(ctx context.Context, code string) (Product, error)
	// LockProductByCode is ProductByCode holding a row lock until the unit of work ends.
	LockProductByCode(ctx context.Context, code string) (Product, error)
	UpdateProduct(ctx context.Context, p Product) (Product, error)
	// FindProducts returns one page of matches plus the total match count.
	FindProducts(ctx context.Context, q Query) ([]Product, int, error)
}
