package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/brands"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/categories"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/prices"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/products"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/shared"
)

// ProductDetail is the full view of one product.
type ProductDetail struct {
	products.Product
	Category          *categories.Category `json:"category,omitempty"`
	Brand             *brands.Brand        `json:"brand,omitempty"`
	CurrentPrice      *decimal.Decimal     `json:"current_price"`
	Prices            []prices.Record      `json:"prices"`
	LowStock          bool                 `json:"low_stock"`
	DaysSinceCreated  int                  `json:"days_since_created"`
	InPromotionWindow bool                 `json:"in_promotion_window"`
}

// ProductSummary is the listing shape of a product.
type ProductSummary struct {
	Code         string           `json:"code"`
	Name         string           `json:"name"`
	Stock        int              `json:"stock"`
	CurrentPrice *decimal.Decimal `json:"current_price"`
	CategoryName string           `json:"category_name,omitempty"`
	BrandName    string           `json:"brand_name,omitempty"`
	Featured     bool             `json:"featured"`
	InPromotion  bool             `json:"in_promotion"`
}

// Page is one page of an advanced search.
type Page struct {
	Items []ProductSummary `json:"items"`
	shared.Pagination
}

// PriceHistory lists a product's prices newest first.
type PriceHistory struct {
	Code         string           `json:"code"`
	Name         string           `json:"name"`
	CurrentPrice *decimal.Decimal `json:"current_price"`
	Prices       []prices.Record  `json:"prices"`
}

// Highlights groups promotions and recent launches.
type Highlights struct {
	Promotions []ProductSummary `json:"promotions"`
	Launches   []ProductSummary `json:"launches"`
}

// Summary holds catalog wide counters.
type Summary struct {
	ActiveProducts   int `json:"active_products"`
	Categories       int `json:"categories"`
	Brands           int `json:"brands"`
	LowStockProducts int `json:"low_stock_products"`
	PricedProducts   int `json:"priced_products"`
}

// SearchRequest is the basic search. The first non-empty criterion wins:
// name, then category, then stock threshold.
type SearchRequest struct {
	Name     string
	Category string
	StockMax *int
}

// AdvancedFilter is a conjunction of optional criteria.
type AdvancedFilter struct {
	ActiveOnly           *bool
	Name                 string
	Category             string
	IncludeSubcategories *bool
	Brand                string
	StockMin             *int
	StockMax             *int
	FeaturedOnly         bool
	PromotionOnly        bool
	LowStockOnly         bool
	PriceMin             *decimal.Decimal
	PriceMax             *decimal.Decimal
}
