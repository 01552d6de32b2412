package products

import "github.com/shopspring/decimal"

// CreateInput carries a new product. Brand and category are referenced by id
// or resolved by name/code, creating them when missing.
type CreateInput struct {
	Code         string           `json:"code" validate:"required,min=3,max=50"`
	Name         string           `json:"name" validate:"required,min=3,max=200"`
	Description  string           `json:"description" validate:"max=1000"`
	Stock        int              `json:"stock" validate:"gte=0,lte=2147483647"`
	StockMinimum *int             `json:"stock_minimum,omitempty" validate:"omitempty,gte=0,lte=2147483647"`
	Unit         string           `json:"unit" validate:"max=20"`
	Featured     bool             `json:"featured"`
	InPromotion  bool             `json:"in_promotion"`
	Weight       *decimal.Decimal `json:"weight,omitempty"`
	Dimensions   string           `json:"dimensions" validate:"max=100"`
	Color        string           `json:"color" validate:"max=50"`
	Model        string           `json:"model" validate:"max=100"`
	CategoryID   *int64           `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	CategoryName string           `json:"category_name,omitempty" validate:"max=100"`
	CategoryCode string           `json:"category_code,omitempty" validate:"max=50"`
	BrandID      *int64           `json:"brand_id,omitempty" validate:"omitempty,gt=0"`
	BrandName    string           `json:"brand_name,omitempty" validate:"max=100"`
	BrandCode    string           `json:"brand_code,omitempty" validate:"max=50"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	ActorID      *int64           `json:"-"`
}

// UpdateInput applies only the non-nil fields. Price appends to the ledger.
type UpdateInput struct {
	Name         *string          `json:"name,omitempty" validate:"omitempty,min=3,max=200"`
	Description  *string          `json:"description,omitempty" validate:"omitempty,max=1000"`
	Stock        *int             `json:"stock,omitempty" validate:"omitempty,gte=0,lte=2147483647"`
	StockMinimum *int             `json:"stock_minimum,omitempty" validate:"omitempty,gte=0,lte=2147483647"`
	Unit         *string          `json:"unit,omitempty" validate:"omitempty,max=20"`
	Featured     *bool            `json:"featured,omitempty"`
	InPromotion  *bool            `json:"in_promotion,omitempty"`
	Weight       *decimal.Decimal `json:"weight,omitempty"`
	Dimensions   *string          `json:"dimensions,omitempty" validate:"omitempty,max=100"`
	Color        *string          `json:"color,omitempty" validate:"omitempty,max=50"`
	Model        *string          `json:"model,omitempty" validate:"omitempty,max=100"`
	CategoryID   *int64           `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	BrandID      *int64           `json:"brand_id,omitempty" validate:"omitempty,gt=0"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	PriceReason  *string          `json:"price_reason,omitempty" validate:"omitempty,max=200"`
	ActorID      *int64           `json:"-"`
}

// Empty reports whether the payload changes nothing.
func (u UpdateInput) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Stock == nil && u.StockMinimum == nil &&
		u.Unit == nil && u.Featured == nil && u.InPromotion == nil && u.Weight == nil &&
		u.Dimensions == nil && u.Color == nil && u.Model == nil && u.CategoryID == nil &&
		u.BrandID == nil && u.Price == nil
}
