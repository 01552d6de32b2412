package shared

import "github.com/shopspring/decimal"

const (
	// DefaultPromotionWindowDays is the price change lookback that marks a product as promoted.
	DefaultPromotionWindowDays = 15
	// DefaultLaunchWindowDays is the creation lookback for launches.
	DefaultLaunchWindowDays = 30
	// MaxLaunchWindowDays bounds caller supplied launch windows.
	MaxLaunchWindowDays = 365

	// DefaultPage and DefaultPageSize apply to paginated searches.
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// DefaultStockMinimum defines low stock when a product does not set its own.
	DefaultStockMinimum = 5
	// DefaultUnit is the unit of measure assigned on create.
	DefaultUnit = "unidad"

	// MaxStock is the largest stock or stock minimum a product can hold.
	MaxStock = 2147483647
)

// Column limits of stored decimals: prices are NUMERIC(12,2), weights NUMERIC(10,3).
var (
	MaxPrice  = decimal.RequireFromString("9999999999.99")
	MaxWeight = decimal.RequireFromString("9999999.999")
)

// Defaults groups tunables passed explicitly into the catalog service.
type Defaults struct {
	PromotionWindowDays int
	LaunchWindowDays    int
	MaxLaunchWindowDays int
	DefaultPageSize     int
	MaxPageSize         int
}

// StandardDefaults returns the documented defaults.
func StandardDefaults() Defaults {
	return Defaults{
		PromotionWindowDays: DefaultPromotionWindowDays,
		LaunchWindowDays:    DefaultLaunchWindowDays,
		MaxLaunchWindowDays: MaxLaunchWindowDays,
		DefaultPageSize:     DefaultPageSize,
		MaxPageSize:         MaxPageSize,
	}
}

// WithFallbacks replaces unset values with the standard defaults.
func (d Defaults) WithFallbacks() Defaults {
	std := StandardDefaults()
	if d.PromotionWindowDays <= 0 {
		d.PromotionWindowDays = std.PromotionWindowDays
	}
	if d.LaunchWindowDays <= 0 {
		d.LaunchWindowDays = std.LaunchWindowDays
	}
	if d.MaxLaunchWindowDays <= 0 {
		d.MaxLaunchWindowDays = std.MaxLaunchWindowDays
	}
	if d.DefaultPageSize <= 0 {
		d.DefaultPageSize = std.DefaultPageSize
	}
	if d.MaxPageSize <= 0 {
		d.MaxPageSize = std.MaxPageSize
	}
	if d.DefaultPageSize > d.MaxPageSize {
		d.DefaultPageSize = d.MaxPageSize
	}
	return d
}
