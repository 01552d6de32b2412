package brands

import (
	"context"
	"time"
)

// Brand is a product manufacturer or label.
type Brand struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Code            string    `json:"code"`
	Description     string    `json:"description,omitempty"`
	Active          bool      `json:"active"`
	CountryOfOrigin string    `json:"country_of_origin,omitempty"`
	Website         string    `json:"website,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// WithCount pairs a brand with the number of its active products.
type WithCount struct {
	Brand
	TotalProducts int `json:"total_products"`
}

type CreateInput struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Code            string `json:"code" validate:"required,min=2,max=50"`
	Description     string `json:"description" validate:"max=500"`
	CountryOfOrigin string `json:"country_of_origin" validate:"max=50"`
	Website         string `json:"website" validate:"omitempty,url,max=200"`
}

// Store is the persistence port for brands.
type Store interface {
	InsertBrand(ctx context.Context, b Brand) (Brand, error)
	BrandByID(ctx context.Context, id int64) (Brand, error)
	BrandByCode(ctx context.Context, code string) (Brand, error)
	// ListBrands returns active brands ordered by name with active product counts.
	ListBrands(ctx context.Context) ([]WithCount, error)
}
