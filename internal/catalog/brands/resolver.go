package brands

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/shared"
)

type Resolver struct {
	store Store
	now   func() time.Time
}

func NewResolver(store Store, now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{store: store, now: now}
}

func (r *Resolver) Create(ctx context.Context, input CreateInput) (Brand, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Code = strings.TrimSpace(input.Code)
	input.Website = strings.TrimSpace(input.Website)
	if err := shared.Validate(input); err != nil {
		return Brand{}, err
	}
	now := r.now().UTC()
	return r.store.InsertBrand(ctx, Brand{
		Name:            input.Name,
		Code:            input.Code,
		Description:     strings.TrimSpace(input.Description),
		Active:          true,
		CountryOfOrigin: strings.TrimSpace(input.CountryOfOrigin),
		Website:         input.Website,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}

// GetOrCreate returns the brand with code, inserting it when absent.
func (r *Resolver) GetOrCreate(ctx context.Context, name, code string) (Brand, error) {
	code = strings.TrimSpace(code)
	existing, err := r.store.BrandByCode(ctx, code)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return Brand{}, err
	}
	return r.Create(ctx, CreateInput{Name: name, Code: code})
}

func (r *Resolver) Get(ctx context.Context, id int64) (Brand, error) {
	if id <= 0 {
		return Brand{}, shared.Invalid("invalid brand id %d", id)
	}
	return r.store.BrandByID(ctx, id)
}

func (r *Resolver) List(ctx context.Context) ([]WithCount, error) {
	list, err := r.store.ListBrands(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []WithCount{}
	}
	return list, nil
}
