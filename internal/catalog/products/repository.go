package products

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/brands"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/categories"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/prices"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/shared"
)

// Repository turns product intents into store calls. It is bound to a
// single unit of work together with its ledger, tree and brand resolver.
type Repository struct {
	store  Store
	ledger *prices.Ledger
	tree   *categories.Tree
	brands *brands.Resolver
	now    func() time.Time
}

func NewRepository(store Store, ledger *prices.Ledger, tree *categories.Tree, brandResolver *brands.Resolver, now func() time.Time) *Repository {
	if now == nil {
		now = time.Now
	}
	return &Repository{store: store, ledger: ledger, tree: tree, brands: brandResolver, now: now}
}

// ByCode returns an active product.
func (r *Repository) ByCode(ctx context.Context, code string) (Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Product{}, shared.Invalid("product code required")
	}
	p, err := r.store.ProductByCode(ctx, code)
	if err != nil {
		return Product{}, err
	}
	if !p.Active {
		return Product{}, shared.NotFound("product", code)
	}
	return p, nil
}

// SearchByName matches active products whose name contains text, ignoring
// case, ordered by id.
func (r *Repository) SearchByName(ctx context.Context, text string) ([]Product, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, shared.Invalid("search text required")
	}
	list, _, err := r.store.FindProducts(ctx, Query{ActiveOnly: true, Name: text, Sort: SortByID})
	return list, err
}

// ByCategory lists active products of a category referenced by id, code or
// name, optionally including every subcategory.
func (r *Repository) ByCategory(ctx context.Context, ref string, includeSubcategories bool) ([]Product, error) {
	cat, err := r.tree.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	scope, err := r.tree.Scope(ctx, cat.ID, includeSubcategories)
	if err != nil {
		return nil, err
	}
	list, _, err := r.store.FindProducts(ctx, Query{ActiveOnly: true, CategoryIDs: scope, Sort: SortByName})
	return list, err
}

// ByStockAtMost lists active products with stock <= max, lowest stock first.
func (r *Repository) ByStockAtMost(ctx context.Context, max int) ([]Product, error) {
	if max < 0 {
		return nil, shared.Invalid("stock threshold must be >= 0, got %d", max)
	}
	list, _, err := r.store.FindProducts(ctx, Query{ActiveOnly: true, StockMax: &max, Sort: SortByStock})
	return list, err
}

// Find runs an arbitrary query.
func (r *Repository) Find(ctx context.Context, q Query) ([]Product, int, error) {
	if q.MatchesNothing() {
		return []Product{}, 0, nil
	}
	return r.store.FindProducts(ctx, q)
}

// Create validates input, resolves brand and category, inserts the product
// and appends the optional initial price.
func (r *Repository) Create(ctx context.Context, input CreateInput) (Product, error) {
	input.normalize()
	if err := validateCreate(input); err != nil {
		return Product{}, err
	}
	categoryID, err := r.resolveCategory(ctx, input)
	if err != nil {
		return Product{}, err
	}
	brandID, err := r.resolveBrand(ctx, input)
	if err != nil {
		return Product{}, err
	}
	stockMin := shared.DefaultStockMinimum
	if input.StockMinimum != nil {
		stockMin = *input.StockMinimum
	}
	unit := input.Unit
	if unit == "" {
		unit = shared.DefaultUnit
	}
	now := r.now().UTC()
	created, err := r.store.InsertProduct(ctx, Product{
		Code:         input.Code,
		Name:         input.Name,
		Description:  strings.TrimSpace(input.Description),
		Stock:        input.Stock,
		StockMinimum: stockMin,
		Unit:         unit,
		Active:       true,
		Featured:     input.Featured,
		InPromotion:  input.InPromotion,
		Weight:       input.Weight,
		Dimensions:   strings.TrimSpace(input.Dimensions),
		Color:        strings.TrimSpace(input.Color),
		Model:        strings.TrimSpace(input.Model),
		CategoryID:   categoryID,
		BrandID:      brandID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return Product{}, err
	}
	if input.Price != nil {
		if _, err := r.ledger.Record(ctx, prices.Entry{
			ProductID: created.ID,
			Value:     *input.Price,
			ActorID:   input.ActorID,
			Reason:    "initial price",
		}); err != nil {
			return Product{}, err
		}
	}
	return created, nil
}

// Update applies the present fields of input to an active product. The row
// stays locked until the unit of work ends.
func (r *Repository) Update(ctx context.Context, code string, input UpdateInput) (Product, error) {
	if err := validateUpdate(input); err != nil {
		return Product{}, err
	}
	p, err := r.lockActive(ctx, code)
	if err != nil {
		return Product{}, err
	}
	if input.CategoryID != nil {
		if _, err := r.tree.Get(ctx, *input.CategoryID); err != nil {
			return Product{}, referenceError(err, "category", *input.CategoryID)
		}
		p.CategoryID = input.CategoryID
	}
	if input.BrandID != nil {
		if _, err := r.brands.Get(ctx, *input.BrandID); err != nil {
			return Product{}, referenceError(err, "brand", *input.BrandID)
		}
		p.BrandID = input.BrandID
	}
	applyUpdate(&p, input)
	p.UpdatedAt = r.now().UTC()
	updated, err := r.store.UpdateProduct(ctx, p)
	if err != nil {
		return Product{}, err
	}
	if input.Price != nil {
		reason := "price update"
		if input.PriceReason != nil {
			reason = *input.PriceReason
		}
		if _, err := r.ledger.Record(ctx, prices.Entry{
			ProductID: updated.ID,
			Value:     *input.Price,
			ActorID:   input.ActorID,
			Reason:    reason,
		}); err != nil {
			return Product{}, err
		}
	}
	return updated, nil
}

// SoftDelete deactivates an active product. It returns false when the code
// does not resolve to an active product.
func (r *Repository) SoftDelete(ctx context.Context, code string) (bool, error) {
	p, err := r.lockActive(ctx, code)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	p.Active = false
	p.UpdatedAt = r.now().UTC()
	if _, err := r.store.UpdateProduct(ctx, p); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repository) lockActive(ctx context.Context, code string) (Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Product{}, shared.Invalid("product code required")
	}
	p, err := r.store.LockProductByCode(ctx, code)
	if err != nil {
		return Product{}, err
	}
	if !p.Active {
		return Product{}, shared.NotFound("product", code)
	}
	return p, nil
}

func (r *Repository) resolveCategory(ctx context.Context, input CreateInput) (*int64, error) {
	switch {
	case input.CategoryID != nil:
		cat, err := r.tree.Get(ctx, *input.CategoryID)
		if err != nil {
			return nil, referenceError(err, "category", *input.CategoryID)
		}
		return &cat.ID, nil
	case input.CategoryName != "":
		cat, err := r.tree.GetOrCreateByName(ctx, input.CategoryName, input.CategoryCode)
		if err != nil {
			return nil, err
		}
		return &cat.ID, nil
	}
	return nil, nil
}

func (r *Repository) resolveBrand(ctx context.Context, input CreateInput) (*int64, error) {
	switch {
	case input.BrandID != nil:
		b, err := r.brands.Get(ctx, *input.BrandID)
		if err != nil {
			return nil, referenceError(err, "brand", *input.BrandID)
		}
		return &b.ID, nil
	case input.BrandCode != "":
		b, err := r.brands.GetOrCreate(ctx, input.BrandName, input.BrandCode)
		if err != nil {
			return nil, err
		}
		return &b.ID, nil
	}
	return nil, nil
}

func referenceError(err error, entity string, id int64) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.Invalid("%s %s does not exist", entity, strconv.FormatInt(id, 10))
	}
	return err
}

func applyUpdate(p *Product, in UpdateInput) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.StockMinimum != nil {
		p.StockMinimum = *in.StockMinimum
	}
	if in.Unit != nil {
		p.Unit = strings.TrimSpace(*in.Unit)
		if p.Unit == "" {
			p.Unit = shared.DefaultUnit
		}
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.InPromotion != nil {
		p.InPromotion = *in.InPromotion
	}
	if in.Weight != nil {
		w := *in.Weight
		p.Weight = &w
	}
	if in.Dimensions != nil {
		p.Dimensions = strings.TrimSpace(*in.Dimensions)
	}
	if in.Color != nil {
		p.Color = strings.TrimSpace(*in.Color)
	}
	if in.Model != nil {
		p.Model = strings.TrimSpace(*in.Model)
	}
}
