package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/products"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/shared"
)

func scanProduct(row pgx.Row) (products.Product, error) {
	var (
		p      products.Product
		weight *string
	)
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.Stock, &p.StockMinimum, &p.Unit, &p.Active,
		&p.Featured, &p.InPromotion, &weight, &p.Dimensions, &p.Color, &p.Model, &p.CategoryID, &p.BrandID,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return products.Product{}, err
	}
	if weight != nil {
		w, err := decimal.NewFromString(*weight)
		if err != nil {
			return products.Product{}, err
		}
		p.Weight = &w
	}
	return p, nil
}

func weightArg(w *decimal.Decimal) *string {
	if w == nil {
		return nil
	}
	s := w.String()
	return &s
}

func (s *txStore) InsertProduct(ctx context.Context, p products.Product) (products.Product, error) {
	err := s.tx.QueryRow(ctx,
		`INSERT INTO products (code, name, description, stock, stock_minimum, unit, active, featured, in_promotion,
			weight, dimensions, color, model, category_id, brand_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::numeric, $11, $12, $13, $14, $15, $16, $17)
		 RETURNING id`,
		p.Code, p.Name, p.Description, p.Stock, p.StockMinimum, p.Unit, p.Active, p.Featured, p.InPromotion,
		weightArg(p.Weight), p.Dimensions, p.Color, p.Model, p.CategoryID, p.BrandID, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return products.Product{}, translate("insert product", "product", p.Code, err)
	}
	return p, nil
}

func (s *txStore) ProductByCode(ctx context.Context, code string) (products.Product, error) {
	p, err := scanProduct(s.tx.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE code = $1`, code))
	return p, translate("product by code", "product", code, err)
}

func (s *txStore) LockProductByCode(ctx context.Context, code string) (products.Product, error) {
	p, err := scanProduct(s.tx.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE code = $1 FOR UPDATE`, code))
	return p, translate("lock product", "product", code, err)
}

func (s *txStore) UpdateProduct(ctx context.Context, p products.Product) (products.Product, error) {
	tag, err := s.tx.Exec(ctx,
		`UPDATE products SET name = $1, description = $2, stock = $3, stock_minimum = $4, unit = $5, active = $6,
			featured = $7, in_promotion = $8, weight = $9::numeric, dimensions = $10, color = $11, model = $12,
			category_id = $13, brand_id = $14, updated_at = $15
		 WHERE id = $16`,
		p.Name, p.Description, p.Stock, p.StockMinimum, p.Unit, p.Active, p.Featured, p.InPromotion,
		weightArg(p.Weight), p.Dimensions, p.Color, p.Model, p.CategoryID, p.BrandID, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return products.Product{}, translate("update product", "product", p.Code, err)
	}
	if tag.RowsAffected() == 0 {
		return products.Product{}, shared.NotFound("product", p.Code)
	}
	return p, nil
}

func (s *txStore) FindProducts(ctx context.Context, q products.Query) ([]products.Product, int, error) {
	if q.MatchesNothing() {
		return []products.Product{}, 0, nil
	}
	built := buildProductQuery(q)

	var total int
	if err := s.tx.QueryRow(ctx, built.countSQL, built.countArgs...).Scan(&total); err != nil {
		return nil, 0, shared.StoreError("count products", err)
	}

	rows, err := s.tx.Query(ctx, built.selectSQL, built.args...)
	if err != nil {
		return nil, 0, shared.StoreError("find products", err)
	}
	defer rows.Close()

	out := make([]products.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, shared.StoreError("find products", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, shared.StoreError("find products", err)
	}
	return out, total, nil
}
