package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/brands"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/shared"
)

const brandColumns = `b.id, b.name, b.code, b.description, b.active, b.country_of_origin, b.website, b.created_at, b.updated_at`

func scanBrand(row pgx.Row, extra ...any) (brands.Brand, error) {
	var b brands.Brand
	dest := append([]any{&b.ID, &b.Name, &b.Code, &b.Description, &b.Active, &b.CountryOfOrigin, &b.Website, &b.CreatedAt, &b.UpdatedAt}, extra...)
	err := row.Scan(dest...)
	return b, err
}

func (s *txStore) InsertBrand(ctx context.Context, b brands.Brand) (brands.Brand, error) {
	err := s.tx.QueryRow(ctx,
		`INSERT INTO brands (name, code, description, active, country_of_origin, website, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		b.Name, b.Code, b.Description, b.Active, b.CountryOfOrigin, b.Website, b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID)
	if err != nil {
		return brands.Brand{}, translate("insert brand", "brand", b.Code, err)
	}
	return b, nil
}

func (s *txStore) BrandByID(ctx context.Context, id int64) (brands.Brand, error) {
	b, err := scanBrand(s.tx.QueryRow(ctx, `SELECT `+brandColumns+` FROM brands b WHERE b.id = $1`, id))
	return b, translate("brand by id", "brand", id, err)
}

func (s *txStore) BrandByCode(ctx context.Context, code string) (brands.Brand, error) {
	b, err := scanBrand(s.tx.QueryRow(ctx, `SELECT `+brandColumns+` FROM brands b WHERE b.code = $1`, code))
	return b, translate("brand by code", "brand", code, err)
}

func (s *txStore) ListBrands(ctx context.Context) ([]brands.WithCount, error) {
	rows, err := s.tx.Query(ctx, `SELECT `+brandColumns+`, COUNT(p.id)
		FROM brands b
		LEFT JOIN products p ON p.brand_id = b.id AND p.active
		WHERE b.active
		GROUP BY b.id
		ORDER BY LOWER(b.name), b.id`)
	if err != nil {
		return nil, shared.StoreError("list brands", err)
	}
	defer rows.Close()

	var out []brands.WithCount
	for rows.Next() {
		var total int
		b, err := scanBrand(rows, &total)
		if err != nil {
			return nil, shared.StoreError("list brands", err)
		}
		out = append(out, brands.WithCount{Brand: b, TotalProducts: total})
	}
	return out, shared.StoreError("list brands", rows.Err())
}
