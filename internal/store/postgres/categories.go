package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/categories"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/shared"
)

const categoryColumns = `id, name, code, description, active, display_order, parent_id, created_at, updated_at`

func scanCategory(row pgx.Row) (categories.Category, error) {
	var c categories.Category
	err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Description, &c.Active, &c.DisplayOrder, &c.ParentID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *txStore) InsertCategory(ctx context.Context, c categories.Category) (categories.Category, error) {
	err := s.tx.QueryRow(ctx,
		`INSERT INTO categories (name, code, description, active, display_order, parent_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		c.Name, c.Code, c.Description, c.Active, c.DisplayOrder, c.ParentID, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		return categories.Category{}, translate("insert category", "category", c.Code, err)
	}
	return c, nil
}

func (s *txStore) CategoryByID(ctx context.Context, id int64) (categories.Category, error) {
	c, err := scanCategory(s.tx.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	return c, translate("category by id", "category", id, err)
}

func (s *txStore) CategoryByCode(ctx context.Context, code string) (categories.Category, error) {
	c, err := scanCategory(s.tx.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE code = $1`, code))
	return c, translate("category by code", "category", code, err)
}

func (s *txStore) CategoryByName(ctx context.Context, name string) (categories.Category, error) {
	c, err := scanCategory(s.tx.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE LOWER(name) = LOWER($1) ORDER BY id LIMIT 1`, name))
	return c, translate("category by name", "category", name, err)
}

func (s *txStore) ChildCategoryIDs(ctx context.Context, parentIDs []int64) ([]int64, error) {
	rows, err := s.tx.Query(ctx, `SELECT id FROM categories WHERE parent_id = ANY($1) ORDER BY id`, parentIDs)
	if err != nil {
		return nil, shared.StoreError("child categories", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, shared.StoreError("child categories", err)
		}
		ids = append(ids, id)
	}
	return ids, shared.StoreError("child categories", rows.Err())
}

func (s *txStore) ListCategories(ctx context.Context) ([]categories.Category, error) {
	rows, err := s.tx.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY id`)
	if err != nil {
		return nil, shared.StoreError("list categories", err)
	}
	defer rows.Close()

	var out []categories.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, shared.StoreError("list categories", err)
		}
		out = append(out, c)
	}
	return out, shared.StoreError("list categories", rows.Err())
}
