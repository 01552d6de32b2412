package categories

import (
	"context"
	"time"
)

// Category groups products. Parent chains are expected to terminate but
// readers must tolerate cycles in stored data.
type Category struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	Description  string    `json:"description,omitempty"`
	Active       bool      `json:"active"`
	DisplayOrder int       `json:"display_order"`
	ParentID     *int64    `json:"parent_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Node is a category with its nested children.
type Node struct {
	Category
	Children []Node `json:"children"`
}

// CreateInput describes a new category. The parent may be given by id or code.
type CreateInput struct {
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Code         string `json:"code" validate:"required,min=2,max=50"`
	Description  string `json:"description" validate:"max=500"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
	ParentID     *int64 `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
	ParentCode   string `json:"parent_code,omitempty"`
}

// Store is the persistence port for categories.
type Store interface {
	InsertCategory(ctx context.Context, c Category) (Category, error)
	CategoryByID(ctx context.Context, id int64) (Category, error)
	CategoryByCode(ctx context.Context, code string) (Category, error)
	// CategoryByName matches case-insensitively; the lowest id wins.
	CategoryByName(ctx context.Context, name string) (Category, error)
	// ChildCategoryIDs returns the direct children of any of the parents.
	ChildCategoryIDs(ctx context.Context, parentIDs []int64) ([]int64, error)
	ListCategories(ctx context.Context) ([]Category, error)
}
