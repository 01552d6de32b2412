package memory

import (
	"context"
	"slices"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/categories"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/shared"
)

func (t *tx) InsertCategory(_ context.Context, c categories.Category) (categories.Category, error) {
	for _, existing := range t.state.categories {
		if existing.Code == c.Code {
			return categories.Category{}, duplicate("category", c.Code)
		}
	}
	t.state.categorySeq++
	c.ID = t.state.categorySeq
	t.state.categories[c.ID] = c
	return c, nil
}

func (t *tx) CategoryByID(_ context.Context, id int64) (categories.Category, error) {
	c, ok := t.state.categories[id]
	if !ok {
		return categories.Category{}, shared.NotFound("category", id)
	}
	return c, nil
}

func (t *tx) CategoryByCode(_ context.Context, code string) (categories.Category, error) {
	for _, c := range t.sortedCategories() {
		if c.Code == code {
			return c, nil
		}
	}
	return categories.Category{}, shared.NotFound("category", code)
}

func (t *tx) CategoryByName(_ context.Context, name string) (categories.Category, error) {
	want := fold(name)
	for _, c := range t.sortedCategories() {
		if fold(c.Name) == want {
			return c, nil
		}
	}
	return categories.Category{}, shared.NotFound("category", name)
}

func (t *tx) ChildCategoryIDs(_ context.Context, parentIDs []int64) ([]int64, error) {
	var out []int64
	for _, c := range t.sortedCategories() {
		if c.ParentID != nil && slices.Contains(parentIDs, *c.ParentID) {
			out = append(out, c.ID)
		}
	}
	return out, nil
}

func (t *tx) ListCategories(context.Context) ([]categories.Category, error) {
	return t.sortedCategories(), nil
}

func (t *tx) sortedCategories() []categories.Category {
	out := make([]categories.Category, 0, len(t.state.categories))
	for _, c := range t.state.categories {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b categories.Category) int { return cmpID(a.ID, b.ID) })
	return out
}
