package categories

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/shared"
)

// Tree answers hierarchical category questions over a Store.
type Tree struct {
	store Store
	now   func() time.Time
}

// NewTree binds a tree to a unit of work.
func NewTree(store Store, now func() time.Time) *Tree {
	if now == nil {
		now = time.Now
	}
	return &Tree{store: store, now: now}
}

// Get returns a category by id.
func (t *Tree) Get(ctx context.Context, id int64) (Category, error) {
	return t.store.CategoryByID(ctx, id)
}

// ResolveByCode returns the category with the exact code.
func (t *Tree) ResolveByCode(ctx context.Context, code string) (Category, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Category{}, shared.Invalid("category code required")
	}
	return t.store.CategoryByCode(ctx, code)
}

// Resolve accepts a numeric id, a code or a name, tried in that order.
func (t *Tree) Resolve(ctx context.Context, ref string) (Category, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Category{}, shared.Invalid("category reference required")
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil && id > 0 {
		cat, err := t.store.CategoryByID(ctx, id)
		if err == nil || !errors.Is(err, shared.ErrNotFound) {
			return cat, err
		}
	}
	cat, err := t.ResolveByCode(ctx, ref)
	if err == nil || !errors.Is(err, shared.ErrNotFound) {
		return cat, err
	}
	cat, err = t.store.CategoryByName(ctx, ref)
	if errors.Is(err, shared.ErrNotFound) {
		return Category{}, shared.NotFound("category", ref)
	}
	return cat, err
}

// DescendantIDs walks the tree breadth first and returns every category
// below root, root excluded. Revisited ids are skipped so cyclic data ends.
func (t *Tree) DescendantIDs(ctx context.Context, rootID int64) ([]int64, error) {
	visited := map[int64]struct{}{rootID: {}}
	var out []int64
	frontier := []int64{rootID}
	for len(frontier) > 0 {
		children, err := t.store.ChildCategoryIDs(ctx, frontier)
		if err != nil {
			return nil, err
		}
		next := make([]int64, 0, len(children))
		for _, id := range children {
			if _, seen := visited[id]; seen {
				continue
			}
			visited[id] = struct{}{}
			out = append(out, id)
			next = append(next, id)
		}
		frontier = next
	}
	return out, nil
}

// Scope returns the category id plus, when requested, all its descendants.
func (t *Tree) Scope(ctx context.Context, categoryID int64, includeSubcategories bool) ([]int64, error) {
	scope := []int64{categoryID}
	if !includeSubcategories {
		return scope, nil
	}
	descendants, err := t.DescendantIDs(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return append(scope, descendants...), nil
}

// Hierarchy nests active categories under their parents starting from the
// roots. Categories only reachable through a cycle are not listed.
func (t *Tree) Hierarchy(ctx context.Context) ([]Node, error) {
	all, err := t.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]Category, len(all))
	children := make(map[int64][]Category)
	var roots []Category
	for _, c := range all {
		if c.Active {
			byID[c.ID] = c
		}
	}
	for _, c := range byID {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		if _, ok := byID[*c.ParentID]; !ok {
			// parent inactive or missing: surface as root
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}
	visited := make(map[int64]struct{}, len(byID))
	var build func(cats []Category) []Node
	build = func(cats []Category) []Node {
		sortCategories(cats)
		nodes := make([]Node, 0, len(cats))
		for _, c := range cats {
			if _, seen := visited[c.ID]; seen {
				continue
			}
			visited[c.ID] = struct{}{}
			nodes = append(nodes, Node{Category: c, Children: build(children[c.ID])})
		}
		return nodes
	}
	return build(roots), nil
}

// Create inserts a category. A parent must already exist, so a new category
// can never close a cycle.
func (t *Tree) Create(ctx context.Context, input CreateInput) (Category, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Code = strings.TrimSpace(input.Code)
	input.ParentCode = strings.TrimSpace(input.ParentCode)
	if err := shared.Validate(input); err != nil {
		return Category{}, err
	}
	var parentID *int64
	switch {
	case input.ParentID != nil:
		parent, err := t.store.CategoryByID(ctx, *input.ParentID)
		if err != nil {
			return Category{}, parentError(err, *input.ParentID)
		}
		parentID = &parent.ID
	case input.ParentCode != "":
		parent, err := t.ResolveByCode(ctx, input.ParentCode)
		if err != nil {
			return Category{}, parentError(err, input.ParentCode)
		}
		parentID = &parent.ID
	}
	now := t.now().UTC()
	return t.store.InsertCategory(ctx, Category{
		Name:         input.Name,
		Code:         input.Code,
		Description:  strings.TrimSpace(input.Description),
		Active:       true,
		DisplayOrder: input.DisplayOrder,
		ParentID:     parentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// GetOrCreate looks the category up by code and inserts it when absent.
func (t *Tree) GetOrCreate(ctx context.Context, name, code string) (Category, error) {
	existing, err := t.ResolveByCode(ctx, code)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return Category{}, err
	}
	return t.Create(ctx, CreateInput{Name: name, Code: code})
}

// GetOrCreateByName matches the name case-insensitively and inserts the
// category when absent. An empty code is derived from the name.
func (t *Tree) GetOrCreateByName(ctx context.Context, name, code string) (Category, error) {
	name = strings.TrimSpace(name)
	existing, err := t.store.CategoryByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return Category{}, err
	}
	if strings.TrimSpace(code) == "" {
		code = CodeFromName(name)
	}
	return t.Create(ctx, CreateInput{Name: name, Code: code})
}

// CodeFromName derives an upper-case, dash separated code from a name.
func CodeFromName(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToUpper(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	code := strings.TrimSuffix(b.String(), "-")
	if runes := []rune(code); len(runes) > 50 {
		code = string(runes[:50])
	}
	return code
}

func parentError(err error, ref any) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.Invalid("parent category %v does not exist", ref)
	}
	return err
}

func sortCategories(cats []Category) {
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].DisplayOrder != cats[j].DisplayOrder {
			return cats[i].DisplayOrder < cats[j].DisplayOrder
		}
		if cats[i].Name != cats[j].Name {
			return cats[i].Name < cats[j].Name
		}
		return cats[i].ID < cats[j].ID
	})
}
