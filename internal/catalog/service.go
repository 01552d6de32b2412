package catalog

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/brands"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/categories"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/prices"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/products"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/shared"
)

// Options configures optional collaborators of the service.
type Options struct {
	Cache     *Cache
	Publisher Publisher
	Defaults  shared.Defaults
	Logger    *slog.Logger
	Clock     func() time.Time
}

// Service is the entry point for every catalog query and mutation. Each call
// runs inside exactly one unit of work.
type Service struct {
	store     Store
	cache     *Cache
	publisher Publisher
	defaults  shared.Defaults
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(store Store, opts Options) *Service {
	svc := &Service{
		store:     store,
		cache:     opts.Cache,
		publisher: opts.Publisher,
		defaults:  opts.Defaults.WithFallbacks(),
		logger:    opts.Logger,
		now:       opts.Clock,
	}
	if svc.publisher == nil {
		svc.publisher = noopPublisher{}
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc
}

// Defaults exposes the effective tunables.
func (s *Service) Defaults() shared.Defaults {
	return s.defaults
}

type unit struct {
	tx       Tx
	ledger   *prices.Ledger
	tree     *categories.Tree
	brands   *brands.Resolver
	products *products.Repository
}

func (s *Service) bind(tx Tx) unit {
	ledger := prices.NewLedger(tx, s.now)
	tree := categories.NewTree(tx, s.now)
	resolver := brands.NewResolver(tx, s.now)
	return unit{
		tx:       tx,
		ledger:   ledger,
		tree:     tree,
		brands:   resolver,
		products: products.NewRepository(tx, ledger, tree, resolver, s.now),
	}
}

func (s *Service) run(ctx context.Context, fn func(context.Context, unit) error) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		return fn(ctx, s.bind(tx))
	})
	return shared.Normalize(err)
}

// GetByCode returns the detail view of an active product.
func (s *Service) GetByCode(ctx context.Context, code string) (ProductDetail, error) {
	var detail ProductDetail
	err := s.run(ctx, func(ctx context.Context, u unit) error {
		p, err := u.products.ByCode(ctx, code)
		if err != nil {
			return err
		}
		detail.Product = p
		if p.CategoryID != nil {
			cat, err := u.tree.Get(ctx, *p.CategoryID)
			if err != nil {
				return err
			}
			detail.Category = &cat
		}
		if p.BrandID != nil {
			b, err := u.brands.Get(ctx, *p.BrandID)
			if err != nil {
				return err
			}
			detail.Brand = &b
		}
		history, err := u.ledger.History(ctx, p.ID, "")
		if err != nil {
			return err
		}
		detail.Prices = history
		if len(history) > 0 {
			current := history[0].Value
			detail.CurrentPrice = &current
		}
		detail.InPromotionWindow, err = u.ledger.InPromotionWindow(ctx, p.ID, s.defaults.PromotionWindowDays)
		return err
	})
	if err != nil {
		return ProductDetail{}, err
	}
	detail.LowStock = detail.Product.LowStock()
	detail.DaysSinceCreated = shared.DaysBetween(detail.CreatedAt, s.now())
	return detail, nil
}

// Search runs the basic search using the first criterion present.
func (s *Service) Search(ctx context.Context, req SearchRequest) ([]ProductSummary, error) {
	name := strings.TrimSpace(req.Name)
	category := strings.TrimSpace(req.Category)
	if name == "" && category == "" && req.StockMax == nil {
		return nil, shared.ErrMissingFilter
	}
	var out []ProductSummary
	err := s.run(ctx, func(ctx context.Context, u unit) error {
		var (
			list []products.Product
			err  error
		)
		switch {
		case name != "":
			list, err = u.products.SearchByName(ctx, name)
		case category != "":
			list, err = u.products.ByCategory(ctx, category, true)
		default:
			list, err = u.products.ByStockAtMost(ctx, *req.StockMax)
		}
		if err != nil {
			return err
		}
		out, err = s.summarize(ctx, u, list)
		return err
	})
	return out, err
}

// ProductsByCategory lists the active products of a category.
func (s *Service) ProductsByCategory(ctx context.Context, ref string, includeSubcategories bool) ([]ProductSummary, error) {
	var out []ProductSummary
	err := s.run(ctx, func(ctx context.Context, u unit) error {
		list, err := u.products.ByCategory(ctx, ref, includeSubcategories)
		if err != nil {
			return err
		}
		out, err = s.summarize(ctx, u, list)
		return err
	})
	return out, err
}

// SearchAdvanced applies every criterion of filter and returns one page
// ordered featured first, then promoted, then by name.
func (s *Service) SearchAdvanced(ctx context.Context, filter AdvancedFilter, page, pageSize int) (Page, error) {
	if page <= 0 {
		page = shared.DefaultPage
	}
	if pageSize <= 0 {
		pageSize = s.defaults.DefaultPageSize
	}
	if pageSize > s.defaults.MaxPageSize {
		pageSize = s.defaults.MaxPageSize
	}
	if err := validateFilter(filter); err != nil {
		return Page{}, err
	}
	pagination := shared.NewPagination(page, pageSize, 0)
	query := products.Query{
		ActiveOnly:    filter.ActiveOnly == nil || *filter.ActiveOnly,
		Name:          strings.TrimSpace(filter.Name),
		StockMin:      filter.StockMin,
		StockMax:      filter.StockMax,
		FeaturedOnly:  filter.FeaturedOnly,
		PromotionOnly: filter.PromotionOnly,
		LowStockOnly:  filter.LowStockOnly,
		Sort:          products.SortByRelevance,
		Limit:         pagination.PageSize,
		Offset:        pagination.Offset(),
	}
	var result Page
	err := s.run(ctx, func(ctx context.Context, u unit) error {
		if ref := strings.TrimSpace(filter.Category); ref != "" {
			cat, err := u.tree.Resolve(ctx, ref)
			if err != nil {
				return err
			}
			include := filter.IncludeSubcategories == nil || *filter.IncludeSubcategories
			if query.CategoryIDs, err = u.tree.Scope(ctx, cat.ID, include); err != nil {
				return err
			}
		}
		if ref := strings.TrimSpace(filter.Brand); ref != "" {
			b, err := s.resolveBrand(ctx, u, ref)
			if err != nil {
				return err
			}
			query.BrandID = &b.ID
		}
		if filter.PriceMin != nil || filter.PriceMax != nil {
			ids, err := u.ledger.ProductIDsInPriceRange(ctx, filter.PriceMin, filter.PriceMax)
			if err != nil {
				return err
			}
			query.IDs = ids
		}
		list, total, err := u.products.Find(ctx, query)
		if err != nil {
			return err
		}
		items, err := s.summarize(ctx, u, list)
		if err != nil {
			return err
		}
		result = Page{Items: items, Pagination: shared.NewPagination(page, pageSize, total)}
		return nil
	})
	return result, err
}

// Promotions lists active products whose price changed inside the promotion
// window. The stored promotion flag is not consulted.
func (s *Service) Promotions(ctx context.Context) ([]ProductSummary, error) {
	var out []ProductSummary
	err := s.cached(ctx, &out, []string{"promotions", strconv.Itoa(s.defaults.PromotionWindowDays), s.dayToken()}, func(ctx context.Context) (any, error) {
		var list []ProductSummary
		err := s.run(ctx, func(ctx context.Context, u unit) error {
			var err error
			list, err = s.promotions(ctx, u)
			return err
		})
		return list, err
	})
	return out, err
}

// Launches lists active products created during the last days. A nil days
// selects the default window.
func (s *Service) Launches(ctx context.Context, window *int) ([]ProductSummary, error) {
	days := s.defaults.LaunchWindowDays
	if window != nil {
		days = *window
	}
	if days < 1 || days > s.defaults.MaxLaunchWindowDays {
		return nil, shared.Invalid("launch window must be between 1 and %d days, got %d", s.defaults.MaxLaunchWindowDays, days)
	}
	var out []ProductSummary
	err := s.cached(ctx, &out, []string{"launches", strconv.Itoa(days), s.dayToken()}, func(ctx context.Context) (any, error) {
		var list []ProductSummary
		err := s.run(ctx, func(ctx context.Context, u unit) error {
			var err error
			list, err = s.launches(ctx, u, days)
			return err
		})
		return list, err
	})
	return out, err
}

// Highlights combines promotions and launches of the default windows.
func (s *Service) Highlights(ctx context.Context) (Highlights, error) {
	var out Highlights
	err := s.run(ctx, func(ctx context.Context, u unit) error {
		var err error
		if out.Promotions, err = s.promotions(ctx, u); err != nil {
			return err
		}
		out.Launches, err = s.launches(ctx, u, s.defaults.LaunchWindowDays)
		return err
	})
	return out, err
}

// PriceHistory lists the prices of an active product, optionally since a date.
func (s *Service) PriceHistory(ctx context.Context, code, since string) (PriceHistory, error) {
	if _, err := shared.ParseSince(since); err != nil {
		return PriceHistory{}, err
	}
	var out PriceHistory
	err := s.run(ctx, func(ctx context.Context, u unit) error {
		p, err := u.products.ByCode(ctx, code)
		if err != nil {
			return err
		}
		records, err := u.ledger.History(ctx, p.ID, since)
		if err != nil {
			return err
		}
		out = PriceHistory{Code: p.Code, Name: p.Name, Prices: records}
		if len(records) > 0 {
			current := records[0].Value
			out.CurrentPrice = &current
		}
		return nil
	})
	return out, err
}

// CreateProduct inserts a product and its optional initial price atomically.
func (s *Service) CreateProduct(ctx context.Context, input products.CreateInput) (ProductDetail, error) {
	var created products.Product
	err := s.run(ctx, func(ctx context.Context, u unit) error {
		var err error
		created, err = u.products.Create(ctx, input)
		return err
	})
	if err != nil {
		return ProductDetail{}, err
	}
	events := []Event{newEvent(EventProductCreated, created.ID, created.Code, s.now())}
	if input.Price != nil {
		events = append(events, s.priceEvent(created, *input.Price))
	}
	s.afterCommit(ctx, events...)
	s.logger.Info("catalog product created", slog.String("code", created.Code), slog.Int64("id", created.ID))
	return s.GetByCode(ctx, created.Code)
}

// UpdateProduct applies a partial update to an active product.
func (s *Service) UpdateProduct(ctx context.Context, code string, input products.UpdateInput) (ProductDetail, error) {
	var (
		updated  products.Product
		previous *decimal.Decimal
	)
	err := s.run(ctx, func(ctx context.Context, u unit) error {
		if input.Price != nil {
			p, err := u.products.ByCode(ctx, code)
			if err != nil {
				return err
			}
			if previous, err = u.ledger.Current(ctx, p.ID); err != nil {
				return err
			}
		}
		var err error
		updated, err = u.products.Update(ctx, code, input)
		return err
	})
	if err != nil {
		return ProductDetail{}, err
	}
	events := []Event{newEvent(EventProductUpdated, updated.ID, updated.Code, s.now())}
	if input.Price != nil {
		ev := s.priceEvent(updated, *input.Price)
		ev.PreviousPrice = previous
		events = append(events, ev)
	}
	s.afterCommit(ctx, events...)
	return s.GetByCode(ctx, updated.Code)
}

// DeleteProduct deactivates a product. It reports false when nothing changed.
func (s *Service) DeleteProduct(ctx context.Context, code string) (bool, error) {
	var (
		deleted bool
		target  products.Product
	)
	err := s.run(ctx, func(ctx context.Context, u unit) error {
		var err error
		if target, err = u.tx.ProductByCode(ctx, strings.TrimSpace(code)); err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		deleted, err = u.products.SoftDelete(ctx, code)
		return err
	})
	if err != nil || !deleted {
		return false, err
	}
	s.afterCommit(ctx, newEvent(EventProductDeactivated, target.ID, target.Code, s.now()))
	s.logger.Info("catalog product deactivated", slog.String("code", target.Code))
	return true, nil
}

// CreateCategory inserts a category under an existing parent.
func (s *Service) CreateCategory(ctx context.Context, input categories.CreateInput) (categories.Category, error) {
	var created categories.Category
	err := s.run(ctx, func(ctx context.Context, u unit) error {
		var err error
		created, err = u.tree.Create(ctx, input)
		return err
	})
	if err != nil {
		return categories.Category{}, err
	}
	s.afterCommit(ctx)
	return created, nil
}

// Categories returns the active category hierarchy.
func (s *Service) Categories(ctx context.Context) ([]categories.Node, error) {
	var out []categories.Node
	err := s.cached(ctx, &out, []string{"categories"}, func(ctx context.Context) (any, error) {
		var nodes []categories.Node
		err := s.run(ctx, func(ctx context.Context, u unit) error {
			var err error
			nodes, err = u.tree.Hierarchy(ctx)
			return err
		})
		return nodes, err
	})
	if out == nil && err == nil {
		out = []categories.Node{}
	}
	return out, err
}

// CreateBrand inserts a brand.
func (s *Service) CreateBrand(ctx context.Context, input brands.CreateInput) (brands.Brand, error) {
	var created brands.Brand
	err := s.run(ctx, func(ctx context.Context, u unit) error {
		var err error
		created, err = u.brands.Create(ctx, input)
		return err
	})
	if err != nil {
		return brands.Brand{}, err
	}
	s.afterCommit(ctx)
	return created, nil
}

// Brands lists active brands with their active product counts.
func (s *Service) Brands(ctx context.Context) ([]brands.WithCount, error) {
	var out []brands.WithCount
	err := s.cached(ctx, &out, []string{"brands"}, func(ctx context.Context) (any, error) {
		var list []brands.WithCount
		err := s.run(ctx, func(ctx context.Context, u unit) error {
			var err error
			list, err = u.brands.List(ctx)
			return err
		})
		return list, err
	})
	return out, err
}

// Summary counts the catalog.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	var out Summary
	err := s.cached(ctx, &out, []string{"summary"}, func(ctx context.Context) (any, error) {
		var sum Summary
		err := s.run(ctx, func(ctx context.Context, u unit) error {
			var err error
			if _, sum.ActiveProducts, err = u.products.Find(ctx, products.Query{ActiveOnly: true, Limit: 1}); err != nil {
				return err
			}
			if _, sum.LowStockProducts, err = u.products.Find(ctx, products.Query{ActiveOnly: true, LowStockOnly: true, Limit: 1}); err != nil {
				return err
			}
			cats, err := u.tx.ListCategories(ctx)
			if err != nil {
				return err
			}
			for _, c := range cats {
				if c.Active {
					sum.Categories++
				}
			}
			list, err := u.brands.List(ctx)
			if err != nil {
				return err
			}
			sum.Brands = len(list)
			current, err := u.ledger.CurrentPrices(ctx, nil)
			if err != nil {
				return err
			}
			sum.PricedProducts = len(current)
			return nil
		})
		return sum, err
	})
	return out, err
}

// LowStock lists every active product at or below its own stock minimum.
func (s *Service) LowStock(ctx context.Context) ([]ProductSummary, error) {
	var out []ProductSummary
	err := s.run(ctx, func(ctx context.Context, u unit) error {
		list, _, err := u.products.Find(ctx, products.Query{ActiveOnly: true, LowStockOnly: true, Sort: products.SortByStock})
		if err != nil {
			return err
		}
		out, err = s.summarize(ctx, u, list)
		return err
	})
	return out, err
}

// InvalidateCache drops every cached read.
func (s *Service) InvalidateCache(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func (s *Service) promotions(ctx context.Context, u unit) ([]ProductSummary, error) {
	promoted, err := u.ledger.PromotedProductIDs(ctx, s.defaults.PromotionWindowDays)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(promoted))
	for id := range promoted {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	list, _, err := u.products.Find(ctx, products.Query{ActiveOnly: true, IDs: ids, Sort: products.SortByName})
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, u, list)
}

func (s *Service) launches(ctx context.Context, u unit, days int) ([]ProductSummary, error) {
	since := s.now().UTC().AddDate(0, 0, -days)
	list, _, err := u.products.Find(ctx, products.Query{ActiveOnly: true, CreatedSince: &since, Sort: products.SortByNewest})
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, u, list)
}

func (s *Service) resolveBrand(ctx context.Context, u unit, ref string) (brands.Brand, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil && id > 0 {
		return u.brands.Get(ctx, id)
	}
	return u.tx.BrandByCode(ctx, ref)
}

// summarize attaches current price, category and brand names to products.
func (s *Service) summarize(ctx context.Context, u unit, list []products.Product) ([]ProductSummary, error) {
	out := make([]ProductSummary, 0, len(list))
	if len(list) == 0 {
		return out, nil
	}
	ids := make([]int64, len(list))
	for i, p := range list {
		ids[i] = p.ID
	}
	current, err := u.ledger.CurrentPrices(ctx, ids)
	if err != nil {
		return nil, err
	}
	categoryNames := make(map[int64]string)
	brandNames := make(map[int64]string)
	for _, p := range list {
		summary := ProductSummary{
			Code:        p.Code,
			Name:        p.Name,
			Stock:       p.Stock,
			Featured:    p.Featured,
			InPromotion: p.InPromotion,
		}
		if value, ok := current[p.ID]; ok {
			summary.CurrentPrice = &value
		}
		if p.CategoryID != nil {
			name, ok := categoryNames[*p.CategoryID]
			if !ok {
				cat, err := u.tree.Get(ctx, *p.CategoryID)
				if err != nil {
					return nil, err
				}
				name = cat.Name
				categoryNames[*p.CategoryID] = name
			}
			summary.CategoryName = name
		}
		if p.BrandID != nil {
			name, ok := brandNames[*p.BrandID]
			if !ok {
				b, err := u.brands.Get(ctx, *p.BrandID)
				if err != nil {
					return nil, err
				}
				name = b.Name
				brandNames[*p.BrandID] = name
			}
			summary.BrandName = name
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *Service) priceEvent(p products.Product, value decimal.Decimal) Event {
	ev := newEvent(EventProductPriceChange, p.ID, p.Code, s.now())
	rounded := value.Round(2)
	ev.Price = &rounded
	return ev
}

// afterCommit publishes events and invalidates cached reads. Failures are
// logged; the committed unit of work stands.
func (s *Service) afterCommit(ctx context.Context, events ...Event) {
	if len(events) > 0 {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			s.logger.Error("catalog event publish failed", slog.Int("events", len(events)), slog.Any("error", err))
		}
	}
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("catalog cache bump failed", slog.Any("error", err))
	}
}

func (s *Service) cached(ctx context.Context, dest any, parts []string, loader func(context.Context) (any, error)) error {
	key, err := s.cache.BuildKey(ctx, parts...)
	if err != nil {
		s.logger.Warn("catalog cache key failed", slog.Any("error", err))
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		return roundTrip(value, dest)
	}
	return shared.Normalize(s.cache.FetchJSON(ctx, key, dest, loader))
}

// dayToken scopes time window keys to the current day.
func (s *Service) dayToken() string {
	return s.now().UTC().Format("2006-01-02")
}

func validateFilter(f AdvancedFilter) error {
	if f.StockMin != nil && *f.StockMin < 0 {
		return shared.Invalid("stock_min must be >= 0")
	}
	if f.StockMax != nil && *f.StockMax < 0 {
		return shared.Invalid("stock_max must be >= 0")
	}
	if (f.StockMin != nil && *f.StockMin > shared.MaxStock) || (f.StockMax != nil && *f.StockMax > shared.MaxStock) {
		return shared.Invalid("stock bounds must be <= %d", shared.MaxStock)
	}
	if f.StockMin != nil && f.StockMax != nil && *f.StockMin > *f.StockMax {
		return shared.Invalid("stock_min %d greater than stock_max %d", *f.StockMin, *f.StockMax)
	}
	if f.PriceMin != nil && f.PriceMin.IsNegative() {
		return shared.Invalid("price_min must be >= 0")
	}
	if f.PriceMax != nil && f.PriceMax.IsNegative() {
		return shared.Invalid("price_max must be >= 0")
	}
	return nil
}
