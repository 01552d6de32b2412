// Package http exposes the catalog service as a JSON API.
package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/brands"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/categories"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/products"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/shared"
	"github.com/odyssey-erp/odyssey-catalog/internal/platform/httpx"
)

// ActorHeader optionally identifies who changed a price.
const ActorHeader = "X-Actor-ID"

// Handler wires catalog endpoints.
type Handler struct {
	logger  *slog.Logger
	service *catalog.Service
}

// NewHandler constructs the catalog handler.
func NewHandler(logger *slog.Logger, service *catalog.Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

type deleteResponse struct {
	Code        string `json:"code"`
	Deactivated bool   `json:"deactivated"`
}

func (h *Handler) handleSearchAdvanced(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		filter catalog.AdvancedFilter
		err    error
	)
	filter.Name = q.Get("name")
	filter.Category = q.Get("category")
	filter.Brand = q.Get("brand")
	if filter.ActiveOnly, err = boolParam(q.Get("active_only"), "active_only"); err != nil {
		h.fail(w, err)
		return
	}
	if filter.IncludeSubcategories, err = boolParam(q.Get("include_subcategories"), "include_subcategories"); err != nil {
		h.fail(w, err)
		return
	}
	if filter.StockMin, err = intParam(q.Get("stock_min"), "stock_min"); err != nil {
		h.fail(w, err)
		return
	}
	if filter.StockMax, err = intParam(q.Get("stock_max"), "stock_max"); err != nil {
		h.fail(w, err)
		return
	}
	if filter.PriceMin, err = decimalParam(q.Get("price_min"), "price_min"); err != nil {
		h.fail(w, err)
		return
	}
	if filter.PriceMax, err = decimalParam(q.Get("price_max"), "price_max"); err != nil {
		h.fail(w, err)
		return
	}
	for name, dst := range map[string]*bool{
		"featured":  &filter.FeaturedOnly,
		"promotion": &filter.PromotionOnly,
		"low_stock": &filter.LowStockOnly,
	} {
		flag, err := boolParam(q.Get(name), name)
		if err != nil {
			h.fail(w, err)
			return
		}
		*dst = flag != nil && *flag
	}
	page, err := intParam(q.Get("page"), "page")
	if err != nil {
		h.fail(w, err)
		return
	}
	size, err := intParam(q.Get("page_size"), "page_size")
	if err != nil {
		h.fail(w, err)
		return
	}

	result, err := h.service.SearchAdvanced(r.Context(), filter, deref(page), deref(size))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	stockMax, err := intParam(q.Get("stock_max"), "stock_max")
	if err != nil {
		h.fail(w, err)
		return
	}
	items, err := h.service.Search(r.Context(), catalog.SearchRequest{
		Name:     q.Get("name"),
		Category: q.Get("category"),
		StockMax: stockMax,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, detail)
}

func (h *Handler) handlePriceHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.PriceHistory(r.Context(), chi.URLParam(r, "code"), r.URL.Query().Get("since"))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, history)
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var input products.CreateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		h.fail(w, err)
		return
	}
	actor, err := actorID(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	input.ActorID = actor
	detail, err := h.service.CreateProduct(r.Context(), input)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, detail)
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var input products.UpdateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		h.fail(w, err)
		return
	}
	actor, err := actorID(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	input.ActorID = actor
	detail, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "code"), input)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, detail)
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	deleted, err := h.service.DeleteProduct(r.Context(), code)
	if err != nil {
		h.fail(w, err)
		return
	}
	if !deleted {
		h.fail(w, shared.NotFound("product", code))
		return
	}
	httpx.JSON(w, http.StatusOK, deleteResponse{Code: code, Deactivated: true})
}

func (h *Handler) handlePromotions(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Promotions(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) handleLaunches(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r.URL.Query().Get("days"), "days")
	if err != nil {
		h.fail(w, err)
		return
	}
	items, err := h.service.Launches(r.Context(), days)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) handleHighlights(w http.ResponseWriter, r *http.Request) {
	highlights, err := h.service.Highlights(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, highlights)
}

func (h *Handler) handleLowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.LowStock(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	tree, err := h.service.Categories(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tree)
}

func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var input categories.CreateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		h.fail(w, err)
		return
	}
	created, err := h.service.CreateCategory(r.Context(), input)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) handleCategoryProducts(w http.ResponseWriter, r *http.Request) {
	include, err := boolParam(r.URL.Query().Get("include_subcategories"), "include_subcategories")
	if err != nil {
		h.fail(w, err)
		return
	}
	items, err := h.service.ProductsByCategory(r.Context(), chi.URLParam(r, "ref"), include == nil || *include)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) handleBrands(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Brands(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleCreateBrand(w http.ResponseWriter, r *http.Request) {
	var input brands.CreateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		h.fail(w, err)
		return
	}
	created, err := h.service.CreateBrand(r.Context(), input)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	httpx.RespondError(w, h.logger, err)
}

func intParam(raw, name string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, shared.Invalid("%s must be an integer", name)
	}
	return &v, nil
}

func boolParam(raw, name string) (*bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, shared.Invalid("%s must be a boolean", name)
	}
	return &v, nil
}

func decimalParam(raw, name string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, shared.Invalid("%s must be a number", name)
	}
	return &v, nil
}

func actorID(r *http.Request) (*int64, error) {
	raw := strings.TrimSpace(r.Header.Get(ActorHeader))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, shared.Invalid("%s must be a positive integer", ActorHeader)
	}
	return &id, nil
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
