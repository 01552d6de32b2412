package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-catalog/internal/catalog"
	"github.com/odyssey-erp/odyssey-catalog/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-catalog/internal/store/memory"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := catalog.NewService(memory.New(), catalog.Options{Clock: func() time.Time { return now }})
	r := chi.NewRouter()
	r.Route("/api", NewHandler(nil, svc).MountRoutes)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func seed(t *testing.T, h http.Handler) {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/categories", `{"name":"Herramientas","code":"HER"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(t, h, http.MethodPost, "/api/categories", `{"name":"Martillos","code":"HER-MAR","parent_code":"HER"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(t, h, http.MethodPost, "/api/products", `{
		"code":"MTL-001","name":"Martillo carpintero","stock":3,
		"category_name":"Martillos","brand_name":"Stanley","brand_code":"STAN","price":"1000"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestProductLifecycle(t *testing.T) {
	h := newTestRouter(t)
	seed(t, h)

	rec := do(t, h, http.MethodGet, "/api/products/MTL-001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[catalog.ProductDetail](t, rec)
	require.Equal(t, "MTL-001", detail.Code)
	require.True(t, detail.LowStock)
	require.NotNil(t, detail.CurrentPrice)
	require.True(t, detail.CurrentPrice.Equal(decimal.NewFromInt(1000)))
	require.Equal(t, "Martillos", detail.Category.Name)

	rec = do(t, h, http.MethodPut, "/api/products/MTL-001", `{"price":"1200"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/products/MTL-001/prices", "")
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[catalog.PriceHistory](t, rec)
	require.Len(t, history.Prices, 2)
	require.True(t, history.CurrentPrice.Equal(decimal.NewFromInt(1200)))

	rec = do(t, h, http.MethodDelete, "/api/products/MTL-001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodDelete, "/api/products/MTL-001", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/products/MTL-001", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorStatusCodes(t *testing.T) {
	h := newTestRouter(t)
	seed(t, h)

	cases := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"unknown product", http.MethodGet, "/api/products/NOPE", "", http.StatusNotFound},
		{"duplicate code", http.MethodPost, "/api/products", `{"code":"MTL-001","name":"Otro martillo","price":"10"}`, http.StatusConflict},
		{"negative price", http.MethodPost, "/api/products", `{"code":"MTL-002","name":"Otro martillo","price":"-5"}`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/products", `{"codigo":"X"}`, http.StatusBadRequest},
		{"bad date", http.MethodGet, "/api/products/MTL-001/prices?since=01/02/2024", "", http.StatusBadRequest},
		{"no filter", http.MethodGet, "/api/products/search", "", http.StatusBadRequest},
		{"bad stock", http.MethodGet, "/api/products/search?stock_max=abc", "", http.StatusBadRequest},
		{"launch window", http.MethodGet, "/api/launches?days=400", "", http.StatusBadRequest},
		{"empty update", http.MethodPut, "/api/products/MTL-001", `{}`, http.StatusBadRequest},
		{"unknown category", http.MethodGet, "/api/categories/NOPE/products", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, tc.method, tc.target, tc.body)
			require.Equal(t, tc.want, rec.Code, rec.Body.String())
			require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			problem := decode[httpx.ProblemDetail](t, rec)
			require.Equal(t, tc.want, problem.Status)
		})
	}
}

func TestSearchEndpoints(t *testing.T) {
	h := newTestRouter(t)
	seed(t, h)

	rec := do(t, h, http.MethodGet, "/api/products/search?name=martillo", "")
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]catalog.ProductSummary](t, rec)
	require.Len(t, items, 1)
	require.Equal(t, "Stanley", items[0].BrandName)

	rec = do(t, h, http.MethodGet, "/api/categories/HER/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]catalog.ProductSummary](t, rec), 1)

	rec = do(t, h, http.MethodGet, "/api/categories/HER/products?include_subcategories=false", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decode[[]catalog.ProductSummary](t, rec))

	rec = do(t, h, http.MethodGet, "/api/products?category=HER&price_min=500&price_max=1500&page_size=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[catalog.Page](t, rec)
	require.Equal(t, 1, page.Total)
	require.Equal(t, 5, page.PageSize)
	require.Len(t, page.Items, 1)

	rec = do(t, h, http.MethodGet, "/api/products?price_min=2000", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, decode[catalog.Page](t, rec).Total)

	rec = do(t, h, http.MethodGet, "/api/products?featured=maybe", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListingEndpoints(t *testing.T) {
	h := newTestRouter(t)
	seed(t, h)

	rec := do(t, h, http.MethodGet, "/api/promotions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]catalog.ProductSummary](t, rec), 1)

	rec = do(t, h, http.MethodGet, "/api/launches", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]catalog.ProductSummary](t, rec), 1)

	rec = do(t, h, http.MethodGet, "/api/launches?days=0", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/highlights", "")
	require.Equal(t, http.StatusOK, rec.Code)
	highlights := decode[catalog.Highlights](t, rec)
	require.Len(t, highlights.Promotions, 1)
	require.Len(t, highlights.Launches, 1)

	rec = do(t, h, http.MethodGet, "/api/products/low-stock", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]catalog.ProductSummary](t, rec), 1)

	rec = do(t, h, http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"code":"HER-MAR"`)

	rec = do(t, h, http.MethodPost, "/api/brands", `{"name":"Bosch","code":"BOSCH","website":"https://www.bosch.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(t, h, http.MethodGet, "/api/brands", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]map[string]any](t, rec), 2)

	rec = do(t, h, http.MethodGet, "/api/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[catalog.Summary](t, rec)
	require.Equal(t, 1, summary.ActiveProducts)
	require.Equal(t, 2, summary.Categories)
	require.Equal(t, 2, summary.Brands)
	require.Equal(t, 1, summary.LowStockProducts)
}

func TestActorHeaderValidated(t *testing.T) {
	h := newTestRouter(t)
	seed(t, h)

	req := httptest.NewRequest(http.MethodPut, "/api/products/MTL-001", strings.NewReader(`{"price":"1100"}`))
	req.Header.Set(ActorHeader, "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPut, "/api/products/MTL-001", strings.NewReader(`{"price":"1100"}`))
	req.Header.Set(ActorHeader, "7")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	detail := decode[catalog.ProductDetail](t, rec)
	require.NotNil(t, detail.Prices[0].ActorID)
	require.EqualValues(t, 7, *detail.Prices[0].ActorID)
}
