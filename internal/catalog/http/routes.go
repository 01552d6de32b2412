package http

import "github.com/go-chi/chi/v5"

// MountRoutes registers catalog endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.handleSearchAdvanced)
		r.Post("/", h.handleCreateProduct)
		r.Get("/search", h.handleSearch)
		r.Get("/low-stock", h.handleLowStock)
		r.Get("/{code}", h.handleGetProduct)
		r.Put("/{code}", h.handleUpdateProduct)
		r.Delete("/{code}", h.handleDeleteProduct)
		r.Get("/{code}/prices", h.handlePriceHistory)
	})
	r.Get("/promotions", h.handlePromotions)
	r.Get("/launches", h.handleLaunches)
	r.Get("/highlights", h.handleHighlights)
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.handleCategories)
		r.Post("/", h.handleCreateCategory)
		r.Get("/{ref}/products", h.handleCategoryProducts)
	})
	r.Get("/brands", h.handleBrands)
	r.Post("/brands", h.handleCreateBrand)
	r.Get("/summary", h.handleSummary)
}
