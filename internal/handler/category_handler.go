package handler

import (
	"net/http"

	"nexcommerce/internal/model"
	"nexcommerce/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CategoryHandler handles category-related HTTP requests.
type CategoryHandler struct {
	categories service.CategoryService
	pricing    service.PricingService
	logger     zerolog.Logger
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(categories service.CategoryService, pricing service.PricingService, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		pricing:    pricing,
		logger:     logger.With().Str("handler", "category").Logger(),
	}
}

// GetAll handles GET /api/categories requests.
func (h *CategoryHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

// GetByID handles GET /api/categories/{id} requests.
func (h *CategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "id")
	if categoryID == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "category ID is required", h.logger)
		return
	}

	category, err := h.categories.GetByID(r.Context(), categoryID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, category)
}

// GetProducts handles GET /api/categories/{id}/products requests.
func (h *CategoryHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "id")
	if categoryID == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "category ID is required", h.logger)
		return
	}

	products, err := h.categories.ProductsIn(r.Context(), categoryID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetPromotions handles GET /api/categories/{id}/promotions requests.
func (h *CategoryHandler) GetPromotions(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "id")
	if categoryID == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "category ID is required", h.logger)
		return
	}

	promotions, err := h.pricing.PromotionsFor(r.Context(), model.SubjectCategory, categoryID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, promotions)
}
