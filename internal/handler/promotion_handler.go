package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"nexcommerce/internal/model"
	"nexcommerce/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// PromotionHandler handles promotion-related HTTP requests.
type PromotionHandler struct {
	promotions service.PromotionService
	redemption service.RedemptionService
	logger     zerolog.Logger
}

// NewPromotionHandler creates a new promotion handler.
func NewPromotionHandler(
	promotions service.PromotionService,
	redemption service.RedemptionService,
	logger zerolog.Logger,
) *PromotionHandler {
	return &PromotionHandler{
		promotions: promotions,
		redemption: redemption,
		logger:     logger.With().Str("handler", "promotion").Logger(),
	}
}

// List handles GET /api/promotions requests. With ?active=true only the
// currently active promotions come back.
func (h *PromotionHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		promotions []model.Promotion
		err        error
	)

	if r.URL.Query().Get("active") == "true" {
		promotions, err = h.promotions.ListActive(r.Context())
	} else {
		promotions, err = h.promotions.List(r.Context())
	}
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	if promotions == nil {
		promotions = []model.Promotion{}
	}
	writeJSON(w, http.StatusOK, promotions)
}

// Get handles GET /api/promotions/{id} requests.
func (h *PromotionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.promotionID(w, r)
	if !ok {
		return
	}

	promotion, err := h.promotions.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, promotion)
}

// Create handles POST /api/promotions requests.
func (h *PromotionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.PromotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	promotion, err := h.promotions.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, promotion)
}

// Update handles PUT /api/promotions/{id} requests.
func (h *PromotionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.promotionID(w, r)
	if !ok {
		return
	}

	var req model.PromotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	promotion, err := h.promotions.Update(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, promotion)
}

// Delete handles DELETE /api/promotions/{id} requests.
func (h *PromotionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.promotionID(w, r)
	if !ok {
		return
	}

	if err := h.promotions.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Activate handles POST /api/promotions/{id}/activate requests.
func (h *PromotionHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

// Deactivate handles POST /api/promotions/{id}/deactivate requests.
func (h *PromotionHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *PromotionHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, ok := h.promotionID(w, r)
	if !ok {
		return
	}

	var (
		promotion *model.Promotion
		err       error
	)
	if active {
		promotion, err = h.promotions.Activate(r.Context(), id)
	} else {
		promotion, err = h.promotions.Deactivate(r.Context(), id)
	}
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, promotion)
}

// CreateFlashSale handles POST /api/promotions/flash-sale requests.
func (h *PromotionHandler) CreateFlashSale(w http.ResponseWriter, r *http.Request) {
	var req model.FlashSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	promotion, err := h.promotions.CreateFlashSale(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, promotion)
}

// Redeem handles POST /api/promotions/redeem requests.
func (h *PromotionHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req model.RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Code == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "code is required", h.logger)
		return
	}

	amount, err := h.redemption.Redeem(r.Context(), req.Code, req.Subtotal)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.RedeemResponse{
		Code:             req.Code,
		Subtotal:         req.Subtotal,
		DiscountedAmount: amount,
	})
}

// ValidateCode handles GET /api/promotions/validate?code=X requests.
func (h *PromotionHandler) ValidateCode(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "code query parameter is required", h.logger)
		return
	}

	valid, err := h.redemption.IsValid(r.Context(), code)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.ValidateCodeResponse{Code: code, Valid: valid})
}

// promotionID parses the {id} URL parameter.
func (h *PromotionHandler) promotionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "invalid promotion ID", h.logger)
		return 0, false
	}
	return id, true
}
