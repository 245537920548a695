package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"nexcommerce/internal/middleware"
	"nexcommerce/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	logger.Error().
		Str("error_code", code).
		Str("error", message).
		Int("status", status).
		Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: middleware.RequestIDFrom(r.Context()),
	})
}

// writeServiceError maps a service-layer error to an HTTP response.
// Domain errors carry stable codes and map to 4xx statuses; anything else
// is an infrastructure fault and stays a plain 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, r, statusForCode(domainErr.Code), domainErr.Code, domainErr.Message, logger)
		return
	}

	logger.Error().Err(err).Msg("unhandled service error")
	writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}

// statusForCode maps a domain error code to an HTTP status.
func statusForCode(code string) int {
	switch code {
	case model.ErrCodeProductNotFound,
		model.ErrCodeCategoryNotFound,
		model.ErrCodePromotionNotFound:
		return http.StatusNotFound
	case model.ErrCodeValidation,
		model.ErrCodeInvalidJSON:
		return http.StatusBadRequest
	case model.ErrCodeInvalidCode,
		model.ErrCodePromotionDisabled,
		model.ErrCodePromotionNotInWindow,
		model.ErrCodeUsageLimitExceeded,
		model.ErrCodeBelowMinimumPurchase:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
