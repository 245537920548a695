package router

import (
	"net/http"

	"nexcommerce/internal/handler"
	"nexcommerce/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	categoryHandler *handler.CategoryHandler,
	promotionHandler *handler.PromotionHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware in order: Recovery -> RequestID -> Logging -> CORS -> APIKeyAuth
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.APIKeyAuth(apiKey, logger))

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", productHandler.GetAll)
		r.Get("/{id}", productHandler.GetByID)
		r.Get("/{id}/promotions", productHandler.GetPromotions)
		r.Get("/{id}/price", productHandler.GetPrice)
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", categoryHandler.GetAll)
		r.Get("/{id}", categoryHandler.GetByID)
		r.Get("/{id}/products", categoryHandler.GetProducts)
		r.Get("/{id}/promotions", categoryHandler.GetPromotions)
	})

	r.Route("/api/promotions", func(r chi.Router) {
		r.Get("/", promotionHandler.List)
		r.Post("/", promotionHandler.Create)
		r.Post("/flash-sale", promotionHandler.CreateFlashSale)
		r.Post("/redeem", promotionHandler.Redeem)
		r.Get("/validate", promotionHandler.ValidateCode)
		r.Get("/{id}", promotionHandler.Get)
		r.Put("/{id}", promotionHandler.Update)
		r.Delete("/{id}", promotionHandler.Delete)
		r.Post("/{id}/activate", promotionHandler.Activate)
		r.Post("/{id}/deactivate", promotionHandler.Deactivate)
	})

	return r
}
