package router

import (
	"stagekit-api/internal/handler"
	"stagekit-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler          *handler.Handler
	InventoryHandler *handler.InventoryHandler
	PullSheetHandler *handler.PullSheetHandler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Handler != nil {
			r.Get("/health", cfg.Handler.Health)
			r.Get("/ready", cfg.Handler.Ready)
		}

		if cfg.InventoryHandler != nil {
			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", cfg.InventoryHandler.List)
				r.Post("/", cfg.InventoryHandler.Create)
				r.Get("/barcode/{barcode}", cfg.InventoryHandler.ScanBarcode)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", cfg.InventoryHandler.Get)
					r.Put("/", cfg.InventoryHandler.Update)
					r.Delete("/", cfg.InventoryHandler.Delete)
					r.Put("/quantity", cfg.InventoryHandler.SetQuantity)
					r.Post("/checkout", cfg.InventoryHandler.Checkout)
					r.Post("/return", cfg.InventoryHandler.Return)
				})
			})
		}

		if cfg.PullSheetHandler != nil {
			r.Route("/pullsheets", func(r chi.Router) {
				r.Get("/", cfg.PullSheetHandler.List)
				r.Post("/", cfg.PullSheetHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", cfg.PullSheetHandler.Get)
					r.Put("/", cfg.PullSheetHandler.Update)
					r.Delete("/", cfg.PullSheetHandler.Delete)
					r.Post("/items", cfg.PullSheetHandler.AddItem)
					r.Route("/items/{itemID}", func(r chi.Router) {
						r.Get("/", cfg.PullSheetHandler.GetItem)
						r.Delete("/", cfg.PullSheetHandler.RemoveItem)
						r.Post("/checkout", cfg.PullSheetHandler.CheckoutItem)
						r.Post("/return", cfg.PullSheetHandler.ReturnItem)
					})
				})
			})
		}
	})

	return r
}
