package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/contractor-management/internal/auth"
	"github.com/frahmantamala/contractor-management/internal/notification"
	"github.com/frahmantamala/contractor-management/internal/quotation"
	"github.com/frahmantamala/contractor-management/internal/rfq"
	"github.com/frahmantamala/contractor-management/internal/transport/middleware"
	"github.com/frahmantamala/contractor-management/internal/transport/swagger"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authMiddleware *auth.Middleware, quotationHandler *quotation.Handler, rfqHandler *rfq.Handler, notificationHandler *notification.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(authMiddleware.Handler)

			if quotationHandler != nil {
				pr.Route("/quotations", func(qr chi.Router) {
					qr.Post("/", quotationHandler.CreateQuotation)   // POST /quotations
					qr.Get("/", quotationHandler.ListQuotations)     // GET /quotations
					qr.Get("/{id}", quotationHandler.GetQuotation)   // GET /quotations/:id
					qr.Patch("/{id}/status", quotationHandler.TransitionQuotation) // PATCH /quotations/:id/status
					qr.Patch("/{id}/reject", quotationHandler.RejectQuotation)     // PATCH /quotations/:id/reject
				})
			}

			if rfqHandler != nil {
				pr.Route("/rfqs", func(rr chi.Router) {
					rr.Post("/", rfqHandler.CreateRFQ)  // POST /rfqs
					rr.Get("/", rfqHandler.ListRFQs)    // GET /rfqs
					rr.Get("/{id}", rfqHandler.GetRFQ)  // GET /rfqs/:id
					rr.Patch("/{id}/status", rfqHandler.TransitionRFQ) // PATCH /rfqs/:id/status
				})
			}

			if notificationHandler != nil {
				pr.Get("/notifications", notificationHandler.ListNotifications)
			}
		})
	})
}
