package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// All API routes will be under /api
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/signup", apiHandler.SignupHandler)
		r.Post("/login", apiHandler.LoginHandler)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		// User-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.JWTAuthMiddleware)

			// Wearable data routes
			r.Get("/health-data", apiHandler.GetHealthDataHandler)
			r.Post("/health-data/sync", apiHandler.SyncHealthDataHandler)

			// Journal routes
			r.Post("/journal", apiHandler.CreateJournalEntryHandler)
			r.Get("/journal", apiHandler.ListJournalEntriesHandler)
			r.Get("/journal/{entryID}", apiHandler.GetJournalEntryHandler)
			r.Delete("/journal/{entryID}", apiHandler.DeleteJournalEntryHandler)
			r.Post("/journal/search", apiHandler.SearchJournalHandler)

			// Agent routes
			r.Post("/agent/query", apiHandler.AgentQueryHandler)
			r.Post("/agent/insights", apiHandler.AgentInsightsHandler)
		})
	})

	return r
}
