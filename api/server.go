/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /healthz              Liveness probe
  /metrics              Prometheus exposition (when configured)
  /api/labours/*        Labour register, balances, statements, events
  /api/events/*         Edit and delete events
  /api/admin/*          Batch recalculation
  /api/scenarios/*      Demo scenarios

SECURITY NOTE:
  No authentication middleware. Run behind an authenticating proxy.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions carries the optional parts of the router.
type RouterOptions struct {
	AllowedOrigins []string
	Metrics        http.Handler
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/labours", func(r chi.Router) {
			r.Get("/", h.ListLabours)
			r.Post("/", h.CreateLabour)
			r.Get("/{id}", h.GetLabour)
			r.Delete("/{id}", h.DeactivateLabour)
			r.Put("/{id}/opening-balance", h.SetOpeningBalance)
			r.Get("/{id}/balance", h.GetBalance)
			r.Get("/{id}/statement", h.GetStatement)
			r.Get("/{id}/summary", h.GetSummary)
			r.Get("/{id}/verify", h.VerifyLabour)
			r.Post("/{id}/entries", h.CreateEntry)
			r.Post("/{id}/payments", h.CreatePayment)
		})

		r.Route("/events", func(r chi.Router) {
			r.Patch("/{id}", h.EditEvent)
			r.Delete("/{id}", h.DeleteEvent)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/recalculate", h.RecalculateAll)
			r.Post("/recalculate/{id}", h.RecalculateLabour)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}
