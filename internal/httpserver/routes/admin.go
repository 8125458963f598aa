package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
	"github.com/MrSnakeDoc/folio/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/folio/internal/httpserver/mw"
)

func init() { Register("admin", registerAdmin) }

// Admin endpoints share one limiter so password guessing is bounded
// across all of them.
func registerAdmin(r chi.Router, d deps.Deps) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger), mw.RateLimit(d.AdminLimit))
		r.Post("/verify", handlers.Verify(d))
		r.Post("/content", handlers.UpdateContent(d))
		r.Post("/alt-text", handlers.AltText(d))
		r.Get("/export", handlers.Export(d))
		r.Get("/messages", handlers.Messages(d))
	})
}
