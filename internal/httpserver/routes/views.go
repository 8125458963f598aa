package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
	"github.com/MrSnakeDoc/folio/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/folio/internal/httpserver/mw"
)

func init() { Register("views", registerViews) }

func registerViews(r chi.Router, d deps.Deps) {
	r.Route("/api", func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))
		r.Get("/site", handlers.SiteView(d))
		r.Get("/home", handlers.HomeView(d))
		r.Get("/about", handlers.AboutView(d))
		r.Get("/portfolio", handlers.PortfolioView(d))
		r.Get("/portfolio/{id}", handlers.PortfolioItemView(d))
		r.Get("/contact", handlers.ContactView(d))
		r.With(mw.RateLimit(d.ContactLimit)).Post("/contact", handlers.SubmitContact(d))
	})
}
