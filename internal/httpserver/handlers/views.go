package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/folio/internal/domain"
	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/site"
)

const (
	msgProjectNotFound = "Project not found."
	msgViewFailed      = "Failed to load content."
)

// view adapts a site view builder to a JSON endpoint.
func view[T any](d deps.Deps, name string, build func(context.Context) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := build(r.Context())
		if err != nil {
			d.Logger.Error("failed to build view",
				logger.String("view", name),
				logger.Error(err))
			writeResult(w, http.StatusInternalServerError, domain.Fail(msgViewFailed))
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func SiteView(d deps.Deps) http.HandlerFunc      { return view(d, "site", d.Views.Site) }
func HomeView(d deps.Deps) http.HandlerFunc      { return view(d, "home", d.Views.Home) }
func AboutView(d deps.Deps) http.HandlerFunc     { return view(d, "about", d.Views.About) }
func PortfolioView(d deps.Deps) http.HandlerFunc { return view(d, "portfolio", d.Views.Portfolio) }
func ContactView(d deps.Deps) http.HandlerFunc   { return view(d, "contact", d.Views.Contact) }

// PortfolioItemView serves one item; unknown ids are a 404.
func PortfolioItemView(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		item, err := d.Views.PortfolioItem(r.Context(), id)
		switch {
		case errors.Is(err, site.ErrNotFound):
			writeResult(w, http.StatusNotFound, domain.Fail(msgProjectNotFound))
		case err != nil:
			d.Logger.Error("failed to build view",
				logger.String("view", "portfolio_item"),
				logger.String("id", id),
				logger.Error(err))
			writeResult(w, http.StatusInternalServerError, domain.Fail(msgViewFailed))
		default:
			writeJSON(w, http.StatusOK, item)
		}
	}
}
