package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
)

func init() { Register("static", registerStatic) }

// Everything not matched above is served from the public directory,
// uploaded resumes included.
func registerStatic(r chi.Router, d deps.Deps) {
	if d.PublicDir == "" {
		return
	}
	r.Get("/*", http.FileServer(http.Dir(d.PublicDir)).ServeHTTP)
}
