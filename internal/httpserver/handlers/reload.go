package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/folio/internal/domain"
	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
	"github.com/MrSnakeDoc/folio/internal/logger"
)

// Reload asks the content reloader to flush cached views now.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeResult(w, http.StatusAccepted, domain.Ok("Reload triggered successfully."))
		default:
			d.Logger.Warn("reload already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			writeResult(w, http.StatusTooManyRequests, domain.Fail("Reload already in progress, please wait."))
		}
	}
}
