package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/MrSnakeDoc/folio/internal/ai"
	"github.com/MrSnakeDoc/folio/internal/cache"
	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
)

type componentStatus struct {
	OK        bool   `json:"ok"`
	Mode      string `json:"mode,omitempty"`
	Items     *int   `json:"items,omitempty"`
	LastFlush string `json:"last_flush,omitempty"`
	Warning   string `json:"warning,omitempty"`
	Error     string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of every backing component. Optional
// integrations that are not configured show a warning, not a failure.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		components := map[string]componentStatus{
			"store":    checkStore(ctx, d),
			"cache":    checkCache(d),
			"redis":    checkRedis(ctx, d),
			"ai":       checkAI(d),
			"smtp":     checkSMTP(d),
			"password": checkGate(d),
			"inbox":    checkInbox(ctx, d),
		}

		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, infraResponse{
			Status:     overallStatus(components),
			Components: components,
		})
	}
}

func overallStatus(components map[string]componentStatus) string {
	if !components["store"].OK {
		return "critical"
	}
	for _, c := range components {
		if !c.OK || c.Warning != "" {
			return "degraded"
		}
	}
	return "operational"
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	data, err := d.Store.Load(ctx)
	if err != nil {
		return componentStatus{OK: false, Error: err.Error()}
	}
	n := len(data.PortfolioItems)
	return componentStatus{OK: true, Mode: d.Store.Path(), Items: &n}
}

func checkCache(d deps.Deps) componentStatus {
	mem, ok := d.Cache.(*cache.Memory)
	if !ok {
		return componentStatus{OK: true, Mode: "redis"}
	}
	n := mem.Count()
	status := componentStatus{OK: true, Mode: "memory", Items: &n, LastFlush: "never"}
	if last := mem.LastFlush(); !last.IsZero() {
		status.LastFlush = last.Format("2006-01-02 15:04:05")
	}
	return status
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{OK: true, Mode: "disabled"}
	}
	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{OK: false, Mode: "degraded", Error: "timeout"}
	}
	return componentStatus{OK: true, Mode: "optimal"}
}

func checkAI(d deps.Deps) componentStatus {
	if d.AI == nil || !d.AI.Configured() {
		return componentStatus{
			OK:      true,
			Mode:    "disabled",
			Warning: "AI features are disabled. Set " + ai.CredentialEnv + " to enable keywords and alt text.",
		}
	}
	return componentStatus{OK: true, Mode: d.AI.Model()}
}

func checkSMTP(d deps.Deps) componentStatus {
	if missing := d.SMTP.Missing(); len(missing) > 0 {
		return componentStatus{
			OK:      true,
			Mode:    "disabled",
			Warning: "Contact emails are not relayed. Missing: " + strings.Join(missing, ", "),
		}
	}
	return componentStatus{OK: true, Mode: d.SMTP.Host + ":" + d.SMTP.Port}
}

func checkGate(d deps.Deps) componentStatus {
	if !d.Gate.Configured() {
		return componentStatus{
			OK:      true,
			Mode:    "locked",
			Warning: "CONTENT_UPDATE_PASSWORD is unset or a placeholder; every admin request is rejected.",
		}
	}
	return componentStatus{OK: true, Mode: "enabled"}
}

func checkInbox(ctx context.Context, d deps.Deps) componentStatus {
	if d.Inbox == nil {
		return componentStatus{OK: true, Mode: "disabled"}
	}
	n, err := d.Inbox.Count(ctx)
	if err != nil {
		return componentStatus{OK: false, Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: "sqlite", Items: &n}
}
