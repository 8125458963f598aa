package mw

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/folio/internal/domain"
)

// reject writes the JSON failure envelope every endpoint uses.
func reject(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.Fail(message))
}
