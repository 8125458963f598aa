package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/folio/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	// Views carry rendered HTML.
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeResult(w http.ResponseWriter, status int, res domain.Result) {
	writeJSON(w, status, res)
}

// decodeBody reads a JSON body, or a urlencoded/multipart form into the
// fields named by form.
func decodeBody(r *http.Request, dst any, form func(get func(string) string)) error {
	switch ct := r.Header.Get("Content-Type"); {
	case ct == "", isJSON(ct):
		return json.NewDecoder(r.Body).Decode(dst)
	default:
		if err := r.ParseForm(); err != nil {
			return err
		}
		form(r.PostForm.Get)
		return nil
	}
}

func isJSON(contentType string) bool {
	return strings.HasPrefix(contentType, "application/json")
}
