package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/folio/internal/admin"
	"github.com/MrSnakeDoc/folio/internal/ai"
	"github.com/MrSnakeDoc/folio/internal/domain"
	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
	"github.com/MrSnakeDoc/folio/internal/importer"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/metrics"
	"github.com/MrSnakeDoc/folio/internal/utils"
)

// PasswordHeader carries the admin secret on GET endpoints.
const PasswordHeader = "X-Admin-Password"

const (
	msgUploadTooLarge  = "The upload is too large."
	msgBadUpload       = "The upload could not be read."
	msgNoImage         = "Please upload an image."
	msgAINotConfigured = "AI features are not configured. Set " + ai.CredentialEnv + " to enable them."
	msgAltTextFailed   = "Failed to generate alt text. Please check the server logs for details."
	msgAltTextOK       = "Alt text generated."
	msgExportFailed    = "Failed to export content."
	msgInboxDisabled   = "The inbox is disabled."
	msgInboxFailed     = "Failed to read the inbox."
)

type altTextResponse struct {
	domain.Result
	AltText string `json:"altText,omitempty"`
}

type messagesResponse struct {
	domain.Result
	Messages []domain.ContactMessage `json:"messages"`
}

// checkPassword runs the gate and writes the failure response.
func checkPassword(d deps.Deps, w http.ResponseWriter, r *http.Request, password string) bool {
	err := d.Gate.Check(password)
	if err == nil {
		return true
	}
	if errors.Is(err, admin.ErrNotConfigured) {
		d.Logger.Warn("admin request rejected: CONTENT_UPDATE_PASSWORD is unset or a placeholder",
			logger.String("path", r.URL.Path))
	}
	status := http.StatusUnauthorized
	if errors.Is(err, admin.ErrPasswordFormat) {
		status = http.StatusBadRequest
	}
	writeResult(w, status, admin.GateResult(err))
	return false
}

// Verify checks the admin password.
func Verify(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Password string `json:"password"`
		}
		err := decodeBody(r, &body, func(get func(string) string) { body.Password = get("password") })
		if err != nil {
			writeResult(w, http.StatusBadRequest, domain.Fail(admin.MsgPasswordFormat))
			return
		}
		if !checkPassword(d, w, r, body.Password) {
			return
		}
		writeResult(w, http.StatusOK, admin.GateResult(nil))
	}
}

// UpdateContent applies an uploaded content document and resumes.
func UpdateContent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !parseMultipart(d, w, r) {
			d.Metrics.ContentUpdate(metrics.OutcomeRejected)
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		if !checkPassword(d, w, r, r.FormValue("password")) {
			d.Metrics.ContentUpdate(metrics.OutcomeRejected)
			return
		}

		var up admin.Upload
		for field, dst := range map[string]**admin.Part{
			"file":            &up.Content,
			"resumeFile":      &up.Resume,
			"briefResumeFile": &up.BriefResume,
		} {
			part, err := formPart(r, field)
			if err != nil {
				d.Logger.Warn("failed to read upload", logger.String("field", field), logger.Error(err))
				d.Metrics.ContentUpdate(metrics.OutcomeRejected)
				writeResult(w, http.StatusBadRequest, domain.Fail(msgBadUpload))
				return
			}
			*dst = part
		}

		err := d.Updater.Update(r.Context(), up)
		res := admin.UpdateResult(err)

		var reject *admin.RejectError
		var parse *admin.ParseError
		switch {
		case err == nil:
			d.Metrics.ContentUpdate(metrics.OutcomeSuccess)
			writeResult(w, http.StatusOK, res)
		case errors.As(err, &reject), errors.As(err, &parse):
			d.Metrics.ContentUpdate(metrics.OutcomeRejected)
			writeResult(w, http.StatusBadRequest, res)
		default:
			d.Metrics.ContentUpdate(metrics.OutcomeFailed)
			writeResult(w, http.StatusInternalServerError, res)
		}
	}
}

// AltText generates alt text for an uploaded image.
func AltText(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !parseMultipart(d, w, r) {
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		if !checkPassword(d, w, r, r.FormValue("password")) {
			return
		}

		image, err := formPart(r, "image")
		if err != nil || image == nil || len(image.Data) == 0 {
			writeResult(w, http.StatusBadRequest, domain.Fail(msgNoImage))
			return
		}
		if d.AI == nil || !d.AI.Configured() {
			d.Metrics.AIRequest(metrics.FeatureAltText, metrics.OutcomeRejected)
			writeResult(w, http.StatusServiceUnavailable, domain.Fail(msgAINotConfigured))
			return
		}

		alt, err := d.AI.GenerateAltText(r.Context(), ai.AltTextInput{
			Image:       image.Data,
			MediaType:   image.MediaType,
			Description: r.FormValue("imageDescription"),
		})
		if err != nil {
			d.Logger.Error("failed to generate alt text", logger.Error(err))
			d.Metrics.AIRequest(metrics.FeatureAltText, metrics.OutcomeFailed)
			writeResult(w, http.StatusBadGateway, domain.Fail(msgAltTextFailed))
			return
		}

		d.Metrics.AIRequest(metrics.FeatureAltText, metrics.OutcomeSuccess)
		writeJSON(w, http.StatusOK, altTextResponse{Result: domain.Ok(msgAltTextOK), AltText: alt})
	}
}

// Export downloads the current content as an importable Markdown document.
func Export(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !checkPassword(d, w, r, r.Header.Get(PasswordHeader)) {
			return
		}

		data, err := d.Store.Load(r.Context())
		if err == nil {
			var out []byte
			if out, err = importer.Export(data); err == nil {
				w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
				w.Header().Set("Content-Disposition", `attachment; filename="content.md"`)
				w.Header().Set("Cache-Control", "no-store")
				_, _ = w.Write(out)
				return
			}
		}

		d.Logger.Error("failed to export content", logger.Error(err))
		writeResult(w, http.StatusInternalServerError, domain.Fail(msgExportFailed))
	}
}

// Messages lists recorded contact messages, newest first.
func Messages(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !checkPassword(d, w, r, r.Header.Get(PasswordHeader)) {
			return
		}
		if d.Inbox == nil {
			writeResult(w, http.StatusNotFound, domain.Fail(msgInboxDisabled))
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		msgs, err := d.Inbox.List(r.Context(), limit)
		if err != nil {
			d.Logger.Error("failed to list inbox", logger.Error(err))
			writeResult(w, http.StatusInternalServerError, domain.Fail(msgInboxFailed))
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, messagesResponse{
			Result:   domain.Ok(strconv.Itoa(len(msgs)) + " message(s)."),
			Messages: msgs,
		})
	}
}

// parseMultipart bounds and parses the request body.
func parseMultipart(d deps.Deps, w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, d.MaxUploadBytes)
	if err := r.ParseMultipartForm(d.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeResult(w, http.StatusRequestEntityTooLarge, domain.Fail(msgUploadTooLarge))
			return false
		}
		d.Logger.Debug("invalid multipart body", logger.Error(err))
		writeResult(w, http.StatusBadRequest, domain.Fail(msgBadUpload))
		return false
	}
	return true
}

// formPart returns nil when the field is absent or holds an empty file.
func formPart(r *http.Request, field string) (*admin.Part, error) {
	f, h, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer utils.Close(f)

	if h.Size == 0 {
		return nil, nil
	}
	return admin.ReadPart(f, h)
}
