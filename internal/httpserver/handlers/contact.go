package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/folio/internal/contact"
	"github.com/MrSnakeDoc/folio/internal/domain"
	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
	"github.com/MrSnakeDoc/folio/internal/metrics"
)

const maxContactBody = 16 << 10

// SubmitContact relays the contact form and records it in the inbox.
func SubmitContact(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxContactBody)

		var f contact.Form
		err := decodeBody(r, &f, func(get func(string) string) {
			f.Name, f.Email, f.Message = get("name"), get("email"), get("message")
		})
		if err != nil {
			d.Metrics.ContactSubmission(metrics.OutcomeRejected)
			writeResult(w, http.StatusBadRequest, domain.Fail(contact.MsgInvalidForm))
			return
		}

		err = d.Contact.Submit(r.Context(), f)
		res := contact.ResultFor(err)
		switch {
		case err == nil:
			d.Metrics.ContactSubmission(metrics.OutcomeSuccess)
			writeResult(w, http.StatusOK, res)
		case errors.Is(err, contact.ErrInvalidForm):
			d.Metrics.ContactSubmission(metrics.OutcomeRejected)
			writeResult(w, http.StatusBadRequest, res)
		case errors.Is(err, contact.ErrSMTPNotConfigured):
			d.Metrics.ContactSubmission(metrics.OutcomeFailed)
			writeResult(w, http.StatusServiceUnavailable, res)
		default:
			d.Metrics.ContactSubmission(metrics.OutcomeFailed)
			writeResult(w, http.StatusBadGateway, res)
		}
	}
}
